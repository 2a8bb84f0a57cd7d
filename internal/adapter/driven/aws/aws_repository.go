package aws

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/budgets"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/diillson/aws-cost-trends/internal/domain/entity"
	"github.com/diillson/aws-cost-trends/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const (
	costMetric        = "UnblendedCost"
	defaultMaxRetries = 5
)

// Cost Explorer e Budgets só respondem em us-east-1.
const billingRegion = "us-east-1"

// AWSRepositoryImpl implementa o AWSRepository com cache de clientes.
type AWSRepositoryImpl struct {
	cfgCache    map[string]aws.Config
	clientCache map[string]interface{}
	maxRetries  int
	mu          sync.Mutex
}

// NewAWSRepository cria uma nova implementação do AWSRepository.
func NewAWSRepository() repository.AWSRepository {
	return &AWSRepositoryImpl{
		cfgCache:    make(map[string]aws.Config),
		clientCache: make(map[string]interface{}),
		maxRetries:  defaultMaxRetries,
	}
}

func (r *AWSRepositoryImpl) getAWSConfig(ctx context.Context, profile string) (aws.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg, ok := r.cfgCache[profile]; ok {
		return cfg, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithSharedConfigProfile(profile),
		config.WithRetryMaxAttempts(r.maxRetries),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config for profile %s: %w", profile, err)
	}

	r.cfgCache[profile] = cfg
	return cfg, nil
}

func (r *AWSRepositoryImpl) getServiceClient(ctx context.Context, profile, region, service string) (interface{}, error) {
	cacheKey := fmt.Sprintf("%s-%s-%s", profile, region, service)

	r.mu.Lock()
	if client, ok := r.clientCache[cacheKey]; ok {
		r.mu.Unlock()
		return client, nil
	}
	r.mu.Unlock()

	cfg, err := r.getAWSConfig(ctx, profile)
	if err != nil {
		return nil, err
	}

	regionalCfg := cfg.Copy()
	if region != "" {
		regionalCfg.Region = region
	}

	var client interface{}
	switch service {
	case "sts":
		client = sts.NewFromConfig(regionalCfg)
	case "costexplorer":
		regionalCfg.Region = billingRegion
		client = costexplorer.NewFromConfig(regionalCfg)
	case "budgets":
		regionalCfg.Region = billingRegion
		client = budgets.NewFromConfig(regionalCfg)
	case "s3":
		client = s3.NewFromConfig(regionalCfg)
	default:
		return nil, fmt.Errorf("unsupported service: %s", service)
	}

	r.mu.Lock()
	r.clientCache[cacheKey] = client
	r.mu.Unlock()

	return client, nil
}

// GetAWSProfiles lista os perfis definidos nos arquivos compartilhados do AWS CLI.
// AWS_SHARED_CREDENTIALS_FILE e AWS_CONFIG_FILE são respeitados como no SDK.
func (r *AWSRepositoryImpl) GetAWSProfiles() []string {
	credentialsPath := os.Getenv("AWS_SHARED_CREDENTIALS_FILE")
	configPath := os.Getenv("AWS_CONFIG_FILE")

	if credentialsPath == "" || configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return []string{"default"}
		}
		if credentialsPath == "" {
			credentialsPath = filepath.Join(homeDir, ".aws", "credentials")
		}
		if configPath == "" {
			configPath = filepath.Join(homeDir, ".aws", "config")
		}
	}

	profiles := make(map[string]bool)
	profileRegex := regexp.MustCompile(`(?m)^\s*\[([^]]+)\]`)

	parseFile := func(path string, isConfig bool) {
		content, err := os.ReadFile(path)
		if err != nil {
			return
		}
		matches := profileRegex.FindAllStringSubmatch(string(content), -1)
		for _, match := range matches {
			profileName := strings.TrimSpace(match[1])
			if isConfig {
				// sso-session e services não são perfis
				if strings.HasPrefix(profileName, "sso-session ") || strings.HasPrefix(profileName, "services ") {
					continue
				}
				profileName = strings.TrimPrefix(profileName, "profile ")
			}
			profiles[profileName] = true
		}
	}

	parseFile(credentialsPath, false)
	parseFile(configPath, true)

	if len(profiles) == 0 {
		profiles["default"] = true
	}

	result := make([]string, 0, len(profiles))
	for profile := range profiles {
		result = append(result, profile)
	}
	sort.Strings(result)
	return result
}

func (r *AWSRepositoryImpl) GetAccountID(ctx context.Context, profile string) (string, error) {
	client, err := r.getServiceClient(ctx, profile, billingRegion, "sts")
	if err != nil {
		return "", err
	}
	stsClient := client.(*sts.Client)

	result, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("error getting account ID for profile %s: %w", profile, err)
	}
	return aws.ToString(result.Account), nil
}

// GetCostPeriods busca os custos mensais agrupados por conta vinculada e serviço,
// percorrendo todas as páginas do Cost Explorer.
func (r *AWSRepositoryImpl) GetCostPeriods(ctx context.Context, profile string, start, end time.Time, tags []string) ([]entity.CostPeriod, error) {
	client, err := r.getServiceClient(ctx, profile, "", "costexplorer")
	if err != nil {
		return nil, err
	}

	filter, err := parseTagFilter(tags)
	if err != nil {
		return nil, err
	}

	periods, err := fetchCostPeriods(ctx, client.(*costexplorer.Client), start, end, filter)
	if err != nil {
		return nil, fmt.Errorf("error gathering costs for profile %s: %w", profile, err)
	}
	return periods, nil
}

func (r *AWSRepositoryImpl) GetBudgets(ctx context.Context, profile string) ([]entity.BudgetInfo, error) {
	client, err := r.getServiceClient(ctx, profile, "", "budgets")
	if err != nil {
		return nil, err
	}
	budgetsClient := client.(*budgets.Client)

	accountID, err := r.GetAccountID(ctx, profile)
	if err != nil {
		return nil, err
	}

	var budgetsData []entity.BudgetInfo
	paginator := budgets.NewDescribeBudgetsPaginator(budgetsClient, &budgets.DescribeBudgetsInput{
		AccountId: aws.String(accountID),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error describing budgets for profile %s: %w", profile, err)
		}
		for _, budget := range page.Budgets {
			b := entity.BudgetInfo{Name: aws.ToString(budget.BudgetName)}
			if budget.BudgetLimit != nil {
				b.Limit = parseAmount(budget.BudgetLimit.Amount)
			}
			if budget.CalculatedSpend != nil {
				if budget.CalculatedSpend.ActualSpend != nil {
					b.Actual = parseAmount(budget.CalculatedSpend.ActualSpend.Amount)
				}
				if budget.CalculatedSpend.ForecastedSpend != nil {
					b.Forecast = parseAmount(budget.CalculatedSpend.ForecastedSpend.Amount)
				}
			}
			budgetsData = append(budgetsData, b)
		}
	}

	return budgetsData, nil
}

// UploadArtifact envia um arquivo gerado para o bucket S3 informado.
func (r *AWSRepositoryImpl) UploadArtifact(ctx context.Context, profile, bucket, key, path string) error {
	client, err := r.getServiceClient(ctx, profile, "", "s3")
	if err != nil {
		return err
	}
	s3Client := client.(*s3.Client)

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening artifact %s: %w", path, err)
	}
	defer file.Close()

	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   file,
	}
	if contentType := mime.TypeByExtension(filepath.Ext(path)); contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s3Client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("error uploading %s to s3://%s/%s: %w", path, bucket, key, err)
	}
	return nil
}

func parseAmount(amount *string) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(*amount)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseTagFilter(tags []string) (*ceTypes.Expression, error) {
	if len(tags) == 0 {
		return nil, nil
	}

	var expressions []ceTypes.Expression
	for _, t := range tags {
		parts := strings.SplitN(t, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid tag format: %s", t)
		}
		expressions = append(expressions, ceTypes.Expression{
			Tags: &ceTypes.TagValues{
				Key:    aws.String(parts[0]),
				Values: []string{parts[1]},
			},
		})
	}

	if len(expressions) == 1 {
		return &expressions[0], nil
	}

	return &ceTypes.Expression{And: expressions}, nil
}
