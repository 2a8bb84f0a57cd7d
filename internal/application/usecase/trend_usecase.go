package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/diillson/aws-cost-trends/internal/domain/analysis"
	"github.com/diillson/aws-cost-trends/internal/domain/entity"
	"github.com/diillson/aws-cost-trends/internal/domain/repository"
	"github.com/diillson/aws-cost-trends/internal/shared/types"
	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultLookbackDays é a janela padrão de histórico consultada no Cost Explorer.
	DefaultLookbackDays = 180
	MaxLookbackDays     = 365
	DefaultConcurrency  = 4
)

// TrendUseCase conduz a análise de tendência de custos conta a conta.
type TrendUseCase struct {
	awsRepo    repository.AWSRepository
	exportRepo repository.ExportRepository
	configRepo repository.ConfigRepository
	console    types.ConsoleInterface

	now      func() time.Time
	newRunID func() string
}

// NewTrendUseCase creates a new trend use case.
func NewTrendUseCase(
	awsRepo repository.AWSRepository,
	exportRepo repository.ExportRepository,
	configRepo repository.ConfigRepository,
	console types.ConsoleInterface,
) *TrendUseCase {
	return &TrendUseCase{
		awsRepo:    awsRepo,
		exportRepo: exportRepo,
		configRepo: configRepo,
		console:    console,
		now:        time.Now,
		newRunID:   func() string { return uuid.NewString() },
	}
}

// LoadConfig loads a configuration file through the config repository.
func (uc *TrendUseCase) LoadConfig(path string) (*types.Config, error) {
	return uc.configRepo.LoadConfigFile(path)
}

// accountResult é o que cada goroutine devolve para uma conta.
type accountResult struct {
	report  entity.AccountReport
	skipped *entity.SkippedAccount
}

// RunTrendAnalysis executa o pipeline completo e devolve o resumo da execução.
func (uc *TrendUseCase) RunTrendAnalysis(ctx context.Context, args *types.CLIArgs) (entity.RunSummary, error) {
	summary := entity.RunSummary{RunID: uc.newRunID()}
	if args.Debug {
		uc.console.EnableDebug()
	}

	lookback := args.LookbackDays
	if lookback == 0 {
		lookback = DefaultLookbackDays
	}
	if lookback < 0 || lookback > MaxLookbackDays {
		return summary, types.ErrInvalidLookback
	}

	profiles, skipped, err := uc.InitializeProfiles(args)
	if err != nil {
		return summary, err
	}
	summary.Skipped = append(summary.Skipped, skipped...)

	groups, skipped := uc.ResolveGroups(ctx, profiles, args.Combine)
	summary.Skipped = append(summary.Skipped, skipped...)

	start, end := LookbackWindow(uc.now(), lookback)
	uc.console.LogInfo("Gathering costs from %s to %s for %d account(s)...",
		start.Format("2006-01-02"), end.Format("2006-01-02"), len(groups))
	uc.console.LogDebug("run started", "run_id", summary.RunID, "lookback_days", lookback, "combine", args.Combine)

	results, err := uc.analyzeAll(ctx, groups, start, end, args)
	if err != nil {
		return summary, err
	}

	for _, result := range results {
		if result.skipped != nil {
			uc.console.LogError("Skipping %s: %s (%s)", result.skipped.Profile, result.skipped.Reason, result.skipped.Detail)
			summary.Skipped = append(summary.Skipped, *result.skipped)
			continue
		}

		report := result.report
		uc.console.Println()
		uc.console.Printf("%s\n", pterm.FgYellow.Sprintf("== Working on %s (Account: %s) ...", report.Profile, report.AccountID))

		artifacts, err := uc.emitAccount(report, args)
		if err != nil {
			uc.console.LogError("Failed to write reports for %s: %s", report.Profile, err)
			summary.Skipped = append(summary.Skipped, entity.SkippedAccount{
				Profile: report.Profile,
				Reason:  entity.SkipEmitFailed,
				Detail:  err.Error(),
			})
			continue
		}
		report.Artifacts = artifacts

		uc.displayAccount(report)
		summary.Reports = append(summary.Reports, report)
		uc.console.LogSuccess("Done with %s", report.Profile)
	}

	if len(summary.Reports) > 0 && !args.NoCharts {
		path, err := uc.exportRepo.ExportAllAccountsChart(summary.Reports, args.Dir)
		if err != nil {
			uc.console.LogWarning("Could not plot all accounts: %s", err)
		} else {
			uc.console.LogSuccess("Success in plotting all accounts: %s", path)
			summary.Artifacts = append(summary.Artifacts, path)
		}
	}

	uc.exportRunReports(&summary, args)
	uc.uploadArtifacts(ctx, &summary, args)
	uc.displaySkipped(summary.Skipped)

	if len(summary.Reports) == 0 {
		return summary, types.ErrNoAccountsAnalysed
	}
	return summary, nil
}

// InitializeProfiles decide quais perfis analisar. Perfis excluídos ou inexistentes
// são devolvidos como contas ignoradas em vez de abortar a execução.
func (uc *TrendUseCase) InitializeProfiles(args *types.CLIArgs) ([]string, []entity.SkippedAccount, error) {
	availableProfiles := uc.awsRepo.GetAWSProfiles()
	if len(availableProfiles) == 0 {
		return nil, nil, types.ErrNoProfilesFound
	}

	available := make(map[string]bool, len(availableProfiles))
	for _, p := range availableProfiles {
		available[p] = true
	}
	excluded := make(map[string]bool, len(args.ExcludeProfiles))
	for _, p := range args.ExcludeProfiles {
		excluded[strings.ToLower(strings.TrimSpace(p))] = true
	}

	var candidates []string
	var skipped []entity.SkippedAccount

	switch {
	case len(args.Profiles) > 0:
		for _, profile := range args.Profiles {
			if !available[profile] {
				uc.console.LogWarning("Profile '%s' not found in AWS configuration", profile)
				skipped = append(skipped, entity.SkippedAccount{Profile: profile, Reason: entity.SkipProfileNotFound})
				continue
			}
			candidates = append(candidates, profile)
		}
		if len(candidates) == 0 {
			return nil, skipped, types.ErrNoValidProfilesFound
		}
	case args.All:
		candidates = availableProfiles
	default:
		if available["default"] {
			candidates = []string{"default"}
		} else {
			candidates = availableProfiles
			uc.console.LogWarning("No default profile found. Using all available profiles.")
		}
	}

	seen := make(map[string]bool, len(candidates))
	profiles := make([]string, 0, len(candidates))
	for _, profile := range candidates {
		if seen[profile] {
			continue
		}
		seen[profile] = true
		if excluded[strings.ToLower(profile)] {
			skipped = append(skipped, entity.SkippedAccount{Profile: profile, Reason: entity.SkipExcluded})
			continue
		}
		profiles = append(profiles, profile)
	}

	if len(profiles) == 0 {
		return nil, skipped, types.ErrNoValidProfilesFound
	}

	uc.console.LogInfo("All Available Profiles: %s", strings.Join(profiles, ","))
	return profiles, skipped, nil
}

// ResolveGroups monta as unidades de trabalho. Com combine, perfis da mesma conta
// viram um único grupo e a conta é consultada apenas uma vez.
func (uc *TrendUseCase) ResolveGroups(ctx context.Context, profiles []string, combine bool) ([]entity.ProfileGroup, []entity.SkippedAccount) {
	if !combine {
		groups := make([]entity.ProfileGroup, 0, len(profiles))
		for _, p := range profiles {
			groups = append(groups, entity.ProfileGroup{Identifier: p, Profiles: []string{p}})
		}
		return groups, nil
	}

	status := uc.console.Status("Grouping profiles by AWS account...")
	defer status.Stop()

	var skipped []entity.SkippedAccount
	var order []string
	byAccount := make(map[string][]string)
	for _, profile := range profiles {
		status.Update(fmt.Sprintf("Checking account ID for %s...", profile))
		accountID, err := uc.awsRepo.GetAccountID(ctx, profile)
		if err != nil {
			uc.console.LogError("Error checking account ID for profile %s: %s", profile, err)
			skipped = append(skipped, entity.SkippedAccount{
				Profile: profile,
				Reason:  entity.SkipSourceUnavailable,
				Detail:  err.Error(),
			})
			continue
		}
		if _, ok := byAccount[accountID]; !ok {
			order = append(order, accountID)
		}
		byAccount[accountID] = append(byAccount[accountID], profile)
	}

	groups := make([]entity.ProfileGroup, 0, len(order))
	for _, accountID := range order {
		members := byAccount[accountID]
		groups = append(groups, entity.ProfileGroup{
			Identifier: strings.Join(members, ", "),
			AccountID:  accountID,
			Profiles:   members,
			IsCombined: len(members) > 1,
		})
	}
	return groups, skipped
}

// LookbackWindow devolve [início, fim) em UTC, terminando no dia atual.
func LookbackWindow(now time.Time, days int) (time.Time, time.Time) {
	now = now.UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return end.AddDate(0, 0, -days), end
}

// analyzeAll busca e analisa as contas em paralelo. Cada goroutine possui seus
// próprios períodos, histórico e totais; o resultado é guardado pelo índice.
func (uc *TrendUseCase) analyzeAll(ctx context.Context, groups []entity.ProfileGroup, start, end time.Time, args *types.CLIArgs) ([]accountResult, error) {
	results := make([]accountResult, len(groups))
	if len(groups) == 0 {
		return results, nil
	}

	limit := args.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	progress := uc.console.ProgressWithTotal(len(groups))
	defer progress.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, group := range groups {
		i, group := i, group
		g.Go(func() error {
			defer progress.Increment()
			results[i] = uc.AnalyzeAccount(gctx, group, start, end, args)
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// AnalyzeAccount executa o núcleo (normalização + classificação) para uma conta.
func (uc *TrendUseCase) AnalyzeAccount(ctx context.Context, group entity.ProfileGroup, start, end time.Time, args *types.CLIArgs) accountResult {
	profile := group.PrimaryProfile()
	skip := func(reason entity.SkipReason, err error) accountResult {
		return accountResult{skipped: &entity.SkippedAccount{
			Profile: group.Identifier,
			Reason:  reason,
			Detail:  err.Error(),
		}}
	}

	periods, err := uc.awsRepo.GetCostPeriods(ctx, profile, start, end, args.Tag)
	if err != nil {
		return skip(entity.SkipSourceUnavailable, err)
	}
	uc.console.LogDebug("cost periods gathered", "profile", profile, "periods", len(periods))

	normalized, trends, err := analysis.Analyze(periods)
	if err != nil {
		return skip(entity.SkipNormalization, err)
	}

	report := entity.AccountReport{
		Profile:    group.Identifier,
		AccountID:  group.AccountID,
		Unit:       entity.CostUnit,
		Totals:     normalized.Totals,
		GrandTotal: normalized.GrandTotal(),
		Trends:     trends,
	}
	if group.IsCombined {
		report.Profiles = group.Profiles
	}

	if report.AccountID == "" {
		if accountID, err := uc.awsRepo.GetAccountID(ctx, profile); err == nil {
			report.AccountID = accountID
		} else {
			report.AccountID = "Unknown"
			uc.console.LogDebug("account id unavailable", "profile", profile, "error", err)
		}
	}

	if args.Budgets {
		budgets, err := uc.awsRepo.GetBudgets(ctx, profile)
		if err != nil {
			uc.console.LogDebug("budgets unavailable", "profile", profile, "error", err)
		}
		report.Budgets = budgets
	}

	uc.console.LogDebug("account analysed",
		"profile", profile,
		"months", len(report.Totals),
		"services", normalized.History.Len(),
		"classified", len(trends))
	return accountResult{report: report}
}

// emitAccount grava o CSV mensal (obrigatório) e o gráfico da conta.
func (uc *TrendUseCase) emitAccount(report entity.AccountReport, args *types.CLIArgs) ([]string, error) {
	csvPath, err := uc.exportRepo.ExportMonthlyCSV(report.Profile, report.Totals, args.Dir)
	if err != nil {
		return nil, err
	}
	uc.console.LogSuccess("Success in creating the CSV: %s", csvPath)
	artifacts := []string{csvPath}

	if args.NoCharts || len(report.Totals) == 0 {
		return artifacts, nil
	}

	pngPath, err := uc.exportRepo.ExportMonthlyChart(report.Profile, report.Totals, args.Dir)
	if err != nil {
		uc.console.LogWarning("Could not plot %s: %s", report.Profile, err)
		return artifacts, nil
	}
	uc.console.LogSuccess("Success in plotting: %s", pngPath)
	return append(artifacts, pngPath), nil
}

func (uc *TrendUseCase) displayAccount(report entity.AccountReport) {
	uc.console.DisplayTrendBars(report.Totals)

	var sb strings.Builder
	sb.WriteString("=== Summary:")
	for _, t := range report.Totals {
		fmt.Fprintf(&sb, "\n==== Total cost in %s of %d = %s (%s)", t.Month, t.Year, t.TotalCost.String(), report.Unit)
	}
	uc.console.Println(sb.String())

	uc.console.DisplayServiceTrends(report.Trends)

	if len(report.Budgets) > 0 {
		table := uc.console.CreateTable()
		table.AddColumn("Budget")
		table.AddColumn("Limit")
		table.AddColumn("Actual")
		table.AddColumn("Forecast")
		table.AddColumn("Used")
		for _, b := range report.Budgets {
			table.AddRow(b.Name,
				"$"+b.Limit.StringFixed(2),
				"$"+b.Actual.StringFixed(2),
				"$"+b.Forecast.StringFixed(2),
				fmt.Sprintf("%.1f%%", b.UsagePercent()))
		}
		uc.console.Print(table.Render())
	}
}

// exportRunReports exporta os relatórios consolidados pedidos em --report-type.
func (uc *TrendUseCase) exportRunReports(summary *entity.RunSummary, args *types.CLIArgs) {
	if args.ReportName == "" || len(args.ReportType) == 0 {
		return
	}

	for _, reportType := range args.ReportType {
		var path string
		var err error
		switch strings.ToLower(reportType) {
		case "csv":
			path, err = uc.exportRepo.ExportToCSV(*summary, args.ReportName, args.Dir)
		case "json":
			path, err = uc.exportRepo.ExportToJSON(*summary, args.ReportName, args.Dir)
		case "pdf":
			path, err = uc.exportRepo.ExportToPDF(*summary, args.ReportName, args.Dir)
		default:
			err = fmt.Errorf("%w: %s", types.ErrUnsupportedReportType, reportType)
		}
		if err != nil {
			uc.console.LogError("Failed to export to %s: %s", strings.ToUpper(reportType), err)
			continue
		}
		uc.console.LogSuccess("Successfully exported to %s: %s", strings.ToUpper(reportType), path)
		summary.Artifacts = append(summary.Artifacts, path)
	}
}

// uploadArtifacts envia para o S3 todos os arquivos gerados na execução.
func (uc *TrendUseCase) uploadArtifacts(ctx context.Context, summary *entity.RunSummary, args *types.CLIArgs) {
	if args.UploadBucket == "" || len(summary.Reports) == 0 {
		return
	}

	profile := args.UploadProfile
	if profile == "" {
		profile = strings.Split(summary.Reports[0].Profile, ", ")[0]
	}

	var paths []string
	for _, report := range summary.Reports {
		paths = append(paths, report.Artifacts...)
	}
	paths = append(paths, summary.Artifacts...)

	for _, path := range paths {
		key := ArtifactKey(summary.RunID, args.Dir, path)
		if err := uc.awsRepo.UploadArtifact(ctx, profile, args.UploadBucket, key, path); err != nil {
			uc.console.LogError("Failed to upload %s: %s", path, err)
			continue
		}
		summary.Uploaded = append(summary.Uploaded, fmt.Sprintf("s3://%s/%s", args.UploadBucket, key))
	}
	if len(summary.Uploaded) > 0 {
		uc.console.LogSuccess("Uploaded %d file(s) to s3://%s", len(summary.Uploaded), args.UploadBucket)
	}
}

// ArtifactKey monta a chave S3 de um artefato: o caminho relativo ao diretório
// de saída, sob o prefixo da execução.
func ArtifactKey(runID, dir, path string) string {
	rel := filepath.Base(path)
	if base, err := filepath.Abs(dir); err == nil {
		if r, err := filepath.Rel(base, path); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}
	return "aws-cost-trends/" + runID + "/" + filepath.ToSlash(rel)
}

func (uc *TrendUseCase) displaySkipped(skipped []entity.SkippedAccount) {
	if len(skipped) == 0 {
		return
	}
	table := uc.console.CreateTable()
	table.AddColumn("Profile")
	table.AddColumn("Reason")
	table.AddColumn("Detail")
	for _, s := range skipped {
		table.AddRow(s.Profile, string(s.Reason), s.Detail)
	}
	uc.console.LogWarning("%d account(s) were skipped:", len(skipped))
	uc.console.Print(table.Render())
}
