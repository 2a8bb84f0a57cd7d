package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/diillson/aws-cost-trends/internal/domain/entity"
)

const ceDateLayout = "2006-01-02"

// costExplorerAPI é o subconjunto do cliente do Cost Explorer usado aqui.
type costExplorerAPI interface {
	GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}

func costAndUsageInput(start, end time.Time, filter *ceTypes.Expression) *costexplorer.GetCostAndUsageInput {
	return &costexplorer.GetCostAndUsageInput{
		TimePeriod: &ceTypes.DateInterval{
			Start: aws.String(start.Format(ceDateLayout)),
			End:   aws.String(end.Format(ceDateLayout)),
		},
		Granularity: ceTypes.GranularityMonthly,
		Metrics:     []string{costMetric},
		GroupBy: []ceTypes.GroupDefinition{
			{Type: ceTypes.GroupDefinitionTypeDimension, Key: aws.String("LINKED_ACCOUNT")},
			{Type: ceTypes.GroupDefinitionTypeDimension, Key: aws.String("SERVICE")},
		},
		Filter: filter,
	}
}

// fetchCostPeriods follows NextPageToken until exhausted and returns the
// periods in arrival order. A period split across pages yields one entry per
// page; they are merged when their start dates match.
func fetchCostPeriods(ctx context.Context, client costExplorerAPI, start, end time.Time, filter *ceTypes.Expression) ([]entity.CostPeriod, error) {
	var periods []entity.CostPeriod
	index := make(map[string]int)

	var token *string
	for {
		input := costAndUsageInput(start, end, filter)
		input.NextPageToken = token

		output, err := client.GetCostAndUsage(ctx, input)
		if err != nil {
			return nil, err
		}

		for _, result := range output.ResultsByTime {
			period, err := toCostPeriod(result)
			if err != nil {
				return nil, err
			}
			key := period.PeriodStart.Format(ceDateLayout)
			if i, ok := index[key]; ok {
				periods[i].Groups = append(periods[i].Groups, period.Groups...)
				periods[i].Estimated = periods[i].Estimated || period.Estimated
				continue
			}
			index[key] = len(periods)
			periods = append(periods, period)
		}

		token = output.NextPageToken
		if token == nil || *token == "" {
			break
		}
	}

	return periods, nil
}

func toCostPeriod(result ceTypes.ResultByTime) (entity.CostPeriod, error) {
	if result.TimePeriod == nil || result.TimePeriod.Start == nil {
		return entity.CostPeriod{}, fmt.Errorf("cost explorer returned a period without start date")
	}
	start, err := time.Parse(ceDateLayout, *result.TimePeriod.Start)
	if err != nil {
		return entity.CostPeriod{}, fmt.Errorf("invalid period start %q: %w", *result.TimePeriod.Start, err)
	}

	period := entity.CostPeriod{
		PeriodStart: start,
		Estimated:   result.Estimated,
		Groups:      make([]entity.CostGroup, 0, len(result.Groups)),
	}

	for _, group := range result.Groups {
		g := entity.CostGroup{}
		switch len(group.Keys) {
		case 0:
			continue
		case 1:
			g.ServiceKey = group.Keys[0]
		default:
			g.AccountKey = group.Keys[0]
			g.ServiceKey = group.Keys[1]
		}
		// Valor ausente vira string vazia e falha na normalização.
		if metric, ok := group.Metrics[costMetric]; ok {
			g.Amount = aws.ToString(metric.Amount)
		}
		period.Groups = append(period.Groups, g)
	}

	return period, nil
}
