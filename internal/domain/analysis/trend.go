package analysis

import (
	"math"

	"github.com/diillson/aws-cost-trends/internal/domain/entity"
	"gonum.org/v1/gonum/stat"
)

// MinTrendPoints is the shortest history that gets classified.
const MinTrendPoints = 2

// ClassifySlope maps a regression slope to its label.
//
//	slope > 10         VERY_SIGNIFICANT_INCREASE
//	1 < slope <= 10    SIGNIFICANT_INCREASE
//	0.5 < slope <= 1   INCREASE
//	0 <= slope <= 0.5  NO_CHANGE
//	slope < 0          DECREASE
func ClassifySlope(slope float64) entity.TrendLabel {
	switch {
	case math.IsNaN(slope):
		return entity.TrendNoChange
	case slope > 10:
		return entity.TrendVerySignificantIncrease
	case slope > 1:
		return entity.TrendSignificantIncrease
	case slope > 0.5:
		return entity.TrendIncrease
	case slope >= 0:
		return entity.TrendNoChange
	default:
		return entity.TrendDecrease
	}
}

// FitSlope fits y = slope*x + intercept by ordinary least squares over
// x = 0..n-1. Callers must pass at least two values.
func FitSlope(values []float64) (slope, intercept float64) {
	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}
	intercept, slope = stat.LinearRegression(xs, values, nil, false)
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return 0, stat.Mean(values, nil)
	}
	return slope, intercept
}

// Classify produz a classificação de tendência de cada serviço com pelo menos
// MinTrendPoints valores, na ordem em que os serviços foram descobertos.
func Classify(history *ServiceHistory) []entity.ServiceTrend {
	if history == nil {
		return nil
	}

	trends := make([]entity.ServiceTrend, 0, history.Len())
	for _, service := range history.Services() {
		series := history.Values(service)
		if len(series) < MinTrendPoints {
			continue
		}

		ys := make([]float64, len(series))
		for i, v := range series {
			ys[i] = v.InexactFloat64()
		}
		slope, intercept := FitSlope(ys)

		trends = append(trends, entity.ServiceTrend{
			Service:   service,
			Label:     ClassifySlope(slope),
			Slope:     slope,
			Intercept: intercept,
			Points:    len(series),
		})
	}
	return trends
}

// Analyze runs normalization and classification for one account.
func Analyze(periods []entity.CostPeriod) (NormalizedAccount, []entity.ServiceTrend, error) {
	normalized, err := Normalize(periods)
	if err != nil {
		return NormalizedAccount{}, nil, err
	}
	return normalized, Classify(normalized.History), nil
}
