package entity

import "github.com/shopspring/decimal"

// BudgetInfo represents a budget with actual and forecasted spend.
type BudgetInfo struct {
	Name     string          `json:"name"`
	Limit    decimal.Decimal `json:"limit"`
	Actual   decimal.Decimal `json:"actual"`
	Forecast decimal.Decimal `json:"forecast,omitempty"`
}

// UsagePercent returns Actual as a percentage of Limit, or zero when no limit is set.
func (b BudgetInfo) UsagePercent() float64 {
	if b.Limit.IsZero() {
		return 0
	}
	pct, _ := b.Actual.Div(b.Limit).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}
