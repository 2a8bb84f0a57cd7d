package entity

import (
	"github.com/shopspring/decimal"
)

// AccountReport agrega tudo o que foi produzido para uma conta em uma execução.
type AccountReport struct {
	Profile    string                `json:"profile"`
	Profiles   []string              `json:"profiles,omitempty"`
	AccountID  string                `json:"account_id"`
	Unit       string                `json:"unit"`
	Totals     []AccountMonthlyTotal `json:"monthly_totals"`
	GrandTotal decimal.Decimal       `json:"grand_total"`
	Trends     []ServiceTrend        `json:"trends"`
	Budgets    []BudgetInfo          `json:"budgets,omitempty"`
	Artifacts  []string              `json:"artifacts,omitempty"`
}

// SkipReason explains why an account produced no report.
type SkipReason string

const (
	SkipExcluded          SkipReason = "excluded"
	SkipProfileNotFound   SkipReason = "profile not found"
	SkipSourceUnavailable SkipReason = "cost explorer unavailable"
	SkipNormalization     SkipReason = "normalization failed"
	SkipEmitFailed        SkipReason = "report emission failed"
)

// SkippedAccount substitui a antiga lista global de perfis ignorados.
type SkippedAccount struct {
	Profile string     `json:"profile"`
	Reason  SkipReason `json:"reason"`
	Detail  string     `json:"detail,omitempty"`
}

// RunSummary is the outcome of one pipeline run across all accounts.
type RunSummary struct {
	RunID    string           `json:"run_id"`
	Reports  []AccountReport  `json:"reports"`
	Skipped  []SkippedAccount `json:"skipped,omitempty"`

	// Artifacts guarda os arquivos gerados para a execução inteira (all_plots, relatórios consolidados).
	Artifacts []string `json:"artifacts,omitempty"`
	Uploaded  []string `json:"uploaded,omitempty"`
}
