package repository

import (
	"github.com/diillson/aws-cost-trends/internal/domain/entity"
)

type ExportRepository interface {
	// Per-account artifacts
	ExportMonthlyCSV(profile string, totals []entity.AccountMonthlyTotal, outputDir string) (string, error)
	ExportMonthlyChart(profile string, totals []entity.AccountMonthlyTotal, outputDir string) (string, error)
	ExportAllAccountsChart(reports []entity.AccountReport, outputDir string) (string, error)

	// Consolidated run reports
	ExportToCSV(summary entity.RunSummary, filename, outputDir string) (string, error)
	ExportToJSON(summary entity.RunSummary, filename, outputDir string) (string, error)
	ExportToPDF(summary entity.RunSummary, filename, outputDir string) (string, error)
}
