package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/diillson/aws-cost-trends/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedRepo() *ExportRepositoryImpl {
	return &ExportRepositoryImpl{now: func() time.Time {
		return time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)
	}}
}

func sampleTotals() []entity.AccountMonthlyTotal {
	return []entity.AccountMonthlyTotal{
		{Year: 2023, Month: "Dec", TotalCost: decimal.RequireFromString("120.5")},
		{Year: 2024, Month: "Jan", TotalCost: decimal.RequireFromString("15")},
		{Year: 2024, Month: "Feb", TotalCost: decimal.RequireFromString("30.0001")},
	}
}

func sampleSummary() entity.RunSummary {
	return entity.RunSummary{
		RunID: "c0ffee00-0000-4000-8000-000000000000",
		Reports: []entity.AccountReport{{
			Profile:    "prod",
			AccountID:  "111111111111",
			Unit:       entity.CostUnit,
			Totals:     sampleTotals(),
			GrandTotal: decimal.RequireFromString("165.5001"),
			Trends: []entity.ServiceTrend{
				{Service: "Amazon EC2", Label: entity.TrendVerySignificantIncrease, Slope: 15, Points: 2},
				{Service: "Amazon S3", Label: entity.TrendNoChange, Slope: 0, Points: 2},
			},
			Budgets: []entity.BudgetInfo{{Name: "monthly", Limit: decimal.NewFromInt(200), Actual: decimal.NewFromInt(50)}},
		}},
		Skipped: []entity.SkippedAccount{{Profile: "sandbox", Reason: entity.SkipExcluded}},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExportMonthlyCSV(t *testing.T) {
	dir := t.TempDir()

	path, err := fixedRepo().ExportMonthlyCSV("team/prod", sampleTotals(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "csvs", "monthly_team_prod.csv"), path)

	records := readCSV(t, path)
	assert.Equal(t, [][]string{
		{"Year", "Month", "TotalCost"},
		{"2023", "Dec", "120.5"},
		{"2024", "Jan", "15"},
		{"2024", "Feb", "30.0001"},
	}, records)
}

func TestExportMonthlyChart(t *testing.T) {
	dir := t.TempDir()
	repo := fixedRepo()

	path, err := repo.ExportMonthlyChart("prod", sampleTotals(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pngs", "monthly_prod.png"), path)
	assertPNG(t, path)

	_, err = repo.ExportMonthlyChart("empty", nil, dir)
	assert.ErrorIs(t, err, errNoTotals)
}

func TestExportAllAccountsChart(t *testing.T) {
	dir := t.TempDir()
	reports := []entity.AccountReport{
		{Profile: "prod", Totals: sampleTotals()},
		{Profile: "dev", Totals: sampleTotals()[:2]},
		{Profile: "empty"},
		{Profile: "qa", Totals: sampleTotals()[1:]},
	}

	path, err := fixedRepo().ExportAllAccountsChart(reports, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pngs", "all_plots.png"), path)
	assertPNG(t, path)

	_, err = fixedRepo().ExportAllAccountsChart([]entity.AccountReport{{Profile: "empty"}}, dir)
	assert.ErrorIs(t, err, errNoTotals)
}

func TestExportToCSV(t *testing.T) {
	dir := t.TempDir()

	path, err := fixedRepo().ExportToCSV(sampleSummary(), "trends", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "trends_20240305_143000.csv"), path)

	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"prod", "111111111111", "Amazon EC2", "VERY_SIGNIFICANT_INCREASE", "15.0000", "2", "165.50"}, records[1])
	assert.Equal(t, "NO_CHANGE", records[2][3])
}

func TestExportToJSON(t *testing.T) {
	dir := t.TempDir()

	path, err := fixedRepo().ExportToJSON(sampleSummary(), "trends", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded entity.RunSummary
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "c0ffee00-0000-4000-8000-000000000000", decoded.RunID)
	require.Len(t, decoded.Reports, 1)
	assert.True(t, decoded.Reports[0].GrandTotal.Equal(decimal.RequireFromString("165.5001")))
	assert.Equal(t, entity.TrendVerySignificantIncrease, decoded.Reports[0].Trends[0].Label)
	assert.Equal(t, entity.SkipExcluded, decoded.Skipped[0].Reason)
}

func TestExportToPDF(t *testing.T) {
	dir := t.TempDir()
	repo := fixedRepo()
	summary := sampleSummary()

	chart, err := repo.ExportMonthlyChart("prod", sampleTotals(), dir)
	require.NoError(t, err)
	summary.Reports[0].Artifacts = []string{chart}

	path, err := repo.ExportToPDF(summary, "trends", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "prod", safeName("prod"))
	assert.Equal(t, "sso_admin_123", safeName("sso admin@123"))
	assert.Equal(t, "profile", safeName(".."))
	assert.Equal(t, "_", safeName("///"))
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")), "not a PNG file")
}
