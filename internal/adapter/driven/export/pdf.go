package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/diillson/aws-cost-trends/internal/domain/entity"
	"github.com/jung-kurt/gofpdf"
)

// Cores RGB usadas para cada rótulo de tendência no PDF.
var labelColors = map[entity.TrendLabel][3]int{
	entity.TrendVerySignificantIncrease: {192, 0, 0},
	entity.TrendSignificantIncrease:     {230, 120, 0},
	entity.TrendIncrease:                {190, 160, 0},
	entity.TrendNoChange:                {0, 128, 0},
	entity.TrendDecrease:                {0, 70, 160},
}

func (r *ExportRepositoryImpl) ExportToPDF(summary entity.RunSummary, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	sectionTitleColor := [3]int{0, 0, 0}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	sectionTitle := func(title string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)
		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	}

	for i, report := range summary.Reports {
		pdf.AddPage()

		pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
		pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
		pdf.SetFont("Arial", "B", 14)
		profileName := report.Profile
		if len(profileName) > 80 {
			profileName = profileName[:77] + "..."
		}
		pdf.CellFormat(0, 12, tr(fmt.Sprintf("  %s", profileName)), "", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		pdf.SetFillColor(240, 240, 240)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Account ID: %s", report.AccountID)), "", 1, "L", true, 0, "")
		pdf.Ln(8)

		sectionTitle("Monthly Totals")
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(40, 7, "Year", "B", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, "Month", "B", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, tr("Total Cost ("+report.Unit+")"), "B", 1, "R", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, t := range report.Totals {
			pdf.CellFormat(40, 6, fmt.Sprintf("%d", t.Year), "", 0, "L", false, 0, "")
			pdf.CellFormat(40, 6, t.Month, "", 0, "L", false, 0, "")
			pdf.CellFormat(60, 6, "$"+t.TotalCost.StringFixed(2), "", 1, "R", false, 0, "")
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(80, 7, "Total", "T", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, "$"+report.GrandTotal.StringFixed(2), "T", 1, "R", false, 0, "")
		pdf.Ln(6)

		if chart := chartArtifact(report); chart != "" {
			pdf.ImageOptions(chart, pdf.GetX(), pdf.GetY(), 170, 0, true, gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}, 0, "")
			pdf.Ln(4)
		}

		sectionTitle("Service Trends")
		if len(report.Trends) == 0 {
			pdf.MultiCell(190, 5, "Not enough history to classify any service.", "", "L", false)
		}
		for _, trend := range report.Trends {
			rgb := labelColors[trend.Label]
			pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
			pdf.CellFormat(100, 6, tr(truncate(trend.Service, 55)), "", 0, "L", false, 0, "")
			pdf.SetTextColor(rgb[0], rgb[1], rgb[2])
			pdf.CellFormat(60, 6, tr(string(trend.Label)), "", 0, "L", false, 0, "")
			pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
			pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", trend.Slope), "", 1, "R", false, 0, "")
		}
		pdf.Ln(6)

		if len(report.Budgets) > 0 {
			sectionTitle("Budget Status")
			var lines []string
			for _, b := range report.Budgets {
				lines = append(lines, fmt.Sprintf("%s: $%s / $%s (%.1f%%)",
					b.Name, b.Actual.StringFixed(2), b.Limit.StringFixed(2), b.UsagePercent()))
			}
			pdf.MultiCell(190, 5, tr(strings.Join(lines, "\n")), "", "L", false)
		}

		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		footerText := fmt.Sprintf("Generated by AWS Cost Trends | run %s | %s", summary.RunID, r.now().Format("2006-01-02"))
		pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Page %d", i+1)), "", 0, "R", false, 0, "")
	}

	if len(summary.Skipped) > 0 {
		pdf.AddPage()
		sectionTitle("Skipped Accounts")
		for _, s := range summary.Skipped {
			line := fmt.Sprintf("%s: %s", s.Profile, s.Reason)
			if s.Detail != "" {
				line += " (" + s.Detail + ")"
			}
			pdf.MultiCell(190, 5, tr(line), "", "L", false)
		}
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// chartArtifact devolve o PNG já gerado para a conta, se existir.
func chartArtifact(report entity.AccountReport) string {
	for _, a := range report.Artifacts {
		if strings.EqualFold(filepath.Ext(a), ".png") {
			if _, err := os.Stat(a); err == nil {
				return a
			}
		}
	}
	return ""
}
