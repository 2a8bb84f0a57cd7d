package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/diillson/aws-cost-trends/internal/domain/entity"
	"github.com/diillson/aws-cost-trends/internal/domain/repository"
)

const (
	csvDir = "csvs"
	pngDir = "pngs"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct {
	now func() time.Time
}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{now: time.Now}
}

// --- Artefatos por conta ---

// ExportMonthlyCSV grava csvs/monthly_<profile>.csv com as colunas Year, Month, TotalCost.
func (r *ExportRepositoryImpl) ExportMonthlyCSV(profile string, totals []entity.AccountMonthlyTotal, outputDir string) (string, error) {
	outputFilename, err := artifactPath(outputDir, csvDir, "monthly_"+safeName(profile)+".csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	records := [][]string{{"Year", "Month", "TotalCost"}}
	for _, t := range totals {
		records = append(records, []string{strconv.Itoa(t.Year), t.Month, t.TotalCost.String()})
	}
	if err := writer.WriteAll(records); err != nil {
		return "", fmt.Errorf("error writing CSV file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// --- Relatórios consolidados da execução ---

func (r *ExportRepositoryImpl) ExportToCSV(summary entity.RunSummary, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{"CLI Profile", "AWS Account ID", "Service", "Trend", "Slope", "Data Points", "Total Cost (" + entity.CostUnit + ")"}
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV file: %w", err)
	}

	for _, report := range summary.Reports {
		for _, trend := range report.Trends {
			record := []string{
				report.Profile,
				report.AccountID,
				trend.Service,
				string(trend.Label),
				strconv.FormatFloat(trend.Slope, 'f', 4, 64),
				strconv.Itoa(trend.Points),
				report.GrandTotal.StringFixed(2),
			}
			if err := writer.Write(record); err != nil {
				return "", fmt.Errorf("error writing CSV file: %w", err)
			}
		}
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportToJSON(summary entity.RunSummary, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// --- Funções Auxiliares ---

// generateFilename cria um nome de arquivo único com timestamp e garante que o diretório exista.
func (r *ExportRepositoryImpl) generateFilename(base, dir, ext string) (string, error) {
	dir, err := ensureDir(dir)
	if err != nil {
		return "", err
	}
	timestamp := r.now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", safeName(base), timestamp, ext)
	return filepath.Join(dir, filename), nil
}

// artifactPath devolve <dir>/<sub>/<name>, criando os diretórios necessários.
func artifactPath(dir, sub, name string) (string, error) {
	dir, err := ensureDir(dir)
	if err != nil {
		return "", err
	}
	full := filepath.Join(dir, sub)
	if err := os.MkdirAll(full, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", full, err)
	}
	return filepath.Join(full, name), nil
}

func ensureDir(dir string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	return dir, nil
}

var unsafeNameRegex = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// safeName torna nomes de perfis seguros para uso em nomes de arquivos.
func safeName(name string) string {
	cleaned := unsafeNameRegex.ReplaceAllString(name, "_")
	if cleaned == "" || cleaned == "." || cleaned == ".." {
		return "profile"
	}
	return cleaned
}
