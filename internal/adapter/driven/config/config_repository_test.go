package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/diillson/aws-cost-trends/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfigFile_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "trends.toml",
			content: `profiles = ["prod", "dev"]
exclude_profiles = ["sandbox"]
lookback_days = 90
report_type = ["CSV", "pdf"]
upload_bucket = "finops-reports"
`,
		},
		{
			name: "yaml",
			file: "trends.yaml",
			content: `profiles: [prod, dev]
exclude_profiles: [sandbox]
lookback_days: 90
report_type: [CSV, pdf]
upload_bucket: finops-reports
`,
		},
		{
			name:    "json",
			file:    "trends.json",
			content: `{"profiles":["prod","dev"],"exclude_profiles":["sandbox"],"lookback_days":90,"report_type":["CSV","pdf"],"upload_bucket":"finops-reports"}`,
		},
	}

	repo := NewConfigRepository()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := repo.LoadConfigFile(writeConfig(t, tt.file, tt.content))
			require.NoError(t, err)

			assert.Equal(t, []string{"prod", "dev"}, cfg.Profiles)
			assert.Equal(t, []string{"sandbox"}, cfg.ExcludeProfiles)
			assert.Equal(t, 90, cfg.LookbackDays)
			assert.Equal(t, []string{"csv", "pdf"}, cfg.ReportType)
			assert.Equal(t, "finops-reports", cfg.UploadBucket)
		})
	}
}

func TestLoadConfigFile_Errors(t *testing.T) {
	repo := NewConfigRepository()

	_, err := repo.LoadConfigFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = repo.LoadConfigFile(t.TempDir())
	assert.Error(t, err)

	_, err = repo.LoadConfigFile(writeConfig(t, "trends.ini", "profiles=prod"))
	assert.ErrorContains(t, err, "unsupported config file format")

	_, err = repo.LoadConfigFile(writeConfig(t, "trends.yaml", "lookback_days: 900\n"))
	assert.True(t, errors.Is(err, types.ErrInvalidLookback))

	_, err = repo.LoadConfigFile(writeConfig(t, "trends.json", `{"report_type":["xlsx"]}`))
	assert.True(t, errors.Is(err, types.ErrUnsupportedReportType))

	_, err = repo.LoadConfigFile(writeConfig(t, "trends.json", `{"profiles":`))
	assert.ErrorContains(t, err, "error parsing JSON file")
}
