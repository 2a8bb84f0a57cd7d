package types

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	Profiles        []string `json:"profiles" yaml:"profiles" toml:"profiles"`
	All             bool     `json:"all" yaml:"all" toml:"all"`
	Combine         bool     `json:"combine" yaml:"combine" toml:"combine"`
	ExcludeProfiles []string `json:"exclude_profiles" yaml:"exclude_profiles" toml:"exclude_profiles"`
	LookbackDays    int      `json:"lookback_days" yaml:"lookback_days" toml:"lookback_days"`
	ReportName      string   `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType      []string `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir             string   `json:"dir" yaml:"dir" toml:"dir"`
	Tag             []string `json:"tag" yaml:"tag" toml:"tag"`
	Concurrency     int      `json:"concurrency" yaml:"concurrency" toml:"concurrency"`
	UploadBucket    string   `json:"upload_bucket" yaml:"upload_bucket" toml:"upload_bucket"`
	UploadProfile   string   `json:"upload_profile" yaml:"upload_profile" toml:"upload_profile"`
	NoCharts        bool     `json:"no_charts" yaml:"no_charts" toml:"no_charts"`
	Budgets         bool     `json:"budgets" yaml:"budgets" toml:"budgets"`
}
