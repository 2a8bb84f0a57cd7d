package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile      string
	Profiles        []string
	All             bool
	Combine         bool
	ExcludeProfiles []string
	LookbackDays    int
	ReportName      string
	ReportType      []string
	Dir             string
	Tag             []string
	Concurrency     int
	UploadBucket    string
	UploadProfile   string
	NoCharts        bool
	Budgets         bool
	Debug           bool
}
