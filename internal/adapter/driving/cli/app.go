package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/diillson/aws-cost-trends/internal/application/usecase"
	"github.com/diillson/aws-cost-trends/internal/shared/types"
	"github.com/diillson/aws-cost-trends/pkg/version"
	"github.com/spf13/cobra"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd      *cobra.Command
	trendUseCase *usecase.TrendUseCase
	version      string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	rootCmd := &cobra.Command{
		Use:           "aws-cost-trends",
		Short:         "Monthly AWS cost totals and per-service trend classification",
		Version:       version.FormatVersion(),
		RunE:          app.runCommand,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{printf "AWS Cost Trends version: %s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	flags.StringSliceP("profiles", "p", nil, "Specific AWS profiles to use (comma-separated)")
	flags.BoolP("all", "a", false, "Use all available AWS profiles")
	flags.BoolP("combine", "c", false, "Combine profiles from the same AWS account")
	flags.StringSliceP("exclude", "e", nil, "Profiles to leave out of the run (comma-separated)")
	flags.IntP("lookback", "l", usecase.DefaultLookbackDays, "Days of cost history to analyse (1-365)")
	flags.StringP("report-name", "n", "", "Base name for the consolidated report file (without extension)")
	flags.StringSliceP("report-type", "y", []string{"csv"}, "Consolidated report types: csv, json, pdf")
	flags.StringP("dir", "d", "", "Directory to save the generated files (default: current directory)")
	flags.StringSliceP("tag", "g", nil, "Cost allocation tag to filter costs, e.g., --tag Team=DevOps")
	flags.Int("concurrency", usecase.DefaultConcurrency, "Number of accounts analysed in parallel")
	flags.String("upload-bucket", "", "S3 bucket that receives every generated file")
	flags.String("upload-profile", "", "AWS profile used for the S3 upload (default: first analysed profile)")
	flags.Bool("no-charts", false, "Skip PNG chart generation")
	flags.Bool("budgets", false, "Include AWS Budgets status for each account")
	flags.Bool("debug", false, "Print structured debug logs")

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs() (*types.CLIArgs, error) {
	flags := app.rootCmd.Flags()

	configFile, _ := flags.GetString("config-file")
	profiles, _ := flags.GetStringSlice("profiles")
	all, _ := flags.GetBool("all")
	combine, _ := flags.GetBool("combine")
	exclude, _ := flags.GetStringSlice("exclude")
	lookback, _ := flags.GetInt("lookback")
	reportName, _ := flags.GetString("report-name")
	reportType, _ := flags.GetStringSlice("report-type")
	dir, _ := flags.GetString("dir")
	tag, _ := flags.GetStringSlice("tag")
	concurrency, _ := flags.GetInt("concurrency")
	uploadBucket, _ := flags.GetString("upload-bucket")
	uploadProfile, _ := flags.GetString("upload-profile")
	noCharts, _ := flags.GetBool("no-charts")
	budgets, _ := flags.GetBool("budgets")
	debug, _ := flags.GetBool("debug")

	args := &types.CLIArgs{
		ConfigFile:      configFile,
		Profiles:        profiles,
		All:             all,
		Combine:         combine,
		ExcludeProfiles: exclude,
		LookbackDays:    lookback,
		ReportName:      reportName,
		ReportType:      reportType,
		Dir:             dir,
		Tag:             tag,
		Concurrency:     concurrency,
		UploadBucket:    uploadBucket,
		UploadProfile:   uploadProfile,
		NoCharts:        noCharts,
		Budgets:         budgets,
		Debug:           debug,
	}

	return args, nil
}

// mergeConfig aplica os valores do arquivo de configuração. Flags passadas
// explicitamente na linha de comando sempre prevalecem.
func mergeConfig(args *types.CLIArgs, cfg *types.Config, changed func(string) bool) {
	if cfg == nil {
		return
	}
	if !changed("profiles") && len(cfg.Profiles) > 0 {
		args.Profiles = cfg.Profiles
	}
	if !changed("all") && cfg.All {
		args.All = true
	}
	if !changed("combine") && cfg.Combine {
		args.Combine = true
	}
	if !changed("exclude") && len(cfg.ExcludeProfiles) > 0 {
		args.ExcludeProfiles = cfg.ExcludeProfiles
	}
	if !changed("lookback") && cfg.LookbackDays > 0 {
		args.LookbackDays = cfg.LookbackDays
	}
	if !changed("report-name") && cfg.ReportName != "" {
		args.ReportName = cfg.ReportName
	}
	if !changed("report-type") && len(cfg.ReportType) > 0 {
		args.ReportType = cfg.ReportType
	}
	if !changed("dir") && cfg.Dir != "" {
		args.Dir = cfg.Dir
	}
	if !changed("tag") && len(cfg.Tag) > 0 {
		args.Tag = cfg.Tag
	}
	if !changed("concurrency") && cfg.Concurrency > 0 {
		args.Concurrency = cfg.Concurrency
	}
	if !changed("upload-bucket") && cfg.UploadBucket != "" {
		args.UploadBucket = cfg.UploadBucket
	}
	if !changed("upload-profile") && cfg.UploadProfile != "" {
		args.UploadProfile = cfg.UploadProfile
	}
	if !changed("no-charts") && cfg.NoCharts {
		args.NoCharts = true
	}
	if !changed("budgets") && cfg.Budgets {
		args.Budgets = true
	}
}

// resolveDir converte o diretório de saída em caminho absoluto.
func resolveDir(dir string) (string, error) {
	if dir == "" {
		return os.Getwd()
	}
	return filepath.Abs(dir)
}

// runCommand é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runCommand(cmd *cobra.Command, _ []string) error {
	displayWelcomeBanner()

	go version.CheckLatestVersion(app.version)

	cliArgs, err := app.parseArgs()
	if err != nil {
		return err
	}

	if cliArgs.ConfigFile != "" {
		cfg, err := app.trendUseCase.LoadConfig(cliArgs.ConfigFile)
		if err != nil {
			return err
		}
		mergeConfig(cliArgs, cfg, cmd.Flags().Changed)
	}

	if cliArgs.Dir, err = resolveDir(cliArgs.Dir); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = app.trendUseCase.RunTrendAnalysis(ctx, cliArgs)
	if errors.Is(err, context.Canceled) {
		return errors.New("interrupted")
	}
	return err
}

// SetTrendUseCase sets the trend use case for the CLI app.
func (app *CLIApp) SetTrendUseCase(useCase *usecase.TrendUseCase) {
	app.trendUseCase = useCase
}
