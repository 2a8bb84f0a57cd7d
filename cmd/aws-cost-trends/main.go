package main

import (
	"fmt"
	"os"

	"github.com/diillson/aws-cost-trends/internal/adapter/driven/aws"
	"github.com/diillson/aws-cost-trends/internal/adapter/driven/config"
	"github.com/diillson/aws-cost-trends/internal/adapter/driven/export"
	"github.com/diillson/aws-cost-trends/internal/adapter/driving/cli"
	"github.com/diillson/aws-cost-trends/internal/application/usecase"
	"github.com/diillson/aws-cost-trends/pkg/console"
	"github.com/diillson/aws-cost-trends/pkg/version"
)

func main() {
	app := cli.NewCLIApp(version.Version)

	// Inicializa os repositórios
	awsRepo := aws.NewAWSRepository()
	exportRepo := export.NewExportRepository()
	configRepo := config.NewConfigRepository()
	consoleImpl := console.NewConsole()

	trendUseCase := usecase.NewTrendUseCase(
		awsRepo,
		exportRepo,
		configRepo,
		consoleImpl,
	)
	app.SetTrendUseCase(trendUseCase)

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
