package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/diillson/aws-reservation-audit/internal/adapter/driven/aws"
	"github.com/diillson/aws-reservation-audit/internal/adapter/driven/config"
	"github.com/diillson/aws-reservation-audit/internal/adapter/driven/export"
	"github.com/diillson/aws-reservation-audit/internal/adapter/driving/cli"
	"github.com/diillson/aws-reservation-audit/internal/application/usecase"
	"github.com/diillson/aws-reservation-audit/pkg/console"
	"github.com/diillson/aws-reservation-audit/pkg/version"
)

func main() {
	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version)

	// Inicializa os repositórios
	awsRepo := aws.NewAWSRepository()
	exportRepo := export.NewExportRepository()
	configRepo := config.NewConfigRepository()
	consoleImpl := console.NewConsole()

	// Inicializa o caso de uso
	auditUseCase := usecase.NewAuditUseCase(
		awsRepo,
		exportRepo,
		configRepo,
		consoleImpl,
	)

	app.SetAuditRunner(auditUseCase)
	app.SetConsole(consoleImpl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Executa o aplicativo
	if err := app.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
