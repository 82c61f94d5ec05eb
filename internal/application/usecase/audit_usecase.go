package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/diillson/aws-reservation-audit/internal/domain/entity"
	"github.com/diillson/aws-reservation-audit/internal/domain/repository"
	"github.com/diillson/aws-reservation-audit/internal/shared/types"
)

// AuditUseCase drives a reservation audit run: one session per account,
// one report per account and a consolidated report.
type AuditUseCase struct {
	ec2Repo    repository.EC2Repository
	exportRepo repository.ExportRepository
	configRepo repository.ConfigRepository
	console    types.ConsoleInterface
	now        Clock
}

// NewAuditUseCase creates a new audit use case.
func NewAuditUseCase(
	ec2Repo repository.EC2Repository,
	exportRepo repository.ExportRepository,
	configRepo repository.ConfigRepository,
	console types.ConsoleInterface,
) *AuditUseCase {
	return &AuditUseCase{
		ec2Repo:    ec2Repo,
		exportRepo: exportRepo,
		configRepo: configRepo,
		console:    console,
		now:        time.Now,
	}
}

// SetClock replaces the clock used by the instance age filter.
func (uc *AuditUseCase) SetClock(now Clock) {
	if now != nil {
		uc.now = now
	}
}

// accountResult is what one account contributes before reports are built.
type accountResult struct {
	name      string
	accountID string
	running   entity.Tally
	reserved  entity.Tally
	skipped   []string
}

// LoadConfig loads the config file named by args (if any), applies the
// flags on top of it and validates the result.
func (uc *AuditUseCase) LoadConfig(args *types.CLIArgs) (types.Config, error) {
	var cfg types.Config
	if args != nil && args.ConfigFile != "" {
		loaded, err := uc.configRepo.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return types.Config{}, err
		}
		cfg = *loaded
	}

	cfg = cfg.Merge(args)
	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// RunAudit executa a auditoria completa: carrega a configuração, coleta os
// dados, exibe as tabelas e exporta os relatórios solicitados.
func (uc *AuditUseCase) RunAudit(ctx context.Context, args *types.CLIArgs) error {
	cfg, err := uc.LoadConfig(args)
	if err != nil {
		return err
	}

	uc.console.LogInfo("Auditing %d account(s) across %d region(s)...", len(cfg.Accounts), len(cfg.Regions))
	if cfg.AgeFilter > 0 {
		uc.console.LogInfo("Counting only instances running for more than %d day(s)", cfg.AgeFilter)
	}
	if cfg.OfferingType != "" {
		uc.console.LogInfo("Counting only reservations with offering type %q", cfg.OfferingType)
	}

	reports, err := uc.Audit(ctx, cfg)
	for _, report := range reports {
		uc.renderReport(report)
	}
	if err != nil {
		return err
	}

	uc.exportReports(reports, cfg)
	return nil
}

// Audit collects every account and returns one report per account, in
// configuration order, followed by the consolidated report.
//
// When an account cannot connect, Audit returns the reports of the accounts
// collected before it (without a consolidated report) together with the
// error.
func (uc *AuditUseCase) Audit(ctx context.Context, cfg types.Config) ([]entity.Report, error) {
	reconciler := NewReconciler()
	results := make([]accountResult, 0, len(cfg.Accounts))

	status := uc.console.Status("Connecting...")
	for _, account := range cfg.Accounts {
		status.Update(fmt.Sprintf("Connecting account %s...", account.Name))
		session, err := NewAccountSession(ctx, uc.ec2Repo, uc.console, account, cfg.Regions, WithClock(uc.now))
		if err != nil {
			status.Stop()
			return accountReports(reconciler, results), err
		}
		uc.console.LogDebug("Account %s connected in %s", session.Account(), strings.Join(session.Regions(), ", "))

		status.Update(fmt.Sprintf("Listing instances for %s...", account.Name))
		running := session.Instances(ctx, cfg.AgeFilter, cfg.StateFilter)

		status.Update(fmt.Sprintf("Listing reservations for %s...", account.Name))
		reserved := session.Reservations(ctx, cfg.OfferingType)

		reconciler.Observe(running, reserved)
		results = append(results, accountResult{
			name:      session.Account().Name,
			accountID: session.AccountID(),
			running:   running,
			reserved:  reserved,
			skipped:   session.SkippedRegions(),
		})
	}
	status.Stop()

	reports := append(accountReports(reconciler, results), reconciler.Consolidated())

	running, reserved := reconciler.Totals()
	uc.console.LogInfo("Totals: %d running, %d reserved, net difference %+d",
		running.Total(), reserved.Total(), entity.Diff(running, reserved).Total())

	return reports, nil
}

// accountReports builds the per-account reports once every account of
// results has been observed, so that all tables share the same zones and
// instance types.
func accountReports(reconciler *Reconciler, results []accountResult) []entity.Report {
	reports := make([]entity.Report, 0, len(results)+1)
	for _, result := range results {
		report := reconciler.Report(fmt.Sprintf("Account: %s", result.name), result.running, result.reserved)
		report.AccountID = result.accountID
		report.SkippedRegions = result.skipped
		reports = append(reports, report)
	}
	return reports
}

// renderReport prints one report as a table: a column per instance type,
// each cell holding running / reserved / diff.
func (uc *AuditUseCase) renderReport(report entity.Report) {
	title := report.Title
	if report.AccountID != "" {
		title = fmt.Sprintf("%s (%s)", title, report.AccountID)
	}
	if report.Consolidated {
		uc.console.Println()
		uc.console.Println(pterm.FgLightMagenta.Sprint(title))
		uc.console.Println(strings.Repeat("=", 48))
	} else {
		uc.console.Println(pterm.FgMagenta.Sprint(title))
	}

	if len(report.InstanceTypes) == 0 {
		uc.console.LogWarning("No running instances or active reservations found")
		return
	}

	table := uc.console.CreateTable()
	table.AddColumn("Zone")
	for _, instanceType := range report.InstanceTypes {
		table.AddColumn(instanceType)
	}

	for _, row := range report.Rows {
		cells := []interface{}{row.Zone}
		for _, cell := range row.Cells {
			cells = append(cells, formatCell(cell))
		}
		table.AddRow(cells...)
	}

	totals := []interface{}{pterm.Bold.Sprint("Total")}
	for _, cell := range report.Totals() {
		totals = append(totals, formatCell(cell))
	}
	table.AddRow(totals...)

	uc.console.Print(table.Render())
	uc.console.Println()
}

// formatCell renders "running / reserved / diff"; a positive diff means
// unreserved running capacity, a negative one unused reservations.
func formatCell(cell entity.ReportCell) string {
	if !cell.Present {
		return pterm.FgGray.Sprint("0 / 0 / 0")
	}
	diff := fmt.Sprintf("%d", cell.Diff)
	switch {
	case cell.Diff > 0:
		diff = pterm.FgRed.Sprintf("+%d", cell.Diff)
	case cell.Diff < 0:
		diff = pterm.FgYellow.Sprint(diff)
	default:
		diff = pterm.FgGreen.Sprint(diff)
	}
	return fmt.Sprintf("%d / %d / %s", cell.Running, cell.Reserved, diff)
}

// exportReports writes the requested report files. Export errors are logged
// and never fail the run.
func (uc *AuditUseCase) exportReports(reports []entity.Report, cfg types.Config) {
	if cfg.ReportName == "" || len(cfg.ReportType) == 0 {
		return
	}

	for _, reportType := range cfg.ReportType {
		switch strings.ToLower(reportType) {
		case "csv":
			csvPath, err := uc.exportRepo.ExportToCSV(reports, cfg.ReportName, cfg.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to CSV: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to CSV: %s", csvPath)
			}
		case "json":
			jsonPath, err := uc.exportRepo.ExportToJSON(reports, cfg.ReportName, cfg.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to JSON: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to JSON: %s", jsonPath)
			}
		case "pdf":
			pdfPath, err := uc.exportRepo.ExportToPDF(reports, cfg.ReportName, cfg.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to PDF: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to PDF: %s", pdfPath)
			}
		default:
			uc.console.LogWarning("Unknown report type %q, skipping", reportType)
		}
	}
}
