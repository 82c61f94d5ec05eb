package cli

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/diillson/aws-reservation-audit/internal/shared/types"
	"github.com/diillson/aws-reservation-audit/pkg/console"
	"github.com/diillson/aws-reservation-audit/pkg/version"
)

// AuditRunner executes an audit run for the parsed arguments.
type AuditRunner interface {
	RunAudit(ctx context.Context, args *types.CLIArgs) error
}

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd *cobra.Command
	runner  AuditRunner
	console *console.Console
	version string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:   "aws-ri-audit",
		Short: "Compare running EC2 instances with active reserved instances",
		Long: `Counts running EC2 instances and active reserved instances per availability
zone and instance type, for every configured account and region, and prints
the difference: positive numbers are instances running without a reservation,
negative numbers are reservations nothing is using.`,
		Version:       formattedVersion,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          app.runCommand,
	}

	rootCmd.SetVersionTemplate(`{{printf "AWS Reservation Audit version: %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().StringSliceP("profiles", "p", nil, "AWS profiles to audit, one account per profile (comma-separated)")
	rootCmd.PersistentFlags().StringSliceP("regions", "r", nil, "AWS regions to audit (comma-separated)")
	rootCmd.PersistentFlags().IntP("age-filter", "a", 0, "Only count instances running for more than this many days (0 counts all)")
	rootCmd.PersistentFlags().StringP("offering-type", "o", "", "Only count reservations with this offering type, e.g. \"No Upfront\"")
	rootCmd.PersistentFlags().StringP("state", "s", "", "Instance state to count (default: running)")
	rootCmd.PersistentFlags().StringP("report-name", "n", "", "Specify the base name for the report file (without extension)")
	rootCmd.PersistentFlags().StringSliceP("report-type", "y", nil, "Specify report types: csv, json, pdf (default: csv)")
	rootCmd.PersistentFlags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	rootCmd.PersistentFlags().Bool("debug", false, "Print debug messages")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Hide the banner, the spinner and informational messages")

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// ExecuteContext runs the CLI application with ctx, cancelled on interrupt.
func (app *CLIApp) ExecuteContext(ctx context.Context) error {
	return app.rootCmd.ExecuteContext(ctx)
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs() (*types.CLIArgs, error) {
	flags := app.rootCmd.Flags()

	configFile, _ := flags.GetString("config-file")
	profiles, _ := flags.GetStringSlice("profiles")
	regions, _ := flags.GetStringSlice("regions")
	offeringType, _ := flags.GetString("offering-type")
	state, _ := flags.GetString("state")
	reportName, _ := flags.GetString("report-name")
	reportType, _ := flags.GetStringSlice("report-type")
	dir, _ := flags.GetString("dir")
	debug, _ := flags.GetBool("debug")
	quiet, _ := flags.GetBool("quiet")

	// Only an explicit --age-filter overrides the config file, including 0.
	var ageFilter *int
	if flags.Changed("age-filter") {
		days, _ := flags.GetInt("age-filter")
		ageFilter = &days
	}

	if dir != "" {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		dir = absDir
	}

	args := &types.CLIArgs{
		ConfigFile:   configFile,
		Profiles:     profiles,
		Regions:      regions,
		AgeFilter:    ageFilter,
		OfferingType: offeringType,
		StateFilter:  state,
		ReportName:   reportName,
		ReportType:   reportType,
		Dir:          dir,
		Debug:        debug,
		Quiet:        quiet,
	}

	return args, nil
}

// runCommand é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runCommand(cmd *cobra.Command, args []string) error {
	cliArgs, err := app.parseArgs()
	if err != nil {
		return err
	}

	if app.console != nil {
		app.console.Configure(console.WithDebug(cliArgs.Debug), console.WithQuiet(cliArgs.Quiet))
	}

	if !cliArgs.Quiet {
		displayWelcomeBanner(app.version)
		go version.CheckLatestVersion(app.version)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if app.runner == nil {
		return errors.New("no audit runner configured")
	}
	return app.runner.RunAudit(ctx, cliArgs)
}

// SetAuditRunner sets the audit runner invoked by the root command.
func (app *CLIApp) SetAuditRunner(runner AuditRunner) {
	app.runner = runner
}

// SetConsole sets the console whose debug and quiet modes follow the flags.
func (app *CLIApp) SetConsole(c *console.Console) {
	app.console = c
}
