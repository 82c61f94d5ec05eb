package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile   string
	Profiles     []string
	Regions      []string
	AgeFilter    *int
	OfferingType string
	StateFilter  string
	ReportName   string
	ReportType   []string
	Dir          string
	Debug        bool
	Quiet        bool
}
