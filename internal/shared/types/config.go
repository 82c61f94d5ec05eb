package types

import (
	"fmt"

	"github.com/diillson/aws-reservation-audit/internal/domain/entity"
)

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	Accounts     []entity.Account `json:"accounts" yaml:"accounts" toml:"accounts"`
	Regions      []string         `json:"regions" yaml:"regions" toml:"regions"`
	AgeFilter    int              `json:"age_filter" yaml:"age_filter" toml:"age_filter"`
	OfferingType string           `json:"offering_type" yaml:"offering_type" toml:"offering_type"`
	StateFilter  string           `json:"state_filter" yaml:"state_filter" toml:"state_filter"`
	ReportName   string           `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType   []string         `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir          string           `json:"dir" yaml:"dir" toml:"dir"`
}

// Merge applies the command-line arguments on top of c. Flags that were
// set always win over values loaded from a file.
func (c Config) Merge(args *CLIArgs) Config {
	if args == nil {
		args = &CLIArgs{}
	}
	if len(args.Profiles) > 0 {
		accounts := make([]entity.Account, 0, len(args.Profiles))
		for _, profile := range args.Profiles {
			accounts = append(accounts, entity.Account{Name: profile, Profile: profile})
		}
		c.Accounts = accounts
	}
	if len(args.Regions) > 0 {
		c.Regions = args.Regions
	}
	if args.AgeFilter != nil {
		c.AgeFilter = *args.AgeFilter
	}
	if args.OfferingType != "" {
		c.OfferingType = args.OfferingType
	}
	if args.StateFilter != "" {
		c.StateFilter = args.StateFilter
	}
	if args.ReportName != "" {
		c.ReportName = args.ReportName
	}
	if len(args.ReportType) > 0 {
		c.ReportType = args.ReportType
	}
	if args.Dir != "" {
		c.Dir = args.Dir
	}
	if c.StateFilter == "" {
		c.StateFilter = entity.InstanceStateRunning
	}
	if c.ReportName != "" && len(c.ReportType) == 0 {
		c.ReportType = []string{"csv"}
	}
	return c
}

// Validate checks that the configuration can drive an audit run.
func (c Config) Validate() error {
	if len(c.Accounts) == 0 {
		return ErrNoAccounts
	}
	if len(c.Regions) == 0 {
		return ErrNoRegions
	}
	if c.AgeFilter < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidAgeFilter, c.AgeFilter)
	}
	names := make(map[string]struct{}, len(c.Accounts))
	for i, account := range c.Accounts {
		if account.Name == "" {
			return fmt.Errorf("%w: account #%d has no name", ErrInvalidAccount, i+1)
		}
		if _, dup := names[account.Name]; dup {
			return fmt.Errorf("%w: account name %q is used more than once", ErrInvalidAccount, account.Name)
		}
		names[account.Name] = struct{}{}
		if (account.AccessKeyID == "") != (account.SecretAccessKey == "") {
			return fmt.Errorf("%w: account %q needs both access_id and secret_key", ErrInvalidAccount, account.Name)
		}
	}
	return nil
}
