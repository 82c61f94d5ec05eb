package types

import "errors"

var (
	// ErrSessionEstablishment marks a failure to connect an account to one of
	// its regions. It aborts the whole run.
	ErrSessionEstablishment = errors.New("session establishment failed")
	// ErrQuery marks a failed listing call in one region. The region is
	// skipped and the run continues.
	ErrQuery = errors.New("query failed")

	ErrNoAccounts              = errors.New("no accounts configured. Set accounts in the config file or pass --profiles")
	ErrNoRegions               = errors.New("no regions configured. Set regions in the config file or pass --regions")
	ErrInvalidAccount          = errors.New("invalid account configuration")
	ErrInvalidAgeFilter        = errors.New("age filter must not be negative")
	ErrUnsupportedConfigFormat = errors.New("unsupported config file format")
)
