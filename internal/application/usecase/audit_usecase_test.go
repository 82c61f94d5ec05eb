package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/diillson/aws-reservation-audit/internal/domain/entity"
	"github.com/diillson/aws-reservation-audit/internal/shared/types"
)

func twoAccountRepository() *fakeEC2Repository {
	return &fakeEC2Repository{
		connections: map[string]*fakeConnection{
			"prod/us-east-1": {
				region:    "us-east-1",
				accountID: "111111111111",
				instances: []entity.Instance{
					instance("i-1", "us-east-1a", "m5.large", 40*day),
					instance("i-2", "us-east-1a", "m5.large", 40*day),
				},
				reservations: []entity.Reservation{
					reservation("ri-1", "active", "No Upfront", "us-east-1a", "m5.large", 3),
				},
			},
			"dev/us-east-1": {
				region:    "us-east-1",
				accountID: "222222222222",
				instances: []entity.Instance{
					instance("i-3", "us-east-1b", "t3.micro", 40*day),
				},
			},
		},
	}
}

func newTestAuditUseCase(repo *fakeEC2Repository, exportRepo *MockExportRepository, configRepo *fakeConfigRepository) (*AuditUseCase, *fakeConsole) {
	console := &fakeConsole{}
	if exportRepo == nil {
		exportRepo = &MockExportRepository{}
	}
	if configRepo == nil {
		configRepo = &fakeConfigRepository{config: &types.Config{}}
	}
	uc := NewAuditUseCase(repo, exportRepo, configRepo, console)
	uc.SetClock(fixedClock)
	return uc, console
}

func TestAudit(t *testing.T) {
	uc, _ := newTestAuditUseCase(twoAccountRepository(), nil, nil)

	cfg := types.Config{
		Accounts: []entity.Account{{Name: "prod"}, {Name: "dev"}},
		Regions:  []string{"us-east-1"},
	}.Merge(nil)

	reports, err := uc.Audit(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, reports, 3)

	prod, dev, total := reports[0], reports[1], reports[2]
	assert.Equal(t, "Account: prod", prod.Title)
	assert.Equal(t, "111111111111", prod.AccountID)
	assert.Equal(t, "Account: dev", dev.Title)
	assert.Equal(t, "222222222222", dev.AccountID)
	assert.True(t, total.Consolidated)
	assert.False(t, prod.Consolidated)

	for _, report := range reports {
		assert.Equal(t, []string{"m5.large", "t3.micro"}, report.InstanceTypes, report.Title)
		require.Len(t, report.Rows, 2, report.Title)
		assert.Equal(t, "us-east-1a", report.Rows[0].Zone)
		assert.Equal(t, "us-east-1b", report.Rows[1].Zone)
	}

	// prod has one unused reservation
	assert.Equal(t, entity.ReportCell{Running: 2, Reserved: 3, Diff: -1, Present: true}, prod.Rows[0].Cells[0])
	assert.False(t, prod.Rows[1].Cells[1].Present)
	assert.Equal(t, entity.ReportCell{Running: 1, Diff: 1, Present: true}, dev.Rows[1].Cells[1])

	assert.Equal(t, []entity.ReportCell{
		{Running: 2, Reserved: 3, Diff: -1, Present: true},
		{Running: 1, Reserved: 0, Diff: 1, Present: true},
	}, total.Totals())
}

func TestAuditSessionFailureIsFatal(t *testing.T) {
	repo := twoAccountRepository()
	repo.failures = map[string]error{"dev/us-east-1": errors.New("ExpiredToken")}
	uc, _ := newTestAuditUseCase(repo, nil, nil)

	cfg := types.Config{
		Accounts: []entity.Account{{Name: "prod"}, {Name: "dev"}},
		Regions:  []string{"us-east-1"},
	}

	reports, err := uc.Audit(context.Background(), cfg)
	assert.True(t, errors.Is(err, types.ErrSessionEstablishment))

	// accounts collected before the failure are still reported, without totals
	require.Len(t, reports, 1)
	assert.Equal(t, "Account: prod", reports[0].Title)
	assert.False(t, reports[0].Consolidated)
	assert.Equal(t, entity.ReportCell{Running: 2, Reserved: 3, Diff: -1, Present: true}, reports[0].Rows[0].Cells[0])
}

func TestRunAuditPrintsPartialReportsOnSessionFailure(t *testing.T) {
	repo := twoAccountRepository()
	repo.failures = map[string]error{"dev/us-east-1": errors.New("ExpiredToken")}
	exportRepo := &MockExportRepository{}
	uc, console := newTestAuditUseCase(repo, exportRepo, nil)

	err := uc.RunAudit(context.Background(), &types.CLIArgs{
		Profiles:   []string{"prod", "dev"},
		Regions:    []string{"us-east-1"},
		ReportName: "audit",
	})
	assert.True(t, errors.Is(err, types.ErrSessionEstablishment))
	require.Len(t, console.tables, 1)
	assert.Equal(t, []string{"Zone", "m5.large"}, console.tables[0].columns)
	// nothing is exported from a failed run
	exportRepo.AssertNotCalled(t, "ExportToCSV", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuditLogsTotals(t *testing.T) {
	uc, console := newTestAuditUseCase(twoAccountRepository(), nil, nil)

	cfg := types.Config{
		Accounts: []entity.Account{{Name: "prod"}, {Name: "dev"}},
		Regions:  []string{"us-east-1"},
	}.Merge(nil)

	_, err := uc.Audit(context.Background(), cfg)
	require.NoError(t, err)
	assert.Contains(t, console.infos, "Totals: 3 running, 3 reserved, net difference +0")
}

func TestAuditRecordsSkippedRegions(t *testing.T) {
	repo := twoAccountRepository()
	repo.connections["prod/eu-west-1"] = &fakeConnection{region: "eu-west-1", instancesErr: errors.New("throttled")}
	uc, console := newTestAuditUseCase(repo, nil, nil)

	cfg := types.Config{
		Accounts: []entity.Account{{Name: "prod"}},
		Regions:  []string{"us-east-1", "eu-west-1"},
	}

	reports, err := uc.Audit(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"eu-west-1 (instances)"}, reports[0].SkippedRegions)
	assert.Len(t, console.warnings, 1)
}

func TestRunAuditRendersAndExports(t *testing.T) {
	exportRepo := &MockExportRepository{}
	exportRepo.On("ExportToJSON", mock.AnythingOfType("[]entity.Report"), "audit", "/tmp/reports").
		Return("/tmp/reports/audit.json", nil).Once()
	exportRepo.On("ExportToCSV", mock.Anything, "audit", "/tmp/reports").
		Return("", errors.New("disk full")).Once()

	configRepo := &fakeConfigRepository{config: &types.Config{
		Accounts: []entity.Account{{Name: "prod"}, {Name: "dev"}},
		Regions:  []string{"us-west-2"},
		Dir:      "/tmp/reports",
	}}
	uc, console := newTestAuditUseCase(twoAccountRepository(), exportRepo, configRepo)

	err := uc.RunAudit(context.Background(), &types.CLIArgs{
		ConfigFile: "audit.yaml",
		Regions:    []string{"us-east-1"},
		ReportName: "audit",
		ReportType: []string{"json", "csv", "xlsx"},
	})
	require.NoError(t, err)
	assert.Equal(t, "audit.yaml", configRepo.path)
	exportRepo.AssertExpectations(t)

	// one table per account plus the consolidated one
	require.Len(t, console.tables, 3)
	table := console.tables[0]
	assert.Equal(t, []string{"Zone", "m5.large", "t3.micro"}, table.columns)
	// two zones and the total row
	assert.Len(t, table.rows, 3)

	require.Len(t, console.success, 1)
	assert.Contains(t, console.success[0], "/tmp/reports/audit.json")
	require.Len(t, console.errors, 1)
	assert.Contains(t, console.errors[0], "disk full")
	require.NotEmpty(t, console.warnings)
	assert.Contains(t, console.warnings[len(console.warnings)-1], "xlsx")
}

func TestRunAuditConfigErrors(t *testing.T) {
	t.Run("no accounts", func(t *testing.T) {
		repo := twoAccountRepository()
		uc, _ := newTestAuditUseCase(repo, nil, nil)
		err := uc.RunAudit(context.Background(), &types.CLIArgs{Regions: []string{"us-east-1"}})
		assert.True(t, errors.Is(err, types.ErrNoAccounts))
		assert.Empty(t, repo.calls)
	})

	t.Run("config file error", func(t *testing.T) {
		cause := errors.New("bad file")
		uc, _ := newTestAuditUseCase(twoAccountRepository(), nil, &fakeConfigRepository{err: cause})
		err := uc.RunAudit(context.Background(), &types.CLIArgs{ConfigFile: "audit.toml"})
		assert.True(t, errors.Is(err, cause))
	})
}

func TestLoadConfig(t *testing.T) {
	configRepo := &fakeConfigRepository{config: &types.Config{
		Accounts:     []entity.Account{{Name: "prod", AccessKeyID: "id", SecretAccessKey: "key"}},
		Regions:      []string{"us-east-1"},
		AgeFilter:    10,
		OfferingType: "No Upfront",
	}}
	uc, _ := newTestAuditUseCase(twoAccountRepository(), nil, configRepo)

	zero := 0
	cfg, err := uc.LoadConfig(&types.CLIArgs{
		ConfigFile: "audit.toml",
		Regions:    []string{"eu-west-1", "eu-central-1"},
		AgeFilter:  &zero,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"eu-west-1", "eu-central-1"}, cfg.Regions)
	assert.Equal(t, 0, cfg.AgeFilter)
	assert.Equal(t, "No Upfront", cfg.OfferingType)
	assert.Equal(t, "running", cfg.StateFilter)
	assert.Equal(t, "prod", cfg.Accounts[0].Name)
}

func TestFormatCell(t *testing.T) {
	assert.Contains(t, formatCell(entity.ReportCell{Running: 3, Reserved: 1, Diff: 2, Present: true}), "3 / 1 / ")
	assert.Contains(t, formatCell(entity.ReportCell{Running: 3, Reserved: 1, Diff: 2, Present: true}), "+2")
	assert.Contains(t, formatCell(entity.ReportCell{Running: 0, Reserved: 2, Diff: -2, Present: true}), "-2")
	assert.Contains(t, formatCell(entity.ReportCell{}), "0 / 0 / 0")
}

func TestAuditSingleAccountScenario(t *testing.T) {
	repo := &fakeEC2Repository{
		connections: map[string]*fakeConnection{
			"a/r1": {
				region: "r1",
				instances: []entity.Instance{
					instance("i-1", "r1a", "m5.large", 10*day),
					instance("i-2", "r1a", "m5.large", 10*day),
				},
				reservations: []entity.Reservation{
					reservation("ri-1", "active", "No Upfront", "r1a", "m5.large", 2),
				},
			},
			"a/r2": {region: "r2"},
		},
	}
	uc, _ := newTestAuditUseCase(repo, nil, nil)

	cfg := types.Config{
		Accounts:  []entity.Account{{Name: "a"}},
		Regions:   []string{"r1", "r2"},
		AgeFilter: 7,
	}.Merge(nil)

	reports, err := uc.Audit(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	for _, report := range reports {
		assert.Equal(t, []string{"m5.large"}, report.InstanceTypes)
		require.Len(t, report.Rows, 1, "r2 has no data and no row")
		assert.Equal(t, "r1a", report.Rows[0].Zone)
		assert.Equal(t, entity.ReportCell{Running: 2, Reserved: 2, Diff: 0, Present: true}, report.Rows[0].Cells[0])
	}
}
