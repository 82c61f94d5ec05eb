package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/diillson/aws-reservation-audit/internal/domain/entity"
	"github.com/diillson/aws-reservation-audit/internal/domain/repository"
	"github.com/diillson/aws-reservation-audit/internal/shared/types"
)

var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// fakeConsole records log lines and rendered tables.
type fakeConsole struct {
	mu       sync.Mutex
	infos    []string
	warnings []string
	errors   []string
	success  []string
	tables   []*fakeTable
}

func (c *fakeConsole) Print(a ...interface{})                 {}
func (c *fakeConsole) Printf(format string, a ...interface{}) {}
func (c *fakeConsole) Println(a ...interface{})               {}

func (c *fakeConsole) LogInfo(format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.infos = append(c.infos, fmt.Sprintf(format, a...))
}

func (c *fakeConsole) LogWarning(format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, fmt.Sprintf(format, a...))
}

func (c *fakeConsole) LogError(format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, fmt.Sprintf(format, a...))
}

func (c *fakeConsole) LogSuccess(format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.success = append(c.success, fmt.Sprintf(format, a...))
}

func (c *fakeConsole) LogDebug(format string, a ...interface{}) {}

func (c *fakeConsole) Status(message string) types.StatusHandle { return noopStatus{} }

func (c *fakeConsole) CreateTable() types.TableInterface {
	t := &fakeTable{}
	c.tables = append(c.tables, t)
	return t
}

type noopStatus struct{}

func (noopStatus) Update(string) {}
func (noopStatus) Stop()         {}

type fakeTable struct {
	columns []string
	rows    [][]interface{}
}

func (t *fakeTable) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

func (t *fakeTable) AddRow(cells ...interface{}) {
	t.rows = append(t.rows, cells)
}

func (t *fakeTable) Render() string { return "" }

// fakeConnection serves canned instances and reservations for one region.
type fakeConnection struct {
	region       string
	accountID    string
	instances    []entity.Instance
	reservations []entity.Reservation
	instancesErr error
	reserveErr   error

	mu          sync.Mutex
	stateFilter string
}

func (c *fakeConnection) Region() string    { return c.region }
func (c *fakeConnection) AccountID() string { return c.accountID }

func (c *fakeConnection) ListInstances(ctx context.Context, stateFilter string) ([]entity.Instance, error) {
	c.mu.Lock()
	c.stateFilter = stateFilter
	c.mu.Unlock()
	if c.instancesErr != nil {
		return nil, c.instancesErr
	}
	return c.instances, nil
}

func (c *fakeConnection) ListReservations(ctx context.Context) ([]entity.Reservation, error) {
	if c.reserveErr != nil {
		return nil, c.reserveErr
	}
	return c.reservations, nil
}

// fakeEC2Repository hands out connections keyed by "account/region".
type fakeEC2Repository struct {
	connections map[string]*fakeConnection
	failures    map[string]error
	calls       []string
}

func (r *fakeEC2Repository) Connect(ctx context.Context, account entity.Account, region string) (repository.RegionConnection, error) {
	key := account.Name + "/" + region
	r.calls = append(r.calls, key)
	if err, ok := r.failures[key]; ok {
		return nil, err
	}
	if conn, ok := r.connections[key]; ok {
		return conn, nil
	}
	return &fakeConnection{region: region}, nil
}

// MockExportRepository mocks the report exporter.
type MockExportRepository struct {
	mock.Mock
}

func (m *MockExportRepository) ExportToCSV(reports []entity.Report, filename, outputDir string) (string, error) {
	args := m.Called(reports, filename, outputDir)
	return args.String(0), args.Error(1)
}

func (m *MockExportRepository) ExportToJSON(reports []entity.Report, filename, outputDir string) (string, error) {
	args := m.Called(reports, filename, outputDir)
	return args.String(0), args.Error(1)
}

func (m *MockExportRepository) ExportToPDF(reports []entity.Report, filename, outputDir string) (string, error) {
	args := m.Called(reports, filename, outputDir)
	return args.String(0), args.Error(1)
}

// fakeConfigRepository returns a fixed config or error.
type fakeConfigRepository struct {
	config *types.Config
	err    error
	path   string
}

func (r *fakeConfigRepository) LoadConfigFile(filePath string) (*types.Config, error) {
	r.path = filePath
	if r.err != nil {
		return nil, r.err
	}
	cfg := *r.config
	return &cfg, nil
}

func instance(id, zone, instanceType string, age time.Duration) entity.Instance {
	return entity.Instance{
		ID:           id,
		Zone:         zone,
		InstanceType: instanceType,
		State:        entity.InstanceStateRunning,
		LaunchTime:   fixedNow.Add(-age),
	}
}

func reservation(id, state, offering, zone, instanceType string, count int) entity.Reservation {
	return entity.Reservation{
		ID:            id,
		State:         state,
		OfferingType:  offering,
		Zone:          zone,
		InstanceType:  instanceType,
		InstanceCount: count,
	}
}
