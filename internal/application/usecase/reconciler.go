package usecase

import (
	"sort"

	"github.com/diillson/aws-reservation-audit/internal/domain/entity"
)

// Reconcile lists running, reserved and running-reserved for every
// (zone, type) present in either tally, sorted by zone then type.
func Reconcile(running, reserved entity.Tally) []entity.ReconciledRow {
	diff := entity.Diff(running, reserved)

	var rows []entity.ReconciledRow
	for _, zone := range diff.Zones() {
		instanceTypes := make([]string, 0, len(diff[zone]))
		for instanceType := range diff[zone] {
			instanceTypes = append(instanceTypes, instanceType)
		}
		sort.Strings(instanceTypes)

		for _, instanceType := range instanceTypes {
			rows = append(rows, entity.ReconciledRow{
				Zone:         zone,
				InstanceType: instanceType,
				Running:      running.Get(zone, instanceType),
				Reserved:     reserved.Get(zone, instanceType),
				Diff:         diff.Get(zone, instanceType),
			})
		}
	}
	return rows
}

// Reconciler accumulates the grand totals across accounts and the sets of
// zones and instance types seen, so that every report shares its layout.
type Reconciler struct {
	zones         map[string]struct{}
	instanceTypes map[string]struct{}
	running       entity.Tally
	reserved      entity.Tally
}

// NewReconciler creates an empty Reconciler.
func NewReconciler() *Reconciler {
	return &Reconciler{
		zones:         make(map[string]struct{}),
		instanceTypes: make(map[string]struct{}),
		running:       entity.NewTally(),
		reserved:      entity.NewTally(),
	}
}

// Observe records the zones and types of one account and folds its
// tallies into the running totals.
func (r *Reconciler) Observe(running, reserved entity.Tally) {
	for _, t := range []entity.Tally{running, reserved} {
		for zone, types := range t {
			r.zones[zone] = struct{}{}
			for instanceType := range types {
				r.instanceTypes[instanceType] = struct{}{}
			}
		}
	}
	r.running = entity.Sum(r.running, running)
	r.reserved = entity.Sum(r.reserved, reserved)
}

// Zones returns every zone observed so far, sorted.
func (r *Reconciler) Zones() []string {
	return sortedKeys(r.zones)
}

// InstanceTypes returns every instance type observed so far, sorted.
func (r *Reconciler) InstanceTypes() []string {
	return sortedKeys(r.instanceTypes)
}

// Totals returns copies of the accumulated running and reserved tallies.
func (r *Reconciler) Totals() (running, reserved entity.Tally) {
	return r.running.Clone(), r.reserved.Clone()
}

// Report lays the rows of Reconcile(running, reserved) out on the grid of
// every zone and type observed so far. Grid cells with no row are padding.
func (r *Reconciler) Report(title string, running, reserved entity.Tally) entity.Report {
	instanceTypes := r.InstanceTypes()
	column := make(map[string]int, len(instanceTypes))
	for i, instanceType := range instanceTypes {
		column[instanceType] = i
	}

	rowsByZone := make(map[string]*entity.ReportRow)
	report := entity.Report{
		Title:         title,
		InstanceTypes: instanceTypes,
	}
	for _, zone := range r.Zones() {
		report.Rows = append(report.Rows, entity.ReportRow{Zone: zone, Cells: make([]entity.ReportCell, len(instanceTypes))})
	}
	for i := range report.Rows {
		rowsByZone[report.Rows[i].Zone] = &report.Rows[i]
	}

	for _, reconciled := range Reconcile(running, reserved) {
		row, ok := rowsByZone[reconciled.Zone]
		if !ok {
			continue
		}
		i, ok := column[reconciled.InstanceType]
		if !ok {
			continue
		}
		row.Cells[i] = entity.ReportCell{
			Running:  reconciled.Running,
			Reserved: reconciled.Reserved,
			Diff:     reconciled.Diff,
			Present:  true,
		}
	}
	return report
}

// Consolidated builds the report of the grand totals.
func (r *Reconciler) Consolidated() entity.Report {
	report := r.Report("total (consolidated view)", r.running, r.reserved)
	report.Consolidated = true
	return report
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
