package entity

// ReconciledRow is one (zone, instance type) pair present in the running or
// the reserved tally.
type ReconciledRow struct {
	Zone         string `json:"zone"`
	InstanceType string `json:"instance_type"`
	Running      int    `json:"running"`
	Reserved     int    `json:"reserved"`
	Diff         int    `json:"diff"`
}

// ReportCell holds the three numbers shown for a zone and instance type.
// Present is false when neither tally had the key and the cell is padding.
type ReportCell struct {
	Running  int  `json:"running"`
	Reserved int  `json:"reserved"`
	Diff     int  `json:"diff"`
	Present  bool `json:"present"`
}

// ReportRow is one zone of a report, with one cell per report column.
type ReportRow struct {
	Zone  string       `json:"zone"`
	Cells []ReportCell `json:"cells"`
}

// Report is the zone x instance-type grid for one account or for the
// consolidated view. Every report of a run shares the same columns.
type Report struct {
	Title          string      `json:"title"`
	AccountID      string      `json:"account_id,omitempty"`
	InstanceTypes  []string    `json:"instance_types"`
	Rows           []ReportRow `json:"rows"`
	SkippedRegions []string    `json:"skipped_regions,omitempty"`
	Consolidated   bool        `json:"consolidated"`
}

// Totals returns the per-column sums of running, reserved and diff.
func (r Report) Totals() []ReportCell {
	totals := make([]ReportCell, len(r.InstanceTypes))
	for _, row := range r.Rows {
		for i, cell := range row.Cells {
			totals[i].Running += cell.Running
			totals[i].Reserved += cell.Reserved
			totals[i].Diff += cell.Diff
			totals[i].Present = totals[i].Present || cell.Present
		}
	}
	return totals
}
