package repository

import (
	"github.com/diillson/aws-reservation-audit/internal/domain/entity"
)

// ExportRepository writes reconciliation reports to files and returns the
// absolute path of the file written.
type ExportRepository interface {
	ExportToCSV(reports []entity.Report, filename string, outputDir string) (string, error)
	ExportToJSON(reports []entity.Report, filename string, outputDir string) (string, error)
	ExportToPDF(reports []entity.Report, filename string, outputDir string) (string, error)
}
