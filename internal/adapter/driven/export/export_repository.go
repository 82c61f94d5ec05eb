package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/diillson/aws-reservation-audit/internal/domain/entity"
	"github.com/diillson/aws-reservation-audit/internal/domain/repository"
	"github.com/jung-kurt/gofpdf"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct {
	now func() time.Time
}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{now: time.Now}
}

// ExportToCSV writes every report one after the other, separated by an
// empty line. Each instance type takes three columns: running, reserved, diff.
func (r *ExportRepositoryImpl) ExportToCSV(reports []entity.Report, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	for i, report := range reports {
		if i > 0 {
			writer.Write([]string{})
		}
		title := report.Title
		if report.AccountID != "" {
			title = fmt.Sprintf("%s (%s)", title, report.AccountID)
		}
		writer.Write([]string{title})

		headers := []string{"Zone"}
		for _, instanceType := range report.InstanceTypes {
			headers = append(headers,
				instanceType+" running",
				instanceType+" reserved",
				instanceType+" diff",
			)
		}
		writer.Write(headers)

		for _, row := range report.Rows {
			record := []string{row.Zone}
			for _, cell := range row.Cells {
				record = append(record,
					strconv.Itoa(cell.Running),
					strconv.Itoa(cell.Reserved),
					strconv.Itoa(cell.Diff),
				)
			}
			writer.Write(record)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error writing CSV file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportToJSON(reports []entity.Report, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(reports); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// pdfTypesPerTable limits how many instance types share one table so that
// a landscape A4 page stays readable.
const pdfTypesPerTable = 6

func (r *ExportRepositoryImpl) ExportToPDF(reports []entity.Report, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	bodyTextColor := [3]int{50, 50, 50}

	const zoneWidth = 45.0
	const cellWidth = 37.0

	for _, report := range reports {
		pdf.AddPage()

		pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
		pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 12, tr(fmt.Sprintf("  %s", report.Title)), "", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		pdf.SetFillColor(240, 240, 240)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		if report.AccountID != "" {
			pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Account ID: %s", report.AccountID)), "", 1, "L", true, 0, "")
		}
		pdf.CellFormat(0, 8, tr("  Cells: running / reserved / running - reserved"), "", 1, "L", true, 0, "")
		pdf.Ln(6)

		if len(report.InstanceTypes) == 0 {
			pdf.Cell(0, 8, "No running instances or active reservations found.")
			continue
		}

		for start := 0; start < len(report.InstanceTypes); start += pdfTypesPerTable {
			end := start + pdfTypesPerTable
			if end > len(report.InstanceTypes) {
				end = len(report.InstanceTypes)
			}

			pdf.SetFont("Arial", "B", 9)
			pdf.CellFormat(zoneWidth, 7, "Zone", "1", 0, "L", false, 0, "")
			for _, instanceType := range report.InstanceTypes[start:end] {
				pdf.CellFormat(cellWidth, 7, tr(instanceType), "1", 0, "C", false, 0, "")
			}
			pdf.Ln(-1)

			pdf.SetFont("Arial", "", 9)
			for _, row := range report.Rows {
				pdf.CellFormat(zoneWidth, 6, tr(row.Zone), "1", 0, "L", false, 0, "")
				for _, cell := range row.Cells[start:end] {
					pdf.CellFormat(cellWidth, 6, fmt.Sprintf("%d / %d / %d", cell.Running, cell.Reserved, cell.Diff), "1", 0, "C", false, 0, "")
				}
				pdf.Ln(-1)
			}
			pdf.Ln(6)
		}

		if len(report.SkippedRegions) > 0 {
			pdf.SetFont("Arial", "I", 9)
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("Skipped after query errors: %v", report.SkippedRegions)), "", "L", false)
		}
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// --- Funções Auxiliares ---

// generateFilename cria um nome de arquivo único com timestamp e garante que o diretório exista.
func (r *ExportRepositoryImpl) generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	now := time.Now
	if r.now != nil {
		now = r.now
	}
	timestamp := now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}
