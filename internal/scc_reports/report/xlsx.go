package report

import (
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/GoSim-25-26J-441/scc-reporter/internal/scc_reports/domain"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	SheetVMs        = "VMs"
	SheetKubernetes = "Kubernetes"

	defaultSheet = "Sheet1"
)

// Writer renders the rows of one (project, category) pair to path.
type Writer interface {
	Write(path string, vms []domain.VMRow, k8s []domain.KubernetesRow) error
}

// XLSXWriter writes a workbook with a VMs sheet followed by a Kubernetes sheet.
// Cells longer than excelize.TotalCellChars are cut to that length, the
// Excel per-cell limit, and logged.
type XLSXWriter struct {
	logger *zap.Logger
}

func NewXLSXWriter(logger *zap.Logger) *XLSXWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &XLSXWriter{logger: logger}
}

// Write either produces the complete workbook at path or leaves nothing behind.
func (w *XLSXWriter) Write(path string, vms []domain.VMRow, k8s []domain.KubernetesRow) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close workbook: %w", cerr)
		}
	}()

	if err := f.SetSheetName(defaultSheet, SheetVMs); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetKubernetes); err != nil {
		return fmt.Errorf("create sheet %s: %w", SheetKubernetes, err)
	}

	vmValues := make([][]any, 0, len(vms))
	for _, r := range vms {
		vmValues = append(vmValues, r.Values())
	}
	if err := w.writeSheet(f, SheetVMs, domain.VMColumns, vmValues); err != nil {
		return err
	}

	k8sValues := make([][]any, 0, len(k8s))
	for _, r := range k8s {
		k8sValues = append(k8sValues, r.Values())
	}
	if err := w.writeSheet(f, SheetKubernetes, domain.KubernetesColumns, k8sValues); err != nil {
		return err
	}

	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func (w *XLSXWriter) writeSheet(f *excelize.File, sheet string, columns []string, rows [][]any) error {
	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}

	for i, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		cells := make([]any, len(values))
		for j, v := range values {
			cells[j] = cellValue(v)
			if text, ok := cells[j].(string); ok {
				if n := utf8.RuneCountInString(text); n > excelize.TotalCellChars {
					w.logger.Warn("cell truncated to excel limit",
						zap.String("sheet", sheet),
						zap.Int("row", i+2),
						zap.String("column", columns[j]),
						zap.Int("length", n),
						zap.Int("limit", excelize.TotalCellChars))
				}
			}
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// cellValue flattens row values into something excelize stores as text.
func cellValue(v any) any {
	switch val := v.(type) {
	case *string:
		if val == nil {
			return nil
		}
		return *val
	case time.Time:
		return formatTime(val)
	default:
		return v
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
