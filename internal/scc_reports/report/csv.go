package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/GoSim-25-26J-441/scc-reporter/internal/scc_reports/domain"
)

// CombinedColumns is the union of both sheets, prefixed with the row's resource type.
var CombinedColumns = []string{
	"resource_type",
	"severity", "cve_id", "package_name", "package_type",
	"offending_package_version", "fixed_package_version", "affected_files",
	"vm_name", "event_time",
	"cluster_name", "namespace", "k8s_object_name", "image_uri",
}

// CSVWriter writes VM and Kubernetes rows into a single CSV file.
type CSVWriter struct{}

func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

func (w *CSVWriter) Write(path string, vms []domain.VMRow, k8s []domain.KubernetesRow) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv %s: %w", path, err)
	}

	if err := writeCombined(file, vms, k8s); err != nil {
		file.Close()
		_ = os.Remove(path)
		return err
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("close csv %s: %w", path, err)
	}
	return nil
}

func writeCombined(file *os.File, vms []domain.VMRow, k8s []domain.KubernetesRow) error {
	writer := csv.NewWriter(file)

	if err := writer.Write(CombinedColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range vms {
		record := append([]string{"VM"}, baseRecord(r.BaseRow)...)
		record = append(record, r.VMName, formatTime(r.EventTime), "", "", "", "")
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	for _, r := range k8s {
		record := append([]string{"Kubernetes"}, baseRecord(r.BaseRow)...)
		record = append(record, "", formatTime(r.EventTime), r.ClusterName, r.Namespace, r.ObjectName, r.ImageURI)
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func baseRecord(b domain.BaseRow) []string {
	return []string{
		b.Severity,
		deref(b.CVEID),
		b.PackageName,
		b.PackageType,
		deref(b.OffendingPackageVersion),
		deref(b.FixedPackageVersion),
		strings.ReplaceAll(b.AffectedFiles, "\n", "; "),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
