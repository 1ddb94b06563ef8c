// Package extract turns raw findings into category buckets and sheet rows.
package extract

import (
	"strings"

	"github.com/GoSim-25-26J-441/scc-reporter/internal/scc_reports/domain"
)

// GroupByCategory partitions results by finding category. Categories are
// returned in order of first occurrence; an empty category becomes UNKNOWN.
func GroupByCategory(results []domain.FindingResult) domain.CategoryBucket {
	bucket := domain.CategoryBucket{Findings: make(map[string][]domain.FindingResult)}
	for _, r := range results {
		category := r.Finding.Category
		if category == "" {
			category = domain.UnknownCategory
		}
		if _, ok := bucket.Findings[category]; !ok {
			bucket.Order = append(bucket.Order, category)
		}
		bucket.Findings[category] = append(bucket.Findings[category], r)
	}
	return bucket
}

// Rows splits results into VM and Kubernetes rows. Findings on any other
// resource type, and cluster findings without workload objects, produce no row.
func Rows(results []domain.FindingResult) ([]domain.VMRow, []domain.KubernetesRow) {
	var (
		vms []domain.VMRow
		k8s []domain.KubernetesRow
	)

	for _, r := range results {
		switch r.Resource.Type {
		case domain.ResourceTypeComputeInstance:
			vms = append(vms, VMRow(r))
		case domain.ResourceTypeContainerCluster:
			if row, ok := KubernetesRow(r); ok {
				k8s = append(k8s, row)
			}
		}
	}

	return vms, k8s
}

// VMRow builds the row for a compute instance finding.
func VMRow(r domain.FindingResult) domain.VMRow {
	return domain.VMRow{
		BaseRow:   Base(r.Finding),
		VMName:    r.Resource.DisplayName,
		EventTime: r.Finding.EventTime,
	}
}

// KubernetesRow builds the row for a cluster finding from its first workload
// object. ok is false when the finding names no workload object.
func KubernetesRow(r domain.FindingResult) (domain.KubernetesRow, bool) {
	k := r.Finding.Kubernetes
	if k == nil || len(k.Objects) == 0 {
		return domain.KubernetesRow{}, false
	}

	obj := k.Objects[0]
	uris := make([]string, 0, len(obj.Containers))
	for _, c := range obj.Containers {
		if c.URI != "" {
			uris = append(uris, c.URI)
		}
	}

	return domain.KubernetesRow{
		BaseRow:     Base(r.Finding),
		ClusterName: r.Resource.DisplayName,
		Namespace:   obj.Namespace,
		ObjectName:  obj.Name,
		ImageURI:    strings.Join(uris, ", "),
		EventTime:   r.Finding.EventTime,
	}, true
}

// Base derives the fields shared by both sheets.
func Base(f domain.Finding) domain.BaseRow {
	row := domain.BaseRow{
		Severity:      f.Severity,
		AffectedFiles: affectedFiles(f.Files),
	}

	v := f.Vulnerability
	if v == nil {
		return row
	}

	if v.CVE != nil {
		id := v.CVE.ID
		row.CVEID = &id
	}

	offending, fixed := v.OffendingPackage, v.FixedPackage

	switch {
	case offending != nil && offending.Name != "":
		row.PackageName = offending.Name
	case fixed != nil:
		row.PackageName = fixed.Name
	}
	switch {
	case offending != nil && offending.Type != "":
		row.PackageType = offending.Type
	case fixed != nil:
		row.PackageType = fixed.Type
	}

	if offending != nil {
		version := offending.Version
		row.OffendingPackageVersion = &version
	}
	if fixed != nil {
		version := fixed.Version
		row.FixedPackageVersion = &version
	}

	return row
}

func affectedFiles(files []domain.File) string {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		if f.Path != "" {
			paths = append(paths, f.Path)
		}
	}
	return strings.Join(paths, "\n")
}
