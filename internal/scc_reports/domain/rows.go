package domain

import "time"

// Column names shared by both sheets, in output order.
var baseColumns = []string{
	"severity",
	"cve_id",
	"package_name",
	"package_type",
	"offending_package_version",
	"fixed_package_version",
	"affected_files",
}

var (
	VMColumns         = append(append([]string{}, baseColumns...), "vm_name", "event_time")
	KubernetesColumns = append(append([]string{}, baseColumns...), "cluster_name", "namespace", "k8s_object_name", "image_uri", "event_time")
)

// BaseRow holds the fields every row carries regardless of resource type.
// Nil pointers are rendered as empty cells.
type BaseRow struct {
	Severity                string
	CVEID                   *string
	PackageName             string
	PackageType             string
	OffendingPackageVersion *string
	FixedPackageVersion     *string
	AffectedFiles           string
}

func (b BaseRow) values() []any {
	return []any{
		b.Severity,
		b.CVEID,
		b.PackageName,
		b.PackageType,
		b.OffendingPackageVersion,
		b.FixedPackageVersion,
		b.AffectedFiles,
	}
}

type VMRow struct {
	BaseRow
	VMName    string
	EventTime time.Time
}

// Values returns the cells in VMColumns order.
func (r VMRow) Values() []any {
	return append(r.values(), r.VMName, r.EventTime)
}

type KubernetesRow struct {
	BaseRow
	ClusterName string
	Namespace   string
	ObjectName  string
	ImageURI    string
	EventTime   time.Time
}

// Values returns the cells in KubernetesColumns order.
func (r KubernetesRow) Values() []any {
	return append(r.values(), r.ClusterName, r.Namespace, r.ObjectName, r.ImageURI, r.EventTime)
}
