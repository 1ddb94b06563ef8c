package domain

import (
	"fmt"
	"strings"
	"time"
)

// Resource type discriminators as reported by Security Command Center.
const (
	ResourceTypeComputeInstance  = "google.compute.Instance"
	ResourceTypeContainerCluster = "google.container.Cluster"
)

// UnknownCategory is used for findings that carry no category.
const UnknownCategory = "UNKNOWN"

// Finding is a single security issue returned by the findings service.
type Finding struct {
	Name          string
	Category      string
	Severity      string
	EventTime     time.Time
	Vulnerability *Vulnerability
	Files         []File
	Kubernetes    *Kubernetes
}

type Vulnerability struct {
	CVE              *CVE
	OffendingPackage *Package
	FixedPackage     *Package
}

type CVE struct {
	ID string
}

type Package struct {
	Name    string
	Type    string
	Version string
}

type File struct {
	Path string
}

type Kubernetes struct {
	Objects []KubernetesObject
}

// KubernetesObject is a workload object (pod, deployment, ...) a finding points at.
type KubernetesObject struct {
	Kind       string
	Namespace  string
	Name       string
	Containers []Container
}

type Container struct {
	Name string
	URI  string
}

// Resource is the cloud entity a finding applies to.
type Resource struct {
	Name               string
	Type               string
	DisplayName        string
	ProjectDisplayName string
}

// FindingResult pairs a finding with its resource, as returned by one list call.
type FindingResult struct {
	Finding  Finding
	Resource Resource
}

// CategoryBucket groups findings by category, keeping first-occurrence order.
type CategoryBucket struct {
	Order    []string
	Findings map[string][]FindingResult
}

// Project run statuses.
const (
	StatusSuccess    = "SUCCESS"
	StatusNoFindings = "SUCCESS (No findings)"
	StatusFailed     = "FAILED"
)

// ProjectResult is the outcome of processing one project.
type ProjectResult struct {
	ProjectID string
	Status    string
	Err       error
	Uploaded  []string
}

// Line renders the summary line for the project.
func (r ProjectResult) Line() string {
	if r.Status == StatusFailed {
		msg := ""
		if r.Err != nil {
			msg = r.Err.Error()
		}
		return fmt.Sprintf("%s: %s (%s)", r.ProjectID, StatusFailed, msg)
	}
	return fmt.Sprintf("%s: %s", r.ProjectID, r.Status)
}

const summaryHeader = "SCC report generation completed"

// RunSummary collects one result per project, in input order.
type RunSummary struct {
	RunID     string
	Timestamp string
	Results   []ProjectResult
}

// Failed reports how many projects failed.
func (s *RunSummary) Failed() int {
	n := 0
	for _, r := range s.Results {
		if r.Status == StatusFailed {
			n++
		}
	}
	return n
}

// Body renders the plain-text response body.
func (s *RunSummary) Body() string {
	lines := make([]string, 0, len(s.Results))
	for _, r := range s.Results {
		lines = append(lines, r.Line())
	}
	return summaryHeader + "\n\n" + strings.Join(lines, "\n")
}
