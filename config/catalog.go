package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultReportRoot = "SCC-Reports"

	DefaultFindingsFilter = `state="ACTIVE" ` +
		`AND NOT mute="MUTED" ` +
		`AND (severity="CRITICAL" OR severity="HIGH") ` +
		`AND (category = "SOFTWARE_VULNERABILITY")`
)

// Catalog is the static description of what gets reported and where it lands.
type Catalog struct {
	OrganizationID  string            `yaml:"organization_id"`
	Filter          string            `yaml:"filter"`
	Projects        []string          `yaml:"projects"`
	CategoryFolders map[string]string `yaml:"category_folders"`
	ProjectFolders  map[string]string `yaml:"project_folders"`
}

// DefaultCatalog returns the catalog used when no REPORT_CATALOG_PATH is set.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Filter: DefaultFindingsFilter,
		Projects: []string{
			"toorak-396910",
			"merchants-396910",
			"shared-infrastructure-396910",
			"network-396910",
			"dev-ops-396910",
			"table-funding",
			"originator-platform-396910",
		},
		CategoryFolders: map[string]string{
			"SOFTWARE_VULNERABILITY": "software_vulnerabilities",
			"OS_VULNERABILITY":       "OS_vulnerabilities",
		},
		ProjectFolders: map[string]string{
			"dev-ops-396910":               "devops",
			"merchants-396910":             "mmtc",
			"network-396910":               "network",
			"toorak-396910":                "tc",
			"shared-infrastructure-396910": "si",
			"table-funding":                "tf",
			"originator-platform-396910":   "op",
		},
	}
}

// LoadCatalog reads a YAML catalog from path. An empty path yields DefaultCatalog.
// Fields missing from the file keep their defaults.
func LoadCatalog(path string) (*Catalog, error) {
	catalog := DefaultCatalog()
	if path == "" {
		return catalog, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report catalog: %w", err)
	}

	var fromFile Catalog
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return nil, fmt.Errorf("parse report catalog %s: %w", path, err)
	}

	if fromFile.OrganizationID != "" {
		catalog.OrganizationID = fromFile.OrganizationID
	}
	if fromFile.Filter != "" {
		catalog.Filter = fromFile.Filter
	}
	if fromFile.Projects != nil {
		catalog.Projects = fromFile.Projects
	}
	if fromFile.CategoryFolders != nil {
		catalog.CategoryFolders = fromFile.CategoryFolders
	}
	if fromFile.ProjectFolders != nil {
		catalog.ProjectFolders = fromFile.ProjectFolders
	}

	return catalog, nil
}

// Validate checks the catalog is usable. Missing folder mappings are not
// checked here: they fail the affected project at run time.
func (c *Catalog) Validate() error {
	if len(c.Projects) == 0 {
		return fmt.Errorf("report catalog lists no projects")
	}
	if c.Filter == "" {
		return fmt.Errorf("report catalog filter is empty")
	}

	seen := make(map[string]struct{}, len(c.Projects))
	for _, p := range c.Projects {
		if p == "" {
			return fmt.Errorf("report catalog contains an empty project id")
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("report catalog lists project %q twice", p)
		}
		seen[p] = struct{}{}
	}

	return nil
}

// WithProjects returns a copy of the catalog restricted to projects.
func (c *Catalog) WithProjects(projects []string) *Catalog {
	out := *c
	out.Projects = append([]string(nil), projects...)
	return &out
}
