package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/scc-reporter/internal/scc_reports/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	securitycenter "google.golang.org/api/securitycenter/v1"
)

// Source returns every finding for a project.
type Source interface {
	ListFindings(ctx context.Context, projectID string) ([]domain.FindingResult, error)
}

// BuildFilter scopes the base filter to a single project.
func BuildFilter(base, projectID string) string {
	return fmt.Sprintf(`%s AND resource.project_display_name="%s"`, base, projectID)
}

// Parent returns the scope the findings are listed under: every source of the
// organization when one is configured, every source of the project otherwise.
func Parent(organizationID, projectID string) string {
	if organizationID != "" {
		return fmt.Sprintf("organizations/%s/sources/-", organizationID)
	}
	return fmt.Sprintf("projects/%s/sources/-", projectID)
}

// SCCClient lists findings through the Security Command Center REST API.
type SCCClient struct {
	svc            *securitycenter.Service
	organizationID string
	filter         string
	limiter        *rate.Limiter
	logger         *zap.Logger
}

func NewSCCClient(svc *securitycenter.Service, organizationID, filter string, limiter *rate.Limiter, logger *zap.Logger) *SCCClient {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SCCClient{
		svc:            svc,
		organizationID: organizationID,
		filter:         filter,
		limiter:        limiter,
		logger:         logger,
	}
}

// ListFindings drains every page of the project's findings into memory.
func (c *SCCClient) ListFindings(ctx context.Context, projectID string) ([]domain.FindingResult, error) {
	parent := Parent(c.organizationID, projectID)
	filter := BuildFilter(c.filter, projectID)

	var call interface {
		Pages(context.Context, func(*securitycenter.ListFindingsResponse) error) error
	}
	if c.organizationID != "" {
		call = c.svc.Organizations.Sources.Findings.List(parent).Filter(filter).PageSize(1000)
	} else {
		call = c.svc.Projects.Sources.Findings.List(parent).Filter(filter).PageSize(1000)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var out []domain.FindingResult
	pages := 0
	err := call.Pages(ctx, func(resp *securitycenter.ListFindingsResponse) error {
		pages++
		for _, r := range resp.ListFindingsResults {
			item, err := toFindingResult(r)
			if err != nil {
				return err
			}
			out = append(out, item)
		}
		if resp.NextPageToken != "" {
			return c.limiter.Wait(ctx)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list findings for %s: %w", projectID, err)
	}

	c.logger.Debug("findings listed",
		zap.String("project", projectID),
		zap.String("parent", parent),
		zap.Int("pages", pages),
		zap.Int("count", len(out)))

	return out, nil
}

func toFindingResult(r *securitycenter.ListFindingsResult) (domain.FindingResult, error) {
	var item domain.FindingResult
	if r == nil {
		return item, nil
	}

	if res := r.Resource; res != nil {
		item.Resource = domain.Resource{
			Name:               res.Name,
			Type:               res.Type,
			DisplayName:        res.DisplayName,
			ProjectDisplayName: res.ProjectDisplayName,
		}
	}

	f := r.Finding
	if f == nil {
		return item, nil
	}

	finding := domain.Finding{
		Name:     f.Name,
		Category: f.Category,
		Severity: f.Severity,
	}

	if f.EventTime != "" {
		t, err := time.Parse(time.RFC3339Nano, f.EventTime)
		if err != nil {
			return item, fmt.Errorf("finding %s: invalid eventTime %q: %w", f.Name, f.EventTime, err)
		}
		finding.EventTime = t
	}

	for _, file := range f.Files {
		if file != nil {
			finding.Files = append(finding.Files, domain.File{Path: file.Path})
		}
	}

	if v := f.Vulnerability; v != nil {
		vuln := &domain.Vulnerability{
			OffendingPackage: toPackage(v.OffendingPackage),
			FixedPackage:     toPackage(v.FixedPackage),
		}
		if v.Cve != nil && v.Cve.Id != "" {
			vuln.CVE = &domain.CVE{ID: v.Cve.Id}
		}
		finding.Vulnerability = vuln
	}

	if k := f.Kubernetes; k != nil {
		kube := &domain.Kubernetes{}
		for _, obj := range k.Objects {
			if obj == nil {
				continue
			}
			o := domain.KubernetesObject{Kind: obj.Kind, Namespace: obj.Ns, Name: obj.Name}
			for _, c := range obj.Containers {
				if c != nil {
					o.Containers = append(o.Containers, domain.Container{Name: c.Name, URI: c.Uri})
				}
			}
			kube.Objects = append(kube.Objects, o)
		}
		finding.Kubernetes = kube
	}

	item.Finding = finding
	return item, nil
}

// toPackage treats a package with no populated field as absent.
func toPackage(p *securitycenter.Package) *domain.Package {
	if p == nil || (p.PackageName == "" && p.PackageType == "" && p.PackageVersion == "") {
		return nil
	}
	return &domain.Package{Name: p.PackageName, Type: p.PackageType, Version: p.PackageVersion}
}
