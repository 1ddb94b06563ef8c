package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GoSim-25-26J-441/scc-reporter/internal/scc_reports/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	securitycenter "google.golang.org/api/securitycenter/v1"
)

const pageOne = `{
  "listFindingsResults": [
    {
      "finding": {
        "name": "organizations/1/sources/2/findings/a",
        "category": "SOFTWARE_VULNERABILITY",
        "severity": "CRITICAL",
        "eventTime": "2024-06-01T12:30:00.123Z",
        "files": [{"path": "/usr/lib/libssl.so"}],
        "vulnerability": {
          "cve": {"id": "CVE-2024-0001"},
          "offendingPackage": {"packageName": "openssl", "packageType": "OS", "packageVersion": "1.1.1"},
          "fixedPackage": {"packageName": "openssl", "packageType": "OS", "packageVersion": "1.1.1w"}
        }
      },
      "resource": {"name": "//compute.googleapis.com/vm-1", "type": "google.compute.Instance", "displayName": "vm-1", "projectDisplayName": "p1"}
    }
  ],
  "nextPageToken": "page-2"
}`

const pageTwo = `{
  "listFindingsResults": [
    {
      "finding": {
        "name": "organizations/1/sources/2/findings/b",
        "category": "SOFTWARE_VULNERABILITY",
        "severity": "HIGH",
        "eventTime": "2024-06-02T08:00:00Z",
        "vulnerability": {"cve": {}, "fixedPackage": {"packageName": "log4j", "packageType": "MAVEN", "packageVersion": "2.17.1"}},
        "kubernetes": {"objects": [{"kind": "Deployment", "ns": "payments", "name": "api", "containers": [{"name": "api", "uri": "gcr.io/p/api:1"}]}]}
      },
      "resource": {"name": "//container.googleapis.com/c", "type": "google.container.Cluster", "displayName": "cluster-a"}
    }
  ]
}`

func newTestService(t *testing.T, handler http.HandlerFunc) *securitycenter.Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := securitycenter.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return svc
}

func TestBuildFilter(t *testing.T) {
	got := BuildFilter(`state="ACTIVE"`, "p1")
	assert.Equal(t, `state="ACTIVE" AND resource.project_display_name="p1"`, got)
}

func TestParent(t *testing.T) {
	assert.Equal(t, "organizations/42/sources/-", Parent("42", "p1"))
	assert.Equal(t, "projects/p1/sources/-", Parent("", "p1"))
}

func TestSCCClient_ListFindings_Paginates(t *testing.T) {
	var paths, filters, tokens []string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		filters = append(filters, r.URL.Query().Get("filter"))
		tokens = append(tokens, r.URL.Query().Get("pageToken"))

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("pageToken") == "page-2" {
			_, _ = w.Write([]byte(pageTwo))
			return
		}
		_, _ = w.Write([]byte(pageOne))
	})

	client := NewSCCClient(svc, "1", `state="ACTIVE"`, NewPageLimiter(100, 10), nil)
	results, err := client.ListFindings(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, []string{"/v1/organizations/1/sources/-/findings", "/v1/organizations/1/sources/-/findings"}, paths)
	assert.Equal(t, `state="ACTIVE" AND resource.project_display_name="p1"`, filters[0])
	assert.Equal(t, []string{"", "page-2"}, tokens)

	require.Len(t, results, 2)

	vm := results[0]
	assert.Equal(t, domain.ResourceTypeComputeInstance, vm.Resource.Type)
	assert.Equal(t, "vm-1", vm.Resource.DisplayName)
	assert.Equal(t, "p1", vm.Resource.ProjectDisplayName)
	assert.Equal(t, "CRITICAL", vm.Finding.Severity)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 30, 0, 123000000, time.UTC), vm.Finding.EventTime.UTC())
	require.NotNil(t, vm.Finding.Vulnerability)
	require.NotNil(t, vm.Finding.Vulnerability.CVE)
	assert.Equal(t, "CVE-2024-0001", vm.Finding.Vulnerability.CVE.ID)
	assert.Equal(t, "1.1.1", vm.Finding.Vulnerability.OffendingPackage.Version)
	assert.Equal(t, []domain.File{{Path: "/usr/lib/libssl.so"}}, vm.Finding.Files)

	k8s := results[1]
	assert.Equal(t, domain.ResourceTypeContainerCluster, k8s.Resource.Type)
	assert.Nil(t, k8s.Finding.Vulnerability.CVE)
	assert.Nil(t, k8s.Finding.Vulnerability.OffendingPackage)
	assert.Equal(t, "log4j", k8s.Finding.Vulnerability.FixedPackage.Name)
	require.NotNil(t, k8s.Finding.Kubernetes)
	require.Len(t, k8s.Finding.Kubernetes.Objects, 1)
	obj := k8s.Finding.Kubernetes.Objects[0]
	assert.Equal(t, "payments", obj.Namespace)
	assert.Equal(t, "api", obj.Name)
	assert.Equal(t, []domain.Container{{Name: "api", URI: "gcr.io/p/api:1"}}, obj.Containers)
}

func TestSCCClient_ListFindings_ProjectScope(t *testing.T) {
	var path string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	client := NewSCCClient(svc, "", `state="ACTIVE"`, nil, nil)
	results, err := client.ListFindings(context.Background(), "table-funding")
	require.NoError(t, err)

	assert.Empty(t, results)
	assert.Equal(t, "/v1/projects/table-funding/sources/-/findings", path)
}

func TestSCCClient_ListFindings_Errors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "permission denied"}}`))
		})

		_, err := NewSCCClient(svc, "1", "f", nil, nil).ListFindings(context.Background(), "p1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "list findings for p1")
	})

	t.Run("malformed event time", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"listFindingsResults": [{"finding": {"name": "x", "eventTime": "yesterday"}}]}`))
		})

		_, err := NewSCCClient(svc, "1", "f", nil, nil).ListFindings(context.Background(), "p1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid eventTime")
	})
}
