package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GoSim-25-26J-441/scc-reporter/internal/scc_reports/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct{ calls int }

func (s *stubRunner) Run(context.Context, string) (*domain.RunSummary, error) {
	s.calls++
	return &domain.RunSummary{Results: []domain.ProjectResult{{ProjectID: "P1", Status: domain.StatusNoFindings}}}, nil
}

func TestBuildRouter_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	runner := &stubRunner{}
	router := BuildRouter(RouterDeps{ServiceName: "scc-reporter", Version: "1.0.0", Bucket: "reports", Runner: runner})

	tests := []struct {
		method, path string
		wantStatus   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodPost, "/", http.StatusOK},
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodPost, "/api/v1/scc-reports/generate", http.StatusOK},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, tt.path, nil)
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
		})
	}
	assert.Equal(t, 3, runner.calls)
}

func TestBuildRouter_CORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := BuildRouter(RouterDeps{
		Bucket:         "reports",
		AllowedOrigins: []string{"https://console.example.com"},
		Runner:         &stubRunner{},
	})

	req, err := http.NewRequest(http.MethodGet, "/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://console.example.com")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "https://console.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestSetGinMode(t *testing.T) {
	defer gin.SetMode(gin.TestMode)

	SetGinMode("production")
	assert.Equal(t, gin.ReleaseMode, gin.Mode())

	SetGinMode("test")
	assert.Equal(t, gin.TestMode, gin.Mode())
}
