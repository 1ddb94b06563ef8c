package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		bucket     string
		wantBucket string
	}{
		{"bucket configured", "reports", "configured"},
		{"bucket missing", "", "missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			NewHealthHandler("test-service", "1.0.0", tt.bucket).RegisterRoutes(router)

			for _, path := range []string{"/health", "/healthz"} {
				req, err := http.NewRequest(http.MethodGet, path, nil)
				require.NoError(t, err)

				rr := httptest.NewRecorder()
				router.ServeHTTP(rr, req)
				require.Equal(t, http.StatusOK, rr.Code)

				var response HealthResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
				assert.Equal(t, "healthy", response.Status)
				assert.Equal(t, "test-service", response.Service)
				assert.Equal(t, "1.0.0", response.Version)
				assert.Equal(t, tt.wantBucket, response.Bucket)
			}
		})
	}
}

func TestHealthCheckMethodNotAllowed(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	NewHealthHandler("test-service", "1.0.0", "reports").RegisterRoutes(router)

	req, err := http.NewRequest(http.MethodPost, "/health", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
