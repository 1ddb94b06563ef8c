package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Bucket    string    `json:"bucket"`
}

type HealthHandler struct {
	serviceName string
	version     string
	bucket      string
}

func NewHealthHandler(serviceName, version, bucket string) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		bucket:      bucket,
	}
}

// HealthCheck stays healthy without a bucket; report runs fail on their own.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	bucketStatus := "configured"
	if h.bucket == "" {
		bucketStatus = "missing"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Bucket:    bucketStatus,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
