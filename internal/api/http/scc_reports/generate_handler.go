package scc_reports

import (
	"context"
	"net/http"
	"time"

	"github.com/GoSim-25-26J-441/scc-reporter/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/scc-reporter/internal/scc_reports/domain"
	"github.com/GoSim-25-26J-441/scc-reporter/internal/scc_reports/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const textPlain = "text/plain; charset=utf-8"

// GenerateHandler triggers a report run and answers with the plain-text summary.
type GenerateHandler struct {
	runner service.Runner
	bucket string
	logger *zap.Logger
}

func NewGenerateHandler(runner service.Runner, bucket string, logger *zap.Logger) *GenerateHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerateHandler{runner: runner, bucket: bucket, logger: logger}
}

func (h *GenerateHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/generate", h.Generate)
	router.GET("/generate", h.Generate)
}

// Generate answers 200 once processing begins, even if projects failed;
// callers read the body for per-project results.
func (h *GenerateHandler) Generate(c *gin.Context) {
	if h.bucket == "" {
		c.String(http.StatusInternalServerError, "ERROR: %s", domain.ErrBucketNotConfigured.Error())
		return
	}

	start := time.Now()
	rid := middleware.GetRequestID(c.Request.Context())

	// A run that has started finishes even if the caller goes away.
	ctx := context.WithoutCancel(c.Request.Context())

	summary, err := h.runner.Run(ctx, h.bucket)
	if err != nil {
		h.logger.Error("report run failed", zap.String("request_id", rid), zap.Error(err))
		c.String(http.StatusInternalServerError, "ERROR: %s", err.Error())
		return
	}

	h.logger.Info("report run served",
		zap.String("request_id", rid),
		zap.String("run_id", summary.RunID),
		zap.Int("failed", summary.Failed()),
		zap.Duration("duration", time.Since(start)))

	c.Data(http.StatusOK, textPlain, []byte(summary.Body()))
}
