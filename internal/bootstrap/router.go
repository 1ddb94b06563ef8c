package bootstrap

import (
	"time"

	httpapi "github.com/GoSim-25-26J-441/scc-reporter/internal/api/http"
	"github.com/GoSim-25-26J-441/scc-reporter/internal/api/http/middleware"
	sccreportshttp "github.com/GoSim-25-26J-441/scc-reporter/internal/api/http/scc_reports"
	"github.com/GoSim-25-26J-441/scc-reporter/internal/scc_reports/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	Bucket         string
	AllowedOrigins []string
	Runner         service.Runner
	Logger         *zap.Logger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(dep.Logger))

	if len(dep.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  dep.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST"},
			AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-Id"},
			ExposeHeaders: []string{"X-Request-Id"},
			MaxAge:        12 * time.Hour,
		}))
	}

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Bucket)
	healthHandler.RegisterRoutes(r)

	generateHandler := sccreportshttp.NewGenerateHandler(dep.Runner, dep.Bucket, dep.Logger)

	// function-style trigger at the root, same as the Cloud Functions entry point
	r.GET("/", generateHandler.Generate)
	r.POST("/", generateHandler.Generate)

	api := r.Group("/api/v1")
	generateHandler.RegisterRoutes(api.Group("/scc-reports"))

	return r
}
