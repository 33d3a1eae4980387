package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	"delivery-pipeline/internal/api/handler"
	"delivery-pipeline/internal/metrics"
	"delivery-pipeline/pkg/router"

	_ "delivery-pipeline/docs"
)

// Handlers groups what RegisterRoutes mounts
type Handlers struct {
	Uploads *handler.UploadHandler
	Runs    *handler.RunHandler
	Metrics *metrics.Metrics
}

func RegisterRoutes(r *router.Router, h Handlers) {
	r.GET("/healthz", handler.Health)

	r.POST("/api/v1/uploads", h.Uploads.Upload)
	r.POST("/api/v1/uploads/export", h.Uploads.Export)

	r.GET("/api/v1/runs", h.Runs.ListRuns)
	r.GET("/api/v1/runs/{id}", h.Runs.GetRun)

	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics.Handler())
	}
	r.Handle("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}
