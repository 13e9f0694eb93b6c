package handlers

import (
	"neurotrack-ml/internal/adapters/primary/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterOptions struct {
	Key       string
	RateLimit float64
	Burst     int
}

// NewRouter wires the scoring API. Health and metrics stay open; scoring
// routes require opts.Key when it is set.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging())
	r.Use(middleware.Metrics())

	r.GET("/healthz", Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/")
	api.Use(middleware.KeyAuth(opts.Key), middleware.RateLimit(opts.RateLimit, opts.Burst))
	h.RegisterRoutes(api)

	return r
}
