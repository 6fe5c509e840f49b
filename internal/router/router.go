package router

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/homecare-api/internal/handler/health"
	"github.com/jwalitptl/homecare-api/internal/handler/prometheus"
	"github.com/jwalitptl/homecare-api/internal/middleware"
	"github.com/jwalitptl/homecare-api/internal/model"
	"github.com/jwalitptl/homecare-api/pkg/validator"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type RouterConfig struct {
	Mode             string
	RateLimitEnabled bool
	RateLimit        middleware.RateLimiterConfig
	CORSConfig       middleware.CORSConfig
	MaxBodySize      int64
}

type Router struct {
	engine          *gin.Engine
	auth            *middleware.AuthMiddleware
	authH           Handler
	patientH        Handler
	serviceRequestH Handler
	health          *health.Handler
	metrics         *prometheus.Handler
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH Handler,
	patientH Handler,
	serviceRequestH Handler,
	healthH *health.Handler,
	metricsH *prometheus.Handler,
	config RouterConfig,
) (*Router, error) {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}

	statuses := make([]string, 0, len(model.ServiceRequestStatuses))
	for _, s := range model.ServiceRequestStatuses {
		statuses = append(statuses, string(s))
	}
	if err := validator.Setup(map[string][]string{"service_status": statuses}); err != nil {
		return nil, fmt.Errorf("failed to set up request validation: %w", err)
	}

	engine := gin.New()

	r := &Router{
		engine:          engine,
		auth:            auth,
		authH:           authH,
		patientH:        patientH,
		serviceRequestH: serviceRequestH,
		health:          healthH,
		metrics:         metricsH,
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		r.metrics.Middleware(),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.CORS(config.CORSConfig),
		middleware.SizeLimit(config.MaxBodySize),
	)

	if config.RateLimitEnabled {
		engine.Use(middleware.NewRateLimiter(config.RateLimit).RateLimit())
	}

	return r, nil
}

func (r *Router) Setup() {
	r.health.RegisterRoutes(r.engine)
	r.engine.GET("/metrics", r.metrics.Handler())

	api := r.engine.Group("/api")

	// Public routes
	r.authH.RegisterRoutes(api)

	// Protected routes
	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.patientH.RegisterRoutes(protected)
	r.serviceRequestH.RegisterRoutes(protected)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
