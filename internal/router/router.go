package router

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/hospital-api/internal/config"
	appointmentHandler "github.com/jwalitptl/hospital-api/internal/handler/appointment"
	authHandler "github.com/jwalitptl/hospital-api/internal/handler/auth"
	dashboardHandler "github.com/jwalitptl/hospital-api/internal/handler/dashboard"
	doctorHandler "github.com/jwalitptl/hospital-api/internal/handler/doctor"
	"github.com/jwalitptl/hospital-api/internal/handler/health"
	patientHandler "github.com/jwalitptl/hospital-api/internal/handler/patient"
	timeslotHandler "github.com/jwalitptl/hospital-api/internal/handler/timeslot"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	appointmentService "github.com/jwalitptl/hospital-api/internal/service/appointment"
	authService "github.com/jwalitptl/hospital-api/internal/service/auth"
	dashboardService "github.com/jwalitptl/hospital-api/internal/service/dashboard"
	doctorService "github.com/jwalitptl/hospital-api/internal/service/doctor"
	"github.com/jwalitptl/hospital-api/internal/service/event"
	patientService "github.com/jwalitptl/hospital-api/internal/service/patient"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
	"github.com/jwalitptl/hospital-api/pkg/security"
	"github.com/jwalitptl/hospital-api/pkg/validator"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine  *gin.Engine
	cfg     *config.Config
	auth    *middleware.AuthMiddleware
	metrics *metrics.Metrics

	health     *health.Handler
	authH      *authHandler.Handler
	dashboardH Handler
	resources  []Handler
}

// New wires services and handlers over store and builds the engine.
func New(cfg *config.Config, store *repository.Store, m *metrics.Metrics) (*Router, error) {
	if err := setupValidation(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	events := event.NewEventService(store.Outbox)

	doctorSvc := doctorService.NewService(store.Doctors, store.TimeSlots, store.Appointments)
	patientSvc := patientService.NewService(store.Patients)
	appointmentSvc := appointmentService.NewService(store.Appointments, store.Doctors, store.Patients, events, m,
		appointmentService.Options{StrictTransitions: cfg.Appointments.StrictTransitions})
	authSvc := authService.NewService(store.Users, store.Tokens, security.NewBcryptHasher(cfg.Auth.BcryptCost),
		events, cfg.Auth.TokenCacheTTL)
	dashboardSvc := dashboardService.NewService(store.Stats)

	r := &Router{
		engine:     gin.New(),
		cfg:        cfg,
		auth:       middleware.NewAuthMiddleware(authSvc),
		metrics:    m,
		health:     health.NewHandler(store.Health),
		authH:      authHandler.NewHandler(authSvc),
		dashboardH: dashboardHandler.NewHandler(dashboardSvc),
		resources: []Handler{
			doctorHandler.NewHandler(doctorSvc),
			patientHandler.NewHandler(patientSvc),
			timeslotHandler.NewHandler(doctorSvc),
			appointmentHandler.NewHandler(appointmentSvc),
		},
	}
	r.setup()
	return r, nil
}

func setupValidation() error {
	if err := validator.Setup(); err != nil {
		return err
	}
	if err := validator.RegisterChoices("specialty", model.Specialties()...); err != nil {
		return err
	}
	if err := validator.RegisterChoices("timelabel", model.TimeLabels()...); err != nil {
		return err
	}
	return validator.RegisterChoices("appointmentstatus", model.AppointmentStatuses()...)
}

func (r *Router) setup() {
	r.engine.Use(
		middleware.RequestID(),
		middleware.Sentry(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		cors.New(r.corsConfig()),
	)

	if r.cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  rate.Limit(r.cfg.RateLimit.RPS),
			Burst: r.cfg.RateLimit.Burst,
		})
		r.engine.Use(limiter.RateLimit())
	}

	r.health.RegisterRoutes(r.engine)
	r.engine.GET("/metrics", gin.WrapH(r.metrics.Handler()))

	api := r.engine.Group("/api")

	// Anonymous
	r.authH.RegisterRoutes(api)

	// Always authenticated
	protected := api.Group("", r.auth.Authenticate())
	r.authH.RegisterProtectedRoutes(protected)
	r.dashboardH.RegisterRoutes(protected)

	// Resources are open unless configured otherwise; a presented token is
	// always checked.
	resources := protected
	if r.cfg.Auth.OpenResources {
		resources = api.Group("", r.auth.Optional())
	}
	for _, h := range r.resources {
		h.RegisterRoutes(resources)
	}
}

func (r *Router) corsConfig() cors.Config {
	c := cors.DefaultConfig()
	c.ExposeHeaders = []string{"Content-Length", "Content-Type", middleware.HeaderXRequestID}
	c.MaxAge = 12 * time.Hour

	origins := r.cfg.CORS.AllowedOrigins
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	if len(r.cfg.CORS.AllowedMethods) > 0 {
		c.AllowMethods = r.cfg.CORS.AllowedMethods
	}
	if len(r.cfg.CORS.AllowedHeaders) > 0 {
		c.AllowHeaders = r.cfg.CORS.AllowedHeaders
	} else {
		c.AddAllowHeaders("Authorization", middleware.HeaderXRequestID)
	}
	return c
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 500 {
			r.metrics.ErrorTotal.WithLabelValues(c.Request.Method, path, "server").Inc()
		} else if c.Writer.Status() >= 400 {
			r.metrics.ErrorTotal.WithLabelValues(c.Request.Method, path, "client").Inc()
		}
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
