package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-enrollment-api/internal/middleware"
	"github.com/noah-isme/academy-enrollment-api/internal/models"
	"github.com/noah-isme/academy-enrollment-api/internal/service"
	"github.com/noah-isme/academy-enrollment-api/pkg/logger"
	"github.com/noah-isme/academy-enrollment-api/pkg/middleware/cors"
	"github.com/noah-isme/academy-enrollment-api/pkg/middleware/requestid"
)

// RouterConfig carries everything the HTTP surface needs.
type RouterConfig struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool
	Logger         *zap.Logger
	Metrics        *service.MetricsService
	Tokens         middleware.TokenValidator

	Enrollment *EnrollmentHandler
	Uploads    *UploadHandler
	Admin      *AdminHandler
	Probes     *MetricsHandler
}

// NewRouter builds the gin engine with middleware and every route registered.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	r.Use(logger.GinMiddleware(cfg.Logger))
	r.Use(cors.New(cfg.AllowedOrigins))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	if cfg.Probes != nil {
		r.GET("/health", cfg.Probes.Health)
		r.GET("/ready", cfg.Probes.Ready)
		r.GET("/metrics", cfg.Probes.Prometheus)
	}
	if cfg.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	prefix := "/" + strings.Trim(cfg.APIPrefix, "/")
	if prefix == "/" {
		prefix = ""
	}
	api := r.Group(prefix)

	enrollment := api.Group("/enrollment")
	if cfg.Enrollment != nil {
		enrollment.POST("/process", cfg.Enrollment.Process)
		legacy := middleware.Deprecated(prefix + "/enrollment/process")
		enrollment.POST("/submit", legacy, cfg.Enrollment.Submit)
		enrollment.POST("/notify-admin", legacy, cfg.Enrollment.NotifyAdmin)
		enrollment.GET("/receipt/:id", cfg.Enrollment.Receipt)
	}
	if cfg.Uploads != nil {
		enrollment.POST("/payment-proof", cfg.Uploads.Upload)
		enrollment.GET("/payment-proof/:token", cfg.Uploads.Download)
	}

	if cfg.Admin != nil {
		admin := api.Group("/admin")
		admin.POST("/login", cfg.Admin.Login)
		if cfg.Tokens != nil {
			protected := admin.Group("")
			protected.Use(middleware.JWT(cfg.Tokens), middleware.RequireRoles(models.StaffRole))
			protected.GET("/enrollments/:id", middleware.Audit(cfg.Logger, "enrollment.read"), cfg.Admin.GetEnrollment)
		}
	}

	return r
}
