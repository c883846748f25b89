package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"equipinspect/internal/config"
	"equipinspect/internal/middleware"
	"equipinspect/internal/pkg/response"
	"equipinspect/internal/pkg/validator"
)

// resources are listed by the API root in this order.
var resources = []struct{ name, path string }{
	{"equipment", "equipment/"},
	{"users", "users/"},
	{"checklist-items", "checklist-items/"},
	{"inspection-reports", "inspection-reports/"},
	{"daily-inspection-data", "daily-inspection-data/"},
	{"report-notes", "report-notes/"},
	{"report-attachments", "report-attachments/"},
	{"auth-login", "auth/login/"},
	{"auth-logout", "auth/logout/"},
	{"auth-user", "auth/user/"},
	{"admin-accounts", "admin/accounts/"},
}

// Router builds the gin engine with every route mounted under /api.
func (a *App) Router() *gin.Engine {
	validator.Init()

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(a.log.Named("http")),
		middleware.Recovery(a.log),
		middleware.CORS(a.cfg.CORS.AllowedOrigins),
	)
	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Not found.")
	})

	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", a.ready)

	if a.cfg.Storage.Driver == config.StorageLocal && a.cfg.Storage.URLBase != "" {
		r.Static(a.cfg.Storage.URLBase, a.cfg.Storage.LocalDir)
	}

	api := r.Group("/api")
	{
		// public
		api.GET("/", apiRoot)
		a.handlers.auth.RegisterPublicRoutes(api)

		protected := api.Group("")
		protected.Use(middleware.TokenAuth(a.Auth))
		{
			a.handlers.auth.RegisterProtectedRoutes(protected)
			a.handlers.equipment.RegisterRoutes(protected)
			a.handlers.personnel.RegisterRoutes(protected)
			a.handlers.checklist.RegisterRoutes(protected)
			a.handlers.inspection.RegisterRoutes(protected)
			a.handlers.reportdoc.RegisterRoutes(protected)
		}

		staff := api.Group("/admin")
		staff.Use(middleware.TokenAuth(a.Auth), middleware.RequireStaff())
		{
			a.handlers.admin.RegisterRoutes(staff)
		}
	}
	return r
}

func apiRoot(c *gin.Context) {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	base := scheme + "://" + c.Request.Host + "/api/"

	links := make(map[string]string, len(resources))
	for _, res := range resources {
		links[res.name] = base + res.path
	}
	response.Success(c, http.StatusOK, links)
}

func (a *App) ready(c *gin.Context) {
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		a.log.Warn("readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
