package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/auth"
	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/config"
	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/handler"
	middlewarepkg "github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth           *handler.AuthHandler
	Profile        *handler.ProfileHandler
	Qualifications *handler.QualificationsHandler
	Reports        *handler.ReportsHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.POST("/auth/register", handlers.Auth.Register)
	e.POST("/auth/login", handlers.Auth.Login)

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	secured.GET("/profile", handlers.Profile.Get)
	secured.PUT("/profile", handlers.Profile.Save)

	analyzeLimiter := middlewarepkg.AnalyzeRateLimiter(cfg.RateLimitAnalyze)
	secured.POST("/qualifications", handlers.Qualifications.Create, analyzeLimiter)
	secured.POST("/qualifications/analyze", handlers.Qualifications.Analyze, analyzeLimiter)
	secured.GET("/qualifications", handlers.Qualifications.List)
	secured.DELETE("/qualifications/:id", handlers.Qualifications.Delete)
	secured.GET("/qualifications/:id/report", handlers.Qualifications.Report)
	secured.POST("/qualifications/:id/export", handlers.Qualifications.Export)

	secured.GET("/reports/summary", handlers.Reports.Summary)
	secured.POST("/reports/email", handlers.Reports.Email)
}
