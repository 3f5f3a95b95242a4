package http

import (
	_ "golang-stock-dashboard/internal/dashboard/docs"
	"golang-stock-dashboard/internal/dashboard/service"
	"golang-stock-dashboard/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	swagger "github.com/swaggo/echo-swagger"
)

// NewRouter builds the Echo instance serving the session API under
// /api/v1/session and its API docs under /swagger.
func NewRouter(session *service.Session, log *logger.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()
	e.Use(middleware.Recover())

	apiV1 := e.Group("/api/v1")
	NewSessionHandler(session, log).RegisterRoutes(apiV1.Group("/session"))

	e.GET("/swagger/*", swagger.WrapHandler)
	return e
}
