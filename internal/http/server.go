package http

import (
	"context"
	stdhttp "net/http"
	"strconv"

	"share-portal/internal/auth"
	"share-portal/internal/config"
	"share-portal/internal/http/handler"
	"share-portal/internal/http/middleware"
	"share-portal/internal/types"
	"share-portal/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const (
	jsonKeyStatus = "status"
	statusOK      = "ok"

	// Room for form fields and part headers around a file of MaxUploadSize.
	multipartEnvelopeBytes int64 = 1 << 20
)

// ShareService is everything the HTTP surface needs from the sharing layer.
type ShareService interface {
	handler.ShareService
	handler.ShareAdministrator
}

type ServerDependencies struct {
	Config         *config.Config
	Shares         ShareService
	Admin          handler.AdminAuthenticator
	AuthMiddleware *auth.Middleware
	AuditLogger    types.AuditLogger
	Metrics        *metrics.Metrics
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = CustomHTTPErrorHandler

	requestMetrics := deps.Metrics
	if requestMetrics == nil {
		requestMetrics = metrics.New()
	}

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	// Request ID middleware (first, so all logs have request ID)
	e.Use(middleware.RequestID())
	e.Use(requestMetrics.Middleware())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(strconv.FormatInt(deps.Config.App.MaxUploadSize+multipartEnvelopeBytes, 10) + "B"))

	globalRateLimiter := middleware.NewRateLimiter(deps.Config.App.RateLimitRPS, deps.Config.App.RateLimitBurst)
	e.Use(globalRateLimiter.Middleware())

	loginRateLimiter := middleware.NewLoginRateLimiter()

	shareHandler := handler.NewShareHandler(deps.Shares, deps.AuditLogger, deps.Config.App.MaxUploadSize)
	adminHandler := handler.NewAdminHandler(deps.Shares, deps.Admin, deps.AuditLogger)

	e.GET("/health", healthCheck)

	api := e.Group("/api")
	api.POST("/upload", shareHandler.Upload)
	api.GET("/file/:code", shareHandler.Metadata)
	api.POST("/file/:code/download", shareHandler.Download)

	api.POST("/admin/login", adminHandler.Login, loginRateLimiter.Middleware())

	admin := api.Group("/admin")
	admin.Use(deps.AuthMiddleware.RequireAdmin())
	admin.GET("/files", adminHandler.ListShares)
	admin.DELETE("/files/:id", adminHandler.DeleteShare)
	admin.GET("/metrics", requestMetrics.Handler)
	admin.POST("/metrics/reset", requestMetrics.ResetHandler)

	return &Server{
		echo: e,
		deps: deps,
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP lets tests drive the router without a listener.
func (s *Server) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.echo.ServeHTTP(w, r)
}

func healthCheck(c echo.Context) error {
	return c.JSON(stdhttp.StatusOK, map[string]string{
		jsonKeyStatus: statusOK,
	})
}
