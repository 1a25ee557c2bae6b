// Package api provides the HTTP API server for erdgen.
// It uses Echo framework to serve REST endpoints for diagram generation and
// a WebSocket endpoint backing the live DBML editor.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "evalgo.org/erdgen/docs" // Import generated docs
	"evalgo.org/erdgen/internal/auth"
	"evalgo.org/erdgen/internal/config"
	"evalgo.org/erdgen/internal/diagram"
	"evalgo.org/erdgen/internal/layout"
	"evalgo.org/erdgen/internal/validation"
	"evalgo.org/erdgen/internal/version"
	"evalgo.org/erdgen/internal/web"
	"evalgo.org/erdgen/models"
)

// SchemaParser turns DBML text into a schema. *parser.Client implements it.
type SchemaParser interface {
	Parse(ctx context.Context, dbml string) (*models.Schema, error)
}

// Server represents the erdgen API server.
type Server struct {
	echo       *echo.Echo
	config     *config.Config
	parser     SchemaParser
	generator  *diagram.Generator
	validator  *validation.Validator
	authMiddle *auth.Middleware
}

// debugLog logs a message only if debug mode is enabled in config
func (s *Server) debugLog(format string, args ...interface{}) {
	if s.config.Server.Debug {
		log.Printf(format, args...)
	}
}

// New creates a new API server instance.
func New(cfg *config.Config, p SchemaParser, gen *diagram.Generator) *Server {
	e := echo.New()

	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.Server.Debug
	e.HTTPErrorHandler = HTTPErrorHandler

	v := validation.New()
	e.Validator = &requestValidator{v: v}

	server := &Server{
		echo:       e,
		config:     cfg,
		parser:     p,
		generator:  gen,
		validator:  v,
		authMiddle: auth.NewMiddleware(cfg),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${time_rfc3339}] ${status} ${method} ${uri} (${latency_human})\n",
	}))

	s.echo.Use(middleware.Recover())
	s.echo.Use(SecurityHeaders)

	if len(s.config.Security.AllowedOrigins) > 0 {
		s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.config.Security.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}))
	}

	s.echo.Use(middleware.RequestID())

	if s.config.Security.RateLimit > 0 {
		s.echo.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(
			rate.Limit(s.config.Security.RateLimit),
		)))
	}

	if s.config.Server.MaxBodySize > 0 {
		s.echo.Use(middleware.BodyLimit(strconv.FormatInt(s.config.Server.MaxBodySize, 10)))
	}

	if s.config.Server.RequestTimeout > 0 {
		s.echo.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Skipper:      isWebSocketUpgrade,
			Timeout:      s.config.Server.RequestTimeout,
			ErrorHandler: timeoutError,
		}))
	}
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	// Swagger UI documentation
	s.echo.GET("/docs/*", echoSwagger.WrapHandler)

	// Editor page
	webHandler := web.NewHandler(s.config)
	s.echo.GET("/", webHandler.Editor)
	s.echo.GET("/editor", webHandler.Editor)

	v1 := s.echo.Group("/api/v1")
	v1.Use(ValidateAcceptHeader)

	v1.GET("/layouts", s.listLayouts, s.authMiddle.RequireRead)
	v1.POST("/parse", s.parseDBML, ValidateContentType, s.authMiddle.RequireRead)
	v1.POST("/schemas/validate", s.validateSchema, ValidateSchemaContentType, s.authMiddle.RequireRead)

	diagrams := v1.Group("/diagrams", ValidateContentType)
	diagrams.POST("", s.generateDiagram, s.authMiddle.RequireGenerate)
	diagrams.POST("/schema", s.generateFromSchema, s.authMiddle.RequireGenerate)

	// The editor authenticates with ?token= since browsers cannot set
	// headers on a websocket upgrade.
	v1.GET("/ws/editor", s.handleEditor, s.authMiddle.RequireGenerate)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := s.config.Server.Address()

	fmt.Printf("🚀 Starting erdgen API Server\n")
	fmt.Printf("   Address: http://%s\n", addr)
	fmt.Printf("   Parser: %s\n", s.config.Parser.URL)
	fmt.Printf("   Layout: %s (%s)\n", s.config.Layout.Provider, s.defaultPreset())
	fmt.Printf("   Debug: %v\n", s.config.Server.Debug)
	fmt.Println()

	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout

	if s.config.Server.TLSEnabled {
		return s.echo.StartTLS(addr, s.config.Server.TLSCert, s.config.Server.TLSKey)
	}

	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	fmt.Println("\n🛑 Shutting down erdgen API Server...")

	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	fmt.Println("✓ Server shutdown complete")
	return nil
}

// healthCheck handles health check requests.
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: "erdgen",
		Version: version.Get().Version,
	})
}

// defaultPreset is the preset used when a request names none.
func (s *Server) defaultPreset() string {
	if s.config.Layout.Preset != "" {
		return s.config.Layout.Preset
	}
	return layout.PresetLayeredRight
}

// layoutOptions resolves a preset name, falling back to the configured one.
func (s *Server) layoutOptions(name string) (layout.Options, error) {
	if name == "" {
		name = s.defaultPreset()
	}
	return layout.ParsePreset(name)
}

// ServeHTTP allows Server to implement http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
