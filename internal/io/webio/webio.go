package webio

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"strconv"
	"time"

	"github.com/gnames/spidermap/internal/ent/dashboard"
	"github.com/gnames/spidermap/internal/ent/loader"
	"github.com/gnames/spidermap/internal/ent/taxon"
	"github.com/gnames/spidermap/internal/observability"
	spidermap "github.com/gnames/spidermap/pkg"
	"github.com/gnames/spidermap/pkg/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates static
var assets embed.FS

// Server is the dashboard HTTP server.
type Server struct {
	app     *fiber.App
	cfg     config.Config
	sm      spidermap.SpiderMap
	ldr     loader.Loader
	rnd     *dashboard.Renderer
	taxa    *taxon.Parser
	metrics *observability.Metrics
	page    *template.Template
}

// New creates the dashboard server. Metrics can be nil.
func New(
	cfg config.Config,
	sm spidermap.SpiderMap,
	ldr loader.Loader,
	rnd *dashboard.Renderer,
	metrics *observability.Metrics,
) (*Server, error) {
	page, err := template.New("page.html").Funcs(funcs).
		ParseFS(assets, "templates/page.html")
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:               "spidermap",
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          60 * time.Second,
		IdleTimeout:           60 * time.Second,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	res := &Server{
		app:     app,
		cfg:     cfg,
		sm:      sm,
		ldr:     ldr,
		rnd:     rnd,
		taxa:    taxon.New(cfg.JobsNum),
		metrics: metrics,
		page:    page,
	}
	res.setupMiddlewares()
	res.setupRoutes()
	return res, nil
}

// App returns the fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) setupMiddlewares() {
	s.app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
	}))
	s.app.Use(s.countRequests)
}

func (s *Server) setupRoutes() {
	s.app.Get("/", s.index)
	s.app.Get("/healthz", s.health)
	s.app.Get("/static/banner.png", s.banner)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.app.Group("/api")
	api.Get("/figures/:name", s.figureJSON)
	api.Get("/species", s.species)
	api.Get("/families", s.families)
	api.Post("/cache/invalidate", s.invalidate)
}

// Start listens on the configured address.
func (s *Server) Start() error {
	slog.Info("Starting dashboard", "address", s.cfg.Addr)
	return s.app.Listen(s.cfg.Addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down dashboard")
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) countRequests(c *fiber.Ctx) error {
	err := c.Next()
	if s.metrics == nil {
		return err
	}
	status := c.Response().StatusCode()
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	} else if err != nil {
		status = fiber.StatusInternalServerError
	}
	s.metrics.HTTPRequests.
		WithLabelValues(c.Route().Path, strconv.Itoa(status)).Inc()
	return err
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	slog.Error("HTTP error",
		"path", c.Path(),
		"status", code,
		"error", err,
	)

	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    errorCode(code),
			"message": err.Error(),
		},
	})
}

func errorCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}
