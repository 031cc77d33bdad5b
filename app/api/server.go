package api

import (
	"biosearch/app/config"
	"biosearch/app/service/search"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/do"
)

const (
	SessionHeader   = "X-Search-Session"
	bodyLimit       = 16 * 1024 * 1024
	shutdownTimeout = 10 * time.Second
)

var _ do.Shutdownable = (*Server)(nil)

type Server struct {
	listen    string
	app       *fiber.App
	searchSvc *search.Service
	validate  *validator.Validate

	shutdownOnce sync.Once
	shutdownErr  error
}

func New(di *do.Injector) (*Server, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewServer(cfg.Server.Listen, do.MustInvoke[*search.Service](di)), nil
}

func NewServer(listen string, searchSvc *search.Service) *Server {
	s := &Server{
		listen:    listen,
		searchSvc: searchSvc,
		validate:  newValidator(),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "biosearch",
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	s.app.Use(recover.New())
	s.app.Use(requestid.New())
	s.app.Use(accessLog)

	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(
		searchSvc.Metrics().Registry(),
		promhttp.HandlerOpts{EnableOpenMetrics: true},
	)))

	api := s.app.Group("/api")

	graph := api.Group("/graph")
	graph.Post("/search", s.handleSearch)
	graph.Get("/examples", s.handleExamples)
	graph.Get("/relationships", s.handleRelationships)

	tabular := api.Group("/tabular")
	tabular.Post("/parse", s.handleTabularParse)
	tabular.Post("/render", s.handleTabularRender)

	return s
}

func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP API listening", "addr", s.listen)
		errCh <- s.app.Listen(s.listen)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Shutdown()
	}
}

func (s *Server) Shutdown() error {
	s.shutdownOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.shutdownErr = s.app.ShutdownWithContext(ctx)
	})

	return s.shutdownErr
}

func accessLog(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
	}

	slog.Debug("HTTP request",
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		"duration", time.Since(start),
	)

	return err
}
