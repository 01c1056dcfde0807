// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/poiesic/shastra/core"
	"github.com/poiesic/shastra/rag"
)

const shutdownTimeout = 10 * time.Second

// Answerer answers one question. *rag.Pipeline implements it.
type Answerer interface {
	Answer(ctx context.Context, req *core.QueryRequest) (*rag.Result, error)
}

// Catalog describes the loaded scriptures. *corpus.Store implements it.
type Catalog interface {
	Scriptures() []core.Scripture
	TotalPassages() int
}

var _ Answerer = (*rag.Pipeline)(nil)

// Server is the HTTP front end of the pipeline.
type Server struct {
	echo     *echo.Echo
	answerer Answerer
	catalog  Catalog
	logger   *slog.Logger
	origins  []string
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithCORSOrigins sets the allowed CORS origins. Default allows any origin.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) error {
		if len(origins) == 0 {
			return errors.New("at least one CORS origin required")
		}
		s.origins = origins
		return nil
	}
}

// New creates a server. The catalog must be fully loaded before the
// server starts handling requests.
func New(answerer Answerer, catalog Catalog, opts ...Option) (*Server, error) {
	if answerer == nil {
		return nil, errors.New("answerer required")
	}
	if catalog == nil {
		return nil, errors.New("catalog required")
	}

	s := &Server{
		answerer: answerer,
		catalog:  catalog,
		logger:   slog.Default(),
		origins:  []string{"*"},
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "server")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Debug("request",
				"id", v.RequestID,
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency)
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	api := e.Group("/api")
	api.POST("/ask", s.ask)
	api.GET("/texts", s.texts)
	api.GET("/health", s.health)

	s.echo = e
	return s, nil
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on address until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, address string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "address", address)
		errCh <- s.echo.Start(address)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	return s.echo.Shutdown(shutdownCtx)
}

func (s *Server) ask(c echo.Context) error {
	var body askRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	req := body.query()
	req.Question = strings.TrimSpace(req.Question)

	result, err := s.answerer.Answer(c.Request().Context(), req)
	if err != nil {
		return s.answerError(c, err)
	}
	return c.JSON(http.StatusOK, newAnswerResponse(req, result))
}

func (s *Server) answerError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, core.ErrInvalidQuery):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrScriptureNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		s.logger.Error("error processing question",
			"id", c.Response().Header().Get(echo.HeaderXRequestID),
			"err", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "error processing question")
	}
}

func (s *Server) texts(c echo.Context) error {
	return c.JSON(http.StatusOK, s.catalog.Scriptures())
}

func (s *Server) health(c echo.Context) error {
	scriptures := s.catalog.Scriptures()
	counts := make(map[string]int, len(scriptures))
	for _, sc := range scriptures {
		counts[sc.Name] = sc.Count
	}
	return c.JSON(http.StatusOK, healthResponse{
		Status:       "ok",
		TotalEntries: s.catalog.TotalPassages(),
		Texts:        counts,
	})
}
