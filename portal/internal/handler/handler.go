package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aiuniverse/universe/internal/entity"
	"github.com/aiuniverse/universe/internal/entity/web"
	"github.com/aiuniverse/universe/portal/internal/analytics"
	"github.com/aiuniverse/universe/portal/internal/auth"
	"github.com/aiuniverse/universe/portal/internal/chat"
	"github.com/aiuniverse/universe/portal/internal/config"
	"github.com/aiuniverse/universe/portal/internal/events"
	"github.com/aiuniverse/universe/portal/internal/files"
	"github.com/aiuniverse/universe/portal/internal/realtime"
	"github.com/aiuniverse/universe/portal/internal/subscriptions"
	"github.com/aiuniverse/universe/portal/internal/translations"
	"github.com/aiuniverse/universe/portal/internal/worlds"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel/trace"
)

const ScopeName = "github.com/aiuniverse/universe/portal/internal/handler"

type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Services bundles what the handler serves. Services left nil have their routes
// answer ErrFeatureOff.
type Services struct {
	Auth          *auth.AuthService
	Worlds        *worlds.WorldService
	Events        *events.EventService
	Analytics     *analytics.AnalyticsService
	Translations  *translations.TranslationService
	Subscriptions *subscriptions.SubscriptionService
	Files         *files.FileService
	Chat          *chat.Service
	Broker        realtime.Broker
}

type Handler struct {
	cfg          *config.Config
	bind         string
	engine       *echo.Echo
	sessionStore sessions.Store
	healthChecks []HealthCheck
	Services
}

func setupRoutes(h *Handler) {
	if h.cfg.ServeStatic {
		h.engine.Static("/", h.cfg.StaticDir)
		h.engine.HTTPErrorHandler = func(err error, c echo.Context) {
			if err != echo.ErrNotFound || strings.HasPrefix(c.Request().URL.Path, "/api/") {
				h.engine.DefaultHTTPErrorHandler(err, c)
				return
			}

			// Unknown pages are client-side routes of the single-page application.

			entryFile, err := os.Open(filepath.Join(h.cfg.StaticDir, "index.html"))
			if err != nil {
				slog.Error("Unable to open index.html", slog.Any("error", err))
				c.JSON(http.StatusNotFound, web.ErrorResponse{
					Success:   false,
					ErrorCode: entity.ErrInternal,
				})
				return
			}
			defer entryFile.Close()

			c.Stream(http.StatusOK, "text/html;charset=utf-8", entryFile)
		}
	}

	h.setupRootRoutes(h.engine.Group(""))
	h.setupApiRoutes(h.engine.Group("/api/v1"))
}

func NewHandler(cfg *config.Config, bindAddr string, services Services, sessionStore sessions.Store, healthChecks ...HealthCheck) (*Handler, error) {
	if sessionStore == nil {
		return nil, errors.New("session store is required")
	}

	engine := echo.New()
	engine.HideBanner = true
	engine.HidePort = true
	engine.Use(otelecho.Middleware("web", otelecho.WithSkipper(func(c echo.Context) bool {
		path := c.Path()
		if !strings.HasPrefix(path, "/api") {
			// Ignore static assets and health endpoint
			return true
		}
		// Long-lived connections would make one span per session.
		return strings.HasSuffix(path, "/chat") || strings.HasSuffix(path, "/changes")
	})))
	engine.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogMethod: true,
		LogStatus: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			var logArgs []any

			span := trace.SpanFromContext(c.Request().Context())
			if span.IsRecording() {
				logArgs = append(logArgs, slog.String("trace_id", span.SpanContext().TraceID().String()))
			}

			slog.Info(fmt.Sprintf("%s %s", values.Method, values.URI), logArgs...)

			return nil
		},
	}))
	engine.Use(session.Middleware(sessionStore))

	h := &Handler{
		cfg:          cfg,
		engine:       engine,
		bind:         bindAddr,
		sessionStore: sessionStore,
		healthChecks: healthChecks,
		Services:     services,
	}

	setupRoutes(h)

	return h, nil
}

// ServeHTTP lets tests drive the handler without a listener.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.engine.ServeHTTP(w, r)
}

func (h *Handler) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- h.engine.Start(h.bind)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := h.engine.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
