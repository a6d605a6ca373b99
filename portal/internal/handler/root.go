package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aiuniverse/universe/internal/entity"
	"github.com/aiuniverse/universe/internal/entity/web"
	"github.com/aiuniverse/universe/portal/internal/auth"
	"github.com/aiuniverse/universe/portal/internal/config"
	"github.com/aiuniverse/universe/portal/internal/db/model"
	"github.com/boj/redistore/v2"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
)

const (
	sessionName      = "session"
	sessionTokenKey  = "access_token"
	contextTokenKey  = "token"
	sessionMaxAgeSec = 60 * 60 * 24 * 30
)

func NewRedisSessionStore(cfg *config.Config) (sessions.Store, error) {
	store, err := redistore.NewStore(
		[][]byte{[]byte(cfg.Secret)},
		redistore.WithAddress("tcp", cfg.RedisAddress),
		redistore.WithAuth(cfg.RedisUser, cfg.RedisPassword),
	)
	if err != nil {
		return nil, err
	}
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAgeSec,
		Secure:   !cfg.DevMode,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	store.SetKeyPrefix("session:")

	return store, nil
}

func RedisHealthCheck(client *redis.Client) HealthCheck {
	return HealthCheck{
		Name: "Redis",
		Check: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}
}

func PostgresHealthCheck(db *bun.DB) HealthCheck {
	return HealthCheck{
		Name: "PostgreSQL",
		Check: func(ctx context.Context) error {
			row, err := db.QueryContext(ctx, "SELECT 1")
			if err != nil {
				return err
			}
			return row.Close()
		},
	}
}

func (h *Handler) saveToken(c echo.Context, token string) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	if token == "" {
		delete(sess.Values, sessionTokenKey)
	} else {
		sess.Values[sessionTokenKey] = token
	}
	return sess.Save(c.Request(), c.Response())
}

// requestToken returns the bearer token of the request, falling back to the cookie session.
func requestToken(c echo.Context) string {
	if token := auth.BearerToken(c.Request()); token != "" {
		return token
	}
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return ""
	}
	token, _ := sess.Values[sessionTokenKey].(string)
	return token
}

func (h *Handler) sessionData(user *model.User, token *auth.Token) web.SessionData {
	u := auth.ToWeb(user)
	return web.SessionData{
		LoggedIn:    true,
		AccessToken: token.Token,
		User:        &u,
	}
}

func (h *Handler) handleSignUp(c echo.Context) error {
	var req web.SignUpRequest
	if err := c.Bind(&req); err != nil {
		slog.Error("Failed to bind data", slog.Any("error", err))
		return errorResponse(c, entity.ErrBadRequest, "")
	}

	user, token, err := h.Auth.SignUp(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}

	if err := h.saveToken(c, token.Token); err != nil {
		return h.fail(c, err)
	}

	return success(c, h.sessionData(user, token))
}

func (h *Handler) handleSignIn(c echo.Context) error {
	var cred web.PasswordCredential
	if err := c.Bind(&cred); err != nil {
		slog.Error("Failed to bind data", slog.Any("error", err))
		return errorResponse(c, entity.ErrBadRequest, "")
	}

	user, token, err := h.Auth.SignIn(c.Request().Context(), cred.Email, cred.Password)
	if err != nil {
		return h.fail(c, err)
	}

	if err := h.saveToken(c, token.Token); err != nil {
		return h.fail(c, err)
	}

	return success(c, h.sessionData(user, token))
}

func (h *Handler) handleSignOut(c echo.Context) error {
	if err := h.Auth.SignOut(c.Request().Context(), requestToken(c)); err != nil {
		return h.fail(c, err)
	}

	if err := h.saveToken(c, ""); err != nil {
		return h.fail(c, err)
	}

	return success[any](c, nil)
}

func (h *Handler) handleSessionData(c echo.Context) error {
	user, token, err := h.Auth.Session(c.Request().Context(), requestToken(c))
	if err != nil {
		if errors.Is(err, auth.ErrRequiresAuth) {
			return success(c, web.SessionData{LoggedIn: false})
		}
		return h.fail(c, err)
	}

	return success(c, h.sessionData(user, token))
}

func (h *Handler) handleResetPassword(c echo.Context) error {
	var req web.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, entity.ErrBadRequest, "")
	}

	if err := h.Auth.ResetPassword(c.Request().Context(), req.Email); err != nil {
		return h.fail(c, err)
	}

	return success[any](c, nil)
}

func (h *Handler) handleHealth(c echo.Context) error {
	for _, check := range h.healthChecks {
		if err := check.Check(c.Request().Context()); err != nil {
			slog.Error("Can't connect to "+check.Name, slog.Any("error", err))
			return c.String(http.StatusInternalServerError, "error")
		}
	}

	return c.String(http.StatusOK, "ok")
}

func isUnsafeMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// checkOrigin rejects browser requests coming from another origin. Clients which
// send no Origin header (the CLI) are not subject to it.
func (h *Handler) checkOrigin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		origin := c.Request().Header.Get("Origin")
		if h.cfg.Origin != "" && origin != "" && isUnsafeMethod(c.Request().Method) && origin != h.cfg.Origin {
			slog.Error("origin not allowed", slog.String("origin", origin))
			return errorResponse(c, entity.ErrBadRequest, "origin not allowed")
		}

		return next(c)
	}
}

func (h *Handler) setupRootRoutes(group *echo.Group) {
	group.GET("/health", h.handleHealth)
}
