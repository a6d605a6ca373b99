package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/aiuniverse/universe/internal/entity"
	"github.com/aiuniverse/universe/internal/entity/web"
	"github.com/aiuniverse/universe/portal/internal/auth"
	"github.com/aiuniverse/universe/portal/internal/db"
	"github.com/aiuniverse/universe/portal/internal/events"
	"github.com/aiuniverse/universe/portal/internal/worlds"
	"github.com/labstack/echo/v4"
)

const (
	defaultUpcomingLimit = 10
	maxUpcomingLimit     = 100
)

func currentToken(c echo.Context) *auth.Token {
	token, _ := c.Get(contextTokenKey).(*auth.Token)
	return token
}

// viewerID is the id of the signed-in user, or empty for anonymous requests.
func viewerID(c echo.Context) string {
	if token := currentToken(c); token != nil {
		return token.UserID
	}
	return ""
}

func (h *Handler) resolveToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := h.Auth.Get(c.Request().Context(), requestToken(c))
		if err == nil {
			c.Set(contextTokenKey, token)
		} else if !errors.Is(err, auth.ErrRequiresAuth) {
			slog.Error("Failed to resolve token", slog.Any("error", err))
		}

		return next(c)
	}
}

func requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if currentToken(c) == nil {
			return errorResponse(c, entity.ErrRequiresAuth, auth.TranslateError(auth.ErrRequiresAuth.Error()))
		}
		return next(c)
	}
}

// validID answers ids PostgreSQL could not parse as not found.
func validID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !db.ValidID(c.Param("id")) {
			return errorResponse(c, entity.ErrNotFound, "not found")
		}
		return next(c)
	}
}

func enabled(available bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !available {
				return errorResponse(c, entity.ErrFeatureOff, "this feature is not configured")
			}
			return next(c)
		}
	}
}

func (h *Handler) handleUpdateProfile(c echo.Context) error {
	var update web.ProfileUpdate
	if err := c.Bind(&update); err != nil {
		return errorResponse(c, entity.ErrBadRequest, "")
	}

	user, err := h.Auth.UpdateProfile(c.Request().Context(), viewerID(c), update)
	if err != nil {
		return h.fail(c, err)
	}

	return success(c, auth.ToWeb(user))
}

func (h *Handler) handleListWorlds(c echo.Context) error {
	ownerID := ""
	if c.QueryParam("mine") == "true" {
		if currentToken(c) == nil {
			return h.fail(c, auth.ErrRequiresAuth)
		}
		ownerID = viewerID(c)
	}

	result, err := h.Worlds.List(c.Request().Context(), ownerID)
	if err != nil {
		return h.fail(c, err)
	}

	return success(c, worlds.ToWebList(result))
}

func (h *Handler) handleGetWorld(c echo.Context) error {
	world, err := h.Worlds.Get(c.Request().Context(), viewerID(c), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}

	return success(c, worlds.ToWeb(world))
}

func (h *Handler) handleGetWorldBySlug(c echo.Context) error {
	world, err := h.Worlds.GetBySlug(c.Request().Context(), viewerID(c), c.Param("slug"))
	if err != nil {
		return h.fail(c, err)
	}

	return success(c, worlds.ToWeb(world))
}

func (h *Handler) handleCreateWorld(c echo.Context) error {
	var input web.WorldInput
	if err := c.Bind(&input); err != nil {
		return errorResponse(c, entity.ErrBadRequest, "")
	}

	world, err := h.Worlds.Create(c.Request().Context(), viewerID(c), input)
	if err != nil {
		return h.fail(c, err)
	}

	return success(c, worlds.ToWeb(world))
}

func (h *Handler) handleUpdateWorld(c echo.Context) error {
	var patch web.WorldPatch
	if err := c.Bind(&patch); err != nil {
		return errorResponse(c, entity.ErrBadRequest, "")
	}

	world, err := h.Worlds.Update(c.Request().Context(), viewerID(c), c.Param("id"), patch)
	if err != nil {
		return h.fail(c, err)
	}

	return success(c, worlds.ToWeb(world))
}

func (h *Handler) handleDeleteWorld(c echo.Context) error {
	if err := h.Worlds.Delete(c.Request().Context(), viewerID(c), c.Param("id")); err != nil {
		return h.fail(c, err)
	}

	return success[any](c, nil)
}

func (h *Handler) handleListEvents(c echo.Context) error {
	result, err := h.Events.List(c.Request().Context(), viewerID(c), c.QueryParam("worldId"))
	if err != nil {
		return h.fail(c, err)
	}

	return success(c, events.ToWebList(result))
}

func parseLimit(value string) int {
	limit, err := strconv.Atoi(value)
	if err != nil || limit <= 0 {
		return defaultUpcomingLimit
	}
	return min(limit, maxUpcomingLimit)
}

func (h *Handler) handleUpcomingEvents(c echo.Context) error {
	result, err := h.Events.Upcoming(c.Request().Context(), parseLimit(c.QueryParam("limit")))
	if err != nil {
		return h.fail(c, err)
	}

	return success(c, events.ToWebList(result))
}

func (h *Handler) handleCreateEvent(c echo.Context) error {
	var input web.EventInput
	if err := c.Bind(&input); err != nil {
		return errorResponse(c, entity.ErrBadRequest, "")
	}

	event, err := h.Events.Create(c.Request().Context(), viewerID(c), input)
	if err != nil {
		return h.fail(c, err)
	}

	return success(c, events.ToWeb(event))
}

func (h *Handler) handleUpdateEvent(c echo.Context) error {
	var patch web.EventPatch
	if err := c.Bind(&patch); err != nil {
		return errorResponse(c, entity.ErrBadRequest, "")
	}

	event, err := h.Events.Update(c.Request().Context(), viewerID(c), c.Param("id"), patch)
	if err != nil {
		return h.fail(c, err)
	}

	return success(c, events.ToWeb(event))
}

func (h *Handler) handleDeleteEvent(c echo.Context) error {
	if err := h.Events.Delete(c.Request().Context(), viewerID(c), c.Param("id")); err != nil {
		return h.fail(c, err)
	}

	return success[any](c, nil)
}

func (h *Handler) setupApiRoutes(group *echo.Group) {
	group.Use(h.checkOrigin)
	group.Use(h.resolveToken)

	authGroup := group.Group("/auth")
	authGroup.POST("/signup", h.handleSignUp)
	authGroup.POST("/signin", h.handleSignIn)
	authGroup.POST("/signout", h.handleSignOut)
	authGroup.GET("/session", h.handleSessionData)
	authGroup.POST("/reset-password", h.handleResetPassword)

	group.PATCH("/users/me", h.handleUpdateProfile, requireAuth)

	worldGroup := group.Group("/worlds", enabled(h.Worlds != nil))
	worldGroup.GET("", h.handleListWorlds)
	worldGroup.POST("", h.handleCreateWorld, requireAuth)
	worldGroup.GET("/slug/:slug", h.handleGetWorldBySlug)
	worldGroup.GET("/:id", h.handleGetWorld, validID)
	worldGroup.PATCH("/:id", h.handleUpdateWorld, validID, requireAuth)
	worldGroup.DELETE("/:id", h.handleDeleteWorld, validID, requireAuth)
	worldGroup.GET("/:id/changes", h.handleWorldChanges, validID, enabled(h.Broker != nil))
	worldGroup.GET("/:id/chat", h.handleChat, validID, enabled(h.Chat != nil))
	worldGroup.POST("/:id/analytics", h.handleTrack, validID, enabled(h.Analytics != nil))
	worldGroup.GET("/:id/analytics", h.handleQueryAnalytics, validID, requireAuth, enabled(h.Analytics != nil))
	worldGroup.GET("/:id/translations", h.handleListTranslations, validID, enabled(h.Translations != nil))
	worldGroup.PUT("/:id/translations/:lang", h.handleUpsertTranslation, validID, requireAuth, enabled(h.Translations != nil))
	worldGroup.POST("/:id/subscriptions", h.handleSubscribe, validID, requireAuth, enabled(h.Subscriptions != nil))

	eventGroup := group.Group("/events", enabled(h.Events != nil))
	eventGroup.GET("", h.handleListEvents)
	eventGroup.GET("/upcoming", h.handleUpcomingEvents)
	eventGroup.POST("", h.handleCreateEvent, requireAuth)
	eventGroup.PATCH("/:id", h.handleUpdateEvent, validID, requireAuth)
	eventGroup.DELETE("/:id", h.handleDeleteEvent, validID, requireAuth)

	subscriptionGroup := group.Group("/subscriptions", requireAuth, enabled(h.Subscriptions != nil))
	subscriptionGroup.GET("", h.handleListSubscriptions)
	subscriptionGroup.DELETE("/:id", h.handleCancelSubscription, validID)

	fileGroup := group.Group("/files", requireAuth, enabled(h.Files != nil))
	fileGroup.GET("", h.handleListFiles)
	fileGroup.PUT("/:name", h.handleUploadFile)
	fileGroup.GET("/:name/url", h.handleSignedURL)
	fileGroup.DELETE("/:name", h.handleDeleteFile)
}
