package handler

import (
	"encoding/json"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/aiuniverse/universe/internal/entity"
	"github.com/aiuniverse/universe/internal/entity/web"
	"github.com/aiuniverse/universe/portal/internal/analytics"
	"github.com/aiuniverse/universe/portal/internal/files"
	"github.com/aiuniverse/universe/portal/internal/subscriptions"
	"github.com/aiuniverse/universe/portal/internal/translations"
	"github.com/labstack/echo/v4"
)

const (
	maxUploadSize      = 50 << 20
	maxTranslationSize = 1 << 20
)

func (h *Handler) handleTrack(c echo.Context) error {
	var req web.TrackRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, entity.ErrBadRequest, "")
	}

	ctx := c.Request().Context()
	world, err := h.Worlds.Get(ctx, viewerID(c), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}

	event, err := h.Analytics.Track(ctx, world.ID, viewerID(c), req)
	if err != nil {
		return h.fail(c, err)
	}

	return success(c, analytics.ToWeb(event))
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, value)
}

func (h *Handler) handleQueryAnalytics(c echo.Context) error {
	from, err := parseTime(c.QueryParam("from"))
	if err != nil {
		return errorResponse(c, entity.ErrBadRequest, "from must be an RFC 3339 time")
	}
	to, err := parseTime(c.QueryParam("to"))
	if err != nil {
		return errorResponse(c, entity.ErrBadRequest, "to must be an RFC 3339 time")
	}

	ctx := c.Request().Context()
	world, err := h.Worlds.GetOwned(ctx, viewerID(c), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}

	result, err := h.Analytics.Query(ctx, world.ID, from, to)
	if err != nil {
		return h.fail(c, err)
	}

	return success(c, analytics.ToWebList(result))
}

func (h *Handler) handleListTranslations(c echo.Context) error {
	ctx := c.Request().Context()
	world, err := h.Worlds.Get(ctx, viewerID(c), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}

	result, err := h.Translations.List(ctx, world.ID)
	if err != nil {
		return h.fail(c, err)
	}

	return success(c, translations.ToWebList(result))
}

func (h *Handler) handleUpsertTranslation(c echo.Context) error {
	content, err := io.ReadAll(io.LimitReader(c.Request().Body, maxTranslationSize))
	if err != nil {
		return errorResponse(c, entity.ErrBadRequest, "")
	}

	translation, err := h.Translations.Upsert(c.Request().Context(), viewerID(c), c.Param("id"), c.Param("lang"), json.RawMessage(content))
	if err != nil {
		return h.fail(c, err)
	}

	return success(c, translations.ToWeb(translation))
}

func (h *Handler) handleSubscribe(c echo.Context) error {
	subscription, err := h.Subscriptions.Subscribe(c.Request().Context(), viewerID(c), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}

	return success(c, subscriptions.ToWeb(subscription))
}

func (h *Handler) handleListSubscriptions(c echo.Context) error {
	result, err := h.Subscriptions.List(c.Request().Context(), viewerID(c))
	if err != nil {
		return h.fail(c, err)
	}

	return success(c, subscriptions.ToWebList(result))
}

func (h *Handler) handleCancelSubscription(c echo.Context) error {
	if err := h.Subscriptions.Cancel(c.Request().Context(), viewerID(c), c.Param("id")); err != nil {
		return h.fail(c, err)
	}

	return success[any](c, nil)
}

func fileName(c echo.Context) (string, error) {
	return url.PathUnescape(c.Param("name"))
}

func (h *Handler) handleListFiles(c echo.Context) error {
	result, err := h.Files.List(c.Request().Context(), viewerID(c))
	if err != nil {
		return h.fail(c, err)
	}

	return success(c, result)
}

func (h *Handler) handleUploadFile(c echo.Context) error {
	name, err := fileName(c)
	if err != nil {
		return h.fail(c, files.ErrInvalidName)
	}

	size := c.Request().ContentLength
	if size < 0 {
		return errorResponse(c, entity.ErrBadRequest, "Content-Length is required")
	}
	if size > maxUploadSize {
		return errorResponse(c, entity.ErrBadRequest, "file is too large")
	}

	body := io.LimitReader(c.Request().Body, size)
	obj, err := h.Files.Upload(c.Request().Context(), viewerID(c), name, body, size, c.Request().Header.Get(echo.HeaderContentType))
	if err != nil {
		return h.fail(c, err)
	}

	return success(c, obj)
}

func (h *Handler) handleSignedURL(c echo.Context) error {
	name, err := fileName(c)
	if err != nil {
		return h.fail(c, files.ErrInvalidName)
	}

	var expires time.Duration
	if value := c.QueryParam("expires"); value != "" {
		seconds, err := strconv.Atoi(value)
		if err != nil {
			return errorResponse(c, entity.ErrBadRequest, "expires must be a number of seconds")
		}
		expires = time.Duration(seconds) * time.Second
	}

	signed, err := h.Files.SignedURL(c.Request().Context(), viewerID(c), name, expires)
	if err != nil {
		return h.fail(c, err)
	}

	return success(c, signed)
}

func (h *Handler) handleDeleteFile(c echo.Context) error {
	name, err := fileName(c)
	if err != nil {
		return h.fail(c, files.ErrInvalidName)
	}

	if err := h.Files.Delete(c.Request().Context(), viewerID(c), name); err != nil {
		return h.fail(c, err)
	}

	return success[any](c, nil)
}
