package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aiuniverse/universe/internal/entity"
	"github.com/aiuniverse/universe/internal/entity/web"
	"github.com/aiuniverse/universe/portal/internal/analytics"
	"github.com/aiuniverse/universe/portal/internal/auth"
	"github.com/aiuniverse/universe/portal/internal/chat"
	"github.com/aiuniverse/universe/portal/internal/events"
	"github.com/aiuniverse/universe/portal/internal/files"
	"github.com/aiuniverse/universe/portal/internal/subscriptions"
	"github.com/aiuniverse/universe/portal/internal/translations"
	"github.com/aiuniverse/universe/portal/internal/worlds"
	"github.com/labstack/echo/v4"
)

const dupSlugMessage = "This world name is already taken. Please choose another."

var errorTable = []struct {
	errs []error
	code entity.ErrorCode
}{
	{[]error{auth.ErrCredential}, entity.ErrCredential},
	{[]error{auth.ErrDupEmail}, entity.ErrDupEmail},
	{[]error{auth.ErrPasswordRule}, entity.ErrPasswordRule},
	{[]error{auth.ErrInvalidEmail}, entity.ErrInvalidEmail},
	{[]error{auth.ErrRequiresAuth}, entity.ErrRequiresAuth},
	{[]error{worlds.ErrDupSlug}, entity.ErrDupSlug},
	{[]error{worlds.ErrPermission, events.ErrPermission}, entity.ErrPermission},
	{[]error{events.ErrWorldGone, analytics.ErrUnknownWorld}, entity.ErrWorldGone},
	{[]error{
		auth.ErrNotFound,
		worlds.ErrNotFound,
		events.ErrNotFound,
		files.ErrNotFound,
		subscriptions.ErrNotFound,
	}, entity.ErrNotFound},
	{[]error{
		auth.ErrBadInput,
		worlds.ErrNoTitle,
		worlds.ErrInvalidSlug,
		events.ErrInvalidType,
		events.ErrNoTitle,
		events.ErrTimeRange,
		analytics.ErrInvalidEvent,
		translations.ErrInvalidLanguage,
		translations.ErrInvalidContent,
		files.ErrInvalidName,
		subscriptions.ErrAlreadyActive,
		chat.ErrNoID,
	}, entity.ErrBadRequest},
}

// classify maps a service error to its wire code and the message shown to users.
func classify(err error) (entity.ErrorCode, string) {
	for _, row := range errorTable {
		for _, target := range row.errs {
			if !errors.Is(err, target) {
				continue
			}
			switch row.code {
			case entity.ErrCredential, entity.ErrDupEmail, entity.ErrPasswordRule, entity.ErrInvalidEmail, entity.ErrRequiresAuth:
				return row.code, auth.TranslateError(target.Error())
			case entity.ErrDupSlug:
				return row.code, dupSlugMessage
			}
			return row.code, err.Error()
		}
	}
	return entity.ErrInternal, ""
}

func errorResponse(c echo.Context, code entity.ErrorCode, message string) error {
	return c.JSON(http.StatusOK, web.ErrorResponse{
		Success:   false,
		ErrorCode: code,
		Message:   message,
	})
}

func (h *Handler) fail(c echo.Context, err error) error {
	code, message := classify(err)
	if code == entity.ErrInternal {
		slog.Error("Request failed", slog.String("path", c.Path()), slog.Any("error", err))
	}
	return errorResponse(c, code, message)
}

func success[T any](c echo.Context, data T) error {
	return c.JSON(http.StatusOK, web.SuccessfulResponse[T]{
		Success: true,
		Data:    data,
	})
}
