package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aiuniverse/universe/internal/entity/web"
	"github.com/aiuniverse/universe/portal/internal/realtime"
	"github.com/aiuniverse/universe/portal/internal/worlds"
	"github.com/labstack/echo/v4"
)

const keepAliveInterval = 15 * time.Second

func (h *Handler) handleWorldChanges(c echo.Context) error {
	ctx := c.Request().Context()

	world, err := h.Worlds.Get(ctx, viewerID(c), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}

	subscription, err := h.Broker.Subscribe(ctx, realtime.WorldTopic(world.ID))
	if err != nil {
		return h.fail(c, err)
	}
	defer subscription.Close()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	w := c.Response()
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	writeEvent := func(data []byte) error {
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", worlds.ChangeEvent, data); err != nil {
			return err
		}
		w.Flush()
		return nil
	}

	for {
		select {
		case msg, ok := <-subscription.Channel():
			if !ok {
				return nil
			}
			if msg.Event != worlds.ChangeEvent {
				continue
			}
			if err := writeEvent(msg.Payload); err != nil {
				slog.Error("Failed to write server-sent event", slog.Any("error", err))
				return nil
			}

			var change web.WorldChange
			if err := json.Unmarshal(msg.Payload, &change); err == nil && change.Type == web.ChangeDelete {
				return nil
			}

		case <-ticker.C:
			if _, err := w.Write([]byte(": keep-alive\n\n")); err != nil {
				slog.Error("Failed to write keep-alive message", slog.Any("error", err))
				return nil
			}
			w.Flush()

		case <-ctx.Done():
			return nil
		}
	}
}
