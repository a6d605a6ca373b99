package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aiuniverse/universe/internal/entity"
	"github.com/aiuniverse/universe/internal/entity/web"
	"github.com/aiuniverse/universe/portal/internal/chat"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

const (
	chatWriteTimeout = 10 * time.Second
	chatPongTimeout  = 60 * time.Second
	chatPingInterval = 25 * time.Second
	chatMaxFrameSize = 64 << 10
)

func (h *Handler) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return h.cfg.Origin == "" || origin == "" || origin == h.cfg.Origin
		},
	}
}

func (h *Handler) handleChat(c echo.Context) error {
	ctx := c.Request().Context()

	world, err := h.Worlds.Get(ctx, viewerID(c), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	if !world.Features.Chat {
		return errorResponse(c, entity.ErrFeatureOff, "chat is disabled in this world")
	}

	conn, err := h.upgrader().Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error("Failed to upgrade chat connection", slog.Any("error", err))
		return nil
	}
	defer conn.Close()

	session, err := h.Chat.Connect(ctx, world.ID, viewerID(c))
	if err != nil {
		slog.Error("Failed to join chat", slog.String("world_id", world.ID), slog.Any("error", err))
		conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseInternalServerErr, ""), time.Now().Add(chatWriteTimeout))
		return nil
	}
	defer session.Close()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return readChat(ctx, conn, session)
	})
	eg.Go(func() error {
		defer conn.Close()
		return writeChat(ctx, conn, session)
	})

	if err := eg.Wait(); err != nil && !isClosure(err) {
		slog.Debug("Chat connection ended", slog.String("world_id", world.ID), slog.Any("error", err))
	}

	return nil
}

func isClosure(err error) bool {
	return errors.Is(err, context.Canceled) || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}

func readChat(ctx context.Context, conn *websocket.Conn, session *chat.Session) error {
	conn.SetReadLimit(chatMaxFrameSize)
	conn.SetReadDeadline(time.Now().Add(chatPongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(chatPongTimeout))
	})

	for {
		var frame web.ChatEnvelope
		if err := conn.ReadJSON(&frame); err != nil {
			return err
		}
		conn.SetReadDeadline(time.Now().Add(chatPongTimeout))

		if frame.Type != web.ChatFrameMessage {
			continue
		}

		var message web.ChatMessage
		if err := json.Unmarshal(frame.Payload, &message); err != nil {
			slog.Debug("Ignoring malformed chat frame", slog.Any("error", err))
			continue
		}

		if err := session.Send(ctx, message); err != nil {
			if errors.Is(err, chat.ErrNoID) {
				continue
			}
			return err
		}
	}
}

func writeChat(ctx context.Context, conn *websocket.Conn, session *chat.Session) error {
	ticker := time.NewTicker(chatPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(chatWriteTimeout))
			return ctx.Err()

		case frame, ok := <-session.Frames():
			if !ok {
				return nil
			}
			conn.SetWriteDeadline(time.Now().Add(chatWriteTimeout))
			if err := conn.WriteJSON(frame); err != nil {
				return err
			}

		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(chatWriteTimeout)); err != nil {
				return err
			}
		}
	}
}
