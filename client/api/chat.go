package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/aiuniverse/universe/internal/entity/web"
	"github.com/gorilla/websocket"
)

// ChatConn is one websocket connection to a world's chat room.
type ChatConn struct {
	conn *websocket.Conn

	writeMu sync.Mutex
}

func (c *Client) chatURL(worldID string) (string, error) {
	endpoint, err := c.endpoint(worldPath(worldID, "/chat"), nil)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	return u.String(), nil
}

func (c *Client) DialChat(ctx context.Context, worldID string) (*ChatConn, error) {
	endpoint, err := c.chatURL(worldID)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	if token := c.Token(); token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint, header)
	if err != nil {
		// The portal answers refusals with a JSON envelope before upgrading.
		if resp != nil && resp.StatusCode == http.StatusOK && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
			var env envelope
			if json.NewDecoder(resp.Body).Decode(&env) == nil && !env.Success {
				return nil, &APIError{Code: env.ErrorCode, Message: env.Message}
			}
		}
		return nil, err
	}

	return &ChatConn{conn: conn}, nil
}

func (cc *ChatConn) Send(message web.ChatMessage) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}

	cc.writeMu.Lock()
	defer cc.writeMu.Unlock()
	return cc.conn.WriteJSON(web.ChatEnvelope{
		Type:    web.ChatFrameMessage,
		Payload: payload,
	})
}

// Receive blocks until the next frame arrives or the connection fails.
func (cc *ChatConn) Receive() (web.ChatEnvelope, error) {
	var frame web.ChatEnvelope
	err := cc.conn.ReadJSON(&frame)
	return frame, err
}

func (cc *ChatConn) Close() error {
	cc.writeMu.Lock()
	cc.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	cc.writeMu.Unlock()
	return cc.conn.Close()
}
