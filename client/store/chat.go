package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aiuniverse/universe/internal/entity"
	"github.com/aiuniverse/universe/internal/entity/web"
	"github.com/google/uuid"
)

var ErrNotConnected = errors.New("not connected to this world's chat")

type ChatConn interface {
	Send(message web.ChatMessage) error
	Receive() (web.ChatEnvelope, error)
	Close() error
}

type Dialer func(ctx context.Context, worldID string) (ChatConn, error)

type ChatState struct {
	Messages       []web.ChatMessage
	Typing         bool
	Connected      bool
	CurrentWorldID string
}

type ChatStore struct {
	notifier
	dial Dialer
	now  func() time.Time

	mu    sync.Mutex
	state ChatState
	conn  ChatConn
	done  chan struct{}
}

func NewChatStore(dial Dialer) *ChatStore {
	return &ChatStore{
		dial: dial,
		now:  time.Now,
	}
}

func (s *ChatStore) State() ChatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state
	state.Messages = slices.Clone(state.Messages)
	return state
}

// Connect joins worldID's chat room, leaving the current room first.
func (s *ChatStore) Connect(ctx context.Context, worldID string) error {
	s.mu.Lock()
	current, connected := s.state.CurrentWorldID, s.conn != nil
	s.mu.Unlock()

	if connected && current == worldID {
		return nil
	}
	if current != "" {
		s.Disconnect()
	}

	conn, err := s.dial(ctx, worldID)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	s.mu.Lock()
	s.conn = conn
	s.done = done
	s.state.CurrentWorldID = worldID
	s.state.Connected = true
	s.mu.Unlock()
	s.notify()

	go s.receive(conn, done)

	return nil
}

func (s *ChatStore) receive(conn ChatConn, done chan struct{}) {
	defer close(done)

	for {
		frame, err := conn.Receive()
		if err != nil {
			s.mu.Lock()
			stale := s.conn != conn
			if !stale {
				s.state.Connected = false
				s.state.Typing = false
			}
			s.mu.Unlock()
			if !stale {
				slog.Debug("Chat connection lost", slog.Any("error", err))
				s.notify()
			}
			return
		}

		switch frame.Type {
		case web.ChatFrameMessage:
			var message web.ChatMessage
			if err := json.Unmarshal(frame.Payload, &message); err != nil || message.ID == "" {
				continue
			}
			s.appendFrom(conn, message)

		case web.ChatFrameTyping:
			var typing web.TypingState
			if err := json.Unmarshal(frame.Payload, &typing); err != nil {
				continue
			}
			s.mu.Lock()
			stale := s.conn != conn
			if !stale {
				s.state.Typing = typing.Typing
			}
			s.mu.Unlock()
			if !stale {
				s.notify()
			}
		}
	}
}

func (s *ChatStore) appendFrom(conn ChatConn, message web.ChatMessage) {
	s.mu.Lock()
	if s.conn != conn {
		s.mu.Unlock()
		return
	}
	s.state.Messages = append(s.state.Messages, message)
	s.mu.Unlock()
	s.notify()
}

// Send appends the message locally and hands it to the room. The assistant
// reply arrives later as a frame of its own.
func (s *ChatStore) Send(content, worldID, userID string) (web.ChatMessage, error) {
	s.mu.Lock()
	conn := s.conn
	current := s.state.CurrentWorldID
	s.mu.Unlock()

	if conn == nil || current != worldID {
		return web.ChatMessage{}, ErrNotConnected
	}

	message := web.ChatMessage{
		ID:        uuid.NewString(),
		Content:   content,
		Role:      entity.RoleUser,
		Timestamp: s.now().UTC(),
		WorldID:   worldID,
		UserID:    userID,
	}
	s.AddMessage(message)

	return message, conn.Send(message)
}

func (s *ChatStore) AddMessage(message web.ChatMessage) {
	s.mu.Lock()
	s.state.Messages = append(s.state.Messages, message)
	s.mu.Unlock()
	s.notify()
}

// Disconnect leaves the room and forgets every message.
func (s *ChatStore) Disconnect() {
	s.mu.Lock()
	conn, done := s.conn, s.done
	s.conn = nil
	s.done = nil
	s.state = ChatState{}
	s.mu.Unlock()

	if conn != nil {
		conn.Close()
		<-done
	}
	s.notify()
}

func (s *ChatStore) ClearMessages() {
	s.mu.Lock()
	s.state.Messages = nil
	s.mu.Unlock()
	s.notify()
}
