package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"dario.cat/mergo"
	"github.com/aiuniverse/universe/internal/entity"
	"github.com/aiuniverse/universe/internal/entity/web"
	"github.com/aiuniverse/universe/portal/internal/realtime"
	"github.com/google/uuid"
)

const MessageEvent = "message"

var (
	ErrNoID   = errors.New("chat message has no id")
	ErrClosed = errors.New("chat session closed")
)

type Options struct {
	// Replies are sent after MinDelay plus a random duration below DelaySpread.
	MinDelay    time.Duration
	DelaySpread time.Duration
	// Frames beyond BufferSize are dropped until the reader catches up.
	BufferSize int
}

var defaultOptions = Options{
	MinDelay:    time.Second,
	DelaySpread: 2 * time.Second,
	BufferSize:  32,
}

type Service struct {
	broker    realtime.Broker
	responder Responder
	opts      Options
}

func New(broker realtime.Broker, responder Responder, opts Options) (*Service, error) {
	if err := mergo.Merge(&opts, defaultOptions); err != nil {
		return nil, err
	}
	return &Service{
		broker:    broker,
		responder: responder,
		opts:      opts,
	}, nil
}

func (s *Service) delay() time.Duration {
	if s.opts.DelaySpread <= 0 {
		return s.opts.MinDelay
	}
	return s.opts.MinDelay + rand.N(s.opts.DelaySpread)
}

// Session is one participant connected to the chat of a world.
type Session struct {
	id      string
	worldID string
	userID  string
	svc     *Service
	sub     realtime.Subscription

	ctx    context.Context
	cancel context.CancelFunc
	out    chan web.ChatEnvelope
	wg     sync.WaitGroup

	mu      sync.Mutex
	closed  bool
	pending int
}

// Connect subscribes to the chat of worldID. The session stays open until Close.
func (s *Service) Connect(ctx context.Context, worldID, userID string) (*Session, error) {
	sub, err := s.broker.Subscribe(ctx, realtime.ChatTopic(worldID))
	if err != nil {
		return nil, err
	}

	sessionCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	session := &Session{
		id:      uuid.NewString(),
		worldID: worldID,
		userID:  userID,
		svc:     s,
		sub:     sub,
		ctx:     sessionCtx,
		cancel:  cancel,
		out:     make(chan web.ChatEnvelope, s.opts.BufferSize),
	}

	session.wg.Add(1)
	go session.forward()

	return session, nil
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) WorldID() string {
	return s.worldID
}

// Frames delivers the frames for this participant. It is closed by Close.
func (s *Session) Frames() <-chan web.ChatEnvelope {
	return s.out
}

func envelope(frameType web.ChatFrameType, payload any) (web.ChatEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return web.ChatEnvelope{}, err
	}
	return web.ChatEnvelope{Type: frameType, Payload: data}, nil
}

func (s *Session) enqueue(frameType web.ChatFrameType, payload any) {
	frame, err := envelope(frameType, payload)
	if err != nil {
		slog.Error("Failed to encode chat frame", slog.Any("error", err))
		return
	}

	select {
	case s.out <- frame:
	default:
		slog.Warn("Chat send buffer is full, dropping frame", slog.String("session", s.id), slog.String("type", string(frameType)))
	}
}

func (s *Session) forward() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case msg, ok := <-s.sub.Channel():
			if !ok {
				return
			}
			if msg.Sender == s.id || msg.Event != MessageEvent {
				continue
			}

			var message web.ChatMessage
			if err := json.Unmarshal(msg.Payload, &message); err != nil {
				slog.Debug("Ignoring malformed chat message", slog.Any("error", err))
				continue
			}
			if message.ID == "" {
				continue
			}
			s.enqueue(web.ChatFrameMessage, message)
		}
	}
}

// Send broadcasts a message from this participant to the others in the world
// and schedules the assistant reply, which only this participant receives.
func (s *Session) Send(ctx context.Context, message web.ChatMessage) error {
	if message.ID == "" {
		return ErrNoID
	}

	message.Role = entity.RoleUser
	message.WorldID = s.worldID
	message.UserID = s.userID
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC()
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.wg.Add(1)
	s.pending++
	if s.pending == 1 {
		s.enqueue(web.ChatFrameTyping, web.TypingState{Typing: true})
	}
	s.mu.Unlock()

	go s.reply(message.Content)

	msg, err := realtime.NewMessage(ctx, MessageEvent, s.id, message)
	if err != nil {
		return err
	}
	return s.svc.broker.Publish(ctx, realtime.ChatTopic(s.worldID), msg)
}

func (s *Session) reply(content string) {
	defer s.wg.Done()

	timer := time.NewTimer(s.svc.delay())
	defer timer.Stop()

	select {
	case <-s.ctx.Done():
		return
	case <-timer.C:
	}

	text, err := s.svc.responder.Respond(s.ctx, content)
	if err != nil {
		slog.Error("Failed to generate chat reply", slog.String("world_id", s.worldID), slog.Any("error", err))
		text = Apology
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.enqueue(web.ChatFrameMessage, web.ChatMessage{
		ID:        uuid.NewString(),
		Content:   text,
		Role:      entity.RoleAssistant,
		Timestamp: time.Now().UTC(),
		WorldID:   s.worldID,
	})
	s.pending--
	if s.pending == 0 {
		s.enqueue(web.ChatFrameTyping, web.TypingState{Typing: false})
	}
}

// Close drops pending replies, leaves the world and closes Frames.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	err := s.sub.Close()
	s.wg.Wait()
	close(s.out)

	return err
}
