package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/aiuniverse/universe/internal/entity"
	"github.com/aiuniverse/universe/internal/entity/web"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeConn struct {
	frames chan web.ChatEnvelope
	closed chan struct{}
	once   sync.Once

	mu   sync.Mutex
	sent []web.ChatMessage
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		frames: make(chan web.ChatEnvelope, 8),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) Send(message web.ChatMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, message)
	return nil
}

func (c *fakeConn) Sent() []web.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]web.ChatMessage(nil), c.sent...)
}

func (c *fakeConn) Receive() (web.ChatEnvelope, error) {
	select {
	case frame := <-c.frames:
		return frame, nil
	case <-c.closed:
		return web.ChatEnvelope{}, errors.New("closed")
	}
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) push(frameType web.ChatFrameType, payload any) {
	data, err := json.Marshal(payload)
	Expect(err).NotTo(HaveOccurred())
	c.frames <- web.ChatEnvelope{Type: frameType, Payload: data}
}

var _ = Describe("ChatStore", func() {
	var (
		conns map[string]*fakeConn
		sut   *ChatStore
		ctx   context.Context
	)

	BeforeEach(func() {
		conns = map[string]*fakeConn{"w1": newFakeConn(), "w2": newFakeConn()}
		sut = NewChatStore(func(ctx context.Context, worldID string) (ChatConn, error) {
			conn, ok := conns[worldID]
			if !ok {
				return nil, errors.New("no such world")
			}
			return conn, nil
		})
		ctx = context.Background()
	})

	AfterEach(func() {
		sut.Disconnect()
	})

	It("should append the user message once and send it", func() {
		Expect(sut.Connect(ctx, "w1")).To(Succeed())

		message, err := sut.Send("hello", "w1", "u1")
		Expect(err).NotTo(HaveOccurred())
		Expect(message.Role).To(Equal(entity.RoleUser))

		state := sut.State()
		Expect(state.Messages).To(HaveLen(1))
		Expect(state.Messages[0].Content).To(Equal("hello"))
		Expect(conns["w1"].Sent()).To(ConsistOf(message))
	})

	It("should show typing and the assistant reply", func() {
		Expect(sut.Connect(ctx, "w1")).To(Succeed())

		conns["w1"].push(web.ChatFrameTyping, web.TypingState{Typing: true})
		Eventually(func() bool { return sut.State().Typing }).Should(BeTrue())

		conns["w1"].push(web.ChatFrameMessage, web.ChatMessage{ID: "a1", Role: entity.RoleAssistant, Content: "Hello!"})
		conns["w1"].push(web.ChatFrameTyping, web.TypingState{Typing: false})

		Eventually(func() []web.ChatMessage { return sut.State().Messages }).Should(HaveLen(1))
		Eventually(func() bool { return sut.State().Typing }).Should(BeFalse())
	})

	It("should ignore frames without an id", func() {
		Expect(sut.Connect(ctx, "w1")).To(Succeed())

		conns["w1"].push(web.ChatFrameMessage, web.ChatMessage{Content: "anonymous"})
		conns["w1"].push(web.ChatFrameMessage, web.ChatMessage{ID: "m2", Content: "kept"})

		Eventually(func() []web.ChatMessage { return sut.State().Messages }).Should(HaveLen(1))
		Consistently(func() []web.ChatMessage { return sut.State().Messages }, "50ms").Should(HaveLen(1))
	})

	It("should leave the previous world and forget its messages", func() {
		Expect(sut.Connect(ctx, "w1")).To(Succeed())
		sut.AddMessage(web.ChatMessage{ID: "m1"})

		Expect(sut.Connect(ctx, "w2")).To(Succeed())

		state := sut.State()
		Expect(state.CurrentWorldID).To(Equal("w2"))
		Expect(state.Connected).To(BeTrue())
		Expect(state.Messages).To(BeEmpty())
		Eventually(conns["w1"].closed).Should(BeClosed())
	})

	It("should refuse sends to another world", func() {
		Expect(sut.Connect(ctx, "w1")).To(Succeed())

		_, err := sut.Send("hi", "w2", "u1")
		Expect(err).To(MatchError(ErrNotConnected))
	})

	It("should clear everything on disconnect", func() {
		Expect(sut.Connect(ctx, "w1")).To(Succeed())
		_, err := sut.Send("hello", "w1", "")
		Expect(err).NotTo(HaveOccurred())

		sut.Disconnect()

		Expect(sut.State()).To(Equal(ChatState{}))
	})
})
