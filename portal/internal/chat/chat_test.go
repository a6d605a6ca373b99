package chat

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aiuniverse/universe/internal/entity"
	"github.com/aiuniverse/universe/internal/entity/web"
	"github.com/aiuniverse/universe/portal/internal/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fastOptions = Options{
	MinDelay:    5 * time.Millisecond,
	DelaySpread: time.Millisecond,
}

type failingResponder struct{}

func (failingResponder) Respond(ctx context.Context, content string) (string, error) {
	return "", errors.New("model unavailable")
}

func nextFrame(t *testing.T, s *Session) web.ChatEnvelope {
	t.Helper()
	select {
	case frame, ok := <-s.Frames():
		require.True(t, ok, "frames closed")
		return frame
	case <-time.After(time.Second):
		t.Fatal("no frame received")
	}
	return web.ChatEnvelope{}
}

func decodeMessage(t *testing.T, frame web.ChatEnvelope) web.ChatMessage {
	t.Helper()
	require.Equal(t, web.ChatFrameMessage, frame.Type)
	var msg web.ChatMessage
	require.NoError(t, json.Unmarshal(frame.Payload, &msg))
	return msg
}

func decodeTyping(t *testing.T, frame web.ChatEnvelope) bool {
	t.Helper()
	require.Equal(t, web.ChatFrameTyping, frame.Type)
	var state web.TypingState
	require.NoError(t, json.Unmarshal(frame.Payload, &state))
	return state.Typing
}

func assertNoFrame(t *testing.T, s *Session) {
	t.Helper()
	select {
	case frame := <-s.Frames():
		t.Fatalf("unexpected frame %s", frame.Type)
	case <-time.After(30 * time.Millisecond):
	}
}

func TestCannedResponderKeywordGroups(t *testing.T) {
	r := &CannedResponder{pick: func(n int) int { return n - 1 }}
	ctx := context.Background()

	cases := []struct {
		in   string
		want string
	}{
		{"Hello there", keywordGroups[0].reply},
		{"Can you HELP me?", keywordGroups[1].reply},
		{"let's build a game", keywordGroups[2].reply},
		{"What is a vector?", keywordGroups[3].reply},
		{"Tell me about AI Universe", keywordGroups[4].reply},
		// "this" contains "hi", so the greeting group wins first.
		{"what about this world", keywordGroups[0].reply},
		{"random musing", genericReplies[len(genericReplies)-1]},
	}

	for _, c := range cases {
		got, err := r.Respond(ctx, c.in)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestNewFillsDefaults(t *testing.T) {
	svc, err := New(realtime.NewMemory(), NewCannedResponder(), Options{BufferSize: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, svc.opts.BufferSize)
	assert.Equal(t, time.Second, svc.opts.MinDelay)
	assert.Equal(t, 2*time.Second, svc.opts.DelaySpread)

	for range 20 {
		d := svc.delay()
		assert.GreaterOrEqual(t, d, time.Second)
		assert.Less(t, d, 3*time.Second)
	}
}

func TestSendBroadcastsAndReplies(t *testing.T) {
	broker := realtime.NewMemory()
	svc, err := New(broker, &CannedResponder{pick: func(int) int { return 0 }}, fastOptions)
	require.NoError(t, err)
	ctx := context.Background()

	alice, err := svc.Connect(ctx, "w1", "alice")
	require.NoError(t, err)
	defer alice.Close()
	bob, err := svc.Connect(ctx, "w1", "bob")
	require.NoError(t, err)
	defer bob.Close()

	require.NoError(t, alice.Send(ctx, web.ChatMessage{ID: "m1", Content: "hello", UserID: "spoofed"}))

	assert.True(t, decodeTyping(t, nextFrame(t, alice)))
	reply := decodeMessage(t, nextFrame(t, alice))
	assert.Equal(t, entity.RoleAssistant, reply.Role)
	assert.Equal(t, keywordGroups[0].reply, reply.Content)
	assert.Equal(t, "w1", reply.WorldID)
	assert.NotEmpty(t, reply.ID)
	assert.False(t, decodeTyping(t, nextFrame(t, alice)))
	assertNoFrame(t, alice)

	received := decodeMessage(t, nextFrame(t, bob))
	assert.Equal(t, "m1", received.ID)
	assert.Equal(t, "alice", received.UserID)
	assert.Equal(t, entity.RoleUser, received.Role)
	assertNoFrame(t, bob)
}

func TestTypingSpansOverlappingReplies(t *testing.T) {
	svc, err := New(realtime.NewMemory(), NewCannedResponder(), fastOptions)
	require.NoError(t, err)
	ctx := context.Background()

	s, err := svc.Connect(ctx, "w1", "alice")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Send(ctx, web.ChatMessage{ID: "m1", Content: "one"}))
	require.NoError(t, s.Send(ctx, web.ChatMessage{ID: "m2", Content: "two"}))

	assert.True(t, decodeTyping(t, nextFrame(t, s)))
	decodeMessage(t, nextFrame(t, s))
	decodeMessage(t, nextFrame(t, s))
	assert.False(t, decodeTyping(t, nextFrame(t, s)))
}

func TestReplyFailureSendsApology(t *testing.T) {
	svc, err := New(realtime.NewMemory(), failingResponder{}, fastOptions)
	require.NoError(t, err)
	ctx := context.Background()

	s, err := svc.Connect(ctx, "w1", "alice")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Send(ctx, web.ChatMessage{ID: "m1", Content: "hi"}))
	decodeTyping(t, nextFrame(t, s))
	assert.Equal(t, Apology, decodeMessage(t, nextFrame(t, s)).Content)
}

func TestMessagesWithoutIDAreIgnored(t *testing.T) {
	broker := realtime.NewMemory()
	svc, err := New(broker, NewCannedResponder(), fastOptions)
	require.NoError(t, err)
	ctx := context.Background()

	s, err := svc.Connect(ctx, "w1", "alice")
	require.NoError(t, err)
	defer s.Close()

	assert.ErrorIs(t, s.Send(ctx, web.ChatMessage{Content: "no id"}), ErrNoID)

	msg, err := realtime.NewMessage(ctx, MessageEvent, "other", web.ChatMessage{Content: "no id"})
	require.NoError(t, err)
	require.NoError(t, broker.Publish(ctx, realtime.ChatTopic("w1"), msg))
	assertNoFrame(t, s)
}

func TestFullBufferDropsFrames(t *testing.T) {
	broker := realtime.NewMemory()
	opts := fastOptions
	opts.BufferSize = 2
	svc, err := New(broker, NewCannedResponder(), opts)
	require.NoError(t, err)
	ctx := context.Background()

	s, err := svc.Connect(ctx, "w1", "alice")
	require.NoError(t, err)
	defer s.Close()

	for _, id := range []string{"a", "b", "c", "d"} {
		msg, err := realtime.NewMessage(ctx, MessageEvent, "other", web.ChatMessage{ID: id})
		require.NoError(t, err)
		require.NoError(t, broker.Publish(ctx, realtime.ChatTopic("w1"), msg))
	}

	assert.Eventually(t, func() bool { return len(s.out) == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, "a", decodeMessage(t, nextFrame(t, s)).ID)
	assert.Equal(t, "b", decodeMessage(t, nextFrame(t, s)).ID)
	assertNoFrame(t, s)
}

func TestCloseCancelsPendingReplies(t *testing.T) {
	broker := realtime.NewMemory()
	svc, err := New(broker, NewCannedResponder(), Options{MinDelay: time.Hour, DelaySpread: time.Second})
	require.NoError(t, err)
	ctx := context.Background()

	s, err := svc.Connect(ctx, "w1", "alice")
	require.NoError(t, err)
	require.NoError(t, s.Send(ctx, web.ChatMessage{ID: "m1", Content: "hi"}))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 0, broker.Subscribers(realtime.ChatTopic("w1")))

	assert.True(t, decodeTyping(t, <-s.Frames()))
	_, ok := <-s.Frames()
	assert.False(t, ok)

	assert.ErrorIs(t, s.Send(ctx, web.ChatMessage{ID: "m2"}), ErrClosed)
}
