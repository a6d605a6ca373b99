package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aiuniverse/universe/internal/entity"
	"github.com/aiuniverse/universe/portal/internal/auth"
	"github.com/aiuniverse/universe/portal/internal/db/model"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type stubWorlds struct {
	ownerIDs []string
}

func (s *stubWorlds) List(ctx context.Context, ownerID string) ([]model.World, error) {
	s.ownerIDs = append(s.ownerIDs, ownerID)
	return []model.World{{ID: "w1", Title: "Galaxy", Slug: "galaxy", Public: true}}, nil
}

type stubEvents struct {
	limit int
}

func (s *stubEvents) Upcoming(ctx context.Context, limit int) ([]model.WorldEvent, error) {
	s.limit = limit
	return []model.WorldEvent{{
		ID:        "e1",
		EventType: entity.EventMeetup,
		Title:     "Launch",
		StartTime: bun.NullTime{Time: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
	}}, nil
}

type stubAuth map[string]*auth.Token

func (s stubAuth) GetFromRequest(ctx context.Context, r *http.Request) (*auth.Token, error) {
	token, ok := s[auth.BearerToken(r)]
	if !ok {
		return nil, auth.ErrRequiresAuth
	}
	return token, nil
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestListPublicWorlds(t *testing.T) {
	worlds := &stubWorlds{}
	handler := &ToolHandler{server: NewMCPServer(":0", worlds, &stubEvents{}, stubAuth{})}

	result, err := handler.ListPublicWorlds(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{""}, worlds.ownerIDs)

	var summaries []worldSummary
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &summaries))
	assert.Equal(t, []worldSummary{{Title: "Galaxy", Slug: "galaxy"}}, summaries)
}

func TestListUpcomingEvents(t *testing.T) {
	events := &stubEvents{}
	handler := &ToolHandler{server: NewMCPServer(":0", &stubWorlds{}, events, stubAuth{})}

	result, err := handler.ListUpcomingEvents(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.Equal(t, upcomingLimit, events.limit)
	assert.Contains(t, resultText(t, result), `"title": "Launch"`)
}

func TestHandlerRequiresAdmin(t *testing.T) {
	server := NewMCPServer(":0", &stubWorlds{}, &stubEvents{}, stubAuth{
		"user-token": {UserID: "u1", Scopes: []auth.Scope{auth.ScopeUser}},
	})
	handler := server.Handler()

	testcases := []struct {
		name   string
		token  string
		status int
	}{
		{name: "anonymous", token: "", status: http.StatusUnauthorized},
		{name: "unknown token", token: "nope", status: http.StatusUnauthorized},
		{name: "plain user", token: "user-token", status: http.StatusForbidden},
	}

	for _, tt := range testcases {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/mcp/sse", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestToJSON(t *testing.T) {
	assert.Equal(t, "", toJSON(func() {}))
	assert.Equal(t, "[]", toJSON([]string{}))
}
