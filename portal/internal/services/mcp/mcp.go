package mcp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aiuniverse/universe/internal"
	"github.com/aiuniverse/universe/portal/internal/auth"
	"github.com/aiuniverse/universe/portal/internal/db/model"
	"github.com/mark3labs/mcp-go/mcp"
	mcpServer "github.com/mark3labs/mcp-go/server"
)

type WorldLister interface {
	List(ctx context.Context, ownerID string) ([]model.World, error)
}

type EventLister interface {
	Upcoming(ctx context.Context, limit int) ([]model.WorldEvent, error)
}

type TokenResolver interface {
	GetFromRequest(ctx context.Context, r *http.Request) (*auth.Token, error)
}

type MCPServer struct {
	bind   string
	worlds WorldLister
	events EventLister
	auth   TokenResolver
}

func NewMCPServer(bind string, worlds WorldLister, events EventLister, auth TokenResolver) *MCPServer {
	return &MCPServer{
		bind:   bind,
		worlds: worlds,
		events: events,
		auth:   auth,
	}
}

func (s *MCPServer) registerTools(server *mcpServer.MCPServer) {
	toolHandler := &ToolHandler{
		server: s,
	}
	server.AddTool(
		mcp.NewTool("list_public_worlds",
			mcp.WithDescription("List public AI worlds, newest first"),
		),
		toolHandler.ListPublicWorlds,
	)
	server.AddTool(
		mcp.NewTool("list_upcoming_events",
			mcp.WithDescription("List upcoming events of public AI worlds"),
		),
		toolHandler.ListUpcomingEvents,
	)
}

// Handler serves the SSE transport to admin tokens only.
func (s *MCPServer) Handler() http.Handler {
	server := mcpServer.NewMCPServer("AI Universe", internal.Version)

	s.registerTools(server)

	sseServer := mcpServer.NewSSEServer(server,
		mcpServer.WithBasePath("/mcp"),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/mcp/", func(w http.ResponseWriter, r *http.Request) {
		token, err := s.auth.GetFromRequest(r.Context(), r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if !token.HasScope(auth.ScopeAdmin) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		sseServer.ServeHTTP(w, r)
	})
	return mux
}

func (s *MCPServer) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.bind,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
