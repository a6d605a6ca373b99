package mcp

import (
	"context"
	"encoding/json"

	"github.com/aiuniverse/universe/portal/internal/events"
	"github.com/aiuniverse/universe/portal/internal/worlds"
	"github.com/mark3labs/mcp-go/mcp"
)

const upcomingLimit = 20

type ToolHandler struct {
	server *MCPServer
}

func toJSON(v any) string {
	json, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return string(json)
}

type worldSummary struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (t *ToolHandler) ListPublicWorlds(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := t.server.worlds.List(ctx, "")
	if err != nil {
		return nil, err
	}

	summaries := make([]worldSummary, 0, len(result))
	for _, world := range worlds.ToWebList(result) {
		summaries = append(summaries, worldSummary{
			Title:       world.Title,
			Slug:        world.Slug,
			Description: world.Description,
		})
	}

	return mcp.NewToolResultText(toJSON(summaries)), nil
}

func (t *ToolHandler) ListUpcomingEvents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := t.server.events.Upcoming(ctx, upcomingLimit)
	if err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(toJSON(events.ToWebList(result))), nil
}
