package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aiuniverse/universe/internal/entity/web"
)

// ListWorlds returns public worlds, or the signed-in user's own worlds when mine is set.
func (c *Client) ListWorlds(ctx context.Context, mine bool) ([]web.World, error) {
	var query url.Values
	if mine {
		query = url.Values{"mine": {"true"}}
	}
	return call[[]web.World](ctx, c, http.MethodGet, "/worlds", query, nil)
}

func (c *Client) GetWorld(ctx context.Context, id string) (*web.World, error) {
	world, err := call[web.World](ctx, c, http.MethodGet, "/worlds/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}
	return &world, nil
}

func (c *Client) GetWorldBySlug(ctx context.Context, slug string) (*web.World, error) {
	world, err := call[web.World](ctx, c, http.MethodGet, "/worlds/slug/"+url.PathEscape(slug), nil, nil)
	if err != nil {
		return nil, err
	}
	return &world, nil
}

func (c *Client) CreateWorld(ctx context.Context, input web.WorldInput) (*web.World, error) {
	world, err := call[web.World](ctx, c, http.MethodPost, "/worlds", nil, input)
	if err != nil {
		return nil, err
	}
	return &world, nil
}

func (c *Client) UpdateWorld(ctx context.Context, id string, patch web.WorldPatch) (*web.World, error) {
	world, err := call[web.World](ctx, c, http.MethodPatch, "/worlds/"+url.PathEscape(id), nil, patch)
	if err != nil {
		return nil, err
	}
	return &world, nil
}

func (c *Client) DeleteWorld(ctx context.Context, id string) error {
	_, err := call[any](ctx, c, http.MethodDelete, "/worlds/"+url.PathEscape(id), nil, nil)
	return err
}

func (c *Client) ListEvents(ctx context.Context, worldID string) ([]web.Event, error) {
	var query url.Values
	if worldID != "" {
		query = url.Values{"worldId": {worldID}}
	}
	return call[[]web.Event](ctx, c, http.MethodGet, "/events", query, nil)
}

func (c *Client) UpcomingEvents(ctx context.Context, limit int) ([]web.Event, error) {
	var query url.Values
	if limit > 0 {
		query = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	return call[[]web.Event](ctx, c, http.MethodGet, "/events/upcoming", query, nil)
}

func (c *Client) CreateEvent(ctx context.Context, input web.EventInput) (*web.Event, error) {
	event, err := call[web.Event](ctx, c, http.MethodPost, "/events", nil, input)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id string, patch web.EventPatch) (*web.Event, error) {
	event, err := call[web.Event](ctx, c, http.MethodPatch, "/events/"+url.PathEscape(id), nil, patch)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	_, err := call[any](ctx, c, http.MethodDelete, "/events/"+url.PathEscape(id), nil, nil)
	return err
}
