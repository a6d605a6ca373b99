package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aiuniverse/universe/internal/entity/web"
)

func worldPath(worldID, rest string) string {
	return "/worlds/" + url.PathEscape(worldID) + rest
}

func (c *Client) Track(ctx context.Context, worldID string, req web.TrackRequest) (*web.AnalyticsEvent, error) {
	event, err := call[web.AnalyticsEvent](ctx, c, http.MethodPost, worldPath(worldID, "/analytics"), nil, req)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// QueryAnalytics returns the world's analytics events, newest first. Zero bounds are open.
func (c *Client) QueryAnalytics(ctx context.Context, worldID string, from, to time.Time) ([]web.AnalyticsEvent, error) {
	query := url.Values{}
	if !from.IsZero() {
		query.Set("from", from.UTC().Format(time.RFC3339))
	}
	if !to.IsZero() {
		query.Set("to", to.UTC().Format(time.RFC3339))
	}
	return call[[]web.AnalyticsEvent](ctx, c, http.MethodGet, worldPath(worldID, "/analytics"), query, nil)
}

func (c *Client) ListTranslations(ctx context.Context, worldID string) ([]web.Translation, error) {
	return call[[]web.Translation](ctx, c, http.MethodGet, worldPath(worldID, "/translations"), nil, nil)
}

func (c *Client) UpsertTranslation(ctx context.Context, worldID, language string, content json.RawMessage) (*web.Translation, error) {
	translation, err := call[web.Translation](ctx, c, http.MethodPut, worldPath(worldID, "/translations/"+url.PathEscape(language)), nil, content)
	if err != nil {
		return nil, err
	}
	return &translation, nil
}

func (c *Client) Subscribe(ctx context.Context, worldID string) (*web.Subscription, error) {
	subscription, err := call[web.Subscription](ctx, c, http.MethodPost, worldPath(worldID, "/subscriptions"), nil, nil)
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (c *Client) ListSubscriptions(ctx context.Context) ([]web.Subscription, error) {
	return call[[]web.Subscription](ctx, c, http.MethodGet, "/subscriptions", nil, nil)
}

func (c *Client) CancelSubscription(ctx context.Context, id string) error {
	_, err := call[any](ctx, c, http.MethodDelete, "/subscriptions/"+url.PathEscape(id), nil, nil)
	return err
}

func (c *Client) ListFiles(ctx context.Context) ([]web.FileObject, error) {
	return call[[]web.FileObject](ctx, c, http.MethodGet, "/files", nil, nil)
}

// UploadFile streams body as the named file. size must be the exact body length.
func (c *Client) UploadFile(ctx context.Context, name string, body io.Reader, size int64, contentType string) (*web.FileObject, error) {
	req, err := c.newRequest(ctx, http.MethodPut, "/files/"+url.PathEscape(name), nil, nil)
	if err != nil {
		return nil, err
	}
	req.Body = io.NopCloser(body)
	req.ContentLength = size
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	var result web.FileObject
	if err := c.send(req, &result); err != nil {
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}
	return &result, nil
}

func (c *Client) SignedFileURL(ctx context.Context, name string, expires time.Duration) (*web.SignedURL, error) {
	var query url.Values
	if expires > 0 {
		query = url.Values{"expires": {strconv.Itoa(int(expires / time.Second))}}
	}
	signed, err := call[web.SignedURL](ctx, c, http.MethodGet, "/files/"+url.PathEscape(name)+"/url", query, nil)
	if err != nil {
		return nil, err
	}
	return &signed, nil
}

func (c *Client) DeleteFile(ctx context.Context, name string) error {
	_, err := call[any](ctx, c, http.MethodDelete, "/files/"+url.PathEscape(name), nil, nil)
	return err
}
