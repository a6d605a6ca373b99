package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"sync"

	"github.com/aiuniverse/universe/internal/entity"
	"github.com/aiuniverse/universe/internal/entity/web"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const apiPrefix = "/api/v1"

// APIError is a failure reported by the portal in its response envelope.
type APIError struct {
	Code    entity.ErrorCode
	Message string
}

func (err *APIError) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("error calling portal API: code %d", err.Code)
	}
	return fmt.Sprintf("error calling portal API: %d: %s", err.Code, err.Message)
}

// IsCode reports whether err is an APIError carrying code.
func IsCode(err error, code entity.ErrorCode) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Code == code
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) endpoint(relPath string, query url.Values) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	u.Path = path.Join(u.Path, apiPrefix, relPath)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

func (c *Client) newRequest(ctx context.Context, method, relPath string, query url.Values, data any) (*http.Request, error) {
	endpoint, err := c.endpoint(relPath, query)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if data != nil {
		json, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		body = bytes.NewBuffer(json)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}

	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

type envelope struct {
	Success   bool             `json:"success"`
	ErrorCode entity.ErrorCode `json:"errorCode"`
	Message   string           `json:"message"`
	Data      json.RawMessage  `json:"data"`
}

func (c *Client) send(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.CopyN(io.Discard, resp.Body, 10*1024)
		return fmt.Errorf("unexpected status from portal: %s", resp.Status)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		return &APIError{Code: env.ErrorCode, Message: env.Message}
	}

	if result == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, result)
}

func call[T any](ctx context.Context, c *Client, method, relPath string, query url.Values, data any) (T, error) {
	var result T
	req, err := c.newRequest(ctx, method, relPath, query, data)
	if err != nil {
		return result, err
	}
	if err := c.send(req, &result); err != nil {
		return result, err
	}
	return result, nil
}

func (c *Client) SignUp(ctx context.Context, req web.SignUpRequest) (*web.SessionData, error) {
	session, err := call[web.SessionData](ctx, c, http.MethodPost, "/auth/signup", nil, req)
	if err != nil {
		return nil, err
	}
	c.SetToken(session.AccessToken)
	return &session, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*web.SessionData, error) {
	session, err := call[web.SessionData](ctx, c, http.MethodPost, "/auth/signin", nil, web.PasswordCredential{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	c.SetToken(session.AccessToken)
	return &session, nil
}

func (c *Client) SignOut(ctx context.Context) error {
	_, err := call[any](ctx, c, http.MethodPost, "/auth/signout", nil, nil)
	c.SetToken("")
	return err
}

func (c *Client) Session(ctx context.Context) (*web.SessionData, error) {
	session, err := call[web.SessionData](ctx, c, http.MethodGet, "/auth/session", nil, nil)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) ResetPassword(ctx context.Context, email string) error {
	_, err := call[any](ctx, c, http.MethodPost, "/auth/reset-password", nil, web.ResetPasswordRequest{Email: email})
	return err
}

func (c *Client) UpdateProfile(ctx context.Context, update web.ProfileUpdate) (*web.User, error) {
	user, err := call[web.User](ctx, c, http.MethodPatch, "/users/me", nil, update)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
