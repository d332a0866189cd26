package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// HTTPClient implements Client over the JSON HTTP API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Register(ctx context.Context, username, email string, password []byte) error {
	body := map[string]string{
		"Username": username,
		"Email":    email,
		"Password": string(password),
	}
	return c.do(ctx, http.MethodPost, "/api/users/register", "", body, nil)
}

func (c *HTTPClient) Login(ctx context.Context, username string, password []byte) (*Token, error) {
	body := map[string]string{
		"Username": username,
		"Password": string(password),
	}
	var tok Token
	if err := c.do(ctx, http.MethodPost, "/api/users/login", "", body, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*Identity, error) {
	var id Identity
	if err := c.do(ctx, http.MethodGet, "/api/users/me", token, nil, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/ping", "", nil, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return readAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readAPIError extracts the message from either {"message":...} or
// {"Message":...}; the JSON decoder matches both.
func readAPIError(resp *http.Response) error {
	var payload struct {
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(data, &payload)
	return &APIError{Status: resp.StatusCode, Message: payload.Message}
}
