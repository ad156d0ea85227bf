package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/luxemart/storefront/pkg/config"
	pkgerrors "github.com/luxemart/storefront/pkg/errors"
	"github.com/luxemart/storefront/pkg/logger"
	"github.com/luxemart/storefront/pkg/types"
)

// TokenSource supplies the current bearer credential. It is consulted on
// every request so a login or logout between calls is always picked up.
type TokenSource interface {
	Token() string
}

// Client is the outgoing HTTP surface of the storefront. It attaches the
// bearer credential when one is set and sends unauthenticated otherwise;
// the backend, not the client, enforces auth failures. No retries, no
// credential refresh, no response caching.
type Client struct {
	baseURL string
	timeout time.Duration
	httpc   *http.Client
	tokens  TokenSource
	logg    *logger.Logger
}

func NewClient(cfg config.APIConfig, tokens TokenSource, logg *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		httpc:   &http.Client{},
		tokens:  tokens,
		logg:    logg,
	}
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	if c.logg != nil {
		logCtx := c.logg.WithFields(ctx, map[string]any{
			"method":     method,
			"path":       path,
			"request_id": requestID,
		})
		c.logg.Debug(logCtx, "request.send")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetworkUnreachable, err, fmt.Sprintf("%s %s", method, path))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetworkUnreachable, err, "reading response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.rejection(resp.StatusCode, raw)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding response")
		}
	}
	return nil
}

// rejection surfaces the server-supplied message verbatim when the error
// body is parseable, else a generic failure line with the status.
func (c *Client) rejection(status int, raw []byte) error {
	var apiErr types.APIError
	message := ""
	if len(raw) > 0 && json.Unmarshal(raw, &apiErr) == nil {
		message = apiErr.Text()
	}
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}
	return pkgerrors.New(pkgerrors.CodeRequestRejected, message).
		WithDetails(map[string]any{"status": status})
}
