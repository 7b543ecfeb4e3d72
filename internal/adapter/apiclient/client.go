// Package apiclient is the HTTP client for the stockpos server API.
// It backs the point-of-sale collaborator ports.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mrodal/stockpos/internal/adapter/httphandler"
	"github.com/mrodal/stockpos/internal/core/domain"
	"github.com/mrodal/stockpos/internal/core/port"
	"github.com/mrodal/stockpos/pkg/retry"
)

var (
	_ port.CatalogProvider = (*Client)(nil)
	_ port.SaleCreator     = (*Client)(nil)
	_ port.SalesReader     = (*Client)(nil)
	_ port.ReportsReader   = (*Client)(nil)
)

const (
	defaultTimeout     = 10 * time.Second
	defaultGetAttempts = 3
)

type Client struct {
	baseURL  string
	hc       *http.Client
	retryCfg retry.Config
}

type Opt func(*Client) error

func HTTPClientOpt(hc *http.Client) Opt {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("http client is nil")
		}
		c.hc = hc
		return nil
	}
}

func GetAttemptsOpt(n int) Opt {
	return func(c *Client) error {
		if n < 1 {
			return errors.New("attempts less than one")
		}
		c.retryCfg.MaxAttempts = n
		return nil
	}
}

func New(baseURL string, opts ...Opt) (*Client, error) {
	const op = "apiclient.New"

	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: defaultTimeout},
		retryCfg: retry.Config{
			MaxAttempts: defaultGetAttempts,
			ShouldRetry: retryable,
		},
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return c, nil
}

// Only transport failures and server-side errors are worth another
// attempt, and only on reads.
func retryable(err error) bool {
	var remote *domain.RemoteError
	if errors.As(err, &remote) {
		return remote.Status >= http.StatusInternalServerError
	}
	return true
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return retry.Do(ctx, c.retryCfg, func() error {
		return c.do(ctx, http.MethodGet, path, nil, out)
	})
}

func (c *Client) getBytes(ctx context.Context, path string) ([]byte, error) {
	return retry.DoWithResult(ctx, c.retryCfg, func() ([]byte, error) {
		return c.doRaw(ctx, http.MethodGet, path, nil)
	})
}

func (c *Client) do(
	ctx context.Context, method, path string, in, out any,
) error {
	body, err := c.doRaw(ctx, method, path, in)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) doRaw(
	ctx context.Context, method, path string, in any,
) ([]byte, error) {
	var reqBody io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(
		ctx, method, c.baseURL+path, reqBody,
	)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode >= http.StatusBadRequest {
		return nil, remoteError(res.StatusCode, body)
	}
	return body, nil
}

// remoteError keeps the server-side detail verbatim, so the terminal
// can show the operator exactly what the server said.
func remoteError(status int, body []byte) error {
	var er httphandler.ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Detail != "" {
		return &domain.RemoteError{Status: status, Detail: er.Detail}
	}
	detail := strings.TrimSpace(string(body))
	if detail == "" {
		detail = http.StatusText(status)
	}
	return &domain.RemoteError{Status: status, Detail: detail}
}

func dateQuery(from, to time.Time) string {
	q := url.Values{}
	q.Set("from", from.Format(time.DateOnly))
	q.Set("to", to.Format(time.DateOnly))
	return q.Encode()
}
