package httpjson

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

	"daybrief/internal/apierr"
)

// maxErrorBody bounds how much of a failed response body is kept in errors.
const maxErrorBody = 4 << 10

// Transport executes HTTP requests. *http.Client satisfies it.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// Getter fetches a URL and decodes its JSON body into out.
type Getter interface {
	GetJSON(ctx context.Context, rawURL string, out any) error
}

// Client is a minimal JSON client that normalizes failures into apierr types.
type Client struct {
	provider  string
	transport Transport
	userAgent string
}

// New creates a client for a named provider. A nil transport uses http.DefaultClient.
func New(provider string, transport Transport) *Client {
	if transport == nil {
		transport = http.DefaultClient
	}
	return &Client{provider: provider, transport: transport, userAgent: "daybrief/1.0"}
}

// GetJSON issues a GET request and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &apierr.TransportError{Provider: c.provider, Err: err}
	}
	return c.do(req, out)
}

// PostJSON encodes body as JSON, POSTs it, and decodes the JSON response into out.
func (c *Client) PostJSON(ctx context.Context, rawURL string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return &apierr.TransportError{Provider: c.provider, Message: "encode request body", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(b))
	if err != nil {
		return &apierr.TransportError{Provider: c.provider, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.transport.Do(req)
	if err != nil {
		return &apierr.TransportError{Provider: c.provider, Err: scrubURL(err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg, code := errorMessage(b)
		if resp.StatusCode == http.StatusUnauthorized {
			return apierr.NewAuthError(c.provider, resp.StatusCode, code, msg)
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &apierr.TransportError{Provider: c.provider, Status: resp.StatusCode, Code: code, Message: msg}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &apierr.MalformedError{Provider: c.provider, Err: err}
	}
	return nil
}

// errorMessage extracts a human readable message and the provider's error
// code from an error body. Providers mostly answer with {"message": ...} or
// {"msg": ...} or {"reason": ...}, optionally next to a "code" field.
func errorMessage(b []byte) (msg, code string) {
	var body struct {
		Code    json.RawMessage `json:"code"`
		Message string          `json:"message"`
		Msg     string          `json:"msg"`
		Reason  string          `json:"reason"`
	}
	if json.Unmarshal(b, &body) != nil {
		return string(bytes.TrimSpace(b)), ""
	}
	if len(body.Code) > 0 && string(body.Code) != "null" {
		code = strings.Trim(string(body.Code), `"`)
	}
	for _, s := range []string{body.Message, body.Msg, body.Reason} {
		if s != "" {
			return s, code
		}
	}
	return string(bytes.TrimSpace(b)), code
}

// scrubURL removes query strings from url errors so API keys never reach logs.
func scrubURL(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	u, perr := url.Parse(ue.URL)
	if perr != nil {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	u.RawQuery = ""
	return &url.Error{Op: ue.Op, URL: u.String(), Err: ue.Err}
}
