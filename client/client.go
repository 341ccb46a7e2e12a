package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenStore supplies the admin bearer token for outgoing requests. It is an
// explicit dependency of the client rather than ambient storage read at each
// call site, so anonymous and authenticated clients can coexist in one process.
type TokenStore interface {
	Token() string
	// Clear drops the stored credentials. Called when the upstream answers 401.
	Clear()
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenStore
}

func New(baseURL string, tokens TokenStore) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Tokens:     tokens,
	}
}

// envelope is the upstream response wrapper. Data stays raw so callers can
// fall back to decoding the whole body when the wrapper is absent (legacy
// responses).
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// bearerToken returns the stored token only when it is a structurally valid
// JWT. A malformed token is omitted entirely rather than sent broken.
func (c *Client) bearerToken() string {
	if c.Tokens == nil {
		return ""
	}
	tok := c.Tokens.Token()
	if tok == "" {
		return ""
	}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, jwt.MapClaims{}); err != nil {
		return ""
	}
	return tok
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.bearerToken(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusUnauthorized && c.Tokens != nil {
			c.Tokens.Clear()
		}
		var env envelope
		message := fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)
		if json.Unmarshal(raw, &env) == nil && env.Error != "" {
			message = env.Error
		}
		return &HTTPError{Status: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}
	return unwrap(raw, out)
}

// unwrap decodes an enveloped body into out, or the whole body when the
// envelope is missing.
func unwrap(raw []byte, out interface{}) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Data != nil {
		return json.Unmarshal(env.Data, out)
	}
	return json.Unmarshal(raw, out)
}

// upload posts a single multipart file under the "image" form field.
func (c *Client) upload(ctx context.Context, method, path, filename string, file io.Reader, out interface{}) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if tok := c.bearerToken(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env envelope
		message := fmt.Sprintf("Upload failed! status: %d", resp.StatusCode)
		if json.Unmarshal(raw, &env) == nil && env.Error != "" {
			message = env.Error
		}
		return &HTTPError{Status: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}
	return unwrap(raw, out)
}
