package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mvalens/leadkeeper/internal/common"
	contracts "github.com/mvalens/leadkeeper/internal/contracts/v1"
)

// HTTPClient talks JSON to the LeadKeeper backend. It keeps the current
// token pair in memory; a request rejected with 401 "token expired" is
// retried once after rotating the refresh token.
type HTTPClient struct {
	baseURL      string
	http         *http.Client
	accessToken  string
	refreshToken string
}

// NewHTTPClient builds a client for the given base URL ("" means the
// remote service is not configured).
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) Configured() bool {
	return c.baseURL != ""
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) endpoint(path string) string {
	return c.baseURL + "/api/v1" + path
}

func decodeError(resp *http.Response) error {
	var body contracts.ErrorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)
	msg := body.Error
	if msg == "" {
		msg = resp.Status
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if msg == common.ErrTokenExpired.Error() {
			return common.ErrTokenExpired
		}
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	default:
		return fmt.Errorf("%w: %s", common.ErrRemoteService, msg)
	}
}

// do sends one JSON request with the current access token. On token
// expiry it refreshes the pair and retries exactly once.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	err := c.doOnce(ctx, method, path, in, out, c.accessToken)
	if err == nil || !strings.Contains(err.Error(), common.ErrTokenExpired.Error()) {
		return err
	}
	if c.refreshToken == "" {
		return err
	}

	var tokens contracts.TokenResponse
	refreshErr := c.doOnce(ctx, http.MethodPost, "/auth/refresh",
		&contracts.RefreshRequest{RefreshToken: c.refreshToken}, &tokens, "")
	if refreshErr != nil {
		return err
	}
	c.accessToken = tokens.AccessToken
	c.refreshToken = tokens.RefreshToken

	return c.doOnce(ctx, method, path, in, out, c.accessToken)
}

func (c *HTTPClient) doOnce(ctx context.Context, method, path string, in, out any, token string) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) Register(ctx context.Context, email, password string) error {
	var tokens contracts.TokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/register",
		&contracts.RegisterRequest{Email: email, Password: password}, &tokens)
	if err != nil {
		return err
	}
	c.accessToken = tokens.AccessToken
	c.refreshToken = tokens.RefreshToken
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) error {
	var tokens contracts.TokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/login",
		&contracts.LoginRequest{Email: email, Password: password}, &tokens)
	if err != nil {
		return err
	}
	c.accessToken = tokens.AccessToken
	c.refreshToken = tokens.RefreshToken
	return nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/ping", nil, nil)
}

func (c *HTTPClient) UpsertProspect(ctx context.Context, p *contracts.Prospect) error {
	return c.do(ctx, http.MethodPut, "/prospects", p, nil)
}

func (c *HTTPClient) ProspectsUpdatedSince(ctx context.Context, since time.Time) ([]contracts.Prospect, error) {
	path := "/prospects?updated_since=" + url.QueryEscape(since.UTC().Format(time.RFC3339Nano))
	var out contracts.ProspectsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Prospects, nil
}

func (c *HTTPClient) PresignBackup(ctx context.Context) (string, string, error) {
	var out contracts.PresignResponse
	if err := c.do(ctx, http.MethodPost, "/backups/presign", nil, &out); err != nil {
		return "", "", err
	}
	return out.Key, out.URL, nil
}
