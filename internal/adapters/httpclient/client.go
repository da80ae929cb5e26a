package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/domain"
	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/ports"
)

const maxPortalResponseBytes = 1 << 20

type Endpoints struct {
	BaseURL       string
	TTLPath       string
	KeepAlivePath string
	LogoutPath    string
	LoginPath     string
	CookieName    string
}

// Client talks to the portal's session endpoints on behalf of one user.
type Client struct {
	API            Endpoints
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var (
	_ ports.TTLService       = Client{}
	_ ports.KeepAliveService = Client{}
	_ ports.SessionGateway   = Client{}
)

type sessionResponse struct {
	Success          bool   `json:"success"`
	RemainingSeconds *int64 `json:"remaining_seconds"`
	Message          string `json:"message"`
}

// RemainingTTL maps a 401 to a zero TTL: the server has already dropped the
// session and that is an answer, not a failure.
func (c Client) RemainingTTL(ctx context.Context, handle domain.SessionHandle) (domain.TTL, error) {
	resp, err := c.getWithSession(ctx, c.API.TTLPath, handle)
	if err != nil {
		return domain.TTL{}, fmt.Errorf("query session ttl: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return domain.TTL{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return domain.TTL{}, fmt.Errorf("query session ttl: status %d", resp.StatusCode)
	}

	payload, err := decodeSessionResponse(resp)
	if err != nil {
		return domain.TTL{}, fmt.Errorf("decode session ttl response: %w", err)
	}
	if !payload.Success || payload.RemainingSeconds == nil {
		return domain.TTL{}, fmt.Errorf("session ttl response: %w", domain.ErrMalformedResponse)
	}

	return domain.TTLFromSeconds(*payload.RemainingSeconds), nil
}

func (c Client) Extend(ctx context.Context, handle domain.SessionHandle) error {
	resp, err := c.getWithSession(ctx, c.API.KeepAlivePath, handle)
	if err != nil {
		return fmt.Errorf("send keep-alive: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		payload, err := decodeSessionResponse(resp)
		if err != nil {
			return fmt.Errorf("decode keep-alive response: %w", err)
		}
		if !payload.Success {
			return fmt.Errorf("keep-alive response: %w", domain.ErrMalformedResponse)
		}
		return nil
	case http.StatusUnauthorized:
		return fmt.Errorf("send keep-alive: %w", domain.ErrUnauthorized)
	default:
		return fmt.Errorf("send keep-alive: status %d", resp.StatusCode)
	}
}

// Logout ends the session on the server. An already dead session is not an
// error.
func (c Client) Logout(ctx context.Context, handle domain.SessionHandle) error {
	resp, err := c.getWithSession(ctx, c.API.LogoutPath, handle)
	if err != nil {
		return fmt.Errorf("request logout: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPortalResponseBytes))

	if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode != http.StatusUnauthorized {
		return fmt.Errorf("request logout: status %d", resp.StatusCode)
	}
	return nil
}

// Login opens a session for userID and returns the cookie the server set.
func (c Client) Login(ctx context.Context, userID string, role domain.Role) (domain.SessionHandle, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.SessionHandle{}, errors.New("user id is required")
	}
	if c.API.CookieName == "" {
		return domain.SessionHandle{}, errors.New("session cookie name is required")
	}

	endpoint, err := buildAPIURL(c.API.BaseURL, c.API.LoginPath)
	if err != nil {
		return domain.SessionHandle{}, err
	}

	values := url.Values{}
	values.Set("user_id", userID)
	values.Set("role", string(role))

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return domain.SessionHandle{}, fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return domain.SessionHandle{}, fmt.Errorf("request login: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, decodeErr := decodeSessionResponse(resp)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if decodeErr == nil && payload.Message != "" {
			return domain.SessionHandle{}, fmt.Errorf("request login: status %d: %s", resp.StatusCode, payload.Message)
		}
		return domain.SessionHandle{}, fmt.Errorf("request login: status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return domain.SessionHandle{}, fmt.Errorf("decode login response: %w", decodeErr)
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == c.API.CookieName && cookie.Value != "" {
			return domain.SessionHandle{CookieName: cookie.Name, Token: cookie.Value}, nil
		}
	}

	return domain.SessionHandle{}, fmt.Errorf("login response missing %s cookie", c.API.CookieName)
}

func (c Client) getWithSession(ctx context.Context, path string, handle domain.SessionHandle) (*http.Response, error) {
	if handle.IsZero() {
		return nil, domain.ErrNoCredential
	}

	endpoint, err := buildAPIURL(c.API.BaseURL, path)
	if err != nil {
		return nil, err
	}

	requestCtx, cancel := c.requestContext(ctx)
	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.AddCookie(&http.Cookie{Name: c.cookieName(handle), Value: handle.Token})

	resp, err := c.httpClient().Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

func (c Client) cookieName(handle domain.SessionHandle) string {
	if handle.CookieName != "" {
		return handle.CookieName
	}
	return c.API.CookieName
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 5 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

func decodeSessionResponse(resp *http.Response) (sessionResponse, error) {
	var payload sessionResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPortalResponseBytes)).Decode(&payload); err != nil {
		return sessionResponse{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return payload, nil
}

func buildAPIURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("portal base url is required")
	}
	if path == "" {
		return "", errors.New("portal path is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse portal base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("portal base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("portal base url host is required")
	}

	endpoint, err := parsed.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse portal path: %w", err)
	}
	return endpoint.String(), nil
}
