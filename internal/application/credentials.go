package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/domain"
	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/ports"
)

// Credentials keeps the portal session cookie between CLI invocations, one
// entry per portal host.
type Credentials struct {
	store      ports.SecretStore
	cookieName string
}

func NewCredentials(store ports.SecretStore, cookieName string) *Credentials {
	return &Credentials{store: store, cookieName: cookieName}
}

func SessionSecretKey(baseURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return "", fmt.Errorf("parse portal base url: %w", err)
	}
	if parsed.Host == "" {
		return "", errors.New("portal base url host is required")
	}

	host := strings.ToLower(strings.ReplaceAll(parsed.Host, ":", "_"))
	return "thesistrack/" + host + "/session", nil
}

func (c *Credentials) Save(ctx context.Context, baseURL string, handle domain.SessionHandle) error {
	if handle.IsZero() {
		return errors.New("session token is empty")
	}

	key, err := SessionSecretKey(baseURL)
	if err != nil {
		return err
	}
	if err := c.store.Put(ctx, key, handle.Token); err != nil {
		return fmt.Errorf("store session credential: %w", err)
	}

	return nil
}

func (c *Credentials) Load(ctx context.Context, baseURL string) (domain.SessionHandle, error) {
	key, err := SessionSecretKey(baseURL)
	if err != nil {
		return domain.SessionHandle{}, err
	}

	token, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return domain.SessionHandle{}, domain.ErrNoCredential
		}
		return domain.SessionHandle{}, fmt.Errorf("load session credential: %w", err)
	}

	handle := domain.SessionHandle{CookieName: c.cookieName, Token: strings.TrimSpace(token)}
	if handle.IsZero() {
		return domain.SessionHandle{}, domain.ErrNoCredential
	}

	return handle, nil
}

func (c *Credentials) Forget(ctx context.Context, baseURL string) error {
	key, err := SessionSecretKey(baseURL)
	if err != nil {
		return err
	}
	if err := c.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete session credential: %w", err)
	}

	return nil
}
