package httpserver

import (
	"fmt"
	"strings"

	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/domain"
	"github.com/golang-jwt/jwt/v4"
)

const (
	tokenIssuer     = "thesistrack"
	minSecretLength = 32
)

// sessionClaims is what the session cookie carries. Expiry lives in the
// session store, not in the token.
type sessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
	Role      string `json:"role"`
}

type TokenSigner struct {
	key []byte
}

func NewTokenSigner(secret string) (*TokenSigner, error) {
	if len(strings.TrimSpace(secret)) < minSecretLength {
		return nil, fmt.Errorf("secret key must be at least %d characters", minSecretLength)
	}

	return &TokenSigner{key: []byte(secret)}, nil
}

func (s *TokenSigner) Sign(session domain.ServerSession) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:  tokenIssuer,
			Subject: session.UserID,
		},
		SessionID: string(session.ID),
		Role:      string(session.Role),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Parse returns the session id the token was issued for. Every failure is
// reported as domain.ErrUnauthorized.
func (s *TokenSigner) Parse(raw string) (domain.SessionID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty session token: %w", domain.ErrUnauthorized)
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse session token: %v: %w", err, domain.ErrUnauthorized)
	}
	if !token.Valid || claims.Issuer != tokenIssuer || claims.SessionID == "" {
		return "", fmt.Errorf("invalid session token: %w", domain.ErrUnauthorized)
	}

	return domain.SessionID(claims.SessionID), nil
}
