package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const expiredMessage = "Session expired"

type handlers struct {
	sessions     SessionManager
	signer       *TokenSigner
	cookieName   string
	secureCookie bool
	logger       *log.Logger
}

type sessionResponse struct {
	Success          bool   `json:"success"`
	RemainingSeconds *int64 `json:"remaining_seconds,omitempty"`
	Message          string `json:"message,omitempty"`
	UserID           string `json:"user_id,omitempty"`
	Role             string `json:"role,omitempty"`
}

type loginRequest struct {
	UserID string `form:"user_id" json:"user_id" validate:"required,max=64"`
	Role   string `form:"role" json:"role" validate:"omitempty,max=32"`
}

func seconds(value int64) *int64 {
	return &value
}

func (h *handlers) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	role := domain.RoleStudent
	if req.Role != "" {
		parsed, err := domain.ParseRole(req.Role)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		role = parsed
	}

	ctx := c.Request().Context()
	session, err := h.sessions.Open(ctx, req.UserID, role)
	if err != nil {
		return err
	}
	token, err := h.signer.Sign(session)
	if err != nil {
		_ = h.sessions.Close(ctx, session.ID)
		return err
	}

	c.SetCookie(h.sessionCookie(token, 0))
	h.logger.Infof("session opened for %s (%s)", session.UserID, session.Role)

	remaining := domain.TTL{Remaining: h.sessions.Policy().Remaining(session, session.LastActivity)}
	return c.JSON(http.StatusOK, sessionResponse{
		Success:          true,
		RemainingSeconds: seconds(remaining.Seconds()),
		UserID:           session.UserID,
		Role:             string(session.Role),
	})
}

func (h *handlers) ttl(c echo.Context) error {
	id, ok := h.sessionID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, sessionResponse{RemainingSeconds: seconds(0), Message: expiredMessage})
	}

	ttl, err := h.sessions.RemainingTTL(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			return c.JSON(http.StatusUnauthorized, sessionResponse{RemainingSeconds: seconds(0), Message: expiredMessage})
		}
		return err
	}

	return c.JSON(http.StatusOK, sessionResponse{Success: true, RemainingSeconds: seconds(ttl.Seconds())})
}

func (h *handlers) keepAlive(c echo.Context) error {
	id, ok := h.sessionID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, sessionResponse{Message: expiredMessage})
	}

	ttl, err := h.sessions.KeepAlive(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			return c.JSON(http.StatusUnauthorized, sessionResponse{Message: expiredMessage})
		}
		return err
	}

	return c.JSON(http.StatusOK, sessionResponse{Success: true, RemainingSeconds: seconds(ttl.Seconds())})
}

// logout always clears the cookie, even for an unknown or expired session.
func (h *handlers) logout(c echo.Context) error {
	if id, ok := h.sessionID(c); ok {
		if err := h.sessions.Close(c.Request().Context(), id); err != nil {
			return err
		}
		h.logger.Infof("session %s closed", id)
	}

	c.SetCookie(h.sessionCookie("", -1))
	return c.String(http.StatusOK, "Signed out")
}

func (h *handlers) sessionID(c echo.Context) (domain.SessionID, bool) {
	cookie, err := c.Cookie(h.cookieName)
	if err != nil {
		return "", false
	}

	id, err := h.signer.Parse(cookie.Value)
	if err != nil {
		h.logger.Debugf("rejecting session cookie: %v", err)
		return "", false
	}
	return id, true
}

func (h *handlers) sessionCookie(value string, maxAge int) *http.Cookie {
	cookie := &http.Cookie{
		Name:     h.cookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
	if maxAge < 0 {
		cookie.Expires = time.Unix(0, 0)
	}
	return cookie
}
