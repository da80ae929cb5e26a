package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/domain"
	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/ports"
)

var ErrUserIDRequired = errors.New("user id is required")

type PortalServiceDeps struct {
	BaseURL     string
	Gateway     ports.SessionGateway
	TTL         ports.TTLService
	KeepAlive   ports.KeepAliveService
	Credentials *Credentials
	Clock       ports.Clock
}

// PortalService runs the client side of a portal session across CLI
// invocations: it signs in, stores the cookie and answers with what the
// portal says about it.
type PortalService struct {
	baseURL   string
	gateway   ports.SessionGateway
	ttl       ports.TTLService
	keepAlive ports.KeepAliveService
	creds     *Credentials
	clock     ports.Clock
}

func NewPortalService(deps PortalServiceDeps) *PortalService {
	if deps.Clock == nil {
		deps.Clock = ports.SystemClock{}
	}

	return &PortalService{
		baseURL:   deps.BaseURL,
		gateway:   deps.Gateway,
		ttl:       deps.TTL,
		keepAlive: deps.KeepAlive,
		creds:     deps.Credentials,
		clock:     deps.Clock,
	}
}

// Login opens a portal session and stores its cookie. When the cookie cannot
// be stored the new session is closed again.
func (s *PortalService) Login(ctx context.Context, cmd LoginCommand) (domain.SessionHandle, error) {
	handle, err := s.gateway.Login(ctx, cmd.UserID, cmd.Role)
	if err != nil {
		return domain.SessionHandle{}, fmt.Errorf("open portal session: %w", err)
	}

	if err := s.creds.Save(ctx, s.baseURL, handle); err != nil {
		if rollbackErr := s.gateway.Logout(ctx, handle); rollbackErr != nil {
			return domain.SessionHandle{}, fmt.Errorf("store session credential and rollback portal session: %w", errors.Join(err, rollbackErr))
		}
		return domain.SessionHandle{}, err
	}

	return handle, nil
}

// Handle returns the stored session cookie.
func (s *PortalService) Handle(ctx context.Context) (domain.SessionHandle, error) {
	return s.creds.Load(ctx, s.baseURL)
}

func (s *PortalService) Status(ctx context.Context) (SessionStatus, error) {
	handle, err := s.Handle(ctx)
	if err != nil {
		return SessionStatus{}, err
	}

	ttl, err := s.ttl.RemainingTTL(ctx, handle)
	if err != nil {
		return SessionStatus{}, err
	}

	return SessionStatus{
		Host:      portalHost(s.baseURL),
		Remaining: ttl.Remaining,
		Seconds:   ttl.Seconds(),
		Expired:   ttl.Expired(),
		CheckedAt: s.clock.Now(),
	}, nil
}

// Extend sends one keep-alive. A session the portal already dropped is
// forgotten locally and reported as domain.ErrUnauthorized.
func (s *PortalService) Extend(ctx context.Context) error {
	handle, err := s.Handle(ctx)
	if err != nil {
		return err
	}

	if err := s.keepAlive.Extend(ctx, handle); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			if forgetErr := s.creds.Forget(ctx, s.baseURL); forgetErr != nil {
				return errors.Join(err, forgetErr)
			}
		}
		return err
	}

	return nil
}

// Logout ends the portal session and deletes the stored cookie. Without a
// stored cookie there is nothing to do.
func (s *PortalService) Logout(ctx context.Context) error {
	handle, err := s.Handle(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoCredential) {
			return nil
		}
		return err
	}

	var joined error
	if err := s.gateway.Logout(ctx, handle); err != nil {
		joined = errors.Join(joined, err)
	}
	if err := s.creds.Forget(ctx, s.baseURL); err != nil {
		joined = errors.Join(joined, err)
	}
	return joined
}

// SignOutNavigator ends the portal session when the monitor logs the user
// out, then hands the reason to Done.
type SignOutNavigator struct {
	Portal *PortalService
	Done   func(reason domain.LogoutReason)
}

var _ ports.Navigator = SignOutNavigator{}

func (n SignOutNavigator) Logout(ctx context.Context, reason domain.LogoutReason) error {
	err := n.Portal.Logout(ctx)
	if n.Done != nil {
		n.Done(reason)
	}
	if err != nil {
		return fmt.Errorf("sign out (%s): %w", reason, err)
	}
	return nil
}

func portalHost(baseURL string) string {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return baseURL
	}
	return parsed.Host
}
