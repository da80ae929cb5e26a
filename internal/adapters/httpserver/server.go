package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

// SessionManager is the server side of the session lifecycle.
type SessionManager interface {
	Open(ctx context.Context, userID string, role domain.Role) (domain.ServerSession, error)
	RemainingTTL(ctx context.Context, id domain.SessionID) (domain.TTL, error)
	KeepAlive(ctx context.Context, id domain.SessionID) (domain.TTL, error)
	Close(ctx context.Context, id domain.SessionID) error
	Policy() domain.SessionPolicy
}

type Routes struct {
	TTL       string
	KeepAlive string
	Logout    string
	Login     string
}

type Options struct {
	Address        string
	CookieName     string
	SecureCookie   bool
	Routes         Routes
	Sessions       SessionManager
	Signer         *TokenSigner
	Logger         *log.Logger
	DisableReqLogs bool
	Debug          bool
}

type Server struct {
	opts Options
	app  *echo.Echo
}

func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New("tts-serve")
	}

	s := &Server{opts: opts, app: echo.New()}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.HidePort = true
	s.app.Debug = s.opts.Debug
	s.app.Logger = s.opts.Logger
	s.app.Validator = &requestValidator{validate: validator.New()}
	s.app.HTTPErrorHandler = newHTTPErrorHandler(s.opts.Logger)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{Output: s.opts.Logger.Output()}))
	}
	s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))

	h := &handlers{
		sessions:     s.opts.Sessions,
		signer:       s.opts.Signer,
		cookieName:   s.opts.CookieName,
		secureCookie: s.opts.SecureCookie,
		logger:       s.opts.Logger,
	}

	s.app.POST(s.opts.Routes.Login, h.login)
	s.app.GET(s.opts.Routes.TTL, h.ttl)
	s.app.GET(s.opts.Routes.KeepAlive, h.keepAlive)
	s.app.POST(s.opts.Routes.KeepAlive, h.keepAlive)
	s.app.GET(s.opts.Routes.Logout, h.logout)
}

// Start blocks until the server stops. After Shutdown it returns nil.
func (s *Server) Start() error {
	if err := s.app.Start(s.opts.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
