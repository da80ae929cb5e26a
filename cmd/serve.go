package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/adapters/httpserver"
	sqliterepo "github.com/denisekoyasha/ThesisTrackCI-sub002/internal/adapters/repo/sqlite"
	tomlrepo "github.com/denisekoyasha/ThesisTrackCI-sub002/internal/adapters/repo/toml"
	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/application"
	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/config"
	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/ports"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(app *app) *cobra.Command {
	var address string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the portal session endpoints (login, ttl, keep-alive, logout)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if address != "" {
				app.cfg.Server.Address = address
			}
			return runServe(cmd, app, quiet)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Listen address (default from server.address)")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Disable request logs")

	return cmd
}

func runServe(cmd *cobra.Command, app *app, quiet bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger("tts-serve", app.cfg.Log.Level)
	logger.SetOutput(cmd.ErrOrStderr())
	if app.cfg.UsesDevSecret() {
		logger.Warnf("signing session cookies with the built-in development key; set server.secret_key")
	}

	repo, closeRepo, err := openSessionRepository(ctx, app)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeRepo(); err != nil {
			logger.Errorf("close session store: %v", err)
		}
	}()

	signer, err := httpserver.NewTokenSigner(app.cfg.Server.SecretKey)
	if err != nil {
		return fmt.Errorf("wire token signer: %w", err)
	}

	sessions := application.NewSessionService(repo, ports.SystemClock{}, app.cfg.SessionPolicy())
	server := httpserver.NewServer(httpserver.Options{
		Address:      app.cfg.Server.Address,
		CookieName:   app.cfg.Endpoints.CookieName,
		SecureCookie: app.cfg.Server.SecureCookie,
		Routes: httpserver.Routes{
			TTL:       app.cfg.Endpoints.TTL,
			KeepAlive: app.cfg.Endpoints.KeepAlive,
			Logout:    app.cfg.Endpoints.Logout,
			Login:     app.cfg.Endpoints.Login,
		},
		Sessions:       sessions,
		Signer:         signer,
		Logger:         logger,
		DisableReqLogs: quiet,
		Debug:          app.cfg.Log.Level == "debug",
	})

	go sessions.RunReaper(ctx, app.cfg.Server.ReapInterval, logger)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Start()
	}()

	logger.Infof("serving sessions on %s (store: %s)", app.cfg.Server.Address, app.cfg.Server.Store)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", app.cfg.Server.Address)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve sessions: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return <-serveErr
}

func openSessionRepository(ctx context.Context, app *app) (ports.SessionRepository, func() error, error) {
	switch app.cfg.Server.Store {
	case config.StoreSQLite:
		repo, err := sqliterepo.Open(ctx, app.cfg.Server.StorePath)
		if err != nil {
			return nil, nil, fmt.Errorf("wire sqlite session store: %w", err)
		}
		return repo, repo.Close, nil
	case config.StoreTOML:
		repo, err := tomlrepo.NewRepository(app.viper)
		if err != nil {
			return nil, nil, fmt.Errorf("wire toml session store: %w", err)
		}
		return repo, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported session store %q", app.cfg.Server.Store)
	}
}
