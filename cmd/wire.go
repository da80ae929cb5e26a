package cmd

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/adapters/httpclient"
	statusadapter "github.com/denisekoyasha/ThesisTrackCI-sub002/internal/adapters/render/status"
	chainstore "github.com/denisekoyasha/ThesisTrackCI-sub002/internal/adapters/secrets/chain"
	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/application"
	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/config"
	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/ports"
	"github.com/labstack/gommon/log"
	"github.com/spf13/viper"
)

const configFileEnv = "TTS_CONFIG"

type app struct {
	cfg            config.Config
	viper          *viper.Viper
	client         httpclient.Client
	portal         *application.PortalService
	statusRenderer func(application.SessionStatus, statusadapter.RenderOptions) (string, error)
	now            func() time.Time
}

func wireApp() (*app, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	v := viper.New()
	cfg, err := config.Load(v, config.Options{HomeDir: homeDir, ConfigFile: os.Getenv(configFileEnv)})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	secretStore, err := chainstore.NewPassFirstWithFileFallback(filepath.Join(homeDir, ".thesistrack", "secrets"))
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	client := httpclient.Client{
		API: httpclient.Endpoints{
			BaseURL:       cfg.Endpoints.BaseURL,
			TTLPath:       cfg.Endpoints.TTL,
			KeepAlivePath: cfg.Endpoints.KeepAlive,
			LogoutPath:    cfg.Endpoints.Logout,
			LoginPath:     cfg.Endpoints.Login,
			CookieName:    cfg.Endpoints.CookieName,
		},
		HTTPClient:     http.DefaultClient,
		RequestTimeout: cfg.Monitor.RequestTimeout,
	}

	portal := application.NewPortalService(application.PortalServiceDeps{
		BaseURL:     cfg.Endpoints.BaseURL,
		Gateway:     client,
		TTL:         client,
		KeepAlive:   client,
		Credentials: application.NewCredentials(secretStore, cfg.Endpoints.CookieName),
		Clock:       ports.SystemClock{},
	})

	return &app{
		cfg:            cfg,
		viper:          v,
		client:         client,
		portal:         portal,
		statusRenderer: statusadapter.Render,
		now:            time.Now,
	}, nil
}

func newLogger(prefix string, level string) *log.Logger {
	logger := log.New(prefix)
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logLevel(level))
	return logger
}

func logLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
