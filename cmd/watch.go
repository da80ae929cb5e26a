package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	promptadapter "github.com/denisekoyasha/ThesisTrackCI-sub002/internal/adapters/render/prompt"
	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/adapters/scheduler"
	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/application"
	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/ports"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *app) *cobra.Command {
	var noMouse bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch for inactivity and warn before the portal session expires",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, app, !noMouse)
		},
	}

	cmd.Flags().BoolVar(&noMouse, "no-mouse", false, "Do not capture mouse events as activity")

	return cmd
}

func runWatch(cmd *cobra.Command, app *app, mouse bool) error {
	ctx := cmd.Context()

	handle, err := app.portal.Handle(ctx)
	if err != nil {
		return explainSessionError(err)
	}

	logOutput, closeLog, err := openLogFile(app.cfg.Log.File)
	if err != nil {
		return err
	}
	defer closeLog()

	logger := newLogger("tts-watch", app.cfg.Log.Level)
	logger.SetOutput(logOutput)

	timers := scheduler.New()
	defer timers.StopAll()

	bridge := promptadapter.NewBridge()
	monitor, err := application.NewMonitor(application.MonitorDeps{
		Handle:    handle,
		TTL:       app.client,
		KeepAlive: app.client,
		Scheduler: timers,
		Navigator: application.SignOutNavigator{Portal: app.portal, Done: bridge.SignedOut},
		Prompt:    bridge,
		Clock:     ports.SystemClock{},
		Logger:    logger,
	}, app.cfg.MonitorSettings())
	if err != nil {
		return fmt.Errorf("create session monitor: %w", err)
	}
	defer monitor.Stop()

	model := promptadapter.New(ctx, monitor, promptadapter.Options{
		Host:          app.cfg.Endpoints.BaseURL,
		WarningWindow: app.cfg.MonitorSettings().WarningWindow,
	})

	options := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	}
	if mouse {
		options = append(options, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(model, options...)
	bridge.Attach(p)

	finalModel, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run session prompt: %w", err)
	}

	result, ok := finalModel.(promptadapter.Model)
	if !ok {
		return fmt.Errorf("unexpected final prompt model type %T", finalModel)
	}
	if reason, signedOut := result.SignedOut(); signedOut {
		logger.Infof("session ended: %s", reason)
	}

	return result.Err()
}

func openLogFile(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	return file, func() { _ = file.Close() }, nil
}
