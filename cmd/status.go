package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	statusadapter "github.com/denisekoyasha/ThesisTrackCI-sub002/internal/adapters/render/status"
	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/application"
	"github.com/spf13/cobra"
)

func writeSessionStatus(cmd *cobra.Command, app *app, status application.SessionStatus, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	rendered, err := app.statusRenderer(status, statusadapter.RenderOptions{
		Now:           app.now(),
		Timeout:       time.Duration(app.cfg.Monitor.DefaultTimeoutSeconds) * time.Second,
		WarningWindow: time.Duration(app.cfg.Monitor.WarningWindowSeconds) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("render session status: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
