package cmd

import (
	"context"

	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/application"
	"github.com/spf13/cobra"
)

func newTTLCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "ttl",
		Aliases: []string{"status"},
		Short:   "Show how long the portal session has left",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var status application.SessionStatus
			fetch := func(ctx context.Context) error {
				var err error
				status, err = app.portal.Status(ctx)
				return err
			}

			var err error
			if asJSON {
				err = fetch(cmd.Context())
			} else {
				err = runFetchSpinner(cmd.Context(), cmd.ErrOrStderr(), "Checking session...", fetch)
			}
			if err != nil {
				return explainSessionError(err)
			}

			return writeSessionStatus(cmd, app, status, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}
