package cmd

import (
	"errors"
	"fmt"

	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/domain"
	"github.com/spf13/cobra"
)

func newKeepAliveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:     "keepalive",
		Aliases: []string{"keep-alive", "extend"},
		Short:   "Extend the portal session once",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.portal.Extend(cmd.Context()); err != nil {
				return explainSessionError(err)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "session extended")
			return err
		},
	}
}

// explainSessionError adds the next step to errors a user can act on.
func explainSessionError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNoCredential):
		return fmt.Errorf("%w: run `tts login --user <id>` first", err)
	case errors.Is(err, domain.ErrUnauthorized):
		return fmt.Errorf("session is no longer valid, run `tts login` again: %w", err)
	default:
		return err
	}
}
