package cmd

import (
	"fmt"

	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/application"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	var userID string
	var role string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the portal and store the session cookie",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			login, err := application.NewLoginCommand(userID, role)
			if err != nil {
				return err
			}

			if _, err := app.portal.Login(cmd.Context(), login); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s) on %s\n", login.UserID, login.Role, app.cfg.Endpoints.BaseURL)
			return err
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Portal user id")
	cmd.Flags().StringVar(&role, "role", "student", "Portal role: student, advisor or coordinator")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
