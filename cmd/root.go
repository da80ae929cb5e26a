package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tts",
		Short:         "ThesisTrack session CLI (tts): keep portal sessions alive and time them out",
		Long:          "tts signs in to the ThesisTrack portal, reports how long the session has left, extends it on demand, watches for inactivity with a countdown prompt, and can serve the session endpoints itself.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newConfigCmd(app),
		newLoginCmd(app),
		newTTLCmd(app),
		newKeepAliveCmd(app),
		newLogoutCmd(app),
		newWatchCmd(app),
		newServeCmd(app),
	)

	return rootCmd
}
