package cli

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewRootCommand builds the qrscan command tree around app
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "qrscan",
		Short: "Command-line client for the QR scan intake service",
		Long: `qrscan talks to a running scan intake API.

Without a subcommand on a terminal it opens the interactive history viewer.

Examples:
  qrscan session new                          # Start a session and remember it
  qrscan webhook set https://example.com/in   # Forward new scans
  qrscan upload code.png                      # Decode an image
  qrscan history                              # Show the last 10 scans`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return cmd.Help()
			}
			return app.RunTUI()
		},
	}
	rootCmd.PersistentFlags().StringVar(&app.sessionOverride, "session", "", "session id (defaults to cli.session_id from the config)")

	rootCmd.AddCommand(
		newSessionCmd(app),
		newScanCmd(app),
		newUploadCmd(app),
		newHistoryCmd(app),
		newClearCmd(app),
		newResetCmd(app),
		newWebhookCmd(app),
		newDevicesCmd(app),
		newConfigCmd(app),
		newTUICmd(app),
	)
	return rootCmd
}

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the scanner session",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "new",
			Short: "Create a session and make it the default",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := app.NewSession()
				return err
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Show the session's settings and history",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.ShowSession()
			},
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Close the session on the server",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.DeleteSession()
			},
		},
	)
	return cmd
}

func newScanCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <text>",
		Short: "Submit an already-decoded QR value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Scan(args[0])
		},
	}
}

func newUploadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <image>",
		Short: "Decode a QR code from an image file (PNG, JPEG, GIF, WebP, BMP)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Upload(args[0])
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show recent scans, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.History()
		},
	}
}

func newClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the scan history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Clear()
		},
	}
}

func newResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the history and restart the camera",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Reset()
		},
	}
}

func newWebhookCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Configure where new scans are forwarded",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <url>",
			Short: "Forward new scans to url",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.SetWebhook(args[0])
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Show the webhook URL",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.ShowWebhook()
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Stop forwarding scans",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.SetWebhook("")
			},
		},
	)
	return cmd
}

func newDevicesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List or select cameras",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List cameras reported by the scanner client",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.ListDevices()
			},
		},
		&cobra.Command{
			Use:   "select <device-id>",
			Short: "Decode frames from another camera",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.SelectDevice(args[0])
			},
		},
	)
	return cmd
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the configuration file",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show current configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.ShowConfig()
			},
		},
		&cobra.Command{
			Use:   "set section.key=value",
			Short: "Set a config value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.SetConfig(args[0])
			},
		},
	)
	return cmd
}

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive history viewer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunTUI()
		},
	}
}
