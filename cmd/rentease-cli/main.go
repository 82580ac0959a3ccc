package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/muhammedanshif/rentEase/client"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli carries what every command needs. It is built once in PersistentPreRunE.
type cli struct {
	server      string
	sessionPath string
	yes         bool
	verbose     bool

	api      *client.APIClient
	notifier *client.Notifier
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".rentease-session.json"
	}
	return filepath.Join(dir, "rentease", "session.json")
}

func main() {
	_ = godotenv.Load()

	app := &cli{}
	rootCmd := &cobra.Command{
		Use:           "rentease-cli",
		Short:         "RentEase property management from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.flush()
		},
	}
	rootCmd.PersistentFlags().StringVar(&app.server, "server", envOr("RENTEASE_SERVER", "http://localhost:8080"), "RentEase server URL")
	rootCmd.PersistentFlags().StringVar(&app.sessionPath, "session", defaultSessionPath(), "where the login session is stored")
	rootCmd.PersistentFlags().BoolVarP(&app.yes, "yes", "y", false, "answer yes to delete confirmations")
	rootCmd.PersistentFlags().BoolVar(&app.verbose, "verbose", false, "log requests")

	rootCmd.AddCommand(
		app.loginCmd(),
		app.logoutCmd(),
		app.whoamiCmd(),
		app.statsCmd(),
		app.buildingsCmd(),
		app.roomsCmd(),
		app.tenantsCmd(),
		app.billsCmd(),
		app.complaintsCmd(),
		app.announcementsCmd(),
		app.emergencyCmd(),
		app.paymentSettingsCmd(),
	)

	err := rootCmd.Execute()
	if app.notifier != nil {
		app.flush()
		app.notifier.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", client.UserMessage(err))
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (a *cli) init() error {
	session, err := client.LoadSession(a.sessionPath)
	if err != nil {
		return err
	}
	logger := zap.NewNop()
	if a.verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
	}
	a.api = client.NewAPIClient(a.server, session, client.WithLogger(logger))
	a.notifier = client.NewNotifier()
	return nil
}

// flush prints and clears pending notifications.
func (a *cli) flush() {
	if a.notifier == nil {
		return
	}
	for _, n := range a.notifier.Items() {
		if n.Kind != client.NotifyError {
			fmt.Fprintf(os.Stderr, "[%s] %s\n", n.Kind, n.Message)
		}
		a.notifier.Dismiss(n.ID)
	}
}

func (a *cli) ctx() context.Context {
	return context.Background()
}
