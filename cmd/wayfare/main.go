// Command wayfare is the terminal client: the same booking flows the
// bot offers, driven by subcommands instead of a chat.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"wayfare/internal/backend"
	"wayfare/internal/config"
	"wayfare/internal/credstore"
	"wayfare/internal/history"
	"wayfare/internal/logging"
	"wayfare/internal/session"
	"wayfare/internal/trips"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// cliOwnerID keys the single-user credentials file.
const cliOwnerID = 0

type app struct {
	cfg     *config.Config
	logger  *zerolog.Logger
	closer  io.Closer
	store   *credstore.FileStore
	history *history.Store
	session *session.Manager
	trips   *trips.Store
}

func (a *app) setup(configPath string) error {
	if configPath == "" {
		if _, err := os.Stat("configs/config.yaml"); err == nil {
			configPath = "configs/config.yaml"
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return err
	}
	l := logger.With().Str("component", "cli").Logger()
	a.logger = &l
	a.closer = closer

	client, err := backend.New(cfg.Backend, a.logger)
	if err != nil {
		return err
	}

	credsPath := cfg.Credentials.Path
	if credsPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot locate home directory: %w", err)
		}
		credsPath = filepath.Join(home, ".wayfare", "session.json")
	}
	a.store = credstore.NewFileStore(credsPath)

	a.session = session.NewManager(client, a.store, cliOwnerID, a.logger)

	var recorder trips.Recorder
	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("cannot open booking history: %w", err)
		}
		a.history = store
		recorder = store
	}
	a.trips = trips.NewStore(a.session.Client(), cliOwnerID, recorder, nil, a.logger)

	return nil
}

func (a *app) teardown() {
	if a.history != nil {
		_ = a.history.Close()
	}
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

func main() {
	a := &app{}
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "wayfare",
		Short:         "Book stays and transfers from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(configPath)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml")

	rootCmd.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newProfileCmd(a),
		newStaysCmd(a),
		newRidesCmd(a),
		newBookCmd(a),
		newBookingsCmd(a),
		newConfigCmd(a),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
