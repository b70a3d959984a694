// ABOUTME: Root cobra command and shared wiring for the clarity CLI
// ABOUTME: Loads config, builds the zap logger and opens the selected storage backend per command
package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dexterfire861/ClarityWorks/ai"
	"github.com/dexterfire861/ClarityWorks/charm"
	"github.com/dexterfire861/ClarityWorks/config"
	"github.com/dexterfire861/ClarityWorks/db"
	"github.com/dexterfire861/ClarityWorks/models"
	"github.com/dexterfire861/ClarityWorks/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "0.2.0"

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Overridden in tests.
var (
	openCharm = charm.Open
	clock     = time.Now
)

// app carries the state every subcommand shares.
type app struct {
	configPath string
	backend    string
	dbPath     string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
	now    func() time.Time
}

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	a := &app{now: clock}

	rootCmd := &cobra.Command{
		Use:               "clarity",
		Short:             "Advisor desk toolkit: clients, interaction history and AI meeting prep",
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/clarity/config.yaml)")
	flags.StringVar(&a.backend, "backend", "", "Storage backend: charm or sqlite")
	flags.StringVar(&a.dbPath, "db-path", "", "SQLite database path (sqlite backend)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newClientsCmd(a),
		newInteractionsCmd(a),
		newParseCmd(a),
		newPrepCmd(a),
		newCRMUpdateCmd(a),
		newMCPCmd(a),
		newConfigCmd(a),
		newSyncCmd(a),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.backend != "" {
		cfg.Storage.Backend = a.backend
	}
	if a.dbPath != "" {
		cfg.Storage.DBPath = a.dbPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logConfig := zap.NewProductionConfig()
	logConfig.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if a.verbose {
		logConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := logConfig.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

// backendKV opens the configured KV backend. The charm client is returned
// separately when that backend is in use so sync commands can reach it.
func (a *app) backendKV() (store.KV, *charm.Client, error) {
	switch a.cfg.Storage.Backend {
	case config.BackendSQLite:
		kv, err := db.Open(a.cfg.Storage.DBPath)
		if err != nil {
			return nil, nil, err
		}
		a.logger.Debug("opened sqlite backend", zap.String("path", a.cfg.Storage.DBPath))
		return kv, nil, nil
	default:
		c, err := openCharm(charm.Config{Host: a.cfg.Charm.Host, AutoSync: a.cfg.Charm.AutoSync}, a.logger)
		if err != nil {
			return nil, nil, err
		}
		a.logger.Debug("opened charm backend", zap.String("host", a.cfg.Charm.Host))
		return c, c, nil
	}
}

type storeRunFunc func(cmd *cobra.Command, args []string, s *store.Store) error

// withStore opens the store for the duration of one command.
func (a *app) withStore(run storeRunFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		kv, _, err := a.backendKV()
		if err != nil {
			return err
		}
		s, err := store.Open(kv, store.Options{Logger: a.logger, Now: a.now})
		if err != nil {
			return err
		}
		defer func() {
			if err := s.Close(); err != nil {
				a.logger.Warn("failed to close store", zap.Error(err))
			}
		}()
		return run(cmd, args, s)
	}
}

// history lists a client's interactions, seeding a built-in client's
// sample history the first time it is opened.
func (a *app) history(s *store.Store, clientID string) []models.Interaction {
	if n, err := s.Interactions.SeedIfEmpty(clientID); err != nil {
		a.logger.Warn("failed to seed interactions", zap.String("client", clientID), zap.Error(err))
	} else if n > 0 {
		a.logger.Debug("seeded interactions", zap.String("client", clientID), zap.Int("count", n))
	}
	return s.Interactions.ListForClient(clientID)
}

func (a *app) adapter() *ai.Adapter {
	temperature := a.cfg.AI.Temperature
	return ai.New(ai.Config{
		APIKey:      a.cfg.AI.APIKey,
		BaseURL:     a.cfg.AI.BaseURL,
		Model:       a.cfg.AI.Model,
		Temperature: &temperature,
		MaxTokens:   a.cfg.AI.MaxTokens,
		Logger:      a.logger,
		Now:         a.now,
	})
}

func (a *app) crmGenerator() ai.CRMGenerator {
	if a.cfg.AI.MockCRM {
		return ai.MockCRM{Delay: a.cfg.AI.MockDelay, Now: a.now}
	}
	return a.adapter()
}

// userError turns AI failures into the message shown to the advisor.
func userError(err error) error {
	var cfgErr *ai.ConfigurationError
	var upErr *ai.UpstreamError
	var parseErr *ai.ParseError
	if errors.As(err, &cfgErr) || errors.As(err, &upErr) || errors.As(err, &parseErr) {
		return errors.New(ai.UserMessage(err))
	}
	return err
}

func heading(cmd *cobra.Command, text string) {
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), headingStyle.Render(text))
}
