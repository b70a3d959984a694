// ABOUTME: Charm sync CLI commands
// ABOUTME: Manual sync, status and wipe for the Charm-backed client and interaction data
package cli

import (
	"fmt"

	"github.com/dexterfire861/ClarityWorks/charm"
	"github.com/dexterfire861/ClarityWorks/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type charmRunFunc func(cmd *cobra.Command, args []string, c *charm.Client) error

// withCharm opens the charm backend for sync commands; other backends have
// nothing to sync.
func (a *app) withCharm(run charmRunFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if a.cfg.Storage.Backend != config.BackendCharm {
			return fmt.Errorf("sync is only available with the %s backend (current: %s)", config.BackendCharm, a.cfg.Storage.Backend)
		}
		_, c, err := a.backendKV()
		if err != nil {
			return err
		}
		defer func() {
			if err := c.Close(); err != nil {
				a.logger.Warn("failed to close charm client", zap.Error(err))
			}
		}()
		return run(cmd, args, c)
	}
}

func newSyncCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync client data with the Charm server",
	}

	now := &cobra.Command{
		Use:   "now",
		Short: "Push local changes and pull remote ones",
		Args:  cobra.NoArgs,
		RunE: a.withCharm(func(cmd *cobra.Command, _ []string, c *charm.Client) error {
			if err := c.Sync(); err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Synced with %s\n", c.Config().Host)
			return nil
		}),
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the Charm account and local key count",
		Args:  cobra.NoArgs,
		RunE: a.withCharm(func(cmd *cobra.Command, _ []string, c *charm.Client) error {
			out := cmd.OutOrStdout()
			cfg := c.Config()

			heading(cmd, "Charm sync")
			_, _ = fmt.Fprintf(out, "  Host:       %s\n", cfg.Host)
			_, _ = fmt.Fprintf(out, "  Auto sync:  %t\n", cfg.AutoSync)

			id, err := c.ID()
			if err != nil {
				a.logger.Debug("charm id unavailable", zap.Error(err))
				id = "(not linked)"
			}
			_, _ = fmt.Fprintf(out, "  Account:    %s\n", id)

			keys, err := c.Keys()
			if err != nil {
				return fmt.Errorf("failed to list keys: %w", err)
			}
			_, _ = fmt.Fprintf(out, "  Keys:       %d\n", len(keys))
			return nil
		}),
	}

	var confirm bool
	wipe := &cobra.Command{
		Use:   "wipe",
		Short: "Delete all custom clients and interactions from the Charm store",
		Args:  cobra.NoArgs,
		RunE: a.withCharm(func(cmd *cobra.Command, _ []string, c *charm.Client) error {
			if !confirm {
				return fmt.Errorf("refusing to wipe without --confirm")
			}
			if err := c.Reset(); err != nil {
				return fmt.Errorf("wipe failed: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✓ Charm store wiped")
			return nil
		}),
	}
	wipe.Flags().BoolVar(&confirm, "confirm", false, "Confirm deleting all stored data")

	cmd.AddCommand(now, status, wipe)
	return cmd
}
