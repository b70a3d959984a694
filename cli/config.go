// ABOUTME: Config CLI commands
// ABOUTME: Stores the AI provider key without echoing it and prints the effective settings
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dexterfire861/ClarityWorks/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage clarity settings",
	}

	setKey := &cobra.Command{
		Use:   "set-key",
		Short: "Save the AI provider API key to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := readSecret(cmd, "API key: ")
			if err != nil {
				return err
			}
			path := a.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if err := config.SaveAPIKey(path, key); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ API key saved to %s\n", path)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings with the API key masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			out := cmd.OutOrStdout()
			path := a.configPath
			if path == "" {
				path = config.DefaultPath()
			}

			row := func(label string, value any) {
				_, _ = fmt.Fprintf(out, "  %s %v\n", labelStyle.Render(fmt.Sprintf("%-12s", label)), value)
			}

			heading(cmd, "Config")
			row("File:", path)

			_, _ = fmt.Fprintln(out)
			heading(cmd, "AI")
			row("API key:", cfg.MaskedAPIKey())
			row("Base URL:", cfg.AI.BaseURL)
			row("Model:", a.adapter().Model())
			row("Temperature:", cfg.AI.Temperature)
			row("Max tokens:", cfg.AI.MaxTokens)
			row("Mock CRM:", cfg.AI.MockCRM)
			if cfg.AI.MockCRM {
				row("Mock delay:", cfg.AI.MockDelay)
			}

			_, _ = fmt.Fprintln(out)
			heading(cmd, "Storage")
			row("Backend:", cfg.Storage.Backend)
			if cfg.Storage.Backend == config.BackendSQLite {
				row("Database:", cfg.Storage.DBPath)
			} else {
				row("Charm host:", cfg.Charm.Host)
				row("Auto sync:", cfg.Charm.AutoSync)
			}
			return nil
		},
	}

	cmd.AddCommand(setKey, show)
	return cmd
}

// readSecret reads without echo from a terminal and falls back to one
// line of piped input.
func readSecret(cmd *cobra.Command, prompt string) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), prompt)
		secret, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read key: %w", err)
		}
		return strings.TrimSpace(string(secret)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read key: %w", err)
	}
	return strings.TrimSpace(line), nil
}
