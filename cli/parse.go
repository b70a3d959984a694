// ABOUTME: Free-text parser preview commands
// ABOUTME: Shows how goal and account text will be read before it is saved on a client
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dexterfire861/ClarityWorks/parser"
	"github.com/spf13/cobra"
)

func newParseCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Preview how goal or account text is parsed",
	}
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print records as JSON")

	goals := &cobra.Command{
		Use:   "goals [file]",
		Short: "Parse goals from a file, or stdin when no file is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			goals := parser.ParseGoals(text)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), goals)
			}
			heading(cmd, fmt.Sprintf("%d goal(s)", len(goals)))
			_, _ = fmt.Fprint(cmd.OutOrStdout(), parser.FormatGoals(goals))
			return nil
		},
	}

	accounts := &cobra.Command{
		Use:   "accounts [file]",
		Short: "Parse accounts from a file, or stdin when no file is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			accounts := parser.ParseAccounts(text)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), accounts)
			}
			heading(cmd, fmt.Sprintf("%d account(s)", len(accounts)))
			_, _ = fmt.Fprint(cmd.OutOrStdout(), parser.FormatAccounts(accounts))
			return nil
		},
	}

	cmd.AddCommand(goals, accounts)
	return cmd
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
