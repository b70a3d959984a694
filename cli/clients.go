// ABOUTME: Client CLI commands
// ABOUTME: Lists, shows, adds, imports and deletes clients in the configured store
package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dexterfire861/ClarityWorks/ingest"
	"github.com/dexterfire861/ClarityWorks/models"
	"github.com/dexterfire861/ClarityWorks/parser"
	"github.com/dexterfire861/ClarityWorks/store"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newClientsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clients",
		Aliases: []string{"client"},
		Short:   "Manage clients",
	}
	cmd.AddCommand(
		newClientsListCmd(a),
		newClientsShowCmd(a),
		newClientsAddCmd(a),
		newClientsImportCmd(a),
		newClientsDeleteCmd(a),
	)
	return cmd
}

func newClientsListCmd(a *app) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List built-in and custom clients",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, _ []string, s *store.Store) error {
			query = strings.ToLower(strings.TrimSpace(query))

			var clients []models.Client
			for _, c := range s.Clients.List() {
				if query == "" || strings.Contains(strings.ToLower(c.Name), query) {
					clients = append(clients, c)
				}
			}

			out := cmd.OutOrStdout()
			if len(clients) == 0 {
				_, _ = fmt.Fprintln(out, "No clients found")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "NAME\tRISK\tAUM\tLAST CONTACT\tSOURCE\tID")
			_, _ = fmt.Fprintln(w, "----\t----\t---\t------------\t------\t--")
			for _, c := range clients {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					c.Name, c.RiskProfile, money(c.AUM), c.LastContact, c.Provenance, c.ID)
			}
			_ = w.Flush()

			_, _ = fmt.Fprintf(out, "\nTotal: %d client(s)\n", len(clients))
			return nil
		}),
	}
	cmd.Flags().StringVar(&query, "query", "", "Filter by name")
	return cmd
}

func newClientsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <client-id>",
		Short: "Show a client's goals, accounts and recent interactions",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
			c, ok := s.Clients.Get(args[0])
			if !ok {
				return fmt.Errorf("client not found: %s", args[0])
			}
			printClient(cmd, c)

			interactions := a.history(s, c.ID)
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out)
			heading(cmd, "Interactions")
			if len(interactions) == 0 {
				_, _ = fmt.Fprintln(out, "  none recorded")
			}
			for _, i := range interactions {
				_, _ = fmt.Fprintf(out, "  %s  %-7s  %s  (%s)\n", i.Date, i.Type, i.Title, i.ID)
			}
			return nil
		}),
	}
}

func printClient(cmd *cobra.Command, c models.Client) {
	out := cmd.OutOrStdout()
	heading(cmd, c.Name)
	field := func(label, value string) {
		_, _ = fmt.Fprintf(out, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-13s", label)), value)
	}
	if c.ID != "" {
		field("ID:", c.ID)
	}
	field("AUM:", money(c.AUM))
	field("Risk:", string(c.RiskProfile))
	if c.Advisor != "" {
		field("Advisor:", c.Advisor)
	}
	field("Last contact:", c.LastContact.String())

	_, _ = fmt.Fprintln(out)
	heading(cmd, "Goals")
	if len(c.Goals) == 0 {
		_, _ = fmt.Fprintln(out, "  none")
	}
	for _, g := range c.Goals {
		progress := g.Progress() * 100
		if progress > 100 {
			progress = 100
		}
		_, _ = fmt.Fprintf(out, "  %s: %s of %s by %s (%.0f%%)\n",
			g.Name, money(g.CurrentAmount), money(g.TargetAmount), g.TargetDate, progress)
	}

	_, _ = fmt.Fprintln(out)
	heading(cmd, "Accounts")
	if len(c.Accounts) == 0 {
		_, _ = fmt.Fprintln(out, "  none")
	}
	for _, acct := range c.Accounts {
		_, _ = fmt.Fprintf(out, "  %s (%s): %s\n", acct.Name, acct.Type, money(acct.Balance))
	}
	if len(c.Accounts) > 1 {
		_, _ = fmt.Fprintf(out, "  %s %s\n", labelStyle.Render("Total balance:"), money(c.TotalBalance()))
	}
}

func newClientsAddCmd(a *app) *cobra.Command {
	var (
		name, aum, risk, advisor, lastContact string
		goalsFile, accountsFile               string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a custom client",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, _ []string, s *store.Store) error {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name is required")
			}

			in := models.ClientInput{Name: name, Advisor: advisor}
			if aum != "" {
				in.AUM = parser.ParseAmount(aum)
			}
			if risk != "" {
				r, ok := models.ParseRiskProfile(risk)
				if !ok {
					return fmt.Errorf("invalid --risk %q", risk)
				}
				in.RiskProfile = r
			}
			if lastContact != "" {
				d, err := models.ParseDate(lastContact)
				if err != nil {
					return fmt.Errorf("invalid --last-contact: %w", err)
				}
				in.LastContact = d
			}
			if goalsFile != "" {
				text, err := os.ReadFile(goalsFile)
				if err != nil {
					return fmt.Errorf("failed to read goals file: %w", err)
				}
				in.Goals = parser.ParseGoals(string(text))
			}
			if accountsFile != "" {
				text, err := os.ReadFile(accountsFile)
				if err != nil {
					return fmt.Errorf("failed to read accounts file: %w", err)
				}
				in.Accounts = parser.ParseAccounts(string(text))
			}

			c, err := s.Clients.Create(in)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Created client: %s (ID: %s)\n", c.Name, c.ID)
			return nil
		}),
	}

	flags := cmd.Flags()
	flags.StringVar(&name, "name", "", "Client name (required)")
	flags.StringVar(&aum, "aum", "", "Assets under management, e.g. 1,250,000")
	flags.StringVar(&risk, "risk", "", "Risk profile: Conservative, Moderate, Moderate-Aggressive or Aggressive")
	flags.StringVar(&advisor, "advisor", "", "Advisor responsible for the client")
	flags.StringVar(&lastContact, "last-contact", "", "Date of last contact (YYYY-MM-DD)")
	flags.StringVar(&goalsFile, "goals-file", "", "File with goals, one 'name | target | current | date' per line or a JSON array")
	flags.StringVar(&accountsFile, "accounts-file", "", "File with accounts, one 'name | type | balance' per line or a JSON array")
	return cmd
}

func newClientsImportCmd(a *app) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import <file.txt>...",
		Short: "Create a client from up to three plain-text documents using the AI provider",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
			docs, err := ingest.ReadDocuments(cmd.Context(), args)
			if err != nil {
				return err
			}

			parsed, err := a.adapter().ParseClientFromDocuments(cmd.Context(), docs)
			if err != nil {
				return userError(err)
			}

			if dryRun {
				printClient(cmd, parsed)
				return nil
			}

			c, err := s.Clients.Create(parsed.Input())
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported client: %s (ID: %s)\n", c.Name, c.ID)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the extracted client without saving it")
	return cmd
}

func newClientsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <client-id>",
		Short: "Delete a custom client and its interactions",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
			id := args[0]
			if s.Clients.IsBuiltin(id) {
				return fmt.Errorf("built-in client %s cannot be deleted", id)
			}
			removed, n := s.RemoveClient(id)
			if !removed {
				return fmt.Errorf("client not found: %s", id)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted client %s (%d interaction(s) removed)\n", id, n)
			return nil
		}),
	}
}

// money renders a dollar amount with thousands separators.
func money(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	whole, frac, _ := strings.Cut(d.StringFixed(2), ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac == "00" {
		return sign + "$" + b.String()
	}
	return sign + "$" + b.String() + "." + frac
}
