// ABOUTME: Interaction history CLI commands
// ABOUTME: Lists, logs, edits, deletes and seeds a client's meetings, calls, emails and notes
package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dexterfire861/ClarityWorks/models"
	"github.com/dexterfire861/ClarityWorks/store"
	"github.com/spf13/cobra"
)

func newInteractionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "interactions",
		Aliases: []string{"interaction", "history"},
		Short:   "Manage client interaction history",
	}
	cmd.AddCommand(
		newInteractionsListCmd(a),
		newInteractionsAddCmd(a),
		newInteractionsUpdateCmd(a),
		newInteractionsDeleteCmd(a),
		newInteractionsSeedCmd(a),
	)
	return cmd
}

func newInteractionsListCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list <client-id>",
		Short: "List a client's interactions, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
			list := s.Interactions.ListForClient(args[0])
			if limit > 0 && len(list) > limit {
				list = list[:limit]
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				_, _ = fmt.Fprintln(out, "No interactions found")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "DATE\tTYPE\tTITLE\tACTION ITEMS\tID")
			_, _ = fmt.Fprintln(w, "----\t----\t-----\t------------\t--")
			for _, i := range list {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", i.Date, i.Type, i.Title, len(i.ActionItems), i.ID)
			}
			_ = w.Flush()

			_, _ = fmt.Fprintf(out, "\nTotal: %d interaction(s)\n", len(list))
			return nil
		}),
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum results (0 for all)")
	return cmd
}

func newInteractionsAddCmd(a *app) *cobra.Command {
	var (
		kind, title, date, notes string
		actionItems              []string
	)
	cmd := &cobra.Command{
		Use:   "add <client-id>",
		Short: "Log a meeting, call, email or note",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
			in := models.InteractionInput{
				ClientID:    args[0],
				Type:        models.InteractionType(strings.ToLower(kind)),
				Title:       title,
				Notes:       notes,
				ActionItems: actionItems,
			}
			if date != "" {
				d, err := models.ParseDate(date)
				if err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
				in.Date = d
			}

			i, err := s.Interactions.Create(in)
			if err != nil {
				return fmt.Errorf("failed to log interaction: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged %s: %s (ID: %s)\n", i.Type, i.Title, i.ID)
			return nil
		}),
	}

	flags := cmd.Flags()
	flags.StringVar(&kind, "type", string(models.InteractionNote), "meeting, call, email or note")
	flags.StringVar(&title, "title", "", "Short title (defaults to the type)")
	flags.StringVar(&date, "date", "", "Date of the interaction (YYYY-MM-DD, defaults to today)")
	flags.StringVar(&notes, "notes", "", "Free-text notes")
	flags.StringArrayVar(&actionItems, "action-item", nil, "Follow-up action item (repeatable)")
	return cmd
}

func newInteractionsUpdateCmd(a *app) *cobra.Command {
	var (
		kind, title, date, notes string
		actionItems              []string
	)
	cmd := &cobra.Command{
		Use:   "update <interaction-id>",
		Short: "Edit an interaction; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
			flags := cmd.Flags()
			var patch models.InteractionPatch
			if flags.Changed("type") {
				t := models.InteractionType(strings.ToLower(kind))
				patch.Type = &t
			}
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("date") {
				d, err := models.ParseDate(date)
				if err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
				patch.Date = &d
			}
			if flags.Changed("notes") {
				patch.Notes = &notes
			}
			if flags.Changed("action-item") {
				patch.ActionItems = &actionItems
			}
			if patch.Empty() {
				return fmt.Errorf("nothing to update: pass at least one of --type, --title, --date, --notes or --action-item")
			}

			i, ok, err := s.Interactions.Update(args[0], patch)
			if err != nil {
				return fmt.Errorf("failed to update interaction: %w", err)
			}
			if !ok {
				return fmt.Errorf("interaction not found: %s", args[0])
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated %s: %s (ID: %s)\n", i.Type, i.Title, i.ID)
			return nil
		}),
	}

	flags := cmd.Flags()
	flags.StringVar(&kind, "type", "", "New type: meeting, call, email or note")
	flags.StringVar(&title, "title", "", "New title")
	flags.StringVar(&date, "date", "", "New date (YYYY-MM-DD)")
	flags.StringVar(&notes, "notes", "", "Replacement notes")
	flags.StringArrayVar(&actionItems, "action-item", nil, "Replacement action items (repeatable)")
	return cmd
}

func newInteractionsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <interaction-id>",
		Short: "Delete an interaction",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
			if !s.Interactions.Remove(args[0]) {
				return fmt.Errorf("interaction not found: %s", args[0])
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted interaction %s\n", args[0])
			return nil
		}),
	}
}

func newInteractionsSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <client-id>",
		Short: "Load the sample history for a built-in client with no interactions",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
			n, err := s.Interactions.SeedIfEmpty(args[0])
			if err != nil {
				return fmt.Errorf("failed to seed interactions: %w", err)
			}
			if n == 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Nothing to seed for %s\n", args[0])
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Seeded %d interaction(s) for %s\n", n, args[0])
			return nil
		}),
	}
}
