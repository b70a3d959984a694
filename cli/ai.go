// ABOUTME: AI-backed CLI commands
// ABOUTME: Generates meeting prep briefings and CRM update suggestions for a client
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dexterfire861/ClarityWorks/ai"
	"github.com/dexterfire861/ClarityWorks/models"
	"github.com/dexterfire861/ClarityWorks/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPrepCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "prep <client-id>",
		Short: "Generate a meeting prep briefing for a client",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
			c, ok := s.Clients.Get(args[0])
			if !ok {
				return fmt.Errorf("client not found: %s", args[0])
			}

			prep, err := a.adapter().GenerateMeetingPrep(cmd.Context(), ai.MeetingPrepRequest{
				Client:       c,
				Interactions: a.history(s, c.ID),
			})
			if err != nil {
				return userError(err)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), prep)
			}
			printMeetingPrep(cmd, c, prep)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the briefing as JSON")
	return cmd
}

func printMeetingPrep(cmd *cobra.Command, c models.Client, p models.MeetingPrep) {
	out := cmd.OutOrStdout()
	heading(cmd, "Meeting prep: "+c.Name)

	section := func(title, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		_, _ = fmt.Fprintln(out)
		heading(cmd, title)
		_, _ = fmt.Fprintf(out, "  %s\n", body)
	}
	list := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		_, _ = fmt.Fprintln(out)
		heading(cmd, title)
		writeBullets(out, items)
	}

	section("Client snapshot", p.ClientSnapshot)
	section("Recent context", p.RecentContext)
	list("Key topics", p.KeyTopicsToDiscuss)
	list("Open action items", p.OpenActionItems)
	list("Questions to ask", p.QuestionsToAsk)
	section("Potential concerns", p.PotentialConcerns)
	section("Relationship notes", p.RelationshipNotes)
}

func writeBullets(w io.Writer, items []string) {
	for _, item := range items {
		_, _ = fmt.Fprintf(w, "  • %s\n", item)
	}
}

func newCRMUpdateCmd(a *app) *cobra.Command {
	var (
		notes, notesFile string
		save, asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "crm-update <client-id>",
		Short: "Suggest CRM field updates and tasks from meeting notes",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
			if notesFile != "" {
				text, err := readInput(cmd, []string{notesFile})
				if err != nil {
					return err
				}
				notes = text
			}
			if strings.TrimSpace(notes) == "" {
				return fmt.Errorf("--notes or --notes-file is required")
			}

			c, ok := s.Clients.Get(args[0])
			if !ok {
				return fmt.Errorf("client not found: %s", args[0])
			}

			update, err := a.crmGenerator().GenerateCRMUpdate(cmd.Context(), ai.CRMUpdateRequest{Client: c, Notes: notes})
			if err != nil {
				return userError(err)
			}

			if save {
				saved, err := s.Interactions.Create(models.InteractionFromCRMUpdate(c.ID, update))
				if err != nil {
					return fmt.Errorf("failed to save CRM update: %w", err)
				}
				a.logger.Debug("saved crm update", zap.String("client", c.ID), zap.String("interaction", saved.ID))
				defer func() {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Saved to history (ID: %s)\n", saved.ID)
				}()
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), update)
			}
			printCRMUpdate(cmd, c, update)
			return nil
		}),
	}

	flags := cmd.Flags()
	flags.StringVar(&notes, "notes", "", "Raw meeting notes")
	flags.StringVar(&notesFile, "notes-file", "", "Read meeting notes from a file ('-' for stdin)")
	flags.BoolVar(&save, "save", false, "Record the suggestions as a note in the client's history")
	flags.BoolVar(&asJSON, "json", false, "Print the suggestions as JSON")
	return cmd
}

func printCRMUpdate(cmd *cobra.Command, c models.Client, u models.CRMUpdate) {
	out := cmd.OutOrStdout()
	heading(cmd, "CRM update: "+c.Name)
	if u.AuditLog.Summary != "" {
		_, _ = fmt.Fprintf(out, "  %s\n", u.AuditLog.Summary)
	}

	_, _ = fmt.Fprintln(out)
	heading(cmd, "Field updates")
	if len(u.FieldUpdates) == 0 {
		_, _ = fmt.Fprintln(out, "  none")
	}
	for _, f := range u.FieldUpdates {
		_, _ = fmt.Fprintf(out, "  %s: %q -> %q (%.0f%%)\n", f.FieldName, f.CurrentValue, f.ProposedValue, f.Confidence*100)
		if f.SourceSnippet != "" {
			_, _ = fmt.Fprintf(out, "    %s\n", labelStyle.Render("“"+f.SourceSnippet+"”"))
		}
	}

	_, _ = fmt.Fprintln(out)
	heading(cmd, "Tasks")
	if len(u.Tasks) == 0 {
		_, _ = fmt.Fprintln(out, "  none")
	}
	for _, t := range u.Tasks {
		due := ""
		if t.DueDate != nil {
			due = " due " + t.DueDate.String()
		}
		_, _ = fmt.Fprintf(out, "  [%s] %s: %s%s\n", t.Priority, t.Owner, t.Description, due)
	}

	if len(u.AuditLog.Tags) > 0 {
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintf(out, "  %s %s\n", labelStyle.Render("Tags:"), strings.Join(u.AuditLog.Tags, ", "))
	}
}
