package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/app/sessions"
	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/domain"
	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/render"
)

func newSessionsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List, show, rename or delete sessions",
	}
	cmd.AddCommand(
		newSessionsListCmd(opts),
		newSessionsShowCmd(opts),
		newSessionsDeleteCmd(opts),
		newSessionsRenameCmd(opts),
	)
	return cmd
}

func newSessionsListCmd(opts *rootOptions) *cobra.Command {
	var (
		page   int
		limit  int
		sortBy string
		order  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		Long: `List sessions one page at a time.

Examples:
  chat-api sessions list
  chat-api sessions list --sort title --order asc
  chat-api sessions list --page 2 --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.requestContext(cmd)
			defer cancel()

			// empty sort flags leave the server defaults in place
			params := sessions.ListParams{}.
				WithPage(page).
				WithLimit(limit).
				WithSort(sessions.SortField(sortBy), sessions.SortOrder(order))
			result, err := opts.client().ListSessions(ctx, params)
			if err != nil {
				return err
			}

			printf(cmd, "%s\n", render.Sessions(result.Sessions))
			p := result.Pagination
			printf(cmd, "Page %d of %d (%d sessions)\n", p.Page, p.TotalPages, p.Total)
			return nil
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().IntVarP(&limit, "limit", "n", sessions.DefaultLimit, "sessions per page (max 50)")
	cmd.Flags().StringVar(&sortBy, "sort", "", "title, createdAt, messageCount or lastActivity")
	cmd.Flags().StringVar(&order, "order", "", "asc or desc")
	return cmd
}

func newSessionsShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print a session transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.requestContext(cmd)
			defer cancel()

			detail, err := opts.client().GetSession(ctx, domain.SessionID(args[0]))
			if err != nil {
				return err
			}
			printf(cmd, "%s", opts.renderer().Transcript(detail))
			return nil
		},
	}
}

func newSessionsDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.requestContext(cmd)
			defer cancel()

			if err := opts.client().DeleteSession(ctx, domain.SessionID(args[0])); err != nil {
				return err
			}
			printf(cmd, "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newSessionsRenameCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <session-id> <title>",
		Short: "Set a session title",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.requestContext(cmd)
			defer cancel()

			summary, err := opts.client().RenameSession(ctx, domain.SessionID(args[0]), strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			printf(cmd, "Renamed %s to %q\n", summary.ID, summary.Title)
			return nil
		},
	}
}
