package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/domain"
	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/export"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format    string
		out       string
		sessionID string
	)

	cmd := &cobra.Command{
		Use:   "export --out <path> [--format markdown|sqlite] [--session id]",
		Short: "Export sessions to Markdown or a SQLite snapshot",
		Long: `Export sessions from a running server. The snapshot is for offline reading;
the server never loads it back.

Examples:
  chat-api export --out chats.md
  chat-api export --format sqlite --out chats.db
  chat-api export --session session-1 --out session-1.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return errors.New("--out is required")
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			ctx, cancel := opts.requestContext(cmd)
			defer cancel()

			details, err := export.Collect(ctx, opts.client(), domain.SessionID(sessionID))
			if err != nil {
				return err
			}
			if err := export.Write(ctx, f, out, details); err != nil {
				return err
			}
			printf(cmd, "Exported %d session(s) to %s\n", len(details), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatMarkdown), "markdown or sqlite")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "export only this session")
	return cmd
}
