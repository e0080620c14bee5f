package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/domain"
	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/render"
)

func newAskCmd(opts *rootOptions) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "ask [--session id] <question>",
		Short: "Ask a question and print the assistant reply",
		Long: `Ask a question. Without --session a new chat is started first and its id is
printed so follow-up questions can reuse it.

Examples:
  chat-api ask "Show me sales data"
  chat-api ask --session session-1a2b3c4d "What is the profit margin?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.requestContext(cmd)
			defer cancel()

			c := opts.client()
			id := domain.SessionID(sessionID)
			if id == "" {
				started, err := c.StartChat(ctx)
				if err != nil {
					return fmt.Errorf("start chat: %w", err)
				}
				id = started.SessionID
				printf(cmd, "Started %s\n\n", id)
			}

			reply, err := c.SendMessage(ctx, id, strings.Join(args, " "))
			if err != nil {
				return err
			}
			printf(cmd, "%s", opts.renderer().Message(reply))
			return nil
		},
	}
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "existing session id")
	return cmd
}

func newFeedbackCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "feedback <session-id> <message-id> <like|dislike>",
		Short: "Rate a message",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			messageID, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("message id must be a number: %w", err)
			}

			ctx, cancel := opts.requestContext(cmd)
			defer cancel()

			msg, err := opts.client().UpdateFeedback(ctx,
				domain.SessionID(args[0]), domain.MessageID(messageID), domain.Feedback(args[2]))
			if err != nil {
				return err
			}
			printf(cmd, "Message %d marked %s\n", msg.ID, msg.Feedback)
			return nil
		},
	}
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show store statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.requestContext(cmd)
			defer cancel()

			stats, err := opts.client().Statistics(ctx)
			if err != nil {
				return err
			}
			printf(cmd, "%s", render.Statistics(stats))
			return nil
		},
	}
}
