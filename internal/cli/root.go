// Package cli provides the command-line interface for the chat API: the server itself and
// client commands that talk to a running server.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/client"
	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/render"
)

// Version is set at build time.
var Version = "0.1.0"

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	server     string
	apiPrefix  string
	plain      bool
	timeout    time.Duration
}

func (o *rootOptions) client() *client.Client {
	return client.New(o.server, client.WithAPIPrefix(o.apiPrefix))
}

func (o *rootOptions) renderer() *render.Renderer {
	return render.New(!o.plain)
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "chat-api",
		Short: "Demo chat backend with canned analytics replies",
		Long: `chat-api runs an in-memory chat backend whose assistant answers business
questions (sales, profit, users, budgets, KPIs) with canned replies and mock tables.

Run "chat-api serve" to start the HTTP server; the other commands are clients
of a running server.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "YAML config file (serve only)")
	pf.StringVar(&opts.server, "server", client.DefaultBaseURL, "base URL of a running chat server")
	pf.StringVar(&opts.apiPrefix, "api-prefix", "/api", "route prefix of the chat server")
	pf.BoolVar(&opts.plain, "plain", false, "disable markdown rendering")
	pf.DurationVar(&opts.timeout, "timeout", 30*time.Second, "timeout for client requests")

	root.AddCommand(
		newServeCmd(opts),
		newAskCmd(opts),
		newFeedbackCmd(opts),
		newSessionsCmd(opts),
		newStatsCmd(opts),
		newExportCmd(opts),
	)
	return root
}

// Execute runs the CLI until completion or SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// requestContext bounds one client command by the --timeout flag.
func (o *rootOptions) requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if o.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.timeout)
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
