package schema

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/keboola/ai-kit/cmd/aikit/commands/flags"
	"github.com/keboola/ai-kit/internal/errors"
	"github.com/keboola/ai-kit/internal/logging"
	"github.com/keboola/ai-kit/internal/schema"
)

var (
	servePort int
	serveHost string
)

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0,
		"port to listen on (default: schema.port, 8000)")
	serveCmd.Flags().StringVar(&serveHost, "host", "localhost",
		"interface to listen on")
	Cmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [path]",
	Short: "Serve the schema tester",
	Long: `Start a local web page that renders the component's configuration
schemas as forms and shows the parameters they produce.

[path] may be the component_config/ folder, the component root, or any
directory inside the component. Without it, aikit searches upward from the
working directory. Both configSchema.json and configRowSchema.json must
exist.

The page can also run sync actions: the generated parameters and the action
name are written to data/config.json and src/component.py is started with
KBC_DATADIR pointing at data/. Its JSON output is shown in the page.

Press Ctrl+C to stop the server.`,
	Example: `  # Component in the working directory
  aikit schema serve

  # Another component, on a different port
  aikit schema serve ../my-extractor --port 8080

  See Also:
    aikit config show - Shows schema.python and schema.sync_timeout`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServeWithWriter(cmd.Context(), cmd.OutOrStdout(), args, cmd.Flags().Changed("port"))
	},
}

func runServeWithWriter(ctx context.Context, w io.Writer, args []string, portSet bool) error {
	cfg := flags.Config().Schema

	port := cfg.Port
	if portSet {
		if servePort < 0 || servePort > 65535 {
			return errors.NewUserError(errors.Newf("invalid port %d", servePort), "Use a port between 1 and 65535")
		}
		port = servePort
	}

	var path string
	if len(args) > 0 {
		path = args[0]
	}
	cwd, err := os.Getwd()
	if err != nil {
		return errors.NewSystemError(errors.Wrap(err, "getting working directory"), "")
	}
	project, err := schema.Discover(path, cwd)
	if err != nil {
		return errors.NewUserError(err,
			"Run inside a component directory or pass the path of its component_config/ folder")
	}

	addr := net.JoinHostPort(serveHost, strconv.Itoa(port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.NewUserError(errors.Wrapf(err, "listening on %s", addr), "Pick another port with --port")
	}

	server := schema.NewServer(project, schema.Options{
		Addr:        addr,
		Python:      cfg.Python,
		SyncTimeout: cfg.SyncTimeout,
		Logger:      logging.FromContext(ctx),
	})

	fmt.Fprintf(w, "Schema tester for %s\n", project.ConfigDir)
	fmt.Fprintf(w, "Open %s\n", color.New(color.FgCyan, color.Bold).Sprintf("http://%s/", ln.Addr()))
	fmt.Fprintln(w, "Press Ctrl+C to stop.")

	return server.Serve(ctx, ln)
}
