package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	buildinfo "github.com/thoreinstein/folco/cmd"
	"github.com/thoreinstein/folco/internal/app"
	"github.com/thoreinstein/folco/internal/config"
	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/ipc"
	"github.com/thoreinstein/folco/internal/telemetry"
)

// telemetryFlushTimeout bounds the final span export on shutdown.
const telemetryFlushTimeout = 5 * time.Second

var (
	serveAddr  string
	serveStdio bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		"HTTP listen address (default: server.addr)")
	serveCmd.Flags().BoolVar(&serveStdio, "stdio", false,
		"serve JSON lines on stdin/stdout instead of HTTP")
	serveCmd.MarkFlagsMutuallyExclusive("addr", "stdio")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the folder icon to front ends",
	Long: `Build the folder icon state and serve the get_folder_icon_base command
until interrupted.

The icon is loaded once at startup. If it cannot be loaded, folco exits
with status 2 without serving anything.

HTTP endpoints:
  POST /invoke/:command   invoke a command; the body is its JSON arguments
  GET  /commands          list registered commands
  GET  /health            guard statistics

With --stdio, each input line is a request {"id","cmd","args"} and each
output line is a response {"id","data"} or {"id","error"}. Requests are
handled concurrently; responses arrive in completion order.`,
	Example: `  # Serve on the configured address
  folco serve

  # Serve on another port
  folco serve --addr 127.0.0.1:9000

  # Embed in a host process
  echo '{"id":"1","cmd":"get_folder_icon_base"}' | folco serve --stdio

See Also: folco icon get, folco doctor`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	logger := commandLogger(cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:    config.AppName,
		ServiceVersion: buildinfo.Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Headers:        cfg.Telemetry.Headers,
	}, logger)
	if err != nil {
		return errors.NewSystemError(err, "check telemetry.endpoint or unset it")
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), telemetryFlushTimeout)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			logger.Warn("flushing telemetry", "error", err)
		}
	}()

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}

	if serveStdio {
		return serveStdioTransport(ctx, cmd, a)
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	handler := ipc.NewHTTPHandler(a.Router(), ipc.HTTPConfig{
		Logger: logger,
		Health: func() any { return a.State().Stats() },
	})
	return ipc.NewServer(addr, handler, logger).Run(ctx)
}

// serveStdioTransport runs the stdio loop until stdin reaches EOF. A
// signal ends the session without waiting for a blocked read.
func serveStdioTransport(ctx context.Context, cmd *cobra.Command, a *app.App) error {
	logger := commandLogger(cmd)

	done := make(chan error, 1)
	go func() {
		done <- ipc.ServeStdio(ctx, a.Router(), cmd.InOrStdin(), cmd.OutOrStdout(), logger)
	}()

	select {
	case err := <-done:
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("interrupted, closing stdio session")
		return nil
	}
}
