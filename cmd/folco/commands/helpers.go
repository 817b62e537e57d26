package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/folco/internal/app"
	"github.com/thoreinstein/folco/internal/config"
	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/icon"
	"github.com/thoreinstein/folco/internal/ipc"
	"github.com/thoreinstein/folco/internal/logging"
)

// commandLogger returns the logger installed by setupLogging.
func commandLogger(cmd *cobra.Command) *slog.Logger {
	ctx := cmd.Context()
	if ctx == nil {
		return slog.Default()
	}
	return logging.FromContext(ctx)
}

// newApp builds the application from cfg. Failing to construct the icon
// state is a system error: nothing can be served without it.
func newApp(cfg *config.Config, logger *slog.Logger) (*app.App, error) {
	a, err := app.New(cfg, logger)
	if err != nil {
		if errors.Is(err, errors.ErrInvalidConfig) {
			return nil, errors.NewConfigError(err)
		}
		return nil, errors.NewSystemError(err, "Run: folco doctor")
	}
	return a, nil
}

// fetchIconBase performs one get_folder_icon_base invocation through the
// router, exactly as a front end would.
func fetchIconBase(ctx context.Context, a *app.App) (ipc.Response, *icon.SerializableBase, error) {
	resp := a.Router().Invoke(ctx, ipc.Request{Cmd: ipc.CommandGetFolderIconBase})
	if !resp.OK() {
		return resp, nil, errors.NewSystemError(errors.New(resp.Error), "Run: folco doctor")
	}

	payload, err := ipc.DecodeIconBase(resp)
	if err != nil {
		return resp, nil, err
	}
	return resp, payload, nil
}
