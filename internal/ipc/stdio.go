package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/thoreinstein/folco/internal/errors"
)

// maxLineBytes caps a single stdio request line.
const maxLineBytes = 4 << 20

// ServeStdio reads one JSON Request per line from in and writes one JSON
// Response per line to out. Requests run concurrently; responses are
// written whole, in completion order. It returns after in reaches EOF and
// every in-flight request has been answered, or when ctx is cancelled
// between lines.
func ServeStdio(ctx context.Context, router *Router, in io.Reader, out io.Writer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "stdio")

	var mu sync.Mutex
	enc := json.NewEncoder(out)
	write := func(resp Response) error {
		mu.Lock()
		defer mu.Unlock()
		return errors.Wrap(enc.Encode(resp), "writing response")
	}

	var g errgroup.Group
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			break
		}
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			logger.Warn("invalid request line", "error", err)
			if werr := write(Response{Error: "invalid request: " + err.Error()}); werr != nil {
				return werr
			}
			continue
		}

		g.Go(func() error {
			return write(router.Invoke(ctx, req))
		})
	}

	werr := g.Wait()
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "reading requests")
	}
	if werr != nil {
		return werr
	}
	return ctx.Err()
}
