package ipc

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/logging"
)

const instrumentationName = "github.com/thoreinstein/folco/internal/ipc"

// Sentinel errors for router registration.
var (
	// ErrCommandExists is returned when registering a name twice.
	ErrCommandExists = errors.New("command already registered")

	// ErrInvalidCommand is returned for an empty name or nil command.
	ErrInvalidCommand = errors.New("invalid command")
)

// Command handles one invocation. args is the raw JSON argument object and
// may be empty.
type Command func(ctx context.Context, args json.RawMessage) (any, error)

// Request is one invocation.
type Request struct {
	ID   string          `json:"id,omitempty"`
	Cmd  string          `json:"cmd"`
	Args json.RawMessage `json:"args,omitempty"`
}

// Response is the outcome of a Request. Exactly one of Data and Error is set.
type Response struct {
	ID    string          `json:"id,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// OK reports whether the invocation succeeded.
func (r Response) OK() bool {
	return r.Error == ""
}

// UnknownCommandError is returned for names with no registered command.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return "unknown command: " + e.Name
}

// Is reports whether target is errors.ErrUnknownCommand.
func (e *UnknownCommandError) Is(target error) bool {
	return target == errors.ErrUnknownCommand
}

// Router dispatches requests to registered commands.
// It is safe for concurrent use.
type Router struct {
	mu       sync.RWMutex
	commands map[string]Command

	logger *slog.Logger
}

// NewRouter creates an empty router. A nil logger uses slog.Default().
func NewRouter(logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		commands: make(map[string]Command),
		logger:   logger.With("component", "ipc"),
	}
}

// Register adds a command under name.
func (r *Router) Register(name string, cmd Command) error {
	if name == "" || cmd == nil {
		return ErrInvalidCommand
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[name]; exists {
		return errors.Wrapf(ErrCommandExists, "registering %q", name)
	}
	r.commands[name] = cmd
	return nil
}

// Has reports whether name is registered.
func (r *Router) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.commands[name]
	return ok
}

// Commands returns the registered names, sorted.
func (r *Router) Commands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Invoke runs the command named by req and flattens its outcome into a
// Response. It never returns a Go error.
func (r *Router) Invoke(ctx context.Context, req Request) Response {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "ipc.invoke "+req.Cmd,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("ipc.command", req.Cmd)),
	)
	defer span.End()
	if req.ID != "" {
		span.SetAttributes(attribute.String("ipc.request_id", req.ID))
	}

	log := logging.FromContextOr(ctx, r.logger)
	start := time.Now()

	data, err := r.call(ctx, req)
	resp := Response{ID: req.ID}
	if err == nil {
		resp.Data, err = json.Marshal(data)
		if err != nil {
			err = errors.Wrap(err, "encoding result")
		}
	}
	if err != nil {
		resp.Data = nil
		resp.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, resp.Error)
		log.Debug("command failed", "cmd", req.Cmd, "id", req.ID, "duration", time.Since(start), "error", resp.Error)
		return resp
	}

	span.SetStatus(codes.Ok, "")
	log.Debug("command completed", "cmd", req.Cmd, "id", req.ID, "duration", time.Since(start), "bytes", len(resp.Data))
	return resp
}

func (r *Router) call(ctx context.Context, req Request) (data any, err error) {
	r.mu.RLock()
	cmd, ok := r.commands[req.Cmd]
	r.mu.RUnlock()
	if !ok {
		return nil, &UnknownCommandError{Name: req.Cmd}
	}

	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("command panicked", "cmd", req.Cmd, "panic", p)
			data, err = nil, errors.Newf("command %s panicked: %v", req.Cmd, p)
		}
	}()
	return cmd(ctx, req.Args)
}
