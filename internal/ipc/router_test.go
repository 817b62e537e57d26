package ipc

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/logging"
)

func echo(_ context.Context, args json.RawMessage) (any, error) {
	var v map[string]any
	if len(args) > 0 {
		if err := json.Unmarshal(args, &v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func TestRouter_Register(t *testing.T) {
	r := NewRouter(logging.ForTest(t))

	require.NoError(t, r.Register("echo", echo))
	assert.True(t, errors.Is(r.Register("echo", echo), ErrCommandExists))
	assert.True(t, errors.Is(r.Register("", echo), ErrInvalidCommand))
	assert.True(t, errors.Is(r.Register("nil", nil), ErrInvalidCommand))

	require.NoError(t, r.Register("alpha", echo))
	assert.Equal(t, []string{"alpha", "echo"}, r.Commands())
	assert.True(t, r.Has("alpha"))
	assert.False(t, r.Has("nil"))
}

func TestRouter_Invoke(t *testing.T) {
	r := NewRouter(logging.ForTest(t))
	require.NoError(t, r.Register("echo", echo))
	require.NoError(t, r.Register("fail", func(context.Context, json.RawMessage) (any, error) {
		return nil, errors.Wrap(errors.New("disk on fire"), "reading")
	}))
	require.NoError(t, r.Register("boom", func(context.Context, json.RawMessage) (any, error) {
		panic("kaboom")
	}))
	require.NoError(t, r.Register("nothing", func(context.Context, json.RawMessage) (any, error) {
		return nil, nil
	}))
	require.NoError(t, r.Register("unencodable", func(context.Context, json.RawMessage) (any, error) {
		return make(chan int), nil
	}))

	tests := []struct {
		name     string
		req      Request
		wantData string
		wantErr  string
	}{
		{name: "success", req: Request{ID: "1", Cmd: "echo", Args: json.RawMessage(`{"a":1}`)}, wantData: `{"a":1}`},
		{name: "error flattened", req: Request{ID: "2", Cmd: "fail"}, wantErr: "reading: disk on fire"},
		{name: "panic", req: Request{ID: "3", Cmd: "boom"}, wantErr: "command boom panicked: kaboom"},
		{name: "unknown", req: Request{ID: "4", Cmd: "nope"}, wantErr: "unknown command: nope"},
		{name: "nil result", req: Request{ID: "5", Cmd: "nothing"}, wantData: `null`},
		{name: "bad result", req: Request{ID: "6", Cmd: "unencodable"}, wantErr: "encoding result: json: unsupported type: chan int"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := r.Invoke(t.Context(), tt.req)
			assert.Equal(t, tt.req.ID, resp.ID)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, resp.Error)
				assert.Nil(t, resp.Data)
				assert.False(t, resp.OK())
				return
			}
			assert.Empty(t, resp.Error)
			assert.JSONEq(t, tt.wantData, string(resp.Data))
			assert.True(t, resp.OK())
		})
	}
}

func TestResponse_JSON(t *testing.T) {
	ok, err := json.Marshal(Response{ID: "a", Data: json.RawMessage(`null`)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a","data":null}`, string(ok))

	failed, err := json.Marshal(Response{Error: "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"x"}`, string(failed))
}

func TestUnknownCommandError_Is(t *testing.T) {
	err := &UnknownCommandError{Name: "x"}
	assert.True(t, errors.Is(err, errors.ErrUnknownCommand))
}

func TestRouter_ConcurrentInvoke(t *testing.T) {
	r := NewRouter(logging.NewDiscard())
	require.NoError(t, r.Register("echo", echo))

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := r.Invoke(context.Background(), Request{Cmd: "echo", Args: json.RawMessage(`{"k":"v"}`)})
			assert.True(t, resp.OK())
		}()
	}
	wg.Wait()
}

func TestRouter_InvokeSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	rec := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))

	r := NewRouter(logging.ForTest(t))
	require.NoError(t, r.Register("echo", echo))

	r.Invoke(t.Context(), Request{ID: "ok", Cmd: "echo"})
	r.Invoke(t.Context(), Request{ID: "bad", Cmd: "missing"})

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "ipc.invoke echo", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, "ipc.invoke missing", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "unknown command: missing", spans[1].Status().Description)
}
