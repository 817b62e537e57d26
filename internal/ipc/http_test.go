package ipc

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/logging"
)

func newTestEngine(t *testing.T, src IconSource) http.Handler {
	t.Helper()
	r := NewRouter(logging.ForTest(t))
	require.NoError(t, r.Register(CommandGetFolderIconBase, GetFolderIconBase(src)))
	require.NoError(t, r.Register("panic_handler", func(context.Context, json.RawMessage) (any, error) {
		panic("handler bug")
	}))
	return NewHTTPHandler(r, HTTPConfig{
		Logger: logging.ForTest(t),
		Health: func() any { return map[string]int{"calls": 7} },
	})
}

func do(t *testing.T, h http.Handler, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHTTP_InvokeSuccess(t *testing.T) {
	h := newTestEngine(t, &fakeSource{payload: samplePayload()})

	rec := do(t, h, http.MethodPost, "/invoke/get_folder_icon_base", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK())
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, resp.ID, rec.Header().Get(RequestIDHeader))
	assert.Contains(t, string(resp.Data), `"images"`)
}

func TestHTTP_InvokeCommandError(t *testing.T) {
	h := newTestEngine(t, &fakeSource{err: errors.New("poisoned lock: another task failed inside")})

	rec := do(t, h, http.MethodPost, "/invoke/get_folder_icon_base", "{}", http.Header{
		RequestIDHeader: []string{"req-42"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "req-42", resp.ID)
	assert.Equal(t, "poisoned lock: another task failed inside", resp.Error)
	assert.Nil(t, resp.Data)
}

func TestRequestIDMiddleware(t *testing.T) {
	h := newTestEngine(t, &fakeSource{payload: samplePayload()})

	rec := do(t, h, http.MethodGet, "/commands", "", http.Header{
		RequestIDHeader: []string{"caller-7"},
	})
	assert.Equal(t, "caller-7", rec.Header().Get(RequestIDHeader))

	rec = do(t, h, http.MethodGet, "/commands", "", nil)
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err, "a missing request id should be replaced by a uuid")
}

func TestHTTP_UnknownCommand(t *testing.T) {
	h := newTestEngine(t, &fakeSource{})

	rec := do(t, h, http.MethodPost, "/invoke/does_not_exist", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown command: does_not_exist")
}

func TestHTTP_CommandPanicIsFlattened(t *testing.T) {
	h := newTestEngine(t, &fakeSource{})

	rec := do(t, h, http.MethodPost, "/invoke/panic_handler", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "command panic_handler panicked: handler bug")
}

func TestHTTP_BodyTooLarge(t *testing.T) {
	h := newTestEngine(t, &fakeSource{})

	rec := do(t, h, http.MethodPost, "/invoke/get_folder_icon_base", strings.Repeat("x", maxArgsBytes+1), nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHTTP_CommandsAndHealth(t *testing.T) {
	h := newTestEngine(t, &fakeSource{})

	rec := do(t, h, http.MethodGet, "/commands", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"commands":["get_folder_icon_base","panic_handler"]}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","state":{"calls":7}}`, rec.Body.String())
}

func TestRecoveryMiddleware(t *testing.T) {
	r := NewRouter(logging.ForTest(t))
	engine := NewHTTPHandler(r, HTTPConfig{
		Logger: logging.ForTest(t),
		Health: func() any { panic("health exploded") },
	})

	rec := do(t, engine, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestServer_Serve(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	h := newTestEngine(t, &fakeSource{payload: samplePayload()})
	srv := NewServer(ln.Addr().String(), h, logging.ForTest(t))

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(DefaultShutdownTimeout + time.Second):
		t.Fatal("Serve() did not return after cancellation")
	}
}
