package ipc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/icon"
	"github.com/thoreinstein/folco/internal/logging"
)

// fakeSource returns a fixed payload or error.
type fakeSource struct {
	payload *icon.SerializableBase
	err     error
	calls   int
}

func (f *fakeSource) ExtractIconBase() (*icon.SerializableBase, error) {
	f.calls++
	return f.payload, f.err
}

func samplePayload() *icon.SerializableBase {
	return &icon.SerializableBase{Images: []icon.SerializableImage{
		{Width: 32, Height: 32, Scale: 2, Format: icon.FormatPNG, Data: []byte{0x89, 'P', 'N', 'G'}},
	}}
}

func TestGetFolderIconBase_Success(t *testing.T) {
	src := &fakeSource{payload: samplePayload()}
	r := NewRouter(logging.ForTest(t))
	require.NoError(t, r.Register(CommandGetFolderIconBase, GetFolderIconBase(src)))

	resp := r.Invoke(t.Context(), Request{Cmd: CommandGetFolderIconBase})
	require.True(t, resp.OK(), resp.Error)
	assert.Equal(t, 1, src.calls)

	var got icon.SerializableBase
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	require.Len(t, got.Images, 1)
	assert.Equal(t, 16, got.Images[0].LogicalSize())
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, got.Images[0].Data)
}

func TestGetFolderIconBase_ErrorVerbatim(t *testing.T) {
	cause := &icon.EncodeError{Format: icon.FormatPNG, Image: 0, Err: errors.New("unsupported pixel format")}
	src := &fakeSource{err: cause}
	r := NewRouter(logging.ForTest(t))
	require.NoError(t, r.Register(CommandGetFolderIconBase, GetFolderIconBase(src)))

	resp := r.Invoke(t.Context(), Request{Cmd: CommandGetFolderIconBase})
	assert.Equal(t, "Failed to encode icon as PNG: unsupported pixel format", resp.Error)
	assert.Nil(t, resp.Data)
}

func TestGetFolderIconBase_IgnoresArgs(t *testing.T) {
	src := &fakeSource{payload: samplePayload()}
	cmd := GetFolderIconBase(src)

	got, err := cmd(t.Context(), json.RawMessage(`{"unexpected":true}`))
	require.NoError(t, err)
	assert.Same(t, src.payload, got)
}

func TestDecodeIconBase(t *testing.T) {
	data, err := json.Marshal(samplePayload())
	require.NoError(t, err)

	got, err := DecodeIconBase(Response{Data: data})
	require.NoError(t, err)
	assert.Equal(t, samplePayload(), got)

	_, err = DecodeIconBase(Response{Error: "poisoned lock: another task failed inside"})
	require.Error(t, err)
	assert.Equal(t, "poisoned lock: another task failed inside", err.Error())

	_, err = DecodeIconBase(Response{Data: json.RawMessage(`[1,2]`)})
	assert.Error(t, err)
}
