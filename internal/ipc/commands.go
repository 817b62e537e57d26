package ipc

import (
	"context"
	"encoding/json"

	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/icon"
)

// CommandGetFolderIconBase is the name front ends invoke to fetch the
// folder icon.
const CommandGetFolderIconBase = "get_folder_icon_base"

// IconSource produces the encoded folder icon. *state.State implements it.
type IconSource interface {
	ExtractIconBase() (*icon.SerializableBase, error)
}

// GetFolderIconBase returns the get_folder_icon_base command. It takes no
// arguments, delegates to src and passes its result through unchanged; the
// Router flattens any error to its message.
func GetFolderIconBase(src IconSource) Command {
	return func(context.Context, json.RawMessage) (any, error) {
		payload, err := src.ExtractIconBase()
		if err != nil {
			return nil, err
		}
		return payload, nil
	}
}

// DecodeIconBase decodes the data of a get_folder_icon_base response.
// A failed response is returned as an error carrying its message.
func DecodeIconBase(resp Response) (*icon.SerializableBase, error) {
	if !resp.OK() {
		return nil, errors.New(resp.Error)
	}
	var payload icon.SerializableBase
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, errors.Wrap(err, "decoding folder icon payload")
	}
	return &payload, nil
}
