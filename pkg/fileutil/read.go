package fileutil

import (
	"io"
	"os"

	"github.com/thoreinstein/folco/internal/errors"
)

// MaxFileSize is the default read limit (1MB), used for config files.
const MaxFileSize = 1024 * 1024

// MaxImageFileSize bounds icon files (.png, .ico, .icns). Retina icns
// containers reach a few megabytes.
const MaxImageFileSize = 32 * 1024 * 1024

// ErrFileTooLarge indicates that a file exceeded the read limit.
var ErrFileTooLarge = errors.New("file exceeds maximum size")

// ReadFileWithLimit reads a file up to MaxFileSize.
// It returns an error if the file is larger than the limit.
func ReadFileWithLimit(path string) ([]byte, error) {
	return ReadFileLimit(path, MaxFileSize)
}

// ReadFileLimit reads a file of at most limit bytes. Larger files yield
// an error matching ErrFileTooLarge.
func ReadFileLimit(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	// Fail fast when the size is already known to be too large.
	if info, err := f.Stat(); err == nil && info.Size() > limit {
		return nil, errors.Wrapf(ErrFileTooLarge, "%s is %d bytes (limit %d)", path, info.Size(), limit)
	}

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	if int64(len(data)) > limit {
		return nil, errors.Wrapf(ErrFileTooLarge, "%s exceeds %d bytes", path, limit)
	}

	return data, nil
}
