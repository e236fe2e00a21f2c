package util

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/edsrzf/mmap-go"
)

// FileSystem is the read-only view of the disk used by the resolver and the
// tree builder. Tests substitute an in-memory implementation.
type FileSystem interface {
	// Exists reports whether path names an existing entry (file or directory).
	Exists(path string) bool

	// ReadFile returns the full contents of path.
	ReadFile(path string) ([]byte, error)
}

// OSFileSystem reads files through a memory mapping, copying the mapped
// bytes out before unmapping so callers own the returned slice.
//
// Nothing is cached: every ReadFile observes the current file contents,
// which a watcher relies on when it re-reads a file after a change.
type OSFileSystem struct {
	logger *slog.Logger

	mmapFailures atomic.Int64
}

// NewOSFileSystem returns a FileSystem backed by the operating system.
// A nil logger uses slog.Default().
func NewOSFileSystem(logger *slog.Logger) *OSFileSystem {
	if logger == nil {
		logger = slog.Default()
	}
	return &OSFileSystem{logger: logger}
}

func (o *OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadFile maps the file read-only and falls back to os.ReadFile when the
// mapping fails.
func (o *OSFileSystem) ReadFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file %q: %w", path, err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("failed to read %q: %w", path, ErrIsDirectory)
	}

	// mmap cannot map zero bytes
	if stat.Size() == 0 {
		return []byte{}, nil
	}

	mapped, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		o.mmapFailures.Add(1)
		o.logger.Warn("mmap failed, using fallback",
			"file", path,
			"size", stat.Size(),
			"error", err)

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("mmap failed and fallback failed for %q: mmap error: %v, read error: %w",
				path, err, readErr)
		}
		return data, nil
	}

	data := make([]byte, len(mapped))
	copy(data, mapped)

	if err := mapped.Unmap(); err != nil {
		o.logger.Warn("failed to unmap file", "file", path, "error", err)
	}

	return data, nil
}

// MmapFailures returns how many reads used the os.ReadFile fallback.
func (o *OSFileSystem) MmapFailures() int64 {
	return o.mmapFailures.Load()
}

// ErrIsDirectory is returned when ReadFile is given a directory.
var ErrIsDirectory = errors.New("is a directory")

// MapFileSystem is an in-memory FileSystem keyed by absolute path.
// Directories exist implicitly for every parent of a stored file.
type MapFileSystem map[string]string

func (m MapFileSystem) Exists(path string) bool {
	if _, ok := m[path]; ok {
		return true
	}
	prefix := strings.TrimSuffix(path, "/") + "/"
	for name := range m {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func (m MapFileSystem) ReadFile(path string) ([]byte, error) {
	content, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("failed to open file %q: %w", path, fs.ErrNotExist)
	}
	return []byte(content), nil
}
