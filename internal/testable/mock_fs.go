package testable

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// MockFileSystem is a test double for FileSystem. Each method has a
// corresponding function field. When the field is non-nil, the mock calls it.
// Otherwise a path present in Files is served from memory, and anything else
// falls through to OsFileSystem.
//
// Writes through Create land in Files once the writer is closed.
type MockFileSystem struct {
	AbsFn      func(path string) (string, error)
	StatFn     func(name string) (os.FileInfo, error)
	ReadFileFn func(name string) ([]byte, error)
	OpenFn     func(name string) (io.ReadCloser, error)
	CreateFn   func(name string) (io.WriteCloser, error)

	mu    sync.Mutex
	Files map[string][]byte
}

var real OsFileSystem

// Abs calls AbsFn if set, otherwise delegates to OsFileSystem.
func (m *MockFileSystem) Abs(path string) (string, error) {
	if m.AbsFn != nil {
		return m.AbsFn(path)
	}
	return real.Abs(path)
}

// Stat calls StatFn if set, then consults Files, then the OS.
func (m *MockFileSystem) Stat(name string) (os.FileInfo, error) {
	if m.StatFn != nil {
		return m.StatFn(name)
	}
	if data, ok := m.lookup(name); ok {
		return memInfo{name: filepath.Base(name), size: int64(len(data))}, nil
	}
	if m.Files != nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return real.Stat(name)
}

// ReadFile calls ReadFileFn if set, then consults Files, then the OS.
func (m *MockFileSystem) ReadFile(name string) ([]byte, error) {
	if m.ReadFileFn != nil {
		return m.ReadFileFn(name)
	}
	if data, ok := m.lookup(name); ok {
		return bytes.Clone(data), nil
	}
	if m.Files != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return real.ReadFile(name)
}

// Open calls OpenFn if set, then consults Files, then the OS.
func (m *MockFileSystem) Open(name string) (io.ReadCloser, error) {
	if m.OpenFn != nil {
		return m.OpenFn(name)
	}
	if data, ok := m.lookup(name); ok {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	if m.Files != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return real.Open(name)
}

// Create calls CreateFn if set. Otherwise it records the written bytes in
// Files under name.
func (m *MockFileSystem) Create(name string) (io.WriteCloser, error) {
	if m.CreateFn != nil {
		return m.CreateFn(name)
	}
	return &memWriter{fs: m, name: filepath.Clean(name)}, nil
}

func (m *MockFileSystem) lookup(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Files[filepath.Clean(name)]
	return data, ok
}

type memWriter struct {
	bytes.Buffer
	fs   *MockFileSystem
	name string
}

func (w *memWriter) Close() error {
	w.fs.mu.Lock()
	defer w.fs.mu.Unlock()
	if w.fs.Files == nil {
		w.fs.Files = make(map[string][]byte)
	}
	w.fs.Files[w.name] = bytes.Clone(w.Bytes())
	return nil
}

type memInfo struct {
	name string
	size int64
}

func (i memInfo) Name() string       { return i.name }
func (i memInfo) Size() int64        { return i.size }
func (i memInfo) Mode() os.FileMode  { return 0o644 }
func (i memInfo) ModTime() time.Time { return time.Time{} }
func (i memInfo) IsDir() bool        { return false }
func (i memInfo) Sys() any           { return nil }
