// Package storage saves uploaded images and generated PDFs and hands back the
// public path they are served under.
package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FileStore persists a file under name and returns its public relative path.
type FileStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// LocalStore writes files to a directory that is served under Prefix.
type LocalStore struct {
	Dir    string
	Prefix string
}

// NewLocalStore returns a LocalStore for dir, served under prefix (e.g. "/uploads").
func NewLocalStore(dir, prefix string) *LocalStore {
	return &LocalStore{Dir: dir, Prefix: strings.TrimRight(prefix, "/")}
}

func (l *LocalStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validName(name); err != nil {
		return "", err
	}
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", l.Dir, err)
	}
	if err := os.WriteFile(filepath.Join(l.Dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return l.Prefix + "/" + name, nil
}

// MemoryStore keeps files in memory. Handy for tests.
type MemoryStore struct {
	Prefix string

	mu    sync.Mutex
	files map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore served under prefix.
func NewMemoryStore(prefix string) *MemoryStore {
	return &MemoryStore{Prefix: strings.TrimRight(prefix, "/"), files: map[string][]byte{}}
}

func (m *MemoryStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validName(name); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = append([]byte(nil), data...)
	return m.Prefix + "/" + name, nil
}

// Get returns a saved file by name.
func (m *MemoryStore) Get(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	return data, ok
}

// Names lists every saved file name.
func (m *MemoryStore) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	return names
}

func validName(name string) error {
	if name == "" || name != path.Base(name) || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid file name %q", name)
	}
	return nil
}

// UploadName builds a collision-resistant name for an uploaded file:
// "<unix-millis>-<random>-<original base name>".
func UploadName(original string, now time.Time) string {
	base := sanitize(filepath.Base(strings.ReplaceAll(original, `\`, "/")))
	if base == "" || base == "." || base == "/" {
		base = "upload"
	}
	return fmt.Sprintf("%d-%s-%s", now.UnixMilli(), shortID(), base)
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, name)
}
