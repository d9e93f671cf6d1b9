package services

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var ErrFileNotFound = errors.New("file not found")

// maxNameAttempts bounds the search for a free "{unix}_{name}" slot.
const maxNameAttempts = 100

// FileVault copies uploaded bytes into a flat directory. Stored names are
// "{unix-timestamp}_{original-name}". There is no quota, dedup or encryption.
type FileVault struct {
	dir string
	now func() time.Time
}

func NewFileVault(dir string) (*FileVault, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileVault{dir: dir, now: time.Now}, nil
}

// Store writes content and returns the stored file name. A clash with an
// existing file moves the timestamp forward until a free name is found.
func (v *FileVault) Store(username string, content io.Reader, originalName string) (string, error) {
	base := cleanFileName(originalName)
	ts := v.now().Unix()

	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name := fmt.Sprintf("%d_%s", ts+int64(attempt), base)
		path := filepath.Join(v.dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create stored file: %w", err)
		}

		if _, err := io.Copy(f, content); err != nil {
			f.Close()
			os.Remove(path)
			return "", fmt.Errorf("write stored file: %w", err)
		}
		if err := f.Close(); err != nil {
			os.Remove(path)
			return "", fmt.Errorf("close stored file: %w", err)
		}

		slog.Info("file stored", "username", username, "file", name)
		return name, nil
	}
	return "", fmt.Errorf("no free file name for %q", base)
}

// Retrieve returns the whole file or ErrFileNotFound.
func (v *FileVault) Retrieve(storedName string) ([]byte, error) {
	if !validStoredName(storedName) {
		return nil, ErrFileNotFound
	}
	data, err := os.ReadFile(filepath.Join(v.dir, storedName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read stored file: %w", err)
	}
	return data, nil
}

func cleanFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" || name == ".." {
		return "upload"
	}
	return name
}

func validStoredName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
