package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/99minutos/todo-render/internal/core/domain"
)

// File keeps credentials in a JSON file readable only by the current user.
type File struct {
	path string
}

// NewFile returns a store backed by path. The parent directory is created on
// the first Set.
func NewFile(path string) *File {
	return &File{path: path}
}

// DefaultFilePath is ~/.config/todo-render/credentials.json, or the
// platform equivalent.
func DefaultFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "todo-render", "credentials.json"), nil
}

func (f *File) Get(_ context.Context) (domain.Credentials, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Credentials{}, domain.ErrNoToken
	}
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("read credentials: %w", err)
	}

	var creds domain.Credentials
	if err := json.Unmarshal(b, &creds); err != nil {
		return domain.Credentials{}, fmt.Errorf("decode credentials: %w", err)
	}
	if creds.AccessToken == "" {
		return domain.Credentials{}, domain.ErrNoToken
	}
	return creds, nil
}

func (f *File) Set(_ context.Context, creds domain.Credentials) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	return os.WriteFile(f.path, data, 0o600)
}

func (f *File) Clear(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}
