package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// PublicPrefix is the URL path local avatars are served under.
const PublicPrefix = "/img/"

type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create avatar dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(ctx context.Context, filename string, body io.Reader, size int64) (string, error) {
	name, _, reader, err := objectName(filename, body)
	if err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create avatar file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write avatar file: %w", err)
	}

	log.Debug().Str("file", name).Int64("size", size).Msg("Avatar saved locally")
	return PublicPrefix + name, nil
}

func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	name := filepath.Base(strings.TrimPrefix(ref, PublicPrefix))
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove avatar file: %w", err)
	}
	return nil
}
