package token

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore はディレクトリ配下にキーごとのファイルとして値を保存するStore。
// CLIの永続スコープとして使う。ファイルは0600で作成する。
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore はdirを保存先とするFileStoreを生成する。ディレクトリは書き込み時に作成する。
func NewFileStore(dir string) *FileStore { return &FileStore{dir: dir} }

// Dir は保存先ディレクトリを返す。
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("token: invalid key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}

func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	p, err := s.path(key)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("token: read %s: %w", p, err)
	}
	return strings.TrimSpace(string(b)), nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("token: create %s: %w", s.dir, err)
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o600); err != nil {
		return fmt.Errorf("token: write %s: %w", tmp, err)
	}
	return os.Rename(tmp, p)
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("token: remove %s: %w", p, err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
