package attachments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// LocalStore keeps files on an afero filesystem. Every key is addressed
// from the filesystem root, so a BasePathFs confines it to the upload dir.
type LocalStore struct {
	fs afero.Fs
}

func NewLocalStore(fsys afero.Fs) *LocalStore {
	return &LocalStore{fs: fsys}
}

// NewOSStore roots a LocalStore at dir, creating it if needed.
func NewOSStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return NewLocalStore(afero.NewBasePathFs(afero.NewOsFs(), dir)), nil
}

// NewMemoryStore keeps files in process memory. Contents are lost on exit.
func NewMemoryStore() *LocalStore {
	return NewLocalStore(afero.NewMemMapFs())
}

func (s *LocalStore) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := "/" + key
	if err := s.fs.MkdirAll(path.Dir(name), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	f, err := s.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", key, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(name)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		_ = s.fs.Remove(name)
		return fmt.Errorf("failed to flush %s: %w", key, err)
	}
	return nil
}

func (s *LocalStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := s.fs.Open("/" + key)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", key, err)
	}
	info, err := f.Stat()
	if err == nil && info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("%s is a directory: %w", key, fs.ErrNotExist)
	}
	return f, nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := "/" + key
	info, err := s.fs.Stat(name)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", key, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory: %w", key, fs.ErrNotExist)
	}
	if err := s.fs.Remove(name); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// List returns every stored file key in lexical order.
func (s *LocalStore) List(ctx context.Context) ([]string, error) {
	var keys []string
	err := afero.Walk(s.fs, "/", func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		keys = append(keys, strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(p, `\`, "/")), "/"))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}
