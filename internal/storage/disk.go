package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/captiveportal/portal-cms/pkg/logger"
)

// DiskStore keeps assets under a root directory, one subdirectory per folder.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: root}
}

func (d *DiskStore) Root() string { return d.root }

func (d *DiskStore) Put(ctx context.Context, folder, name string, r io.Reader, size int64, contentType string) (string, error) {
	folder, err := CleanFolder(folder)
	if err != nil {
		return "", err
	}
	if name, err = CleanName(name); err != nil {
		return "", err
	}
	dir := filepath.Join(d.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create asset dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+name+".*.part")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("write asset: %w", err)
	}
	_ = os.Chmod(tmpName, 0o644)
	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("store asset: %w", err)
	}
	logger.Infof("stored asset %s/%s (%d bytes)", folder, name, n)
	return PublicURL(folder, name), nil
}

func (d *DiskStore) Open(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	key, err := CleanKey(key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	p := filepath.Join(d.root, filepath.FromSlash(key))
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ObjectInfo{}, ErrNotFound
		}
		return nil, ObjectInfo{}, err
	}
	st, err := f.Stat()
	if err != nil || st.IsDir() {
		f.Close()
		return nil, ObjectInfo{}, ErrNotFound
	}
	return f, ObjectInfo{Size: st.Size(), ContentType: mime.TypeByExtension(filepath.Ext(p)), ModTime: st.ModTime()}, nil
}
