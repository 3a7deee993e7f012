package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"regexp"
	"strings"
	"time"
)

// DefaultFolder is used when an upload names no folder.
const DefaultFolder = "uploads"

// URLPrefix is the public path under which stored assets are served.
const URLPrefix = "/assets"

var (
	ErrTooLarge      = errors.New("upload exceeds size limit")
	ErrInvalidFolder = errors.New("invalid upload folder")
	ErrInvalidName   = errors.New("invalid file name")
	ErrNotFound      = errors.New("asset not found")
)

// ObjectInfo describes a stored asset.
type ObjectInfo struct {
	Size        int64
	ContentType string
	ModTime     time.Time
}

// BlobStore keeps uploaded media addressed by folder and file name.
type BlobStore interface {
	// Put stores r as folder/name, replacing any previous object, and
	// returns the public URL.
	Put(ctx context.Context, folder, name string, r io.Reader, size int64, contentType string) (string, error)
	// Open returns the object stored under key ("folder/name").
	Open(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
}

var folderRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// CleanFolder validates a folder hint. Empty selects DefaultFolder.
func CleanFolder(folder string) (string, error) {
	folder = strings.TrimSpace(folder)
	if folder == "" {
		return DefaultFolder, nil
	}
	if !folderRe.MatchString(folder) {
		return "", ErrInvalidFolder
	}
	return folder, nil
}

// CleanName reduces a client-supplied file name to its base name.
func CleanName(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == ".." || name == "" || strings.HasPrefix(name, ".") {
		return "", ErrInvalidName
	}
	return name, nil
}

// CleanKey validates a "folder/name" object key taken from a request path.
func CleanKey(key string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	folder, name, ok := strings.Cut(key, "/")
	if !ok {
		return "", ErrNotFound
	}
	if _, err := CleanFolder(folder); err != nil || folder == "" {
		return "", ErrNotFound
	}
	n, err := CleanName(name)
	if err != nil || n != name {
		return "", ErrNotFound
	}
	return folder + "/" + name, nil
}

// PublicURL is the URL an asset stored as folder/name is served under.
func PublicURL(folder, name string) string {
	return URLPrefix + "/" + folder + "/" + name
}
