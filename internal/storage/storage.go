package storage

import (
	"blogapi/internal/config"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// ErrNotExist is returned when the named file is not in the store.
var ErrNotExist = errors.New("file does not exist")

// ErrInvalidName is returned for names that would escape the store's namespace.
var ErrInvalidName = errors.New("invalid file name")

// Storage keeps uploaded files in a flat namespace of generated names.
type Storage interface {
	Save(ctx context.Context, originalName string, file io.Reader, maxSize int64) (string, error)
	Delete(ctx context.Context, name string) error
	Open(ctx context.Context, name string) (*Object, error)
}

type Object struct {
	io.ReadCloser
	ContentType string
	Size        int64
}

type FileTooLargeError struct {
	Limit int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file is larger than %s", humanize.Bytes(uint64(e.Limit)))
}

// Generated names stay short enough for any filesystem and need no URL escaping.
const (
	maxStemLength = 64
	maxExtLength  = 16
)

// GenerateName keeps the original base name and extension around a random suffix.
func GenerateName(originalName string) string {
	base := filepath.Base(strings.ReplaceAll(originalName, "\\", "/"))
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	ext = "." + strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, strings.TrimPrefix(ext, "."))
	if len(ext) > maxExtLength {
		ext = ext[:maxExtLength]
	}
	if ext == "." {
		ext = ""
	}

	stem = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ' || r == '.':
			return '_'
		default:
			return -1
		}
	}, stem)
	if stem == "" {
		stem = "file"
	}
	if len(stem) > maxStemLength {
		stem = stem[:maxStemLength]
	}

	return stem + uuid.New().String() + ext
}

func validName(name string) bool {
	return name != "" &&
		name != "." &&
		name != ".." &&
		!strings.ContainsAny(name, `/\`)
}

// readLimited reads the whole upload, failing before any write if it exceeds maxSize.
func readLimited(file io.Reader, maxSize int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("error reading upload: %w", err)
	}

	if int64(len(data)) > maxSize {
		return nil, &FileTooLargeError{Limit: maxSize}
	}

	return data, nil
}

// New opens the File Store backend selected in cfg.
func New(ctx context.Context, cfg config.Storage) (Storage, error) {
	switch cfg.Backend {
	case config.StorageLocal, "":
		return NewLocalStorage(cfg.UploadDir)
	case config.StorageMinIO:
		return NewMinIOClient(ctx, cfg.MinIO)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
