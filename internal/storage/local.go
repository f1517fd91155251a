package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// LocalStorage keeps files in a single directory on disk.
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating upload directory: %w", err)
	}

	return &LocalStorage{dir: dir}, nil
}

func (s *LocalStorage) Save(ctx context.Context, originalName string, file io.Reader, maxSize int64) (string, error) {
	data, err := readLimited(file, maxSize)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := GenerateName(originalName)

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("error creating file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("error writing file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("error closing file: %w", err)
	}

	return name, nil
}

func (s *LocalStorage) Delete(ctx context.Context, name string) error {
	if !validName(name) {
		return ErrInvalidName
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", name, ErrNotExist)
		}
		return fmt.Errorf("error deleting file: %w", err)
	}

	return nil
}

func (s *LocalStorage) Open(ctx context.Context, name string) (*Object, error) {
	if !validName(name) {
		return nil, ErrInvalidName
	}

	path := filepath.Join(s.dir, name)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotExist)
		}
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error reading file info: %w", err)
	}

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error detecting content type: %w", err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("error rewinding file: %w", err)
	}

	return &Object{
		ReadCloser:  f,
		ContentType: mtype.String(),
		Size:        info.Size(),
	}, nil
}
