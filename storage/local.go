package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bazaar/models"
)

// LocalStore writes blobs under a root directory on disk. Paths recorded in
// the database are relative to the root so the directory can move.
type LocalStore struct {
	Root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, os.ModePerm); err != nil {
		return nil, &models.StorageError{Op: "mkdir", Path: root, Err: err}
	}
	return &LocalStore{Root: root}, nil
}

func (s *LocalStore) Put(ctx context.Context, file *multipart.FileHeader, folder string) (string, error) {
	dir := filepath.Join(s.Root, folder)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", &models.StorageError{Op: "mkdir", Path: dir, Err: err}
	}

	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), strings.ReplaceAll(filepath.Base(file.Filename), " ", "_"))
	fullPath := filepath.Join(dir, name)

	src, err := file.Open()
	if err != nil {
		return "", &models.StorageError{Op: "open", Path: file.Filename, Err: err}
	}
	defer src.Close()

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", &models.StorageError{Op: "create", Path: fullPath, Err: err}
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(fullPath)
		return "", &models.StorageError{Op: "write", Path: fullPath, Err: err}
	}

	return filepath.ToSlash(filepath.Join(folder, name)), nil
}

func (s *LocalStore) Delete(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	fullPath := filepath.Join(s.Root, filepath.FromSlash(path))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return &models.StorageError{Op: "delete", Path: path, Err: err}
	}
	return nil
}
