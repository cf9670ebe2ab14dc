// Package storage provides the blob store capability used for product
// files and images. Persistence logic only ever sees the BlobStore
// interface, so tests run against an in-memory fake.
package storage

import (
	"context"
	"mime/multipart"
	"path/filepath"
	"strings"

	"bazaar/models"
)

type BlobStore interface {
	// Put stores the uploaded file under the given folder and returns the
	// path (or URL) to record in the database.
	Put(ctx context.Context, file *multipart.FileHeader, folder string) (string, error)
	// Delete removes a previously stored blob. Deleting a blob that no
	// longer exists is not an error.
	Delete(ctx context.Context, path string) error
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var documentExtensions = map[string]bool{
	".zip":  true,
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".ppt":  true,
	".pptx": true,
	".xls":  true,
	".xlsx": true,
}

// ValidateImage rejects non-image uploads and files over maxSize bytes.
func ValidateImage(file *multipart.FileHeader, maxSize int64) error {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExtensions[ext] {
		return models.NewValidationError("images", "invalid file type. Only jpg, jpeg, png, gif, webp allowed")
	}
	if file.Size > maxSize {
		return models.NewValidationError("images", "file size too large")
	}
	return nil
}

// ValidateDocument rejects digital-product files that are not a known
// document type.
func ValidateDocument(file *multipart.FileHeader, maxSize int64) error {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !documentExtensions[ext] {
		return models.NewValidationError("file", "invalid file type. Only zip, pdf, doc, docx, ppt, pptx, xls, xlsx allowed")
	}
	if file.Size > maxSize {
		return models.NewValidationError("file", "file size too large")
	}
	return nil
}
