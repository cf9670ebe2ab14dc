package storage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"bazaar/models"
)

// CloudinaryStore stores blobs in Cloudinary. Recorded paths are secure
// URLs; Delete derives the public ID back out of the URL.
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore() (*CloudinaryStore, error) {
	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		if cldURL := os.Getenv("CLOUDINARY_URL"); cldURL != "" {
			cld, err := cloudinary.NewFromURL(cldURL)
			if err != nil {
				return nil, fmt.Errorf("cloudinary init from URL failed: %w", err)
			}
			return &CloudinaryStore{cld: cld}, nil
		}
		return nil, errors.New("cloudinary credentials not configured")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld}, nil
}

func (s *CloudinaryStore) Put(ctx context.Context, file *multipart.FileHeader, folder string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", &models.StorageError{Op: "open", Path: file.Filename, Err: err}
	}
	defer src.Close()

	publicID := fmt.Sprintf("%d_%s", time.Now().UnixNano(), strings.ReplaceAll(file.Filename, " ", "_"))
	publicID = strings.TrimSuffix(publicID, filepath.Ext(publicID))

	result, err := s.cld.Upload.Upload(ctx, src, uploader.UploadParams{
		PublicID:     publicID,
		Folder:       folder,
		ResourceType: "auto",
	})
	if err != nil {
		return "", &models.StorageError{Op: "upload", Path: file.Filename, Err: err}
	}

	return result.SecureURL, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, path string) error {
	publicID := publicIDFromURL(path)
	if publicID == "" {
		return nil
	}

	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return &models.StorageError{Op: "delete", Path: path, Err: err}
	}
	return nil
}

// publicIDFromURL extracts "folder/name" from a Cloudinary delivery URL of
// the form https://res.cloudinary.com/<cloud>/<type>/upload/v123/folder/name.ext
func publicIDFromURL(url string) string {
	idx := strings.Index(url, "/upload/")
	if idx < 0 {
		return ""
	}
	rest := url[idx+len("/upload/"):]
	if i := strings.IndexByte(rest, '/'); i >= 0 && strings.HasPrefix(rest, "v") {
		rest = rest[i+1:]
	}
	return strings.TrimSuffix(rest, filepath.Ext(rest))
}
