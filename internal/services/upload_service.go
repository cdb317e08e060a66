package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// UploadResult describes a stored file.
type UploadResult struct {
	URL      string
	PublicID string
	Bytes    int64
}

// Uploader stores and removes files in external storage.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder, name string) (*UploadResult, error)
	Remove(ctx context.Context, publicID string) error
}

// CloudinaryUploader handles file uploads to Cloudinary
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryUploader creates a new CloudinaryUploader instance
func NewCloudinaryUploader(cloudName, apiKey, apiSecret string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryUploader{cld: cld}, nil
}

// Upload uploads a file to Cloudinary and returns its URL
func (u *CloudinaryUploader) Upload(ctx context.Context, file io.Reader, folder, name string) (*UploadResult, error) {
	res, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   folder,
		PublicID: publicIDFor(name, time.Now()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file to Cloudinary: %w", err)
	}
	if res.Error.Message != "" {
		return nil, errors.New("cloudinary: " + res.Error.Message)
	}
	return &UploadResult{URL: res.SecureURL, PublicID: res.PublicID, Bytes: int64(res.Bytes)}, nil
}

// Remove deletes a previously uploaded file.
func (u *CloudinaryUploader) Remove(ctx context.Context, publicID string) error {
	res, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to delete file from Cloudinary: %w", err)
	}
	if res.Error.Message != "" {
		return errors.New("cloudinary: " + res.Error.Message)
	}
	return nil
}

// publicIDFor derives a unique public id from the original file name.
func publicIDFor(name string, at time.Time) string {
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, base)
	if base == "" || base == "." || base == "_" {
		base = "file"
	}
	return fmt.Sprintf("%s_%d", base, at.UnixNano())
}
