package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"bazaar/internal/metrics"
	"bazaar/internal/store"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// Buckets (cloudinary folders) media can be uploaded to. Keeping the set
// closed means the storage dashboard stays meaningful.
var allowedBuckets = map[string]bool{
	"products":   true,
	"categories": true,
	"artwork":    true,
	"banners":    true,
}

// helper: sniff first 512 bytes and reset reader
func sniffMIME(file multipart.File) (string, error) {
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read: %w", err)
	}
	mime := http.DetectContentType(buf[:n])

	// reset so later reads start from byte 0
	if seeker, ok := file.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return "", fmt.Errorf("seek reset: %w", err)
		}
	}
	return mime, nil
}

// uploadToBucket pushes the file to cloudinary under the given folder with a
// controlled public ID and records it in the media-asset ledger.
func (app *application) uploadToBucket(ctx context.Context, file io.Reader, bucket string, size int64) (*store.MediaAsset, error) {
	publicID := fmt.Sprintf("%s_%s", bucket, uuid.NewString())

	resp, err := app.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:    bucket,
		PublicID:  publicID,
		Overwrite: api.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}

	asset := &store.MediaAsset{
		Bucket:       bucket,
		PublicID:     resp.PublicID,
		URL:          resp.SecureURL,
		ResourceType: "image",
		Bytes:        size,
	}
	if err := app.legacy.MediaAssets.Record(ctx, asset); err != nil {
		return nil, err
	}
	metrics.RecordUpload(bucket)

	return asset, nil
}

func (app *application) deleteFromCloudinary(ctx context.Context, publicID string) error {
	_, err := app.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: publicID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete asset from Cloudinary: %w", err)
	}
	return nil
}

// extractPublicIDFromURL recovers the cloudinary public ID from a delivery
// URL; used when callers only hold the image URL stored on a row.
func (app *application) extractPublicIDFromURL(photoURL string) (string, error) {
	parsedURL, err := url.Parse(photoURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	pathParts := strings.Split(parsedURL.Path, "/")
	for i, part := range pathParts {
		if part == "upload" && i+1 < len(pathParts) {
			return strings.Join(pathParts[i+1:], "/"), nil
		}
	}

	return "", errors.New("failed to extract public ID from URL")
}
