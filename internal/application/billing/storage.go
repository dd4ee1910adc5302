package billing

import (
	"context"
	"time"
)

// ObjectStorage abstracts the blob store used for document attachments.
// File bodies never pass through the API server: clients upload and
// download directly against presigned URLs.
type ObjectStorage interface {
	// GenerateUploadURL returns a presigned PUT URL for the given key
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL returns a presigned GET URL for the given key
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// Upload writes an object directly, bypassing the presign flow
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error

	// DeleteObject removes an object; missing keys are not an error
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists reports whether an object is present under the key
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}
