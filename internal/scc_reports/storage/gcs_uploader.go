package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	gcs "cloud.google.com/go/storage"
	"github.com/GoSim-25-26J-441/scc-reporter/internal/gcpauth"
	"google.golang.org/api/option"
)

var contentTypes = map[string]string{
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".csv":  "text/csv",
}

// Uploader copies a local file to an object.
type Uploader interface {
	Upload(ctx context.Context, bucket, objectPath, localPath string) error
}

// GCSUploader writes report files to Cloud Storage.
type GCSUploader struct {
	client *gcs.Client
}

// NewGCSUploader builds a storage client from ambient credentials.
func NewGCSUploader(ctx context.Context, extra ...option.ClientOption) (*GCSUploader, error) {
	opts := gcpauth.ClientOptions(ctx, gcs.ScopeReadWrite)
	opts = append(opts, extra...)

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return NewGCSUploaderFromClient(client), nil
}

func NewGCSUploaderFromClient(client *gcs.Client) *GCSUploader {
	return &GCSUploader{client: client}
}

// Upload streams localPath into gs://bucket/objectPath. The object only
// exists once the writer closes without error.
func (u *GCSUploader) Upload(ctx context.Context, bucket, objectPath, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	w := u.client.Bucket(bucket).Object(objectPath).NewWriter(ctx)
	if ct, ok := contentTypes[filepath.Ext(localPath)]; ok {
		w.ContentType = ct
	}

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("upload gs://%s/%s: %w", bucket, objectPath, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("upload gs://%s/%s: %w", bucket, objectPath, err)
	}
	return nil
}

func (u *GCSUploader) Close() error {
	return u.client.Close()
}
