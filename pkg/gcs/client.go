package gcs

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Client wraps a single media bucket. Object paths stored in the database are
// relative to the bucket; signed URLs are minted at read time so stored rows
// never go stale.
type Client struct {
	storageClient *storage.Client
	bucket        string
}

func NewClient(ctx context.Context, bucket string, opts ...option.ClientOption) (*Client, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	stClient, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &Client{
		storageClient: stClient,
		bucket:        bucket,
	}, nil
}

func (c *Client) Upload(ctx context.Context, objectPath string, r io.Reader, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	w := c.storageClient.Bucket(c.bucket).Object(objectPath).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (c *Client) UploadFile(ctx context.Context, objectPath string, localPath string, contentType string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return c.Upload(ctx, objectPath, f, contentType)
}

func (c *Client) Download(ctx context.Context, objectPath string) (io.ReadCloser, error) {
	r, err := c.storageClient.Bucket(c.bucket).Object(objectPath).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open GCS object %s: %w", objectPath, err)
	}
	return r, nil
}

// DownloadToFile copies an object into a local path, typically under a
// pipeline run's temp directory.
func (c *Client) DownloadToFile(ctx context.Context, objectPath string, localPath string) error {
	r, err := c.Download(ctx, objectPath)
	if err != nil {
		return err
	}
	defer r.Close()

	f, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("failed to download GCS object %s: %w", objectPath, err)
	}
	return nil
}

// SignedURL mints a V4 read URL for the object.
func (c *Client) SignedURL(objectPath string, expiry time.Duration) (string, error) {
	url, err := c.storageClient.Bucket(c.bucket).SignedURL(objectPath, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(expiry),
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for %s: %w", objectPath, err)
	}
	return url, nil
}

// SignedUploadURL mints a V4 PUT URL so clients can upload the raw cooking
// video directly to the bucket.
func (c *Client) SignedUploadURL(objectPath string, contentType string, expiry time.Duration) (string, error) {
	url, err := c.storageClient.Bucket(c.bucket).SignedURL(objectPath, &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      "PUT",
		ContentType: contentType,
		Expires:     time.Now().Add(expiry),
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign upload URL for %s: %w", objectPath, err)
	}
	return url, nil
}

func (c *Client) Delete(ctx context.Context, objectPath string) error {
	return c.storageClient.Bucket(c.bucket).Object(objectPath).Delete(ctx)
}

func (c *Client) Close() error {
	return c.storageClient.Close()
}
