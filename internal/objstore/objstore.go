// Package objstore wraps the S3-compatible object storage (Cloudflare R2,
// MinIO or any S3 endpoint) that holds uploaded video files and profile
// pictures. The database only ever stores the public URL returned by Upload;
// this package owns the mapping between keys and public URLs.
package objstore

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/clipdeck/clipdeck/internal/config"
)

// Client is a thin wrapper around a MinIO client bound to one bucket.
type Client struct {
	mc           *minio.Client
	bucket       string
	publicDomain string
}

// New connects to the configured endpoint and makes sure the bucket exists.
func New(cfg config.Storage) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize object storage client")
	}

	ctx := context.Background()

	exists, err := mc.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check bucket existence")
	}

	if !exists {
		if err := mc.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrap(err, "failed to create bucket")
		}

		log.Info().Str("bucket", cfg.Bucket).Msg("created storage bucket")
	}

	return &Client{
		mc:           mc,
		bucket:       cfg.Bucket,
		publicDomain: strings.TrimRight(cfg.PublicDomain, "/"),
	}, nil
}

// Upload stores the object under key and returns its public URL.
func (c *Client) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := c.mc.PutObject(ctx, c.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to upload object")
	}

	return c.publicDomain + "/" + key, nil
}

// Delete removes the object under key. Deleting a key that no longer exists
// is not an error.
func (c *Client) Delete(ctx context.Context, key string) error {
	err := c.mc.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrap(err, "failed to delete object")
	}

	return nil
}

// KeyFromURL recovers the storage key from a public URL produced by Upload.
// Returns false for URLs that do not point into this store.
func (c *Client) KeyFromURL(url string) (string, bool) {
	prefix := c.publicDomain + "/"
	if c.publicDomain == "" || !strings.HasPrefix(url, prefix) {
		return "", false
	}

	return strings.TrimPrefix(url, prefix), true
}

// NewKey builds a collision-free object key under prefix, preserving the
// original file extension.
func NewKey(prefix, filename string) string {
	return fmt.Sprintf("%s/%d-%s%s", prefix, time.Now().UnixMilli(), uuid.NewString(), extOf(filename))
}
