// Package storage implements the domain FileStore on top of gocloud.dev/blob,
// so profile images can live on local disk (file://) or an object store
// (s3://, gs://) without code changes.
package storage

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	// Driver for local filesystem buckets. Cloud drivers can be added the
	// same way when a deployment needs them.
	_ "gocloud.dev/blob/fileblob"

	"taskhub/config"
	"taskhub/internal/domain/lifecycle"
	"taskhub/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// blobStore is a concrete implementation of the FileStore interface.
type blobStore struct {
	bucket *blob.Bucket
}

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New opens the configured bucket and registers its shutdown hook.
func New(params Params) (service.FileStore, error) {
	if params.Config.Storage == nil || params.Config.Storage.BucketURL == "" {
		return nil, errors.New("storage bucket URL must be provided")
	}

	ctx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
	defer cancel()

	bucket, err := blob.OpenBucket(ctx, params.Config.Storage.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", params.Config.Storage.BucketURL)
	}

	params.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return errors.WithStack(bucket.Close())
		},
	})

	params.Logger.Info("File store ready", slog.String("bucket", params.Config.Storage.BucketURL))

	return &blobStore{bucket: bucket}, nil
}

// NewWithBucket wires an already opened bucket. Used by tests.
func NewWithBucket(bucket *blob.Bucket) service.FileStore {
	return &blobStore{bucket: bucket}
}

// Save writes the content under a generated key and returns that key.
// The key keeps the original extension so the content type can be derived on load.
func (s *blobStore) Save(ctx context.Context, originalFilename string, content io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	key := uuid.New().String() + ext

	writer, err := s.bucket.NewWriter(ctx, key, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to open blob writer")
	}

	if _, err := io.Copy(writer, content); err != nil {
		writer.Close()

		return "", errors.Wrap(err, "failed to write blob content")
	}

	if err := writer.Close(); err != nil {
		return "", errors.Wrap(err, "failed to close blob writer")
	}

	return key, nil
}

// Load reads the full content stored under the given key.
func (s *blobStore) Load(ctx context.Context, path string) ([]byte, error) {
	data, err := s.bucket.ReadAll(ctx, path)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, service.ErrFileNotFound
		}

		return nil, errors.Wrapf(err, "failed to read blob %s", path)
	}

	return data, nil
}

// Delete removes the file stored under the given key.
// A missing key is treated as already deleted.
func (s *blobStore) Delete(ctx context.Context, path string) error {
	if err := s.bucket.Delete(ctx, path); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil
		}

		return errors.Wrapf(err, "failed to delete blob %s", path)
	}

	return nil
}
