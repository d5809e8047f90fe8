package storage

import (
	"context"
	"fmt"
	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"
	"path"
)

// Archive copies processed output to an object store bucket.
type Archive struct {
	client *minio.Client
	bucket string
	prefix string
}

func NewArchive(client *minio.Client, bucket, prefix string) *Archive {
	return &Archive{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

func (a *Archive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	zerolog.Ctx(ctx).Info().Str("bucket", a.bucket).Msg("creating archive bucket")
	return a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{})
}

// Put uploads the local file and returns the object name it was stored under.
func (a *Archive) Put(ctx context.Context, name, localPath, contentType string) (string, error) {
	objectName := path.Join(a.prefix, name)
	_, err := a.client.FPutObject(ctx, a.bucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectName, err)
	}
	return objectName, nil
}
