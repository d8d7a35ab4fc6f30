package s3

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/storage"
	"github.com/minio/minio-go/v7"
)

// Client обёртка над minio.Client, отдаёт архивы паков из бакета
type Client struct {
	client *minio.Client
	bucket string
	prefix string
	log    *slog.Logger
}

// NewClient создаёт новый S3 клиент
func NewClient(client *minio.Client, bucket, prefix string, log *slog.Logger) storage.IFileSource {
	return &Client{
		client: client,
		bucket: bucket,
		prefix: prefix,
		log:    log,
	}
}

// ReadFile читает объект prefix/name целиком, domain.ErrNotFound если объекта нет
func (c *Client) ReadFile(ctx context.Context, name string) ([]byte, error) {
	key := path.Join(c.prefix, name)

	object, err := c.client.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("object %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}

	c.log.Debug("pack file loaded from s3", "bucket", c.bucket, "key", key, "size", len(data))
	return data, nil
}
