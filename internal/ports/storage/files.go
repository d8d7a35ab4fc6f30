package storage

import (
	"context"
)

// IFileSource источник архивов паков (локальный диск, S3)
type IFileSource interface {
	// ReadFile domain.ErrNotFound, если файла нет
	ReadFile(ctx context.Context, name string) ([]byte, error)
}
