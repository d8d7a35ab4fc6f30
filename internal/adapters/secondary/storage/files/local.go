package files

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/storage"
)

// Local читает архивы паков из каталога на диске
type Local struct {
	basePath string
}

func NewLocal(basePath string) storage.IFileSource {
	return &Local{basePath: basePath}
}

func (l *Local) ReadFile(_ context.Context, name string) ([]byte, error) {
	// имя файла из каталога паков, выход за basePath не допускаем
	if name == "" || filepath.Base(name) != name {
		return nil, fmt.Errorf("invalid file name %q", name)
	}

	data, err := os.ReadFile(filepath.Join(l.basePath, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("file %s: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", name, err)
	}
	return data, nil
}

// Chain пробует источники по порядку, пока файл не найдётся
type Chain []storage.IFileSource

func (c Chain) ReadFile(ctx context.Context, name string) ([]byte, error) {
	lastErr := fmt.Errorf("file %s: %w", name, domain.ErrNotFound)
	for _, src := range c {
		data, err := src.ReadFile(ctx, name)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}
