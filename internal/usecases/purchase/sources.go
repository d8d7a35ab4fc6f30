package purchase

import (
	"context"
	"errors"
	"fmt"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"github.com/anastasia-gushchina/topdj-bot/internal/services/conversation"
	"github.com/anastasia-gushchina/topdj-bot/internal/services/selection"
)

// NewPackKey ключ пункта "хочу другой пак" в списке паков
const NewPackKey = "new_pack"

func pageOf(items []selection.Item, limit, offset int) []selection.Item {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// categorySource список категорий
type categorySource struct {
	s *Service
}

func (c categorySource) items() []selection.Item {
	names := c.s.Catalog.Categories()
	items := make([]selection.Item, len(names))
	for i, name := range names {
		items[i] = selection.Item{Key: name}
	}
	return items
}

func (c categorySource) FetchPage(_ context.Context, _ *conversation.Scope, limit, offset int) ([]selection.Item, int, error) {
	items := c.items()
	return pageOf(items, limit, offset), len(items), nil
}

func (c categorySource) FetchItem(_ context.Context, _ *conversation.Scope, key string) (selection.Item, error) {
	if _, err := c.s.Catalog.PacksIn(key); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return selection.Item{}, domain.ErrItemNotFound
		}
		return selection.Item{}, err
	}
	return selection.Item{Key: key}, nil
}

// Decode приводит набранное вручную имя к имени категории из каталога
func (c categorySource) Decode(input string) (string, error) {
	key, err := selection.DecodeText(input)
	if err != nil {
		return "", err
	}
	if name, ok := c.s.Catalog.CategoryName(key); ok {
		return name, nil
	}
	return key, nil
}

func (c categorySource) OnSelected(ctx context.Context, scope *conversation.Scope, key string) (domain.State, error) {
	if err := scope.Update(ctx, map[string]string{domain.DataCategory: key}); err != nil {
		return domain.StateNone, err
	}
	if err := c.s.packs.Enter(ctx, scope); err != nil {
		return domain.StateNone, err
	}
	return StatePackName, nil
}

// packSource паки выбранной категории плюс пункт "хочу другой пак"
type packSource struct {
	s *Service
}

func (p packSource) items(scope *conversation.Scope) ([]selection.Item, error) {
	category, _ := scope.Value(domain.DataCategory)
	packs, err := p.s.Catalog.PacksIn(category)
	if err != nil {
		return nil, fmt.Errorf("packs of category %q: %w", category, err)
	}

	items := make([]selection.Item, 0, len(packs)+1)
	for _, pack := range packs {
		items = append(items, selection.Item{Key: pack.Name, Label: pack.HumanName, Button: pack.HumanName})
	}
	items = append(items, selection.Item{Key: NewPackKey, Label: textNewPackLabel, Button: textNewPackButton})
	return items, nil
}

func (p packSource) Title(scope *conversation.Scope) string {
	category, _ := scope.Value(domain.DataCategory)
	return fmt.Sprintf(textCategoryHeader, category)
}

func (p packSource) FetchPage(_ context.Context, scope *conversation.Scope, limit, offset int) ([]selection.Item, int, error) {
	items, err := p.items(scope)
	if err != nil {
		return nil, 0, err
	}
	return pageOf(items, limit, offset), len(items), nil
}

func (p packSource) FetchItem(_ context.Context, scope *conversation.Scope, key string) (selection.Item, error) {
	items, err := p.items(scope)
	if err != nil {
		return selection.Item{}, err
	}
	for _, item := range items {
		if item.Key == key {
			return item, nil
		}
	}
	return selection.Item{}, domain.ErrItemNotFound
}

// Decode принимает и машинное имя, и человекочитаемое "House 30"
func (p packSource) Decode(input string) (string, error) {
	key := domain.MachineName(input)
	if key == "" {
		return "", fmt.Errorf("empty input: %w", domain.ErrInvalidInput)
	}
	return key, nil
}

func (p packSource) OnSelected(ctx context.Context, scope *conversation.Scope, key string) (domain.State, error) {
	if key == NewPackKey {
		if err := p.s.Messenger.SendMessage(ctx, scope.ChatID, textNewPackPrompt); err != nil {
			return domain.StateNone, fmt.Errorf("failed to send new pack prompt: %w", err)
		}
		return StateCreateNewPack, nil
	}

	pack, err := p.s.Catalog.Pack(key)
	if err != nil {
		return domain.StateNone, domain.NewValidationError(textChoosePack)
	}
	if err := p.s.showPackInfo(ctx, scope, pack); err != nil {
		return domain.StateNone, err
	}
	return StatePackInfo, nil
}
