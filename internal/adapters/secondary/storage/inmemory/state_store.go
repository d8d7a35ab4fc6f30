package inmemory

import (
	"context"
	"sync"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"github.com/anastasia-gushchina/topdj-bot/internal/ports/state"
)

// StateStore in-memory хранилище состояний диалогов, теряется при рестарте
type StateStore struct {
	mu    sync.RWMutex
	convs map[int64]*domain.Conversation // user_id -> диалог
}

func NewStateStore() state.Store {
	return &StateStore{
		convs: make(map[int64]*domain.Conversation),
	}
}

// Get возвращает копию, чтобы вызывающий не менял данные в обход стора
func (s *StateStore) Get(_ context.Context, userID int64) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := domain.NewConversation()
	if conv, ok := s.convs[userID]; ok {
		out.State = conv.State
		for k, v := range conv.Data {
			out.Data[k] = v
		}
	}
	return out, nil
}

func (s *StateStore) SetState(_ context.Context, userID int64, st domain.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(userID).State = st
	return nil
}

func (s *StateStore) UpdateData(_ context.Context, userID int64, data map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv := s.get(userID)
	for k, v := range data {
		conv.Data[k] = v
	}
	return nil
}

func (s *StateStore) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.convs, userID)
	return nil
}

// get вызывается под блокировкой
func (s *StateStore) get(userID int64) *domain.Conversation {
	conv, ok := s.convs[userID]
	if !ok {
		conv = domain.NewConversation()
		s.convs[userID] = conv
	}
	return conv
}
