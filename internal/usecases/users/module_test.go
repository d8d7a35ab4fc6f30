package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anastasia-gushchina/topdj-bot/internal/domain"
	"github.com/anastasia-gushchina/topdj-bot/internal/pkg/logger"
)

type fakeRepo struct {
	users       map[int64]*domain.User
	gets        int
	creates     int
	createErr   error
	getErr      error
	raceOnWrite bool // Create возвращает дубликат, а пользователь появляется
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[int64]*domain.User{}}
}

func (r *fakeRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.creates++
	if r.raceOnWrite {
		r.users[u.TgID] = u
		return nil, domain.ErrUniqueViolation
	}
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.users[u.TgID] = u
	return u, nil
}

func (r *fakeRepo) GetByTelegramID(_ context.Context, id int64) (*domain.User, error) {
	r.gets++
	if r.getErr != nil {
		return nil, r.getErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (r *fakeRepo) DeleteByTelegramID(context.Context, int64) (bool, error) { return false, nil }

type fakeCache struct {
	data      map[string]string
	ttl       time.Duration
	existsErr error
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string]string{}} }

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	v, ok := c.data[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.data[key] = value
	c.ttl = ttl
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *fakeCache) Exists(_ context.Context, key string) (bool, error) {
	if c.existsErr != nil {
		return false, c.existsErr
	}
	_, ok := c.data[key]
	return ok, nil
}

func (c *fakeCache) Close() error { return nil }

var from = &domain.TelegramUser{ID: 55, FirstName: "Ivan"}

func TestEnsureUserCreatesAndCaches(t *testing.T) {
	repo, c := newFakeRepo(), newFakeCache()
	s := New(repo, c, time.Hour, logger.Discard())

	if err := s.EnsureUser(context.Background(), from, 555); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if repo.creates != 1 || repo.users[55].ChatID != 555 {
		t.Fatalf("user not created: %+v", repo.users)
	}
	if _, ok := c.data["user_55"]; !ok || c.ttl != time.Hour {
		t.Fatalf("user not cached: %v ttl=%s", c.data, c.ttl)
	}

	// второй вызов обслуживается кэшем
	if err := s.EnsureUser(context.Background(), from, 555); err != nil {
		t.Fatal(err)
	}
	if repo.gets != 1 || repo.creates != 1 {
		t.Fatalf("expected cache hit, gets=%d creates=%d", repo.gets, repo.creates)
	}
}

func TestCacheMissChecksDatabase(t *testing.T) {
	repo, c := newFakeRepo(), newFakeCache()
	repo.users[55] = &domain.User{TgID: 55}
	s := New(repo, c, time.Hour, logger.Discard())

	if err := s.EnsureUser(context.Background(), from, 555); err != nil {
		t.Fatal(err)
	}
	if repo.creates != 0 || repo.gets != 1 {
		t.Fatalf("existing user must not be recreated: gets=%d creates=%d", repo.gets, repo.creates)
	}
	if _, ok := c.data["user_55"]; !ok {
		t.Fatal("existing user must be cached")
	}
}

func TestCacheErrorFallsBackToDatabase(t *testing.T) {
	repo, c := newFakeRepo(), newFakeCache()
	c.existsErr = errors.New("redis down")
	s := New(repo, c, time.Hour, logger.Discard())

	if err := s.EnsureUser(context.Background(), from, 1); err != nil {
		t.Fatal(err)
	}
	if repo.creates != 1 {
		t.Fatal("user must be created despite cache failure")
	}
}

func TestNilCache(t *testing.T) {
	repo := newFakeRepo()
	s := New(repo, nil, 0, logger.Discard())

	if err := s.EnsureUser(context.Background(), from, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.EnsureUser(context.Background(), from, 1); err != nil {
		t.Fatal(err)
	}
	if repo.creates != 1 || repo.gets != 2 {
		t.Fatalf("gets=%d creates=%d", repo.gets, repo.creates)
	}
}

func TestConcurrentCreateIsTolerated(t *testing.T) {
	repo := newFakeRepo()
	repo.raceOnWrite = true
	s := New(repo, newFakeCache(), time.Hour, logger.Discard())

	if err := s.EnsureUser(context.Background(), from, 1); err != nil {
		t.Fatalf("duplicate create must not fail: %v", err)
	}
}

func TestDatabaseErrorPropagates(t *testing.T) {
	repo := newFakeRepo()
	repo.getErr = errors.New("db down")
	s := New(repo, newFakeCache(), time.Hour, logger.Discard())

	if err := s.EnsureUser(context.Background(), from, 1); err == nil {
		t.Fatal("expected error")
	}
}
