package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bianca-8/reload-rage/internal/model"
)

// MemoryStore is an in-memory implementation of both repository interfaces.
// It backs the app when no DATABASE_URL is configured and is what the unit
// tests run against. All state is lost on restart.
type MemoryStore struct {
	mu             sync.Mutex
	users          []*model.User
	byUsername     map[string]*model.User
	anonymousViews int64
	userIDCounter  int64
}

// Compile-time checks that MemoryStore satisfies both ports.
var _ UserRepository = (*MemoryStore)(nil)
var _ StatsRepository = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store with the anonymous counter
// at zero, mirroring a freshly bootstrapped database.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byUsername: make(map[string]*model.User),
	}
}

func (s *MemoryStore) Create(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byUsername[u.Username]; taken {
		return model.ErrUsernameExists
	}

	s.userIDCounter++
	u.ID = s.userIDCounter
	u.ViewCount = 0
	u.CreatedAt = time.Now().UTC()

	stored := *u
	s.users = append(s.users, &stored)
	s.byUsername[u.Username] = &stored
	return nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (s *MemoryStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byUsername[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *MemoryStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.byUsername[username]
	return ok, nil
}

// IncrementViewCount adds one under the store lock, the in-memory equivalent
// of the SQL relative update.
func (s *MemoryStore) IncrementViewCount(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == userID {
			u.ViewCount++
			return nil
		}
	}
	return model.ErrUserNotFound
}

func (s *MemoryStore) TopByViewCount(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sorted := make([]*model.User, len(s.users))
	copy(sorted, s.users)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ViewCount != sorted[j].ViewCount {
			return sorted[i].ViewCount > sorted[j].ViewCount
		}
		return sorted[i].ID < sorted[j].ID
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	entries := make([]model.LeaderboardEntry, 0, len(sorted))
	for _, u := range sorted {
		entries = append(entries, model.LeaderboardEntry{
			Username:  u.Username,
			ViewCount: u.ViewCount,
		})
	}
	return entries, nil
}

func (s *MemoryStore) SumViewCounts(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum int64
	for _, u := range s.users {
		sum += u.ViewCount
	}
	return sum, nil
}

func (s *MemoryStore) IncrementAnonymousViews(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.anonymousViews++
	return nil
}

func (s *MemoryStore) AnonymousViews(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.anonymousViews, nil
}
