package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"restaurant/entity"
	"restaurant/repository"
)

type syncEntry struct {
	key  string
	seen time.Time
}

// UserService mirrors auth provider identities into the users table so
// reviews can show who wrote them.
type UserService struct {
	Repo *repository.UserRepository

	mu     sync.Mutex
	synced map[uint]syncEntry
	now    func() time.Time
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{Repo: repo, synced: make(map[uint]syncEntry), now: time.Now}
}

// Sync records the user's current name and role. Repeated calls with the same
// values skip the write.
func (s *UserService) Sync(ctx context.Context, id uint, name, role string) error {
	if id == 0 {
		return nil
	}
	name = strings.TrimSpace(name)
	if role == "" {
		role = "customer"
	}
	key := name + "\x00" + role

	s.mu.Lock()
	e, ok := s.synced[id]
	same := ok && e.key == key
	if same {
		s.synced[id] = syncEntry{key: key, seen: s.now()}
	}
	s.mu.Unlock()
	if same {
		return nil
	}

	u := &entity.User{Name: name, Role: role}
	u.ID = id
	if err := s.Repo.Upsert(ctx, u); err != nil {
		return err
	}

	s.mu.Lock()
	s.synced[id] = syncEntry{key: key, seen: s.now()}
	s.mu.Unlock()
	return nil
}

// Cleanup forgets users not seen for idle and reports how many were dropped.
// A forgotten user is written again on the next Sync.
func (s *UserService) Cleanup(idle time.Duration) int {
	cutoff := s.now().Add(-idle)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.synced {
		if e.seen.Before(cutoff) {
			delete(s.synced, id)
			removed++
		}
	}
	return removed
}
