package repository

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/user-auth-service/internal/domain"
	apperrors "github.com/spec-kit/user-auth-service/pkg/util"
)

// inMemoryUserRepository keeps accounts in a map. It backs tests and local
// runs without Postgres, and mirrors the SQL contract: pgx.ErrNoRows on a
// miss, duplicate email rejected on insert.
type inMemoryUserRepository struct {
	mu      sync.RWMutex
	nextID  int64
	byEmail map[string]*domain.User
	byID    map[int64]*domain.User
}

// NewInMemoryUserRepository creates an empty in-memory store.
func NewInMemoryUserRepository() UserRepository {
	return &inMemoryUserRepository{
		nextID:  1,
		byEmail: make(map[string]*domain.User),
		byID:    make(map[int64]*domain.User),
	}
}

func (r *inMemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return apperrors.NewDuplicateEmail(user.Email)
	}

	now := time.Now()
	user.ID = r.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	r.nextID++

	stored := *user
	r.byEmail[stored.Email] = &stored
	r.byID[stored.ID] = &stored
	return nil
}

func (r *inMemoryUserRepository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *inMemoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}
