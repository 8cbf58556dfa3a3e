package memory

import (
	"context"
	"sync"
	"time"

	"github.com/BruksfildServices01/homebarber/internal/domain/identity"
	"github.com/BruksfildServices01/homebarber/internal/models"
)

type UserRepository struct {
	latency time.Duration

	mu      sync.RWMutex
	byID    map[string]models.User
	byEmail map[string]string
}

func NewUserRepository(latency time.Duration) *UserRepository {
	return &UserRepository{
		latency: latency,
		byID:    make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := wait(ctx, r.latency); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, identity.ErrNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	if err := wait(ctx, r.latency); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, identity.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, u *models.User) error {
	if err := wait(ctx, r.latency); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[u.Email]; taken {
		return identity.ErrEmailTaken
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.byID[u.ID] = *u
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, u *models.User) error {
	if err := wait(ctx, r.latency); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.byID[u.ID]
	if !ok {
		return identity.ErrNotFound
	}
	if prev.Email != u.Email {
		if _, taken := r.byEmail[u.Email]; taken {
			return identity.ErrEmailTaken
		}
		delete(r.byEmail, prev.Email)
		r.byEmail[u.Email] = u.ID
	}
	u.UpdatedAt = time.Now()
	r.byID[u.ID] = *u
	return nil
}

var _ identity.Repository = (*UserRepository)(nil)
