// Package memory provides in-memory implementations of the repository
// interfaces. They back the bot when no DATABASE_URL is configured and the
// package-level tests.
package memory

import (
	"context"
	"sync"

	"github.com/Kerhoff/couplebot/internal/models"
	"github.com/Kerhoff/couplebot/internal/repository"
)

type userRepository struct {
	mu    sync.RWMutex
	users map[int64]*models.User
}

// NewUserRepository creates an in-memory user (pairing registry) repository
func NewUserRepository() repository.UserRepository {
	return &userRepository{users: make(map[int64]*models.User)}
}

func (r *userRepository) Upsert(_ context.Context, userID int64, partnerID *int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[userID] = &models.User{ID: userID, PartnerID: copyInt64(partnerID)}
	return nil
}

func (r *userRepository) Get(_ context.Context, userID int64) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	return &models.User{ID: user.ID, PartnerID: copyInt64(user.PartnerID)}, nil
}

func (r *userRepository) GetPartnerID(ctx context.Context, userID int64) (*int64, error) {
	user, err := r.Get(ctx, userID)
	if err != nil || user == nil {
		return nil, err
	}
	return user.PartnerID, nil
}

func copyInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
