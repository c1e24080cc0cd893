package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Kerhoff/couplebot/internal/models"
	"github.com/Kerhoff/couplebot/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user (pairing registry) repository
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Upsert(ctx context.Context, userID int64, partnerID *int64) error {
	query := `
		INSERT INTO users (user_id, partner_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET partner_id = EXCLUDED.partner_id`

	if _, err := r.db.ExecContext(ctx, query, userID, partnerID); err != nil {
		return fmt.Errorf("failed to upsert user %d: %w", userID, err)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, userID int64) (*models.User, error) {
	query := `SELECT user_id, partner_id FROM users WHERE user_id = $1`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&user.ID, &user.PartnerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	return user, nil
}

func (r *userRepository) GetPartnerID(ctx context.Context, userID int64) (*int64, error) {
	user, err := r.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return user.PartnerID, nil
}
