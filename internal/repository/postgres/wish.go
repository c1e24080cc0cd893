package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Kerhoff/couplebot/internal/models"
	"github.com/Kerhoff/couplebot/internal/repository"
)

const wishColumns = `id, title, description, image_id, wish_type, created_by, created_at`

type wishRepository struct {
	db *sql.DB
}

// NewWishRepository creates a new wish repository
func NewWishRepository(db *sql.DB) repository.WishRepository {
	return &wishRepository{db: db}
}

func (r *wishRepository) Create(ctx context.Context, wish *models.Wish) (*models.Wish, error) {
	query := `INSERT INTO wishes (title, description, image_id, wish_type, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	if wish.Type == "" {
		wish.Type = models.WishTypeMine
	}
	if wish.CreatedAt.IsZero() {
		wish.CreatedAt = time.Now()
	}
	wish.CreatedAt = truncate(wish.CreatedAt)

	err := r.db.QueryRowContext(ctx, query,
		wish.Title, wish.Description, wish.ImageID, wish.Type,
		wish.CreatedBy, formatTime(wish.CreatedAt),
	).Scan(&wish.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create wish: %w", err)
	}
	return wish, nil
}

func (r *wishRepository) GetByID(ctx context.Context, id int64) (*models.Wish, error) {
	query := `SELECT ` + wishColumns + ` FROM wishes WHERE id = $1`

	wish := &models.Wish{}
	var createdAt string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&wish.ID, &wish.Title, &wish.Description, &wish.ImageID,
		&wish.Type, &wish.CreatedBy, &createdAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get wish: %w", err)
	}
	if wish.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return wish, nil
}

func (r *wishRepository) Update(ctx context.Context, wish *models.Wish) (bool, error) {
	query := `UPDATE wishes SET title = $2, description = $3, image_id = $4, wish_type = $5
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		wish.ID, wish.Title, wish.Description, wish.ImageID, wish.Type)
	if err != nil {
		return false, fmt.Errorf("failed to update wish: %w", err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

func (r *wishRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM wishes WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete wish: %w", err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

func (r *wishRepository) ListOwn(ctx context.Context, userID int64) ([]*models.Wish, error) {
	query := `SELECT ` + wishColumns + ` FROM wishes
		WHERE created_by = $1 AND wish_type = 'my_wish'
		ORDER BY created_at DESC, id ASC`
	return r.queryWishes(ctx, query, userID)
}

func (r *wishRepository) ListOfPartner(ctx context.Context, viewer *models.User) ([]*models.Wish, error) {
	if !viewer.HasPartner() {
		return nil, nil
	}
	// The partner's wishes are the rows the partner tagged as their own.
	query := `SELECT ` + wishColumns + ` FROM wishes
		WHERE created_by = $1 AND wish_type = 'my_wish'
		ORDER BY created_at DESC, id ASC`
	return r.queryWishes(ctx, query, *viewer.PartnerID)
}

func (r *wishRepository) queryWishes(ctx context.Context, query string, args ...interface{}) ([]*models.Wish, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishes: %w", err)
	}
	defer rows.Close()

	var wishes []*models.Wish
	for rows.Next() {
		wish := &models.Wish{}
		var createdAt string
		if err := rows.Scan(
			&wish.ID, &wish.Title, &wish.Description, &wish.ImageID,
			&wish.Type, &wish.CreatedBy, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan wish: %w", err)
		}
		if wish.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		wishes = append(wishes, wish)
	}
	return wishes, rows.Err()
}
