package repository

import (
	"context"
	"time"

	"github.com/Kerhoff/couplebot/internal/models"
)

// UserRepository defines the pairing registry. A row is persisted for every
// registered user even when no partner is linked yet; keeping the relation
// symmetric (two directed rows) is the caller's job.
type UserRepository interface {
	Upsert(ctx context.Context, userID int64, partnerID *int64) error
	Get(ctx context.Context, userID int64) (*models.User, error)
	GetPartnerID(ctx context.Context, userID int64) (*int64, error)
}

// TaskRepository defines task storage plus the named visibility views.
// View methods take the resolved viewer row so the absent-partner sentinel
// substitution happens in one place.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)

	// ListAll returns every task owned by the viewer or their partner,
	// regardless of audience or status.
	ListAll(ctx context.Context, viewer *models.User) ([]*models.Task, error)
	// ListForUser returns tasks targeted at the viewer: own for_me rows,
	// the partner's for_partner rows, and for_both rows from either.
	ListForUser(ctx context.Context, viewer *models.User, status models.TaskStatus) ([]*models.Task, error)
	// ListForPartner is the symmetric mirror of ListForUser. Empty when no
	// partner is linked.
	ListForPartner(ctx context.Context, viewer *models.User, status models.TaskStatus) ([]*models.Task, error)
	// ListShared returns for_both rows owned by either member of the pair.
	ListShared(ctx context.Context, viewer *models.User, status models.TaskStatus) ([]*models.Task, error)
	// ListCompleted returns the union of the three views above with
	// status=completed.
	ListCompleted(ctx context.Context, viewer *models.User) ([]*models.Task, error)
}

// WishRepository defines wish storage and views.
type WishRepository interface {
	Create(ctx context.Context, wish *models.Wish) (*models.Wish, error)
	GetByID(ctx context.Context, id int64) (*models.Wish, error)
	Update(ctx context.Context, wish *models.Wish) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)

	// ListOwn returns the viewer's own wishes (rows they tagged my_wish).
	ListOwn(ctx context.Context, userID int64) ([]*models.Wish, error)
	// ListOfPartner returns the partner's own-tagged wishes. Note this
	// selects my_wish rows owned by the partner, not partner_wish rows.
	ListOfPartner(ctx context.Context, viewer *models.User) ([]*models.Wish, error)
}

// MovieRepository defines watch-list storage, views and derived queries.
type MovieRepository interface {
	Create(ctx context.Context, movie *models.Movie) (*models.Movie, error)
	GetByID(ctx context.Context, id int64) (*models.Movie, error)
	Update(ctx context.Context, movie *models.Movie) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)

	ListOwn(ctx context.Context, userID int64) ([]*models.Movie, error)
	ListOfPartner(ctx context.Context, viewer *models.User) ([]*models.Movie, error)

	SetRating(ctx context.Context, id int64, rating int) (bool, error)
	SetWatched(ctx context.Context, id int64, watched bool, watchDate *time.Time) (bool, error)
	// Stats aggregates the user's own rows: total count, watched count and
	// average rating rounded to one decimal.
	Stats(ctx context.Context, userID int64) (*models.MovieStats, error)
}
