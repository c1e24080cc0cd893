package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/Kerhoff/couplebot/internal/models"
	"github.com/Kerhoff/couplebot/internal/repository"
)

const movieColumns = `id, title, description, movie_type, created_by, rating, created_at, watched, watch_date, review`

type movieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *sql.DB) repository.MovieRepository {
	return &movieRepository{db: db}
}

func (r *movieRepository) Create(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	query := `INSERT INTO movies (title, description, movie_type, created_by, rating, created_at, watched, watch_date, review)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	if movie.Type == "" {
		movie.Type = models.MovieTypeMine
	}
	if movie.CreatedAt.IsZero() {
		movie.CreatedAt = time.Now()
	}
	movie.CreatedAt = truncate(movie.CreatedAt)
	if movie.WatchDate != nil {
		wd := truncate(*movie.WatchDate)
		movie.WatchDate = &wd
	}

	err := r.db.QueryRowContext(ctx, query,
		movie.Title, movie.Description, movie.Type, movie.CreatedBy,
		movie.Rating, formatTime(movie.CreatedAt), movie.Watched,
		formatTimePtr(movie.WatchDate), movie.Review,
	).Scan(&movie.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}
	return movie, nil
}

func (r *movieRepository) GetByID(ctx context.Context, id int64) (*models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	movie, err := scanMovie(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}
	return movie, nil
}

func (r *movieRepository) Update(ctx context.Context, movie *models.Movie) (bool, error) {
	query := `UPDATE movies SET title = $2, description = $3, movie_type = $4, rating = $5,
		watched = $6, watch_date = $7, review = $8
		WHERE id = $1`

	if movie.WatchDate != nil {
		wd := truncate(*movie.WatchDate)
		movie.WatchDate = &wd
	}
	result, err := r.db.ExecContext(ctx, query,
		movie.ID, movie.Title, movie.Description, movie.Type, movie.Rating,
		movie.Watched, formatTimePtr(movie.WatchDate), movie.Review)
	if err != nil {
		return false, fmt.Errorf("failed to update movie: %w", err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

func (r *movieRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete movie: %w", err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

func (r *movieRepository) ListOwn(ctx context.Context, userID int64) ([]*models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies
		WHERE created_by = $1 AND movie_type = 'my_movies'
		ORDER BY created_at DESC, id ASC`
	return r.queryMovies(ctx, query, userID)
}

func (r *movieRepository) ListOfPartner(ctx context.Context, viewer *models.User) ([]*models.Movie, error) {
	if !viewer.HasPartner() {
		return nil, nil
	}
	query := `SELECT ` + movieColumns + ` FROM movies
		WHERE created_by = $1 AND movie_type = 'partner_movies'
		ORDER BY created_at DESC, id ASC`
	return r.queryMovies(ctx, query, *viewer.PartnerID)
}

func (r *movieRepository) SetRating(ctx context.Context, id int64, rating int) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE movies SET rating = $2 WHERE id = $1`, id, rating)
	if err != nil {
		return false, fmt.Errorf("failed to set movie rating: %w", err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

func (r *movieRepository) SetWatched(ctx context.Context, id int64, watched bool, watchDate *time.Time) (bool, error) {
	if watchDate != nil {
		wd := truncate(*watchDate)
		watchDate = &wd
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE movies SET watched = $2, watch_date = $3 WHERE id = $1`,
		id, watched, formatTimePtr(watchDate))
	if err != nil {
		return false, fmt.Errorf("failed to set movie watched: %w", err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

func (r *movieRepository) Stats(ctx context.Context, userID int64) (*models.MovieStats, error) {
	query := `SELECT COUNT(*),
			COUNT(*) FILTER (WHERE watched),
			COALESCE(AVG(rating), 0)
		FROM movies WHERE created_by = $1`

	stats := &models.MovieStats{}
	var avg float64
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&stats.Total, &stats.Watched, &avg)
	if err != nil {
		return nil, fmt.Errorf("failed to get movie stats: %w", err)
	}
	stats.AvgRating = math.Round(avg*10) / 10
	return stats, nil
}

func (r *movieRepository) queryMovies(ctx context.Context, query string, args ...interface{}) ([]*models.Movie, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	var movies []*models.Movie
	for rows.Next() {
		movie, err := scanMovie(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, movie)
	}
	return movies, rows.Err()
}

func scanMovie(scan func(dest ...interface{}) error) (*models.Movie, error) {
	movie := &models.Movie{}
	var createdAt string
	var watchDate *string
	err := scan(
		&movie.ID, &movie.Title, &movie.Description, &movie.Type,
		&movie.CreatedBy, &movie.Rating, &createdAt, &movie.Watched,
		&watchDate, &movie.Review,
	)
	if err != nil {
		return nil, err
	}
	if movie.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if movie.WatchDate, err = parseTimePtr(watchDate); err != nil {
		return nil, err
	}
	return movie, nil
}
