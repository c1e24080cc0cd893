package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/Kerhoff/couplebot/internal/models"
	"github.com/Kerhoff/couplebot/internal/repository"
)

type movieRepository struct {
	mu     sync.RWMutex
	movies map[int64]*models.Movie
	nextID int64
}

// NewMovieRepository creates an in-memory movie repository
func NewMovieRepository() repository.MovieRepository {
	return &movieRepository{movies: make(map[int64]*models.Movie), nextID: 1}
}

func (r *movieRepository) Create(_ context.Context, movie *models.Movie) (*models.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if movie.Type == "" {
		movie.Type = models.MovieTypeMine
	}
	if movie.CreatedAt.IsZero() {
		movie.CreatedAt = time.Now()
	}
	movie.CreatedAt = movie.CreatedAt.Truncate(time.Second)
	if movie.WatchDate != nil {
		wd := movie.WatchDate.Truncate(time.Second)
		movie.WatchDate = &wd
	}

	movie.ID = r.nextID
	r.nextID++

	stored := copyMovie(movie)
	r.movies[movie.ID] = stored
	return movie, nil
}

func (r *movieRepository) GetByID(_ context.Context, id int64) (*models.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	movie, ok := r.movies[id]
	if !ok {
		return nil, nil
	}
	return copyMovie(movie), nil
}

func (r *movieRepository) Update(_ context.Context, movie *models.Movie) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.movies[movie.ID]
	if !ok {
		return false, nil
	}
	existing.Title = movie.Title
	existing.Description = movie.Description
	existing.Type = movie.Type
	existing.Rating = copyIntPtr(movie.Rating)
	existing.Watched = movie.Watched
	existing.WatchDate = copyTimePtr(movie.WatchDate)
	existing.Review = movie.Review
	return true, nil
}

func (r *movieRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.movies[id]; !ok {
		return false, nil
	}
	delete(r.movies, id)
	return true, nil
}

func (r *movieRepository) ListOwn(_ context.Context, userID int64) ([]*models.Movie, error) {
	return r.list(func(m *models.Movie) bool {
		return m.CreatedBy == userID && m.Type == models.MovieTypeMine
	}), nil
}

func (r *movieRepository) ListOfPartner(_ context.Context, viewer *models.User) ([]*models.Movie, error) {
	if !viewer.HasPartner() {
		return nil, nil
	}
	partner := *viewer.PartnerID
	return r.list(func(m *models.Movie) bool {
		return m.CreatedBy == partner && m.Type == models.MovieTypePartner
	}), nil
}

func (r *movieRepository) SetRating(_ context.Context, id int64, rating int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	movie, ok := r.movies[id]
	if !ok {
		return false, nil
	}
	movie.Rating = &rating
	return true, nil
}

func (r *movieRepository) SetWatched(_ context.Context, id int64, watched bool, watchDate *time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	movie, ok := r.movies[id]
	if !ok {
		return false, nil
	}
	movie.Watched = watched
	if watchDate != nil {
		wd := watchDate.Truncate(time.Second)
		watchDate = &wd
	}
	movie.WatchDate = copyTimePtr(watchDate)
	return true, nil
}

func (r *movieRepository) Stats(_ context.Context, userID int64) (*models.MovieStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &models.MovieStats{}
	var ratingSum, rated int
	for _, m := range r.movies {
		if m.CreatedBy != userID {
			continue
		}
		stats.Total++
		if m.Watched {
			stats.Watched++
		}
		if m.Rating != nil {
			ratingSum += *m.Rating
			rated++
		}
	}
	if rated > 0 {
		stats.AvgRating = math.Round(float64(ratingSum)/float64(rated)*10) / 10
	}
	return stats, nil
}

func (r *movieRepository) list(match func(*models.Movie) bool) []*models.Movie {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var movies []*models.Movie
	for _, m := range r.movies {
		if match(m) {
			movies = append(movies, copyMovie(m))
		}
	}
	sort.Slice(movies, func(i, j int) bool {
		if !movies[i].CreatedAt.Equal(movies[j].CreatedAt) {
			return movies[i].CreatedAt.After(movies[j].CreatedAt)
		}
		return movies[i].ID < movies[j].ID
	})
	return movies
}

func copyMovie(m *models.Movie) *models.Movie {
	copied := *m
	copied.Rating = copyIntPtr(m.Rating)
	copied.WatchDate = copyTimePtr(m.WatchDate)
	return &copied
}

func copyIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyTimePtr(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
