package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/couplebot/internal/models"
)

func newMovieRepo() *movieRepository {
	return NewMovieRepository().(*movieRepository)
}

func mustCreateMovie(t *testing.T, repo *movieRepository, movie *models.Movie) *models.Movie {
	t.Helper()
	created, err := repo.Create(context.Background(), movie)
	require.NoError(t, err)
	return created
}

func TestMovieRoundTrip(t *testing.T) {
	repo := newMovieRepo()
	ctx := context.Background()

	created := mustCreateMovie(t, repo, &models.Movie{
		Title:       "Arrival",
		Description: "rewatch",
		Type:        models.MovieTypeMine,
		CreatedBy:   alice,
	})

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.False(t, got.Watched)
	assert.False(t, got.IsRated())
}

func TestMovieOwnViewMatchesLiteralTag(t *testing.T) {
	repo := newMovieRepo()
	ctx := context.Background()

	own := mustCreateMovie(t, repo, &models.Movie{Title: "mine", Type: models.MovieTypeMine, CreatedBy: alice})
	// Tagged for the partner's list: not in the own view.
	mustCreateMovie(t, repo, &models.Movie{Title: "for bob's list", Type: models.MovieTypePartner, CreatedBy: alice})
	mustCreateMovie(t, repo, &models.Movie{Title: "bob's", Type: models.MovieTypeMine, CreatedBy: bob})

	movies, err := repo.ListOwn(ctx, alice)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, own.ID, movies[0].ID)
}

func TestMoviePartnerViewMatchesLiteralTag(t *testing.T) {
	repo := newMovieRepo()
	ctx := context.Background()

	theirs := mustCreateMovie(t, repo, &models.Movie{Title: "bob partner-tagged", Type: models.MovieTypePartner, CreatedBy: bob})
	mustCreateMovie(t, repo, &models.Movie{Title: "bob's own list", Type: models.MovieTypeMine, CreatedBy: bob})

	movies, err := repo.ListOfPartner(ctx, pairedUser(alice, bob))
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, theirs.ID, movies[0].ID)
}

func TestMoviePartnerViewEmptyWithoutPartner(t *testing.T) {
	repo := newMovieRepo()

	mustCreateMovie(t, repo, &models.Movie{Title: "anything", Type: models.MovieTypePartner, CreatedBy: bob})

	movies, err := repo.ListOfPartner(context.Background(), &models.User{ID: alice})
	require.NoError(t, err)
	assert.Empty(t, movies)
}

func TestMovieSetWatchedAndRating(t *testing.T) {
	repo := newMovieRepo()
	ctx := context.Background()

	movie := mustCreateMovie(t, repo, &models.Movie{Title: "Dune", Type: models.MovieTypeMine, CreatedBy: alice})

	watchDate := time.Date(2026, 8, 30, 21, 15, 0, 0, time.UTC)
	ok, err := repo.SetWatched(ctx, movie.ID, true, &watchDate)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.SetRating(ctx, movie.ID, 4)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.GetByID(ctx, movie.ID)
	require.NoError(t, err)
	assert.True(t, got.Watched)
	require.NotNil(t, got.WatchDate)
	assert.Equal(t, watchDate, *got.WatchDate)
	require.True(t, got.IsRated())
	assert.Equal(t, 4, *got.Rating)
}

func TestMovieSetWatchedFalseClearsNothingElse(t *testing.T) {
	repo := newMovieRepo()
	ctx := context.Background()

	movie := mustCreateMovie(t, repo, &models.Movie{Title: "Heat", Type: models.MovieTypeMine, CreatedBy: alice})
	now := time.Now()
	_, err := repo.SetWatched(ctx, movie.ID, true, &now)
	require.NoError(t, err)
	_, err = repo.SetRating(ctx, movie.ID, 5)
	require.NoError(t, err)

	ok, err := repo.SetWatched(ctx, movie.ID, false, nil)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.GetByID(ctx, movie.ID)
	require.NoError(t, err)
	assert.False(t, got.Watched)
	assert.Nil(t, got.WatchDate)
	assert.True(t, got.IsRated(), "rating survives an unwatch")
}

func TestMovieSetOnMissingReturnsFalse(t *testing.T) {
	repo := newMovieRepo()
	ctx := context.Background()

	ok, err := repo.SetRating(ctx, 404, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.SetWatched(ctx, 404, true, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMovieStats(t *testing.T) {
	repo := newMovieRepo()
	ctx := context.Background()

	seed := func(rating int, watched bool) {
		movie := mustCreateMovie(t, repo, &models.Movie{Title: "m", Type: models.MovieTypeMine, CreatedBy: alice})
		if watched {
			now := time.Now()
			_, err := repo.SetWatched(ctx, movie.ID, true, &now)
			require.NoError(t, err)
		}
		if rating > 0 {
			_, err := repo.SetRating(ctx, movie.ID, rating)
			require.NoError(t, err)
		}
	}
	seed(5, true)
	seed(4, true)
	seed(0, true) // watched but unrated
	seed(0, false)
	// Another user's rows never count.
	mustCreateMovie(t, repo, &models.Movie{Title: "bob's", Type: models.MovieTypeMine, CreatedBy: bob})

	stats, err := repo.Stats(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Watched)
	assert.InDelta(t, 4.5, stats.AvgRating, 0.001)
}

func TestMovieStatsEmpty(t *testing.T) {
	repo := newMovieRepo()

	stats, err := repo.Stats(context.Background(), alice)
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.Watched)
	assert.Zero(t, stats.AvgRating)
}

func TestMovieStatsRounding(t *testing.T) {
	repo := newMovieRepo()
	ctx := context.Background()

	for _, rating := range []int{5, 4, 4} {
		movie := mustCreateMovie(t, repo, &models.Movie{Title: "m", Type: models.MovieTypeMine, CreatedBy: alice})
		_, err := repo.SetRating(ctx, movie.ID, rating)
		require.NoError(t, err)
	}

	stats, err := repo.Stats(ctx, alice)
	require.NoError(t, err)
	// 13/3 = 4.333..., rounded to one decimal.
	assert.Equal(t, 4.3, stats.AvgRating)
}
