package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Kerhoff/couplebot/internal/models"
)

func TestTaskInfo(t *testing.T) {
	task := &models.Task{
		Title:     "buy flowers",
		Type:      models.TaskTypeForPartner,
		Status:    models.TaskStatusActive,
		CreatedBy: 111,
		CreatedAt: time.Date(2026, 9, 1, 18, 30, 0, 0, time.UTC),
	}

	text := taskInfo(task, 111)
	assert.Contains(t, text, "buy flowers")
	assert.Contains(t, text, "No description")
	assert.Contains(t, text, "For partner")
	assert.Contains(t, text, "Active")
	assert.Contains(t, text, "Created by: You")
	assert.Contains(t, text, "01.09.2026 18:30")

	// The partner sees the same card with the creator flipped.
	assert.Contains(t, taskInfo(task, 222), "Created by: Your partner")
}

func TestTaskInfoCompleted(t *testing.T) {
	task := &models.Task{Title: "done", Status: models.TaskStatusCompleted, Type: models.TaskTypeForMe}
	assert.Contains(t, taskInfo(task, 1), "Completed")
}

func TestWishInfoImageLine(t *testing.T) {
	wish := &models.Wish{Title: "headphones", Type: models.WishTypeMine}
	assert.Contains(t, wishInfo(wish, 1), "Image: none")

	wish.ImageID = "file-1"
	assert.Contains(t, wishInfo(wish, 1), "Image: attached")
}

func TestMovieInfoUnwatched(t *testing.T) {
	movie := &models.Movie{Title: "Arrival", Type: models.MovieTypeMine}

	text := movieInfo(movie, 1)
	assert.Contains(t, text, "not watched yet")
	assert.NotContains(t, text, "Rating")
	assert.NotContains(t, text, "Review")
}

func TestMovieInfoWatchedWithRatingAndReview(t *testing.T) {
	rating := 5
	watched := time.Date(2026, 8, 30, 21, 0, 0, 0, time.UTC)
	movie := &models.Movie{
		Title:     "Arrival",
		Type:      models.MovieTypeMine,
		Watched:   true,
		WatchDate: &watched,
		Rating:    &rating,
		Review:    "loved it",
	}

	text := movieInfo(movie, 1)
	assert.Contains(t, text, "watched on 30.08.2026")
	assert.Contains(t, text, "Rating: 5/5")
	assert.Contains(t, text, "Review: loved it")
}

func TestListItemLabels(t *testing.T) {
	tasks := taskListItems([]*models.Task{
		{ID: 1, Title: "active", Status: models.TaskStatusActive},
		{ID: 2, Title: "done", Status: models.TaskStatusCompleted},
	})
	assert.Equal(t, "🔄 active", tasks[0].Label)
	assert.Equal(t, "✅ done", tasks[1].Label)

	wishes := wishListItems([]*models.Wish{
		{ID: 1, Title: "plain"},
		{ID: 2, Title: "with photo", ImageID: "f"},
	})
	assert.Equal(t, "🎁 plain", wishes[0].Label)
	assert.Equal(t, "🖼 with photo", wishes[1].Label)

	movies := movieListItems([]*models.Movie{
		{ID: 1, Title: "queued"},
		{ID: 2, Title: "seen", Watched: true},
	})
	assert.Equal(t, "🎬 queued", movies[0].Label)
	assert.Equal(t, "🍿 seen", movies[1].Label)
}

func TestSplitIDContext(t *testing.T) {
	id, ctx, err := splitIDContext("42:my_tasks")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "my_tasks", ctx)

	id, ctx, err = splitIDContext("7")
	assert.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Empty(t, ctx)

	_, _, err = splitIDContext("abc:ctx")
	assert.Error(t, err)
}
