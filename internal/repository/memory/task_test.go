package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/couplebot/internal/models"
)

const (
	alice int64 = 111
	bob   int64 = 222
)

func pairedUser(id, partner int64) *models.User {
	return &models.User{ID: id, PartnerID: &partner}
}

func mustCreateTask(t *testing.T, repo *taskRepository, task *models.Task) *models.Task {
	t.Helper()
	created, err := repo.Create(context.Background(), task)
	require.NoError(t, err)
	return created
}

func newTaskRepo() *taskRepository {
	return NewTaskRepository().(*taskRepository)
}

func TestTaskCreateAssignsMonotonicIDs(t *testing.T) {
	repo := newTaskRepo()
	ctx := context.Background()

	first := mustCreateTask(t, repo, &models.Task{Title: "a", Type: models.TaskTypeForMe, CreatedBy: alice})
	second := mustCreateTask(t, repo, &models.Task{Title: "b", Type: models.TaskTypeForMe, CreatedBy: alice})
	assert.Greater(t, second.ID, first.ID)

	ok, err := repo.Delete(ctx, second.ID)
	require.NoError(t, err)
	require.True(t, ok)

	third := mustCreateTask(t, repo, &models.Task{Title: "c", Type: models.TaskTypeForMe, CreatedBy: alice})
	assert.Greater(t, third.ID, second.ID, "ids are never reused after deletion")
}

func TestTaskCreateDefaults(t *testing.T) {
	repo := newTaskRepo()

	task := mustCreateTask(t, repo, &models.Task{Title: "defaults", Type: models.TaskTypeForMe, CreatedBy: alice})
	assert.Equal(t, models.TaskStatusActive, task.Status)
	assert.False(t, task.CreatedAt.IsZero())
	assert.Equal(t, task.CreatedAt, task.CreatedAt.Truncate(time.Second))
}

func TestTaskRoundTrip(t *testing.T) {
	repo := newTaskRepo()
	ctx := context.Background()

	created := mustCreateTask(t, repo, &models.Task{
		Title:       "buy flowers",
		Description: "tulips",
		Type:        models.TaskTypeForPartner,
		CreatedBy:   alice,
	})

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created, got)
}

func TestTaskGetMissingReturnsNil(t *testing.T) {
	repo := newTaskRepo()

	got, err := repo.GetByID(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTaskUpdateMissingReturnsFalse(t *testing.T) {
	repo := newTaskRepo()

	ok, err := repo.Update(context.Background(), &models.Task{ID: 404, Title: "ghost"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTaskDoubleDeleteReturnsFalse(t *testing.T) {
	repo := newTaskRepo()
	ctx := context.Background()

	task := mustCreateTask(t, repo, &models.Task{Title: "once", Type: models.TaskTypeForMe, CreatedBy: alice})

	ok, err := repo.Delete(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTaskMyViewAudience(t *testing.T) {
	repo := newTaskRepo()
	ctx := context.Background()

	mine := mustCreateTask(t, repo, &models.Task{Title: "mine", Type: models.TaskTypeForMe, CreatedBy: alice})
	fromPartner := mustCreateTask(t, repo, &models.Task{Title: "from partner", Type: models.TaskTypeForPartner, CreatedBy: bob})
	shared := mustCreateTask(t, repo, &models.Task{Title: "shared", Type: models.TaskTypeForBoth, CreatedBy: bob})
	// Invisible in Alice's "my" view:
	mustCreateTask(t, repo, &models.Task{Title: "for bob", Type: models.TaskTypeForPartner, CreatedBy: alice})
	mustCreateTask(t, repo, &models.Task{Title: "bob's own", Type: models.TaskTypeForMe, CreatedBy: bob})

	tasks, err := repo.ListForUser(ctx, pairedUser(alice, bob), models.TaskStatusActive)
	require.NoError(t, err)

	ids := taskIDs(tasks)
	assert.ElementsMatch(t, []int64{mine.ID, fromPartner.ID, shared.ID}, ids)
}

func TestTaskPartnerViewAudience(t *testing.T) {
	repo := newTaskRepo()
	ctx := context.Background()

	forBob := mustCreateTask(t, repo, &models.Task{Title: "for bob", Type: models.TaskTypeForPartner, CreatedBy: alice})
	bobsOwn := mustCreateTask(t, repo, &models.Task{Title: "bob's own", Type: models.TaskTypeForMe, CreatedBy: bob})
	// Shared tasks belong to the common view, not the partner view.
	mustCreateTask(t, repo, &models.Task{Title: "shared", Type: models.TaskTypeForBoth, CreatedBy: alice})

	tasks, err := repo.ListForPartner(ctx, pairedUser(alice, bob), models.TaskStatusActive)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{forBob.ID, bobsOwn.ID}, taskIDs(tasks))
}

func TestTaskPartnerViewEmptyWithoutPartner(t *testing.T) {
	repo := newTaskRepo()
	ctx := context.Background()

	mustCreateTask(t, repo, &models.Task{Title: "orphan", Type: models.TaskTypeForPartner, CreatedBy: alice})

	tasks, err := repo.ListForPartner(ctx, &models.User{ID: alice}, models.TaskStatusActive)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskSharedViewSymmetric(t *testing.T) {
	repo := newTaskRepo()
	ctx := context.Background()

	byAlice := mustCreateTask(t, repo, &models.Task{Title: "by alice", Type: models.TaskTypeForBoth, CreatedBy: alice})
	byBob := mustCreateTask(t, repo, &models.Task{Title: "by bob", Type: models.TaskTypeForBoth, CreatedBy: bob})

	want := []int64{byAlice.ID, byBob.ID}

	fromAlice, err := repo.ListShared(ctx, pairedUser(alice, bob), models.TaskStatusActive)
	require.NoError(t, err)
	assert.ElementsMatch(t, want, taskIDs(fromAlice))

	fromBob, err := repo.ListShared(ctx, pairedUser(bob, alice), models.TaskStatusActive)
	require.NoError(t, err)
	assert.ElementsMatch(t, want, taskIDs(fromBob))
}

func TestTaskCompletedViewUnionsAllAudiences(t *testing.T) {
	repo := newTaskRepo()
	ctx := context.Background()

	var want []int64
	for _, seed := range []struct {
		taskType  models.TaskType
		createdBy int64
	}{
		{models.TaskTypeForMe, alice},
		{models.TaskTypeForPartner, alice},
		{models.TaskTypeForMe, bob},
		{models.TaskTypeForPartner, bob},
		{models.TaskTypeForBoth, alice},
		{models.TaskTypeForBoth, bob},
	} {
		task := mustCreateTask(t, repo, &models.Task{
			Title:     "done",
			Type:      seed.taskType,
			Status:    models.TaskStatusCompleted,
			CreatedBy: seed.createdBy,
		})
		want = append(want, task.ID)
	}
	// An active task never shows up in the completed view.
	mustCreateTask(t, repo, &models.Task{Title: "active", Type: models.TaskTypeForMe, CreatedBy: alice})

	tasks, err := repo.ListCompleted(ctx, pairedUser(alice, bob))
	require.NoError(t, err)
	assert.ElementsMatch(t, want, taskIDs(tasks))
}

func TestTaskStatusFilterExcludesCompleted(t *testing.T) {
	repo := newTaskRepo()
	ctx := context.Background()

	active := mustCreateTask(t, repo, &models.Task{Title: "active", Type: models.TaskTypeForMe, CreatedBy: alice})
	done := mustCreateTask(t, repo, &models.Task{Title: "done", Type: models.TaskTypeForMe, CreatedBy: alice})
	done.Status = models.TaskStatusCompleted
	ok, err := repo.Update(ctx, done)
	require.NoError(t, err)
	require.True(t, ok)

	tasks, err := repo.ListForUser(ctx, pairedUser(alice, bob), models.TaskStatusActive)
	require.NoError(t, err)
	assert.Equal(t, []int64{active.ID}, taskIDs(tasks))
}

func TestTaskListOrdering(t *testing.T) {
	repo := newTaskRepo()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	older := mustCreateTask(t, repo, &models.Task{Title: "older", Type: models.TaskTypeForMe, CreatedBy: alice, CreatedAt: base})
	tieFirst := mustCreateTask(t, repo, &models.Task{Title: "tie 1", Type: models.TaskTypeForMe, CreatedBy: alice, CreatedAt: base.Add(time.Hour)})
	tieSecond := mustCreateTask(t, repo, &models.Task{Title: "tie 2", Type: models.TaskTypeForMe, CreatedBy: alice, CreatedAt: base.Add(time.Hour)})

	tasks, err := repo.ListForUser(ctx, pairedUser(alice, bob), models.TaskStatusActive)
	require.NoError(t, err)

	// Newest first; equal timestamps fall back to ascending id.
	assert.Equal(t, []int64{tieFirst.ID, tieSecond.ID, older.ID}, taskIDs(tasks))
}

func TestTaskListReturnsCopies(t *testing.T) {
	repo := newTaskRepo()
	ctx := context.Background()

	created := mustCreateTask(t, repo, &models.Task{Title: "original", Type: models.TaskTypeForMe, CreatedBy: alice})

	tasks, err := repo.ListForUser(ctx, pairedUser(alice, bob), models.TaskStatusActive)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	tasks[0].Title = "mutated"

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Title)
}

func taskIDs(tasks []*models.Task) []int64 {
	ids := make([]int64, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	return ids
}
