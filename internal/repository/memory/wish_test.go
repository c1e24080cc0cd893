package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/couplebot/internal/models"
)

func newWishRepo() *wishRepository {
	return NewWishRepository().(*wishRepository)
}

func mustCreateWish(t *testing.T, repo *wishRepository, wish *models.Wish) *models.Wish {
	t.Helper()
	created, err := repo.Create(context.Background(), wish)
	require.NoError(t, err)
	return created
}

func TestWishRoundTrip(t *testing.T) {
	repo := newWishRepo()
	ctx := context.Background()

	created := mustCreateWish(t, repo, &models.Wish{
		Title:       "new headphones",
		Description: "over-ear",
		ImageID:     "AgACAgIAAxkBAAI",
		Type:        models.WishTypeMine,
		CreatedBy:   alice,
	})
	require.NotZero(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.True(t, got.HasImage())
}

func TestWishOwnViewShowsOnlyOwnMineTagged(t *testing.T) {
	repo := newWishRepo()
	ctx := context.Background()

	visible := mustCreateWish(t, repo, &models.Wish{Title: "mine", Type: models.WishTypeMine, CreatedBy: alice})
	// Tagged for the partner: stored but surfaced by no view.
	mustCreateWish(t, repo, &models.Wish{Title: "tagged for partner", Type: models.WishTypePartner, CreatedBy: alice})
	mustCreateWish(t, repo, &models.Wish{Title: "bob's", Type: models.WishTypeMine, CreatedBy: bob})

	wishes, err := repo.ListOwn(ctx, alice)
	require.NoError(t, err)
	require.Len(t, wishes, 1)
	assert.Equal(t, visible.ID, wishes[0].ID)
}

func TestWishPartnerViewMirrorsPartnersOwnList(t *testing.T) {
	repo := newWishRepo()
	ctx := context.Background()

	bobs := mustCreateWish(t, repo, &models.Wish{Title: "bob's wish", Type: models.WishTypeMine, CreatedBy: bob})
	mustCreateWish(t, repo, &models.Wish{Title: "bob tagged partner", Type: models.WishTypePartner, CreatedBy: bob})
	mustCreateWish(t, repo, &models.Wish{Title: "alice's", Type: models.WishTypeMine, CreatedBy: alice})

	wishes, err := repo.ListOfPartner(ctx, pairedUser(alice, bob))
	require.NoError(t, err)
	require.Len(t, wishes, 1)
	assert.Equal(t, bobs.ID, wishes[0].ID)
}

func TestWishPartnerViewEmptyWithoutPartner(t *testing.T) {
	repo := newWishRepo()

	mustCreateWish(t, repo, &models.Wish{Title: "anything", Type: models.WishTypeMine, CreatedBy: bob})

	wishes, err := repo.ListOfPartner(context.Background(), &models.User{ID: alice})
	require.NoError(t, err)
	assert.Empty(t, wishes)
}

func TestWishUpdateImageCanBeCleared(t *testing.T) {
	repo := newWishRepo()
	ctx := context.Background()

	wish := mustCreateWish(t, repo, &models.Wish{Title: "with photo", ImageID: "file-1", Type: models.WishTypeMine, CreatedBy: alice})

	wish.ImageID = ""
	ok, err := repo.Update(ctx, wish)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.GetByID(ctx, wish.ID)
	require.NoError(t, err)
	assert.False(t, got.HasImage())
}

func TestWishDoubleDeleteReturnsFalse(t *testing.T) {
	repo := newWishRepo()
	ctx := context.Background()

	wish := mustCreateWish(t, repo, &models.Wish{Title: "once", Type: models.WishTypeMine, CreatedBy: alice})

	ok, err := repo.Delete(ctx, wish.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, wish.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
