package service

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/couplebot/internal/models"
	"github.com/Kerhoff/couplebot/internal/repository/memory"
)

const (
	alice int64 = 111
	bob   int64 = 222
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestService(send SendFunc) *Service {
	l := testLogger()
	if send == nil {
		send = func(int64, string) error { return nil }
	}
	return New(l, []int64{alice, bob}, NewNotifier(send, l),
		memory.NewUserRepository(),
		memory.NewTaskRepository(),
		memory.NewWishRepository(),
		memory.NewMovieRepository(),
	)
}

func TestIsAllowed(t *testing.T) {
	svc := newTestService(nil)

	assert.True(t, svc.IsAllowed(alice))
	assert.True(t, svc.IsAllowed(bob))
	assert.False(t, svc.IsAllowed(333))
}

func TestRegisterUserPairsWithOtherMember(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, alice)
	require.NoError(t, err)
	require.True(t, user.HasPartner())
	assert.Equal(t, bob, *user.PartnerID)

	// The back-link makes Bob's row exist before he ever sends /start.
	partner, err := svc.Users.Get(ctx, bob)
	require.NoError(t, err)
	require.NotNil(t, partner)
	require.True(t, partner.HasPartner())
	assert.Equal(t, alice, *partner.PartnerID)
}

func TestRegisterUserIsIdempotent(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, alice)
	require.NoError(t, err)
	_, err = svc.RegisterUser(ctx, bob)
	require.NoError(t, err)
	user, err := svc.RegisterUser(ctx, alice)
	require.NoError(t, err)

	assert.Equal(t, bob, *user.PartnerID)

	partner, err := svc.Users.Get(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, alice, *partner.PartnerID)
}

func TestViewerForUnregisteredUser(t *testing.T) {
	svc := newTestService(nil)

	viewer, err := svc.Viewer(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, alice, viewer.ID)
	assert.False(t, viewer.HasPartner())
	assert.Equal(t, models.NoPartnerSentinel, viewer.PartnerOrSentinel())
}

func TestNotifyPartnerEnqueuesForPartner(t *testing.T) {
	delivered := make(chan Notification, 1)
	svc := newTestService(func(chatID int64, text string) error {
		delivered <- Notification{ChatID: chatID, Text: text}
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Notifier.Start(ctx)

	_, err := svc.RegisterUser(ctx, alice)
	require.NoError(t, err)

	svc.NotifyPartner(ctx, alice, "ping")

	msg := <-delivered
	assert.Equal(t, bob, msg.ChatID)
	assert.Equal(t, "ping", msg.Text)
}

func TestNotifyPartnerWithoutPartnerIsNoOp(t *testing.T) {
	sent := make(chan Notification, 1)
	svc := newTestService(func(chatID int64, text string) error {
		sent <- Notification{ChatID: chatID, Text: text}
		return nil
	})

	// Alice never registered, so there is no partner to notify.
	svc.NotifyPartner(context.Background(), alice, "ping")

	sentCount, failed, dropped := svc.Notifier.Counts()
	assert.Zero(t, sentCount)
	assert.Zero(t, failed)
	assert.Zero(t, dropped)
	assert.Empty(t, sent)
}

func TestRateMovieValidatesRange(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	movie, err := svc.Movies.Create(ctx, &models.Movie{Title: "Alien", Type: models.MovieTypeMine, CreatedBy: alice})
	require.NoError(t, err)

	for _, bad := range []int{0, 6, -1} {
		_, err := svc.RateMovie(ctx, movie.ID, bad)
		assert.ErrorIs(t, err, ErrInvalidRating)
	}

	ok, err := svc.RateMovie(ctx, movie.ID, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := svc.Movies.GetByID(ctx, movie.ID)
	require.NoError(t, err)
	require.True(t, got.IsRated())
	assert.Equal(t, 5, *got.Rating)
}

func TestRateMovieMissingReturnsFalse(t *testing.T) {
	svc := newTestService(nil)

	ok, err := svc.RateMovie(context.Background(), 404, 3)
	require.NoError(t, err)
	assert.False(t, ok)
}
