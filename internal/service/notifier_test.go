package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierDelivers(t *testing.T) {
	delivered := make(chan Notification, 1)
	n := NewNotifier(func(chatID int64, text string) error {
		delivered <- Notification{ChatID: chatID, Text: text}
		return nil
	}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go n.Start(ctx)

	n.Notify(42, "hello")

	msg := <-delivered
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, "hello", msg.Text)

	require.Eventually(t, func() bool {
		sent, _, _ := n.Counts()
		return sent == 1
	}, time.Second, 10*time.Millisecond)
}

func TestNotifierSwallowsDeliveryFailure(t *testing.T) {
	attempted := make(chan struct{}, 1)
	n := NewNotifier(func(int64, string) error {
		attempted <- struct{}{}
		return errors.New("blocked by user")
	}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go n.Start(ctx)

	n.Notify(42, "hello")
	<-attempted

	require.Eventually(t, func() bool {
		_, failed, _ := n.Counts()
		return failed == 1
	}, time.Second, 10*time.Millisecond)
	sent, _, dropped := n.Counts()
	assert.Zero(t, sent)
	assert.Zero(t, dropped)
}

func TestNotifierDropsOnFullQueue(t *testing.T) {
	// No worker running, so the queue only fills.
	n := NewNotifier(func(int64, string) error { return nil }, testLogger())

	for i := 0; i < 64; i++ {
		n.Notify(1, "fill")
	}
	_, _, dropped := n.Counts()
	require.Zero(t, dropped)

	n.Notify(1, "overflow")

	_, _, dropped = n.Counts()
	assert.Equal(t, int64(1), dropped)
}
