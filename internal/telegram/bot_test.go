package telegram

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testBot() *Bot {
	l := testLogger()
	return &Bot{
		logger: l,
		router: NewRouter(l, func(int64) bool { return true }),
		queues: make(map[int64]chan tgbotapi.Update),
	}
}

func textUpdate(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: userID},
		Text: text,
	}}
}

func TestDispatchSerializesUpdatesPerUser(t *testing.T) {
	b := testBot()

	var mu sync.Mutex
	var active, maxActive int
	var order []string
	var wg sync.WaitGroup

	b.router.RegisterFlowInput(CommandFunc(func(_ Sender, message *tgbotapi.Message, _ []string) error {
		mu.Lock()
		active++
		if active > maxActive {
			maxActive = active
		}
		mu.Unlock()

		time.Sleep(2 * time.Millisecond)

		mu.Lock()
		order = append(order, message.Text)
		active--
		mu.Unlock()
		wg.Done()
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inputs := []string{"first", "second", "third", "fourth"}
	wg.Add(len(inputs))
	for _, text := range inputs {
		b.dispatch(ctx, textUpdate(111, text))
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, maxActive, "two updates from the same user must never run concurrently")
	assert.Equal(t, inputs, order, "updates must be handled in arrival order")
}

func TestDispatchKeepsSeparateQueuesPerUser(t *testing.T) {
	b := testBot()

	var mu sync.Mutex
	seen := make(map[int64]int)
	var wg sync.WaitGroup

	b.router.RegisterFlowInput(CommandFunc(func(_ Sender, message *tgbotapi.Message, _ []string) error {
		mu.Lock()
		seen[message.From.ID]++
		mu.Unlock()
		wg.Done()
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg.Add(4)
	b.dispatch(ctx, textUpdate(111, "a"))
	b.dispatch(ctx, textUpdate(222, "b"))
	b.dispatch(ctx, textUpdate(111, "c"))
	b.dispatch(ctx, textUpdate(222, "d"))
	wg.Wait()

	require.Len(t, b.queues, 2)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, seen[111])
	assert.Equal(t, 2, seen[222])
}

func TestUpdateUserID(t *testing.T) {
	assert.Equal(t, int64(111), updateUserID(textUpdate(111, "hi")))
	assert.Equal(t, int64(222), updateUserID(tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{From: &tgbotapi.User{ID: 222}},
	}))
	assert.Equal(t, int64(0), updateUserID(tgbotapi.Update{}))
}
