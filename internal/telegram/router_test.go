package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI records sends and callback answers.
type fakeAPI struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func callbackQuery(userID int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:   "cb",
		From: &tgbotapi.User{ID: userID},
		Data: data,
		Message: &tgbotapi.Message{
			MessageID: 7,
			Chat:      &tgbotapi.Chat{ID: userID},
		},
	}
}

func TestCallbackRoutesByPrefix(t *testing.T) {
	r := NewRouter(testLogger(), func(int64) bool { return true })

	var got string
	r.RegisterCallback("view_task:", CallbackFunc(func(_ Sender, _ *tgbotapi.CallbackQuery, data string) error {
		got = data
		return nil
	}))

	api := &fakeAPI{}
	r.HandleCallbackQuery(api, callbackQuery(111, "view_task:5:my_tasks"))

	assert.Equal(t, "5:my_tasks", got, "prefix must be stripped from the payload")
	require.Len(t, api.requests, 1, "the query must be answered")
}

func TestCallbackWithoutMessageIsIgnored(t *testing.T) {
	r := NewRouter(testLogger(), func(int64) bool { return true })

	called := false
	r.RegisterCallback("view_task:", CallbackFunc(func(Sender, *tgbotapi.CallbackQuery, string) error {
		called = true
		return nil
	}))

	api := &fakeAPI{}
	query := callbackQuery(111, "view_task:5:my_tasks")
	query.Message = nil
	r.HandleCallbackQuery(api, query)

	assert.False(t, called, "a stale callback with no message must not reach handlers")
	assert.Len(t, api.requests, 1, "the query is still answered to clear the loading state")
}

func TestCallbackFromUnknownUserIsRejected(t *testing.T) {
	r := NewRouter(testLogger(), func(id int64) bool { return id == 111 })

	called := false
	r.RegisterCallback("view_task:", CallbackFunc(func(Sender, *tgbotapi.CallbackQuery, string) error {
		called = true
		return nil
	}))

	api := &fakeAPI{}
	r.HandleCallbackQuery(api, callbackQuery(999, "view_task:5:my_tasks"))

	assert.False(t, called)
}

func TestMessageFromUnknownUserGetsRejection(t *testing.T) {
	r := NewRouter(testLogger(), func(id int64) bool { return id == 111 })

	called := false
	r.RegisterFlowInput(CommandFunc(func(Sender, *tgbotapi.Message, []string) error {
		called = true
		return nil
	}))

	api := &fakeAPI{}
	r.HandleMessage(api, textUpdate(999, "hello").Message)

	assert.False(t, called)
	require.Len(t, api.sent, 1)
	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Contains(t, msg.Text, "private")
}
