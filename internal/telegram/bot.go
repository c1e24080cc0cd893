package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Bot wraps the Telegram bot API
type Bot struct {
	api    *tgbotapi.BotAPI
	logger *logrus.Logger
	router *Router

	// Per-user update queues. Only the Start loop touches the map.
	queues map[int64]chan tgbotapi.Update
}

// NewBot creates a new Telegram bot instance. authorize gates every update
// against the allow-list.
func NewBot(token string, logger *logrus.Logger, authorize func(userID int64) bool) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	logger.Infof("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:    api,
		logger: logger,
		router: NewRouter(logger, authorize),
		queues: make(map[int64]chan tgbotapi.Update),
	}, nil
}

// Start starts the bot with long polling
func (b *Bot) Start(ctx context.Context) error {
	// Delete webhook if exists and use polling
	_, err := b.api.Request(tgbotapi.DeleteWebhookConfig{})
	if err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("Bot started with long polling")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Stopping bot...")
			b.api.StopReceivingUpdates()
			return nil
		case update := <-updates:
			b.dispatch(ctx, update)
		}
	}
}

// dispatch hands the update to a per-user worker. Updates from the same user
// are handled strictly in order: a flow step must finish before the next
// input for that session is processed. Updates from different users still
// run in parallel.
func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	userID := updateUserID(update)
	queue, ok := b.queues[userID]
	if !ok {
		queue = make(chan tgbotapi.Update, 16)
		b.queues[userID] = queue
		go b.worker(ctx, queue)
	}
	select {
	case queue <- update:
	default:
		b.logger.WithField("user_id", userID).Warn("Update queue full, dropping update")
	}
}

func (b *Bot) worker(ctx context.Context, queue <-chan tgbotapi.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case update := <-queue:
			b.handleUpdate(update)
		}
	}
}

func updateUserID(update tgbotapi.Update) int64 {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID
	}
	return 0
}

// handleUpdate processes incoming updates
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Errorf("Panic in update handler: %v", r)
		}
	}()

	if update.Message != nil {
		b.router.HandleMessage(b.api, update.Message)
	} else if update.CallbackQuery != nil {
		b.router.HandleCallbackQuery(b.api, update.CallbackQuery)
	}
}

// SendMessage sends a message to a chat
func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)

	_, err := b.api.Send(msg)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// RegisterCommand registers a command handler on the router
func (b *Bot) RegisterCommand(command string, handler CommandHandler) {
	b.router.RegisterCommand(command, handler)
}

// RegisterText registers a reply-keyboard text handler on the router
func (b *Bot) RegisterText(text string, handler CommandHandler) {
	b.router.RegisterText(text, handler)
}

// RegisterCallback registers a callback prefix handler on the router
func (b *Bot) RegisterCallback(prefix string, handler CallbackHandler) {
	b.router.RegisterCallback(prefix, handler)
}

// RegisterFlowInput registers the fallback flow input handler on the router
func (b *Bot) RegisterFlowInput(handler CommandHandler) {
	b.router.RegisterFlowInput(handler)
}
