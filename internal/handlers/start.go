package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/couplebot/internal/service"
	"github.com/Kerhoff/couplebot/internal/session"
	"github.com/Kerhoff/couplebot/internal/telegram"
)

// StartHandler handles /start: it registers the user in the pairing registry
// and shows the main keyboard. The allow-list gate already ran in the router.
type StartHandler struct {
	svc      *service.Service
	sessions *session.Store
	logger   *logrus.Logger
}

// NewStartHandler creates a new StartHandler.
func NewStartHandler(svc *service.Service, sessions *session.Store, logger *logrus.Logger) *StartHandler {
	return &StartHandler{svc: svc, sessions: sessions, logger: logger}
}

// Handle processes the /start command.
func (h *StartHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	ctx := context.Background()

	user, err := h.svc.RegisterUser(ctx, message.From.ID)
	if err != nil {
		return err
	}

	// A fresh /start abandons any dangling flow.
	h.sessions.Clear(message.From.ID)

	h.logger.WithFields(logrus.Fields{
		"user_id":     user.ID,
		"has_partner": user.HasPartner(),
	}).Info("User started the bot")

	replyKb(bot, message.Chat.ID,
		"👋 Hi! This is a shared task bot for the two of you.\n"+
			"You can create tasks for yourself, your partner or both, "+
			"keep gift wish lists and a movie watch-list.",
		mainKeyboard())
	return nil
}

// CancelHandler aborts the active flow from any state without persisting.
type CancelHandler struct {
	sessions *session.Store
	logger   *logrus.Logger
}

// NewCancelHandler creates a new CancelHandler.
func NewCancelHandler(sessions *session.Store, logger *logrus.Logger) *CancelHandler {
	return &CancelHandler{sessions: sessions, logger: logger}
}

// Handle processes the /cancel command.
func (h *CancelHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	h.sessions.Clear(message.From.ID)
	replyKb(bot, message.Chat.ID, "❌ Action cancelled.", mainKeyboard())
	return nil
}

// HandleCallback processes the inline "cancel" button.
func (h *CancelHandler) HandleCallback(bot telegram.Sender, query *tgbotapi.CallbackQuery, _ string) error {
	h.sessions.Clear(query.From.ID)
	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID,
		"❌ Action cancelled.")
	bot.Send(edit)
	replyKb(bot, query.Message.Chat.ID, "What would you like to do next?", mainKeyboard())
	return nil
}

// MainMenuHandler returns the user to the main menu from an inline list.
type MainMenuHandler struct{}

// Handle processes the "main_menu" callback.
func (h *MainMenuHandler) Handle(bot telegram.Sender, query *tgbotapi.CallbackQuery, _ string) error {
	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID,
		"You are back in the main menu.")
	bot.Send(edit)
	replyKb(bot, query.Message.Chat.ID, "What would you like to do?", mainKeyboard())
	return nil
}

var _ telegram.CommandHandler = (*StartHandler)(nil)
var _ telegram.CommandHandler = (*CancelHandler)(nil)
var _ telegram.CallbackHandler = (*MainMenuHandler)(nil)
