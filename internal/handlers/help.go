package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/couplebot/internal/telegram"
)

// HelpHandler handles the /help command.
type HelpHandler struct {
	logger *logrus.Logger
}

// NewHelpHandler creates a new HelpHandler.
func NewHelpHandler(logger *logrus.Logger) *HelpHandler {
	return &HelpHandler{logger: logger}
}

// Handle processes the /help command.
func (h *HelpHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	helpText := "🤖 Couple bot\n\n" +
		"A shared space for the two of you:\n" +
		"• Tasks — for yourself, your partner or both, with partner notifications\n" +
		"• Wishes — gift ideas with optional photos, visible to your partner\n" +
		"• Movies — a watch-list with ratings and reviews\n\n" +
		"Commands:\n" +
		"/start — start the bot\n" +
		"/cancel — abort the current dialog\n" +
		"/help — show this message\n\n" +
		"Everything else works through the keyboard below."

	replyKb(bot, message.Chat.ID, helpText, mainKeyboard())
	return nil
}
