// Package handlers wires the conversational flows: reply keyboard entry
// points, inline callback actions and flow text input for tasks, wishes and
// movies.
package handlers

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Kerhoff/couplebot/internal/telegram"
)

// Shorthand for the router's function adapters.
type commandFunc = telegram.CommandFunc
type callbackFunc = telegram.CallbackFunc

func reply(bot telegram.Sender, chatID int64, text string) {
	bot.Send(tgbotapi.NewMessage(chatID, text))
}

func replyKb(bot telegram.Sender, chatID int64, text string, kb interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	bot.Send(msg)
}

// editOrSend replaces the inline message the callback originated from, or
// sends a new message when the original cannot be edited (e.g. a photo).
func editOrSend(bot telegram.Sender, query *tgbotapi.CallbackQuery, text string, kb tgbotapi.InlineKeyboardMarkup) {
	if query.Message == nil {
		return
	}
	if len(query.Message.Photo) > 0 {
		replyKb(bot, query.Message.Chat.ID, text, kb)
		return
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		query.Message.Chat.ID, query.Message.MessageID, text, kb)
	if _, err := bot.Send(edit); err != nil {
		replyKb(bot, query.Message.Chat.ID, text, kb)
	}
}

// splitIDContext parses callback data of the form "<id>:<context>".
func splitIDContext(data string) (int64, string, error) {
	parts := strings.SplitN(data, ":", 2)
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid id in callback data %q: %w", data, err)
	}
	context := ""
	if len(parts) > 1 {
		context = parts[1]
	}
	return id, context, nil
}
