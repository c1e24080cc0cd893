package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

var updatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "couplebot_updates_total",
	Help: "Number of routed Telegram updates.",
}, []string{"kind"})

// Sender is the part of the bot API handlers use to deliver replies.
// *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// requester is what the callback path needs on top of Sender: answering the
// query to clear the client's loading state.
type requester interface {
	Sender
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// CommandHandler defines the interface for command and text message handlers
type CommandHandler interface {
	Handle(bot Sender, message *tgbotapi.Message, args []string) error
}

// CallbackHandler defines the interface for inline keyboard callbacks. The
// data argument is the callback payload with the registered prefix stripped.
type CallbackHandler interface {
	Handle(bot Sender, query *tgbotapi.CallbackQuery, data string) error
}

// CommandFunc adapts a plain function to the CommandHandler interface.
type CommandFunc func(bot Sender, message *tgbotapi.Message, args []string) error

// Handle calls f.
func (f CommandFunc) Handle(bot Sender, message *tgbotapi.Message, args []string) error {
	return f(bot, message, args)
}

// CallbackFunc adapts a plain function to the CallbackHandler interface.
type CallbackFunc func(bot Sender, query *tgbotapi.CallbackQuery, data string) error

// Handle calls f.
func (f CallbackFunc) Handle(bot Sender, query *tgbotapi.CallbackQuery, data string) error {
	return f(bot, query, data)
}

type callbackRoute struct {
	prefix  string
	handler CallbackHandler
}

// Router dispatches incoming updates: commands by name, reply keyboard
// buttons by exact text, inline callbacks by prefix, and everything else to
// the flow handler. Updates from users outside the allow-list are rejected
// before any handler runs.
type Router struct {
	logger    *logrus.Logger
	authorize func(userID int64) bool
	commands  map[string]CommandHandler
	texts     map[string]CommandHandler
	callbacks []callbackRoute
	flowInput CommandHandler
}

// NewRouter creates a new update router with the given allow-list check.
func NewRouter(logger *logrus.Logger, authorize func(userID int64) bool) *Router {
	return &Router{
		logger:    logger,
		authorize: authorize,
		commands:  make(map[string]CommandHandler),
		texts:     make(map[string]CommandHandler),
	}
}

// RegisterCommand registers a /command handler.
func (r *Router) RegisterCommand(command string, handler CommandHandler) {
	r.commands[command] = handler
	r.logger.Debugf("Registered command: %s", command)
}

// RegisterText registers a handler for an exact reply-keyboard button text.
func (r *Router) RegisterText(text string, handler CommandHandler) {
	r.texts[text] = handler
	r.logger.Debugf("Registered text handler: %s", text)
}

// RegisterCallback registers a handler for callback data starting with prefix.
func (r *Router) RegisterCallback(prefix string, handler CallbackHandler) {
	r.callbacks = append(r.callbacks, callbackRoute{prefix: prefix, handler: handler})
	r.logger.Debugf("Registered callback prefix: %s", prefix)
}

// RegisterFlowInput registers the fallback handler that feeds free text and
// attachments into the active dialog flow.
func (r *Router) RegisterFlowInput(handler CommandHandler) {
	r.flowInput = handler
}

// HandleMessage handles incoming messages
func (r *Router) HandleMessage(bot Sender, message *tgbotapi.Message) {
	updatesTotal.WithLabelValues("message").Inc()

	r.logger.WithFields(logrus.Fields{
		"chat_id":    message.Chat.ID,
		"user_id":    message.From.ID,
		"message_id": message.MessageID,
		"text":       message.Text,
	}).Info("Received message")

	if !r.authorize(message.From.ID) {
		r.logger.WithField("user_id", message.From.ID).Warn("Unauthorized user")
		msg := tgbotapi.NewMessage(message.Chat.ID,
			"😿 Sorry, this bot is private and only works for its two owners.")
		bot.Send(msg)
		return
	}

	var handler CommandHandler
	switch {
	case message.IsCommand():
		handler = r.commands[message.Command()]
		if handler == nil {
			r.logger.WithField("command", message.Command()).Warn("Unknown command")
			msg := tgbotapi.NewMessage(message.Chat.ID,
				"❓ Unknown command. Use /help to see what I can do.")
			bot.Send(msg)
			return
		}
	case r.texts[message.Text] != nil:
		handler = r.texts[message.Text]
	default:
		// Free text or an attachment: input for the active flow, if any.
		handler = r.flowInput
	}
	if handler == nil {
		return
	}

	args := strings.Fields(message.CommandArguments())
	if err := handler.Handle(bot, message, args); err != nil {
		r.logger.WithFields(logrus.Fields{
			"chat_id": message.Chat.ID,
			"user_id": message.From.ID,
			"error":   err,
		}).Error("Message handler failed")

		errorMsg := tgbotapi.NewMessage(message.Chat.ID,
			"❌ An error occurred while processing your message. Please try again.")
		bot.Send(errorMsg)
	}
}

// HandleCallbackQuery handles callback queries from inline keyboards
func (r *Router) HandleCallbackQuery(bot requester, query *tgbotapi.CallbackQuery) {
	updatesTotal.WithLabelValues("callback").Inc()

	r.logger.WithFields(logrus.Fields{
		"callback_id": query.ID,
		"user_id":     query.From.ID,
		"data":        query.Data,
	}).Info("Received callback query")

	// Answer right away to remove the loading state.
	callback := tgbotapi.NewCallback(query.ID, "")
	bot.Request(callback)

	if !r.authorize(query.From.ID) {
		r.logger.WithField("user_id", query.From.ID).Warn("Unauthorized callback")
		return
	}

	// A stale callback can arrive with no message attached; there is nothing
	// to edit or reply to then.
	if query.Message == nil {
		r.logger.WithField("data", query.Data).Warn("Callback without a message")
		return
	}

	for _, route := range r.callbacks {
		if strings.HasPrefix(query.Data, route.prefix) {
			data := strings.TrimPrefix(query.Data, route.prefix)
			if err := route.handler.Handle(bot, query, data); err != nil {
				r.logger.WithFields(logrus.Fields{
					"data":    query.Data,
					"user_id": query.From.ID,
					"error":   err,
				}).Error("Callback handler failed")
			}
			return
		}
	}

	r.logger.WithField("data", query.Data).Warn("Unknown callback data")
}
