package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/couplebot/internal/session"
	"github.com/Kerhoff/couplebot/internal/telegram"
)

// FlowInputHandler feeds free text and photos into whichever dialog step the
// user is currently on. It is the router's fallback for messages that match
// no command or keyboard button.
type FlowInputHandler struct {
	sessions *session.Store
	tasks    *TaskHandler
	wishes   *WishHandler
	movies   *MovieHandler
	logger   *logrus.Logger
}

// NewFlowInputHandler creates a new FlowInputHandler.
func NewFlowInputHandler(sessions *session.Store, tasks *TaskHandler, wishes *WishHandler, movies *MovieHandler, logger *logrus.Logger) *FlowInputHandler {
	return &FlowInputHandler{
		sessions: sessions,
		tasks:    tasks,
		wishes:   wishes,
		movies:   movies,
		logger:   logger,
	}
}

// Handle dispatches the message on the session state. Messages outside any
// flow get a short hint instead of silence.
func (h *FlowInputHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	sess := h.sessions.Get(message.From.ID)
	if sess == nil || sess.State == session.StateIdle {
		replyKb(bot, message.Chat.ID, "Pick an action from the menu below 👇", mainKeyboard())
		return nil
	}

	switch sess.State {
	case session.StateTaskTitle:
		return h.tasks.HandleTitleInput(bot, message, sess)
	case session.StateTaskDescription:
		return h.tasks.HandleDescriptionInput(bot, message, sess)
	case session.StateTaskEditTitle:
		return h.tasks.HandleEditTitleInput(bot, message, sess)
	case session.StateTaskEditDescription:
		return h.tasks.HandleEditDescriptionInput(bot, message, sess)

	case session.StateWishTitle:
		return h.wishes.HandleTitleInput(bot, message, sess)
	case session.StateWishDescription:
		return h.wishes.HandleDescriptionInput(bot, message, sess)
	case session.StateWishImage:
		return h.wishes.HandleImageInput(bot, message, sess)
	case session.StateWishEditTitle:
		return h.wishes.HandleEditTitleInput(bot, message, sess)
	case session.StateWishEditDescription:
		return h.wishes.HandleEditDescriptionInput(bot, message, sess)
	case session.StateWishEditImage:
		return h.wishes.HandleEditImageInput(bot, message, sess)

	case session.StateMovieTitle:
		return h.movies.HandleTitleInput(bot, message, sess)
	case session.StateMovieDescription:
		return h.movies.HandleDescriptionInput(bot, message, sess)
	case session.StateMovieReview:
		return h.movies.HandleReviewInput(bot, message, sess)
	case session.StateMovieEditTitle:
		return h.movies.HandleEditTitleInput(bot, message, sess)
	case session.StateMovieEditDescription:
		return h.movies.HandleEditDescriptionInput(bot, message, sess)

	default:
		// Type and rating steps expect a keyboard press, not text.
		reply(bot, message.Chat.ID, "Please use the buttons above, or press ❌ Cancel.")
		return nil
	}
}
