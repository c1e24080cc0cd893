package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/couplebot/internal/models"
	"github.com/Kerhoff/couplebot/internal/service"
	"github.com/Kerhoff/couplebot/internal/session"
	"github.com/Kerhoff/couplebot/internal/telegram"
)

const (
	ctxMyMovies      = "my_movies"
	ctxPartnerMovies = "partner_movies"
)

const movieNotFound = "Movie not found. It may have been deleted."

// MovieHandler implements the shared watch-list: creation, the two list
// views, the watched/rating/review flow, editing, deletion and stats.
type MovieHandler struct {
	svc      *service.Service
	sessions *session.Store
	logger   *logrus.Logger
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(svc *service.Service, sessions *session.Store, logger *logrus.Logger) *MovieHandler {
	return &MovieHandler{svc: svc, sessions: sessions, logger: logger}
}

// Register wires the movie routes on the bot.
func (h *MovieHandler) Register(bot *telegram.Bot) {
	bot.RegisterText(btnAddMovie, commandFunc(h.Add))
	bot.RegisterText(btnMyMovies, h.listCommand(ctxMyMovies))
	bot.RegisterText(btnPartnerMovies, h.listCommand(ctxPartnerMovies))
	bot.RegisterText(btnMovieStats, commandFunc(h.Stats))

	bot.RegisterCallback("movie_type:", callbackFunc(h.TypeSelected))
	bot.RegisterCallback("view_movie:", callbackFunc(h.View))
	bot.RegisterCallback("movie_watched:", callbackFunc(h.MarkWatched))
	bot.RegisterCallback("movie_unwatched:", callbackFunc(h.MarkUnwatched))
	bot.RegisterCallback("movie_rate:", callbackFunc(h.Rate))
	bot.RegisterCallback("edit_movie:", callbackFunc(h.EditMenu))
	bot.RegisterCallback("movie_edit:", callbackFunc(h.EditField))
	bot.RegisterCallback("delete_movie:", callbackFunc(h.ConfirmDelete))
	bot.RegisterCallback("confirm_delete_movie:", callbackFunc(h.Delete))
	bot.RegisterCallback("movie_page:", callbackFunc(h.Page))
	bot.RegisterCallback("back_to_movies:", callbackFunc(h.BackToList))
}

// ---------------------------------------------------------------------------
// Creation flow
// ---------------------------------------------------------------------------

// Add starts the movie creation flow.
func (h *MovieHandler) Add(bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	h.sessions.Begin(message.From.ID, session.StateMovieTitle)
	replyKb(bot, message.Chat.ID, "✏️ Send the movie title:", cancelKeyboard())
	return nil
}

// HandleTitleInput collects the title and asks for a description.
func (h *MovieHandler) HandleTitleInput(bot telegram.Sender, message *tgbotapi.Message, sess *session.Session) error {
	title := strings.TrimSpace(message.Text)
	if title == "" {
		replyKb(bot, message.Chat.ID, "The title cannot be empty. Send the movie title:", cancelKeyboard())
		return nil
	}
	sess.Title = title
	if err := sess.To(session.StateMovieDescription); err != nil {
		return err
	}
	replyKb(bot, message.Chat.ID,
		"📝 Send the movie description (or \"-\" to skip):", cancelKeyboard())
	return nil
}

// HandleDescriptionInput collects the description and asks for the list.
func (h *MovieHandler) HandleDescriptionInput(bot telegram.Sender, message *tgbotapi.Message, sess *session.Session) error {
	sess.Description = session.OptionalText(message.Text)
	if err := sess.To(session.StateMovieType); err != nil {
		return err
	}
	replyKb(bot, message.Chat.ID, "🎬 Which list should it go to?", movieTypeKeyboard())
	return nil
}

// TypeSelected commits the creation flow. A selection in any other state is
// ignored.
func (h *MovieHandler) TypeSelected(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	sess := h.sessions.Get(query.From.ID)
	if sess == nil || !sess.In(session.StateMovieType) {
		return nil
	}
	ctx := context.Background()

	movie := &models.Movie{
		Title:       sess.Title,
		Description: sess.Description,
		Type:        models.MovieType(data),
		CreatedBy:   query.From.ID,
	}
	movie, err := h.svc.Movies.Create(ctx, movie)
	if err != nil {
		return fmt.Errorf("failed to create movie: %w", err)
	}
	h.sessions.Clear(query.From.ID)

	h.logger.WithFields(logrus.Fields{
		"user_id":  query.From.ID,
		"movie_id": movie.ID,
		"type":     movie.Type,
	}).Info("Movie added")

	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID,
		"✅ Movie added to the watch-list!\n\n"+
			fmt.Sprintf("📌 Title: %s\n📝 Description: %s",
				movie.Title, orNone(movie.Description)))
	bot.Send(edit)

	replyKb(bot, query.Message.Chat.ID, "What would you like to do next?", mainKeyboard())
	return nil
}

// ---------------------------------------------------------------------------
// List views and stats
// ---------------------------------------------------------------------------

func (h *MovieHandler) listCommand(view string) telegram.CommandHandler {
	return commandFunc(func(bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
		movies, title, err := h.fetchView(context.Background(), message.From.ID, view)
		if err != nil {
			return err
		}
		if len(movies) == 0 {
			if view == ctxPartnerMovies {
				reply(bot, message.Chat.ID, "Your partner's watch-list is empty.")
			} else {
				reply(bot, message.Chat.ID, "Your watch-list is empty.")
			}
			return nil
		}
		replyKb(bot, message.Chat.ID, title,
			listKeyboard(movieListItems(movies), 0, "view_movie:", "movie_page:", view))
		return nil
	})
}

func (h *MovieHandler) fetchView(ctx context.Context, userID int64, view string) ([]*models.Movie, string, error) {
	if view == ctxPartnerMovies {
		viewer, err := h.svc.Viewer(ctx, userID)
		if err != nil {
			return nil, "", err
		}
		movies, err := h.svc.Movies.ListOfPartner(ctx, viewer)
		return movies, "🎞 Your partner's movies:", err
	}
	movies, err := h.svc.Movies.ListOwn(ctx, userID)
	return movies, "🍿 Your movies:", err
}

// Stats shows the aggregate watch-list numbers for the user's own rows.
func (h *MovieHandler) Stats(bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	stats, err := h.svc.Movies.Stats(context.Background(), message.From.ID)
	if err != nil {
		return err
	}
	text := fmt.Sprintf(
		"📊 Your watch-list stats:\n\n🎬 Movies total: %d\n🍿 Watched: %d\n⭐ Average rating: %.1f",
		stats.Total, stats.Watched, stats.AvgRating)
	reply(bot, message.Chat.ID, text)
	return nil
}

// Page re-renders a movie list on a pagination button.
func (h *MovieHandler) Page(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	page, view, err := splitIDContext(data)
	if err != nil {
		return err
	}
	movies, _, err := h.fetchView(context.Background(), query.From.ID, view)
	if err != nil {
		return err
	}
	markup := listKeyboard(movieListItems(movies), int(page), "view_movie:", "movie_page:", view)
	edit := tgbotapi.NewEditMessageReplyMarkup(query.Message.Chat.ID, query.Message.MessageID, markup)
	bot.Send(edit)
	return nil
}

// BackToList returns from a movie card to the list it was opened from.
func (h *MovieHandler) BackToList(bot telegram.Sender, query *tgbotapi.CallbackQuery, view string) error {
	movies, title, err := h.fetchView(context.Background(), query.From.ID, view)
	if err != nil {
		return err
	}
	if len(movies) == 0 {
		editOrSend(bot, query, "No movies here anymore.", mainMenuOnlyKeyboard())
		return nil
	}
	editOrSend(bot, query, title,
		listKeyboard(movieListItems(movies), 0, "view_movie:", "movie_page:", view))
	return nil
}

// ---------------------------------------------------------------------------
// Movie card and watch flow
// ---------------------------------------------------------------------------

// View shows a single movie with its action keyboard.
func (h *MovieHandler) View(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	id, viewCtx, err := splitIDContext(data)
	if err != nil {
		return err
	}
	movie, err := h.svc.Movies.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	if movie == nil {
		editOrSend(bot, query, movieNotFound, mainMenuOnlyKeyboard())
		return nil
	}
	editOrSend(bot, query, movieInfo(movie, query.From.ID), movieActionKeyboard(movie, viewCtx))
	return nil
}

// MarkWatched flips the movie to watched and starts the rating flow.
func (h *MovieHandler) MarkWatched(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	id, viewCtx, err := splitIDContext(data)
	if err != nil {
		return err
	}
	ctx := context.Background()

	now := time.Now()
	ok, err := h.svc.Movies.SetWatched(ctx, id, true, &now)
	if err != nil {
		return err
	}
	if !ok {
		editOrSend(bot, query, movieNotFound, mainMenuOnlyKeyboard())
		return nil
	}

	sess := h.sessions.Begin(query.From.ID, session.StateMovieRating)
	sess.EntityID = id
	sess.Context = viewCtx

	h.logger.WithFields(logrus.Fields{
		"user_id":  query.From.ID,
		"movie_id": id,
	}).Info("Movie marked watched")

	editOrSend(bot, query, "🍿 Marked as watched! How would you rate it?", ratingKeyboard())
	return nil
}

// MarkUnwatched returns the movie to the unwatched pile. The rating and
// review from the previous watch are kept.
func (h *MovieHandler) MarkUnwatched(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	id, viewCtx, err := splitIDContext(data)
	if err != nil {
		return err
	}
	ctx := context.Background()

	ok, err := h.svc.Movies.SetWatched(ctx, id, false, nil)
	if err != nil {
		return err
	}
	if !ok {
		editOrSend(bot, query, movieNotFound, mainMenuOnlyKeyboard())
		return nil
	}

	movie, err := h.svc.Movies.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if movie == nil {
		editOrSend(bot, query, movieNotFound, mainMenuOnlyKeyboard())
		return nil
	}
	editOrSend(bot, query, movieInfo(movie, query.From.ID), movieActionKeyboard(movie, viewCtx))
	return nil
}

// Rate stores the 1..5 rating picked on the inline keyboard and asks for a
// review. A rating press outside the rating step is ignored.
func (h *MovieHandler) Rate(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	sess := h.sessions.Get(query.From.ID)
	if sess == nil || !sess.In(session.StateMovieRating) {
		return nil
	}
	rating, err := strconv.Atoi(data)
	if err != nil {
		return fmt.Errorf("invalid rating in callback data %q: %w", data, err)
	}
	ctx := context.Background()

	ok, err := h.svc.RateMovie(ctx, sess.EntityID, rating)
	if err != nil {
		return err
	}
	if !ok {
		h.sessions.Clear(query.From.ID)
		editOrSend(bot, query, movieNotFound, mainMenuOnlyKeyboard())
		return nil
	}
	if err := sess.To(session.StateMovieReview); err != nil {
		return err
	}

	editOrSend(bot, query,
		fmt.Sprintf("⭐ Rated %d/5!\n\nSend a short review (or \"-\" to skip):", rating),
		cancelKeyboard())
	return nil
}

// HandleReviewInput stores the free-text review, finishing the watch flow.
func (h *MovieHandler) HandleReviewInput(bot telegram.Sender, message *tgbotapi.Message, sess *session.Session) error {
	ctx := context.Background()
	review := session.OptionalText(message.Text)
	movieID := sess.EntityID
	viewCtx := sess.Context
	h.sessions.Clear(message.From.ID)

	movie, err := h.svc.Movies.GetByID(ctx, movieID)
	if err != nil {
		return err
	}
	if movie == nil {
		reply(bot, message.Chat.ID, movieNotFound)
		return nil
	}

	if review != "" {
		movie.Review = review
		if _, err := h.svc.Movies.Update(ctx, movie); err != nil {
			return err
		}
	}

	h.logger.WithFields(logrus.Fields{
		"user_id":  message.From.ID,
		"movie_id": movie.ID,
	}).Info("Movie review recorded")

	reply(bot, message.Chat.ID, "🎉 All set!")
	replyKb(bot, message.Chat.ID, movieInfo(movie, message.From.ID), movieActionKeyboard(movie, viewCtx))
	return nil
}

// ---------------------------------------------------------------------------
// Edit flow
// ---------------------------------------------------------------------------

// EditMenu shows the field selection menu and pins the target movie in the
// session.
func (h *MovieHandler) EditMenu(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	id, viewCtx, err := splitIDContext(data)
	if err != nil {
		return err
	}
	movie, err := h.svc.Movies.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	if movie == nil {
		editOrSend(bot, query, movieNotFound, mainMenuOnlyKeyboard())
		return nil
	}

	sess := h.sessions.Begin(query.From.ID, session.StateIdle)
	sess.EntityID = id
	sess.Context = viewCtx

	editOrSend(bot, query, "✏️ What do you want to change?", movieEditMenuKeyboard(id, viewCtx))
	return nil
}

// EditField enters the edit state for the chosen field.
func (h *MovieHandler) EditField(bot telegram.Sender, query *tgbotapi.CallbackQuery, field string) error {
	sess := h.sessions.Get(query.From.ID)
	if sess == nil || sess.EntityID == 0 {
		return nil
	}
	movie, err := h.svc.Movies.GetByID(context.Background(), sess.EntityID)
	if err != nil {
		return err
	}
	if movie == nil {
		h.sessions.Clear(query.From.ID)
		editOrSend(bot, query, movieNotFound, mainMenuOnlyKeyboard())
		return nil
	}

	switch field {
	case "title":
		if err := sess.To(session.StateMovieEditTitle); err != nil {
			return err
		}
		editOrSend(bot, query,
			fmt.Sprintf("Current title: %s\n\nSend the new title:", movie.Title),
			cancelKeyboard())
	case "description":
		if err := sess.To(session.StateMovieEditDescription); err != nil {
			return err
		}
		editOrSend(bot, query,
			fmt.Sprintf("Current description: %s\n\nSend the new description (or \"-\" to clear):",
				orNone(movie.Description)),
			cancelKeyboard())
	}
	return nil
}

// HandleEditTitleInput stores a new title for the pinned movie.
func (h *MovieHandler) HandleEditTitleInput(bot telegram.Sender, message *tgbotapi.Message, sess *session.Session) error {
	title := strings.TrimSpace(message.Text)
	if title == "" {
		replyKb(bot, message.Chat.ID, "The title cannot be empty. Send the new title:", cancelKeyboard())
		return nil
	}
	return h.applyEdit(bot, message, sess, func(movie *models.Movie) {
		movie.Title = title
	}, "✅ Movie title updated!")
}

// HandleEditDescriptionInput stores a new description for the pinned movie.
func (h *MovieHandler) HandleEditDescriptionInput(bot telegram.Sender, message *tgbotapi.Message, sess *session.Session) error {
	description := session.OptionalText(message.Text)
	return h.applyEdit(bot, message, sess, func(movie *models.Movie) {
		movie.Description = description
	}, "✅ Movie description updated!")
}

func (h *MovieHandler) applyEdit(bot telegram.Sender, message *tgbotapi.Message, sess *session.Session, mutate func(*models.Movie), confirmation string) error {
	ctx := context.Background()

	movie, err := h.svc.Movies.GetByID(ctx, sess.EntityID)
	if err != nil {
		return err
	}
	if movie == nil {
		h.sessions.Clear(message.From.ID)
		reply(bot, message.Chat.ID, movieNotFound)
		return nil
	}

	mutate(movie)
	ok, err := h.svc.Movies.Update(ctx, movie)
	if err != nil {
		return err
	}
	viewCtx := sess.Context
	h.sessions.Clear(message.From.ID)
	if !ok {
		reply(bot, message.Chat.ID, movieNotFound)
		return nil
	}

	h.logger.WithFields(logrus.Fields{
		"user_id":  message.From.ID,
		"movie_id": movie.ID,
	}).Info("Movie edited")

	reply(bot, message.Chat.ID, confirmation)
	replyKb(bot, message.Chat.ID, movieInfo(movie, message.From.ID), movieActionKeyboard(movie, viewCtx))
	return nil
}

// ---------------------------------------------------------------------------
// Deletion
// ---------------------------------------------------------------------------

// ConfirmDelete asks for confirmation before deleting.
func (h *MovieHandler) ConfirmDelete(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	id, viewCtx, err := splitIDContext(data)
	if err != nil {
		return err
	}
	movie, err := h.svc.Movies.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	if movie == nil {
		editOrSend(bot, query, movieNotFound, mainMenuOnlyKeyboard())
		return nil
	}
	editOrSend(bot, query,
		fmt.Sprintf("⚠️ Delete this movie?\n\n📌 Title: %s", movie.Title),
		confirmKeyboard(
			fmt.Sprintf("confirm_delete_movie:%d:%s", id, viewCtx),
			fmt.Sprintf("view_movie:%d:%s", id, viewCtx)))
	return nil
}

// Delete removes the movie permanently.
func (h *MovieHandler) Delete(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	id, _, err := splitIDContext(data)
	if err != nil {
		return err
	}
	ok, err := h.svc.Movies.Delete(context.Background(), id)
	if err != nil {
		return err
	}
	if !ok {
		editOrSend(bot, query, movieNotFound, mainMenuOnlyKeyboard())
		return nil
	}

	h.logger.WithFields(logrus.Fields{
		"user_id":  query.From.ID,
		"movie_id": id,
	}).Info("Movie deleted")

	editOrSend(bot, query, "🗑 The movie was deleted.", mainMenuOnlyKeyboard())
	replyKb(bot, query.Message.Chat.ID, "What would you like to do next?", mainKeyboard())
	return nil
}
