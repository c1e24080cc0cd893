package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/couplebot/internal/models"
	"github.com/Kerhoff/couplebot/internal/service"
	"github.com/Kerhoff/couplebot/internal/session"
	"github.com/Kerhoff/couplebot/internal/telegram"
)

const (
	ctxMyWishes      = "my_wishes"
	ctxPartnerWishes = "partner_wishes"
)

const wishNotFound = "Wish not found. It may have been deleted."

// WishHandler implements the wish list: creation with an optional photo,
// the two list views, editing and deletion.
type WishHandler struct {
	svc      *service.Service
	sessions *session.Store
	logger   *logrus.Logger
}

// NewWishHandler creates a new WishHandler.
func NewWishHandler(svc *service.Service, sessions *session.Store, logger *logrus.Logger) *WishHandler {
	return &WishHandler{svc: svc, sessions: sessions, logger: logger}
}

// Register wires the wish routes on the bot.
func (h *WishHandler) Register(bot *telegram.Bot) {
	bot.RegisterText(btnAddWish, commandFunc(h.Add))
	bot.RegisterText(btnMyWishes, h.listCommand(ctxMyWishes))
	bot.RegisterText(btnPartnerWishes, h.listCommand(ctxPartnerWishes))

	bot.RegisterCallback("wish_type:", callbackFunc(h.TypeSelected))
	bot.RegisterCallback("view_wish:", callbackFunc(h.View))
	bot.RegisterCallback("edit_wish:", callbackFunc(h.EditMenu))
	bot.RegisterCallback("wish_edit:", callbackFunc(h.EditField))
	bot.RegisterCallback("delete_wish:", callbackFunc(h.ConfirmDelete))
	bot.RegisterCallback("confirm_delete_wish:", callbackFunc(h.Delete))
	bot.RegisterCallback("wish_page:", callbackFunc(h.Page))
	bot.RegisterCallback("back_to_wishes:", callbackFunc(h.BackToList))
}

// ---------------------------------------------------------------------------
// Creation flow
// ---------------------------------------------------------------------------

// Add starts the wish creation flow.
func (h *WishHandler) Add(bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	h.sessions.Begin(message.From.ID, session.StateWishTitle)
	replyKb(bot, message.Chat.ID, "✏️ Send the wish title:", cancelKeyboard())
	return nil
}

// HandleTitleInput collects the title and asks for a description.
func (h *WishHandler) HandleTitleInput(bot telegram.Sender, message *tgbotapi.Message, sess *session.Session) error {
	title := strings.TrimSpace(message.Text)
	if title == "" {
		replyKb(bot, message.Chat.ID, "The title cannot be empty. Send the wish title:", cancelKeyboard())
		return nil
	}
	sess.Title = title
	if err := sess.To(session.StateWishDescription); err != nil {
		return err
	}
	replyKb(bot, message.Chat.ID,
		"📝 Send the wish description (or \"-\" to skip):", cancelKeyboard())
	return nil
}

// HandleDescriptionInput collects the description and asks for a photo.
func (h *WishHandler) HandleDescriptionInput(bot telegram.Sender, message *tgbotapi.Message, sess *session.Session) error {
	sess.Description = session.OptionalText(message.Text)
	if err := sess.To(session.StateWishImage); err != nil {
		return err
	}
	replyKb(bot, message.Chat.ID,
		"🖼 Send a photo of the wish (or \"-\" to skip):", cancelKeyboard())
	return nil
}

// HandleImageInput accepts a photo or the skip sentinel and asks for the type.
func (h *WishHandler) HandleImageInput(bot telegram.Sender, message *tgbotapi.Message, sess *session.Session) error {
	fileID, ok := photoFileID(message)
	if !ok {
		replyKb(bot, message.Chat.ID,
			"Please send a photo, or \"-\" to skip:", cancelKeyboard())
		return nil
	}
	sess.ImageID = fileID
	if err := sess.To(session.StateWishType); err != nil {
		return err
	}
	replyKb(bot, message.Chat.ID, "💝 Whose wish is this?", wishTypeKeyboard())
	return nil
}

// photoFileID extracts the largest photo's file id from a message. The skip
// sentinel yields an empty id. Telegram sends PhotoSize entries smallest
// first.
func photoFileID(message *tgbotapi.Message) (string, bool) {
	if len(message.Photo) > 0 {
		return message.Photo[len(message.Photo)-1].FileID, true
	}
	if session.OptionalText(message.Text) == "" && strings.TrimSpace(message.Text) != "" {
		return "", true
	}
	return "", false
}

// TypeSelected commits the creation flow. A selection in any other state is
// ignored.
func (h *WishHandler) TypeSelected(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	sess := h.sessions.Get(query.From.ID)
	if sess == nil || !sess.In(session.StateWishType) {
		return nil
	}
	ctx := context.Background()

	wish := &models.Wish{
		Title:       sess.Title,
		Description: sess.Description,
		ImageID:     sess.ImageID,
		Type:        models.WishType(data),
		CreatedBy:   query.From.ID,
	}
	wish, err := h.svc.Wishes.Create(ctx, wish)
	if err != nil {
		return fmt.Errorf("failed to create wish: %w", err)
	}
	h.sessions.Clear(query.From.ID)

	h.logger.WithFields(logrus.Fields{
		"user_id": query.From.ID,
		"wish_id": wish.ID,
		"type":    wish.Type,
	}).Info("Wish created")

	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID,
		"✅ Wish saved!\n\n"+
			fmt.Sprintf("📌 Title: %s\n📝 Description: %s",
				wish.Title, orNone(wish.Description)))
	bot.Send(edit)

	h.svc.NotifyPartner(ctx, query.From.ID,
		fmt.Sprintf("🔔 Your partner added a new wish: %q ✨", wish.Title))

	replyKb(bot, query.Message.Chat.ID, "What would you like to do next?", mainKeyboard())
	return nil
}

// ---------------------------------------------------------------------------
// List views
// ---------------------------------------------------------------------------

func (h *WishHandler) listCommand(view string) telegram.CommandHandler {
	return commandFunc(func(bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
		wishes, title, err := h.fetchView(context.Background(), message.From.ID, view)
		if err != nil {
			return err
		}
		if len(wishes) == 0 {
			if view == ctxPartnerWishes {
				reply(bot, message.Chat.ID, "Your partner has no wishes yet.")
			} else {
				reply(bot, message.Chat.ID, "You have no wishes yet.")
			}
			return nil
		}
		replyKb(bot, message.Chat.ID, title,
			listKeyboard(wishListItems(wishes), 0, "view_wish:", "wish_page:", view))
		return nil
	})
}

func (h *WishHandler) fetchView(ctx context.Context, userID int64, view string) ([]*models.Wish, string, error) {
	if view == ctxPartnerWishes {
		viewer, err := h.svc.Viewer(ctx, userID)
		if err != nil {
			return nil, "", err
		}
		wishes, err := h.svc.Wishes.ListOfPartner(ctx, viewer)
		return wishes, "💝 Your partner's wishes:", err
	}
	wishes, err := h.svc.Wishes.ListOwn(ctx, userID)
	return wishes, "🌠 Your wishes:", err
}

// Page re-renders a wish list on a pagination button.
func (h *WishHandler) Page(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	page, view, err := splitIDContext(data)
	if err != nil {
		return err
	}
	wishes, _, err := h.fetchView(context.Background(), query.From.ID, view)
	if err != nil {
		return err
	}
	markup := listKeyboard(wishListItems(wishes), int(page), "view_wish:", "wish_page:", view)
	edit := tgbotapi.NewEditMessageReplyMarkup(query.Message.Chat.ID, query.Message.MessageID, markup)
	bot.Send(edit)
	return nil
}

// BackToList returns from a wish card to the list it was opened from.
func (h *WishHandler) BackToList(bot telegram.Sender, query *tgbotapi.CallbackQuery, view string) error {
	wishes, title, err := h.fetchView(context.Background(), query.From.ID, view)
	if err != nil {
		return err
	}
	if len(wishes) == 0 {
		editOrSend(bot, query, "No wishes here anymore.", mainMenuOnlyKeyboard())
		return nil
	}
	editOrSend(bot, query, title,
		listKeyboard(wishListItems(wishes), 0, "view_wish:", "wish_page:", view))
	return nil
}

// ---------------------------------------------------------------------------
// Wish card and actions
// ---------------------------------------------------------------------------

// View shows a single wish. Wishes with a photo are sent as a photo message
// with the card as the caption.
func (h *WishHandler) View(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	id, viewCtx, err := splitIDContext(data)
	if err != nil {
		return err
	}
	wish, err := h.svc.Wishes.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	if wish == nil {
		editOrSend(bot, query, wishNotFound, mainMenuOnlyKeyboard())
		return nil
	}

	if wish.HasImage() {
		photo := tgbotapi.NewPhoto(query.Message.Chat.ID, tgbotapi.FileID(wish.ImageID))
		photo.Caption = wishInfo(wish, query.From.ID)
		photo.ReplyMarkup = wishActionKeyboard(wish, viewCtx)
		if _, err := bot.Send(photo); err != nil {
			h.logger.WithError(err).WithField("wish_id", wish.ID).Warn("Failed to send wish photo")
			editOrSend(bot, query, wishInfo(wish, query.From.ID), wishActionKeyboard(wish, viewCtx))
		}
		return nil
	}
	editOrSend(bot, query, wishInfo(wish, query.From.ID), wishActionKeyboard(wish, viewCtx))
	return nil
}

// ---------------------------------------------------------------------------
// Edit flow
// ---------------------------------------------------------------------------

// EditMenu shows the field selection menu and pins the target wish in the
// session.
func (h *WishHandler) EditMenu(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	id, viewCtx, err := splitIDContext(data)
	if err != nil {
		return err
	}
	wish, err := h.svc.Wishes.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	if wish == nil {
		editOrSend(bot, query, wishNotFound, mainMenuOnlyKeyboard())
		return nil
	}

	sess := h.sessions.Begin(query.From.ID, session.StateIdle)
	sess.EntityID = id
	sess.Context = viewCtx

	editOrSend(bot, query, "✏️ What do you want to change?", wishEditMenuKeyboard(id, viewCtx))
	return nil
}

// EditField enters the edit state for the chosen field.
func (h *WishHandler) EditField(bot telegram.Sender, query *tgbotapi.CallbackQuery, field string) error {
	sess := h.sessions.Get(query.From.ID)
	if sess == nil || sess.EntityID == 0 {
		return nil
	}
	wish, err := h.svc.Wishes.GetByID(context.Background(), sess.EntityID)
	if err != nil {
		return err
	}
	if wish == nil {
		h.sessions.Clear(query.From.ID)
		editOrSend(bot, query, wishNotFound, mainMenuOnlyKeyboard())
		return nil
	}

	switch field {
	case "title":
		if err := sess.To(session.StateWishEditTitle); err != nil {
			return err
		}
		editOrSend(bot, query,
			fmt.Sprintf("Current title: %s\n\nSend the new title:", wish.Title),
			cancelKeyboard())
	case "description":
		if err := sess.To(session.StateWishEditDescription); err != nil {
			return err
		}
		editOrSend(bot, query,
			fmt.Sprintf("Current description: %s\n\nSend the new description (or \"-\" to clear):",
				orNone(wish.Description)),
			cancelKeyboard())
	case "image":
		if err := sess.To(session.StateWishEditImage); err != nil {
			return err
		}
		editOrSend(bot, query,
			"Send the new photo (or \"-\" to remove the current one):",
			cancelKeyboard())
	}
	return nil
}

// HandleEditTitleInput stores a new title for the pinned wish.
func (h *WishHandler) HandleEditTitleInput(bot telegram.Sender, message *tgbotapi.Message, sess *session.Session) error {
	title := strings.TrimSpace(message.Text)
	if title == "" {
		replyKb(bot, message.Chat.ID, "The title cannot be empty. Send the new title:", cancelKeyboard())
		return nil
	}
	return h.applyEdit(bot, message, sess, func(wish *models.Wish) {
		wish.Title = title
	}, "✅ Wish title updated!")
}

// HandleEditDescriptionInput stores a new description for the pinned wish.
func (h *WishHandler) HandleEditDescriptionInput(bot telegram.Sender, message *tgbotapi.Message, sess *session.Session) error {
	description := session.OptionalText(message.Text)
	return h.applyEdit(bot, message, sess, func(wish *models.Wish) {
		wish.Description = description
	}, "✅ Wish description updated!")
}

// HandleEditImageInput stores a new photo for the pinned wish, or removes
// the photo on the skip sentinel.
func (h *WishHandler) HandleEditImageInput(bot telegram.Sender, message *tgbotapi.Message, sess *session.Session) error {
	fileID, ok := photoFileID(message)
	if !ok {
		replyKb(bot, message.Chat.ID,
			"Please send a photo, or \"-\" to remove the current one:", cancelKeyboard())
		return nil
	}
	return h.applyEdit(bot, message, sess, func(wish *models.Wish) {
		wish.ImageID = fileID
	}, "✅ Wish photo updated!")
}

func (h *WishHandler) applyEdit(bot telegram.Sender, message *tgbotapi.Message, sess *session.Session, mutate func(*models.Wish), confirmation string) error {
	ctx := context.Background()

	wish, err := h.svc.Wishes.GetByID(ctx, sess.EntityID)
	if err != nil {
		return err
	}
	if wish == nil {
		h.sessions.Clear(message.From.ID)
		reply(bot, message.Chat.ID, wishNotFound)
		return nil
	}

	mutate(wish)
	ok, err := h.svc.Wishes.Update(ctx, wish)
	if err != nil {
		return err
	}
	viewCtx := sess.Context
	h.sessions.Clear(message.From.ID)
	if !ok {
		reply(bot, message.Chat.ID, wishNotFound)
		return nil
	}

	h.logger.WithFields(logrus.Fields{
		"user_id": message.From.ID,
		"wish_id": wish.ID,
	}).Info("Wish edited")

	reply(bot, message.Chat.ID, confirmation)
	replyKb(bot, message.Chat.ID, wishInfo(wish, message.From.ID), wishActionKeyboard(wish, viewCtx))
	return nil
}

// ---------------------------------------------------------------------------
// Deletion
// ---------------------------------------------------------------------------

// ConfirmDelete asks for confirmation before deleting.
func (h *WishHandler) ConfirmDelete(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	id, viewCtx, err := splitIDContext(data)
	if err != nil {
		return err
	}
	wish, err := h.svc.Wishes.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	if wish == nil {
		editOrSend(bot, query, wishNotFound, mainMenuOnlyKeyboard())
		return nil
	}
	editOrSend(bot, query,
		fmt.Sprintf("⚠️ Delete this wish?\n\n📌 Title: %s", wish.Title),
		confirmKeyboard(
			fmt.Sprintf("confirm_delete_wish:%d:%s", id, viewCtx),
			fmt.Sprintf("view_wish:%d:%s", id, viewCtx)))
	return nil
}

// Delete removes the wish permanently.
func (h *WishHandler) Delete(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	id, _, err := splitIDContext(data)
	if err != nil {
		return err
	}
	ctx := context.Background()

	wish, err := h.svc.Wishes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	ok, err := h.svc.Wishes.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		editOrSend(bot, query, wishNotFound, mainMenuOnlyKeyboard())
		return nil
	}

	h.logger.WithFields(logrus.Fields{
		"user_id": query.From.ID,
		"wish_id": id,
	}).Info("Wish deleted")

	if wish != nil && wish.CreatedBy == query.From.ID {
		h.svc.NotifyPartner(ctx, query.From.ID,
			fmt.Sprintf("🔔 The wish %q was removed from your partner's list.", wish.Title))
	}

	editOrSend(bot, query, "🗑 The wish was deleted.", mainMenuOnlyKeyboard())
	replyKb(bot, query.Message.Chat.ID, "What would you like to do next?", mainKeyboard())
	return nil
}
