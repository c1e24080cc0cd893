package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Kerhoff/couplebot/internal/models"
)

// Reply keyboard button labels. The router matches these exactly.
const (
	btnAddTask        = "🆕 Add task"
	btnMyTasks        = "📋 My tasks"
	btnPartnerTasks   = "🔄 Partner's tasks"
	btnSharedTasks    = "👫 Shared tasks"
	btnCompletedTasks = "✅ Completed tasks"
	btnAddWish        = "🎁 Add wish"
	btnMyWishes       = "🌠 My wishes"
	btnPartnerWishes  = "💝 Partner's wishes"
	btnAddMovie       = "🎬 Add movie"
	btnMyMovies       = "🍿 My movies"
	btnPartnerMovies  = "🎞 Partner's movies"
	btnMovieStats     = "📊 Movie stats"
)

const listPageSize = 5

// mainKeyboard is the persistent reply keyboard with every feature entry.
func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAddTask),
			tgbotapi.NewKeyboardButton(btnAddWish),
			tgbotapi.NewKeyboardButton(btnAddMovie),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnMyTasks),
			tgbotapi.NewKeyboardButton(btnPartnerTasks),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSharedTasks),
			tgbotapi.NewKeyboardButton(btnCompletedTasks),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnMyWishes),
			tgbotapi.NewKeyboardButton(btnPartnerWishes),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnMyMovies),
			tgbotapi.NewKeyboardButton(btnPartnerMovies),
			tgbotapi.NewKeyboardButton(btnMovieStats),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func cancelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "cancel"),
		),
	)
}

func taskTypeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🙋 For me", "task_type:"+string(models.TaskTypeForMe)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💑 For partner", "task_type:"+string(models.TaskTypeForPartner)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👫 For both", "task_type:"+string(models.TaskTypeForBoth)),
		),
	)
}

func wishTypeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌠 My wish", "wish_type:"+string(models.WishTypeMine)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💝 For partner", "wish_type:"+string(models.WishTypePartner)),
		),
	)
}

func movieTypeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🍿 My list", "movie_type:"+string(models.MovieTypeMine)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎞 Partner's list", "movie_type:"+string(models.MovieTypePartner)),
		),
	)
}

func ratingKeyboard() tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, 5)
	for i := 1; i <= 5; i++ {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("%d⭐", i), fmt.Sprintf("movie_rate:%d", i)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// listItem is one row of a paginated entity list keyboard.
type listItem struct {
	ID    int64
	Label string
}

// listKeyboard builds a paginated inline list. viewPrefix receives
// "<id>:<context>", pagePrefix receives "<page>:<context>".
func listKeyboard(items []listItem, page int, viewPrefix, pagePrefix, context string) tgbotapi.InlineKeyboardMarkup {
	start := page * listPageSize
	if start > len(items) {
		start = len(items)
	}
	end := start + listPageSize
	if end > len(items) {
		end = len(items)
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, item := range items[start:end] {
		label := item.Label
		if len([]rune(label)) > 30 {
			label = string([]rune(label)[:30]) + "..."
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label,
				fmt.Sprintf("%s%d:%s", viewPrefix, item.ID, context)),
		))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️ Back",
			fmt.Sprintf("%s%d:%s", pagePrefix, page-1, context)))
	}
	if end < len(items) {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("➡️ Next",
			fmt.Sprintf("%s%d:%s", pagePrefix, page+1, context)))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🏠 Main menu", "main_menu"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func confirmKeyboard(confirmData, backData string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes", confirmData),
			tgbotapi.NewInlineKeyboardButtonData("❌ No", backData),
		),
	)
}

func taskActionKeyboard(task *models.Task, context string) tgbotapi.InlineKeyboardMarkup {
	statusText := "✅ Mark completed"
	statusValue := models.TaskStatusCompleted
	if task.IsCompleted() {
		statusText = "🔄 Return to active"
		statusValue = models.TaskStatusActive
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(statusText,
				fmt.Sprintf("task_status:%d:%s:%s", task.ID, statusValue, context)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Edit", fmt.Sprintf("edit_task:%d:%s", task.ID, context)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", fmt.Sprintf("delete_task:%d:%s", task.ID, context)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", "back_to_tasks:"+context),
		),
	)
}

func taskEditMenuKeyboard(taskID int64, context string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📌 Title", "task_edit:title"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Description", "task_edit:description"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👥 Type", "task_edit:type"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back",
				fmt.Sprintf("view_task:%d:%s", taskID, context)),
		),
	)
}

func wishActionKeyboard(wish *models.Wish, context string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Edit", fmt.Sprintf("edit_wish:%d:%s", wish.ID, context)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", fmt.Sprintf("delete_wish:%d:%s", wish.ID, context)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", "back_to_wishes:"+context),
		),
	)
}

func wishEditMenuKeyboard(wishID int64, context string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📌 Title", "wish_edit:title"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Description", "wish_edit:description"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🖼 Image", "wish_edit:image"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back",
				fmt.Sprintf("view_wish:%d:%s", wishID, context)),
		),
	)
}

func movieActionKeyboard(movie *models.Movie, context string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	if movie.Watched {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Mark unwatched",
				fmt.Sprintf("movie_unwatched:%d:%s", movie.ID, context)),
		))
	} else {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🍿 Mark watched",
				fmt.Sprintf("movie_watched:%d:%s", movie.ID, context)),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Edit", fmt.Sprintf("edit_movie:%d:%s", movie.ID, context)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", fmt.Sprintf("delete_movie:%d:%s", movie.ID, context)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", "back_to_movies:"+context),
		),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func movieEditMenuKeyboard(movieID int64, context string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📌 Title", "movie_edit:title"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Description", "movie_edit:description"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back",
				fmt.Sprintf("view_movie:%d:%s", movieID, context)),
		),
	)
}
