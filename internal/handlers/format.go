package handlers

import (
	"fmt"
	"strings"

	"github.com/Kerhoff/couplebot/internal/models"
)

func taskTypeText(t models.TaskType) string {
	switch t {
	case models.TaskTypeForMe:
		return "For me"
	case models.TaskTypeForPartner:
		return "For partner"
	default:
		return "For both"
	}
}

func wishTypeText(t models.WishType) string {
	if t == models.WishTypePartner {
		return "For partner"
	}
	return "My wish"
}

func movieTypeText(t models.MovieType) string {
	if t == models.MovieTypePartner {
		return "Partner's list"
	}
	return "My list"
}

func creatorText(createdBy, viewerID int64) string {
	if createdBy == viewerID {
		return "You"
	}
	return "Your partner"
}

func orNone(s string) string {
	if s == "" {
		return "No description"
	}
	return s
}

func taskInfo(task *models.Task, viewerID int64) string {
	status := "🔄 Active"
	if task.IsCompleted() {
		status = "✅ Completed"
	}
	return fmt.Sprintf(
		"📌 Title: %s\n"+
			"📝 Description: %s\n"+
			"👥 Type: %s\n"+
			"🚦 Status: %s\n"+
			"👤 Created by: %s\n"+
			"📅 Created: %s",
		task.Title, orNone(task.Description), taskTypeText(task.Type),
		status, creatorText(task.CreatedBy, viewerID),
		task.CreatedAt.Format("02.01.2006 15:04"))
}

func wishInfo(wish *models.Wish, viewerID int64) string {
	image := "none"
	if wish.HasImage() {
		image = "attached"
	}
	return fmt.Sprintf(
		"📌 Title: %s\n"+
			"📝 Description: %s\n"+
			"🖼 Image: %s\n"+
			"💝 Type: %s\n"+
			"👤 Created by: %s\n"+
			"📅 Created: %s",
		wish.Title, orNone(wish.Description), image, wishTypeText(wish.Type),
		creatorText(wish.CreatedBy, viewerID),
		wish.CreatedAt.Format("02.01.2006 15:04"))
}

func movieInfo(movie *models.Movie, viewerID int64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📌 Title: %s\n", movie.Title)
	fmt.Fprintf(&sb, "📝 Description: %s\n", orNone(movie.Description))
	fmt.Fprintf(&sb, "🎞 List: %s\n", movieTypeText(movie.Type))
	if movie.Watched {
		sb.WriteString("🍿 Status: watched")
		if movie.WatchDate != nil {
			fmt.Fprintf(&sb, " on %s", movie.WatchDate.Format("02.01.2006"))
		}
		sb.WriteString("\n")
		if movie.IsRated() {
			fmt.Fprintf(&sb, "⭐ Rating: %d/5\n", *movie.Rating)
		}
		if movie.Review != "" {
			fmt.Fprintf(&sb, "💬 Review: %s\n", movie.Review)
		}
	} else {
		sb.WriteString("🍿 Status: not watched yet\n")
	}
	fmt.Fprintf(&sb, "👤 Added by: %s\n", creatorText(movie.CreatedBy, viewerID))
	fmt.Fprintf(&sb, "📅 Added: %s", movie.CreatedAt.Format("02.01.2006 15:04"))
	return sb.String()
}

func taskListItems(tasks []*models.Task) []listItem {
	items := make([]listItem, 0, len(tasks))
	for _, t := range tasks {
		emoji := "🔄"
		if t.IsCompleted() {
			emoji = "✅"
		}
		items = append(items, listItem{ID: t.ID, Label: emoji + " " + t.Title})
	}
	return items
}

func wishListItems(wishes []*models.Wish) []listItem {
	items := make([]listItem, 0, len(wishes))
	for _, w := range wishes {
		emoji := "🎁"
		if w.HasImage() {
			emoji = "🖼"
		}
		items = append(items, listItem{ID: w.ID, Label: emoji + " " + w.Title})
	}
	return items
}

func movieListItems(movies []*models.Movie) []listItem {
	items := make([]listItem, 0, len(movies))
	for _, m := range movies {
		emoji := "🎬"
		if m.Watched {
			emoji = "🍿"
		}
		items = append(items, listItem{ID: m.ID, Label: emoji + " " + m.Title})
	}
	return items
}
