package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/couplebot/internal/models"
	"github.com/Kerhoff/couplebot/internal/service"
	"github.com/Kerhoff/couplebot/internal/session"
	"github.com/Kerhoff/couplebot/internal/telegram"
)

// Task list view contexts, carried through callback data so "back" returns
// to the list the user came from.
const (
	ctxMyTasks        = "my_tasks"
	ctxPartnerTasks   = "partner_tasks"
	ctxSharedTasks    = "common_tasks"
	ctxCompletedTasks = "completed_tasks"
)

const taskNotFound = "Task not found. It may have been deleted."

// TaskHandler implements the task creation and edit flows, the four list
// views and the per-task actions.
type TaskHandler struct {
	svc      *service.Service
	sessions *session.Store
	logger   *logrus.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(svc *service.Service, sessions *session.Store, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, sessions: sessions, logger: logger}
}

// Register wires the task routes on the bot.
func (h *TaskHandler) Register(bot *telegram.Bot) {
	bot.RegisterText(btnAddTask, commandFunc(h.Add))
	bot.RegisterText(btnMyTasks, h.listCommand(ctxMyTasks))
	bot.RegisterText(btnPartnerTasks, h.listCommand(ctxPartnerTasks))
	bot.RegisterText(btnSharedTasks, h.listCommand(ctxSharedTasks))
	bot.RegisterText(btnCompletedTasks, h.listCommand(ctxCompletedTasks))

	bot.RegisterCallback("task_type:", callbackFunc(h.TypeSelected))
	bot.RegisterCallback("view_task:", callbackFunc(h.View))
	bot.RegisterCallback("task_status:", callbackFunc(h.ChangeStatus))
	bot.RegisterCallback("edit_task:", callbackFunc(h.EditMenu))
	bot.RegisterCallback("task_edit:", callbackFunc(h.EditField))
	bot.RegisterCallback("delete_task:", callbackFunc(h.ConfirmDelete))
	bot.RegisterCallback("confirm_delete_task:", callbackFunc(h.Delete))
	bot.RegisterCallback("task_page:", callbackFunc(h.Page))
	bot.RegisterCallback("back_to_tasks:", callbackFunc(h.BackToList))
}

// ---------------------------------------------------------------------------
// Creation flow
// ---------------------------------------------------------------------------

// Add starts the task creation flow.
func (h *TaskHandler) Add(bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	h.sessions.Begin(message.From.ID, session.StateTaskTitle)
	replyKb(bot, message.Chat.ID, "✏️ Send the task title:", cancelKeyboard())
	return nil
}

// HandleTitleInput collects the title and asks for a description.
func (h *TaskHandler) HandleTitleInput(bot telegram.Sender, message *tgbotapi.Message, sess *session.Session) error {
	title := strings.TrimSpace(message.Text)
	if title == "" {
		replyKb(bot, message.Chat.ID, "The title cannot be empty. Send the task title:", cancelKeyboard())
		return nil
	}
	sess.Title = title
	if err := sess.To(session.StateTaskDescription); err != nil {
		return err
	}
	replyKb(bot, message.Chat.ID,
		"📝 Send the task description (or \"-\" to skip):", cancelKeyboard())
	return nil
}

// HandleDescriptionInput collects the description and asks for the type.
func (h *TaskHandler) HandleDescriptionInput(bot telegram.Sender, message *tgbotapi.Message, sess *session.Session) error {
	sess.Description = session.OptionalText(message.Text)
	if err := sess.To(session.StateTaskType); err != nil {
		return err
	}
	replyKb(bot, message.Chat.ID, "👥 Who is this task for?", taskTypeKeyboard())
	return nil
}

// TypeSelected commits the creation flow or the type edit, depending on the
// session state. A selection in any other state is ignored.
func (h *TaskHandler) TypeSelected(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	sess := h.sessions.Get(query.From.ID)
	if sess == nil {
		return nil
	}
	taskType := models.TaskType(data)

	switch sess.State {
	case session.StateTaskType:
		return h.commitCreate(bot, query, sess, taskType)
	case session.StateTaskEditType:
		return h.commitTypeEdit(bot, query, sess, taskType)
	default:
		return nil
	}
}

func (h *TaskHandler) commitCreate(bot telegram.Sender, query *tgbotapi.CallbackQuery, sess *session.Session, taskType models.TaskType) error {
	ctx := context.Background()

	task := &models.Task{
		Title:       sess.Title,
		Description: sess.Description,
		Type:        taskType,
		Status:      models.TaskStatusActive,
		CreatedBy:   query.From.ID,
	}
	task, err := h.svc.Tasks.Create(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	h.sessions.Clear(query.From.ID)

	h.logger.WithFields(logrus.Fields{
		"user_id": query.From.ID,
		"task_id": task.ID,
		"type":    task.Type,
	}).Info("Task created")

	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID,
		"✅ Task created!\n\n"+
			fmt.Sprintf("📌 Title: %s\n📝 Description: %s\n👥 Type: %s",
				task.Title, orNone(task.Description), taskTypeText(task.Type)))
	bot.Send(edit)

	if task.ConcernsPartner() {
		h.svc.NotifyPartner(ctx, query.From.ID,
			"🔔 Your partner created a new task!\n\n"+
				fmt.Sprintf("📌 Title: %s\n📝 Description: %s\n👥 Type: %s",
					task.Title, orNone(task.Description), taskTypeText(task.Type)))
	}

	replyKb(bot, query.Message.Chat.ID, "What would you like to do next?", mainKeyboard())
	return nil
}

// ---------------------------------------------------------------------------
// List views
// ---------------------------------------------------------------------------

func (h *TaskHandler) listCommand(view string) telegram.CommandHandler {
	return commandFunc(func(bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
		tasks, title, err := h.fetchView(context.Background(), message.From.ID, view)
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			reply(bot, message.Chat.ID, emptyViewText(view))
			return nil
		}
		replyKb(bot, message.Chat.ID, title,
			listKeyboard(taskListItems(tasks), 0, "view_task:", "task_page:", view))
		return nil
	})
}

func (h *TaskHandler) fetchView(ctx context.Context, userID int64, view string) ([]*models.Task, string, error) {
	viewer, err := h.svc.Viewer(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	switch view {
	case ctxPartnerTasks:
		tasks, err := h.svc.Tasks.ListForPartner(ctx, viewer, models.TaskStatusActive)
		return tasks, "🔄 Your partner's tasks:", err
	case ctxSharedTasks:
		tasks, err := h.svc.Tasks.ListShared(ctx, viewer, models.TaskStatusActive)
		return tasks, "👫 Shared tasks:", err
	case ctxCompletedTasks:
		tasks, err := h.svc.Tasks.ListCompleted(ctx, viewer)
		return tasks, "✅ Completed tasks:", err
	default:
		tasks, err := h.svc.Tasks.ListForUser(ctx, viewer, models.TaskStatusActive)
		return tasks, "📋 Your tasks:", err
	}
}

func emptyViewText(view string) string {
	switch view {
	case ctxPartnerTasks:
		return "Your partner has no tasks yet."
	case ctxSharedTasks:
		return "You have no shared tasks yet."
	case ctxCompletedTasks:
		return "No completed tasks yet."
	default:
		return "You have no tasks yet."
	}
}

// Page re-renders a task list on a pagination button.
func (h *TaskHandler) Page(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	page, view, err := splitIDContext(data)
	if err != nil {
		return err
	}
	tasks, _, err := h.fetchView(context.Background(), query.From.ID, view)
	if err != nil {
		return err
	}
	markup := listKeyboard(taskListItems(tasks), int(page), "view_task:", "task_page:", view)
	edit := tgbotapi.NewEditMessageReplyMarkup(query.Message.Chat.ID, query.Message.MessageID, markup)
	bot.Send(edit)
	return nil
}

// BackToList returns from a task card to the list it was opened from.
func (h *TaskHandler) BackToList(bot telegram.Sender, query *tgbotapi.CallbackQuery, view string) error {
	tasks, title, err := h.fetchView(context.Background(), query.From.ID, view)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		editOrSend(bot, query, emptyViewText(view), tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🏠 Main menu", "main_menu"))))
		return nil
	}
	editOrSend(bot, query, title,
		listKeyboard(taskListItems(tasks), 0, "view_task:", "task_page:", view))
	return nil
}

// ---------------------------------------------------------------------------
// Task card and actions
// ---------------------------------------------------------------------------

// View shows a single task with its action keyboard.
func (h *TaskHandler) View(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	id, viewCtx, err := splitIDContext(data)
	if err != nil {
		return err
	}
	task, err := h.svc.Tasks.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	if task == nil {
		editOrSend(bot, query, taskNotFound, mainMenuOnlyKeyboard())
		return nil
	}
	editOrSend(bot, query, taskInfo(task, query.From.ID), taskActionKeyboard(task, viewCtx))
	return nil
}

// ChangeStatus toggles a task between active and completed. The record is
// resolved by id only; whoever can see the card can flip it.
func (h *TaskHandler) ChangeStatus(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	parts := strings.SplitN(data, ":", 3)
	if len(parts) < 2 {
		return fmt.Errorf("malformed task_status data %q", data)
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid task id in callback data %q: %w", data, err)
	}
	newStatus := models.TaskStatus(parts[1])
	viewCtx := ""
	if len(parts) > 2 {
		viewCtx = parts[2]
	}

	ctx := context.Background()
	task, err := h.svc.Tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if task == nil {
		editOrSend(bot, query, taskNotFound, mainMenuOnlyKeyboard())
		return nil
	}

	task.Status = newStatus
	ok, err := h.svc.Tasks.Update(ctx, task)
	if err != nil {
		return err
	}
	if !ok {
		editOrSend(bot, query, taskNotFound, mainMenuOnlyKeyboard())
		return nil
	}

	h.logger.WithFields(logrus.Fields{
		"user_id": query.From.ID,
		"task_id": task.ID,
		"status":  task.Status,
	}).Info("Task status changed")

	if task.ConcernsPartner() && task.CreatedBy == query.From.ID {
		statusText := "is completed ✅"
		if !task.IsCompleted() {
			statusText = "is back in active 🔄"
		}
		h.svc.NotifyPartner(ctx, query.From.ID,
			fmt.Sprintf("🔔 Task update!\n📌 Task %q %s", task.Title, statusText))
	}

	editOrSend(bot, query, taskInfo(task, query.From.ID), taskActionKeyboard(task, viewCtx))
	return nil
}

// ---------------------------------------------------------------------------
// Edit flow
// ---------------------------------------------------------------------------

// EditMenu shows the field selection menu and pins the target task in the
// session.
func (h *TaskHandler) EditMenu(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	id, viewCtx, err := splitIDContext(data)
	if err != nil {
		return err
	}
	task, err := h.svc.Tasks.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	if task == nil {
		editOrSend(bot, query, taskNotFound, mainMenuOnlyKeyboard())
		return nil
	}

	sess := h.sessions.Begin(query.From.ID, session.StateIdle)
	sess.EntityID = id
	sess.Context = viewCtx

	editOrSend(bot, query, "✏️ What do you want to change?", taskEditMenuKeyboard(id, viewCtx))
	return nil
}

// EditField enters the edit state for the chosen field.
func (h *TaskHandler) EditField(bot telegram.Sender, query *tgbotapi.CallbackQuery, field string) error {
	sess := h.sessions.Get(query.From.ID)
	if sess == nil || sess.EntityID == 0 {
		return nil
	}
	task, err := h.svc.Tasks.GetByID(context.Background(), sess.EntityID)
	if err != nil {
		return err
	}
	if task == nil {
		h.sessions.Clear(query.From.ID)
		editOrSend(bot, query, taskNotFound, mainMenuOnlyKeyboard())
		return nil
	}

	switch field {
	case "title":
		if err := sess.To(session.StateTaskEditTitle); err != nil {
			return err
		}
		editOrSend(bot, query,
			fmt.Sprintf("Current title: %s\n\nSend the new title:", task.Title),
			cancelKeyboard())
	case "description":
		if err := sess.To(session.StateTaskEditDescription); err != nil {
			return err
		}
		editOrSend(bot, query,
			fmt.Sprintf("Current description: %s\n\nSend the new description (or \"-\" to clear):",
				orNone(task.Description)),
			cancelKeyboard())
	case "type":
		if err := sess.To(session.StateTaskEditType); err != nil {
			return err
		}
		editOrSend(bot, query,
			fmt.Sprintf("Current type: %s\n\nPick the new type:", taskTypeText(task.Type)),
			taskTypeKeyboard())
	}
	return nil
}

// HandleEditTitleInput stores a new title for the pinned task.
func (h *TaskHandler) HandleEditTitleInput(bot telegram.Sender, message *tgbotapi.Message, sess *session.Session) error {
	title := strings.TrimSpace(message.Text)
	if title == "" {
		replyKb(bot, message.Chat.ID, "The title cannot be empty. Send the new title:", cancelKeyboard())
		return nil
	}
	return h.applyEdit(bot, message, sess, func(task *models.Task) {
		task.Title = title
	}, "✅ Task title updated!")
}

// HandleEditDescriptionInput stores a new description for the pinned task.
func (h *TaskHandler) HandleEditDescriptionInput(bot telegram.Sender, message *tgbotapi.Message, sess *session.Session) error {
	description := session.OptionalText(message.Text)
	return h.applyEdit(bot, message, sess, func(task *models.Task) {
		task.Description = description
	}, "✅ Task description updated!")
}

func (h *TaskHandler) applyEdit(bot telegram.Sender, message *tgbotapi.Message, sess *session.Session, mutate func(*models.Task), confirmation string) error {
	ctx := context.Background()

	task, err := h.svc.Tasks.GetByID(ctx, sess.EntityID)
	if err != nil {
		return err
	}
	if task == nil {
		h.sessions.Clear(message.From.ID)
		reply(bot, message.Chat.ID, taskNotFound)
		return nil
	}

	mutate(task)
	ok, err := h.svc.Tasks.Update(ctx, task)
	if err != nil {
		return err
	}
	viewCtx := sess.Context
	h.sessions.Clear(message.From.ID)
	if !ok {
		reply(bot, message.Chat.ID, taskNotFound)
		return nil
	}

	h.logger.WithFields(logrus.Fields{
		"user_id": message.From.ID,
		"task_id": task.ID,
	}).Info("Task edited")

	reply(bot, message.Chat.ID, confirmation)
	replyKb(bot, message.Chat.ID, taskInfo(task, message.From.ID), taskActionKeyboard(task, viewCtx))
	return nil
}

func (h *TaskHandler) commitTypeEdit(bot telegram.Sender, query *tgbotapi.CallbackQuery, sess *session.Session, taskType models.TaskType) error {
	ctx := context.Background()

	task, err := h.svc.Tasks.GetByID(ctx, sess.EntityID)
	if err != nil {
		return err
	}
	if task == nil {
		h.sessions.Clear(query.From.ID)
		editOrSend(bot, query, taskNotFound, mainMenuOnlyKeyboard())
		return nil
	}

	task.Type = taskType
	ok, err := h.svc.Tasks.Update(ctx, task)
	if err != nil {
		return err
	}
	viewCtx := sess.Context
	h.sessions.Clear(query.From.ID)
	if !ok {
		editOrSend(bot, query, taskNotFound, mainMenuOnlyKeyboard())
		return nil
	}

	h.logger.WithFields(logrus.Fields{
		"user_id": query.From.ID,
		"task_id": task.ID,
		"type":    task.Type,
	}).Info("Task type changed")

	editOrSend(bot, query, taskInfo(task, query.From.ID), taskActionKeyboard(task, viewCtx))
	return nil
}

// ---------------------------------------------------------------------------
// Deletion
// ---------------------------------------------------------------------------

// ConfirmDelete asks for confirmation before deleting.
func (h *TaskHandler) ConfirmDelete(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	id, viewCtx, err := splitIDContext(data)
	if err != nil {
		return err
	}
	task, err := h.svc.Tasks.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	if task == nil {
		editOrSend(bot, query, taskNotFound, mainMenuOnlyKeyboard())
		return nil
	}
	editOrSend(bot, query,
		fmt.Sprintf("⚠️ Delete this task?\n\n📌 Title: %s", task.Title),
		confirmKeyboard(
			fmt.Sprintf("confirm_delete_task:%d:%s", id, viewCtx),
			fmt.Sprintf("view_task:%d:%s", id, viewCtx)))
	return nil
}

// Delete removes the task permanently and notifies the partner when the
// task concerned them.
func (h *TaskHandler) Delete(bot telegram.Sender, query *tgbotapi.CallbackQuery, data string) error {
	id, _, err := splitIDContext(data)
	if err != nil {
		return err
	}
	ctx := context.Background()

	task, err := h.svc.Tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	ok, err := h.svc.Tasks.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		editOrSend(bot, query, taskNotFound, mainMenuOnlyKeyboard())
		return nil
	}

	h.logger.WithFields(logrus.Fields{
		"user_id": query.From.ID,
		"task_id": id,
	}).Info("Task deleted")

	if task != nil && task.ConcernsPartner() && task.CreatedBy == query.From.ID {
		h.svc.NotifyPartner(ctx, query.From.ID,
			fmt.Sprintf("🔔 Task %q was deleted.", task.Title))
	}

	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID,
		"🗑 The task was deleted.")
	bot.Send(edit)
	replyKb(bot, query.Message.Chat.ID, "What would you like to do next?", mainKeyboard())
	return nil
}

func mainMenuOnlyKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 Main menu", "main_menu"),
		),
	)
}
