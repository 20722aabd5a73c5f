package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-todo-web/internal/metrics"
	"go-todo-web/internal/models"
	"go-todo-web/internal/repositories"
	"go-todo-web/internal/services"
)

// TaskHandler はタスク関連のハンドラーを管理します。
type TaskHandler struct {
	taskService *services.TaskService
	logger      *zap.Logger
}

// NewTaskHandler は新しいTaskHandlerを作成します。
func NewTaskHandler(taskService *services.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{taskService: taskService, logger: logger}
}

// TaskListHandler はタスク一覧ページを表示します。未完了タスクが上、
// 完了タスクが下で、それぞれ作成日時の降順です。
func (h *TaskHandler) TaskListHandler(c *gin.Context) {
	actor := ActorFrom(c)
	page, err := h.taskService.ListTasks(actor)
	if err != nil {
		h.logger.Error("Failed to fetch tasks", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to fetch tasks")
		return
	}

	c.HTML(http.StatusOK, "task_list.html", gin.H{
		"PageTitle":      "My Tasks",
		"ActiveTasks":    page.ActiveTasks,
		"CompletedTasks": page.CompletedTasks,
		"TotalCount":     page.TotalCount,
		"ActiveCount":    page.ActiveCount,
		"CompletedCount": page.CompletedCount,
		"Today":          time.Now().Format("2006-01-02"),
		"Now":            time.Now(),
		"CSRFToken":      CSRFTokenFrom(c),
		"Username":       actor.Username,
		"Flash":          PopFlash(c),
	})
}

// CreateTaskHandler は新しいタスクを作成します。
// JSONモードでは {success:true, task:{id,title,completed}} を返し、
// 検証失敗時は {success:false, errors:{...}} を返します。
func (h *TaskHandler) CreateTaskHandler(c *gin.Context) {
	var form models.TaskCreateForm
	if err := c.ShouldBind(&form); err != nil {
		metrics.IncrementTaskMutation("create", "failure")
		respondFailure(c, http.StatusBadRequest, gin.H{"errors": bindingErrors(err).Fields}, "Could not add the task. Please check the form.")
		return
	}

	in := services.CreateTaskInput{
		Title:   form.Title,
		DueDate: form.DueDate,
	}
	task, err := h.taskService.CreateTask(in, ActorFrom(c))
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			metrics.IncrementTaskMutation("create", "failure")
			respondFailure(c, http.StatusBadRequest, gin.H{"errors": verr.Fields}, "Could not add the task. Please check the form.")
			return
		}
		h.logger.Error("Failed to create task", zap.Error(err))
		metrics.IncrementTaskMutation("create", "failure")
		respondFailure(c, http.StatusInternalServerError, nil, "Failed to save the task.")
		return
	}

	metrics.IncrementTaskMutation("create", "success")
	respondSuccess(c, gin.H{
		"task": gin.H{
			"id":        task.ID,
			"title":     task.Title,
			"completed": task.Completed,
		},
	}, "Task added successfully.")
}

// ToggleTaskHandler はタスクの完了状態を反転します。
// JSONモードでは {success:true, completed:bool} を返します。
func (h *TaskHandler) ToggleTaskHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondFailure(c, http.StatusBadRequest, gin.H{"error": "invalid task id"}, "Invalid task.")
		return
	}

	completed, err := h.taskService.ToggleTask(id, ActorFrom(c))
	if err != nil {
		h.respondTaskError(c, "toggle", id, err)
		return
	}

	metrics.IncrementTaskMutation("toggle", "success")
	respondSuccess(c, gin.H{"completed": completed}, "")
}

// DeleteTaskHandler はタスクを完全に削除します。JSONモードでは {success:true} を返します。
func (h *TaskHandler) DeleteTaskHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondFailure(c, http.StatusBadRequest, gin.H{"error": "invalid task id"}, "Invalid task.")
		return
	}

	if err := h.taskService.DeleteTask(id, ActorFrom(c)); err != nil {
		h.respondTaskError(c, "delete", id, err)
		return
	}

	metrics.IncrementTaskMutation("delete", "success")
	respondSuccess(c, nil, "Task deleted.")
}

// respondTaskError はtoggle/delete共通のエラー応答を行います。
func (h *TaskHandler) respondTaskError(c *gin.Context, operation string, id int, err error) {
	metrics.IncrementTaskMutation(operation, "failure")
	switch {
	case errors.Is(err, repositories.ErrTaskNotFound):
		respondFailure(c, http.StatusNotFound, gin.H{"error": "task not found"}, "The task no longer exists.")
	case errors.Is(err, repositories.ErrTaskForbidden):
		respondFailure(c, http.StatusForbidden, gin.H{"error": "permission denied"}, "You cannot modify this task.")
	default:
		h.logger.Error("Task mutation failed", zap.String("operation", operation), zap.Int("task_id", id), zap.Error(err))
		respondFailure(c, http.StatusInternalServerError, nil, "Something went wrong.")
	}
}
