package services

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"go-todo-web/internal/models"
	"go-todo-web/internal/repositories"
)

// TaskRepository はTaskServiceが必要とする永続化操作です。
// 本番実装は repositories.TaskRepository、テストではインメモリのフェイクを使います。
type TaskRepository interface {
	Create(t *models.Task) (*models.Task, error)
	FindByID(id int) (*models.Task, error)
	FindByOwner(userID int) ([]*models.Task, error)
	FindAnonymous() ([]*models.Task, error)
	FindByDueRange(owner *int, from, to time.Time) ([]*models.Task, error)
	Update(id int, t *models.Task) (*models.Task, error)
	Delete(id int) error
}

// Actor はリクエストを発行した主体を表します。UserIDがnilの場合は匿名です。
type Actor struct {
	UserID   *int
	Username string
	Role     string
}

// IsAuthenticated はログイン済みかどうかを返します。
func (a Actor) IsAuthenticated() bool {
	return a.UserID != nil
}

// TaskService はタスク関連のビジネスロジックを扱います。
type TaskService struct {
	taskRepo TaskRepository
	logger   *zap.Logger
}

// NewTaskService は新しいTaskServiceを作成します。
func NewTaskService(taskRepo TaskRepository, logger *zap.Logger) *TaskService {
	return &TaskService{taskRepo: taskRepo, logger: logger}
}

// CreateTaskInput はタスク作成フォームの入力です。文字数上限と日付形式は
// トランスポート層のバインディングで検証済みです。
type CreateTaskInput struct {
	Title   string
	DueDate string // YYYY-MM-DD、空文字列は期限なし
}

// CreateTask はバインディングで表現できない検証 (トリム後の空チェック) を行い、
// 新しいタスクを挿入します。検証に失敗した場合は *ValidationError を返します。
func (s *TaskService) CreateTask(in CreateTaskInput, actor Actor) (*models.Task, error) {
	verr := NewValidationError()

	title := strings.TrimSpace(in.Title)
	if title == "" {
		verr.Add("title", "Title must not be empty")
	}

	var dueDate *time.Time
	if in.DueDate != "" {
		d, err := time.Parse("2006-01-02", in.DueDate)
		if err != nil {
			verr.Add("due_date", "Due date must be a valid date (YYYY-MM-DD)")
		} else {
			dueDate = &d
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}

	task := &models.Task{
		UserID:    actor.UserID,
		Title:     title,
		Completed: false,
		DueDate:   dueDate,
	}
	created, err := s.taskRepo.Create(task)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Task created", zap.Int("task_id", created.ID), zap.Bool("anonymous", created.UserID == nil))
	return created, nil
}

// ToggleTask はタスクの完了状態を反転して保存し、新しい完了状態を返します。
// 2回適用すると元の状態に戻りますが、updated_at は毎回更新されます。
func (s *TaskService) ToggleTask(id int, actor Actor) (bool, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		return false, err
	}
	if !canModify(task, actor) {
		return false, repositories.ErrTaskForbidden
	}

	task.Completed = !task.Completed
	updated, err := s.taskRepo.Update(id, task)
	if err != nil {
		return false, err
	}
	s.logger.Info("Task toggled", zap.Int("task_id", id), zap.Bool("completed", updated.Completed))
	return updated.Completed, nil
}

// DeleteTask はタスクを完全に削除します。取り消しはできません。
// 既に削除済みのIDに対しては ErrTaskNotFound を返します。
func (s *TaskService) DeleteTask(id int, actor Actor) error {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		return err
	}
	if !canModify(task, actor) {
		return repositories.ErrTaskForbidden
	}

	if err := s.taskRepo.Delete(id); err != nil {
		return err
	}
	s.logger.Info("Task deleted", zap.Int("task_id", id))
	return nil
}

// TaskPage は一覧ページの表示に必要なタスクと集計値です。
type TaskPage struct {
	ActiveTasks    []*models.Task
	CompletedTasks []*models.Task
	TotalCount     int
	ActiveCount    int
	CompletedCount int
}

// ListTasks は表示対象のタスクを取得し、未完了・完了に分けて返します。
// ログイン中は自分のタスク、匿名の場合は所有者の無いタスクが対象です。
func (s *TaskService) ListTasks(actor Actor) (*TaskPage, error) {
	var (
		tasks []*models.Task
		err   error
	)
	if actor.IsAuthenticated() {
		tasks, err = s.taskRepo.FindByOwner(*actor.UserID)
	} else {
		tasks, err = s.taskRepo.FindAnonymous()
	}
	if err != nil {
		return nil, err
	}

	page := &TaskPage{}
	for _, t := range tasks {
		if t.Completed {
			page.CompletedTasks = append(page.CompletedTasks, t)
		} else {
			page.ActiveTasks = append(page.ActiveTasks, t)
		}
	}
	page.TotalCount = len(tasks)
	page.ActiveCount = len(page.ActiveTasks)
	page.CompletedCount = len(page.CompletedTasks)
	return page, nil
}

// canModify は変更系操作の所有権チェックです。所有者の無いタスクは誰でも変更可能、
// 所有タスクは本人とadminのみ変更可能です。
func canModify(task *models.Task, actor Actor) bool {
	if task.UserID == nil {
		return true
	}
	if actor.Role == "admin" {
		return true
	}
	return actor.UserID != nil && *actor.UserID == *task.UserID
}

