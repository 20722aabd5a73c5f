// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"go-todo-web/internal/models"
)

var (
	// ErrTaskNotFound はタスクが見つからない場合のエラーです。
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskForbidden はタスクへのアクセス権が無い場合のエラーです。
	ErrTaskForbidden = errors.New("task access forbidden")
)

// TaskRepository はタスクのデータベース操作を行うための構造体です。
type TaskRepository struct {
	DB     *sql.DB
	logger *zap.Logger
}

// NewTaskRepository は新しいTaskRepositoryインスタンスを作成します。
func NewTaskRepository(db *sql.DB, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{DB: db, logger: logger}
}

const taskColumns = "id, user_id, title, completed, due_date, created_at, updated_at"

// scanTask は1行分のタスクをスキャンします。user_idとdue_dateはNULL許容です。
func scanTask(row interface{ Scan(dest ...any) error }) (*models.Task, error) {
	var (
		t      models.Task
		userID sql.NullInt64
		due    sql.NullTime
	)
	err := row.Scan(&t.ID, &userID, &t.Title, &t.Completed, &due, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		id := int(userID.Int64)
		t.UserID = &id
	}
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	return &t, nil
}

// Create は新しいタスクをデータベースに挿入し、DBが採番したIDと
// タイムスタンプを含む完全な行を返します。
func (r *TaskRepository) Create(t *models.Task) (*models.Task, error) {
	query := "INSERT INTO tasks (user_id, title, completed, due_date) VALUES (?, ?, ?, ?)"

	result, err := r.DB.Exec(query, nullableInt(t.UserID), t.Title, t.Completed, nullableDate(t.DueDate))
	if err != nil {
		r.logger.Error("Failed to insert task", zap.Error(err), zap.String("title", t.Title))
		return nil, fmt.Errorf("could not insert task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}

	return r.FindByID(int(id))
}

// FindByID は指定されたIDのタスクをデータベースから取得します。
func (r *TaskRepository) FindByID(id int) (*models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE id = ?"

	t, err := scanTask(r.DB.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		r.logger.Error("Failed to query task by ID", zap.Error(err), zap.Int("task_id", id))
		return nil, fmt.Errorf("could not query task: %w", err)
	}
	return t, nil
}

// FindByOwner は指定ユーザーのタスクを作成日時の降順で取得します。
func (r *TaskRepository) FindByOwner(userID int) ([]*models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE user_id = ? ORDER BY created_at DESC, id DESC"
	return r.queryTasks(query, userID)
}

// FindAnonymous は所有者の無いタスク (デモモード) を作成日時の降順で取得します。
func (r *TaskRepository) FindAnonymous() ([]*models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE user_id IS NULL ORDER BY created_at DESC, id DESC"
	return r.queryTasks(query)
}

// FindByDueRange は期限日が from 以上 to 以下のタスクを取得します。
// owner が nil の場合は所有者の無いタスクが対象になります。
func (r *TaskRepository) FindByDueRange(owner *int, from, to time.Time) ([]*models.Task, error) {
	if owner != nil {
		query := "SELECT " + taskColumns + " FROM tasks WHERE user_id = ? AND due_date BETWEEN ? AND ? ORDER BY due_date, id"
		return r.queryTasks(query, *owner, from.Format("2006-01-02"), to.Format("2006-01-02"))
	}
	query := "SELECT " + taskColumns + " FROM tasks WHERE user_id IS NULL AND due_date BETWEEN ? AND ? ORDER BY due_date, id"
	return r.queryTasks(query, from.Format("2006-01-02"), to.Format("2006-01-02"))
}

func (r *TaskRepository) queryTasks(query string, args ...any) ([]*models.Task, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		r.logger.Error("Failed to query tasks", zap.Error(err))
		return nil, fmt.Errorf("could not query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			r.logger.Error("Failed to scan task", zap.Error(err))
			return nil, fmt.Errorf("could not scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	return tasks, nil
}

// Update は指定されたIDのタスクを更新します。updated_at は明示的に更新します。
func (r *TaskRepository) Update(id int, t *models.Task) (*models.Task, error) {
	query := "UPDATE tasks SET title = ?, completed = ?, due_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"

	result, err := r.DB.Exec(query, t.Title, t.Completed, nullableDate(t.DueDate), id)
	if err != nil {
		r.logger.Error("Failed to update task", zap.Error(err), zap.Int("task_id", id))
		return nil, fmt.Errorf("could not update task: %w", err)
	}

	// 更新対象の存在確認。値が変わらない更新でも updated_at が変わるため
	// RowsAffected == 0 は「行が無い」ことを意味する。
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("could not get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrTaskNotFound
	}

	return r.FindByID(id)
}

// Delete は指定されたIDのタスクを完全に削除します。
func (r *TaskRepository) Delete(id int) error {
	query := "DELETE FROM tasks WHERE id = ?"

	result, err := r.DB.Exec(query, id)
	if err != nil {
		r.logger.Error("Failed to delete task", zap.Error(err), zap.Int("task_id", id))
		return fmt.Errorf("could not delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableDate(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.Format("2006-01-02")
}
