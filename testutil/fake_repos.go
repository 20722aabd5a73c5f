// Package testutilはテスト用のフェイクリポジトリとルーターのセットアップを提供します。
package testutil

import (
	"sort"
	"sync"
	"time"

	"go-todo-web/internal/models"
	"go-todo-web/internal/repositories"
)

// FakeTaskRepository は services.TaskRepository のインメモリ実装です。
// タイムスタンプは決定的に単調増加するため、updated_at の検証に使えます。
type FakeTaskRepository struct {
	mu     sync.Mutex
	tasks  map[int]models.Task
	nextID int
	clock  time.Time
}

// NewFakeTaskRepository は新しいFakeTaskRepositoryを作成します。
func NewFakeTaskRepository() *FakeTaskRepository {
	return &FakeTaskRepository{
		tasks:  make(map[int]models.Task),
		nextID: 1,
		clock:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick は呼ばれる度に1秒進む決定的な時計です。
func (r *FakeTaskRepository) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *FakeTaskRepository) Create(t *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.tick()
	stored := *t
	stored.ID = r.nextID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.nextID++
	r.tasks[stored.ID] = stored

	out := stored
	return &out, nil
}

func (r *FakeTaskRepository) FindByID(id int) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tasks[id]
	if !ok {
		return nil, repositories.ErrTaskNotFound
	}
	out := stored
	return &out, nil
}

func (r *FakeTaskRepository) FindByOwner(userID int) ([]*models.Task, error) {
	return r.findWhere(func(t models.Task) bool {
		return t.UserID != nil && *t.UserID == userID
	}), nil
}

func (r *FakeTaskRepository) FindAnonymous() ([]*models.Task, error) {
	return r.findWhere(func(t models.Task) bool {
		return t.UserID == nil
	}), nil
}

func (r *FakeTaskRepository) FindByDueRange(owner *int, from, to time.Time) ([]*models.Task, error) {
	matches := r.findWhere(func(t models.Task) bool {
		if t.DueDate == nil {
			return false
		}
		if t.DueDate.Before(from) || t.DueDate.After(to) {
			return false
		}
		if owner == nil {
			return t.UserID == nil
		}
		return t.UserID != nil && *t.UserID == *owner
	})
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].DueDate.Equal(*matches[j].DueDate) {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].DueDate.Before(*matches[j].DueDate)
	})
	return matches, nil
}

// findWhere は条件に一致するタスクを作成日時の降順で返します。
func (r *FakeTaskRepository) findWhere(match func(models.Task) bool) []*models.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.Task
	for _, stored := range r.tasks {
		if match(stored) {
			t := stored
			out = append(out, &t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *FakeTaskRepository) Update(id int, t *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tasks[id]
	if !ok {
		return nil, repositories.ErrTaskNotFound
	}
	stored.Title = t.Title
	stored.Completed = t.Completed
	stored.DueDate = t.DueDate
	stored.UpdatedAt = r.tick()
	r.tasks[id] = stored

	out := stored
	return &out, nil
}

func (r *FakeTaskRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return repositories.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

// Count は保存されているタスク数を返します。ストア不変の検証用です。
func (r *FakeTaskRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

// FakeUserRepository は services.UserRepository のインメモリ実装です。
type FakeUserRepository struct {
	mu     sync.Mutex
	users  map[string]models.User // username -> user
	nextID int
}

// NewFakeUserRepository は新しいFakeUserRepositoryを作成します。
func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{users: make(map[string]models.User), nextID: 1}
}

func (r *FakeUserRepository) Create(u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[u.Username]; exists {
		return nil, repositories.ErrDuplicateUsername
	}
	for _, existing := range r.users {
		if u.Email != "" && existing.Email == u.Email {
			return nil, repositories.ErrDuplicateEmail
		}
	}

	stored := *u
	stored.ID = r.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.nextID++
	r.users[stored.Username] = stored

	out := stored
	return &out, nil
}

func (r *FakeUserRepository) FindByUsername(username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[username]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	out := stored
	return &out, nil
}

// FakeContactRepository は services.ContactRepository のインメモリ実装です。
type FakeContactRepository struct {
	mu       sync.Mutex
	Messages []models.ContactMessage
}

// NewFakeContactRepository は新しいFakeContactRepositoryを作成します。
func NewFakeContactRepository() *FakeContactRepository {
	return &FakeContactRepository{}
}

func (r *FakeContactRepository) Create(m *models.ContactMessage) (*models.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *m
	stored.ID = len(r.Messages) + 1
	stored.IsRead = false
	stored.CreatedAt = time.Now()
	r.Messages = append(r.Messages, stored)

	out := stored
	return &out, nil
}
