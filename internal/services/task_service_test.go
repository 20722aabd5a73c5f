package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-todo-web/internal/repositories"
	"go-todo-web/internal/services"
	"go-todo-web/testutil"
)

func newTaskService() (*services.TaskService, *testutil.FakeTaskRepository) {
	repo := testutil.NewFakeTaskRepository()
	return services.NewTaskService(repo, zap.NewNop()), repo
}

func TestCreateTask_Success(t *testing.T) {
	svc, _ := newTaskService()

	task, err := svc.CreateTask(services.CreateTaskInput{Title: "Buy milk"}, services.Actor{})
	require.NoError(t, err)

	assert.NotZero(t, task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.False(t, task.Completed, "new tasks must start uncompleted")
	assert.Nil(t, task.UserID)
	assert.Nil(t, task.DueDate)
	assert.False(t, task.CreatedAt.IsZero())
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
}

func TestCreateTask_TrimsTitle(t *testing.T) {
	svc, _ := newTaskService()

	task, err := svc.CreateTask(services.CreateTaskInput{Title: "  Купить молоко  "}, services.Actor{})
	require.NoError(t, err)
	assert.Equal(t, "Купить молоко", task.Title)
}

func TestCreateTask_WithDueDate(t *testing.T) {
	svc, _ := newTaskService()

	task, err := svc.CreateTask(services.CreateTaskInput{Title: "Купить молоко", DueDate: "2025-12-30"}, services.Actor{})
	require.NoError(t, err)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2025-12-30", task.DueDate.Format("2006-01-02"))
}

func TestCreateTask_ValidationErrors(t *testing.T) {
	svc, repo := newTaskService()

	tests := []struct {
		name  string
		input services.CreateTaskInput
		field string
	}{
		{"empty title", services.CreateTaskInput{Title: ""}, "title"},
		{"whitespace title", services.CreateTaskInput{Title: "   \t  "}, "title"},
		{"bad due date", services.CreateTaskInput{Title: "ok", DueDate: "30-12-2025"}, "due_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTask(tt.input, services.Actor{})
			var verr *services.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.Fields[tt.field])
		})
	}
	assert.Equal(t, 0, repo.Count(), "failed validation must not insert anything")
}

func TestToggleTask_TwiceReturnsToOriginal(t *testing.T) {
	svc, _ := newTaskService()

	task, err := svc.CreateTask(services.CreateTaskInput{Title: "toggle me"}, services.Actor{})
	require.NoError(t, err)

	completed, err := svc.ToggleTask(task.ID, services.Actor{})
	require.NoError(t, err)
	assert.True(t, completed)

	completed, err = svc.ToggleTask(task.ID, services.Actor{})
	require.NoError(t, err)
	assert.False(t, completed, "toggling twice must restore the original state")
}

func TestToggleTask_BumpsUpdatedAt(t *testing.T) {
	svc, repo := newTaskService()

	task, err := svc.CreateTask(services.CreateTaskInput{Title: "timestamps"}, services.Actor{})
	require.NoError(t, err)

	_, err = svc.ToggleTask(task.ID, services.Actor{})
	require.NoError(t, err)
	afterFirst, err := repo.FindByID(task.ID)
	require.NoError(t, err)
	assert.True(t, afterFirst.UpdatedAt.After(task.UpdatedAt))

	_, err = svc.ToggleTask(task.ID, services.Actor{})
	require.NoError(t, err)
	afterSecond, err := repo.FindByID(task.ID)
	require.NoError(t, err)
	assert.True(t, afterSecond.UpdatedAt.After(afterFirst.UpdatedAt), "updated_at must increase on every toggle")
	assert.True(t, afterSecond.UpdatedAt.After(afterSecond.CreatedAt))
}

func TestToggleTask_NotFoundLeavesStoreUnchanged(t *testing.T) {
	svc, repo := newTaskService()

	_, err := svc.CreateTask(services.CreateTaskInput{Title: "survivor"}, services.Actor{})
	require.NoError(t, err)

	_, err = svc.ToggleTask(9999, services.Actor{})
	assert.ErrorIs(t, err, repositories.ErrTaskNotFound)
	assert.Equal(t, 1, repo.Count())
}

func TestDeleteTask_ThenLookupReturnsNotFound(t *testing.T) {
	svc, repo := newTaskService()

	task, err := svc.CreateTask(services.CreateTaskInput{Title: "doomed"}, services.Actor{})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(task.ID, services.Actor{}))

	_, err = repo.FindByID(task.ID)
	assert.ErrorIs(t, err, repositories.ErrTaskNotFound)

	// 二重削除は状態を壊さずNotFoundを返す
	err = svc.DeleteTask(task.ID, services.Actor{})
	assert.ErrorIs(t, err, repositories.ErrTaskNotFound)
}

func TestDeleteTask_NotFoundLeavesStoreUnchanged(t *testing.T) {
	svc, repo := newTaskService()

	_, err := svc.CreateTask(services.CreateTaskInput{Title: "survivor"}, services.Actor{})
	require.NoError(t, err)

	err = svc.DeleteTask(12345, services.Actor{})
	assert.ErrorIs(t, err, repositories.ErrTaskNotFound)
	assert.Equal(t, 1, repo.Count())
}

func TestMutations_OwnershipChecks(t *testing.T) {
	svc, _ := newTaskService()

	ownerID := 7
	owner := services.Actor{UserID: &ownerID, Role: "user"}
	otherID := 8
	other := services.Actor{UserID: &otherID, Role: "user"}
	admin := services.Actor{UserID: &otherID, Role: "admin"}

	owned, err := svc.CreateTask(services.CreateTaskInput{Title: "mine"}, owner)
	require.NoError(t, err)
	anon, err := svc.CreateTask(services.CreateTaskInput{Title: "nobody's"}, services.Actor{})
	require.NoError(t, err)

	t.Run("anonymous cannot modify an owned task", func(t *testing.T) {
		_, err := svc.ToggleTask(owned.ID, services.Actor{})
		assert.ErrorIs(t, err, repositories.ErrTaskForbidden)
		err = svc.DeleteTask(owned.ID, services.Actor{})
		assert.ErrorIs(t, err, repositories.ErrTaskForbidden)
	})

	t.Run("another user cannot modify an owned task", func(t *testing.T) {
		_, err := svc.ToggleTask(owned.ID, other)
		assert.ErrorIs(t, err, repositories.ErrTaskForbidden)
	})

	t.Run("admin can modify any task", func(t *testing.T) {
		_, err := svc.ToggleTask(owned.ID, admin)
		assert.NoError(t, err)
	})

	t.Run("anyone can modify an ownerless task", func(t *testing.T) {
		_, err := svc.ToggleTask(anon.ID, other)
		assert.NoError(t, err)
		_, err = svc.ToggleTask(anon.ID, services.Actor{})
		assert.NoError(t, err)
	})
}

func TestListTasks_SplitsAndCounts(t *testing.T) {
	svc, _ := newTaskService()

	first, err := svc.CreateTask(services.CreateTaskInput{Title: "first"}, services.Actor{})
	require.NoError(t, err)
	second, err := svc.CreateTask(services.CreateTaskInput{Title: "second"}, services.Actor{})
	require.NoError(t, err)
	third, err := svc.CreateTask(services.CreateTaskInput{Title: "third"}, services.Actor{})
	require.NoError(t, err)

	_, err = svc.ToggleTask(second.ID, services.Actor{})
	require.NoError(t, err)

	page, err := svc.ListTasks(services.Actor{})
	require.NoError(t, err)

	assert.Equal(t, 3, page.TotalCount)
	assert.Equal(t, 2, page.ActiveCount)
	assert.Equal(t, 1, page.CompletedCount)

	// 未完了リストは作成日時の降順
	require.Len(t, page.ActiveTasks, 2)
	assert.Equal(t, third.ID, page.ActiveTasks[0].ID)
	assert.Equal(t, first.ID, page.ActiveTasks[1].ID)
	require.Len(t, page.CompletedTasks, 1)
	assert.Equal(t, second.ID, page.CompletedTasks[0].ID)
}

func TestListTasks_ScopedToActor(t *testing.T) {
	svc, _ := newTaskService()

	userID := 3
	user := services.Actor{UserID: &userID}

	_, err := svc.CreateTask(services.CreateTaskInput{Title: "user task"}, user)
	require.NoError(t, err)
	_, err = svc.CreateTask(services.CreateTaskInput{Title: "anon task"}, services.Actor{})
	require.NoError(t, err)

	userPage, err := svc.ListTasks(user)
	require.NoError(t, err)
	require.Equal(t, 1, userPage.TotalCount)
	assert.Equal(t, "user task", userPage.ActiveTasks[0].Title)

	anonPage, err := svc.ListTasks(services.Actor{})
	require.NoError(t, err)
	require.Equal(t, 1, anonPage.TotalCount)
	assert.Equal(t, "anon task", anonPage.ActiveTasks[0].Title)
}
