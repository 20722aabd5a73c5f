package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-todo-web/internal/services"
)

func TestMonthCalendar_Layout(t *testing.T) {
	svc, _ := newTaskService()
	today := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	cal, err := svc.MonthCalendar(services.Actor{}, 2025, 6, today)
	require.NoError(t, err)

	assert.Equal(t, 2025, cal.Year)
	assert.Equal(t, 6, cal.Month)
	assert.Equal(t, "June", cal.MonthName)

	// 2025-06-01は日曜日なので、月曜始まりの週では空白マスが6つ入る
	require.Len(t, cal.Days, 6+30)
	for i := 0; i < 6; i++ {
		assert.Zero(t, cal.Days[i].Day)
	}
	assert.Equal(t, 1, cal.Days[6].Day)
	assert.Equal(t, 30, cal.Days[len(cal.Days)-1].Day)

	for _, d := range cal.Days {
		switch {
		case d.Day == 0:
			assert.Empty(t, d.Tasks)
		case d.Day == 15:
			assert.True(t, d.IsToday)
			assert.False(t, d.IsPast)
		case d.Day < 15:
			assert.False(t, d.IsToday)
			assert.True(t, d.IsPast)
		default:
			assert.False(t, d.IsToday)
			assert.False(t, d.IsPast)
		}
	}
}

func TestMonthCalendar_GroupsTasksByDueDay(t *testing.T) {
	svc, _ := newTaskService()
	today := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.CreateTask(services.CreateTaskInput{Title: "in range", DueDate: "2025-06-10"}, services.Actor{})
	require.NoError(t, err)
	_, err = svc.CreateTask(services.CreateTaskInput{Title: "also on the 10th", DueDate: "2025-06-10"}, services.Actor{})
	require.NoError(t, err)
	_, err = svc.CreateTask(services.CreateTaskInput{Title: "next month", DueDate: "2025-07-01"}, services.Actor{})
	require.NoError(t, err)
	_, err = svc.CreateTask(services.CreateTaskInput{Title: "no due date"}, services.Actor{})
	require.NoError(t, err)

	cal, err := svc.MonthCalendar(services.Actor{}, 2025, 6, today)
	require.NoError(t, err)

	total := 0
	for _, d := range cal.Days {
		total += len(d.Tasks)
		if d.Day == 10 {
			require.Len(t, d.Tasks, 2)
			assert.Equal(t, "in range", d.Tasks[0].Title)
		}
	}
	assert.Equal(t, 2, total, "only tasks due within the month appear")
}

func TestMonthCalendar_InvalidMonthFallsBackToToday(t *testing.T) {
	svc, _ := newTaskService()
	today := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)

	cal, err := svc.MonthCalendar(services.Actor{}, 2025, 13, today)
	require.NoError(t, err)
	assert.Equal(t, 2025, cal.Year)
	assert.Equal(t, 3, cal.Month)
	assert.Equal(t, "March", cal.MonthName)
}

func TestMonthCalendar_YearRollover(t *testing.T) {
	svc, _ := newTaskService()
	today := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)

	dec, err := svc.MonthCalendar(services.Actor{}, 2025, 12, today)
	require.NoError(t, err)
	assert.Equal(t, 2025, dec.PrevYear)
	assert.Equal(t, 11, dec.PrevMonth)
	assert.Equal(t, 2026, dec.NextYear)
	assert.Equal(t, 1, dec.NextMonth)

	jan, err := svc.MonthCalendar(services.Actor{}, 2026, 1, today)
	require.NoError(t, err)
	assert.Equal(t, 2025, jan.PrevYear)
	assert.Equal(t, 12, jan.PrevMonth)
	assert.Equal(t, 2026, jan.NextYear)
	assert.Equal(t, 2, jan.NextMonth)
}
