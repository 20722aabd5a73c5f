package services

import (
	"time"

	"go-todo-web/internal/models"
)

// CalendarDay は月間カレンダーの1マスです。Dayが0のマスは前月分の空白です。
type CalendarDay struct {
	Day     int
	Date    time.Time
	Tasks   []*models.Task
	IsToday bool
	IsPast  bool
}

// CalendarMonth はカレンダーページの表示に必要なデータ一式です。
type CalendarMonth struct {
	Year      int
	Month     int
	MonthName string
	Days      []CalendarDay

	PrevYear  int
	PrevMonth int
	NextYear  int
	NextMonth int
}

// MonthCalendar は指定年月のカレンダーを構築します。期限日がその月に含まれる
// タスクを日毎にグループ化します。年月が不正な場合は今月にフォールバックします。
func (s *TaskService) MonthCalendar(actor Actor, year, month int, today time.Time) (*CalendarMonth, error) {
	if month < 1 || month > 12 || year < 1 {
		year = today.Year()
		month = int(today.Month())
	}

	firstDay := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstDay.AddDate(0, 1, -1)

	tasks, err := s.taskRepo.FindByDueRange(actor.UserID, firstDay, lastDay)
	if err != nil {
		return nil, err
	}

	tasksByDay := make(map[int][]*models.Task)
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		tasksByDay[t.DueDate.Day()] = append(tasksByDay[t.DueDate.Day()], t)
	}

	cal := &CalendarMonth{
		Year:      year,
		Month:     month,
		MonthName: firstDay.Month().String(),
	}
	cal.PrevYear, cal.PrevMonth = year, month-1
	if cal.PrevMonth == 0 {
		cal.PrevYear, cal.PrevMonth = year-1, 12
	}
	cal.NextYear, cal.NextMonth = year, month+1
	if cal.NextMonth == 13 {
		cal.NextYear, cal.NextMonth = year+1, 1
	}

	// 週は月曜始まり。月初の曜日の分だけ空白マスを入れる。
	firstWeekday := (int(firstDay.Weekday()) + 6) % 7
	for i := 0; i < firstWeekday; i++ {
		cal.Days = append(cal.Days, CalendarDay{})
	}

	todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	for day := 1; day <= lastDay.Day(); day++ {
		date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		cal.Days = append(cal.Days, CalendarDay{
			Day:     day,
			Date:    date,
			Tasks:   tasksByDay[day],
			IsToday: date.Equal(todayDate),
			IsPast:  date.Before(todayDate),
		})
	}
	return cal, nil
}
