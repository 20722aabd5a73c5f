package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CalendarHandler は月間カレンダーページを表示します。
// year/monthクエリが不正な場合は今月にフォールバックします。
func (h *TaskHandler) CalendarHandler(c *gin.Context) {
	today := time.Now()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(today.Year())))
	if err != nil {
		year = today.Year()
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(today.Month()))))
	if err != nil {
		month = int(today.Month())
	}

	actor := ActorFrom(c)
	cal, calErr := h.taskService.MonthCalendar(actor, year, month, today)
	if calErr != nil {
		h.logger.Error("Failed to build calendar", zap.Error(calErr))
		c.String(http.StatusInternalServerError, "Failed to build calendar")
		return
	}

	c.HTML(http.StatusOK, "calendar.html", gin.H{
		"PageTitle": fmt.Sprintf("%s %d", cal.MonthName, cal.Year),
		"Calendar":  cal,
		"CSRFToken": CSRFTokenFrom(c),
		"Username":  actor.Username,
		"Flash":     PopFlash(c),
	})
}
