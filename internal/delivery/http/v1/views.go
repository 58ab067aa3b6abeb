package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/views"
)

type dashboardResponse struct {
	Tasks     []taskResponse `json:"tasks"`
	Completed int            `json:"completed"`
	Pending   int            `json:"pending"`
}

type dayResponse struct {
	Date  string         `json:"date"`
	Tasks []taskResponse `json:"tasks"`
}

type upcomingResponse struct {
	Groups []dayResponse `json:"groups"`
}

func (h *handlerImpl) HandleDashboardView(c *gin.Context) {
	now, ok := h.requestNow(c)
	if !ok {
		return
	}

	var priority models.Priority
	if raw := strings.TrimSpace(c.Query("priority")); raw != "" {
		p, err := models.ParsePriority(raw)
		if err != nil {
			abort(c, newBadRequestError(err.Error()))
			return
		}
		priority = p
	}

	tasks, ok := h.callerTasks(c)
	if !ok {
		return
	}

	result := views.Dashboard(tasks, views.Filter{
		Query:      c.Query("q"),
		CategoryID: c.Query("category"),
		Priority:   priority,
	})
	c.JSON(http.StatusOK, dashboardResponse{
		Tasks:     newTaskResponsesAt(result.Tasks, now),
		Completed: result.Completed,
		Pending:   result.Pending,
	})
}

func (h *handlerImpl) HandleTodayView(c *gin.Context) {
	now, ok := h.requestNow(c)
	if !ok {
		return
	}

	tasks, ok := h.callerTasks(c)
	if !ok {
		return
	}

	today := views.Today(tasks, now, c.Query("category"))
	c.JSON(http.StatusOK, dayResponse{
		Date:  views.DateKey(now, now.Location()),
		Tasks: newTaskResponsesAt(today, now),
	})
}

func (h *handlerImpl) HandleUpcomingView(c *gin.Context) {
	now, ok := h.requestNow(c)
	if !ok {
		return
	}

	tasks, ok := h.callerTasks(c)
	if !ok {
		return
	}

	groups := views.Upcoming(tasks, now, c.Query("category"))
	response := upcomingResponse{Groups: make([]dayResponse, len(groups))}
	for i, group := range groups {
		response.Groups[i] = dayResponse{
			Date:  group.Date,
			Tasks: newTaskResponsesAt(group.Tasks, now),
		}
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) callerTasks(c *gin.Context) ([]*models.Task, bool) {
	caller, ok := h.resolveCaller(c)
	if !ok {
		return nil, false
	}

	tasks, err := h.tasks.ListTasks(c, caller.ID)
	if err != nil {
		abort(c, serviceError(err))
		return nil, false
	}
	return tasks, true
}

// requestNow returns the current time in the location named by the tz
// query parameter, or in the default location.
func (h *handlerImpl) requestNow(c *gin.Context) (time.Time, bool) {
	loc := h.location
	if tz := c.Query("tz"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			h.logger.Error().
				Err(err).
				Str("tz", tz).
				Msg("failed to load location")
			abort(c, newBadRequestError(errInvalidTimezone.Error()))
			return time.Time{}, false
		}
		loc = l
	}
	return time.Now().In(loc), true
}
