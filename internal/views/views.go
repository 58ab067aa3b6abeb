// Package views derives the read-only task projections shown to a user:
// the dashboard, tasks due today and upcoming tasks grouped by day.
//
// All functions are pure. Day boundaries are taken in the location of the
// supplied now.
package views

import (
	"sort"
	"strings"
	"time"

	"github.com/adanyl0v/go-task-manager/internal/models"
)

const DateKeyLayout = "2006-01-02"

type Filter struct {
	// Query matches title or description, case-insensitively.
	Query      string
	CategoryID string
	Priority   models.Priority
}

type DashboardResult struct {
	Tasks []*models.Task
	// Completed and Pending count the whole input, not the filtered tasks.
	Completed int
	Pending   int
}

type Group struct {
	Date  string
	Tasks []*models.Task
}

type Status string

const (
	StatusNone     Status = "none"
	StatusOverdue  Status = "overdue"
	StatusToday    Status = "today"
	StatusUpcoming Status = "upcoming"
)

func Dashboard(tasks []*models.Task, filter Filter) DashboardResult {
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	result := DashboardResult{Tasks: make([]*models.Task, 0, len(tasks))}
	for _, task := range tasks {
		if task.Completed {
			result.Completed++
		} else {
			result.Pending++
		}

		if query != "" &&
			!strings.Contains(strings.ToLower(task.Title), query) &&
			!strings.Contains(strings.ToLower(task.Description), query) {
			continue
		}
		if filter.CategoryID != "" && !inCategory(task, filter.CategoryID) {
			continue
		}
		if filter.Priority != "" && task.Priority != filter.Priority {
			continue
		}
		result.Tasks = append(result.Tasks, task)
	}
	return result
}

// Today returns the tasks due on the day of now, most pressing first.
// Tasks of equal priority keep their input order.
func Today(tasks []*models.Task, now time.Time, categoryID string) []*models.Task {
	today := DateKey(now, now.Location())

	due := make([]*models.Task, 0)
	for _, task := range tasks {
		if task.DueDate == nil || DateKey(*task.DueDate, now.Location()) != today {
			continue
		}
		if categoryID != "" && !inCategory(task, categoryID) {
			continue
		}
		due = append(due, task)
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].Priority.Rank() < due[j].Priority.Rank()
	})
	return due
}

// Upcoming groups tasks due after today by day, earliest day first.
func Upcoming(tasks []*models.Task, now time.Time, categoryID string) []Group {
	today := DateKey(now, now.Location())

	upcoming := make([]*models.Task, 0)
	for _, task := range tasks {
		if task.DueDate == nil || DateKey(*task.DueDate, now.Location()) <= today {
			continue
		}
		if categoryID != "" && !inCategory(task, categoryID) {
			continue
		}
		upcoming = append(upcoming, task)
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].DueDate.Before(*upcoming[j].DueDate)
	})

	groups := make([]Group, 0)
	index := make(map[string]int)
	for _, task := range upcoming {
		key := DateKey(*task.DueDate, now.Location())
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Date: key})
		}
		groups[i].Tasks = append(groups[i].Tasks, task)
	}
	return groups
}

func DueStatus(due *time.Time, now time.Time) Status {
	if due == nil {
		return StatusNone
	}

	day := DateKey(*due, now.Location())
	today := DateKey(now, now.Location())
	switch {
	case day < today:
		return StatusOverdue
	case day == today:
		return StatusToday
	default:
		return StatusUpcoming
	}
}

// DateKey formats the calendar day of t in loc. Keys sort chronologically.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateKeyLayout)
}

func inCategory(task *models.Task, categoryID string) bool {
	return task.CategoryID != nil && *task.CategoryID == categoryID
}
