package models

import (
	"strings"
	"time"
)

const (
	StatusToDo       = "To Do"
	StatusInProgress = "In Progress"
	StatusDone       = "Done"
)

// TaskStatuses is the canonical status vocabulary. Every external
// representation must round-trip through this exact set.
var TaskStatuses = []string{StatusToDo, StatusInProgress, StatusDone}

// NormalizeStatus matches raw against the canonical set case-insensitively.
// The second return is false when raw is not a known status.
func NormalizeStatus(raw string) (string, bool) {
	for _, status := range TaskStatuses {
		if strings.EqualFold(status, raw) {
			return status, true
		}
	}
	return "", false
}

type Task struct {
	ID             int64      `json:"id"`
	ProjectID      int64      `json:"projectId"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	Status         string     `json:"status"`
	EstimatedHours *float64   `json:"estimatedHours"`
	AssignedUserID *string    `json:"assignedUserId"`
	CompletionUrl  *string    `json:"completionUrl"`
	CompletedAt    *time.Time `json:"completedAt"`
}

// TaskDraft is an unpersisted task produced by the plan parser. Drafts are
// never pre-assigned or pre-completed.
type TaskDraft struct {
	Title          string
	Description    *string
	Status         string
	EstimatedHours *float64
}

type TaskComment struct {
	ID         int64     `json:"id"`
	TaskID     int64     `json:"taskId"`
	UserID     string    `json:"-"`
	Content    string    `json:"content"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"createdAt"`
}
