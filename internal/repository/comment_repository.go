package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/TWRT/project-planner/internal/models"
)

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(comment *models.TaskComment) (int64, error) {
	query := `
		INSERT INTO task_comments (task_id, user_id, content, created_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.Exec(query, comment.TaskID, comment.UserID, comment.Content, comment.CreatedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("create comment: %w", err)
	}

	return result.LastInsertId()
}

// ListByTask returns a task's comments oldest-first with the author name
// resolved the way the details page shows it: email, then user name, then
// the raw user id.
func (r *CommentRepository) ListByTask(taskID int64) ([]models.TaskComment, error) {
	query := `
		SELECT c.id, c.task_id, c.user_id, c.content, c.created_at, u.user_name, u.email
		FROM task_comments c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE c.task_id = ?
		ORDER BY c.created_at
	`

	rows, err := r.db.Query(query, taskID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]models.TaskComment, 0)
	for rows.Next() {
		var (
			c         models.TaskComment
			createdAt time.Time
			userName  *string
			email     *string
		)
		if err := rows.Scan(&c.ID, &c.TaskID, &c.UserID, &c.Content, &createdAt, &userName, &email); err != nil {
			return nil, err
		}
		c.CreatedAt = createdAt
		c.AuthorName = commentAuthorName(c.UserID, userName, email)
		comments = append(comments, c)
	}

	return comments, rows.Err()
}

func commentAuthorName(userID string, userName, email *string) string {
	if email != nil && *email != "" {
		return *email
	}
	if userName != nil && *userName != "" {
		return *userName
	}
	return userID
}
