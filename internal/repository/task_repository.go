package repository

import (
	"database/sql"
	"fmt"

	"github.com/TWRT/project-planner/internal/models"
)

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, project_id, title, description, status, estimated_hours, assigned_user_id, completion_url, completed_at`

func scanTask(row interface{ Scan(...any) error }) (models.Task, error) {
	var t models.Task
	err := row.Scan(
		&t.ID,
		&t.ProjectID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.EstimatedHours,
		&t.AssignedUserID,
		&t.CompletionUrl,
		&t.CompletedAt,
	)
	return t, err
}

// execer is satisfied by both *sql.DB and *sql.Tx, so inserts can run
// standalone or inside a transaction.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertTask(e execer, task *models.Task) (int64, error) {
	query := `
		INSERT INTO tasks (project_id, title, description, status, estimated_hours, assigned_user_id, completion_url, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := e.Exec(query,
		task.ProjectID,
		task.Title,
		task.Description,
		task.Status,
		task.EstimatedHours,
		task.AssignedUserID,
		task.CompletionUrl,
		task.CompletedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("create task: %w", err)
	}

	return result.LastInsertId()
}

func (r *TaskRepository) Create(task *models.Task) (int64, error) {
	return insertTask(r.db, task)
}

func (r *TaskRepository) Get(id int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	task, err := scanTask(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	return &task, nil
}

func (r *TaskRepository) ListByProject(projectID int64) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ? ORDER BY title`

	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

func (r *TaskRepository) UpdateStatus(id int64, status string) error {
	_, err := r.db.Exec(`UPDATE tasks SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	return nil
}

func (r *TaskRepository) UpdateCompletionUrl(id int64, completionUrl *string) error {
	_, err := r.db.Exec(`UPDATE tasks SET completion_url = ? WHERE id = ?`, completionUrl, id)
	if err != nil {
		return fmt.Errorf("update completion url: %w", err)
	}
	return nil
}

func (r *TaskRepository) UpdateEstimate(id int64, estimatedHours *float64) error {
	_, err := r.db.Exec(`UPDATE tasks SET estimated_hours = ? WHERE id = ?`, estimatedHours, id)
	if err != nil {
		return fmt.Errorf("update task estimate: %w", err)
	}
	return nil
}

func (r *TaskRepository) UpdateAssignee(id int64, userID *string) error {
	_, err := r.db.Exec(`UPDATE tasks SET assigned_user_id = ? WHERE id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("update task assignee: %w", err)
	}
	return nil
}
