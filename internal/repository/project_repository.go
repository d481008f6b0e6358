package repository

import (
	"database/sql"
	"fmt"

	"github.com/TWRT/project-planner/internal/models"
)

// ProjectSummary is one row of the project list with task counters.
type ProjectSummary struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	TotalTasks      int     `json:"totalTasks"`
	InProgressTasks int     `json:"inProgressTasks"`
	CompletedTasks  int     `json:"completedTasks"`
}

type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func insertProject(e execer, project *models.Project) (int64, error) {
	query := `
		INSERT INTO projects (name, description, owner_id)
		VALUES (?, ?, ?)
	`

	result, err := e.Exec(query, project.Name, project.Description, project.OwnerID)
	if err != nil {
		return 0, fmt.Errorf("create project: %w", err)
	}

	return result.LastInsertId()
}

func (r *ProjectRepository) Create(project *models.Project) (int64, error) {
	return insertProject(r.db, project)
}

// CreateWithTasks persists a project and its initial task plan in one
// transaction. A failed task insert rolls everything back, so no project
// row survives with a partial plan.
func (r *ProjectRepository) CreateWithTasks(project *models.Project, tasks []*models.Task) (int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("create project: %w", err)
	}
	defer tx.Rollback()

	projectID, err := insertProject(tx, project)
	if err != nil {
		return 0, err
	}

	for _, task := range tasks {
		task.ProjectID = projectID
		if _, err := insertTask(tx, task); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("create project: %w", err)
	}

	return projectID, nil
}

func (r *ProjectRepository) Get(id int64) (*models.Project, error) {
	query := `SELECT id, name, description, owner_id FROM projects WHERE id = ?`

	var p models.Project
	err := r.db.QueryRow(query, id).Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}

	return &p, nil
}

func (r *ProjectRepository) ListSummaries() ([]ProjectSummary, error) {
	query := `
		SELECT p.id, p.name, p.description,
			COUNT(t.id),
			COALESCE(SUM(CASE WHEN t.status = 'In Progress' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN t.status = 'Done' THEN 1 ELSE 0 END), 0)
		FROM projects p
		LEFT JOIN tasks t ON t.project_id = p.id
		GROUP BY p.id
		ORDER BY p.id DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	summaries := make([]ProjectSummary, 0)
	for rows.Next() {
		var s ProjectSummary
		err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.TotalTasks, &s.InProgressTasks, &s.CompletedTasks)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}
