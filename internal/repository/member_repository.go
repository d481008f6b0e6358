package repository

import (
	"database/sql"
	"fmt"

	"github.com/TWRT/project-planner/internal/models"
)

type MemberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) ListByProject(projectID int64) ([]models.ProjectMember, error) {
	query := `SELECT project_id, user_id, role FROM project_members WHERE project_id = ?`

	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	members := make([]models.ProjectMember, 0)
	for rows.Next() {
		var m models.ProjectMember
		if err := rows.Scan(&m.ProjectID, &m.UserID, &m.Role); err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

func (r *MemberRepository) Add(member *models.ProjectMember) error {
	query := `INSERT OR IGNORE INTO project_members (project_id, user_id, role) VALUES (?, ?, ?)`

	_, err := r.db.Exec(query, member.ProjectID, member.UserID, member.Role)
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

func (r *MemberRepository) Exists(projectID int64, userID string) (bool, error) {
	query := `SELECT COUNT(*) FROM project_members WHERE project_id = ? AND user_id = ?`

	var count int
	if err := r.db.QueryRow(query, projectID, userID).Scan(&count); err != nil {
		return false, fmt.Errorf("check member: %w", err)
	}
	return count > 0, nil
}
