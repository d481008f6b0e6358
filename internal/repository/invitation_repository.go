package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/TWRT/project-planner/internal/models"
)

type InvitationRepository struct {
	db *sql.DB
}

func NewInvitationRepository(db *sql.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) Create(invitation *models.Invitation) (int64, error) {
	query := `
		INSERT INTO invitations (email, project_id, token, is_completed)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		invitation.Email,
		invitation.ProjectID,
		invitation.Token,
		invitation.IsCompleted,
	)
	if err != nil {
		return 0, fmt.Errorf("create invitation: %w", err)
	}

	return result.LastInsertId()
}

// FindPending returns an open invitation for the project/email pair, nil
// when none exists. Emails match case-insensitively.
func (r *InvitationRepository) FindPending(projectID int64, email string) (*models.Invitation, error) {
	query := `
		SELECT id, email, project_id, token, is_completed
		FROM invitations
		WHERE project_id = ? AND is_completed = 0 AND UPPER(email) = ?
	`

	var inv models.Invitation
	err := r.db.QueryRow(query, projectID, strings.ToUpper(email)).Scan(
		&inv.ID,
		&inv.Email,
		&inv.ProjectID,
		&inv.Token,
		&inv.IsCompleted,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find invitation: %w", err)
	}

	return &inv, nil
}
