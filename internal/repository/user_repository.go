package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/TWRT/project-planner/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, user_name, email, hourly_rate, gemini_api_key`

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.UserName, &u.Email, &u.HourlyRate, &u.GeminiAPIKey)
	return u, err
}

func (r *UserRepository) Get(id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	user, err := scanUser(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE UPPER(email) = ?`

	user, err := scanUser(r.db.QueryRow(query, strings.ToUpper(email)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) ListByIDs(ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	query := `SELECT ` + userColumns + ` FROM users WHERE id IN (` + placeholders[:len(placeholders)-1] + `)`

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (r *UserRepository) Upsert(user *models.User) error {
	query := `
		INSERT INTO users (id, user_name, email, hourly_rate, gemini_api_key)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_name = excluded.user_name,
			email = excluded.email,
			hourly_rate = excluded.hourly_rate,
			gemini_api_key = excluded.gemini_api_key
	`

	_, err := r.db.Exec(query, user.ID, user.UserName, user.Email, user.HourlyRate, user.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}
