package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

func InitDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	if err := seedFeatures(db); err != nil {
		return nil, err
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id TEXT PRIMARY KEY,
        user_name TEXT,
        email TEXT,
        hourly_rate REAL NOT NULL DEFAULT 50,
        gemini_api_key TEXT
    );

    CREATE TABLE IF NOT EXISTS projects (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        description TEXT,
        owner_id TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS project_members (
        project_id INTEGER NOT NULL,
        user_id TEXT NOT NULL,
        role TEXT NOT NULL DEFAULT 'Member',
        PRIMARY KEY (project_id, user_id),
        FOREIGN KEY (project_id) REFERENCES projects(id)
    );

    CREATE TABLE IF NOT EXISTS tasks (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        project_id INTEGER NOT NULL,
        title TEXT NOT NULL,
        description TEXT,
        status TEXT NOT NULL DEFAULT 'To Do',
        estimated_hours REAL,
        assigned_user_id TEXT,
        completion_url TEXT,
        completed_at DATETIME,
        FOREIGN KEY (project_id) REFERENCES projects(id)
    );

    CREATE TABLE IF NOT EXISTS task_comments (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        task_id INTEGER NOT NULL,
        user_id TEXT NOT NULL,
        content TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (task_id) REFERENCES tasks(id)
    );

    CREATE TABLE IF NOT EXISTS invitations (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        email TEXT NOT NULL,
        project_id INTEGER NOT NULL,
        token TEXT NOT NULL,
        is_completed INTEGER NOT NULL DEFAULT 0,
        FOREIGN KEY (project_id) REFERENCES projects(id)
    );

    CREATE TABLE IF NOT EXISTS website_features (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        title TEXT NOT NULL,
        description TEXT,
        parent_feature_id INTEGER,
        FOREIGN KEY (parent_feature_id) REFERENCES website_features(id)
    );
    `

	_, err := db.Exec(schema)
	return err
}

// seedFeatures populates the wizard feature tree on first start.
func seedFeatures(db *sql.DB) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM website_features`).Scan(&count); err != nil {
		return fmt.Errorf("count features: %w", err)
	}
	if count > 0 {
		return nil
	}

	type seed struct {
		title       string
		description string
		children    []seed
	}

	seeds := []seed{
		{"User accounts", "Registration, sign-in, and profile management.", []seed{
			{"Social login", "Sign in with Google or GitHub.", nil},
			{"Password reset", "Email-based password recovery.", nil},
		}},
		{"Content management", "Create, edit, and publish site content.", []seed{
			{"Rich text editor", "WYSIWYG editing with media embeds.", nil},
			{"Media library", "Upload and organize images and files.", nil},
		}},
		{"E-commerce", "Sell products or services online.", []seed{
			{"Shopping cart", "Persistent cart with quantity management.", nil},
			{"Payment processing", "Card payments via a hosted gateway.", nil},
			{"Order history", "Customers can review past purchases.", nil},
		}},
		{"Search", "Full-text search across site content.", nil},
		{"Analytics dashboard", "Traffic and conversion reporting.", nil},
		{"Notifications", "Email and in-app notifications for key events.", nil},
	}

	var insert func(s seed, parentID *int64) error
	insert = func(s seed, parentID *int64) error {
		result, err := db.Exec(
			`INSERT INTO website_features (title, description, parent_feature_id) VALUES (?, ?, ?)`,
			s.title, s.description, parentID,
		)
		if err != nil {
			return fmt.Errorf("seed feature %q: %w", s.title, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		for _, child := range s.children {
			if err := insert(child, &id); err != nil {
				return err
			}
		}
		return nil
	}

	for _, s := range seeds {
		if err := insert(s, nil); err != nil {
			return err
		}
	}

	return nil
}
