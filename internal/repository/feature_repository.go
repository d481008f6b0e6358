package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/TWRT/project-planner/internal/models"
)

type FeatureRepository struct {
	db *sql.DB
}

func NewFeatureRepository(db *sql.DB) *FeatureRepository {
	return &FeatureRepository{db: db}
}

const featureColumns = `id, title, description, parent_feature_id`

func (r *FeatureRepository) List() ([]models.WebsiteFeature, error) {
	query := `SELECT ` + featureColumns + ` FROM website_features ORDER BY parent_feature_id, title`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list features: %w", err)
	}
	defer rows.Close()

	return collectFeatures(rows)
}

func (r *FeatureRepository) GetByIDs(ids []int64) ([]models.WebsiteFeature, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	query := `SELECT ` + featureColumns + ` FROM website_features WHERE id IN (` +
		placeholders[:len(placeholders)-1] + `) ORDER BY parent_feature_id, title`

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("get features: %w", err)
	}
	defer rows.Close()

	return collectFeatures(rows)
}

func collectFeatures(rows *sql.Rows) ([]models.WebsiteFeature, error) {
	features := make([]models.WebsiteFeature, 0)
	for rows.Next() {
		var f models.WebsiteFeature
		if err := rows.Scan(&f.ID, &f.Title, &f.Description, &f.ParentFeatureID); err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, rows.Err()
}
