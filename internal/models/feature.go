package models

// WebsiteFeature is one node of the wizard feature tree offered during
// project creation.
type WebsiteFeature struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	Description     *string `json:"description"`
	ParentFeatureID *int64  `json:"parentFeatureId"`
}
