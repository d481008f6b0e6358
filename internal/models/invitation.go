package models

// Invitation is a pending membership offer for an email address that has no
// user record yet.
type Invitation struct {
	ID          int64
	Email       string
	ProjectID   int64
	Token       string
	IsCompleted bool
}
