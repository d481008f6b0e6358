package models

// DefaultHourlyRate applies to users without a configured rate and to the
// unassigned estimate bucket.
const DefaultHourlyRate = 50.0

type User struct {
	ID           string
	UserName     *string
	Email        *string
	HourlyRate   float64
	GeminiAPIKey *string
}

// DisplayName resolves a human-readable name: user name, then email, then
// the raw id.
func (u User) DisplayName() string {
	if u.UserName != nil && *u.UserName != "" {
		return *u.UserName
	}
	if u.Email != nil && *u.Email != "" {
		return *u.Email
	}
	return u.ID
}
