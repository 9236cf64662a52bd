package mestri

import "time"

// Mestri is a supervisor that workers are grouped under.
type Mestri struct {
	ID          string
	MestriID    string
	Name        string
	PhoneNumber string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
