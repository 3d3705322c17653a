package department

import "time"

// Department groups employees for reporting; referenced by users.
type Department struct {
	ID          string
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
