package review

import "time"

// Review is a performance review written about an employee.
type Review struct {
	ID           string
	EmployeeID   string
	ReviewerID   *string
	ReviewerName string
	Rating       int
	Comment      string
	ReviewDate   time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
