package switcher

import "github.com/google/uuid"

// NewAttemptID generates a new unique switch attempt ID using UUID v4
func NewAttemptID() string {
	return uuid.New().String()
}
