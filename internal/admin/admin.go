package admin

import "time"

// Admin is a content editor allowed to call the write endpoints.
type Admin struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	FirstName string    `json:"firstname"`
	LastName  string    `json:"lastname"`
	CreatedAt time.Time `json:"createdAt"`
}
