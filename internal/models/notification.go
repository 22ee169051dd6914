package models

import "time"

// Notification is an in-app message for a TA or staff member.
type Notification struct {
	ID        string    `db:"id" json:"id"`
	Recipient string    `db:"recipient" json:"recipient"`
	Message   string    `db:"message" json:"message"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
