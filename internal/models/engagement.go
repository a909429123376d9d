package models

import "github.com/google/uuid"

// Query is a contact/support request raised by a user. Status starts as
// "pending"; resolution happens through an administrative path.
type Query struct {
	ID      uuid.UUID `json:"id"`
	UserID  uuid.UUID `json:"user"`
	Subject string    `json:"querySubject"`
	Body    string    `json:"query"`
	Date    string    `json:"date"`
	Status  string    `json:"status"`
}

// Feedback holds a user's latest feedback. One row per user; reposting
// replaces the previous entry.
type Feedback struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user"`
	Feedback string    `json:"feedback"`
	Date     string    `json:"date"`
}
