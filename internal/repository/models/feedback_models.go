package models

import (
	"database/sql"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

type Feedback struct {
	ID            string
	OverallRating string
	Comment       sql.NullString
	CreatedAt     time.Time
}

type StaffLink struct {
	ID         string
	FeedbackID string
	StaffID    string
	Emotion    sql.NullString
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ReasonLink struct {
	ID         string
	FeedbackID string
	ReasonID   string
	CreatedAt  time.Time
}

type Staff struct {
	ID          string
	Name        string
	Position    string
	ImageURL    string
	ContactInfo string
	Active      bool
}

type Category struct {
	ID          string
	Name        string
	Description string
}

type Reason struct {
	ID           string
	Description  string
	CategoryID   string
	CategoryName string
	Active       bool
}

// StaffSelectionCount is one grouped row of staff links inside a time window.
// Name is empty when the staff row no longer exists.
type StaffSelectionCount struct {
	StaffID string
	Name    string
	Count   int
}

type ReasonCount struct {
	ReasonID    string
	Description string
	Count       int
}
