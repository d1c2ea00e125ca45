package service

import (
	"encoding/json"
	"time"
)

type FeedbackRecord struct {
	ID        string        `json:"id"`
	Rating    OverallRating `json:"overallRating"`
	Comment   string        `json:"comment,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

type StaffLink struct {
	ID         string    `json:"id"`
	FeedbackID string    `json:"feedbackId"`
	StaffID    string    `json:"staffId"`
	Emotion    Emotion   `json:"rating,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type ReasonLink struct {
	ID         string    `json:"id"`
	FeedbackID string    `json:"feedbackId"`
	ReasonID   string    `json:"reasonId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FeedbackDetail is a record together with every fact attached to it.
type FeedbackDetail struct {
	FeedbackRecord
	Staff   []StaffLink  `json:"staff"`
	Reasons []ReasonLink `json:"reasons"`
}

type StaffSelection struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type ReasonBreakdown struct {
	Reason string `json:"reason"`
	Value  int    `json:"value"`
}

type DissatisfactionSummary struct {
	Count     int               `json:"count"`
	Breakdown []ReasonBreakdown `json:"pieData"`
}

// TrendRow holds one month of the trend window. Counts has one key per charted staff name.
type TrendRow struct {
	Month  string
	Counts map[string]int
}

// MarshalJSON flattens the row into {"month": "Jun 2025", "<staff name>": n, ...}.
func (r TrendRow) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Counts)+1)
	for name, n := range r.Counts {
		flat[name] = n
	}
	flat["month"] = r.Month
	return json.Marshal(flat)
}

type TrendSeries struct {
	Rows       []TrendRow `json:"data"`
	StaffNames []string   `json:"staffNames"`
}

type StaffMember struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type ReasonOption struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}
