package model

import "time"

// PolicyDocument points at the current PDF for a policy type such as
// "privacy" or "terms".
type PolicyDocument struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Document  string    `json:"document"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
