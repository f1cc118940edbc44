package model

import "time"

// StaffKind describes one family of staff accounts. Support managers and
// star managers share a shape but live in different tables.
type StaffKind struct {
	Name           string
	Table          string
	UserIDColumn   string
	UserIDField    string
	UploadCategory string
	Label          string
	CountKey       string
}

var (
	SupportManagers = StaffKind{
		Name:           "support",
		Table:          "supportmanagers",
		UserIDColumn:   "user_id",
		UserIDField:    "userId",
		UploadCategory: "supportManagers",
		Label:          "Support Manager",
		CountKey:       "totalSupportManagers",
	}

	StarManagers = StaffKind{
		Name:           "star",
		Table:          "managers",
		UserIDColumn:   "u_id",
		UserIDField:    "uId",
		UploadCategory: "starManagers",
		Label:          "Star Manager",
		CountKey:       "totalManagers",
	}
)

// Manager is a staff account. Password holds the stored form, normally
// an encrypted secret.
type Manager struct {
	ID        int64     `json:"id"`
	ImageURL  string    `json:"imageUrl"`
	Name      string    `json:"name"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
