package model

import "time"

const (
	UserTypeUser = "user"
	UserTypeStar = "star"
)

// User is a mobile app account. The admin panel only lists and blocks them.
type User struct {
	ID        int64
	DP        string
	Name      string
	Phone     string
	UserID    string
	Email     string
	Gender    string
	Country   string
	City      string
	UserType  string
	Active    bool
	CreatedAt time.Time
}

// StatusLabel renders Active the way the panel displays it.
func (u User) StatusLabel() string {
	if u.Active {
		return "unblocked"
	}
	return "blocked"
}
