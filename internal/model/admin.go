package model

import "time"

// Admin is a back-office operator. Password holds a bcrypt hash.
type Admin struct {
	ID        int64      `json:"id"`
	UserID    string     `json:"userId,omitempty"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Password  string     `json:"-"`
	OTP       *int       `json:"-"`
	OTPExpiry *time.Time `json:"-"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
