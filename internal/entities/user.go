package entities

import "time"

// User is an account record, created at sign-up.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255" json:"email"`
	DisplayName  string    `gorm:"size:100;column:display_name" json:"display_name"`
	AvatarURL    string    `gorm:"size:2048;column:avatar_url" json:"avatar_url,omitempty"`
	PasswordHash string    `gorm:"size:128" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}
