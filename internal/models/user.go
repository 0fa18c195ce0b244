package models

import "time"

type User struct {
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Profession   string    `json:"profession"`
	CreatedAt    time.Time `json:"created_at"`
}
