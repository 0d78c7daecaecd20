package domain

import "time"

type User struct {
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Hash       string    `json:"password_hash"`
	ProfilePic string    `json:"profile_pic"`
	CreatedAt  time.Time `json:"created_at"`
}
