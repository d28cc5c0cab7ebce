package domain

import "time"

type User struct {
	Id        UserId    `json:"id"`
	Email     Email     `json:"email"`
	Admin     bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}
