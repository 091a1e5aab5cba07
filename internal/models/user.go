package models

import "time"

type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	IsOnline  bool      `json:"isOnline"`
	AvatarURL *string   `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserSummary is the projection returned by the contact list endpoint.
// It deliberately omits timestamps.
type UserSummary struct {
	ID        int     `json:"id"`
	Username  string  `json:"username"`
	IsOnline  bool    `json:"isOnline"`
	AvatarURL *string `json:"avatarUrl"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
