package models

import "time"

const MessageTypeText = "text"

type Message struct {
	ID         int       `json:"id"`
	SenderID   int       `json:"senderId"`
	ReceiverID int       `json:"receiverId"`
	Content    string    `json:"content"`
	Type       string    `json:"type"`
	FileURL    *string   `json:"fileUrl"`
	Sent       time.Time `json:"sent"`
	Read       bool      `json:"read"`
}
