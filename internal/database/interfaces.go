package database

import (
	"context"
	"errors"

	"duochat/internal/models"
)

// ErrUserNotFound is returned by user lookups when no row matches.
var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, username string) (*models.User, error)
	SetUserPresence(ctx context.Context, userID int, isOnline bool) error
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	UpdateUserAvatar(ctx context.Context, userID int, avatarURL string) (*models.User, error)
}

type MessageRepository interface {
	CreateMessage(ctx context.Context, senderID, receiverID int, content string) (*models.Message, error)
	// GetMessages returns every message exchanged between the two users,
	// in ascending sent-time order. Callers may rely on that ordering.
	GetMessages(ctx context.Context, userIDA, userIDB int) ([]*models.Message, error)
	MarkMessageAsRead(ctx context.Context, messageID int) error
}

type Store interface {
	UserRepository
	MessageRepository
	Close() error
}
