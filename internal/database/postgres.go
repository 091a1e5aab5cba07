package database

import (
	"context"
	"errors"
	"fmt"

	"duochat/internal/models"
	"duochat/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database successfully")
	return &PostgresStore{pool: pool}, nil
}

func (db *PostgresStore) Close() error {
	db.pool.Close()
	return nil
}

// User Repository Implementation
func (db *PostgresStore) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT id, username, is_online, avatar_url, created_at FROM users WHERE id = $1`

	user := &models.User{}
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.IsOnline, &user.AvatarURL, &user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (db *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, is_online, avatar_url, created_at FROM users WHERE username = $1`

	user := &models.User{}
	err := db.pool.QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.IsOnline, &user.AvatarURL, &user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (db *PostgresStore) CreateUser(ctx context.Context, username string) (*models.User, error) {
	query := `
		INSERT INTO users (username, is_online, created_at)
		VALUES ($1, false, NOW())
		RETURNING id, username, is_online, avatar_url, created_at`

	user := &models.User{}
	err := db.pool.QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.IsOnline, &user.AvatarURL, &user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (db *PostgresStore) SetUserPresence(ctx context.Context, userID int, isOnline bool) error {
	query := `UPDATE users SET is_online = $2 WHERE id = $1`
	_, err := db.pool.Exec(ctx, query, userID, isOnline)
	return err
}

func (db *PostgresStore) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	query := `SELECT id, username, is_online, avatar_url, created_at FROM users ORDER BY username`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.IsOnline, &user.AvatarURL, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (db *PostgresStore) UpdateUserAvatar(ctx context.Context, userID int, avatarURL string) (*models.User, error) {
	query := `
		UPDATE users SET avatar_url = $2 WHERE id = $1
		RETURNING id, username, is_online, avatar_url, created_at`

	user := &models.User{}
	err := db.pool.QueryRow(ctx, query, userID, avatarURL).Scan(
		&user.ID, &user.Username, &user.IsOnline, &user.AvatarURL, &user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Message Repository Implementation
func (db *PostgresStore) CreateMessage(ctx context.Context, senderID, receiverID int, content string) (*models.Message, error) {
	query := `
		INSERT INTO messages (sender_id, receiver_id, content, type, file_url, sent, read)
		VALUES ($1, $2, $3, $4, NULL, NOW(), false)
		RETURNING id, sender_id, receiver_id, content, type, file_url, sent, read`

	msg := &models.Message{}
	err := db.pool.QueryRow(ctx, query, senderID, receiverID, content, models.MessageTypeText).Scan(
		&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Content, &msg.Type, &msg.FileURL, &msg.Sent, &msg.Read,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	return msg, nil
}

// GetMessages orders by sent time ascending; the contract callers depend on,
// not an accident of insertion order.
func (db *PostgresStore) GetMessages(ctx context.Context, userIDA, userIDB int) ([]*models.Message, error) {
	query := `
		SELECT id, sender_id, receiver_id, content, type, file_url, sent, read
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY sent ASC`

	rows, err := db.pool.Query(ctx, query, userIDA, userIDB)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		msg := &models.Message{}
		if err := rows.Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Content, &msg.Type, &msg.FileURL, &msg.Sent, &msg.Read); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

func (db *PostgresStore) MarkMessageAsRead(ctx context.Context, messageID int) error {
	// Idempotent; marking an already-read message is a no-op update.
	query := `UPDATE messages SET read = true WHERE id = $1`
	_, err := db.pool.Exec(ctx, query, messageID)
	return err
}
