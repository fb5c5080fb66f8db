package repository

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/Sshrut/Smart-Task-Scheduler/internal/models"
)

// UserStore is the persistence contract for users. Username uniqueness
// is enforced by the store, not by the caller.
type UserStore interface {
	Create(username, passwordHash string) (models.User, error)
	FindByUsername(username string) (models.User, error)
}

type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) Create(username, passwordHash string) (models.User, error) {
	var user models.User
	err := s.db.QueryRow(
		"INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id, username, created_at, updated_at",
		username, passwordHash,
	).Scan(&user.ID, &user.Username, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		// Unique violation means the username is taken; concurrent
		// registrations race on this index and the loser gets the
		// conflict, never a duplicate row.
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return models.User{}, ErrUsernameTaken
		}
		return models.User{}, err
	}
	user.PasswordHash = passwordHash
	return user, nil
}

func (s *PostgresUserStore) FindByUsername(username string) (models.User, error) {
	var user models.User
	err := s.db.QueryRow(
		"SELECT id, username, password, created_at, updated_at FROM users WHERE username = $1",
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}
