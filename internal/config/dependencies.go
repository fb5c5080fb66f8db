package config

import (
	"database/sql"

	"github.com/go-playground/validator/v10"

	"github.com/Sshrut/Smart-Task-Scheduler/internal/repository"
)

var (
	// Shared dependencies used across the application, wired once in main.
	DB        *sql.DB
	SecretKey = []byte("default_secret_key")
	Validate  = validator.New()

	Users repository.UserStore
	Tasks repository.TaskStore
)
