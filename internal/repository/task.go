package repository

import (
	"database/sql"
	"time"

	"github.com/Sshrut/Smart-Task-Scheduler/internal/models"
)

// TaskStore is the persistence contract for tasks. Every operation is
// scoped to an owner; tasks have no existence outside their user.
type TaskStore interface {
	Add(task models.Task) (models.Task, error)
	UpdateCompleted(taskID, userID int, completed bool) (models.Task, error)
	ListForUser(userID int) ([]models.Task, error)
}

type PostgresTaskStore struct {
	db *sql.DB
}

func NewPostgresTaskStore(db *sql.DB) *PostgresTaskStore {
	return &PostgresTaskStore{db: db}
}

func (s *PostgresTaskStore) Add(task models.Task) (models.Task, error) {
	err := s.db.QueryRow(
		"INSERT INTO tasks (user_id, task, date, priority, completed) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at",
		task.UserID, task.Task, time.Time(task.Date), task.Priority, task.Completed,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *PostgresTaskStore) UpdateCompleted(taskID, userID int, completed bool) (models.Task, error) {
	var task models.Task
	var date time.Time
	err := s.db.QueryRow(
		`UPDATE tasks SET completed = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2 AND user_id = $3
		 RETURNING id, user_id, task, date, priority, completed, created_at, updated_at`,
		completed, taskID, userID,
	).Scan(&task.ID, &task.UserID, &task.Task, &date, &task.Priority, &task.Completed, &task.CreatedAt, &task.UpdatedAt)
	if err == sql.ErrNoRows {
		return models.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return models.Task{}, err
	}
	task.Date = models.DateTime(date)
	return task, nil
}

func (s *PostgresTaskStore) ListForUser(userID int) ([]models.Task, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, task, date, priority, completed, created_at, updated_at FROM tasks WHERE user_id = $1",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		var date time.Time
		if err := rows.Scan(&task.ID, &task.UserID, &task.Task, &date, &task.Priority, &task.Completed, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, err
		}
		task.Date = models.DateTime(date)
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}
