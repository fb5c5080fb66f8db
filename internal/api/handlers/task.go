package handlers

import (
	"errors"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Sshrut/Smart-Task-Scheduler/internal/config"
	"github.com/Sshrut/Smart-Task-Scheduler/internal/models"
	"github.com/Sshrut/Smart-Task-Scheduler/internal/repository"
	"github.com/Sshrut/Smart-Task-Scheduler/pkg/logger"
	"github.com/Sshrut/Smart-Task-Scheduler/pkg/nlp"
)

// Task handlers

func AddTask(c *fiber.Ctx) error {
	username := c.Locals("username").(string)

	type AddTaskRequest struct {
		Task     string `json:"task" validate:"required"`
		Date     string `json:"date"`
		Priority string `json:"priority" validate:"required"`
	}

	var req AddTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in add task", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Bad request",
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error in add task", zap.Error(err))
		msg := "Task description is required"
		if req.Task != "" {
			msg = "Priority is required"
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": msg,
		})
	}

	user, err := config.Users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		logger.ErrorLogger.Error("Error fetching user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error fetching user",
		})
	}

	description, dueAt, err := nlp.Interpret(req.Task, req.Date, time.Now())
	if err != nil {
		logger.AuditLogger.Warn("Could not interpret task", zap.String("task", req.Task), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	task, err := config.Tasks.Add(models.Task{
		UserID:   user.ID,
		Task:     description,
		Date:     models.DateTime(dueAt),
		Priority: req.Priority,
	})
	if err != nil {
		logger.ErrorLogger.Error("Error creating task", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error creating task",
		})
	}

	logger.AuditLogger.Info("Task created successfully", zap.Int("task_id", task.ID), zap.Int("user_id", user.ID))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Task added successfully",
		"task":    task,
	})
}

func UpdateTask(c *fiber.Ctx) error {
	username := c.Locals("username").(string)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid task ID", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	type UpdateTaskRequest struct {
		Completed *bool `json:"completed"`
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update task", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Bad request",
		})
	}
	if req.Completed == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Completed flag is required",
		})
	}

	user, err := config.Users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		logger.ErrorLogger.Error("Error fetching user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error fetching user",
		})
	}

	task, err := config.Tasks.UpdateCompleted(taskID, user.ID, *req.Completed)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Task not found",
			})
		}
		logger.ErrorLogger.Error("Error updating task", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error updating task",
		})
	}

	logger.AuditLogger.Info("Task updated", zap.Int("task_id", taskID), zap.Bool("completed", task.Completed))
	return c.JSON(fiber.Map{
		"message": "Task updated successfully",
		"task":    task,
	})
}

func ListTasks(c *fiber.Ctx) error {
	username := c.Locals("username").(string)

	user, err := config.Users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		logger.ErrorLogger.Error("Error fetching user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error fetching user",
		})
	}

	tasks, err := config.Tasks.ListForUser(user.ID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching tasks", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error fetching tasks",
		})
	}

	// Open tasks first, then by due date, then by priority rank.
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Completed != tasks[j].Completed {
			return !tasks[i].Completed
		}
		di, dj := time.Time(tasks[i].Date), time.Time(tasks[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return models.PriorityRank(tasks[i].Priority) < models.PriorityRank(tasks[j].Priority)
	})

	logger.AuditLogger.Info("Tasks fetched successfully", zap.Int("user_id", user.ID), zap.Int("count", len(tasks)))
	return c.JSON(fiber.Map{
		"tasks": tasks,
	})
}
