package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vedran77/taskly/internal/domain"
	"github.com/vedran77/taskly/internal/repository"
	"github.com/vedran77/taskly/pkg/validator"
)

type TaskService struct {
	taskRepo repository.TaskRepository
}

func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

type ListTasksInput struct {
	Status   string
	Priority string
	Search   string
	SortBy   string
	Order    string
}

type CreateTaskInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	DueDate     *string  `json:"dueDate"`
	Tags        []string `json:"tags"`
}

type UpdateTaskInput struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Status      *string          `json:"status"`
	Priority    *string          `json:"priority"`
	DueDate     Nullable[string] `json:"dueDate"`
	Tags        *[]string        `json:"tags"`
}

func (s *TaskService) List(ctx context.Context, userID string, input ListTasksInput) ([]domain.Task, error) {
	filter := repository.TaskFilter{
		Status:   input.Status,
		Priority: input.Priority,
		Search:   strings.TrimSpace(input.Search),
		SortBy:   input.SortBy,
		Desc:     true,
	}

	if filter.Status != "" && !validator.IsValidStatus(filter.Status) {
		return nil, domain.BadRequest("Invalid status value")
	}
	if filter.Priority != "" && !validator.IsValidPriority(filter.Priority) {
		return nil, domain.BadRequest("Invalid priority value")
	}
	if filter.SortBy != "" && !validator.IsValidSortKey(filter.SortBy) {
		return nil, domain.BadRequest("Invalid sortBy value")
	}
	switch input.Order {
	case "", "desc":
	case "asc":
		filter.Desc = false
	default:
		return nil, domain.BadRequest("Invalid order value")
	}

	return s.taskRepo.List(ctx, userID, filter)
}

func (s *TaskService) Get(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	taskID = strings.ToLower(taskID)
	if !validator.IsValidID(taskID) {
		return nil, domain.BadRequest("Invalid task ID")
	}

	task, err := s.taskRepo.GetByOwner(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.NotFound("Task not found")
	}
	return task, nil
}

func (s *TaskService) Create(ctx context.Context, userID string, input CreateTaskInput) (*domain.Task, error) {
	title := validator.Sanitize(input.Title)
	if title == "" {
		return nil, domain.BadRequest("Task title is required")
	}

	now := timestamp()
	task := &domain.Task{
		ID:          domain.NewID(),
		UserID:      userID,
		Title:       title,
		Description: validator.Sanitize(input.Description),
		Status:      domain.StatusPending,
		Priority:    domain.PriorityMedium,
		Tags:        cleanTags(input.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if input.Status != "" {
		if !validator.IsValidStatus(input.Status) {
			return nil, domain.BadRequest("Invalid status value")
		}
		task.SetStatus(input.Status, now)
	}

	if input.Priority != "" {
		if !validator.IsValidPriority(input.Priority) {
			return nil, domain.BadRequest("Invalid priority value")
		}
		task.Priority = input.Priority
	}

	if input.DueDate != nil && *input.DueDate != "" {
		due, err := parseDate(*input.DueDate)
		if err != nil {
			return nil, domain.BadRequest("Invalid due date")
		}
		task.DueDate = &due
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	return task, nil
}

// Update applies the fields present in input. The owner never changes.
func (s *TaskService) Update(ctx context.Context, userID, taskID string, input UpdateTaskInput) (*domain.Task, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	now := timestamp()

	if input.Title != nil {
		title := validator.Sanitize(*input.Title)
		if title == "" {
			return nil, domain.BadRequest("Task title is required")
		}
		task.Title = title
	}

	if input.Description != nil {
		task.Description = validator.Sanitize(*input.Description)
	}

	if input.Status != nil {
		if !validator.IsValidStatus(*input.Status) {
			return nil, domain.BadRequest("Invalid status value")
		}
		task.SetStatus(*input.Status, now)
	}

	if input.Priority != nil {
		if !validator.IsValidPriority(*input.Priority) {
			return nil, domain.BadRequest("Invalid priority value")
		}
		task.Priority = *input.Priority
	}

	if input.DueDate.Set {
		if !input.DueDate.Valid || input.DueDate.Value == "" {
			task.DueDate = nil
		} else {
			due, err := parseDate(input.DueDate.Value)
			if err != nil {
				return nil, domain.BadRequest("Invalid due date")
			}
			task.DueDate = &due
		}
	}

	if input.Tags != nil {
		task.Tags = cleanTags(*input.Tags)
	}

	task.UpdatedAt = now
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("updating task: %w", err)
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	taskID = strings.ToLower(taskID)
	if !validator.IsValidID(taskID) {
		return domain.BadRequest("Invalid task ID")
	}

	deleted, err := s.taskRepo.Delete(ctx, taskID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NotFound("Task not found")
	}
	return nil
}

func (s *TaskService) Stats(ctx context.Context, userID string) (*domain.TaskStats, error) {
	return s.taskRepo.Stats(ctx, userID)
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = validator.Sanitize(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseDate accepts RFC 3339 timestamps, datetime-local values and plain
// dates, all read as UTC when no offset is given.
func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
