package wedding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wedding-planner/internal/access"
	"wedding-planner/internal/apperr"
	"wedding-planner/internal/auth"
	"wedding-planner/internal/db"
	"wedding-planner/internal/models"
	"wedding-planner/internal/patch"
	"wedding-planner/internal/validate"
)

const priorityMessage = "Priority must be 1 (Low), 2 (Medium), or 3 (High)"

type TaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Deadline    string  `json:"deadline"`
	Status      string  `json:"status"`
	Priority    *int    `json:"priority"`
}

type UpdateTaskRequest struct {
	Title       patch.Field[string] `json:"title"`
	Description patch.Field[string] `json:"description"`
	Deadline    patch.Field[string] `json:"deadline"`
	Status      patch.Field[string] `json:"status"`
	Priority    patch.Field[int]    `json:"priority"`
}

func taskRule(store *db.DB, id string, policy access.Policy) access.Rule[*models.Task] {
	return access.Rule[*models.Task]{
		Load:     func(ctx context.Context) (*models.Task, error) { return store.GetTask(ctx, id) },
		Owner:    func(t *models.Task) string { return access.WeddingOwner(t.Wedding) },
		Policy:   policy,
		NotFound: "Task not found",
		Denied:   "You can only manage tasks of your own wedding",
	}
}

// ListTasks returns the caller's tasks, optionally narrowed to one status.
func (s *Service) ListTasks(ctx context.Context, user *auth.ActingUser, status string) ([]*models.Task, error) {
	if status != "" && !models.TaskStatus(status).Valid() {
		return nil, apperr.Validation("Invalid status")
	}
	w, err := s.callerWedding(ctx, user)
	if err != nil || w == nil {
		return []*models.Task{}, err
	}
	tasks, err := s.DB.ListTasks(ctx, w.ID, models.TaskStatus(status))
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *Service) CreateTask(ctx context.Context, user *auth.ActingUser, req TaskRequest) (*models.Task, error) {
	w, err := s.requireWedding(ctx, user)
	if err != nil {
		return nil, err
	}
	if validate.Blank(req.Title, req.Deadline) {
		return nil, apperr.Validation("Title and deadline are required")
	}
	deadline, err := validate.ParseDate(req.Deadline)
	if err != nil {
		return nil, err
	}

	status := models.TaskPending
	if req.Status != "" {
		status = models.TaskStatus(req.Status)
		if !status.Valid() {
			return nil, apperr.Validation("Invalid status")
		}
	}
	priority := models.PriorityLow
	if req.Priority != nil {
		priority = *req.Priority
	}
	if !models.ValidPriority(priority) {
		return nil, apperr.Validation(priorityMessage)
	}

	now := time.Now().UTC()
	t := &models.Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: validate.Trimmed(req.Description),
		Deadline:    deadline,
		Status:      status,
		Priority:    priority,
		WeddingID:   w.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.DB.CreateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

func (s *Service) GetTask(ctx context.Context, user *auth.ActingUser, id string) (*models.Task, error) {
	return access.Authorize(ctx, user, taskRule(s.DB, id, access.OwnerOrAdmin))
}

func (s *Service) UpdateTask(ctx context.Context, user *auth.ActingUser, id string, req UpdateTaskRequest) (*models.Task, error) {
	t, err := access.Authorize(ctx, user, taskRule(s.DB, id, access.OwnerOnly))
	if err != nil {
		return nil, err
	}
	if req.Title.IsCleared() || req.Deadline.IsCleared() {
		return nil, apperr.Validation("Title and deadline are required")
	}
	if req.Status.IsCleared() {
		return nil, apperr.Validation("Invalid status")
	}
	if req.Priority.IsCleared() {
		return nil, apperr.Validation(priorityMessage)
	}

	columns := []string{"updated_at"}
	if req.Title.Apply(&t.Title) {
		columns = append(columns, "title")
	}
	if req.Description.ApplyNullable(&t.Description) {
		columns = append(columns, "description")
	}
	if req.Deadline.IsSet() {
		deadline, err := validate.ParseDate(req.Deadline.Value)
		if err != nil {
			return nil, err
		}
		t.Deadline = deadline
		columns = append(columns, "deadline")
	}
	if req.Status.IsSet() {
		status := models.TaskStatus(req.Status.Value)
		if !status.Valid() {
			return nil, apperr.Validation("Invalid status")
		}
		t.Status = status
		columns = append(columns, "status")
	}
	if req.Priority.IsSet() {
		if !models.ValidPriority(req.Priority.Value) {
			return nil, apperr.Validation(priorityMessage)
		}
		t.Priority = req.Priority.Value
		columns = append(columns, "priority")
	}

	t.UpdatedAt = time.Now().UTC()
	if err := s.DB.UpdateTask(ctx, t, columns...); err != nil {
		return nil, fmt.Errorf("update task %s: %w", id, err)
	}
	return t, nil
}

func (s *Service) DeleteTask(ctx context.Context, user *auth.ActingUser, id string) error {
	if _, err := access.Authorize(ctx, user, taskRule(s.DB, id, access.OwnerOrAdmin)); err != nil {
		return err
	}
	if err := s.DB.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}
