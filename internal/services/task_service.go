package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taskapp/backend/internal/apperrors"
	"github.com/taskapp/backend/internal/models"
	"go.uber.org/zap"
)

const maxTitleLength = 100

// TaskRepository is the interface that wraps methods for Task table data access
type TaskRepository interface {
	// Method Create inserts a new task into the database.
	//
	// "task" parameter is used to create a new task. On success its ID and creation time are filled.
	//
	// If the assignee does not exist, a ValidationError is returned.
	Create(ctx context.Context, task *models.Task) error
	// Method GetByID retrieves a task by ID.
	//
	// If task with such ID does not exist, a NotFoundError will be returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Task, error)
	// Method List retrieves the tasks visible to a user.
	//
	// "requesterID" parameter is matched against creator and assignee of every task.
	// "all" parameter disables that scoping; it is used for administrators.
	// "filter" parameter holds exact-match status and priority filters and the sort order.
	// Empty filter values are ignored.
	//
	// If no task matches, an empty slice is returned.
	List(ctx context.Context, requesterID int, all bool, filter models.TaskFilter) ([]models.Task, error)
	// Method Update stores every mutable field of an existing task.
	Update(ctx context.Context, task *models.Task) error
	// Method Delete removes a task.
	//
	// If task with such ID does not exist, a NotFoundError will be returned.
	Delete(ctx context.Context, id int) error
}

type taskService struct {
	repo   TaskRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewTaskService creates a new task service
func NewTaskService(repo TaskRepository, logger *zap.Logger) *taskService {
	return &taskService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// ListTasks returns the tasks visible to the requester.
// Administrators see every task; other users see tasks they created or are assigned to.
func (s *taskService) ListTasks(ctx context.Context, requester *models.User, filter models.TaskFilter) ([]models.Task, error) {
	if filter.SortBy == "" {
		filter.SortBy = models.SortByDueDate
	}
	if !filter.SortBy.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("invalid sort_by %q: expected due_date, priority or created_at", filter.SortBy))
	}

	return s.repo.List(ctx, requester.ID, requester.IsAdmin(), filter)
}

// GetTask returns one task if the requester may see it
func (s *taskService) GetTask(ctx context.Context, requester *models.User, id int) (*models.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !requester.IsAdmin() && !task.CanEdit(requester.ID) {
		return nil, apperrors.Forbidden("you do not have access to this task")
	}
	return task, nil
}

// CreateTask creates a task owned by the requester.
//
// Missing description becomes "", missing priority and status become medium and pending.
// A null or empty due date means none.
func (s *taskService) CreateTask(ctx context.Context, requester *models.User, req *models.CreateTaskRequest) (*models.Task, error) {
	title, err := normalizeTitle(req.Title)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:     title,
		Priority:  models.PriorityMedium,
		Status:    models.StatusPending,
		CreatorID: requester.ID,
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}

	if req.Description.Set {
		task.Description = req.Description.Ptr()
	} else {
		empty := ""
		task.Description = &empty
	}

	if req.DueDate.Set && !req.DueDate.Null && strings.TrimSpace(req.DueDate.Value) != "" {
		dueDate, err := parseDueDate(req.DueDate.Value)
		if err != nil {
			return nil, err
		}
		task.DueDate = &dueDate
	}

	if req.Priority.Set && !req.Priority.Null {
		if task.Priority, err = parsePriority(req.Priority.Value); err != nil {
			return nil, err
		}
	}
	if req.Status.Set && !req.Status.Null {
		if task.Status, err = parseStatus(req.Status.Value); err != nil {
			return nil, err
		}
	}

	task.AssigneeID = req.AssigneeID.ID

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("task created", zap.Int("taskId", task.ID), zap.Int("creatorId", task.CreatorID))
	return task, nil
}

// UpdateTask merges the supplied fields into a task.
//
// Only the creator and the assignee may update. A null or empty due date keeps the prior value;
// a present assignee_id replaces the assignee, null clears it.
func (s *taskService) UpdateTask(ctx context.Context, requester *models.User, id int, req *models.UpdateTaskRequest) (*models.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !task.CanEdit(requester.ID) {
		return nil, apperrors.Forbidden("only the creator or the assignee can update this task")
	}

	if req.Title.Set {
		if req.Title.Null {
			return nil, apperrors.Validation("title is required")
		}
		if task.Title, err = normalizeTitle(req.Title.Value); err != nil {
			return nil, err
		}
	}

	if req.Description.Set {
		task.Description = req.Description.Ptr()
	}

	if req.DueDate.Set && !req.DueDate.Null && strings.TrimSpace(req.DueDate.Value) != "" {
		dueDate, err := parseDueDate(req.DueDate.Value)
		if err != nil {
			return nil, err
		}
		task.DueDate = &dueDate
	}

	if req.Priority.Set && !req.Priority.Null {
		if task.Priority, err = parsePriority(req.Priority.Value); err != nil {
			return nil, err
		}
	}
	if req.Status.Set && !req.Status.Null {
		if task.Status, err = parseStatus(req.Status.Value); err != nil {
			return nil, err
		}
	}

	if req.AssigneeID.Set {
		task.AssigneeID = req.AssigneeID.ID
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("task updated", zap.Int("taskId", task.ID), zap.Int("userId", requester.ID))
	return task, nil
}

// DeleteTask removes a task. Only its creator may do so.
func (s *taskService) DeleteTask(ctx context.Context, requester *models.User, id int) error {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if task.CreatorID != requester.ID {
		return apperrors.Forbidden("only the creator can delete this task")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("task deleted", zap.Int("taskId", id), zap.Int("userId", requester.ID))
	return nil
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperrors.Validation("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", apperrors.Validation(fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}
	return title, nil
}

func parseDueDate(value string) (time.Time, error) {
	dueDate, err := models.ParseDueDate(value)
	if err != nil {
		return time.Time{}, apperrors.Wrap(apperrors.KindValidation, fmt.Sprintf("invalid due_date %q", value), err)
	}
	return dueDate, nil
}

func parsePriority(value string) (models.Priority, error) {
	priority := models.Priority(strings.TrimSpace(value))
	if !priority.Valid() {
		return "", apperrors.Validation(fmt.Sprintf("invalid priority %q: expected low, medium or high", value))
	}
	return priority, nil
}

func parseStatus(value string) (models.Status, error) {
	status := models.Status(strings.TrimSpace(value))
	if !status.Valid() {
		return "", apperrors.Validation(fmt.Sprintf("invalid status %q: expected pending, in-progress or completed", value))
	}
	return status, nil
}
