package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskapp/backend/internal/apperrors"
	"github.com/taskapp/backend/internal/models"
	"go.uber.org/zap"
)

const taskColumns = "id, title, description, due_date, priority, `status`, created_at, assignee_id, creator_id"

// orderClauses maps a sort field to its ORDER BY clause.
// Ties are broken by id so listings are stable.
var orderClauses = map[models.SortField]string{
	// Tasks without a due date go last
	models.SortByDueDate:   "due_date IS NULL, due_date ASC, id ASC",
	models.SortByPriority:  "CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 WHEN 'low' THEN 1 ELSE 0 END DESC, id ASC",
	models.SortByCreatedAt: "created_at DESC, id DESC",
}

type taskRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sql.DB, logger *zap.Logger) *taskRepository {
	return &taskRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new task and fills its ID (and CreatedAt when unset)
func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	query := `
		INSERT INTO tasks (title, description, due_date, priority, ` + "`status`" + `, created_at, assignee_id, creator_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.DueDate,
		task.Priority,
		task.Status,
		task.CreatedAt,
		task.AssigneeID,
		task.CreatorID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.Wrap(apperrors.KindValidation, "assignee does not exist", err)
		}
		r.logger.Error("failed to create task", zap.Error(err))
		return fmt.Errorf("failed to create task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	task.ID = int(id)
	return nil
}

// GetByID retrieves a task by ID
func (r *taskRepository) GetByID(ctx context.Context, id int) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("task not found")
	}
	if err != nil {
		r.logger.Error("failed to get task by id", zap.Error(err), zap.Int("taskId", id))
		return nil, fmt.Errorf("failed to get task by id: %w", err)
	}

	return task, nil
}

// List retrieves the tasks visible to a requester.
// When all is false only tasks created by or assigned to requesterID are returned.
// Status and priority filters are exact matches and ignored when empty.
func (r *taskRepository) List(ctx context.Context, requesterID int, all bool, filter models.TaskFilter) ([]models.Task, error) {
	var whereConditions []string
	var args []any

	if !all {
		whereConditions = append(whereConditions, "(creator_id = ? OR assignee_id = ?)")
		args = append(args, requesterID, requesterID)
	}

	if filter.Status != "" {
		whereConditions = append(whereConditions, "`status` = ?")
		args = append(args, filter.Status)
	}

	if filter.Priority != "" {
		whereConditions = append(whereConditions, "priority = ?")
		args = append(args, filter.Priority)
	}

	whereClause := ""
	if len(whereConditions) > 0 {
		whereClause = "WHERE " + strings.Join(whereConditions, " AND ")
	}

	orderClause, ok := orderClauses[filter.SortBy]
	if !ok {
		orderClause = orderClauses[models.SortByDueDate]
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks
		%s
		ORDER BY %s
	`, taskColumns, whereClause, orderClause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query tasks", zap.Error(err))
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			r.logger.Error("failed to scan task", zap.Error(err))
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return tasks, nil
}

// Update stores every mutable column of an existing task.
// id, creator_id and created_at are never written.
func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks
		SET title = ?, description = ?, due_date = ?, priority = ?, ` + "`status`" + ` = ?, assignee_id = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.DueDate,
		task.Priority,
		task.Status,
		task.AssigneeID,
		task.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.Wrap(apperrors.KindValidation, "assignee does not exist", err)
		}
		r.logger.Error("failed to update task", zap.Error(err), zap.Int("taskId", task.ID))
		return fmt.Errorf("failed to update task: %w", err)
	}

	return nil
}

// Delete removes a task
func (r *taskRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM tasks WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("failed to delete task", zap.Error(err), zap.Int("taskId", id))
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NotFound("task not found")
	}

	return nil
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	var description sql.NullString
	var dueDate sql.NullTime
	var assigneeID sql.NullInt64

	err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&dueDate,
		&task.Priority,
		&task.Status,
		&task.CreatedAt,
		&assigneeID,
		&task.CreatorID,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		task.Description = &description.String
	}
	if dueDate.Valid {
		d := dueDate.Time.UTC()
		task.DueDate = &d
	}
	if assigneeID.Valid {
		id := int(assigneeID.Int64)
		task.AssigneeID = &id
	}
	task.CreatedAt = task.CreatedAt.UTC()

	return task, nil
}
