package handlers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taskapp/backend/internal/apperrors"
	"github.com/taskapp/backend/internal/models"
)

// memUserRepository is a concurrency-safe in-memory user store
type memUserRepository struct {
	mu     sync.Mutex
	users  []models.User
	nextID int
}

func newMemUserRepository() *memUserRepository {
	return &memUserRepository{nextID: 1}
}

func (m *memUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username {
			return apperrors.Conflict("username already exists")
		}
		if u.Email == user.Email {
			return apperrors.Conflict("email already exists")
		}
	}
	user.ID = m.nextID
	m.nextID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	m.users = append(m.users, *user)
	return nil
}

func (m *memUserRepository) find(match func(models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, apperrors.NotFound("user not found")
}

func (m *memUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.Username == username })
}

func (m *memUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.ID == id })
}

func (m *memUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.User{}, m.users...), nil
}

func (m *memUserRepository) ExistsByEmail(ctx context.Context, email string, excludeID int) (bool, error) {
	_, err := m.find(func(u models.User) bool { return u.Email == email && u.ID != excludeID })
	return err == nil, nil
}

func (m *memUserRepository) ExistsByUsername(ctx context.Context, username string, excludeID int) (bool, error) {
	_, err := m.find(func(u models.User) bool { return u.Username == username && u.ID != excludeID })
	return err == nil, nil
}

func (m *memUserRepository) Update(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == user.ID {
			m.users[i] = *user
			return nil
		}
	}
	return apperrors.NotFound("user not found")
}

// memTaskRepository is an in-memory task store with the same scoping and ordering as the MySQL repository
type memTaskRepository struct {
	mu     sync.Mutex
	tasks  []models.Task
	nextID int
	clock  time.Time
}

func newMemTaskRepository() *memTaskRepository {
	return &memTaskRepository{nextID: 1, clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *memTaskRepository) Create(ctx context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	task.ID = m.nextID
	m.nextID++
	// Distinct creation times keep created_at ordering deterministic
	m.clock = m.clock.Add(time.Minute)
	task.CreatedAt = m.clock
	m.tasks = append(m.tasks, *task)
	return nil
}

func (m *memTaskRepository) GetByID(ctx context.Context, id int) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		if t.ID == id {
			found := t
			return &found, nil
		}
	}
	return nil, apperrors.NotFound("task not found")
}

func (m *memTaskRepository) List(ctx context.Context, requesterID int, all bool, filter models.TaskFilter) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tasks := make([]models.Task, 0)
	for _, t := range m.tasks {
		if !all && !t.CanEdit(requesterID) {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		tasks = append(tasks, t)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch filter.SortBy {
		case models.SortByPriority:
			if a.Priority.Rank() != b.Priority.Rank() {
				return a.Priority.Rank() > b.Priority.Rank()
			}
			return a.ID < b.ID
		case models.SortByCreatedAt:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID > b.ID
		default:
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return a.ID < b.ID
			case a.DueDate == nil:
				return false
			case b.DueDate == nil:
				return true
			case !a.DueDate.Equal(*b.DueDate):
				return a.DueDate.Before(*b.DueDate)
			}
			return a.ID < b.ID
		}
	})
	return tasks, nil
}

func (m *memTaskRepository) Update(ctx context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == task.ID {
			m.tasks[i] = *task
			return nil
		}
	}
	return apperrors.NotFound("task not found")
}

func (m *memTaskRepository) Delete(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFound("task not found")
}
