package services

import (
	"context"
	"sync"

	"github.com/taskapp/backend/internal/apperrors"
	"github.com/taskapp/backend/internal/models"
)

// mockUserRepository is an in-memory implementation of UserRepository
type mockUserRepository struct {
	users     map[int]*models.User
	nextID    int
	err       error
	getCalls  int
	updateErr error
}

func newMockUserRepository(users ...*models.User) *mockUserRepository {
	m := &mockUserRepository{users: make(map[int]*models.User), nextID: 1}
	for _, u := range users {
		copied := *u
		m.users[u.ID] = &copied
		if u.ID >= m.nextID {
			m.nextID = u.ID + 1
		}
	}
	return m
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.err != nil {
		return m.err
	}
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
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("user not found")
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	m.getCalls++
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	users := make([]models.User, 0, len(m.users))
	for id := 1; id < m.nextID; id++ {
		if u, ok := m.users[id]; ok {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string, excludeID int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for _, u := range m.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string, excludeID int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for _, u := range m.users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *models.User) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

// mockTaskRepository is an in-memory implementation of TaskRepository that records List arguments
type mockTaskRepository struct {
	tasks     map[int]*models.Task
	nextID    int
	err       error
	listCalls []listCall
	deleted   []int
	updated   []models.Task
}

type listCall struct {
	requesterID int
	all         bool
	filter      models.TaskFilter
}

func newMockTaskRepository(tasks ...*models.Task) *mockTaskRepository {
	m := &mockTaskRepository{tasks: make(map[int]*models.Task), nextID: 1}
	for _, t := range tasks {
		copied := *t
		m.tasks[t.ID] = &copied
		if t.ID >= m.nextID {
			m.nextID = t.ID + 1
		}
	}
	return m
}

func (m *mockTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if m.err != nil {
		return m.err
	}
	task.ID = m.nextID
	m.nextID++
	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

func (m *mockTaskRepository) GetByID(ctx context.Context, id int) (*models.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	t, ok := m.tasks[id]
	if !ok {
		return nil, apperrors.NotFound("task not found")
	}
	copied := *t
	return &copied, nil
}

func (m *mockTaskRepository) List(ctx context.Context, requesterID int, all bool, filter models.TaskFilter) ([]models.Task, error) {
	m.listCalls = append(m.listCalls, listCall{requesterID: requesterID, all: all, filter: filter})
	if m.err != nil {
		return nil, m.err
	}
	tasks := make([]models.Task, 0)
	for id := 1; id < m.nextID; id++ {
		t, ok := m.tasks[id]
		if !ok {
			continue
		}
		if !all && !t.CanEdit(requesterID) {
			continue
		}
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

func (m *mockTaskRepository) Update(ctx context.Context, task *models.Task) error {
	if m.err != nil {
		return m.err
	}
	copied := *task
	m.tasks[task.ID] = &copied
	m.updated = append(m.updated, copied)
	return nil
}

func (m *mockTaskRepository) Delete(ctx context.Context, id int) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.tasks[id]; !ok {
		return apperrors.NotFound("task not found")
	}
	delete(m.tasks, id)
	m.deleted = append(m.deleted, id)
	return nil
}

// mockUserCache is an in-memory UserCache
type mockUserCache struct {
	mu          sync.Mutex
	users       map[int]models.User
	getErr      error
	setErr      error
	invalidated []int
}

func newMockUserCache() *mockUserCache {
	return &mockUserCache{users: make(map[int]models.User)}
}

func (c *mockUserCache) Get(ctx context.Context, id int) (*models.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	u, ok := c.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (c *mockUserCache) Set(ctx context.Context, user *models.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.users[user.ID] = *user
	return nil
}

func (c *mockUserCache) Invalidate(ctx context.Context, id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.users, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

// recordingInvalidator records invalidated user ids
type recordingInvalidator struct {
	ids []int
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, id int) {
	r.ids = append(r.ids, id)
}
