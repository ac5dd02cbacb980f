package service_test

import (
	"context"
	"database/sql"
	"time"

	"github.com/kanbanlab/taskboard-api/internal/domain"
	"github.com/kanbanlab/taskboard-api/internal/service"
	"github.com/kanbanlab/taskboard-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockTaskRepository is a mock implementation of service.TaskRepository.
type MockTaskRepository struct {
	mock.Mock
	dbConn *sql.DB
}

func (m *MockTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) List(ctx context.Context, q store.TaskQuery) ([]*domain.Task, int, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Task), args.Int(1), args.Error(2)
}

func (m *MockTaskRepository) MaxSortOrder(ctx context.Context, status domain.TaskStatus) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

func (m *MockTaskRepository) SetPosition(
	ctx context.Context,
	id int64,
	status domain.TaskStatus,
	sortOrder int,
	updatedAt time.Time,
) (bool, error) {
	args := m.Called(ctx, id, status, sortOrder, updatedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskRepository) WithTx(tx *sql.Tx) service.TaskRepository {
	return m
}

func (m *MockTaskRepository) DB() *sql.DB {
	return m.dbConn
}

// MockListCache is a mock implementation of service.ListCache.
type MockListCache struct {
	mock.Mock
}

func (m *MockListCache) GetList(ctx context.Context, q store.TaskQuery) ([]*domain.Task, int, bool, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Bool(2), args.Error(3)
	}
	return args.Get(0).([]*domain.Task), args.Int(1), args.Bool(2), args.Error(3)
}

func (m *MockListCache) SetList(ctx context.Context, q store.TaskQuery, tasks []*domain.Task, total int) error {
	args := m.Called(ctx, q, tasks, total)
	return args.Error(0)
}

func (m *MockListCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
