package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"spws/domain/sharepoint"
)

// MockSnapshotRepository implements SnapshotRepository for testing
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Save(ctx context.Context, snapshot *sharepoint.Snapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockSnapshotRepository) GetByID(ctx context.Context, id string) (*sharepoint.Snapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sharepoint.Snapshot), args.Error(1)
}

func (m *MockSnapshotRepository) GetLatest(ctx context.Context, listName string) (*sharepoint.Snapshot, error) {
	args := m.Called(ctx, listName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sharepoint.Snapshot), args.Error(1)
}

func (m *MockSnapshotRepository) ListByList(ctx context.Context, listName string, limit int) ([]*sharepoint.Snapshot, error) {
	args := m.Called(ctx, listName, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sharepoint.Snapshot), args.Error(1)
}

func (m *MockSnapshotRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
