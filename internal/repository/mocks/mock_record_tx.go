package mocks

import (
	"context"

	"fdms/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockRecordTx struct {
	mock.Mock
}

func (m *MockRecordTx) LockSequence(ctx context.Context, e *model.Entity) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockRecordTx) LastCode(ctx context.Context, e *model.Entity) (string, bool, error) {
	args := m.Called(ctx, e)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockRecordTx) Count(ctx context.Context, e *model.Entity) (int64, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecordTx) Exists(ctx context.Context, e *model.Entity, column string, value any, excludeID int64) (bool, error) {
	args := m.Called(ctx, e, column, value, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecordTx) ParentExists(ctx context.Context, p model.Parent, value any) (bool, error) {
	args := m.Called(ctx, p, value)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecordTx) FindByID(ctx context.Context, e *model.Entity, id int64) (model.Record, error) {
	args := m.Called(ctx, e, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockRecordTx) Insert(ctx context.Context, e *model.Entity, p model.Patch) (int64, error) {
	args := m.Called(ctx, e, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecordTx) Update(ctx context.Context, e *model.Entity, id int64, p model.Patch) error {
	args := m.Called(ctx, e, id, p)
	return args.Error(0)
}

func (m *MockRecordTx) Delete(ctx context.Context, e *model.Entity, id int64) error {
	args := m.Called(ctx, e, id)
	return args.Error(0)
}

func (m *MockRecordTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRecordTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}
