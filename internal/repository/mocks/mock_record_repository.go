package mocks

import (
	"context"

	"fdms/internal/model"
	"fdms/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) List(ctx context.Context, e *model.Entity, q repository.ListQuery) ([]model.Record, error) {
	args := m.Called(ctx, e, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Record), args.Error(1)
}

func (m *MockRecordRepository) FindByID(ctx context.Context, e *model.Entity, id int64) (model.Record, error) {
	args := m.Called(ctx, e, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockRecordRepository) FindBy(ctx context.Context, e *model.Entity, column string, value any) ([]model.Record, error) {
	args := m.Called(ctx, e, column, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Record), args.Error(1)
}

func (m *MockRecordRepository) Distinct(ctx context.Context, e *model.Entity, column string) ([]string, error) {
	args := m.Called(ctx, e, column)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRecordRepository) Stats(ctx context.Context, e *model.Entity) (map[string]any, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockRecordRepository) Begin(ctx context.Context) (repository.RecordTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.RecordTx), args.Error(1)
}
