package mocks

import (
	"context"

	"fdms/internal/model"
	"fdms/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockRecordService struct {
	mock.Mock
}

func (m *MockRecordService) List(ctx context.Context, e *model.Entity, params service.ListParams) ([]model.Record, error) {
	args := m.Called(ctx, e, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Record), args.Error(1)
}

func (m *MockRecordService) Get(ctx context.Context, e *model.Entity, id int64) (model.Record, error) {
	args := m.Called(ctx, e, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockRecordService) ListBy(ctx context.Context, e *model.Entity, r model.Related, raw string) ([]model.Record, error) {
	args := m.Called(ctx, e, r, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Record), args.Error(1)
}

func (m *MockRecordService) Distinct(ctx context.Context, e *model.Entity, en model.Enum) ([]string, error) {
	args := m.Called(ctx, e, en)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRecordService) Stats(ctx context.Context, e *model.Entity) (map[string]any, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockRecordService) Create(ctx context.Context, e *model.Entity, p model.Patch) (model.Record, error) {
	args := m.Called(ctx, e, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockRecordService) Update(ctx context.Context, e *model.Entity, id int64, p model.Patch) (model.Record, error) {
	args := m.Called(ctx, e, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockRecordService) Delete(ctx context.Context, e *model.Entity, id int64) (map[string]any, error) {
	args := m.Called(ctx, e, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}
