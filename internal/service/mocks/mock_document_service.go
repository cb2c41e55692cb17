package mocks

import (
	"context"
	"io"

	"fdms/internal/model"
	"fdms/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, in service.UploadInput) (model.Record, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockDocumentService) Download(ctx context.Context, id int64) (*service.DocumentLink, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentLink), args.Error(1)
}

func (m *MockDocumentService) Open(ctx context.Context, id int64) (io.ReadCloser, *service.DocumentFile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*service.DocumentFile), args.Error(2)
}
