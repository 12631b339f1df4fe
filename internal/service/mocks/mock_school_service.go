package mocks

import (
	"context"

	"schoolapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockSchoolService struct {
	mock.Mock
}

func (m *MockSchoolService) List(ctx context.Context) ([]model.School, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.School), args.Error(1)
}

func (m *MockSchoolService) Get(ctx context.Context, id int64) (*model.School, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.School), args.Error(1)
}

func (m *MockSchoolService) Create(ctx context.Context, in model.CreateSchool) (*model.School, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.School), args.Error(1)
}

func (m *MockSchoolService) Delete(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}
