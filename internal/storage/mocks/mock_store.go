package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pptxapi/internal/storage"
)

type MockArtifactStore struct {
	mock.Mock
}

func (m *MockArtifactStore) Save(ctx context.Context, data []byte, filename string) (string, error) {
	args := m.Called(ctx, data, filename)
	return args.String(0), args.Error(1)
}

func (m *MockArtifactStore) Get(ctx context.Context, id string) ([]byte, storage.Metadata, error) {
	args := m.Called(ctx, id)
	var data []byte
	if b, ok := args.Get(0).([]byte); ok {
		data = b
	}
	return data, args.Get(1).(storage.Metadata), args.Error(2)
}

func (m *MockArtifactStore) Sweep(ctx context.Context, maxAgeHours int) error {
	args := m.Called(ctx, maxAgeHours)
	return args.Error(0)
}

func (m *MockArtifactStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
