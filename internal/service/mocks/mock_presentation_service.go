package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pptxapi/internal/model"
	"pptxapi/internal/storage"
)

type MockPresentationService struct {
	mock.Mock
}

func (m *MockPresentationService) Generate(ctx context.Context, deck *model.Deck) (*model.Presentation, error) {
	args := m.Called(ctx, deck)
	if p, ok := args.Get(0).(*model.Presentation); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPresentationService) Fetch(ctx context.Context, id string) ([]byte, storage.Metadata, error) {
	args := m.Called(ctx, id)
	var data []byte
	if b, ok := args.Get(0).([]byte); ok {
		data = b
	}
	return data, args.Get(1).(storage.Metadata), args.Error(2)
}
