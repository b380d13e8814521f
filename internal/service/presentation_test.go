package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pptxapi/internal/config"
	"pptxapi/internal/model"
	"pptxapi/internal/renderer"
	"pptxapi/internal/storage"
	storeMocks "pptxapi/internal/storage/mocks"
)

// stubCanvas satisfies renderer.Canvas with a fixed Bytes result.
type stubCanvas struct {
	data []byte
	err  error
}

func (c *stubCanvas) AddTitleSlide(string, string)   {}
func (c *stubCanvas) AddSlide(string) renderer.Slide { return stubSlide{} }
func (c *stubCanvas) Bytes() ([]byte, error)         { return c.data, c.err }

type stubSlide struct{}

func (stubSlide) AddParagraph(renderer.Region, string, int)                {}
func (stubSlide) AddTable(renderer.Region, []string, [][]string) error     { return nil }
func (stubSlide) AddPicture(renderer.Region, []byte, string, string) error { return nil }
func (stubSlide) AddTextBox(renderer.Region, string)                       {}
func (stubSlide) AppendNote(string)                                        {}

func newService(canvas renderer.Canvas, store storage.ArtifactStore, strict bool) PresentationService {
	r := renderer.New(config.RenderConfig{ImageFetchTimeout: time.Second})
	return NewPresentationService(r, func() renderer.Canvas { return canvas }, store, strict)
}

func validDeck() *model.Deck {
	return &model.Deck{
		Filename: "deck.pptx",
		Slides:   []model.Slide{{Type: model.SlideTitle, Title: "T"}},
	}
}

func TestPresentationService_Generate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		deck       *model.Deck
		canvas     *stubCanvas
		strict     bool
		setupMocks func(mStore *storeMocks.MockArtifactStore)
		wantErr    error
		wantErrMsg string
	}{
		{
			name:   "happy path",
			deck:   validDeck(),
			canvas: &stubCanvas{data: []byte("pptx bytes")},
			setupMocks: func(mStore *storeMocks.MockArtifactStore) {
				mStore.On("Save", ctx, []byte("pptx bytes"), "deck.pptx").
					Return("11111111-2222-3333-4444-555555555555", nil)
			},
		},
		{
			name:    "nil deck",
			deck:    nil,
			canvas:  &stubCanvas{},
			wantErr: ErrDeckRequired,
		},
		{
			name:    "validation error",
			deck:    &model.Deck{},
			canvas:  &stubCanvas{},
			wantErr: ErrInvalidDeck,
		},
		{
			name:    "strict mode rejects unknown slide type",
			deck:    &model.Deck{Slides: []model.Slide{{Type: "video"}}},
			canvas:  &stubCanvas{},
			strict:  true,
			wantErr: ErrInvalidDeck,
		},
		{
			name:       "encoder fault",
			deck:       validDeck(),
			canvas:     &stubCanvas{err: errors.New("disk full")},
			wantErrMsg: "encode: disk full",
		},
		{
			name:   "storage fault returns no id",
			deck:   validDeck(),
			canvas: &stubCanvas{data: []byte("pptx bytes")},
			setupMocks: func(mStore *storeMocks.MockArtifactStore) {
				mStore.On("Save", ctx, mock.Anything, mock.Anything).
					Return("", errors.New("bucket unreachable"))
			},
			wantErrMsg: "save to storage: bucket unreachable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockArtifactStore)
			if tt.setupMocks != nil {
				tt.setupMocks(mStore)
			}
			svc := newService(tt.canvas, mStore, tt.strict)

			pres, err := svc.Generate(ctx, tt.deck)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, pres)
			} else if tt.wantErrMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				assert.Nil(t, pres)
			} else {
				require.NoError(t, err)
				require.NotNil(t, pres)
				assert.Equal(t, "11111111-2222-3333-4444-555555555555", pres.ID)
				assert.Equal(t, "deck.pptx", pres.Filename)
				assert.Equal(t, int64(len("pptx bytes")), pres.Size)
			}
			mStore.AssertExpectations(t)
		})
	}
}

func TestPresentationService_Fetch(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		setupMocks func(mStore *storeMocks.MockArtifactStore)
		wantErr    error
		wantData   []byte
	}{
		{
			name: "happy path",
			id:   "some-id",
			setupMocks: func(mStore *storeMocks.MockArtifactStore) {
				mStore.On("Get", ctx, "some-id").
					Return([]byte("bytes"), storage.Metadata{Filename: "x.pptx"}, nil)
			},
			wantData: []byte("bytes"),
		},
		{
			name:    "empty id",
			id:      "",
			wantErr: ErrIDRequired,
		},
		{
			name: "not found",
			id:   "missing",
			setupMocks: func(mStore *storeMocks.MockArtifactStore) {
				mStore.On("Get", ctx, "missing").
					Return(nil, storage.Metadata{}, storage.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockArtifactStore)
			if tt.setupMocks != nil {
				tt.setupMocks(mStore)
			}
			svc := newService(&stubCanvas{}, mStore, false)

			data, meta, err := svc.Fetch(ctx, tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantData, data)
				assert.Equal(t, "x.pptx", meta.Filename)
			}
			mStore.AssertExpectations(t)
		})
	}
}
