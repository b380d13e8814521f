package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pptxapi/internal/model"
	"pptxapi/internal/renderer"
	"pptxapi/internal/storage"
)

var (
	ErrIDRequired   = errors.New("id is required")
	ErrDeckRequired = errors.New("deck is required")
	ErrNotFound     = errors.New("presentation not found")
	// ErrInvalidDeck wraps validation failures so handlers can map them to
	// a client error instead of a server fault.
	ErrInvalidDeck = errors.New("invalid deck")
)

// CanvasFactory produces a fresh encoder canvas per render. Canvases are
// single-use; each request gets its own.
type CanvasFactory func() renderer.Canvas

// PresentationService defines the use cases for generating and retrieving
// presentations.
type PresentationService interface {
	// Generate validates the deck, renders it to PPTX bytes, and stores
	// the artifact, returning its handle.
	Generate(ctx context.Context, deck *model.Deck) (*model.Presentation, error)

	// Fetch returns the stored bytes and metadata for an identifier.
	Fetch(ctx context.Context, id string) ([]byte, storage.Metadata, error)
}

type presentationService struct {
	renderer  *renderer.Renderer
	newCanvas CanvasFactory
	store     storage.ArtifactStore
	strict    bool
}

// NewPresentationService constructs a PresentationService.
func NewPresentationService(r *renderer.Renderer, newCanvas CanvasFactory, store storage.ArtifactStore, strict bool) PresentationService {
	return &presentationService{renderer: r, newCanvas: newCanvas, store: store, strict: strict}
}

func (s *presentationService) Generate(ctx context.Context, deck *model.Deck) (*model.Presentation, error) {
	if deck == nil {
		return nil, ErrDeckRequired
	}
	if err := deck.Validate(s.strict); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDeck, err)
	}

	canvas := s.newCanvas()
	if err := s.renderer.Render(ctx, deck, canvas); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	data, err := canvas.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	id, err := s.store.Save(ctx, data, deck.OutputFilename())
	if err != nil {
		return nil, fmt.Errorf("save to storage: %w", err)
	}

	return &model.Presentation{
		ID:        id,
		Filename:  deck.OutputFilename(),
		Size:      int64(len(data)),
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (s *presentationService) Fetch(ctx context.Context, id string) ([]byte, storage.Metadata, error) {
	if id == "" {
		return nil, storage.Metadata{}, ErrIDRequired
	}
	data, meta, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, storage.Metadata{}, ErrNotFound
		}
		return nil, storage.Metadata{}, err
	}
	return data, meta, nil
}
