package model

import (
	"fmt"
	"time"
)

// SlideType discriminates the slide variants of a deck.
type SlideType string

const (
	SlideTitle  SlideType = "title"
	SlideBullet SlideType = "bullet"
	SlideImage  SlideType = "image"
	SlideTable  SlideType = "table"
	SlideSplit  SlideType = "split"
)

// DefaultFilename is used when a deck does not name its output file.
const DefaultFilename = "presentation.pptx"

// BulletPoint is a recursive outline node. Nesting depth is unbounded;
// the indent level of a point is its depth in the tree at render time,
// never a stored field.
type BulletPoint struct {
	Text     string        `json:"text"`
	Children []BulletPoint `json:"children,omitempty"`
}

// ContentSection is one half of a split slide. It carries the same
// discriminator scheme as Slide, restricted to bullet/image/table.
type ContentSection struct {
	Type    SlideType     `json:"type"`
	Points  []BulletPoint `json:"points,omitempty"`
	URL     string        `json:"url,omitempty"`
	Alt     string        `json:"alt,omitempty"`
	Headers []string      `json:"headers,omitempty"`
	Rows    [][]string    `json:"rows,omitempty"`
}

// Slide is the tagged union of the five slide variants, discriminated by
// Type. Fields not belonging to the active variant are left at their zero
// value and ignored by the renderer.
type Slide struct {
	Type     SlideType        `json:"type"`
	Title    string           `json:"title,omitempty"`
	Subtitle string           `json:"subtitle,omitempty"`
	Points   []BulletPoint    `json:"points,omitempty"`
	URL      string           `json:"url,omitempty"`
	Alt      string           `json:"alt,omitempty"`
	Headers  []string         `json:"headers,omitempty"`
	Rows     [][]string       `json:"rows,omitempty"`
	Layout   string           `json:"layout,omitempty"` // split only; single "left-right" layout today
	Sections []ContentSection `json:"sections,omitempty"`
}

// Deck is the inbound document: an ordered sequence of slides plus an
// output filename. Slide order is presentation order.
type Deck struct {
	Slides   []Slide `json:"slides"`
	Filename string  `json:"filename,omitempty"`
}

// OutputFilename returns the deck's filename, defaulted.
func (d *Deck) OutputFilename() string {
	if d.Filename == "" {
		return DefaultFilename
	}
	return d.Filename
}

// Presentation describes a stored artifact as returned to API callers.
type Presentation struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

var sectionTypes = map[SlideType]bool{
	SlideBullet: true,
	SlideImage:  true,
	SlideTable:  true,
}

var slideTypes = map[SlideType]bool{
	SlideTitle:  true,
	SlideBullet: true,
	SlideImage:  true,
	SlideTable:  true,
	SlideSplit:  true,
}

// Validate checks a deck before rendering. In lenient mode unknown slide
// and section type tags are accepted; the renderer skips them. In strict
// mode they are rejected with a field-level error. Structural requirements
// (an image URL, split section count) are enforced in both modes.
func (d *Deck) Validate(strict bool) error {
	if len(d.Slides) == 0 {
		return fmt.Errorf("deck has no slides")
	}
	for i, s := range d.Slides {
		if !slideTypes[s.Type] {
			if strict {
				return fmt.Errorf("slides[%d]: unknown type %q", i, s.Type)
			}
			continue
		}
		switch s.Type {
		case SlideTitle:
			if s.Title == "" {
				return fmt.Errorf("slides[%d]: title slide requires a title", i)
			}
		case SlideImage:
			if s.URL == "" {
				return fmt.Errorf("slides[%d]: image slide requires a url", i)
			}
		case SlideTable:
			if len(s.Headers) == 0 {
				return fmt.Errorf("slides[%d]: table slide requires headers", i)
			}
		case SlideSplit:
			if len(s.Sections) < 2 {
				return fmt.Errorf("slides[%d]: split slide requires 2 sections, got %d", i, len(s.Sections))
			}
			for j, sec := range s.Sections {
				if !sectionTypes[sec.Type] {
					if strict {
						return fmt.Errorf("slides[%d].sections[%d]: unknown type %q", i, j, sec.Type)
					}
					continue
				}
				if sec.Type == SlideImage && sec.URL == "" {
					return fmt.Errorf("slides[%d].sections[%d]: image section requires a url", i, j)
				}
				if sec.Type == SlideTable && len(sec.Headers) == 0 {
					return fmt.Errorf("slides[%d].sections[%d]: table section requires headers", i, j)
				}
			}
		}
	}
	return nil
}
