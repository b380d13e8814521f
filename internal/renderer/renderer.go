package renderer

import (
	"context"
	"fmt"
	"log"

	"pptxapi/internal/config"
	"pptxapi/internal/model"
)

// unavailableText is drawn in place of a picture when neither the remote
// image nor the placeholder could be produced.
const unavailableText = "Image unavailable"

// Renderer translates a deck into structural drawing commands against a
// Canvas. Individual slide failures are absorbed into fallbacks and
// presenter notes; only context cancellation aborts a render, and only the
// encoder's Bytes call can fail a whole document after that.
type Renderer struct {
	images *ImageFetcher
}

// New builds a renderer from the render configuration.
func New(cfg config.RenderConfig) *Renderer {
	return &Renderer{
		images: NewImageFetcher(cfg.ImageFetchTimeout, cfg.PlaceholderPath),
	}
}

// Render walks the deck's slides strictly in input order and emits each one
// onto the canvas. Unknown slide types are skipped and logged; the caller
// decides (via model.Deck.Validate) whether such decks reach this point.
func (r *Renderer) Render(ctx context.Context, deck *model.Deck, c Canvas) error {
	for i, slide := range deck.Slides {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch slide.Type {
		case model.SlideTitle:
			c.AddTitleSlide(slide.Title, slide.Subtitle)
		case model.SlideBullet:
			sl := c.AddSlide(slide.Title)
			r.renderBullets(sl, RegionFull, slide.Points)
		case model.SlideImage:
			sl := c.AddSlide(slide.Title)
			r.renderImage(ctx, sl, RegionFull, slide.URL, slide.Alt)
		case model.SlideTable:
			sl := c.AddSlide(slide.Title)
			r.renderTable(sl, RegionFull, slide.Headers, slide.Rows)
		case model.SlideSplit:
			r.renderSplit(ctx, c, slide)
		default:
			log.Printf("render: skipping slide %d with unknown type %q", i, slide.Type)
		}
	}
	return nil
}

// renderBullets emits one paragraph per point at indent level = tree depth,
// pre-order, children immediately after their parent in stored order. An
// explicit stack keeps pathological nesting from exhausting the call stack.
func (r *Renderer) renderBullets(sl Slide, region Region, points []model.BulletPoint) {
	type frame struct {
		point model.BulletPoint
		depth int
	}

	stack := make([]frame, 0, len(points))
	for i := len(points) - 1; i >= 0; i-- {
		stack = append(stack, frame{points[i], 0})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		sl.AddParagraph(region, f.point.Text, f.depth)

		for i := len(f.point.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.point.Children[i], f.depth + 1})
		}
	}
}

// renderImage embeds the fetched image, the placeholder, or a text box, in
// that order of preference. Every degradation leaves a presenter note.
func (r *Renderer) renderImage(ctx context.Context, sl Slide, region Region, url, alt string) {
	res := r.images.Fetch(ctx, url)

	switch res.Status {
	case FetchOK:
		if err := sl.AddPicture(region, res.Data, res.Mime, alt); err != nil {
			log.Printf("render: embedding image from %s failed: %v", url, err)
			sl.AddTextBox(region, unavailableText)
			sl.AppendNote(fmt.Sprintf("image embedding failed for %s: %v", url, err))
		}
	case FetchFallback:
		log.Printf("render: %s", res.Reason)
		if err := sl.AddPicture(region, res.Data, res.Mime, alt); err != nil {
			sl.AddTextBox(region, unavailableText)
			sl.AppendNote(res.Reason)
			sl.AppendNote(fmt.Sprintf("placeholder embedding failed: %v", err))
			return
		}
		sl.AppendNote(res.Reason)
	case FetchUnavailable:
		log.Printf("render: %s", res.Reason)
		sl.AddTextBox(region, unavailableText)
		sl.AppendNote(res.Reason)
	}
}

// renderTable prepends the header row and truncates data rows to the header
// width; extra cells are dropped, never an error.
func (r *Renderer) renderTable(sl Slide, region Region, headers []string, rows [][]string) {
	trimmed := make([][]string, 0, len(rows))
	for _, row := range rows {
		if len(row) > len(headers) {
			row = row[:len(headers)]
		}
		trimmed = append(trimmed, row)
	}
	if err := sl.AddTable(region, headers, trimmed); err != nil {
		log.Printf("render: table rejected by encoder: %v", err)
		sl.AppendNote(fmt.Sprintf("table rendering failed: %v", err))
	}
}

// renderSplit places the first two sections side by side; surplus sections
// and unsupported section types degrade to presenter-note warnings.
func (r *Renderer) renderSplit(ctx context.Context, c Canvas, slide model.Slide) {
	sl := c.AddSlide(slide.Title)

	sections := slide.Sections
	if len(sections) > 2 {
		sl.AppendNote(fmt.Sprintf("split slide supports 2 sections; %d dropped", len(sections)-2))
		sections = sections[:2]
	}

	regions := [2]Region{RegionLeft, RegionRight}
	for i, sec := range sections {
		region := regions[i]
		switch sec.Type {
		case model.SlideBullet:
			r.renderBullets(sl, region, sec.Points)
		case model.SlideImage:
			r.renderImage(ctx, sl, region, sec.URL, sec.Alt)
		case model.SlideTable:
			r.renderTable(sl, region, sec.Headers, sec.Rows)
		default:
			sl.AppendNote(fmt.Sprintf("unsupported section type %q skipped", sec.Type))
		}
	}
}
