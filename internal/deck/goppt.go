// Package deck implements the renderer.Canvas contract on top of GoPPT.
// All PPTX-format specifics live here; the renderer only issues structural
// commands.
package deck

import (
	"bytes"
	"fmt"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"

	"pptxapi/internal/renderer"
)

// 16:9 widescreen layout in EMU.
const (
	emuPerInch = 914400

	slideWidth  = int64(10.0 * emuPerInch)
	slideHeight = int64(5.625 * emuPerInch)

	marginLeft = int64(0.4 * emuPerInch)
	contentTop = int64(1.1 * emuPerInch)

	contentWidth  = int64(9.2 * emuPerInch)
	contentHeight = int64(4.2 * emuPerInch)

	sectionGap = int64(0.2 * emuPerInch)

	fontTitle     = 36
	fontSubtitle  = 20
	fontHeading   = 28
	fontBody      = 14
	fontTableHead = 11
	fontTableCell = 10
)

const (
	colorHeading   = "FF1E40AF"
	colorSubtitle  = "FF475569"
	colorBody      = "FF334155"
	colorAccent    = "FF3B82F6"
	colorRowEven   = "FFF8FAFC"
	colorRowOdd    = "FFF1F5F9"
	colorFootnote  = "FF94A3B8"
	maxIndentLevel = 8
)

func solidFill(argb string) *ppt.Fill {
	return ppt.NewFill().SetSolid(ppt.NewColor(argb))
}

func alignCenter(p *ppt.Paragraph) {
	p.SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))
}

// Canvas builds a PPTX document from structural commands.
type Canvas struct {
	pres      *ppt.Presentation
	firstUsed bool
	slides    []*slide
}

// NewCanvas returns an empty presentation canvas.
func NewCanvas() renderer.Canvas {
	return &Canvas{pres: ppt.New()}
}

// nextSlide reuses the presentation's initial slide for the first request,
// then appends.
func (c *Canvas) nextSlide() *ppt.Slide {
	if !c.firstUsed {
		c.firstUsed = true
		return c.pres.GetActiveSlide()
	}
	return c.pres.CreateSlide()
}

func (c *Canvas) AddTitleSlide(title, subtitle string) {
	s := c.nextSlide()

	bar := s.CreateRichTextShape()
	bar.SetOffsetX(0).SetOffsetY(0)
	bar.SetWidth(slideWidth).SetHeight(int64(0.15 * emuPerInch))
	bar.SetFill(solidFill(colorAccent))

	titleShape := s.CreateRichTextShape()
	titleShape.SetOffsetX(marginLeft).SetOffsetY(int64(1.8 * emuPerInch))
	titleShape.SetWidth(contentWidth).SetHeight(int64(1.0 * emuPerInch))
	tr := titleShape.CreateTextRun(title)
	tr.GetFont().SetSize(fontTitle).SetBold(true).SetColor(ppt.NewColor(colorHeading))
	alignCenter(titleShape.GetActiveParagraph())

	if subtitle != "" {
		subShape := s.CreateRichTextShape()
		subShape.SetOffsetX(int64(1.0 * emuPerInch)).SetOffsetY(int64(3.0 * emuPerInch))
		subShape.SetWidth(int64(8.0 * emuPerInch)).SetHeight(int64(0.8 * emuPerInch))
		str := subShape.CreateTextRun(subtitle)
		str.GetFont().SetSize(fontSubtitle).SetColor(ppt.NewColor(colorSubtitle))
		alignCenter(subShape.GetActiveParagraph())
	}
}

func (c *Canvas) AddSlide(title string) renderer.Slide {
	s := c.nextSlide()

	bar := s.CreateRichTextShape()
	bar.SetOffsetX(0).SetOffsetY(0)
	bar.SetWidth(slideWidth).SetHeight(int64(0.08 * emuPerInch))
	bar.SetFill(solidFill(colorAccent))

	if title != "" {
		titleShape := s.CreateRichTextShape()
		titleShape.SetOffsetX(marginLeft).SetOffsetY(int64(0.3 * emuPerInch))
		titleShape.SetWidth(contentWidth).SetHeight(int64(0.6 * emuPerInch))
		tr := titleShape.CreateTextRun(title)
		tr.GetFont().SetSize(fontHeading).SetBold(true).SetColor(ppt.NewColor(colorHeading))
	}

	sl := &slide{s: s, bodies: map[renderer.Region]*ppt.RichTextShape{}, used: map[renderer.Region]int64{}}
	c.slides = append(c.slides, sl)
	return sl
}

// Bytes flushes accumulated presenter notes and encodes the document.
func (c *Canvas) Bytes() ([]byte, error) {
	for _, sl := range c.slides {
		sl.flushNotes()
	}

	w, err := ppt.NewWriter(c.pres, ppt.WriterPowerPoint2007)
	if err != nil {
		return nil, fmt.Errorf("create pptx writer: %w", err)
	}
	var buf bytes.Buffer
	if err := w.(*ppt.PPTXWriter).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode pptx: %w", err)
	}
	return buf.Bytes(), nil
}

type slide struct {
	s      *ppt.Slide
	bodies map[renderer.Region]*ppt.RichTextShape
	// used tracks vertical space consumed per region so stacked content
	// (e.g. a table under paragraphs) does not overlap.
	used  map[renderer.Region]int64
	notes []string
}

// regionBounds returns the drawable rectangle of a region.
func regionBounds(r renderer.Region) (x, y, w, h int64) {
	half := (contentWidth - sectionGap) / 2
	switch r {
	case renderer.RegionLeft:
		return marginLeft, contentTop, half, contentHeight
	case renderer.RegionRight:
		return marginLeft + half + sectionGap, contentTop, half, contentHeight
	default:
		return marginLeft, contentTop, contentWidth, contentHeight
	}
}

// body returns the region's outline text shape, creating it on first use.
func (sl *slide) body(region renderer.Region) *ppt.RichTextShape {
	if b, ok := sl.bodies[region]; ok {
		return b
	}
	x, y, w, h := regionBounds(region)
	b := sl.s.CreateRichTextShape()
	b.SetOffsetX(x).SetOffsetY(y)
	b.SetWidth(w).SetHeight(h)
	sl.bodies[region] = b
	sl.used[region] = h
	return b
}

func (sl *slide) AddParagraph(region renderer.Region, text string, level int) {
	if level > maxIndentLevel {
		level = maxIndentLevel
	}
	b, existed := sl.bodies[region], sl.bodies[region] != nil
	if !existed {
		b = sl.body(region)
	} else {
		b.CreateParagraph()
	}
	align := ppt.NewAlignment()
	align.Level = level
	b.GetActiveParagraph().SetAlignment(align)
	tr := b.CreateTextRun(text)
	tr.GetFont().SetSize(fontBody).SetColor(ppt.NewColor(colorBody))
}

// AddTable draws the table as a filled header band plus striped data rows,
// one rich-text shape per row.
func (sl *slide) AddTable(region renderer.Region, headers []string, rows [][]string) error {
	if len(headers) == 0 {
		return fmt.Errorf("table requires at least one column")
	}

	x, top, w, h := regionBounds(region)
	headerHeight := int64(0.35 * emuPerInch)
	rowHeight := int64(0.28 * emuPerInch)

	y := top
	if used, ok := sl.used[region]; ok && used == h {
		// Region already holds an outline body; start the table below it.
		y = top + h/2
	}

	header := sl.s.CreateRichTextShape()
	header.SetOffsetX(x).SetOffsetY(y)
	header.SetWidth(w).SetHeight(headerHeight)
	header.SetFill(solidFill(colorAccent))
	tr := header.CreateTextRun(joinCells(headers))
	tr.GetFont().SetSize(fontTableHead).SetBold(true).SetColor(ppt.ColorWhite)
	alignCenter(header.GetActiveParagraph())

	y += headerHeight
	for i, row := range rows {
		if y+rowHeight > top+h {
			break // region is full; remaining rows are not drawn
		}
		shape := sl.s.CreateRichTextShape()
		shape.SetOffsetX(x).SetOffsetY(y)
		shape.SetWidth(w).SetHeight(rowHeight)
		if i%2 == 0 {
			shape.SetFill(solidFill(colorRowEven))
		} else {
			shape.SetFill(solidFill(colorRowOdd))
		}
		rt := shape.CreateTextRun(joinCells(row))
		rt.GetFont().SetSize(fontTableCell).SetColor(ppt.NewColor(colorBody))
		alignCenter(shape.GetActiveParagraph())
		y += rowHeight
	}
	return nil
}

func (sl *slide) AddPicture(region renderer.Region, data []byte, mime, alt string) error {
	if len(data) == 0 {
		return fmt.Errorf("empty image data")
	}
	if !strings.HasPrefix(mime, "image/") {
		return fmt.Errorf("unsupported content type %q", mime)
	}

	x, y, w, h := regionBounds(region)
	img := sl.s.CreateDrawingShape()
	img.SetImageData(data, mime)
	img.SetOffsetX(x).SetOffsetY(y)
	img.SetWidth(w).SetHeight(h)
	if alt != "" {
		img.SetName(alt)
	}
	return nil
}

func (sl *slide) AddTextBox(region renderer.Region, text string) {
	x, y, w, h := regionBounds(region)
	shape := sl.s.CreateRichTextShape()
	shape.SetOffsetX(x).SetOffsetY(y + h/3)
	shape.SetWidth(w).SetHeight(int64(0.6 * emuPerInch))
	shape.SetFill(solidFill(colorRowOdd))
	tr := shape.CreateTextRun(text)
	tr.GetFont().SetSize(fontSubtitle).SetColor(ppt.NewColor(colorFootnote))
	alignCenter(shape.GetActiveParagraph())
}

func (sl *slide) AppendNote(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	sl.notes = append(sl.notes, text)
}

// flushNotes writes the accumulated notes into the slide's presenter
// notes, one line per note.
func (sl *slide) flushNotes() {
	if len(sl.notes) == 0 {
		return
	}
	sl.s.SetNotes(strings.Join(sl.notes, "\n"))
}

// joinCells renders one table row as a single delimited line, the widest
// layout GoPPT rich-text rows support.
func joinCells(cells []string) string {
	return strings.Join(cells, "    │    ")
}
