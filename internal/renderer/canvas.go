package renderer

// Region identifies a placeholder area on a slide. Top-level slide content
// targets RegionFull; split slides scope their two sections to the left and
// right halves.
type Region int

const (
	RegionFull Region = iota
	RegionLeft
	RegionRight
)

// Canvas is the structural command surface of the presentation encoder.
// The renderer drives it; the production implementation wraps the PPTX
// library and is the only place format-specific code lives.
type Canvas interface {
	// AddTitleSlide appends a title slide. Subtitle may be empty.
	AddTitleSlide(title, subtitle string)
	// AddSlide appends a content slide with an optional title and returns
	// a handle for placing content on it.
	AddSlide(title string) Slide
	// Bytes finalizes the document and returns the encoded file. This is
	// the only operation whose failure aborts a whole render.
	Bytes() ([]byte, error)
}

// Slide places content on a single slide.
type Slide interface {
	// AddParagraph appends one outline paragraph at the given indent level
	// (0 = top level).
	AddParagraph(region Region, text string, level int)
	// AddTable draws a table with a bold header row followed by the data
	// rows. Rows are assumed to be pre-truncated to the header width.
	AddTable(region Region, headers []string, rows [][]string) error
	// AddPicture embeds image bytes. Alt may be empty.
	AddPicture(region Region, data []byte, mime, alt string) error
	// AddTextBox draws a plain text box, used for the image-unavailable
	// fallback.
	AddTextBox(region Region, text string)
	// AppendNote appends to the slide's presenter notes. Successive notes
	// are newline-separated and the final text is trimmed.
	AppendNote(text string)
}
