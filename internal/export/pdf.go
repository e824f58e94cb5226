package export

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"github.com/mitchellh/go-wordwrap"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/text/encoding/charmap"
)

// courierAdvance is the advance width of every Courier glyph as a fraction
// of the font size.
const courierAdvance = 0.6

const tabWidth = 4

// pageSizes holds supported page sizes in points (portrait).
var pageSizes = map[string][2]float64{
	"A3":     {841.89, 1190.55},
	"A4":     {595.28, 841.89},
	"A5":     {420.94, 595.28},
	"Letter": {612, 792},
	"Legal":  {612, 1008},
}

// Layout controls how text is placed on PDF pages. All lengths are in points.
type Layout struct {
	PageSize   string
	FontSize   float64
	Margin     float64
	LineHeight float64 // multiple of FontSize
}

// DefaultLayout returns A4 pages with 10pt Courier and 40pt margins.
func DefaultLayout() Layout {
	return Layout{PageSize: "A4", FontSize: 10, Margin: 40, LineHeight: 1.2}
}

func (l Layout) withDefaults() Layout {
	d := DefaultLayout()
	if l.PageSize == "" {
		l.PageSize = d.PageSize
	}
	if l.FontSize <= 0 {
		l.FontSize = d.FontSize
	}
	if l.Margin <= 0 {
		l.Margin = d.Margin
	}
	if l.LineHeight <= 0 {
		l.LineHeight = d.LineHeight
	}
	return l
}

// Validate checks that at least one character and one line fit on a page.
func (l Layout) Validate() error {
	if _, ok := pageSizes[l.PageSize]; !ok {
		return fmt.Errorf("unsupported page size %q", l.PageSize)
	}
	if l.LineHeight < 1 {
		return fmt.Errorf("line height must be at least 1.0, got %v", l.LineHeight)
	}
	if l.Columns() < 1 || l.LinesPerPage() < 1 {
		return fmt.Errorf("margin %v and font size %v leave no room for text", l.Margin, l.FontSize)
	}
	return nil
}

// PageWidth and PageHeight return the page dimensions.
func (l Layout) PageWidth() float64  { return pageSizes[l.PageSize][0] }
func (l Layout) PageHeight() float64 { return pageSizes[l.PageSize][1] }

// TextWidth is the horizontal space between the margins.
func (l Layout) TextWidth() float64 {
	return l.PageWidth() - 2*l.Margin
}

// Columns is the number of characters that fit on one line.
func (l Layout) Columns() int {
	return int(math.Floor(l.TextWidth() / (courierAdvance * l.FontSize)))
}

// LinesPerPage is the number of lines that fit between the margins.
func (l Layout) LinesPerPage() int {
	return int(math.Floor((l.PageHeight() - 2*l.Margin) / l.lineAdvance()))
}

func (l Layout) lineAdvance() float64 {
	return l.FontSize * l.LineHeight
}

// Paginate wraps text to the column budget and splits it into pages.
func (e *Engine) Paginate(text string) [][]string {
	return paginate(wrapText(text, e.layout.Columns()), e.layout.LinesPerPage())
}

// PDF renders text onto as many pages as it needs.
func (e *Engine) PDF(text string) (Artifact, error) {
	if err := requireText(text); err != nil {
		return Artifact{}, err
	}

	l := e.layout
	pages := e.Paginate(text)

	pdf := fpdf.New("P", "pt", l.PageSize, "")
	pdf.SetMargins(l.Margin, l.Margin, l.Margin)
	pdf.SetAutoPageBreak(false, l.Margin)
	pdf.SetTitle("Extracted Text", true)
	pdf.SetCreator("scantext", true)
	pdf.SetFont("Courier", "", l.FontSize)

	for _, page := range pages {
		pdf.AddPage()
		y := l.Margin + l.FontSize
		for _, line := range page {
			if line != "" {
				pdf.Text(l.Margin, y, encodeLine(line))
			}
			y += l.lineAdvance()
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Artifact{}, fmt.Errorf("failed to render pdf: %w", err)
	}

	e.logger.Debug("rendered pdf", "pages", len(pages), "bytes", buf.Len())
	return Artifact{Filename: PDFFilename, MIMEType: PDFMIME, Data: buf.Bytes()}, nil
}

// PageCount returns the number of pages in a PDF document.
func PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return n, nil
}

// wrapText breaks text into display lines of at most cols runes. Words are
// kept whole where possible and hard-split when longer than a line.
func wrapText(text string, cols int) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var out []string
	for _, raw := range strings.Split(text, "\n") {
		line := sanitize(raw)
		if utf8.RuneCountInString(line) <= cols {
			out = append(out, line)
			continue
		}
		for _, piece := range strings.Split(wordwrap.WrapString(line, uint(cols)), "\n") {
			out = append(out, hardSplit(piece, cols)...)
		}
	}
	return out
}

// sanitize expands tabs and replaces other control characters with spaces.
func sanitize(line string) string {
	if !strings.ContainsFunc(line, unicode.IsControl) {
		return line
	}
	var b strings.Builder
	col := 0
	for _, r := range line {
		switch {
		case r == '\t':
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		case unicode.IsControl(r):
			r = ' '
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

func hardSplit(s string, cols int) []string {
	runes := []rune(s)
	if len(runes) <= cols {
		return []string{s}
	}
	var out []string
	for len(runes) > cols {
		out = append(out, string(runes[:cols]))
		runes = runes[cols:]
	}
	return append(out, string(runes))
}

func paginate(lines []string, perPage int) [][]string {
	var pages [][]string
	for len(lines) > perPage {
		pages = append(pages, lines[:perPage])
		lines = lines[perPage:]
	}
	if len(lines) > 0 {
		pages = append(pages, lines)
	}
	return pages
}

// encodeLine converts a line to the single-byte encoding of the PDF core
// fonts. Runes outside Windows-1252 become '?'.
func encodeLine(line string) string {
	b := make([]byte, 0, len(line))
	for _, r := range line {
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			c = '?'
		}
		b = append(b, c)
	}
	return string(b)
}
