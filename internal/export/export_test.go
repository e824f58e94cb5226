package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/net/html"

	"github.com/jackzampolin/scantext/internal/errs"
)

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

func newTestEngine(t *testing.T) (*Engine, *fakeClipboard) {
	t.Helper()
	cb := &fakeClipboard{}
	e, err := NewEngine(Config{Clipboard: cb})
	require.NoError(t, err)
	return e, cb
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"word": FormatWord, "DOC": FormatWord, "pdf": FormatPDF, " xlsx ": FormatSpreadsheet,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("rtf")
	assert.Error(t, err)
}

func TestEmptyTextIsRejected(t *testing.T) {
	e, cb := newTestEngine(t)
	for _, f := range Formats {
		_, err := e.Export(f, "")
		assert.True(t, errs.Is(err, errs.EmptyExportTarget), "format %s: %v", f, err)
	}
	err := e.Copy("")
	assert.True(t, errs.Is(err, errs.EmptyExportTarget))
	assert.Empty(t, cb.text)
}

var roundTripTexts = []string{
	"Hello",
	"\nleading newline",
	"\n\nTwo leading newlines",
	"trailing newline\n",
	"tabs\tand  double  spaces",
	`<script>alert("x")</script> & 'quotes'`,
	"literal entity &amp; &lt; &#39;",
	"closing tag </pre> inside",
	"ünïcødé ✓ 日本語 🙂",
	"windows\r\nline endings\rold mac",
	"nul\x00byte",
	"invalid utf8 \xff\xfe",
	strings.Repeat("long paragraph ", 500),
}

func TestWord_RoundTrip(t *testing.T) {
	e, _ := newTestEngine(t)
	for _, text := range roundTripTexts {
		a, err := e.Word(text)
		require.NoError(t, err)
		assert.Equal(t, WordFilename, a.Filename)
		assert.Equal(t, WordMIME, a.MIMEType)

		got, err := WordText(a.Data)
		require.NoError(t, err)
		assert.Equal(t, text, got)
	}
}

// A standards-compliant HTML parser sees the same text as WordText for
// input without carriage returns or NUL, which HTML normalizes.
func TestWord_ParsesAsHTML(t *testing.T) {
	e, _ := newTestEngine(t)
	for _, text := range roundTripTexts {
		if strings.ContainsAny(text, "\r\x00") || !utf8.ValidString(text) {
			continue
		}
		a, err := e.Word(text)
		require.NoError(t, err)

		doc, err := html.Parse(bytes.NewReader(a.Data))
		require.NoError(t, err)
		pre := findElement(doc, "pre")
		require.NotNil(t, pre, "no <pre> in document")
		assert.Equal(t, text, textContent(pre))
	}
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func TestWordText_RejectsForeignDocuments(t *testing.T) {
	_, err := WordText([]byte("<html><body><p>hi</p></body></html>"))
	assert.Error(t, err)
	_, err = WordText([]byte("<pre class=\"extracted\">\nunterminated"))
	assert.Error(t, err)
}

func TestLayout_Defaults(t *testing.T) {
	l := DefaultLayout()
	require.NoError(t, l.Validate())
	assert.Equal(t, 85, l.Columns())
	assert.Equal(t, 63, l.LinesPerPage())

	assert.Error(t, Layout{PageSize: "B7", FontSize: 10, Margin: 40, LineHeight: 1.2}.Validate())
	assert.Error(t, Layout{PageSize: "A4", FontSize: 10, Margin: 300, LineHeight: 1.2}.Validate())
	assert.Error(t, Layout{PageSize: "A4", FontSize: 10, Margin: 40, LineHeight: 0.5}.Validate())

	_, err := NewEngine(Config{PDF: Layout{PageSize: "B7"}})
	assert.Error(t, err)
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five", 9)
	assert.Equal(t, []string{"one two", "three", "four five"}, lines)

	lines = wrapText(strings.Repeat("x", 25), 10)
	assert.Equal(t, []string{strings.Repeat("x", 10), strings.Repeat("x", 10), strings.Repeat("x", 5)}, lines)

	lines = wrapText("a\r\nb\rc\n\nd", 10)
	assert.Equal(t, []string{"a", "b", "c", "", "d"}, lines)

	lines = wrapText("\tx", 10)
	assert.Equal(t, []string{"    x"}, lines)

	assert.Nil(t, wrapText("", 10))
}

func TestWrapText_NeverExceedsColumns(t *testing.T) {
	const cols = 12
	for _, text := range roundTripTexts {
		for _, line := range wrapText(text, cols) {
			assert.LessOrEqual(t, utf8.RuneCountInString(line), cols, "line %q", line)
			assert.NotContains(t, line, "\n")
		}
	}
}

func TestEncodeLine(t *testing.T) {
	assert.Equal(t, "caf\xe9 \x80 ?", encodeLine("café € ✓"))
}

func TestPDF_LongTextIsMultiPage(t *testing.T) {
	e, _ := newTestEngine(t)

	var b strings.Builder
	for i := 0; i < 400; i++ {
		b.WriteString("The quick brown fox jumps over the lazy dog and keeps running past the margin of the page. ")
		if i%5 == 4 {
			b.WriteString("\n")
		}
	}
	b.WriteString(strings.Repeat("W", 300))
	text := b.String()

	pages := e.Paginate(text)
	require.Greater(t, len(pages), 1)

	a, err := e.PDF(text)
	require.NoError(t, err)
	assert.Equal(t, PDFFilename, a.Filename)
	assert.Equal(t, PDFMIME, a.MIMEType)
	assert.True(t, bytes.HasPrefix(a.Data, []byte("%PDF-")))

	n, err := PageCount(a.Data)
	require.NoError(t, err)
	assert.Equal(t, len(pages), n)

	l := e.Layout()
	measure := fpdf.New("P", "pt", l.PageSize, "")
	measure.AddPage()
	measure.SetFont("Courier", "", l.FontSize)
	for _, page := range pages {
		assert.LessOrEqual(t, len(page), l.LinesPerPage())
		for _, line := range page {
			assert.LessOrEqual(t, measure.GetStringWidth(encodeLine(line)), l.TextWidth()+0.001, "line %q", line)
		}
	}
}

func TestPDF_ShortTextIsOnePage(t *testing.T) {
	e, _ := newTestEngine(t)
	a, err := e.PDF("Hello")
	require.NoError(t, err)
	n, err := PageCount(a.Data)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSpreadsheet(t *testing.T) {
	e, _ := newTestEngine(t)
	a, err := e.Spreadsheet("first line\nsecond line\n\nfourth")
	require.NoError(t, err)
	assert.Equal(t, SpreadsheetFilename, a.Filename)
	assert.Equal(t, SpreadsheetMIME, a.MIMEType)

	f, err := excelize.OpenReader(bytes.NewReader(a.Data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"first line"}, rows[0])
	assert.Equal(t, []string{"second line"}, rows[1])
	assert.Equal(t, []string{"fourth"}, rows[3])
}

func TestSpreadsheet_LongLineContinuesOnNextRows(t *testing.T) {
	e, _ := newTestEngine(t)
	long := strings.Repeat("a", excelCellLimit) + strings.Repeat("é", 10)
	a, err := e.Spreadsheet(long + "\nnext")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(a.Data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, strings.Repeat("a", excelCellLimit), rows[0][0])
	assert.Equal(t, strings.Repeat("é", 10), rows[1][0])
	assert.Equal(t, "next", rows[2][0])
}

func TestCellChunks(t *testing.T) {
	assert.Equal(t, []string{""}, cellChunks(""))
	assert.Equal(t, []string{"short"}, cellChunks("short"))

	exact := strings.Repeat("x", excelCellLimit)
	assert.Equal(t, []string{exact}, cellChunks(exact))

	chunks := cellChunks(strings.Repeat("x", 2*excelCellLimit+1))
	require.Len(t, chunks, 3)
	assert.Equal(t, "x", chunks[2])
	assert.Equal(t, strings.Repeat("x", 2*excelCellLimit+1), strings.Join(chunks, ""))
}

func TestCopy(t *testing.T) {
	e, cb := newTestEngine(t)
	require.NoError(t, e.Copy("Hello"))
	assert.Equal(t, "Hello", cb.text)

	cb.err = errors.New("no display")
	err := e.Copy("again")
	require.Error(t, err)
	assert.ErrorIs(t, err, cb.err)
}

func TestSave(t *testing.T) {
	e, _ := newTestEngine(t)
	a, err := e.Word("Hello")
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "out")
	path, err := Save(dir, a)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, WordFilename), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, a.Data, data)

	_, err = Save(dir, Artifact{})
	assert.Error(t, err)

	for _, name := range []string{"../escaped.pdf", "sub/file.doc", `..\evil.doc`, "..", "."} {
		_, err := Save(dir, Artifact{Filename: name, Data: []byte("x")})
		assert.Error(t, err, name)
	}
	_, err = os.Stat(filepath.Join(filepath.Dir(dir), "escaped.pdf"))
	assert.True(t, os.IsNotExist(err))
}
