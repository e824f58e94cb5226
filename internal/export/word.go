package export

import (
	"fmt"
	"html"
	"strings"
)

const (
	wordHead = `<html xmlns:o="urn:schemas-microsoft-com:office:office" xmlns:w="urn:schemas-microsoft-com:office:word" xmlns="http://www.w3.org/TR/REC-html40">
<head>
<meta charset="utf-8">
<title>Extracted Text</title>
<style>pre.extracted { font-family: Calibri, sans-serif; font-size: 11pt; white-space: pre-wrap; }</style>
</head>
<body>
`
	wordOpen  = "<pre class=\"extracted\">\n"
	wordClose = "</pre>"
	wordTail  = "\n</body>\n</html>\n"
)

// Word wraps text in an HTML document that word processors open as a
// .doc file. Whitespace and line breaks are preserved by the <pre> block.
func (e *Engine) Word(text string) (Artifact, error) {
	if err := requireText(text); err != nil {
		return Artifact{}, err
	}

	escaped := html.EscapeString(text)
	var b strings.Builder
	b.Grow(len(wordHead) + len(wordOpen) + len(escaped) + len(wordClose) + len(wordTail))
	b.WriteString(wordHead)
	b.WriteString(wordOpen)
	b.WriteString(escaped)
	b.WriteString(wordClose)
	b.WriteString(wordTail)

	return Artifact{Filename: WordFilename, MIMEType: WordMIME, Data: []byte(b.String())}, nil
}

// WordText recovers the exact text from a document produced by Word.
func WordText(data []byte) (string, error) {
	doc := string(data)
	start := strings.Index(doc, wordOpen)
	if start < 0 {
		return "", fmt.Errorf("not an exported word document: missing text block")
	}
	body := doc[start+len(wordOpen):]
	end := strings.Index(body, wordClose)
	if end < 0 {
		return "", fmt.Errorf("not an exported word document: unterminated text block")
	}
	return html.UnescapeString(body[:end]), nil
}
