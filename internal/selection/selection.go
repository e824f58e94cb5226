// Package selection tracks the file chosen for extraction and its preview.
package selection

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// File is a file handle chosen by the user.
type File struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Selection is the current file choice. A zero Selection has no file.
//
// ID changes on every choice, so work started for an earlier file can be
// recognized and dropped when it completes.
type Selection struct {
	ID             string
	File           *File
	PreviewDataURI string
}

// New starts a selection for f with no preview yet.
func New(f *File) Selection {
	return Selection{ID: uuid.NewString(), File: f}
}

// HasFile reports whether a file is selected.
func (s Selection) HasFile() bool {
	return s.File != nil
}

// WithPreview attaches a preview read for the selection with the given id.
// A preview for any other selection is ignored.
func (s Selection) WithPreview(id, uri string) Selection {
	if id != s.ID || s.File == nil {
		return s
	}
	s.PreviewDataURI = uri
	return s
}

// ReadPreview encodes f as a data URI suitable for an <img> src.
func ReadPreview(ctx context.Context, f *File) (string, error) {
	if f == nil {
		return "", fmt.Errorf("no file to preview")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	mimeType := f.MIMEType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	var b strings.Builder
	b.Grow(len("data:;base64,") + len(mimeType) + base64.StdEncoding.EncodedLen(len(f.Data)))
	b.WriteString("data:")
	b.WriteString(mimeType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(f.Data))

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Open loads a file from disk.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	name := filepath.Base(path)
	return &File{Name: name, MIMEType: DetectMIME(name, data), Data: data}, nil
}

// DetectMIME guesses a MIME type from the file extension, falling back to
// content sniffing.
func DetectMIME(name string, data []byte) string {
	if ext := filepath.Ext(name); ext != "" {
		if t := mime.TypeByExtension(strings.ToLower(ext)); t != "" {
			if mt, _, err := mime.ParseMediaType(t); err == nil {
				return mt
			}
			return t
		}
	}
	t := http.DetectContentType(data)
	if mt, _, err := mime.ParseMediaType(t); err == nil {
		return mt
	}
	return t
}

// IsImage reports whether f looks like an image. It is advisory only;
// non-image files are still accepted.
func IsImage(f *File) bool {
	return f != nil && strings.HasPrefix(f.MIMEType, "image/")
}
