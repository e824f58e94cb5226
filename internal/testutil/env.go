// Package testutil holds helpers shared by scantext tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Logger returns a logger that discards output.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// FindFreePort finds an available TCP port and returns it as a string.
func FindFreePort() (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	defer listener.Close()
	return fmt.Sprintf("%d", listener.Addr().(*net.TCPAddr).Port), nil
}

// OCRUpload is one request received by an OCRServer.
type OCRUpload struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// OCRServer is a fake OCR endpoint. By default it answers {"text": "Hello"}.
type OCRServer struct {
	*httptest.Server

	mu      sync.Mutex
	uploads []OCRUpload
	respond func(OCRUpload) (status int, body any)
}

// NewOCRServer starts a fake OCR server on path and closes it at cleanup.
func NewOCRServer(t *testing.T, path string) *OCRServer {
	t.Helper()

	s := &OCRServer{
		respond: func(OCRUpload) (int, any) {
			return http.StatusOK, map[string]string{"text": "Hello"}
		},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+path, s.handle)
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// SetRespond replaces the reply for subsequent uploads. A string body is
// written verbatim; anything else is JSON encoded.
func (s *OCRServer) SetRespond(fn func(OCRUpload) (status int, body any)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.respond = fn
}

// Uploads returns the uploads received so far.
func (s *OCRServer) Uploads() []OCRUpload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]OCRUpload(nil), s.uploads...)
}

func (s *OCRServer) handle(w http.ResponseWriter, r *http.Request) {
	reader, err := r.MultipartReader()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var up OCRUpload
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		up = readPart(part)
	}

	s.mu.Lock()
	s.uploads = append(s.uploads, up)
	respond := s.respond
	s.mu.Unlock()

	status, body := respond(up)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	switch b := body.(type) {
	case string:
		_, _ = io.WriteString(w, b)
	default:
		_ = json.NewEncoder(w).Encode(b)
	}
}

func readPart(part *multipart.Part) OCRUpload {
	defer part.Close()
	data, _ := io.ReadAll(part)
	return OCRUpload{
		Field:       part.FormName(),
		Filename:    part.FileName(),
		ContentType: part.Header.Get("Content-Type"),
		Data:        data,
	}
}
