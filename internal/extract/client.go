// Package extract uploads a selected image to the OCR endpoint and
// normalizes its answer into a Result.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/jackzampolin/scantext/internal/errs"
	"github.com/jackzampolin/scantext/internal/selection"
)

const (
	DefaultUploadPath = "/upload"
	DefaultFieldName  = "image"
	DefaultTimeout    = 120 * time.Second

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 10 << 20
)

// responseSchema describes the OCR endpoint's JSON answer.
const responseSchema = `{
  "type": "object",
  "properties": {
    "text":  {"type": "string"},
    "error": {"type": "string"}
  }
}`

// Result is the outcome of one extraction. Exactly one of Text or Err is
// meaningful: when Err is set, Text is empty.
type Result struct {
	Text string
	Err  *errs.Error
}

// OK reports whether the extraction succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Extractor is implemented by anything that can turn a selection into text.
type Extractor interface {
	Extract(ctx context.Context, sel selection.Selection) Result
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	UploadPath string
	FieldName  string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the OCR endpoint.
type Client struct {
	mu      sync.RWMutex
	baseURL string

	uploadPath string
	fieldName  string
	http       *http.Client
	schema     *jsonschema.Schema
	logger     *slog.Logger
}

// NewClient creates a Client. BaseURL is required.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("extract: base URL is required")
	}
	if cfg.UploadPath == "" {
		cfg.UploadPath = DefaultUploadPath
	}
	if cfg.FieldName == "" {
		cfg.FieldName = DefaultFieldName
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("response.json", strings.NewReader(responseSchema)); err != nil {
		return nil, fmt.Errorf("failed to load response schema: %w", err)
	}
	schema, err := compiler.Compile("response.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile response schema: %w", err)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		uploadPath: "/" + strings.TrimLeft(cfg.UploadPath, "/"),
		fieldName:  cfg.FieldName,
		http:       cfg.HTTPClient,
		schema:     schema,
		logger:     cfg.Logger,
	}, nil
}

// BaseURL returns the current endpoint base URL.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL points the client at a different OCR server. Requests already
// in flight are unaffected.
func (c *Client) SetBaseURL(url string) {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	if url == "" {
		return
	}
	c.mu.Lock()
	c.baseURL = url
	c.mu.Unlock()
}

// Endpoint returns the full upload URL.
func (c *Client) Endpoint() string {
	return c.BaseURL() + c.uploadPath
}

// CheckSelection returns the NoFileSelected error when sel has no file.
func CheckSelection(sel selection.Selection) *errs.Error {
	if !sel.HasFile() {
		return errs.New(errs.NoFileSelected, "", nil)
	}
	return nil
}

// Extract uploads the selected file and returns the extracted text or a
// classified failure. It issues exactly one request and never retries.
func (c *Client) Extract(ctx context.Context, sel selection.Selection) Result {
	if e := CheckSelection(sel); e != nil {
		return Result{Err: e}
	}

	endpoint := c.Endpoint()
	logger := c.logger.With("endpoint", endpoint, "file", sel.File.Name, "selection", sel.ID)

	body, contentType, err := c.encode(sel.File)
	if err != nil {
		return c.transportFailure(logger, "failed to encode upload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return c.transportFailure(logger, "failed to create request", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportFailure(logger, "request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return c.transportFailure(logger, "failed to read response", err)
	}
	if len(raw) > maxResponseBytes {
		return c.transportFailure(logger, "response too large", fmt.Errorf("body exceeds %d bytes", maxResponseBytes))
	}

	logger.Debug("ocr response received",
		"status", resp.StatusCode,
		"bytes", len(raw),
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.transportFailure(logger, "unexpected status", fmt.Errorf("status %d: %s", resp.StatusCode, truncate(raw, 200)))
	}

	payload, err := c.decode(raw)
	if err != nil {
		return c.transportFailure(logger, "malformed response", err)
	}

	if payload.Error != nil {
		msg := strings.TrimSpace(*payload.Error)
		logger.Info("ocr server reported no text", "message", msg)
		return Result{Err: errs.New(errs.LogicalExtractionFailure, msg, nil)}
	}

	var text string
	if payload.Text != nil {
		text = *payload.Text
	}
	logger.Info("text extracted", "chars", len(text))
	return Result{Text: text}
}

type response struct {
	Text  *string `json:"text"`
	Error *string `json:"error"`
}

func (c *Client) decode(raw []byte) (response, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return response{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := c.schema.Validate(doc); err != nil {
		return response{}, fmt.Errorf("response does not match schema: %w", err)
	}
	var r response
	if err := json.Unmarshal(raw, &r); err != nil {
		return response{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return r, nil
}

func (c *Client) encode(f *selection.File) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	mimeType := f.MIMEType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	name := f.Name
	if name == "" {
		name = "upload"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, c.fieldName, name))
	h.Set("Content-Type", mimeType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(f.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func (c *Client) transportFailure(logger *slog.Logger, msg string, err error) Result {
	logger.Warn("ocr "+msg, "error", err)
	return Result{Err: errs.New(errs.TransportFailure, "", err)}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
