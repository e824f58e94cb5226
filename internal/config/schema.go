package config

import "time"

// Config holds scantext configuration.
// Stored at: ~/.scantext/config.yaml (or ./config.yaml, or --config)
type Config struct {
	OCR     OCRConfig     `mapstructure:"ocr" yaml:"ocr"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	UI      UIConfig      `mapstructure:"ui" yaml:"ui"`
	Export  ExportConfig  `mapstructure:"export" yaml:"export"`
	Backend BackendConfig `mapstructure:"backend" yaml:"backend"`
}

// OCRConfig locates the OCR endpoint.
type OCRConfig struct {
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	UploadPath     string `mapstructure:"upload_path" yaml:"upload_path"`
	FieldName      string `mapstructure:"field_name" yaml:"field_name"` // multipart field carrying the image
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (c OCRConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ServerConfig is the local HTTP server's listen address.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// UIConfig selects the controller variant and feedback timings.
type UIConfig struct {
	Enhanced         bool `mapstructure:"enhanced" yaml:"enhanced"`
	CopiedFeedbackMS int  `mapstructure:"copied_feedback_ms" yaml:"copied_feedback_ms"`
	ArrivalCueMS     int  `mapstructure:"arrival_cue_ms" yaml:"arrival_cue_ms"`
}

func (c UIConfig) CopiedFeedback() time.Duration {
	return time.Duration(c.CopiedFeedbackMS) * time.Millisecond
}

func (c UIConfig) ArrivalCue() time.Duration {
	return time.Duration(c.ArrivalCueMS) * time.Millisecond
}

// ExportConfig controls where and how artifacts are written.
type ExportConfig struct {
	// OutputDir defaults to ~/.scantext/exports when empty.
	OutputDir string    `mapstructure:"output_dir" yaml:"output_dir"`
	PDF       PDFConfig `mapstructure:"pdf" yaml:"pdf"`
}

// PDFConfig is the PDF page layout in points.
type PDFConfig struct {
	PageSize   string  `mapstructure:"page_size" yaml:"page_size"`
	FontSize   float64 `mapstructure:"font_size" yaml:"font_size"`
	Margin     float64 `mapstructure:"margin" yaml:"margin"`
	LineHeight float64 `mapstructure:"line_height" yaml:"line_height"`
}

// BackendConfig describes an optional local OCR backend container.
type BackendConfig struct {
	// Image is the OCR server image. Required for `scantext backend start`.
	Image         string `mapstructure:"image" yaml:"image"`
	ContainerName string `mapstructure:"container_name" yaml:"container_name"`
	HostPort      string `mapstructure:"host_port" yaml:"host_port"`
	ContainerPort string `mapstructure:"container_port" yaml:"container_port"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			BaseURL:        "http://127.0.0.1:5000",
			UploadPath:     "/upload",
			FieldName:      "image",
			TimeoutSeconds: 120,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: "8080",
		},
		UI: UIConfig{
			Enhanced:         true,
			CopiedFeedbackMS: 2000,
			ArrivalCueMS:     1500,
		},
		Export: ExportConfig{
			PDF: PDFConfig{
				PageSize:   "A4",
				FontSize:   10,
				Margin:     40,
				LineHeight: 1.2,
			},
		},
		Backend: BackendConfig{
			ContainerName: "scantext-ocr",
			HostPort:      "5000",
			ContainerPort: "5000/tcp",
		},
	}
}
