package config

// Entry is a single configuration key with its default value.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description" yaml:"description"`
}

// DefaultEntries returns every configuration key with its default.
// Each key can be overridden by SCANTEXT_<KEY> with dots as underscores.
func DefaultEntries() []Entry {
	d := DefaultConfig()
	return []Entry{
		// OCR endpoint
		{Key: "ocr.base_url", Value: d.OCR.BaseURL, Description: "Base URL of the OCR server"},
		{Key: "ocr.upload_path", Value: d.OCR.UploadPath, Description: "Path the image is POSTed to"},
		{Key: "ocr.field_name", Value: d.OCR.FieldName, Description: "Multipart field name carrying the image"},
		{Key: "ocr.timeout_seconds", Value: d.OCR.TimeoutSeconds, Description: "Request timeout for one extraction"},

		// Local server
		{Key: "server.host", Value: d.Server.Host, Description: "Host the local server binds to"},
		{Key: "server.port", Value: d.Server.Port, Description: "Port the local server listens on"},

		// Controller
		{Key: "ui.enhanced", Value: d.UI.Enhanced, Description: "Enable editing and fullscreen"},
		{Key: "ui.copied_feedback_ms", Value: d.UI.CopiedFeedbackMS, Description: "How long the copied indicator stays up"},
		{Key: "ui.arrival_cue_ms", Value: d.UI.ArrivalCueMS, Description: "How long the new-text cue stays up"},

		// Export
		{Key: "export.output_dir", Value: d.Export.OutputDir, Description: "Directory exports are saved to (empty: ~/.scantext/exports)"},
		{Key: "export.pdf.page_size", Value: d.Export.PDF.PageSize, Description: "PDF page size (A3, A4, A5, Letter, Legal)"},
		{Key: "export.pdf.font_size", Value: d.Export.PDF.FontSize, Description: "PDF font size in points"},
		{Key: "export.pdf.margin", Value: d.Export.PDF.Margin, Description: "PDF page margin in points"},
		{Key: "export.pdf.line_height", Value: d.Export.PDF.LineHeight, Description: "PDF line height as a multiple of the font size"},

		// Backend container
		{Key: "backend.image", Value: d.Backend.Image, Description: "Docker image of a local OCR server"},
		{Key: "backend.container_name", Value: d.Backend.ContainerName, Description: "Name of the backend container"},
		{Key: "backend.host_port", Value: d.Backend.HostPort, Description: "Host port the backend is published on"},
		{Key: "backend.container_port", Value: d.Backend.ContainerPort, Description: "Port the backend listens on inside the container"},
	}
}

// GetDefault returns the default entry for key, or nil if key is unknown.
func GetDefault(key string) *Entry {
	for _, entry := range DefaultEntries() {
		if entry.Key == key {
			return &entry
		}
	}
	return nil
}
