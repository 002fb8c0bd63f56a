package types

import "time"

// HTTPConfig holds shared HTTP settings used by every network operation.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "canvas-fetch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ImageFormat selects the raster format attachments are converted to.
type ImageFormat string

const (
	FormatJPEG ImageFormat = "jpg"
	FormatPNG  ImageFormat = "png"
)

// Valid reports whether f is one of the two accepted formats.
func (f ImageFormat) Valid() bool {
	return f == FormatJPEG || f == FormatPNG
}

// FetchConfig holds settings for one submission-fetch run.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// PerPage is the page size requested from the submissions endpoint
	// (default 100, the Canvas maximum).
	PerPage int `json:"per_page" yaml:"per_page"`

	// OutputDir is the directory attachments and the manifest are written
	// to. Empty means the assignment ID is used as the directory name.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// ConvertTo, when non-empty, converts every downloaded image
	// attachment to this format.
	ConvertTo ImageFormat `json:"convert_to,omitempty" yaml:"convert_to,omitempty"`

	// WriteMetadata additionally writes submissions.yaml next to the
	// manifest, one structured record per submission.
	WriteMetadata bool `json:"write_metadata" yaml:"write_metadata"`
}
