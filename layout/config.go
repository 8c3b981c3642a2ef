package layout

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// PageSize names one of the supported paper variants.
type PageSize string

const (
	PageLetter  PageSize = "letter"
	PageA4      PageSize = "a4"
	PageLegal   PageSize = "legal"
	PageTabloid PageSize = "tabloid"
)

var pagePresets = map[PageSize][2]float64{
	PageLetter:  {215.9, 279.4},
	PageA4:      {210, 297},
	PageLegal:   {215.9, 355.6},
	PageTabloid: {279.4, 431.8},
}

// Dimensions returns the portrait page size in millimeters. Unknown variants
// fall back to Letter, the template's native size.
func (p PageSize) Dimensions() (w, h float64) {
	if d, ok := pagePresets[PageSize(strings.ToLower(string(p)))]; ok {
		return d[0], d[1]
	}
	d := pagePresets[PageLetter]
	return d[0], d[1]
}

// Config carries the spacing constants of the card template. The numeric
// values mirror the external tuning file, which is expressed in points; they
// are converted to millimeters on load. Everything has a built-in default so
// the engine renders with no external file at all.
type Config struct {
	Page       PageConfig       `json:"page"`
	Columns    ColumnsConfig    `json:"columns"`
	Header     HeaderConfig     `json:"header"`
	Stats      StatsConfig      `json:"stats"`
	Directions DirectionsConfig `json:"directions"`
	// DetectedBBoxes passes template-parity tuning regions through untouched;
	// the layout engine itself never reads them.
	DetectedBBoxes map[string][4]float64 `json:"detected_bboxes,omitempty"`
}

// PageConfig selects the paper variant and margins (pt in the external file).
type PageConfig struct {
	Size    PageSize      `json:"size"`
	Margins MarginsConfig `json:"margins"`
}

// MarginsConfig uses the l/t/r/b keys of the original tuning file.
type MarginsConfig struct {
	Left   float64 `json:"l"`
	Top    float64 `json:"t"`
	Right  float64 `json:"r"`
	Bottom float64 `json:"b"`
}

// ColumnsConfig splits the content area between ingredients and directions.
type ColumnsConfig struct {
	LeftPct float64 `json:"left_pct"`
}

// HeaderConfig tunes the header section.
type HeaderConfig struct {
	DescLeading float64       `json:"desc_leading"`
	RowGaps     RowGapsConfig `json:"row_gaps"`
}

// RowGapsConfig holds vertical gaps between header rows.
type RowGapsConfig struct {
	TitleDesc float64 `json:"title_desc"`
	MetaRows  float64 `json:"meta_rows"`
}

// StatsConfig pads the inline stats strip.
type StatsConfig struct {
	Padding StatsPadding `json:"padding"`
}

// StatsPadding uses the t/b/x keys of the original tuning file.
type StatsPadding struct {
	Top    float64 `json:"t"`
	Bottom float64 `json:"b"`
	X      float64 `json:"x"`
}

// DirectionsConfig tunes the numbered-step column.
type DirectionsConfig struct {
	StepGap    float64 `json:"step_gap"`
	LineHeight float64 `json:"line_height"`
}

// DefaultConfig returns the built-in template constants (pt).
func DefaultConfig() Config {
	return Config{
		Page: PageConfig{
			Size:    PageLetter,
			Margins: MarginsConfig{Left: 40, Top: 40, Right: 40, Bottom: 40},
		},
		Columns: ColumnsConfig{LeftPct: 0.4},
		Header: HeaderConfig{
			DescLeading: 16,
			RowGaps:     RowGapsConfig{TitleDesc: 8, MetaRows: 6},
		},
		Stats: StatsConfig{
			Padding: StatsPadding{Top: 24, Bottom: 24, X: 14},
		},
		Directions: DirectionsConfig{StepGap: 12, LineHeight: 14},
	}
}

// LoadConfig merges an optional external JSON override over the defaults.
// A missing, unreadable or malformed file is logged and ignored: tuning data
// must never be able to break rendering.
func LoadConfig(path string, logger *slog.Logger) Config {
	cfg := DefaultConfig()
	if path == "" {
		return cfg
	}
	if logger == nil {
		logger = slog.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("layout override unreadable, using defaults",
			"path", path, "error", err)
		return cfg
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		logger.Warn("layout override malformed, using defaults",
			"path", path, "error", err)
		return DefaultConfig()
	}
	if err := cfg.validate(); err != nil {
		logger.Warn("layout override rejected, using defaults",
			"path", path, "error", err)
		return DefaultConfig()
	}
	return cfg
}

func (c *Config) validate() error {
	if c.Columns.LeftPct <= 0 || c.Columns.LeftPct >= 1 {
		return fmt.Errorf("columns.left_pct %g outside (0,1)", c.Columns.LeftPct)
	}
	m := c.Page.Margins
	if m.Left < 0 || m.Top < 0 || m.Right < 0 || m.Bottom < 0 {
		return fmt.Errorf("negative margin")
	}
	return nil
}

// Margin converts the configured margins to millimeters.
func (c Config) Margin() Margin {
	m := c.Page.Margins
	return Margin{Top: Pt(m.Top), Right: Pt(m.Right), Bottom: Pt(m.Bottom), Left: Pt(m.Left)}
}
