package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options is the editor configuration. It is fixed for a session.
type Options struct {
	PageOriginX float64 `yaml:"page_origin_x" json:"pageOriginX"`
	PageOriginY float64 `yaml:"page_origin_y" json:"pageOriginY"`
	PageWidth   float64 `yaml:"page_width" json:"pageWidth"`
	PageHeight  float64 `yaml:"page_height" json:"pageHeight"`

	SnapSize float64 `yaml:"snap_size" json:"snapSize"`
	GridSize float64 `yaml:"grid_size" json:"gridSize"`

	FrameThickness     float64 `yaml:"frame_thickness" json:"frameThickness"`
	GridThickness      float64 `yaml:"grid_thickness" json:"gridThickness"`
	SelectionThickness float64 `yaml:"selection_thickness" json:"selectionThickness"`
	LineThickness      float64 `yaml:"line_thickness" json:"lineThickness"`

	HitTestSize float64 `yaml:"hit_test_size" json:"hitTestSize"`

	DefaultZoomIndex int       `yaml:"default_zoom_index" json:"defaultZoomIndex"`
	MaxZoomIndex     int       `yaml:"max_zoom_index" json:"maxZoomIndex"`
	ZoomFactors      []float64 `yaml:"zoom_factors" json:"zoomFactors"`

	HistoryLimit int    `yaml:"history_limit" json:"historyLimit"`
	Autosave     string `yaml:"autosave" json:"autosave"`        // cron spec, "" disables
	LibraryPath  string `yaml:"library_path" json:"libraryPath"` // text file of library blocks

	// MCPAddr is the listen address of the in-app MCP endpoint, "" disables.
	MCPAddr string `yaml:"mcp_addr" json:"mcpAddr"`
}

// Default returns the stock configuration.
func Default() Options {
	return Options{
		PageOriginX:        0,
		PageOriginY:        0,
		PageWidth:          1260,
		PageHeight:         891,
		SnapSize:           15,
		GridSize:           30,
		FrameThickness:     1,
		GridThickness:      1,
		SelectionThickness: 1,
		LineThickness:      2,
		HitTestSize:        3.5,
		DefaultZoomIndex:   9,
		MaxZoomIndex:       21,
		ZoomFactors: []float64{
			0.01, 0.0625, 0.0833, 0.125, 0.25, 0.3333, 0.5, 0.6667, 0.75,
			1, 1.25, 1.5, 2, 3, 4, 6, 8, 12, 16, 24, 32, 64,
		},
		HistoryLimit: 100,
		Autosave:     "@every 1m",
	}
}

// Validate rejects options the editor cannot work with.
func (o Options) Validate() error {
	if o.SnapSize <= 0 {
		return fmt.Errorf("snap_size must be positive, got %v", o.SnapSize)
	}
	if len(o.ZoomFactors) == 0 {
		return errors.New("zoom_factors must not be empty")
	}
	if o.MaxZoomIndex < 0 || o.MaxZoomIndex >= len(o.ZoomFactors) {
		return fmt.Errorf("max_zoom_index %d outside zoom table of %d", o.MaxZoomIndex, len(o.ZoomFactors))
	}
	if o.DefaultZoomIndex < 0 || o.DefaultZoomIndex > o.MaxZoomIndex {
		return fmt.Errorf("default_zoom_index %d outside [0, %d]", o.DefaultZoomIndex, o.MaxZoomIndex)
	}
	return nil
}

// Load reads options from a YAML file over the defaults. A missing file
// yields the defaults.
func Load(path string) (Options, error) {
	opts := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return opts, nil
	}
	if err != nil {
		return opts, fmt.Errorf("read options: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parse options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("validate options: %w", err)
	}
	return opts, nil
}

// Save writes options as YAML.
func Save(path string, opts Options) error {
	data, err := yaml.Marshal(opts)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write options: %w", err)
	}
	return nil
}

// ZoomFactor returns the factor at index i, clamped into the table.
func (o Options) ZoomFactor(i int) float64 {
	if i < 0 {
		i = 0
	}
	if i >= len(o.ZoomFactors) {
		i = len(o.ZoomFactors) - 1
	}
	return o.ZoomFactors[i]
}
