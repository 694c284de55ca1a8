package domain

// PageState is everything the frontend needs to render and drive one page.
type PageState struct {
	Page      Page     `json:"page"`
	Mode      string   `json:"mode"`
	ZoomIndex int      `json:"zoomIndex"`
	Zoom      float64  `json:"zoom"`
	PanX      float64  `json:"panX"`
	PanY      float64  `json:"panY"`
	Labels    []string `json:"labels"`
	CanUndo   bool     `json:"canUndo"`
	CanRedo   bool     `json:"canRedo"`
	Plugins   []string `json:"plugins"`
}
