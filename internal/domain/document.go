package domain

import "time"

// Document is a named collection of pages (a "solution").
type Document struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Page is one drawing sheet. Content holds the page contents in the text
// codec; the grid and frame are rebuilt from options on load.
type Page struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	Name       string    `json:"name"`
	Order      int       `json:"order"`
	ZoomIndex  int       `json:"zoomIndex"`
	PanX       float64   `json:"panX"`
	PanY       float64   `json:"panY"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type DocumentStore interface {
	CreateDocument(d *Document) error
	GetDocument(id string) (*Document, error)
	ListDocuments() ([]Document, error)
	UpdateDocument(d *Document) error
	DeleteDocument(id string) error

	CreatePage(p *Page) error
	GetPage(id string) (*Page, error)
	ListPages(documentID string) ([]Page, error)
	UpdatePage(p *Page) error
	DeletePage(id string) error
	DeletePagesByDocument(documentID string) error
}
