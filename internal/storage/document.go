package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sheet/internal/domain"
)

// DocumentStore implements domain.DocumentStore using SQLite.
type DocumentStore struct {
	db *DB
}

func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) CreateDocument(d *domain.Document) error {
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	_, err := s.db.conn.Exec(
		`INSERT INTO documents (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		d.ID, d.Name, d.CreatedAt, d.UpdatedAt,
	)
	return err
}

func (s *DocumentStore) GetDocument(id string) (*domain.Document, error) {
	d := &domain.Document{}
	err := s.db.conn.QueryRow(
		`SELECT id, name, created_at, updated_at FROM documents WHERE id = ?`, id,
	).Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return d, nil
}

func (s *DocumentStore) ListDocuments() ([]domain.Document, error) {
	rows, err := s.db.conn.Query(`SELECT id, name, created_at, updated_at FROM documents ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *DocumentStore) UpdateDocument(d *domain.Document) error {
	d.UpdatedAt = time.Now()
	_, err := s.db.conn.Exec(
		`UPDATE documents SET name = ?, updated_at = ? WHERE id = ?`,
		d.Name, d.UpdatedAt, d.ID,
	)
	return err
}

func (s *DocumentStore) DeleteDocument(id string) error {
	_, err := s.db.conn.Exec(`DELETE FROM documents WHERE id = ?`, id)
	return err
}

func (s *DocumentStore) CreatePage(p *domain.Page) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := s.db.conn.Exec(
		`INSERT INTO pages (id, document_id, name, sort_order, zoom_index, pan_x, pan_y, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.DocumentID, p.Name, p.Order, p.ZoomIndex, p.PanX, p.PanY, p.Content, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (s *DocumentStore) GetPage(id string) (*domain.Page, error) {
	p := &domain.Page{}
	err := s.db.conn.QueryRow(
		`SELECT id, document_id, name, sort_order, zoom_index, pan_x, pan_y, COALESCE(content, '') as content, created_at, updated_at FROM pages WHERE id = ?`, id,
	).Scan(&p.ID, &p.DocumentID, &p.Name, &p.Order, &p.ZoomIndex, &p.PanX, &p.PanY, &p.Content, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("page not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}
	return p, nil
}

// ListPages returns the pages of a document without their contents.
func (s *DocumentStore) ListPages(documentID string) ([]domain.Page, error) {
	rows, err := s.db.conn.Query(
		`SELECT id, document_id, name, sort_order, zoom_index, pan_x, pan_y, created_at, updated_at FROM pages WHERE document_id = ? ORDER BY sort_order ASC`,
		documentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []domain.Page
	for rows.Next() {
		var p domain.Page
		if err := rows.Scan(&p.ID, &p.DocumentID, &p.Name, &p.Order, &p.ZoomIndex, &p.PanX, &p.PanY, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

func (s *DocumentStore) UpdatePage(p *domain.Page) error {
	p.UpdatedAt = time.Now()
	_, err := s.db.conn.Exec(
		`UPDATE pages SET name = ?, sort_order = ?, zoom_index = ?, pan_x = ?, pan_y = ?, content = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.Order, p.ZoomIndex, p.PanX, p.PanY, p.Content, p.UpdatedAt, p.ID,
	)
	return err
}

func (s *DocumentStore) DeletePage(id string) error {
	_, err := s.db.conn.Exec(`DELETE FROM pages WHERE id = ?`, id)
	return err
}

func (s *DocumentStore) DeletePagesByDocument(documentID string) error {
	_, err := s.db.conn.Exec(`DELETE FROM pages WHERE document_id = ?`, documentID)
	return err
}
