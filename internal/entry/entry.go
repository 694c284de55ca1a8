package entry

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ─────────────────────────────────────────────────────────────
// Solution archive: documents and pages packed into one zip
// ─────────────────────────────────────────────────────────────
//
// Each page is stored as "<document>/<page>" holding the page text. A
// document without pages is stored as the bare directory entry
// "<document>/". Archive order is document order, then page order.

// Solution is the archive root. Its name is the file name without the
// extension.
type Solution struct {
	Name      string
	Documents []*Document
}

type Document struct {
	Name  string
	Pages []*Page
}

type Page struct {
	Name    string
	Content string
}

// ── Building ───────────────────────────────────────────────

// NewSolution returns a solution holding one document with one empty page.
func NewSolution(name string) *Solution {
	s := &Solution{Name: name}
	s.AddDocument("").AddPage("", "")
	return s
}

// AddDocument appends a document. An empty name becomes "DocumentN".
func (s *Solution) AddDocument(name string) *Document {
	d := s.newDocument(name)
	s.Documents = append(s.Documents, d)
	return d
}

// AddDocumentBefore inserts a document before at. Appends when at is not
// part of s.
func (s *Solution) AddDocumentBefore(at *Document, name string) *Document {
	d := s.newDocument(name)
	s.Documents = insertAt(s.Documents, s.indexOf(at), d)
	return d
}

// AddDocumentAfter inserts a document after at. Appends when at is not
// part of s.
func (s *Solution) AddDocumentAfter(at *Document, name string) *Document {
	d := s.newDocument(name)
	i := s.indexOf(at)
	if i >= 0 {
		i++
	}
	s.Documents = insertAt(s.Documents, i, d)
	return d
}

// DuplicateDocument appends a copy of d with the same page contents.
func (s *Solution) DuplicateDocument(d *Document) *Document {
	dup := s.AddDocument("")
	for _, p := range d.Pages {
		dup.AddPage(p.Name, p.Content)
	}
	return dup
}

// RemoveDocument removes d. Reports whether it was found.
func (s *Solution) RemoveDocument(d *Document) bool {
	i := s.indexOf(d)
	if i < 0 {
		return false
	}
	s.Documents = append(s.Documents[:i], s.Documents[i+1:]...)
	return true
}

// Document returns the document with the given name.
func (s *Solution) Document(name string) *Document {
	for _, d := range s.Documents {
		if d.Name == name {
			return d
		}
	}
	return nil
}

func (s *Solution) newDocument(name string) *Document {
	if name == "" {
		name = fmt.Sprintf("Document%d", len(s.Documents))
	}
	return &Document{Name: name}
}

func (s *Solution) indexOf(d *Document) int {
	for i, x := range s.Documents {
		if x == d {
			return i
		}
	}
	return -1
}

// AddPage appends a page. An empty name becomes "Page".
func (d *Document) AddPage(name, content string) *Page {
	p := newPage(name, content)
	d.Pages = append(d.Pages, p)
	return p
}

// AddPageBefore inserts an empty page before at.
func (d *Document) AddPageBefore(at *Page, name string) *Page {
	p := newPage(name, "")
	d.Pages = insertAt(d.Pages, d.indexOf(at), p)
	return p
}

// AddPageAfter inserts an empty page after at.
func (d *Document) AddPageAfter(at *Page, name string) *Page {
	p := newPage(name, "")
	i := d.indexOf(at)
	if i >= 0 {
		i++
	}
	d.Pages = insertAt(d.Pages, i, p)
	return p
}

// DuplicatePage appends a copy of p.
func (d *Document) DuplicatePage(p *Page) *Page {
	return d.AddPage(p.Name, p.Content)
}

// RemovePage removes p. Reports whether it was found.
func (d *Document) RemovePage(p *Page) bool {
	i := d.indexOf(p)
	if i < 0 {
		return false
	}
	d.Pages = append(d.Pages[:i], d.Pages[i+1:]...)
	return true
}

func (d *Document) indexOf(p *Page) int {
	for i, x := range d.Pages {
		if x == p {
			return i
		}
	}
	return -1
}

func newPage(name, content string) *Page {
	if name == "" {
		name = "Page"
	}
	return &Page{Name: name, Content: content}
}

// insertAt inserts v at i, or appends when i is out of range.
func insertAt[T any](xs []T, i int, v T) []T {
	if i < 0 || i > len(xs) {
		return append(xs, v)
	}
	xs = append(xs, v)
	copy(xs[i+1:], xs[i:])
	xs[i] = v
	return xs
}

// ── Serialization ──────────────────────────────────────────

// Write packs s into a zip archive.
func Write(w io.Writer, s *Solution) error {
	zw := zip.NewWriter(w)
	for _, d := range s.Documents {
		if strings.Contains(d.Name, "/") {
			return fmt.Errorf("document name %q contains '/'", d.Name)
		}
		if len(d.Pages) == 0 {
			if _, err := zw.Create(d.Name + "/"); err != nil {
				return fmt.Errorf("create document entry: %w", err)
			}
			continue
		}
		for _, p := range d.Pages {
			if strings.Contains(p.Name, "/") {
				return fmt.Errorf("page name %q contains '/'", p.Name)
			}
			f, err := zw.Create(d.Name + "/" + p.Name)
			if err != nil {
				return fmt.Errorf("create page entry: %w", err)
			}
			if _, err := io.WriteString(f, p.Content); err != nil {
				return fmt.Errorf("write page %s/%s: %w", d.Name, p.Name, err)
			}
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	return nil
}

// Read unpacks an archive. Entries are grouped into documents by their
// first path segment, keeping first-seen order. Entries at the archive root
// are ignored.
func Read(r io.ReaderAt, size int64, name string) (*Solution, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	s := &Solution{Name: name}
	for _, f := range zr.File {
		docName, pageName, ok := strings.Cut(f.Name, "/")
		if !ok || docName == "" {
			continue
		}
		d := s.Document(docName)
		if d == nil {
			d = &Document{Name: docName}
			s.Documents = append(s.Documents, d)
		}
		if pageName == "" {
			continue
		}
		content, err := readEntry(f)
		if err != nil {
			return nil, err
		}
		d.Pages = append(d.Pages, &Page{Name: pageName, Content: content})
	}
	return s, nil
}

func readEntry(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open entry %s: %w", f.Name, err)
	}
	defer rc.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return "", fmt.Errorf("read entry %s: %w", f.Name, err)
	}
	return buf.String(), nil
}

// ── Files ──────────────────────────────────────────────────

// Save writes s to path, replacing any existing file.
func Save(path string, s *Solution) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create solution file: %w", err)
	}
	if err := Write(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Open reads the solution stored at path. The solution is named after the
// file without its extension.
func Open(path string) (*Solution, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open solution file: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat solution file: %w", err)
	}
	base := filepath.Base(path)
	return Read(f, info.Size(), strings.TrimSuffix(base, filepath.Ext(base)))
}

// CreateEmpty writes a new archive with a single empty page.
func CreateEmpty(path string) error {
	return Save(path, NewSolution(""))
}
