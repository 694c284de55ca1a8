package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultUndoLimit bounds the persisted nodes kept per page.
const DefaultUndoLimit = 40

// UndoNode is one persisted history registration. Snapshot holds the page
// contents in the text codec as they were before the labelled action.
type UndoNode struct {
	ID        string    `json:"id"`
	PageID    string    `json:"pageId"`
	ParentID  *string   `json:"parentId"`
	Label     string    `json:"label"`
	Snapshot  string    `json:"snapshot"`
	CreatedAt time.Time `json:"createdAt"`
}

// UndoTree is the full chain of a page's history.
type UndoTree struct {
	Nodes     []UndoNode `json:"nodes"`
	CurrentID string     `json:"currentId"`
	RootID    string     `json:"rootId"`
}

// UndoStore manages persisted page history in SQLite.
type UndoStore struct {
	db    *DB
	limit int
}

func NewUndoStore(db *DB) *UndoStore {
	return &UndoStore{db: db, limit: DefaultUndoLimit}
}

// SetLimit changes the per-page node cap. limit <= 0 disables pruning.
func (s *UndoStore) SetLimit(limit int) { s.limit = limit }

// LoadTree returns the undo tree for a page, or nil when it has none.
func (s *UndoStore) LoadTree(pageID string) (*UndoTree, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, page_id, parent_id, label, snapshot, created_at
		 FROM undo_nodes WHERE page_id = ? ORDER BY created_at ASC, rowid ASC`, pageID,
	)
	if err != nil {
		return nil, fmt.Errorf("load undo nodes: %w", err)
	}
	defer rows.Close()

	var nodes []UndoNode
	var rootID string
	for rows.Next() {
		var n UndoNode
		if err := rows.Scan(&n.ID, &n.PageID, &n.ParentID, &n.Label, &n.Snapshot, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan undo node: %w", err)
		}
		if n.ParentID == nil {
			rootID = n.ID
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(nodes) == 0 {
		return nil, nil
	}

	currentID, err := s.currentID(pageID)
	if err != nil || currentID == "" {
		currentID = nodes[len(nodes)-1].ID
	}

	return &UndoTree{
		Nodes:     nodes,
		CurrentID: currentID,
		RootID:    rootID,
	}, nil
}

func (s *UndoStore) currentID(pageID string) (string, error) {
	var id string
	err := s.db.Conn().QueryRow(
		`SELECT current_node_id FROM undo_state WHERE page_id = ?`, pageID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return id, err
}

// PushNode appends a node under the page's current node and makes it
// current.
func (s *UndoStore) PushNode(pageID, label, snapshot string) (*UndoNode, error) {
	now := time.Now()
	nodeID := uuid.New().String()

	parentID, err := s.currentID(pageID)
	if err != nil {
		return nil, fmt.Errorf("read undo state: %w", err)
	}
	var pID *string
	if parentID != "" {
		pID = &parentID
	}

	_, err = s.db.Conn().Exec(
		`INSERT INTO undo_nodes (id, page_id, parent_id, label, snapshot, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		nodeID, pageID, pID, label, snapshot, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert undo node: %w", err)
	}

	if err := s.GoTo(pageID, nodeID); err != nil {
		return nil, fmt.Errorf("update undo state: %w", err)
	}

	if s.limit > 0 {
		s.pruneIfNeeded(pageID, s.limit)
	}

	return &UndoNode{
		ID:        nodeID,
		PageID:    pageID,
		ParentID:  pID,
		Label:     label,
		Snapshot:  snapshot,
		CreatedAt: now,
	}, nil
}

// GoTo updates the current position pointer.
func (s *UndoStore) GoTo(pageID, nodeID string) error {
	_, err := s.db.Conn().Exec(
		`INSERT INTO undo_state (page_id, current_node_id) VALUES (?, ?)
		 ON CONFLICT(page_id) DO UPDATE SET current_node_id = excluded.current_node_id`,
		pageID, nodeID,
	)
	return err
}

// ClearPage removes all undo data for a page.
func (s *UndoStore) ClearPage(pageID string) error {
	_, _ = s.db.Conn().Exec(`DELETE FROM undo_state WHERE page_id = ?`, pageID)
	_, err := s.db.Conn().Exec(`DELETE FROM undo_nodes WHERE page_id = ?`, pageID)
	return err
}

// pruneIfNeeded removes the oldest nodes when count exceeds maxNodes,
// re-parenting their children.
func (s *UndoStore) pruneIfNeeded(pageID string, maxNodes int) {
	var count int
	s.db.Conn().QueryRow(`SELECT COUNT(*) FROM undo_nodes WHERE page_id = ?`, pageID).Scan(&count)
	if count <= maxNodes {
		return
	}

	toDelete := count - maxNodes

	// Read the pointer before opening the cursor, the pool has one connection
	currentID, _ := s.currentID(pageID)

	rows, err := s.db.Conn().Query(
		`SELECT id FROM undo_nodes WHERE page_id = ?
		 ORDER BY created_at ASC, rowid ASC LIMIT ?`, pageID, toDelete,
	)
	if err != nil {
		return
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		if id != currentID {
			ids = append(ids, id)
		}
	}
	rows.Close()

	for _, id := range ids {
		var parentID sql.NullString
		s.db.Conn().QueryRow(`SELECT parent_id FROM undo_nodes WHERE id = ?`, id).Scan(&parentID)

		if parentID.Valid {
			s.db.Conn().Exec(`UPDATE undo_nodes SET parent_id = ? WHERE parent_id = ?`, parentID.String, id)
		} else {
			s.db.Conn().Exec(`UPDATE undo_nodes SET parent_id = NULL WHERE parent_id = ?`, id)
		}

		s.db.Conn().Exec(`DELETE FROM undo_nodes WHERE id = ?`, id)
	}
}
