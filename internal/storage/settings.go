package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// ─────────────────────────────────────────────────────────────
// App settings
// ─────────────────────────────────────────────────────────────
//
// Plain key/value rows in app_settings: window size, the last opened
// page and the library file path.

// SettingsStore reads and writes app_settings.
type SettingsStore struct {
	db *DB
}

func NewSettingsStore(db *DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get returns the value for key and whether it was set.
func (s *SettingsStore) Get(key string) (string, bool, error) {
	var v string
	err := s.db.Conn().QueryRow(`SELECT value FROM app_settings WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return v, true, nil
}

// GetInt returns the integer stored under key, or def when unset or not a
// number.
func (s *SettingsStore) GetInt(key string, def int) int {
	v := def
	if err := s.db.Conn().QueryRow(`SELECT value FROM app_settings WHERE key = ?`, key).Scan(&v); err != nil {
		return def
	}
	return v
}

// Set upserts key.
func (s *SettingsStore) Set(key string, value any) error {
	_, err := s.db.Conn().Exec(
		`INSERT INTO app_settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}
