package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/zjrosen/wsrepo/internal/changelog"
)

// changeModel is the database row for the id_changes table.
// Times are stored as Unix nanoseconds.
type changeModel struct {
	EntryID   string
	Type      string
	FromID    sql.NullString
	ToID      sql.NullString
	CreatedAt int64
}

func toChangeModel(e changelog.Entry) changeModel {
	return changeModel{
		EntryID:   e.ID,
		Type:      string(e.Type),
		FromID:    sql.NullString{String: e.From, Valid: e.From != ""},
		ToID:      sql.NullString{String: e.To, Valid: e.To != ""},
		CreatedAt: e.Time.UnixNano(),
	}
}

func (m changeModel) toEntry() changelog.Entry {
	return changelog.Entry{
		ID:   m.EntryID,
		Type: changelog.Type(m.Type),
		From: m.FromID.String,
		To:   m.ToID.String,
		Time: time.Unix(0, m.CreatedAt).UTC(),
	}
}

// ChangeLogStore implements changelog.Store using SQLite.
type ChangeLogStore struct {
	db *sql.DB
}

func newChangeLogStore(db *sql.DB) *ChangeLogStore {
	return &ChangeLogStore{db: db}
}

// Ensure ChangeLogStore implements changelog.Store.
var _ changelog.Store = (*ChangeLogStore)(nil)

// Load returns every entry in append order.
func (s *ChangeLogStore) Load() ([]changelog.Entry, error) {
	rows, err := s.db.Query(
		`SELECT entry_id, type, from_id, to_id, created_at FROM id_changes ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query changes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []changelog.Entry
	for rows.Next() {
		var m changeModel
		if err := rows.Scan(&m.EntryID, &m.Type, &m.FromID, &m.ToID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan change: %w", err)
		}
		entries = append(entries, m.toEntry())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate changes: %w", err)
	}
	return entries, nil
}

// Append inserts one entry.
func (s *ChangeLogStore) Append(e changelog.Entry) error {
	m := toChangeModel(e)
	_, err := s.db.Exec(
		`INSERT INTO id_changes (entry_id, type, from_id, to_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.EntryID, m.Type, m.FromID, m.ToID, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert change: %w", err)
	}
	return nil
}
