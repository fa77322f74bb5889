package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

var ErrNegativeCount = errors.New("like count must not be negative")

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLiteStorage{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// The liked set and the count map are kept as two tables so that a count
// survives an unlike.
func (s *SQLiteStorage) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS liked_items (
		item_id INTEGER PRIMARY KEY,
		liked_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS like_counts (
		item_id INTEGER PRIMARY KEY,
		count INTEGER NOT NULL CHECK (count >= 0),
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_liked_at ON liked_items(liked_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// GetLikeRecord returns the stored record for an item, or nil when neither
// bucket has an entry for it.
func (s *SQLiteStorage) GetLikeRecord(itemID int64) (*LikeRecord, error) {
	row := s.db.QueryRow(`
		SELECT
			EXISTS (SELECT 1 FROM liked_items WHERE item_id = ?),
			(SELECT count FROM like_counts WHERE item_id = ?)
	`, itemID, itemID)

	var liked bool
	var count sql.NullInt64
	if err := row.Scan(&liked, &count); err != nil {
		return nil, err
	}

	if !liked && !count.Valid {
		return nil, nil
	}

	return &LikeRecord{
		ItemID:   itemID,
		Liked:    liked,
		Count:    int(count.Int64),
		HasCount: count.Valid,
	}, nil
}

// SaveLikeRecord writes both buckets for one item in a single transaction.
func (s *SQLiteStorage) SaveLikeRecord(rec *LikeRecord) error {
	if rec.Count < 0 {
		return ErrNegativeCount
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()

	if rec.Liked {
		_, err = tx.Exec(`
			INSERT INTO liked_items (item_id, liked_at) VALUES (?, ?)
			ON CONFLICT(item_id) DO NOTHING
		`, rec.ItemID, now)
	} else {
		_, err = tx.Exec("DELETE FROM liked_items WHERE item_id = ?", rec.ItemID)
	}
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO like_counts (item_id, count, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(item_id) DO UPDATE SET
			count = excluded.count,
			updated_at = excluded.updated_at
	`, rec.ItemID, rec.Count, now)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// LikedIDs returns liked item ids, oldest like first.
func (s *SQLiteStorage) LikedIDs() ([]int64, error) {
	rows, err := s.db.Query("SELECT item_id FROM liked_items ORDER BY liked_at, rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// ClearLikes empties both buckets.
func (s *SQLiteStorage) ClearLikes() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM liked_items"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM like_counts"); err != nil {
		return err
	}

	return tx.Commit()
}
