// Package history keeps per-user records of generated presentations and
// shared slideshow snapshots in a SQLite database.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	slideshow "github.com/VantageDataChat/GoSlideshow"
)

var (
	// ErrNotFound is returned when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrInvalidUser is returned for an empty user id.
	ErrInvalidUser = errors.New("user id is required")
)

// Record is one generated presentation in a user's history.
type Record struct {
	ID           string             `json:"id"`
	UserID       string             `json:"userId"`
	Filename     string             `json:"filename"`
	TemplateName string             `json:"templateName"`
	Slides       []*slideshow.Slide `json:"slides"`
	GeneratedAt  time.Time          `json:"generatedAt"`
}

// Store is a SQLite-backed history and share store. It is safe for
// concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens the database at path, creating it and its directory if needed,
// and applies pending migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// modernc sqlite serializes writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := createMigrationsTable(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add stores rec for userID. A missing id is generated and a zero
// GeneratedAt is set to the current time. The stored record is returned.
func (s *Store) Add(ctx context.Context, userID string, rec Record) (Record, error) {
	if userID == "" {
		return Record{}, ErrInvalidUser
	}
	if rec.Filename == "" {
		return Record{}, errors.New("filename is required")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.GeneratedAt.IsZero() {
		rec.GeneratedAt = s.now()
	}
	rec.UserID = userID
	if rec.Slides == nil {
		rec.Slides = []*slideshow.Slide{}
	}

	data, err := json.Marshal(rec.Slides)
	if err != nil {
		return Record{}, fmt.Errorf("failed to serialize slides: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO history (id, user_id, filename, template_name, slides, generated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.Filename, rec.TemplateName, string(data), rec.GeneratedAt.UnixMilli())
	if err != nil {
		return Record{}, fmt.Errorf("failed to insert history record: %w", err)
	}
	rec.GeneratedAt = time.UnixMilli(rec.GeneratedAt.UnixMilli())
	return rec, nil
}

// List returns the records of userID, newest first.
func (s *Store) List(ctx context.Context, userID string) ([]Record, error) {
	if userID == "" {
		return nil, ErrInvalidUser
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, filename, template_name, slides, generated_at FROM history
		 WHERE user_id = ? ORDER BY generated_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return records, nil
}

// Get returns one record of userID.
func (s *Store) Get(ctx context.Context, userID, id string) (Record, error) {
	if userID == "" {
		return Record{}, ErrInvalidUser
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, filename, template_name, slides, generated_at FROM history
		 WHERE user_id = ? AND id = ?`, userID, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

// Rename changes the filename of a record.
func (s *Store) Rename(ctx context.Context, userID, id, filename string) error {
	if userID == "" {
		return ErrInvalidUser
	}
	if filename == "" {
		return errors.New("filename is required")
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE history SET filename = ? WHERE user_id = ? AND id = ?`, filename, userID, id)
	if err != nil {
		return fmt.Errorf("failed to rename history record: %w", err)
	}
	return requireRow(res)
}

// Delete removes a record.
func (s *Store) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return ErrInvalidUser
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete history record: %w", err)
	}
	return requireRow(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var (
		rec    Record
		slides string
		ms     int64
	)
	if err := sc.Scan(&rec.ID, &rec.UserID, &rec.Filename, &rec.TemplateName, &slides, &ms); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("failed to scan history record: %w", err)
	}
	if err := json.Unmarshal([]byte(slides), &rec.Slides); err != nil {
		return Record{}, fmt.Errorf("failed to parse slides of %s: %w", rec.ID, err)
	}
	rec.GeneratedAt = time.UnixMilli(ms)
	return rec, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
