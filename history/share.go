package history

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	slideshow "github.com/VantageDataChat/GoSlideshow"
)

// Defaults applied to shares saved without a title or theme.
const (
	DefaultShareTitle = "Untitled Slideshow"
	DefaultShareTheme = "Classic Classroom"
)

// Share is a public snapshot of a slideshow.
type Share struct {
	ID         string             `json:"id"`
	Title      string             `json:"title"`
	Theme      string             `json:"theme"`
	Author     string             `json:"author,omitempty"`
	Slides     []*slideshow.Slide `json:"slides"`
	SlideCount int                `json:"slideCount"`
	Views      int                `json:"views"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// Share stores a snapshot and returns it with its new id.
func (s *Store) Share(ctx context.Context, sh Share) (Share, error) {
	if len(sh.Slides) == 0 {
		return Share{}, errors.New("share has no slides")
	}
	if strings.TrimSpace(sh.Title) == "" {
		sh.Title = DefaultShareTitle
	}
	if sh.Theme == "" {
		sh.Theme = DefaultShareTheme
	}
	now := s.now()
	id, err := newShareID(now)
	if err != nil {
		return Share{}, err
	}
	data, err := json.Marshal(sh.Slides)
	if err != nil {
		return Share{}, fmt.Errorf("failed to serialize slides: %w", err)
	}

	sh.ID = id
	sh.SlideCount = len(sh.Slides)
	sh.Views = 0
	sh.CreatedAt = time.UnixMilli(now.UnixMilli())
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO shares (id, title, theme, author, slides, slide_count, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sh.ID, sh.Title, sh.Theme, sh.Author, string(data), sh.SlideCount, now.UnixMilli())
	if err != nil {
		return Share{}, fmt.Errorf("failed to insert share: %w", err)
	}
	return sh, nil
}

// GetShare returns a share and counts the view.
func (s *Store) GetShare(ctx context.Context, id string) (Share, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Share{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE shares SET views = views + 1 WHERE id = ?`, id)
	if err != nil {
		return Share{}, fmt.Errorf("failed to count view: %w", err)
	}
	if err := requireRow(res); err != nil {
		return Share{}, err
	}

	var (
		sh     Share
		slides string
		ms     int64
	)
	err = tx.QueryRowContext(ctx,
		`SELECT id, title, theme, author, slides, slide_count, views, created_at FROM shares WHERE id = ?`, id).
		Scan(&sh.ID, &sh.Title, &sh.Theme, &sh.Author, &slides, &sh.SlideCount, &sh.Views, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return Share{}, ErrNotFound
	}
	if err != nil {
		return Share{}, fmt.Errorf("failed to read share: %w", err)
	}
	if err := json.Unmarshal([]byte(slides), &sh.Slides); err != nil {
		return Share{}, fmt.Errorf("failed to parse slides of share %s: %w", id, err)
	}
	sh.CreatedAt = time.UnixMilli(ms)
	if err := tx.Commit(); err != nil {
		return Share{}, fmt.Errorf("failed to commit view: %w", err)
	}
	return sh, nil
}

// ListShares returns share metadata, newest first. Slides are not loaded.
func (s *Store) ListShares(ctx context.Context) ([]Share, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, theme, author, slide_count, views, created_at FROM shares ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query shares: %w", err)
	}
	defer rows.Close()
	shares := []Share{}
	for rows.Next() {
		var sh Share
		var ms int64
		if err := rows.Scan(&sh.ID, &sh.Title, &sh.Theme, &sh.Author, &sh.SlideCount, &sh.Views, &ms); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		sh.CreatedAt = time.UnixMilli(ms)
		shares = append(shares, sh)
	}
	return shares, rows.Err()
}

// ShareURL returns the public link of a share.
func ShareURL(origin, id string) string {
	return strings.TrimRight(origin, "/") + "/slideshow/" + id
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// newShareID returns base36(unix millis) followed by six random base36
// characters.
func newShareID(now time.Time) (string, error) {
	var suffix [6]byte
	radix := big.NewInt(int64(len(base36)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, radix)
		if err != nil {
			return "", fmt.Errorf("failed to generate share id: %w", err)
		}
		suffix[i] = base36[n.Int64()]
	}
	return strconv.FormatInt(now.UnixMilli(), 36) + "-" + string(suffix[:]), nil
}
