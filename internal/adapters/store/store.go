// Package store persists completed playlist analyses to SQLite, backing
// the history and leaderboard endpoints.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/okian/clout/internal/domain/model"
)

// Analysis is one persisted playlist analysis result.
type Analysis struct {
	ID              string    `db:"id" json:"id"`
	PlaylistID      string    `db:"playlist_id" json:"playlistId"`
	PlaylistName    string    `db:"playlist_name" json:"playlistName"`
	TrackCount      int       `db:"track_count" json:"trackCount"`
	SkippedTracks   int       `db:"skipped_tracks" json:"skippedTracks"`
	TotalScore      int       `db:"total_score" json:"totalClout"`
	AverageScore    float64   `db:"average_score" json:"averageClout"`
	NormalizedScore float64   `db:"normalized_score" json:"normalizedScore"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

// Store is the persistence interface for analysis history.
type Store interface {
	SaveAnalysis(ctx context.Context, playlistID string, summary model.PlaylistSummary) (Analysis, error)
	Recent(ctx context.Context, limit int) ([]Analysis, error)
	TopByNormalized(ctx context.Context, limit int) ([]Analysis, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens the SQLite database at path and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveAnalysis records a completed analysis and returns the stored row.
func (s *SQLiteStore) SaveAnalysis(ctx context.Context, playlistID string, summary model.PlaylistSummary) (Analysis, error) {
	rec := Analysis{
		ID:              uuid.NewString(),
		PlaylistID:      playlistID,
		PlaylistName:    summary.PlaylistName,
		TrackCount:      summary.TrackCount,
		SkippedTracks:   summary.SkippedTracks,
		TotalScore:      summary.TotalScore,
		AverageScore:    summary.AverageScore,
		NormalizedScore: summary.NormalizedScore,
		CreatedAt:       time.Now().UTC(),
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO analyses (id, playlist_id, playlist_name, track_count, skipped_tracks, total_score, average_score, normalized_score, created_at)
		VALUES (:id, :playlist_id, :playlist_name, :track_count, :skipped_tracks, :total_score, :average_score, :normalized_score, :created_at)
	`, rec)
	if err != nil {
		return Analysis{}, fmt.Errorf("save analysis %s: %w", playlistID, err)
	}
	return rec, nil
}

// Recent lists analyses newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []Analysis
	err := s.db.SelectContext(ctx, &out,
		"SELECT * FROM analyses ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list recent analyses: %w", err)
	}
	return out, nil
}

// TopByNormalized ranks analyses by size-normalized clout, keeping only
// the best row per playlist.
func (s *SQLiteStore) TopByNormalized(ctx context.Context, limit int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []Analysis
	err := s.db.SelectContext(ctx, &out, `
		SELECT * FROM analyses
		WHERE id IN (
			SELECT id FROM analyses a
			WHERE normalized_score = (
				SELECT MAX(normalized_score) FROM analyses WHERE playlist_id = a.playlist_id
			)
			GROUP BY playlist_id
		)
		ORDER BY normalized_score DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list top analyses: %w", err)
	}
	return out, nil
}

// Count returns the number of stored analyses.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM analyses"); err != nil {
		return 0, fmt.Errorf("count analyses: %w", err)
	}
	return n, nil
}
