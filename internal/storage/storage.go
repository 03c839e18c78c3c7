// Package storage persists rendered reports so past renders can be revisited
// and listed. The engine never reads these rows back into scoring; history
// is display-only.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/safestreets/livability-report/internal/report"
)

// DB wraps the sqlite handle with prepared statements.
type DB struct {
	*sql.DB
	insertStmt *sql.Stmt
	getStmt    *sql.Stmt
	listStmt   *sql.Stmt
}

// ReportSummary is one row of the history listing.
type ReportSummary struct {
	ID             string    `json:"id"`
	LocationLabel  string    `json:"location_label"`
	CompositeScore int       `json:"composite_score"`
	Grade          string    `json:"grade"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// New opens (or creates) the report history database under dataDir.
func New(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "reports.db")
	sqlDB, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	db := &DB{DB: sqlDB}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	if err := db.prepare(); err != nil {
		sqlDB.Close()
		return nil, err
	}

	slog.Info("Report history database ready", "path", dbPath)
	return db, nil
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id              TEXT PRIMARY KEY,
		location_label  TEXT NOT NULL,
		composite_score INTEGER NOT NULL,
		grade           TEXT NOT NULL,
		generated_at    TIMESTAMP NOT NULL,
		payload         TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reports_generated_at ON reports(generated_at DESC);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (db *DB) prepare() error {
	var err error

	db.insertStmt, err = db.Prepare(`
		INSERT INTO reports (id, location_label, composite_score, grade, generated_at, payload)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}

	db.getStmt, err = db.Prepare(`SELECT payload FROM reports WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare get: %w", err)
	}

	db.listStmt, err = db.Prepare(`
		SELECT id, location_label, composite_score, grade, generated_at
		FROM reports ORDER BY generated_at DESC LIMIT ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare list: %w", err)
	}

	return nil
}

// SaveReport persists one rendered report.
func (db *DB) SaveReport(r *report.Report) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	_, err = db.insertStmt.Exec(
		r.ID,
		r.Location.Label,
		r.Composite.Score,
		r.Composite.Band.Grade,
		r.GeneratedAt.UTC(),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", r.ID, err)
	}
	return nil
}

// GetReport loads one rendered report by ID. Returns sql.ErrNoRows when the
// ID is unknown.
func (db *DB) GetReport(id string) (*report.Report, error) {
	var payload string
	if err := db.getStmt.QueryRow(id).Scan(&payload); err != nil {
		return nil, err
	}

	var r report.Report
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", id, err)
	}
	return &r, nil
}

// ListRecent returns the newest report summaries, most recent first.
func (db *DB) ListRecent(limit int) ([]ReportSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.listStmt.Query(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	summaries := []ReportSummary{}
	for rows.Next() {
		var s ReportSummary
		if err := rows.Scan(&s.ID, &s.LocationLabel, &s.CompositeScore, &s.Grade, &s.GeneratedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// Close closes prepared statements and the underlying handle.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{db.insertStmt, db.getStmt, db.listStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return db.DB.Close()
}
