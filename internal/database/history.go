package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/picgrab/internal/model"
)

// FileName is the database file created inside the database directory.
const FileName = "picgrab.db"

// HistoryDB stores crawl runs and download attempts in SQLite.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
// With CreateIfNotExists false a missing database is an error, which is
// what read-only commands such as "history" want.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s: %w", dbPath, err)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{db: db, dbPath: dbPath}

	if _, err := db.ExecContext(context.Background(), "PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return hdb, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

func (h *HistoryDB) createTables() error {
	schema := `
	-- One row per crawl run; report_json holds the final RunReport
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		seeds TEXT NOT NULL,
		state TEXT NOT NULL,
		report_json TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- One row per download attempt
	CREATE TABLE IF NOT EXISTS downloads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		url TEXT NOT NULL,
		filename TEXT,
		outcome TEXT NOT NULL,
		status_code INTEGER,
		bytes INTEGER,
		camera_model TEXT,
		taken_at TEXT,
		error TEXT,
		timestamp TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_downloads_run ON downloads(run_id);
	CREATE INDEX IF NOT EXISTS idx_downloads_filename ON downloads(filename);
	`
	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// StartRun inserts a run row and stores its id in report.ID.
func (h *HistoryDB) StartRun(ctx context.Context, report *model.RunReport) error {
	seeds, err := json.Marshal(report.Seeds)
	if err != nil {
		return fmt.Errorf("failed to serialize seeds: %w", err)
	}

	result, err := h.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, seeds, state) VALUES (?, ?, ?)`,
		formatTimestamp(report.StartedAt), string(seeds), report.State,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read run id: %w", err)
	}
	report.ID = id
	return nil
}

// RecordDownload inserts one download attempt.
func (h *HistoryDB) RecordDownload(ctx context.Context, rec *model.DownloadRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	result, err := h.db.ExecContext(ctx, `
	INSERT INTO downloads (run_id, url, filename, outcome, status_code, bytes, camera_model, taken_at, error, timestamp)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.RunID,
		rec.URL,
		rec.Filename,
		rec.Outcome,
		rec.StatusCode,
		rec.Bytes,
		rec.CameraModel,
		rec.TakenAt,
		rec.Error,
		formatTimestamp(rec.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("failed to insert download record: %w", err)
	}
	rec.ID, err = result.LastInsertId()
	return err
}

// FinishRun stores the final state and report of a run.
func (h *HistoryDB) FinishRun(ctx context.Context, report *model.RunReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	result, err := h.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, state = ?, report_json = ? WHERE id = ?`,
		formatTimestamp(report.FinishedAt), report.State, string(reportJSON), report.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %d not found", report.ID)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
// A limit of zero or less returns all runs.
func (h *HistoryDB) ListRuns(ctx context.Context, limit int) ([]*model.RunReport, error) {
	query := `SELECT id, started_at, finished_at, seeds, state, report_json FROM runs ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*model.RunReport
	for rows.Next() {
		report, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, report)
	}
	return runs, rows.Err()
}

// GetRun returns one run, or nil if it does not exist.
func (h *HistoryDB) GetRun(ctx context.Context, id int64) (*model.RunReport, error) {
	row := h.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, seeds, state, report_json FROM runs WHERE id = ?`, id)
	report, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return report, err
}

// ListDownloads returns the download attempts of a run in insertion order.
func (h *HistoryDB) ListDownloads(ctx context.Context, runID int64) ([]*model.DownloadRecord, error) {
	rows, err := h.db.QueryContext(ctx, `
	SELECT id, run_id, url, filename, outcome, status_code, bytes, camera_model, taken_at, error, timestamp
	FROM downloads
	WHERE run_id = ?
	ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query downloads: %w", err)
	}
	defer rows.Close()

	var records []*model.DownloadRecord
	for rows.Next() {
		var rec model.DownloadRecord
		var filename, cameraModel, takenAt, errText sql.NullString
		var statusCode, size sql.NullInt64
		var timestamp string

		if err := rows.Scan(
			&rec.ID,
			&rec.RunID,
			&rec.URL,
			&filename,
			&rec.Outcome,
			&statusCode,
			&size,
			&cameraModel,
			&takenAt,
			&errText,
			&timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan download: %w", err)
		}
		rec.Filename = filename.String
		rec.StatusCode = int(statusCode.Int64)
		rec.Bytes = size.Int64
		rec.CameraModel = cameraModel.String
		rec.TakenAt = takenAt.String
		rec.Error = errText.String
		rec.Timestamp = parseTimestamp(timestamp)
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// HasWritten reports whether any run wrote a file named filename.
func (h *HistoryDB) HasWritten(ctx context.Context, filename string) (bool, error) {
	var count int
	err := h.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM downloads WHERE filename = ? AND outcome = ?`,
		filename, model.OutcomeWritten,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query downloads: %w", err)
	}
	return count > 0, nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.RunReport, error) {
	var (
		id         int64
		startedAt  string
		finishedAt sql.NullString
		seedsJSON  string
		state      string
		reportJSON sql.NullString
	)
	if err := row.Scan(&id, &startedAt, &finishedAt, &seedsJSON, &state, &reportJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	report := &model.RunReport{}
	if reportJSON.Valid && reportJSON.String != "" {
		if err := json.Unmarshal([]byte(reportJSON.String), report); err != nil {
			return nil, fmt.Errorf("failed to parse report of run %d: %w", id, err)
		}
	} else if err := json.Unmarshal([]byte(seedsJSON), &report.Seeds); err != nil {
		return nil, fmt.Errorf("failed to parse seeds of run %d: %w", id, err)
	}

	report.ID = id
	report.State = state
	report.StartedAt = parseTimestamp(startedAt)
	if finishedAt.Valid {
		report.FinishedAt = parseTimestamp(finishedAt.String)
	}
	return report, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp parses a stored timestamp, returning the zero time for
// unknown formats.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
