package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/locmux/internal/geo"
	"github.com/nerrad567/locmux/internal/monitor"
)

const (
	defaultRecentLimit = 50
	maxRecentLimit     = 200
)

// Logger defines the logging interface used by the journal package.
type Logger interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// FixRecord is a journalled position fix.
type FixRecord struct {
	ID         string       `json:"id"`
	RecordedAt time.Time    `json:"recorded_at"`
	Position   geo.Position `json:"position"`
}

// FailureRecord is a journalled fix failure.
type FailureRecord struct {
	ID         string    `json:"id"`
	RecordedAt time.Time `json:"recorded_at"`
	Message    string    `json:"message"`
}

// ConfigRecord is a journalled device configuration transition.
type ConfigRecord struct {
	ID                string    `json:"id"`
	RecordedAt        time.Time `json:"recorded_at"`
	Mode              string    `json:"mode"`
	DesiredPrecisionM float64   `json:"desired_precision_m"`
	DistanceFilterM   float64   `json:"distance_filter_m"`
}

// SQLiteJournal persists fixes, failures, and configuration changes to the
// fixes, failures, and config_changes tables.
//
// It implements monitor.Recorder. Recorder callbacks sit on the event path
// and must not fail it, so write errors there are logged and swallowed; use
// the Insert* methods directly when the caller wants the error.
type SQLiteJournal struct {
	db     *sql.DB
	logger Logger
	now    func() time.Time
}

// NewSQLiteJournal creates a journal writing to db. The schema is expected
// to exist already (applied by database migrations).
func NewSQLiteJournal(db *sql.DB) *SQLiteJournal {
	return &SQLiteJournal{
		db:     db,
		logger: noopLogger{},
		now:    time.Now,
	}
}

// SetLogger sets the logger used for swallowed Recorder errors.
func (j *SQLiteJournal) SetLogger(logger Logger) {
	j.logger = logger
}

// ─── monitor.Recorder ────────────────────────────────────────────────────────

// RecordFix journals a raw position fix. Errors are logged, not returned.
func (j *SQLiteJournal) RecordFix(ctx context.Context, pos geo.Position) {
	if err := j.InsertFix(ctx, pos); err != nil {
		j.logger.Error("journalling fix", "error", err)
	}
}

// RecordFailure journals a fix failure. Errors are logged, not returned.
func (j *SQLiteJournal) RecordFailure(ctx context.Context, failure error) {
	if err := j.InsertFailure(ctx, failure); err != nil {
		j.logger.Error("journalling failure", "error", err)
	}
}

// RecordConfig journals an applied device configuration. Errors are logged,
// not returned.
func (j *SQLiteJournal) RecordConfig(ctx context.Context, cfg monitor.DeviceConfig) {
	if err := j.InsertConfig(ctx, cfg); err != nil {
		j.logger.Error("journalling config change", "error", err)
	}
}

// ─── Writes ──────────────────────────────────────────────────────────────────

// InsertFix writes a position fix row.
func (j *SQLiteJournal) InsertFix(ctx context.Context, pos geo.Position) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO fixes (id, recorded_at, fix_time, latitude, longitude, altitude_m, accuracy_m)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		j.now().UTC().Format(time.RFC3339Nano),
		pos.Timestamp.UTC().Format(time.RFC3339Nano),
		pos.Latitude,
		pos.Longitude,
		pos.AltitudeM,
		pos.AccuracyM,
	)
	if err != nil {
		return fmt.Errorf("inserting fix: %w", err)
	}
	return nil
}

// InsertFailure writes a failure row.
func (j *SQLiteJournal) InsertFailure(ctx context.Context, failure error) error {
	msg := "unknown failure"
	if failure != nil {
		msg = failure.Error()
	}

	_, err := j.db.ExecContext(ctx,
		"INSERT INTO failures (id, recorded_at, message) VALUES (?, ?, ?)",
		uuid.NewString(),
		j.now().UTC().Format(time.RFC3339Nano),
		msg,
	)
	if err != nil {
		return fmt.Errorf("inserting failure: %w", err)
	}
	return nil
}

// InsertConfig writes a configuration transition row.
func (j *SQLiteJournal) InsertConfig(ctx context.Context, cfg monitor.DeviceConfig) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO config_changes (id, recorded_at, mode, desired_precision_m, distance_filter_m)
		 VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(),
		j.now().UTC().Format(time.RFC3339Nano),
		cfg.Mode.String(),
		cfg.DesiredPrecisionM,
		cfg.DistanceFilterM,
	)
	if err != nil {
		return fmt.Errorf("inserting config change: %w", err)
	}
	return nil
}

// ─── Queries ─────────────────────────────────────────────────────────────────

// RecentFixes returns journalled fixes ordered newest first.
//
// Limit defaults to 50 and is capped at 200.
func (j *SQLiteJournal) RecentFixes(ctx context.Context, limit int) ([]FixRecord, error) {
	limit = clampLimit(limit)

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, recorded_at, fix_time, latitude, longitude, altitude_m, accuracy_m
		 FROM fixes
		 ORDER BY recorded_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying fixes: %w", err)
	}
	defer rows.Close()

	records := make([]FixRecord, 0, limit)
	for rows.Next() {
		var rec FixRecord
		var recordedAt, fixTime string

		if err := rows.Scan(&rec.ID, &recordedAt, &fixTime,
			&rec.Position.Latitude, &rec.Position.Longitude,
			&rec.Position.AltitudeM, &rec.Position.AccuracyM); err != nil {
			return nil, fmt.Errorf("scanning fix: %w", err)
		}

		if rec.RecordedAt, err = parseTimestamp(recordedAt); err != nil {
			return nil, err
		}
		if rec.Position.Timestamp, err = parseTimestamp(fixTime); err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fixes: %w", err)
	}

	return records, nil
}

// RecentFailures returns journalled failures ordered newest first.
func (j *SQLiteJournal) RecentFailures(ctx context.Context, limit int) ([]FailureRecord, error) {
	limit = clampLimit(limit)

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, recorded_at, message
		 FROM failures
		 ORDER BY recorded_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying failures: %w", err)
	}
	defer rows.Close()

	records := make([]FailureRecord, 0, limit)
	for rows.Next() {
		var rec FailureRecord
		var recordedAt string

		if err := rows.Scan(&rec.ID, &recordedAt, &rec.Message); err != nil {
			return nil, fmt.Errorf("scanning failure: %w", err)
		}

		if rec.RecordedAt, err = parseTimestamp(recordedAt); err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating failures: %w", err)
	}

	return records, nil
}

// RecentConfigs returns journalled configuration transitions ordered
// newest first.
func (j *SQLiteJournal) RecentConfigs(ctx context.Context, limit int) ([]ConfigRecord, error) {
	limit = clampLimit(limit)

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, recorded_at, mode, desired_precision_m, distance_filter_m
		 FROM config_changes
		 ORDER BY recorded_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying config changes: %w", err)
	}
	defer rows.Close()

	records := make([]ConfigRecord, 0, limit)
	for rows.Next() {
		var rec ConfigRecord
		var recordedAt string

		if err := rows.Scan(&rec.ID, &recordedAt, &rec.Mode,
			&rec.DesiredPrecisionM, &rec.DistanceFilterM); err != nil {
			return nil, fmt.Errorf("scanning config change: %w", err)
		}

		if rec.RecordedAt, err = parseTimestamp(recordedAt); err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating config changes: %w", err)
	}

	return records, nil
}

// Prune deletes journal rows older than the given duration across all
// three tables. Returns the total number of rows deleted.
func (j *SQLiteJournal) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("olderThan must be positive")
	}

	cutoff := j.now().UTC().Add(-olderThan).Format(time.RFC3339Nano)

	var total int64
	for _, table := range []string{"fixes", "failures", "config_changes"} {
		result, err := j.db.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE recorded_at < ?", table), //nolint:gosec // table names are fixed above
			cutoff,
		)
		if err != nil {
			return total, fmt.Errorf("pruning %s: %w", table, err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("checking rows affected: %w", err)
		}
		total += rowsAffected
	}

	return total, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultRecentLimit
	}
	if limit > maxRecentLimit {
		return maxRecentLimit
	}
	return limit
}

// parseTimestamp parses a timestamp stored in SQLite.
func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("timestamp is empty")
	}

	timestamp, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp: %w", err)
	}

	return timestamp, nil
}
