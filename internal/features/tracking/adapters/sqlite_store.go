package adapter

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okaniie/trackingstuff/internal/core/logger"
	"github.com/okaniie/trackingstuff/internal/features/tracking/domain"

	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteStore implements ports.RecordStore on an embedded SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens (or creates) the database at path and applies migrations.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	// One writer at a time; SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, classifySQLiteError("ping", err)
	}

	if err := runMigrations(ctx, db, "sqlite3", "migrations/sqlite"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: %w", err)
	}

	return newSQLiteStore(db), nil
}

func newSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, logger: logger.Named("sqlite_store")}
}

const sqliteRecordColumns = `tracking_id, origin, destination, status, location, progress, estimated_delivery, created_at, updated_at`

func (s *SQLiteStore) Create(ctx context.Context, record *domain.TrackingRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classifySQLiteError("begin create", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trackings (`+sqliteRecordColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.TrackingID, record.Origin, record.Destination, string(record.Status), record.Location,
		record.Progress, formatOptionalTime(record.EstimatedDelivery),
		formatTime(record.CreatedAt), formatTime(record.UpdatedAt),
	)
	if err != nil {
		return classifySQLiteError("insert tracking", err)
	}

	for i, entry := range record.History {
		if err := insertSQLiteHistory(ctx, tx, record.TrackingID, i, entry); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return classifySQLiteCommitError("commit create", err)
	}

	s.logger.Debug("Tracking created", zap.String("tracking_id", record.TrackingID))
	return nil
}

func (s *SQLiteStore) FindByID(ctx context.Context, trackingID string) (*domain.TrackingRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteRecordColumns+` FROM trackings WHERE tracking_id = ?`, trackingID)
	record, err := scanSQLiteRecord(row)
	if err != nil {
		return nil, err
	}

	history, err := s.loadHistory(ctx, s.db, trackingID)
	if err != nil {
		return nil, err
	}
	record.History = history

	return record, nil
}

func (s *SQLiteStore) AppendHistory(ctx context.Context, trackingID string, entry domain.HistoryEntry) (*domain.TrackingRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classifySQLiteError("begin append", err)
	}
	defer tx.Rollback() //nolint:errcheck

	row := tx.QueryRowContext(ctx,
		`SELECT `+sqliteRecordColumns+` FROM trackings WHERE tracking_id = ?`, trackingID)
	record, err := scanSQLiteRecord(row)
	if err != nil {
		return nil, err
	}

	history, err := s.loadHistory(ctx, tx, trackingID)
	if err != nil {
		return nil, err
	}
	record.History = history
	record.Append(entry)

	if err := insertSQLiteHistory(ctx, tx, trackingID, len(history), entry); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE trackings SET status = ?, location = ?, progress = ?, updated_at = ? WHERE tracking_id = ?`,
		string(record.Status), record.Location, record.Progress, formatTime(record.UpdatedAt), trackingID,
	)
	if err != nil {
		return nil, classifySQLiteError("update tracking", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, classifySQLiteCommitError("commit append", err)
	}

	return record, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]domain.TrackingRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteRecordColumns+` FROM trackings ORDER BY created_at, tracking_id`)
	if err != nil {
		return nil, classifySQLiteError("list trackings", err)
	}
	defer rows.Close()

	var records []domain.TrackingRecord
	index := make(map[string]int)
	for rows.Next() {
		record, err := scanSQLiteRecord(rows)
		if err != nil {
			return nil, err
		}
		index[record.TrackingID] = len(records)
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, classifySQLiteError("list trackings", err)
	}

	historyRows, err := s.db.QueryContext(ctx,
		`SELECT tracking_id, recorded_at, status, location FROM tracking_history ORDER BY tracking_id, seq`)
	if err != nil {
		return nil, classifySQLiteError("list history", err)
	}
	defer historyRows.Close()

	for historyRows.Next() {
		var id string
		entry, err := scanSQLiteHistory(historyRows, &id)
		if err != nil {
			return nil, err
		}
		if i, ok := index[id]; ok {
			records[i].History = append(records[i].History, entry)
		}
	}
	if err := historyRows.Err(); err != nil {
		return nil, classifySQLiteError("list history", err)
	}

	return records, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, trackingID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classifySQLiteError("begin delete", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM tracking_history WHERE tracking_id = ?`, trackingID); err != nil {
		return classifySQLiteError("delete history", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM trackings WHERE tracking_id = ?`, trackingID)
	if err != nil {
		return classifySQLiteError("delete tracking", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("sqlite: delete %q: %w", trackingID, domain.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return classifySQLiteCommitError("commit delete", err)
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return classifySQLiteError("ping", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type sqlQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SQLiteStore) loadHistory(ctx context.Context, q sqlQuerier, trackingID string) ([]domain.HistoryEntry, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT tracking_id, recorded_at, status, location FROM tracking_history WHERE tracking_id = ? ORDER BY seq`,
		trackingID)
	if err != nil {
		return nil, classifySQLiteError("load history", err)
	}
	defer rows.Close()

	history := make([]domain.HistoryEntry, 0)
	for rows.Next() {
		var id string
		entry, err := scanSQLiteHistory(rows, &id)
		if err != nil {
			return nil, err
		}
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, classifySQLiteError("load history", err)
	}
	return history, nil
}

func insertSQLiteHistory(ctx context.Context, tx *sql.Tx, trackingID string, seq int, entry domain.HistoryEntry) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO tracking_history (tracking_id, seq, recorded_at, status, location) VALUES (?, ?, ?, ?, ?)`,
		trackingID, seq, formatTime(entry.Date), string(entry.Status), entry.Location,
	)
	if err != nil {
		return classifySQLiteError("insert history", err)
	}
	return nil
}

func scanSQLiteRecord(row rowScanner) (*domain.TrackingRecord, error) {
	var record domain.TrackingRecord
	var status, createdAt, updatedAt string
	var estimated sql.NullString
	err := row.Scan(&record.TrackingID, &record.Origin, &record.Destination, &status, &record.Location,
		&record.Progress, &estimated, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sqlite: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, classifySQLiteError("scan tracking", err)
	}
	record.Status = domain.Status(status)

	if record.CreatedAt, err = domain.ParseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("sqlite: tracking %q created_at: %w", record.TrackingID, err)
	}
	if record.UpdatedAt, err = domain.ParseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("sqlite: tracking %q updated_at: %w", record.TrackingID, err)
	}
	if estimated.Valid && estimated.String != "" {
		t, err := domain.ParseTimestamp(estimated.String)
		if err != nil {
			return nil, fmt.Errorf("sqlite: tracking %q estimated_delivery: %w", record.TrackingID, err)
		}
		record.EstimatedDelivery = &t
	}

	return &record, nil
}

func scanSQLiteHistory(row rowScanner, trackingID *string) (domain.HistoryEntry, error) {
	var entry domain.HistoryEntry
	var recordedAt, status string
	if err := row.Scan(trackingID, &recordedAt, &status, &entry.Location); err != nil {
		return domain.HistoryEntry{}, classifySQLiteError("scan history", err)
	}
	date, err := domain.ParseTimestamp(recordedAt)
	if err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("sqlite: history of %q: %w", *trackingID, err)
	}
	entry.Date = date
	entry.Status = domain.Status(status)
	return entry, nil
}

// storedTimeLayout has fixed-width fractions so stored text sorts chronologically.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

func formatOptionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

// classifySQLiteError maps driver errors onto domain sentinels.
func classifySQLiteError(op string, err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		switch {
		case code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return fmt.Errorf("sqlite: %s: %w", op, domain.ErrConflict)
		case code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed"):
			return fmt.Errorf("sqlite: %s: %w", op, domain.ErrConflict)
		case code&0xff == sqlite3.SQLITE_BUSY || code&0xff == sqlite3.SQLITE_LOCKED:
			return fmt.Errorf("sqlite: %s: %w: %v", op, domain.ErrTransientStore, err)
		}
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("sqlite: %s: %w: %v", op, domain.ErrTransientStore, err)
	}

	return fmt.Errorf("sqlite: %s: %w", op, err)
}

// classifySQLiteCommitError keeps BUSY and LOCKED retryable, since SQLite
// rolls the commit back on them. A connection lost during commit is not.
func classifySQLiteCommitError(op string, err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return classifySQLiteError(op, err)
	}
	return fmt.Errorf("sqlite: %s: outcome unknown: %w", op, err)
}
