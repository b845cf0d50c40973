package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/okaniie/trackingstuff/internal/core/logger"
	"github.com/okaniie/trackingstuff/internal/features/tracking/domain"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// PostgresStore implements ports.RecordStore on PostgreSQL.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresStore connects to databaseURL and applies migrations.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, classifyPostgresError("ping", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	if err := runMigrations(ctx, db, "postgres", "migrations/postgres"); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	return &PostgresStore{pool: pool, logger: logger.Named("postgres_store")}, nil
}

const pgRecordColumns = `tracking_id, origin, destination, status, location, progress, estimated_delivery, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, record *domain.TrackingRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return classifyPostgresError("begin create", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx,
		`INSERT INTO trackings (`+pgRecordColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		record.TrackingID, record.Origin, record.Destination, string(record.Status), record.Location,
		record.Progress, record.EstimatedDelivery, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return classifyPostgresError("insert tracking", err)
	}

	batch := &pgx.Batch{}
	for i, entry := range record.History {
		batch.Queue(
			`INSERT INTO tracking_history (tracking_id, seq, recorded_at, status, location) VALUES ($1, $2, $3, $4, $5)`,
			record.TrackingID, i, entry.Date, string(entry.Status), entry.Location,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return classifyPostgresError("insert history", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return classifyPostgresCommitError("commit create", err)
	}

	s.logger.Debug("Tracking created", zap.String("tracking_id", record.TrackingID))
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, trackingID string) (*domain.TrackingRecord, error) {
	record, err := scanPostgresRecord(s.pool.QueryRow(ctx,
		`SELECT `+pgRecordColumns+` FROM trackings WHERE tracking_id = $1`, trackingID))
	if err != nil {
		return nil, err
	}

	history, err := loadPostgresHistory(ctx, s.pool, trackingID)
	if err != nil {
		return nil, err
	}
	record.History = history

	return record, nil
}

func (s *PostgresStore) AppendHistory(ctx context.Context, trackingID string, entry domain.HistoryEntry) (*domain.TrackingRecord, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, classifyPostgresError("begin append", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	record, err := scanPostgresRecord(tx.QueryRow(ctx,
		`SELECT `+pgRecordColumns+` FROM trackings WHERE tracking_id = $1 FOR UPDATE`, trackingID))
	if err != nil {
		return nil, err
	}

	history, err := loadPostgresHistory(ctx, tx, trackingID)
	if err != nil {
		return nil, err
	}
	record.History = history
	record.Append(entry)

	_, err = tx.Exec(ctx,
		`INSERT INTO tracking_history (tracking_id, seq, recorded_at, status, location) VALUES ($1, $2, $3, $4, $5)`,
		trackingID, len(history), entry.Date, string(entry.Status), entry.Location,
	)
	if err != nil {
		return nil, classifyPostgresError("insert history", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE trackings SET status = $1, location = $2, progress = $3, updated_at = $4 WHERE tracking_id = $5`,
		string(record.Status), record.Location, record.Progress, record.UpdatedAt, trackingID,
	)
	if err != nil {
		return nil, classifyPostgresError("update tracking", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, classifyPostgresCommitError("commit append", err)
	}

	return record, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]domain.TrackingRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+pgRecordColumns+` FROM trackings ORDER BY created_at, tracking_id`)
	if err != nil {
		return nil, classifyPostgresError("list trackings", err)
	}

	var records []domain.TrackingRecord
	index := make(map[string]int)
	for rows.Next() {
		record, err := scanPostgresRecord(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		index[record.TrackingID] = len(records)
		records = append(records, *record)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, classifyPostgresError("list trackings", err)
	}

	historyRows, err := s.pool.Query(ctx,
		`SELECT tracking_id, recorded_at, status, location FROM tracking_history ORDER BY tracking_id, seq`)
	if err != nil {
		return nil, classifyPostgresError("list history", err)
	}
	defer historyRows.Close()

	for historyRows.Next() {
		var id, status string
		var entry domain.HistoryEntry
		if err := historyRows.Scan(&id, &entry.Date, &status, &entry.Location); err != nil {
			return nil, classifyPostgresError("scan history", err)
		}
		entry.Status = domain.Status(status)
		if i, ok := index[id]; ok {
			records[i].History = append(records[i].History, entry)
		}
	}
	if err := historyRows.Err(); err != nil {
		return nil, classifyPostgresError("list history", err)
	}

	return records, nil
}

func (s *PostgresStore) Delete(ctx context.Context, trackingID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM trackings WHERE tracking_id = $1`, trackingID)
	if err != nil {
		return classifyPostgresCommitError("delete tracking", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("postgres: delete %q: %w", trackingID, domain.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return classifyPostgresError("ping", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

type pgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func loadPostgresHistory(ctx context.Context, q pgQuerier, trackingID string) ([]domain.HistoryEntry, error) {
	rows, err := q.Query(ctx,
		`SELECT recorded_at, status, location FROM tracking_history WHERE tracking_id = $1 ORDER BY seq`,
		trackingID)
	if err != nil {
		return nil, classifyPostgresError("load history", err)
	}
	defer rows.Close()

	history := make([]domain.HistoryEntry, 0)
	for rows.Next() {
		var entry domain.HistoryEntry
		var status string
		if err := rows.Scan(&entry.Date, &status, &entry.Location); err != nil {
			return nil, classifyPostgresError("scan history", err)
		}
		entry.Status = domain.Status(status)
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyPostgresError("load history", err)
	}
	return history, nil
}

func scanPostgresRecord(row pgx.Row) (*domain.TrackingRecord, error) {
	var record domain.TrackingRecord
	var status string
	err := row.Scan(&record.TrackingID, &record.Origin, &record.Destination, &status, &record.Location,
		&record.Progress, &record.EstimatedDelivery, &record.CreatedAt, &record.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("postgres: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, classifyPostgresError("scan tracking", err)
	}
	record.Status = domain.Status(status)
	return &record, nil
}

// classifyPostgresError maps pgx errors onto domain sentinels.
func classifyPostgresError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("postgres: %s: %w", op, domain.ErrConflict)
		case pgerrcode.SerializationFailure,
			pgerrcode.DeadlockDetected,
			pgerrcode.AdminShutdown,
			pgerrcode.CannotConnectNow,
			pgerrcode.TooManyConnections:
			return fmt.Errorf("postgres: %s: %w: %v", op, domain.ErrTransientStore, err)
		}
		return fmt.Errorf("postgres: %s: %w", op, err)
	}

	var connectErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connectErr) || errors.As(err, &netErr) || pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return fmt.Errorf("postgres: %s: %w: %v", op, domain.ErrTransientStore, err)
	}

	return fmt.Errorf("postgres: %s: %w", op, err)
}

// classifyPostgresCommitError classifies a failed commit. A server error
// means the transaction was rolled back; a lost connection leaves the outcome
// unknown, and only requests that never reached the server are safe to replay.
func classifyPostgresCommitError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) || pgconn.SafeToRetry(err) {
		return classifyPostgresError(op, err)
	}
	return fmt.Errorf("postgres: %s: outcome unknown: %w", op, err)
}
