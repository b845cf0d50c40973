package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okaniie/trackingstuff/internal/core/logger"
	"github.com/okaniie/trackingstuff/internal/features/tracking/domain"
	"github.com/okaniie/trackingstuff/internal/features/tracking/ports"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// RetryingStore retries store calls that fail with domain.ErrTransientStore.
// Every other error is returned on the first attempt. An attempt timeout is
// retried only for reads; a write cut off by the timeout may already be
// committed, so it is reported as is.
type RetryingStore struct {
	next     ports.RecordStore
	attempts int
	delay    time.Duration
	timeout  time.Duration
	logger   *zap.Logger
}

// NewRetryingStore wraps next. attempts counts the first call; timeout bounds
// each attempt and is disabled when zero.
func NewRetryingStore(next ports.RecordStore, attempts int, delay, timeout time.Duration) *RetryingStore {
	if attempts < 1 {
		attempts = 1
	}
	if delay <= 0 {
		delay = time.Millisecond
	}
	return &RetryingStore{
		next:     next,
		attempts: attempts,
		delay:    delay,
		timeout:  timeout,
		logger:   logger.Named("store_retry"),
	}
}

func (s *RetryingStore) do(ctx context.Context, op string, idempotent bool, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(uint64(s.attempts-1), retry.NewConstant(s.delay))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		callCtx := ctx
		if s.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}

		err := fn(callCtx)
		if err != nil && ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			switch {
			case !idempotent:
				return fmt.Errorf("%s timed out after %s, outcome unknown: %w", op, s.timeout, stripTransient(err))
			case !errors.Is(err, domain.ErrTransientStore):
				err = fmt.Errorf("%w: %s timed out after %s: %v", domain.ErrTransientStore, op, s.timeout, err)
			}
		}

		if errors.Is(err, domain.ErrTransientStore) {
			s.logger.Warn("Store call failed, retrying",
				zap.String("op", op),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", s.attempts),
				zap.Error(err),
			)
			return retry.RetryableError(err)
		}
		return err
	})
}

func (s *RetryingStore) Create(ctx context.Context, record *domain.TrackingRecord) error {
	return s.do(ctx, "create", false, func(ctx context.Context) error {
		return s.next.Create(ctx, record)
	})
}

func (s *RetryingStore) FindByID(ctx context.Context, trackingID string) (*domain.TrackingRecord, error) {
	var record *domain.TrackingRecord
	err := s.do(ctx, "find", true, func(ctx context.Context) error {
		var err error
		record, err = s.next.FindByID(ctx, trackingID)
		return err
	})
	return record, err
}

// AppendHistory is retried only on failures the stores report as transient.
// Those happen before commit, so a retry never appends the entry twice.
func (s *RetryingStore) AppendHistory(ctx context.Context, trackingID string, entry domain.HistoryEntry) (*domain.TrackingRecord, error) {
	var record *domain.TrackingRecord
	err := s.do(ctx, "append", false, func(ctx context.Context) error {
		var err error
		record, err = s.next.AppendHistory(ctx, trackingID, entry)
		return err
	})
	return record, err
}

func (s *RetryingStore) List(ctx context.Context) ([]domain.TrackingRecord, error) {
	var records []domain.TrackingRecord
	err := s.do(ctx, "list", true, func(ctx context.Context) error {
		var err error
		records, err = s.next.List(ctx)
		return err
	})
	return records, err
}

func (s *RetryingStore) Delete(ctx context.Context, trackingID string) error {
	return s.do(ctx, "delete", false, func(ctx context.Context) error {
		return s.next.Delete(ctx, trackingID)
	})
}

func (s *RetryingStore) Ping(ctx context.Context) error {
	return s.do(ctx, "ping", true, s.next.Ping)
}

func (s *RetryingStore) Close() error {
	return s.next.Close()
}

// stripTransient hides domain.ErrTransientStore so the error is not retried
// further up the stack.
func stripTransient(err error) error {
	if errors.Is(err, domain.ErrTransientStore) {
		return errors.New(err.Error())
	}
	return err
}
