package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/okaniie/trackingstuff/internal/features/tracking/domain"

	"go.uber.org/zap"
)

// Diagnose runs a create, read, update and delete cycle against the store
// with a throwaway record. The record is removed even if a step fails.
func (s *TrackingService) Diagnose(ctx context.Context) (report *domain.DiagnosticReport, err error) {
	now := s.now()
	id := "TEST" + strconv.FormatInt(now.UnixMilli(), 10)
	report = &domain.DiagnosticReport{TrackingID: id}

	step := func(name string, fn func() error) error {
		start := time.Now()
		err := fn()
		result := domain.DiagnosticStep{Name: name, OK: err == nil, Duration: time.Since(start)}
		if err != nil {
			result.Error = err.Error()
		}
		report.Steps = append(report.Steps, result)
		return err
	}

	eta := now.Add(7 * 24 * time.Hour)
	record, recErr := domain.NewTrackingRecord(id, "Test Origin", "Test Destination",
		domain.StatusPackageReceived, "Test Location", now)
	if recErr != nil {
		return nil, recErr
	}
	record.EstimatedDelivery = &eta

	if stepErr := step("create", func() error { return s.store.Create(ctx, record) }); stepErr != nil {
		return report, fmt.Errorf("service: diagnostics create: %w", stepErr)
	}

	defer func() {
		delErr := step("delete", func() error { return s.store.Delete(context.WithoutCancel(ctx), id) })
		if delErr != nil {
			s.logger.Error("Failed to remove diagnostic record", zap.String("tracking_id", id), zap.Error(delErr))
			if err == nil {
				err = fmt.Errorf("service: diagnostics delete: %w", delErr)
			}
		}
		report.OK = allStepsOK(report.Steps)
	}()

	if stepErr := step("read", func() error {
		_, err := s.store.FindByID(ctx, id)
		return err
	}); stepErr != nil {
		return report, fmt.Errorf("service: diagnostics read: %w", stepErr)
	}

	if stepErr := step("update", func() error {
		entry, err := domain.NewHistoryEntry(domain.StatusInTransit, "New Test Location", s.now())
		if err != nil {
			return err
		}
		report.Record, err = s.store.AppendHistory(ctx, id, entry)
		return err
	}); stepErr != nil {
		return report, fmt.Errorf("service: diagnostics update: %w", stepErr)
	}

	return report, nil
}

func allStepsOK(steps []domain.DiagnosticStep) bool {
	for _, st := range steps {
		if !st.OK {
			return false
		}
	}
	return len(steps) > 0
}
