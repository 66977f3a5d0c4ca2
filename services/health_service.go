package services

import (
	"context"
	"errors"
	"fmt"

	"foodlens/health"
	"foodlens/metrics"
	"foodlens/models"

	"github.com/sirupsen/logrus"
)

// ErrSaveFailed is returned together with a computed outcome when the
// result could not be stored.
var ErrSaveFailed = errors.New("health test result could not be saved")

type HealthOutcome struct {
	Result health.Result            `json:"result"`
	Saved  bool                     `json:"saved"`
	Record *models.HealthTestRecord `json:"record,omitempty"`
}

// HealthHistoryEntry is a stored record with its typed result, which is
// served alongside the row as "result".
type HealthHistoryEntry struct {
	models.HealthTestRecord
	Result health.Result `json:"result"`
}

type HealthService struct {
	records RecordStore
	bus     *EventBus
	log     *logrus.Entry
}

func NewHealthService(records RecordStore, bus *EventBus, log *logrus.Entry) *HealthService {
	return &HealthService{records: records, bus: bus, log: log.WithField("component", "health")}
}

// Run validates the input, computes the test and stores it for signed-in users.
func (s *HealthService) Run(ctx context.Context, userID uint, in health.Input) (*HealthOutcome, error) {
	if err := health.Validate(in); err != nil {
		if !health.IsNil(in) {
			metrics.IncHealthTestRejected(string(in.TestType()))
		}
		return nil, err
	}

	result := health.Compute(in)
	if err := health.CheckResult(result); err != nil {
		metrics.IncHealthTestRejected(string(result.TestType))
		return nil, err
	}
	metrics.IncHealthTest(string(result.TestType), result.ResultCategory)

	out := &HealthOutcome{Result: result}
	if userID == 0 {
		return out, nil
	}

	rec, err := s.records.SaveHealthTest(ctx, userID, result)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("failed to save health test")
		return out, fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	out.Saved = true
	out.Record = rec
	s.bus.Publish(Event{Kind: EventHealthTestCreated, UserID: userID, Payload: rec})
	return out, nil
}

// History lists stored tests, newest first. Records whose data no longer
// decodes are skipped.
func (s *HealthService) History(ctx context.Context, userID uint, testType health.TestType) ([]HealthHistoryEntry, error) {
	rows, err := s.records.ListHealthTests(ctx, userID, testType)
	if err != nil {
		return nil, err
	}

	out := make([]HealthHistoryEntry, 0, len(rows))
	for _, rec := range rows {
		r, err := RecordResult(rec)
		if err != nil {
			s.log.WithError(err).WithField("record_id", rec.ID).Warn("skip undecodable health test")
			continue
		}
		out = append(out, HealthHistoryEntry{HealthTestRecord: rec, Result: r})
	}
	return out, nil
}

func (s *HealthService) Delete(ctx context.Context, userID, id uint) error {
	if err := s.records.DeleteHealthTest(ctx, userID, id); err != nil {
		return err
	}
	s.bus.Publish(Event{Kind: EventHealthTestDeleted, UserID: userID, Payload: map[string]uint{"id": id}})
	return nil
}
