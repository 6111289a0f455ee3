package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"sip-calculator/domain"
	"sip-calculator/events"
	"sip-calculator/logging"
	"sip-calculator/repository"
)

type SIPService struct {
	repo            repository.HistoryRepository
	cache           repository.CacheRepository
	publisher       events.Publisher
	inflationPoints float64
	now             func() time.Time

	inflight singleflight.Group
}

type Option func(*SIPService)

// WithInflationPoints sets how many percentage points are taken off the
// annual rate when a request asks for inflation adjustment.
func WithInflationPoints(points float64) Option {
	return func(s *SIPService) { s.inflationPoints = points }
}

func WithClock(now func() time.Time) Option {
	return func(s *SIPService) { s.now = now }
}

// NewSIPService creates a new SIPService. A nil publisher disables events.
func NewSIPService(
	repo repository.HistoryRepository,
	cache repository.CacheRepository,
	publisher events.Publisher,
	opts ...Option,
) *SIPService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	s := &SIPService{
		repo:            repo,
		cache:           cache,
		publisher:       publisher,
		inflationPoints: DefaultInflationPoints,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SIPService) logger(ctx context.Context) *logging.Logger {
	return logging.FromContext(ctx).WithComponent(logging.ComponentService)
}

// prepare enforces the service limits and applies the inflation adjustment.
// Positivity and frequency are left to the engine.
func (s *SIPService) prepare(req domain.CalculationRequest) (domain.ProjectionInput, error) {
	input := req.Input

	if input.ContributionAmount > MaxContributionAmount {
		return input, domain.NewValidationError(FieldContributionAmount, domain.ReasonTooLarge)
	}
	if input.AnnualRatePercent > MaxAnnualRatePercent {
		return input, domain.NewValidationError(FieldAnnualRatePercent, domain.ReasonTooLarge)
	}
	if input.DurationYears > MaxDurationYears {
		return input, domain.NewValidationError(FieldDurationYears, domain.ReasonTooLarge)
	}

	if input.CompoundingFrequency == "" {
		input.CompoundingFrequency = domain.FrequencyMonthly
	}
	if req.InflationAdjust && input.AnnualRatePercent > 0 {
		input.AnnualRatePercent -= s.inflationPoints
	}

	return input, nil
}

// Calculate projects the request, records it in the history and announces
// it. History and event failures are logged and do not fail the call.
func (s *SIPService) Calculate(
	ctx context.Context,
	req domain.CalculationRequest,
) (domain.ProjectionResult, error) {

	input, err := s.prepare(req)
	if err != nil {
		return domain.ProjectionResult{}, err
	}

	result, cacheHit, err := s.project(ctx, input)
	if err != nil {
		return domain.ProjectionResult{}, err
	}

	entry := domain.HistoryEntry{
		ID:                uuid.NewString(),
		CreatedAt:         s.now().UTC(),
		Input:             input,
		InflationAdjusted: req.InflationAdjust,
		Result:            result,
	}

	log := s.logger(ctx)
	log.DebugContext(ctx, "Projection calculated",
		logging.FieldHistoryID, entry.ID,
		logging.FieldFrequency, string(input.CompoundingFrequency),
		logging.FieldDurationYears, input.DurationYears,
		logging.FieldInflation, req.InflationAdjust,
		logging.FieldCacheHit, cacheHit)

	// Guardar el resultado (no crítico si falla)
	if err := s.repo.Save(ctx, entry); err != nil {
		log.WarnContext(ctx, "Failed to save calculation history",
			logging.NewFields().WithOperation(logging.OpSave).WithError(err).ToSlice()...)
	}
	if err := s.publisher.PublishProjection(ctx, events.NewProjectionCalculatedMessage(entry)); err != nil {
		log.WarnContext(ctx, "Failed to publish projection event",
			logging.NewFields().WithOperation(logging.OpPublish).WithError(err).ToSlice()...)
	}

	if req.IncludeSchedule {
		schedule, err := Schedule(input)
		if err != nil {
			return domain.ProjectionResult{}, err
		}
		result.Schedule = schedule
	}

	return result, nil
}

// Schedule returns the yearly breakdown for the request. Nothing is recorded.
func (s *SIPService) Schedule(
	_ context.Context,
	req domain.CalculationRequest,
) ([]domain.YearlyBreakdown, error) {
	input, err := s.prepare(req)
	if err != nil {
		return nil, err
	}
	return Schedule(input)
}

// History returns recorded calculations, newest first. The limit is clamped
// to [1, MaxHistoryLimit]; zero means DefaultHistoryLimit.
func (s *SIPService) History(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	entries, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

// project consults the cache before running the engine. Identical requests
// in flight at the same time share one computation.
func (s *SIPService) project(
	ctx context.Context,
	input domain.ProjectionInput,
) (domain.ProjectionResult, bool, error) {
	key := cacheKey(input)

	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached domain.ProjectionResult
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, true, nil
		}
		s.logger(ctx).WarnContext(ctx, "Discarding unreadable cache entry", "key", key)
	}

	v, err, _ := s.inflight.Do(key, func() (any, error) {
		result, err := Project(input)
		if err != nil {
			return domain.ProjectionResult{}, err
		}

		raw, err := json.Marshal(result)
		if err == nil {
			err = s.cache.Set(ctx, key, string(raw))
		}
		if err != nil {
			s.logger(ctx).WarnContext(ctx, "Failed to cache projection",
				logging.NewFields().With("key", key).WithError(err).ToSlice()...)
		}
		return result, nil
	})
	if err != nil {
		return domain.ProjectionResult{}, false, err
	}

	return v.(domain.ProjectionResult), false, nil
}

func cacheKey(input domain.ProjectionInput) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return "projection:" + f(input.ContributionAmount) +
		":" + f(input.AnnualRatePercent) +
		":" + f(input.DurationYears) +
		":" + string(input.CompoundingFrequency)
}
