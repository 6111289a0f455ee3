package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"sip-calculator/domain"
	"sip-calculator/events"
	"sip-calculator/repository"
)

type MockHistoryRepository struct {
	mu         sync.Mutex
	Saved      []domain.HistoryEntry
	ListLimit  int
	ForceError bool
}

func (m *MockHistoryRepository) Save(_ context.Context, entry domain.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForceError {
		return errors.New("save error")
	}
	m.Saved = append(m.Saved, entry)
	return nil
}

func (m *MockHistoryRepository) List(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListLimit = limit
	if m.ForceError {
		return nil, errors.New("list error")
	}
	return m.Saved, nil
}

type countingCache struct {
	*repository.MemoryCache
	mu   sync.Mutex
	sets int
}

func (c *countingCache) Set(ctx context.Context, key, value string) error {
	c.mu.Lock()
	c.sets++
	c.mu.Unlock()
	return c.MemoryCache.Set(ctx, key, value)
}

type MockPublisher struct {
	mu         sync.Mutex
	Published  []*events.ProjectionCalculatedMessage
	ForceError bool
}

func (m *MockPublisher) PublishProjection(_ context.Context, msg *events.ProjectionCalculatedMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ForceError {
		return errors.New("broker down")
	}
	m.Published = append(m.Published, msg)
	return nil
}

func (m *MockPublisher) Close() error { return nil }

func newTestService(repo *MockHistoryRepository, pub *MockPublisher) *SIPService {
	fixed := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	return NewSIPService(repo, repository.NewMemoryCache(), pub,
		WithClock(func() time.Time { return fixed }))
}

func scenarioOne() domain.CalculationRequest {
	return domain.CalculationRequest{
		Input: domain.ProjectionInput{
			ContributionAmount: 5000,
			AnnualRatePercent:  12,
			DurationYears:      10,
		},
	}
}

func TestCalculate_SavesAndPublishes(t *testing.T) {

	repo := &MockHistoryRepository{}
	pub := &MockPublisher{}
	service := newTestService(repo, pub)

	result, err := service.Calculate(context.Background(), scenarioOne())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalValue != 1161695 || result.TotalInvested != 600000 {
		t.Errorf("unexpected result: %+v", result)
	}

	if len(repo.Saved) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(repo.Saved))
	}
	entry := repo.Saved[0]
	if entry.ID == "" {
		t.Errorf("expected history entry ID")
	}
	if entry.Input.CompoundingFrequency != domain.FrequencyMonthly {
		t.Errorf("expected frequency defaulted to monthly, got %q", entry.Input.CompoundingFrequency)
	}
	if !entry.CreatedAt.Equal(time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected created at %v", entry.CreatedAt)
	}

	if len(pub.Published) != 1 || pub.Published[0].ID != entry.ID {
		t.Errorf("expected one event for entry %s, got %+v", entry.ID, pub.Published)
	}
}

func TestCalculate_SaveAndPublishFailuresAreNotFatal(t *testing.T) {

	repo := &MockHistoryRepository{ForceError: true}
	pub := &MockPublisher{ForceError: true}
	service := newTestService(repo, pub)

	_, err := service.Calculate(context.Background(), scenarioOne())

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCalculate_InvalidInputIsNotRecorded(t *testing.T) {

	repo := &MockHistoryRepository{}
	pub := &MockPublisher{}
	service := newTestService(repo, pub)

	req := scenarioOne()
	req.Input.ContributionAmount = 0

	_, err := service.Calculate(context.Background(), req)

	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != FieldContributionAmount {
		t.Fatalf("expected validation error on %s, got %v", FieldContributionAmount, err)
	}
	if len(repo.Saved) != 0 || len(pub.Published) != 0 {
		t.Errorf("repository Save and publish should NOT be called")
	}
}

func TestCalculate_Limits(t *testing.T) {

	service := newTestService(&MockHistoryRepository{}, &MockPublisher{})

	tests := []struct {
		name   string
		mutate func(*domain.ProjectionInput)
		field  string
	}{
		{"contribution", func(in *domain.ProjectionInput) { in.ContributionAmount = MaxContributionAmount + 1 }, FieldContributionAmount},
		{"rate", func(in *domain.ProjectionInput) { in.AnnualRatePercent = MaxAnnualRatePercent + 1 }, FieldAnnualRatePercent},
		{"duration", func(in *domain.ProjectionInput) { in.DurationYears = MaxDurationYears + 1 }, FieldDurationYears},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := scenarioOne()
			tt.mutate(&req.Input)

			_, err := service.Calculate(context.Background(), req)

			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Field != tt.field || verr.Reason != domain.ReasonTooLarge {
				t.Errorf("expected %s exceeds maximum, got %v", tt.field, verr)
			}
		})
	}
}

func TestCalculate_InflationAdjust(t *testing.T) {

	repo := &MockHistoryRepository{}
	service := newTestService(repo, &MockPublisher{})

	req := domain.CalculationRequest{
		Input:           domain.ProjectionInput{ContributionAmount: 1000, AnnualRatePercent: 12, DurationYears: 10},
		InflationAdjust: true,
	}

	result, err := service.Calculate(context.Background(), req)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Same as a plain 6% projection.
	if result.TotalValue != 164699 {
		t.Errorf("expected 164699, got %.2f", result.TotalValue)
	}
	if repo.Saved[0].Input.AnnualRatePercent != 6 || !repo.Saved[0].InflationAdjusted {
		t.Errorf("expected adjusted input recorded, got %+v", repo.Saved[0])
	}
}

func TestCalculate_InflationAdjustBelowZero(t *testing.T) {

	service := newTestService(&MockHistoryRepository{}, &MockPublisher{})

	req := domain.CalculationRequest{
		Input:           domain.ProjectionInput{ContributionAmount: 1000, AnnualRatePercent: 5, DurationYears: 10},
		InflationAdjust: true,
	}

	_, err := service.Calculate(context.Background(), req)

	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != FieldAnnualRatePercent || verr.Reason != domain.ReasonNotPositive {
		t.Errorf("expected annualRatePercent must be positive, got %v", err)
	}
}

func TestCalculate_UsesCache(t *testing.T) {

	cache := &countingCache{MemoryCache: repository.NewMemoryCache()}
	repo := &MockHistoryRepository{}
	service := NewSIPService(repo, cache, nil)

	first, err := service.Calculate(context.Background(), scenarioOne())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := service.Calculate(context.Background(), scenarioOne())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cache.sets != 1 {
		t.Errorf("expected one cache write, got %d", cache.sets)
	}
	if first.TotalValue != second.TotalValue {
		t.Errorf("expected cached result to match, got %+v and %+v", first, second)
	}
	if len(repo.Saved) != 2 {
		t.Errorf("expected every calculation in history, got %d", len(repo.Saved))
	}
}

func TestCalculate_ReadsCachedValue(t *testing.T) {

	cache := repository.NewMemoryCache()
	req := scenarioOne()
	req.Input.CompoundingFrequency = domain.FrequencyMonthly
	_ = cache.Set(context.Background(), cacheKey(req.Input), `{"totalInvested":1,"estimatedReturns":1,"totalValue":2}`)

	service := NewSIPService(&MockHistoryRepository{}, cache, nil)

	result, err := service.Calculate(context.Background(), scenarioOne())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalValue != 2 {
		t.Errorf("expected the cached value, got %+v", result)
	}
}

func TestCalculate_IncludeSchedule(t *testing.T) {

	service := newTestService(&MockHistoryRepository{}, &MockPublisher{})

	req := scenarioOne()
	req.IncludeSchedule = true

	result, err := service.Calculate(context.Background(), req)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Schedule) != 10 {
		t.Fatalf("expected 10 schedule entries, got %d", len(result.Schedule))
	}
	if result.Schedule[9].ProjectedValue != result.TotalValue {
		t.Errorf("expected last entry to match total value")
	}
}

func TestCalculate_Concurrent(t *testing.T) {

	repo := &MockHistoryRepository{}
	service := newTestService(repo, &MockPublisher{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := service.Calculate(context.Background(), scenarioOne()); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if len(repo.Saved) != 20 {
		t.Errorf("expected 20 history entries, got %d", len(repo.Saved))
	}
}

func TestScheduleService_DoesNotRecord(t *testing.T) {

	repo := &MockHistoryRepository{}
	service := newTestService(repo, &MockPublisher{})

	schedule, err := service.Schedule(context.Background(), scenarioOne())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(schedule) != 10 {
		t.Errorf("expected 10 entries, got %d", len(schedule))
	}
	if len(repo.Saved) != 0 {
		t.Errorf("schedule should not be recorded")
	}
}

func TestHistory_ClampsLimit(t *testing.T) {

	repo := &MockHistoryRepository{}
	service := newTestService(repo, &MockPublisher{})

	tests := []struct{ in, want int }{
		{0, DefaultHistoryLimit},
		{-3, DefaultHistoryLimit},
		{5, 5},
		{MaxHistoryLimit + 50, MaxHistoryLimit},
	}

	for _, tt := range tests {
		if _, err := service.History(context.Background(), tt.in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.ListLimit != tt.want {
			t.Errorf("limit %d: expected %d, got %d", tt.in, tt.want, repo.ListLimit)
		}
	}
}

func TestHistory_Error(t *testing.T) {

	service := newTestService(&MockHistoryRepository{ForceError: true}, &MockPublisher{})

	if _, err := service.History(context.Background(), 10); err == nil {
		t.Errorf("expected error from repository")
	}
}
