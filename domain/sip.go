package domain

import "time"

// Frequency is how often growth is applied per year.
type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyAnnually  Frequency = "annually"
)

// ProjectionInput holds the three magnitudes of a SIP plus the compounding
// frequency. An empty frequency means monthly.
type ProjectionInput struct {
	ContributionAmount   float64
	AnnualRatePercent    float64
	DurationYears        float64
	CompoundingFrequency Frequency
}

type YearlyBreakdown struct {
	Year               int     `json:"year"`
	ElapsedYears       float64 `json:"elapsedYears"`
	CumulativeInvested float64 `json:"cumulativeInvested"`
	ProjectedValue     float64 `json:"projectedValue"`
}

// ProjectionResult amounts are rounded to whole currency units and
// EstimatedReturns is always TotalValue - TotalInvested.
type ProjectionResult struct {
	TotalInvested    float64           `json:"totalInvested"`
	EstimatedReturns float64           `json:"estimatedReturns"`
	TotalValue       float64           `json:"totalValue"`
	Schedule         []YearlyBreakdown `json:"schedule,omitempty"`
}

// CalculationRequest is what callers hand to the service: the raw input plus
// the caller-side options that never reach the engine.
type CalculationRequest struct {
	Input           ProjectionInput
	InflationAdjust bool
	IncludeSchedule bool
}

// HistoryEntry records one calculation with the input the engine actually
// saw, i.e. after any inflation adjustment.
type HistoryEntry struct {
	ID                string
	CreatedAt         time.Time
	Input             ProjectionInput
	InflationAdjusted bool
	Result            ProjectionResult
}
