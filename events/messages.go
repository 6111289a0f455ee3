package events

import (
	"encoding/json"
	"time"

	"sip-calculator/domain"
)

// ProjectionCalculatedMessage announces a computed projection. It carries the
// effective input and the rounded totals, never the schedule.
type ProjectionCalculatedMessage struct {
	ID                   string    `json:"id"`
	ContributionAmount   float64   `json:"contributionAmount"`
	AnnualRatePercent    float64   `json:"annualRatePercent"`
	DurationYears        float64   `json:"durationYears"`
	CompoundingFrequency string    `json:"compoundingFrequency"`
	InflationAdjusted    bool      `json:"inflationAdjusted"`
	TotalInvested        float64   `json:"totalInvested"`
	EstimatedReturns     float64   `json:"estimatedReturns"`
	TotalValue           float64   `json:"totalValue"`
	Timestamp            time.Time `json:"timestamp"`
}

// NewProjectionCalculatedMessage builds the message for a history entry.
func NewProjectionCalculatedMessage(e domain.HistoryEntry) *ProjectionCalculatedMessage {
	freq := e.Input.CompoundingFrequency
	if freq == "" {
		freq = domain.FrequencyMonthly
	}
	return &ProjectionCalculatedMessage{
		ID:                   e.ID,
		ContributionAmount:   e.Input.ContributionAmount,
		AnnualRatePercent:    e.Input.AnnualRatePercent,
		DurationYears:        e.Input.DurationYears,
		CompoundingFrequency: string(freq),
		InflationAdjusted:    e.InflationAdjusted,
		TotalInvested:        e.Result.TotalInvested,
		EstimatedReturns:     e.Result.EstimatedReturns,
		TotalValue:           e.Result.TotalValue,
		Timestamp:            e.CreatedAt,
	}
}

func (m *ProjectionCalculatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ProjectionCalculatedMessageFromJSON(data []byte) (*ProjectionCalculatedMessage, error) {
	var msg ProjectionCalculatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
