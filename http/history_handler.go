package http

import (
	"net/http"
	"strconv"
	"time"

	"sip-calculator/service"
)

type HistoryHandler struct {
	service *service.SIPService
}

func NewHistoryHandler(service *service.SIPService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

type historyItem struct {
	ID                   string    `json:"id"`
	CreatedAt            time.Time `json:"createdAt"`
	ContributionAmount   float64   `json:"contributionAmount"`
	AnnualRatePercent    float64   `json:"annualRatePercent"`
	DurationYears        float64   `json:"durationYears"`
	CompoundingFrequency string    `json:"compoundingFrequency"`
	InflationAdjusted    bool      `json:"inflationAdjusted"`
	TotalInvested        float64   `json:"totalInvested"`
	EstimatedReturns     float64   `json:"estimatedReturns"`
	TotalValue           float64   `json:"totalValue"`
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, "limit: must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := h.service.History(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	items := make([]historyItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, historyItem{
			ID:                   e.ID,
			CreatedAt:            e.CreatedAt,
			ContributionAmount:   e.Input.ContributionAmount,
			AnnualRatePercent:    e.Input.AnnualRatePercent,
			DurationYears:        e.Input.DurationYears,
			CompoundingFrequency: string(e.Input.CompoundingFrequency),
			InflationAdjusted:    e.InflationAdjusted,
			TotalInvested:        e.Result.TotalInvested,
			EstimatedReturns:     e.Result.EstimatedReturns,
			TotalValue:           e.Result.TotalValue,
		})
	}

	writeJSON(w, r, http.StatusOK, items)
}
