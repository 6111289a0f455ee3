package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"sip-calculator/domain"
	"sip-calculator/service"
)

const maxBodyBytes = 1 << 16

type ProjectionHandler struct {
	service *service.SIPService
}

func NewProjectionHandler(service *service.SIPService) *ProjectionHandler {
	return &ProjectionHandler{service: service}
}

type calculationResponse struct {
	TotalInvested        float64                  `json:"totalInvested"`
	EstimatedReturns     float64                  `json:"estimatedReturns"`
	TotalValue           float64                  `json:"totalValue"`
	CompoundingFrequency domain.Frequency         `json:"compoundingFrequency"`
	InflationAdjusted    bool                     `json:"inflationAdjusted"`
	Schedule             []domain.YearlyBreakdown `json:"schedule,omitempty"`
}

type scheduleResponse struct {
	Schedule []domain.YearlyBreakdown `json:"schedule"`
}

// decodeCalculation handles the checks shared by every POST endpoint. It
// writes the error response itself and reports false on failure.
func decodeCalculation(w http.ResponseWriter, r *http.Request) (domain.CalculationRequest, bool) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return domain.CalculationRequest{}, false
	}

	// Validar Content-Type
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		writeError(w, r, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return domain.CalculationRequest{}, false
	}

	var payload calculationPayload
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&payload); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return domain.CalculationRequest{}, false
	}

	req, err := payload.toRequest()
	if err != nil {
		writeServiceError(w, r, err)
		return domain.CalculationRequest{}, false
	}
	return req, true
}

func (h *ProjectionHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCalculation(w, r)
	if !ok {
		return
	}

	result, err := h.service.Calculate(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	freq := req.Input.CompoundingFrequency
	if freq == "" {
		freq = domain.FrequencyMonthly
	}

	writeJSON(w, r, http.StatusOK, calculationResponse{
		TotalInvested:        result.TotalInvested,
		EstimatedReturns:     result.EstimatedReturns,
		TotalValue:           result.TotalValue,
		CompoundingFrequency: freq,
		InflationAdjusted:    req.InflationAdjust,
		Schedule:             result.Schedule,
	})
}

func (h *ProjectionHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCalculation(w, r)
	if !ok {
		return
	}

	schedule, err := h.service.Schedule(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, scheduleResponse{Schedule: schedule})
}
