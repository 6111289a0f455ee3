package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sip-calculator/repository"
	"sip-calculator/service"
)

func TestHistoryHandler_ListsNewestFirst(t *testing.T) {

	svc := service.NewSIPService(repository.NewHistoryRepositoryMemory(), repository.NewMemoryCache(), nil)
	projection := NewProjectionHandler(svc)
	history := NewHistoryHandler(svc)

	for _, body := range []string{
		`{"monthlyInvestment": 1000, "annualRate": 10, "years": 1}`,
		`{"monthlyInvestment": 5000, "annualRate": 12, "years": 10}`,
	} {
		if w := postJSON(projection.Calculate, "/api/calculate", body); w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/history?limit=1", nil)
	w := httptest.NewRecorder()
	history.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var items []historyItem
	if err := json.NewDecoder(w.Body).Decode(&items); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].ContributionAmount != 5000 || items[0].TotalValue != 1161695 {
		t.Errorf("expected the latest calculation, got %+v", items[0])
	}
}

func TestHistoryHandler_BadLimit(t *testing.T) {

	svc := service.NewSIPService(repository.NewHistoryRepositoryMemory(), repository.NewMemoryCache(), nil)
	history := NewHistoryHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/history?limit=abc", nil)
	w := httptest.NewRecorder()
	history.List(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHistoryHandler_MethodNotAllowed(t *testing.T) {

	svc := service.NewSIPService(repository.NewHistoryRepositoryMemory(), repository.NewMemoryCache(), nil)
	history := NewHistoryHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/history", nil)
	w := httptest.NewRecorder()
	history.List(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}
