package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/coz-coffee/api/internal/catalog"
	"github.com/coz-coffee/api/internal/domain"
)

func menuTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]domain.Drink{
		{
			Name:               "Latte",
			Category:           domain.CategoryCoffee,
			BasePrice:          decimal.NewFromInt(120),
			TemperatureOptions: []domain.Temperature{domain.TemperatureHot, domain.TemperatureCold},
		},
		{
			Name:      "Mango Shake",
			Category:  domain.CategoryMilkshake,
			BasePrice: decimal.NewFromInt(150),
		},
	})
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	return c
}

func newMenuRouter(t *testing.T) chi.Router {
	t.Helper()
	r := chi.NewRouter()
	NewMenuHandlers(menuTestCatalog(t)).Routes(r)
	return r
}

func TestMenuListDrinks(t *testing.T) {
	router := newMenuRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var body menuResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(body.Drinks) != 2 {
		t.Fatalf("expected 2 drinks, got %d", len(body.Drinks))
	}
	if body.Drinks[0].Name != "Latte" || body.Drinks[0].BasePrice != "120" {
		t.Fatalf("unexpected first drink %+v", body.Drinks[0])
	}
}

func TestMenuListFiltersByCategory(t *testing.T) {
	router := newMenuRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/?category=milkshake", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var body menuResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(body.Drinks) != 1 || body.Drinks[0].Name != "Mango Shake" {
		t.Fatalf("unexpected drinks %+v", body.Drinks)
	}
	if len(body.Drinks[0].TemperatureOptions) != 0 {
		t.Fatalf("expected no temperature options for a milkshake, got %v", body.Drinks[0].TemperatureOptions)
	}
}

func TestMenuListRejectsUnknownCategory(t *testing.T) {
	router := newMenuRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/?category=espresso", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body["error"] != "invalid_category" {
		t.Fatalf("unexpected error code %v", body["error"])
	}
}

func TestMenuGetDrinkIsCaseInsensitive(t *testing.T) {
	router := newMenuRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/latte", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var body drinkResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body.Name != "Latte" || body.Category != "coffee" {
		t.Fatalf("unexpected drink %+v", body)
	}
}

func TestMenuGetUnknownDrink(t *testing.T) {
	router := newMenuRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/Flat%20White", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body["error"] != "drink_not_found" {
		t.Fatalf("unexpected error code %v", body["error"])
	}
}
