package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/coz-coffee/api/internal/catalog"
	"github.com/coz-coffee/api/internal/domain"
	"github.com/coz-coffee/api/internal/platform/httpx"
)

// MenuHandlers serves the read-only drink menu.
type MenuHandlers struct {
	catalog *catalog.Catalog
}

// NewMenuHandlers constructs handlers over the loaded drink catalog.
func NewMenuHandlers(c *catalog.Catalog) *MenuHandlers {
	return &MenuHandlers{catalog: c}
}

// Routes wires the /menu endpoints onto the provided router.
func (h *MenuHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.listDrinks)
	r.Get("/{drinkName}", h.getDrink)
}

type drinkResponse struct {
	Name               string   `json:"name"`
	Category           string   `json:"category"`
	BasePrice          string   `json:"base_price"`
	TemperatureOptions []string `json:"temperature_options"`
	Image              string   `json:"image,omitempty"`
	Description        string   `json:"description,omitempty"`
	Ingredients        string   `json:"ingredients,omitempty"`
}

type menuResponse struct {
	Drinks []drinkResponse `json:"drinks"`
}

func (h *MenuHandlers) listDrinks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("menu_unavailable", "menu is unavailable", http.StatusServiceUnavailable))
		return
	}

	drinks := h.catalog.List()
	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		category, ok := domain.ParseCategory(raw)
		if !ok {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_category", fmt.Sprintf("unknown category %q", raw), http.StatusBadRequest))
			return
		}
		drinks = h.catalog.ListByCategory(category)
	}

	payload := menuResponse{Drinks: make([]drinkResponse, 0, len(drinks))}
	for _, drink := range drinks {
		payload.Drinks = append(payload.Drinks, buildDrinkPayload(drink))
	}
	writeJSONResponse(w, http.StatusOK, payload)
}

func (h *MenuHandlers) getDrink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("menu_unavailable", "menu is unavailable", http.StatusServiceUnavailable))
		return
	}

	name := chi.URLParam(r, "drinkName")
	drink, err := h.catalog.Find(name)
	if err != nil {
		if errors.Is(err, catalog.ErrDrinkNotFound) {
			httpx.WriteError(ctx, w, httpx.NewError("drink_not_found", fmt.Sprintf("drink %q is not on the menu", name), http.StatusNotFound))
			return
		}
		httpx.WriteError(ctx, w, httpx.NewError("menu_unavailable", "menu is unavailable", http.StatusServiceUnavailable))
		return
	}

	writeJSONResponse(w, http.StatusOK, buildDrinkPayload(drink))
}

func buildDrinkPayload(drink domain.Drink) drinkResponse {
	temps := make([]string, 0, len(drink.TemperatureOptions))
	for _, t := range drink.TemperatureOptions {
		temps = append(temps, string(t))
	}
	return drinkResponse{
		Name:               drink.Name,
		Category:           string(drink.Category),
		BasePrice:          drink.BasePrice.String(),
		TemperatureOptions: temps,
		Image:              drink.Image,
		Description:        drink.Description,
		Ingredients:        drink.Ingredients,
	}
}
