package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/coz-coffee/api/internal/platform/httpx"
	"github.com/coz-coffee/api/internal/services"
)

const maxCartBodySize = 16 * 1024

// CartHandlers exposes the session cart and checkout endpoints.
type CartHandlers struct {
	carts    services.CartService
	checkout services.CheckoutService
}

// NewCartHandlers constructs handlers over the cart and checkout services.
func NewCartHandlers(carts services.CartService, checkout services.CheckoutService) *CartHandlers {
	return &CartHandlers{carts: carts, checkout: checkout}
}

// Routes wires the /cart endpoints onto the provided router.
func (h *CartHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.getCart)
	r.Post("/items", h.addItem)
	r.Delete("/items/{itemIndex}", h.removeItem)
	r.Delete("/", h.clearCart)
	r.Post("/checkout", h.submitOrder)
}

type cartItemPayload struct {
	Name        string `json:"name"`
	Image       string `json:"image,omitempty"`
	Temperature string `json:"temperature"`
	Milk        string `json:"milk"`
	UnitPrice   string `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	LineTotal   string `json:"line_total"`
}

type cartResponse struct {
	Items    []cartItemPayload `json:"items"`
	Subtotal string            `json:"subtotal"`
}

type addItemRequest struct {
	Name        string `json:"name"`
	Temperature string `json:"temperature"`
	Milk        string `json:"milk"`
	Quantity    int    `json:"quantity"`
}

type receiptResponse struct {
	ReferenceNumber string `json:"reference_number"`
	Total           string `json:"total"`
	SubmittedAt     string `json:"submitted_at"`
}

func (h *CartHandlers) getCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}
	sessionID, ok := sessionFromRequest(r)
	if !ok {
		writeMissingSession(w, r)
		return
	}

	cart, err := h.carts.GetCart(ctx, sessionID)
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildCartPayload(cart))
}

func (h *CartHandlers) addItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}
	sessionID, ok := sessionFromRequest(r)
	if !ok {
		writeMissingSession(w, r)
		return
	}

	body, err := readLimitedBody(r, maxCartBodySize)
	if err != nil {
		switch {
		case errors.Is(err, errBodyTooLarge):
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		default:
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		}
		return
	}

	var req addItemRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	cart, err := h.carts.AddItem(ctx, services.AddItemCommand{
		SessionID:   sessionID,
		DrinkName:   req.Name,
		Temperature: req.Temperature,
		Milk:        req.Milk,
		Quantity:    req.Quantity,
	})
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, buildCartPayload(cart))
}

func (h *CartHandlers) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}
	sessionID, ok := sessionFromRequest(r)
	if !ok {
		writeMissingSession(w, r)
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "itemIndex"))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "item index must be an integer", http.StatusBadRequest))
		return
	}

	cart, err := h.carts.RemoveItem(ctx, sessionID, index)
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildCartPayload(cart))
}

func (h *CartHandlers) clearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}
	sessionID, ok := sessionFromRequest(r)
	if !ok {
		writeMissingSession(w, r)
		return
	}

	if err := h.carts.Clear(ctx, sessionID); err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandlers) submitOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.checkout == nil {
		httpx.WriteError(ctx, w, httpx.NewError("checkout_service_unavailable", "checkout service is unavailable", http.StatusServiceUnavailable))
		return
	}
	sessionID, ok := sessionFromRequest(r)
	if !ok {
		writeMissingSession(w, r)
		return
	}

	receipt, err := h.checkout.SubmitOrder(ctx, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCheckoutEmptyCart):
			httpx.WriteError(ctx, w, httpx.NewError("cart_empty", "cart has no items to check out", http.StatusConflict))
		case errors.Is(err, services.ErrCheckoutUnavailable):
			httpx.WriteError(ctx, w, httpx.NewError("checkout_service_unavailable", "checkout service is unavailable", http.StatusServiceUnavailable))
		default:
			httpx.WriteError(ctx, w, httpx.NewError("internal_error", "failed to submit order", http.StatusInternalServerError))
		}
		return
	}

	writeJSONResponse(w, http.StatusOK, receiptResponse{
		ReferenceNumber: receipt.ReferenceNumber,
		Total:           receipt.Total.String(),
		SubmittedAt:     receipt.SubmittedAt.UTC().Format(time.RFC3339),
	})
}

func (h *CartHandlers) writeCartError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCartDrinkNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("drink_not_found", err.Error(), http.StatusNotFound))
	case errors.Is(err, services.ErrCartInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrCartUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "failed to process cart request", http.StatusInternalServerError))
	}
}

func buildCartPayload(cart services.CartView) cartResponse {
	items := make([]cartItemPayload, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, cartItemPayload{
			Name:        line.Name,
			Image:       line.Image,
			Temperature: string(line.Temperature),
			Milk:        string(line.Milk),
			UnitPrice:   line.UnitPrice.String(),
			Quantity:    line.Quantity,
			LineTotal:   line.LineTotal.String(),
		})
	}
	return cartResponse{Items: items, Subtotal: cart.Subtotal.String()}
}
