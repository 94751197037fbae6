package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coz-coffee/api/internal/catalog"
	"github.com/coz-coffee/api/internal/domain"
)

var (
	errCartStoreRequired   = errors.New("cart service: store is required")
	errCartCatalogRequired = errors.New("cart service: catalog is required")
)

// ErrCartInvalidInput indicates the caller supplied invalid input.
var ErrCartInvalidInput = errors.New("cart service: invalid input")

// ErrCartDrinkNotFound indicates the named drink is not on the menu.
var ErrCartDrinkNotFound = errors.New("cart service: drink not found")

// ErrCartUnavailable indicates the cart service cannot fulfil the request.
var ErrCartUnavailable = errors.New("cart service: unavailable")

// CartServiceDeps wires the store and catalog dependencies for cart operations.
type CartServiceDeps struct {
	Store   *SessionCartStore
	Catalog *catalog.Catalog
	Logger  func(context.Context, string, map[string]any)
}

type cartService struct {
	store   *SessionCartStore
	catalog *catalog.Catalog
	logger  func(context.Context, string, map[string]any)
}

// NewCartService constructs a CartService enforcing dependency validation.
func NewCartService(deps CartServiceDeps) (CartService, error) {
	if deps.Store == nil {
		return nil, errCartStoreRequired
	}
	if deps.Catalog == nil {
		return nil, errCartCatalogRequired
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &cartService{
		store:   deps.Store,
		catalog: deps.Catalog,
		logger:  logger,
	}, nil
}

// GetCart returns the session's cart, creating an empty one when absent.
func (s *cartService) GetCart(_ context.Context, sessionID string) (CartView, error) {
	if s == nil || s.store == nil {
		return CartView{}, ErrCartUnavailable
	}

	var view CartView
	err := s.store.WithCart(sessionID, func(cart *domain.Cart) error {
		view = cartView(cart)
		return nil
	})
	if err != nil {
		return CartView{}, err
	}
	return view, nil
}

// AddItem validates the command against the catalog, derives the unit price,
// and merges the line into the session cart.
func (s *cartService) AddItem(ctx context.Context, cmd AddItemCommand) (CartView, error) {
	if s == nil || s.store == nil {
		return CartView{}, ErrCartUnavailable
	}

	name := strings.TrimSpace(cmd.DrinkName)
	if name == "" {
		return CartView{}, fmt.Errorf("%w: drink name is required", ErrCartInvalidInput)
	}
	if cmd.Quantity < 1 {
		return CartView{}, fmt.Errorf("%w: quantity must be at least 1", ErrCartInvalidInput)
	}

	drink, err := s.catalog.Find(name)
	if err != nil {
		if errors.Is(err, catalog.ErrDrinkNotFound) {
			return CartView{}, fmt.Errorf("%w: %q", ErrCartDrinkNotFound, name)
		}
		return CartView{}, ErrCartUnavailable
	}

	temperature, err := resolveTemperature(drink, cmd.Temperature)
	if err != nil {
		return CartView{}, err
	}
	milk, err := resolveMilk(drink, cmd.Milk)
	if err != nil {
		return CartView{}, err
	}

	item := domain.CartItem{
		Name:        drink.Name,
		Image:       drink.Image,
		UnitPrice:   domain.UnitPrice(drink.BasePrice, milk),
		Temperature: temperature,
		Milk:        milk,
		Quantity:    cmd.Quantity,
	}

	var view CartView
	err = s.store.WithCart(cmd.SessionID, func(cart *domain.Cart) error {
		cart.Add(item)
		view = cartView(cart)
		return nil
	})
	if err != nil {
		return CartView{}, err
	}

	s.logger(ctx, "cart.item_added", map[string]any{
		"drink":    drink.Name,
		"quantity": cmd.Quantity,
	})
	return view, nil
}

// RemoveItem deletes the line at the given position. Out-of-range positions
// are rejected and the cart is left untouched.
func (s *cartService) RemoveItem(ctx context.Context, sessionID string, index int) (CartView, error) {
	if s == nil || s.store == nil {
		return CartView{}, ErrCartUnavailable
	}

	var view CartView
	err := s.store.WithCart(sessionID, func(cart *domain.Cart) error {
		if err := cart.RemoveAt(index); err != nil {
			if errors.Is(err, domain.ErrCartIndexOutOfRange) {
				return fmt.Errorf("%w: item index %d out of range", ErrCartInvalidInput, index)
			}
			return err
		}
		view = cartView(cart)
		return nil
	})
	if err != nil {
		return CartView{}, err
	}

	s.logger(ctx, "cart.item_removed", map[string]any{"index": index})
	return view, nil
}

// Clear empties the session's cart.
func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	if s == nil || s.store == nil {
		return ErrCartUnavailable
	}

	err := s.store.WithCart(sessionID, func(cart *domain.Cart) error {
		cart.Clear()
		return nil
	})
	if err != nil {
		return err
	}

	s.logger(ctx, "cart.cleared", nil)
	return nil
}

func resolveTemperature(drink domain.Drink, raw string) (domain.Temperature, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return domain.DefaultTemperature(drink), nil
	}
	temperature := domain.Temperature(trimmed)
	if !drink.AllowsTemperature(temperature) {
		return "", fmt.Errorf("%w: %s is not served %s", ErrCartInvalidInput, drink.Name, trimmed)
	}
	return temperature, nil
}

func resolveMilk(drink domain.Drink, raw string) (domain.Milk, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return domain.DefaultMilk(drink.Category), nil
	}
	milk := domain.Milk(trimmed)
	if !drink.AllowsMilk(milk) {
		return "", fmt.Errorf("%w: %s does not take %s milk", ErrCartInvalidInput, drink.Name, trimmed)
	}
	return milk, nil
}

func cartView(cart *domain.Cart) CartView {
	items := cart.Items()
	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, CartLine{
			Name:        item.Name,
			Image:       item.Image,
			Temperature: item.Temperature,
			Milk:        item.Milk,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal(),
		})
	}
	return CartView{
		Items:    lines,
		Subtotal: cart.Subtotal(),
	}
}
