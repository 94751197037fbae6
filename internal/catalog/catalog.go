package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coz-coffee/api/internal/domain"
)

// ErrDrinkNotFound is returned when a lookup names a drink the menu does not
// carry.
var ErrDrinkNotFound = errors.New("catalog: drink not found")

// Catalog holds the immutable drink list loaded once at start. Lookups are
// case-insensitive on the drink name.
type Catalog struct {
	drinks []domain.Drink
	byName map[string]int
}

// New validates and copies the supplied drinks into a Catalog.
func New(drinks []domain.Drink) (*Catalog, error) {
	if len(drinks) == 0 {
		return nil, errors.New("catalog: at least one drink is required")
	}

	copied := make([]domain.Drink, len(drinks))
	copy(copied, drinks)
	byName := make(map[string]int, len(copied))

	for i, drink := range copied {
		name := strings.TrimSpace(drink.Name)
		if name == "" {
			return nil, fmt.Errorf("catalog: drink %d has no name", i)
		}
		if _, ok := domain.ParseCategory(string(drink.Category)); !ok {
			return nil, fmt.Errorf("catalog: drink %q has invalid category %q", name, drink.Category)
		}
		if drink.BasePrice.IsNegative() {
			return nil, fmt.Errorf("catalog: drink %q has negative price", name)
		}
		key := strings.ToLower(name)
		if _, dup := byName[key]; dup {
			return nil, fmt.Errorf("catalog: duplicate drink %q", name)
		}
		byName[key] = i
	}

	return &Catalog{drinks: copied, byName: byName}, nil
}

// List returns every drink in menu order.
func (c *Catalog) List() []domain.Drink {
	dup := make([]domain.Drink, len(c.drinks))
	copy(dup, c.drinks)
	return dup
}

// ListByCategory returns the drinks belonging to the given category.
func (c *Catalog) ListByCategory(category domain.Category) []domain.Drink {
	out := make([]domain.Drink, 0, len(c.drinks))
	for _, drink := range c.drinks {
		if drink.Category == category {
			out = append(out, drink)
		}
	}
	return out
}

// Find looks up a drink by name.
func (c *Catalog) Find(name string) (domain.Drink, error) {
	idx, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return domain.Drink{}, fmt.Errorf("%w: %q", ErrDrinkNotFound, strings.TrimSpace(name))
	}
	return c.drinks[idx], nil
}
