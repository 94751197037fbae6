package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category classifies a drink on the menu and drives which options apply.
type Category string

const (
	CategoryCoffee    Category = "coffee"
	CategoryNonCoffee Category = "non-coffee"
	CategoryFruit     Category = "fruit"
	CategoryMilkshake Category = "milkshake"
)

// Categories lists every valid menu category in display order.
func Categories() []Category {
	return []Category{CategoryCoffee, CategoryNonCoffee, CategoryFruit, CategoryMilkshake}
}

// ParseCategory validates a raw category value.
func ParseCategory(value string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(value))) {
	case CategoryCoffee:
		return CategoryCoffee, true
	case CategoryNonCoffee:
		return CategoryNonCoffee, true
	case CategoryFruit:
		return CategoryFruit, true
	case CategoryMilkshake:
		return CategoryMilkshake, true
	}
	return "", false
}

// Temperature is a serving temperature option.
type Temperature string

const (
	TemperatureHot  Temperature = "hot"
	TemperatureCold Temperature = "cold"
	TemperatureNone Temperature = "none"
)

// Milk is the milk selection applied to a drink.
type Milk string

const (
	MilkNone    Milk = "none"
	MilkRegular Milk = "regular"
	MilkOat     Milk = "oat"
)

// Size is the serving size recorded on persisted transaction line items.
type Size string

const (
	SizeRegular Size = "regular"
	SizeUpsize  Size = "upsize"
)

// PaymentMethod identifies how a transaction was settled.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentGcash PaymentMethod = "gcash"
)

// TransactionStatus tracks whether a transaction has been paid.
type TransactionStatus string

const (
	StatusPaid   TransactionStatus = "paid"
	StatusUnpaid TransactionStatus = "unpaid"
)

// Drink is a static catalog entry. Drinks are loaded once at start and never
// mutated afterwards.
type Drink struct {
	Name               string
	Category           Category
	BasePrice          decimal.Decimal
	TemperatureOptions []Temperature
	Image              string
	Description        string
	Ingredients        string
}

// AllowsTemperature reports whether the drink can be served at the given
// temperature. Drinks without options only accept TemperatureNone.
func (d Drink) AllowsTemperature(t Temperature) bool {
	if len(d.TemperatureOptions) == 0 {
		return t == TemperatureNone
	}
	for _, opt := range d.TemperatureOptions {
		if opt == t {
			return true
		}
	}
	return false
}

// AllowsMilk reports whether a milk selection applies to the drink. Only
// coffee and non-coffee drinks take a milk option.
func (d Drink) AllowsMilk(m Milk) bool {
	if d.Category == CategoryCoffee || d.Category == CategoryNonCoffee {
		return m == MilkRegular || m == MilkOat
	}
	return m == MilkNone
}

// LineItem is one item within a persisted transaction.
type LineItem struct {
	Name        string
	Quantity    int
	Temperature Temperature
	Milk        Milk
	Size        Size
}

// TransactionRecord is a completed order fetched from the transaction store.
// Records are read-only for the lifetime of one report result set.
type TransactionRecord struct {
	ID              string
	ReferenceNumber string
	CustomerName    string
	TotalPrice      decimal.Decimal
	CreatedAt       time.Time
	Status          TransactionStatus
	Payment         PaymentMethod
	Items           []LineItem
}
