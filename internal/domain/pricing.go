package domain

import "github.com/shopspring/decimal"

// OatSurcharge is added to the base price when oat milk is selected.
var OatSurcharge = decimal.NewFromInt(20)

// UnitPrice computes the price of a single serving from the drink's base
// price and the milk selection. Pure and total: every milk value yields a
// price, and only oat changes it.
func UnitPrice(base decimal.Decimal, milk Milk) decimal.Decimal {
	if milk == MilkOat {
		return base.Add(OatSurcharge)
	}
	return base
}

// LineTotal extends a unit price by a quantity.
func LineTotal(unit decimal.Decimal, quantity int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(quantity)))
}

// DefaultTemperature returns the selection preselected for a drink: its first
// temperature option, or none when the drink has no options.
func DefaultTemperature(d Drink) Temperature {
	if len(d.TemperatureOptions) > 0 {
		return d.TemperatureOptions[0]
	}
	return TemperatureNone
}

// DefaultMilk returns the milk preselected for a category. Coffee-based
// drinks default to regular milk; everything else takes none.
func DefaultMilk(c Category) Milk {
	if c == CategoryCoffee || c == CategoryNonCoffee {
		return MilkRegular
	}
	return MilkNone
}
