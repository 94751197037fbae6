package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/coz-coffee/api/internal/domain"
)

func php(units int64) decimal.Decimal {
	return decimal.NewFromInt(units)
}

var hotCold = []domain.Temperature{domain.TemperatureHot, domain.TemperatureCold}
var coldOnly = []domain.Temperature{domain.TemperatureCold}

// menu is the shop's fixed drink list. Prices are in pesos; the oat milk
// surcharge is applied at order time, not here.
var menu = []domain.Drink{
	{
		Name:               "Americano",
		Category:           domain.CategoryCoffee,
		BasePrice:          php(90),
		TemperatureOptions: hotCold,
		Image:              "menus/americano.png",
		Description:        "Bold espresso over water.",
		Ingredients:        "Espresso, water",
	},
	{
		Name:               "Latte",
		Category:           domain.CategoryCoffee,
		BasePrice:          php(120),
		TemperatureOptions: hotCold,
		Image:              "menus/latte.png",
		Description:        "Espresso with steamed milk.",
		Ingredients:        "Espresso, milk",
	},
	{
		Name:               "Spanish Latte",
		Category:           domain.CategoryCoffee,
		BasePrice:          php(130),
		TemperatureOptions: hotCold,
		Image:              "menus/spanish_latte.png",
		Description:        "Sweetened latte with condensed milk.",
		Ingredients:        "Espresso, milk, condensed milk",
	},
	{
		Name:               "Caramel Macchiato",
		Category:           domain.CategoryCoffee,
		BasePrice:          php(140),
		TemperatureOptions: hotCold,
		Image:              "menus/caramel_macchiato.png",
		Description:        "Vanilla-laced latte topped with caramel drizzle.",
		Ingredients:        "Espresso, milk, vanilla, caramel",
	},
	{
		Name:               "Mocha",
		Category:           domain.CategoryCoffee,
		BasePrice:          php(140),
		TemperatureOptions: hotCold,
		Image:              "menus/mocha.png",
		Description:        "Chocolate and espresso, topped with milk.",
		Ingredients:        "Espresso, milk, chocolate",
	},
	{
		Name:               "Matcha Latte",
		Category:           domain.CategoryNonCoffee,
		BasePrice:          php(130),
		TemperatureOptions: hotCold,
		Image:              "menus/matcha_latte.png",
		Description:        "Stone-ground matcha with milk.",
		Ingredients:        "Matcha, milk",
	},
	{
		Name:               "Chocolate",
		Category:           domain.CategoryNonCoffee,
		BasePrice:          php(120),
		TemperatureOptions: hotCold,
		Image:              "menus/chocolate.png",
		Description:        "Rich chocolate drink.",
		Ingredients:        "Chocolate, milk",
	},
	{
		Name:               "Strawberry Soda",
		Category:           domain.CategoryFruit,
		BasePrice:          php(100),
		TemperatureOptions: coldOnly,
		Image:              "menus/strawberry_soda.png",
		Description:        "Sparkling strawberry refresher.",
		Ingredients:        "Strawberry syrup, soda",
	},
	{
		Name:               "Green Apple Soda",
		Category:           domain.CategoryFruit,
		BasePrice:          php(100),
		TemperatureOptions: coldOnly,
		Image:              "menus/green_apple_soda.png",
		Description:        "Crisp green apple refresher.",
		Ingredients:        "Green apple syrup, soda",
	},
	{
		Name:               "Mango Shake",
		Category:           domain.CategoryMilkshake,
		BasePrice:          php(150),
		TemperatureOptions: nil,
		Image:              "menus/mango_shake.png",
		Description:        "Blended ripe mango shake.",
		Ingredients:        "Mango, milk, ice",
	},
	{
		Name:               "Strawberry Shake",
		Category:           domain.CategoryMilkshake,
		BasePrice:          php(150),
		TemperatureOptions: nil,
		Image:              "menus/strawberry_shake.png",
		Description:        "Blended strawberry shake.",
		Ingredients:        "Strawberry, milk, ice",
	},
}

// Default builds the catalog from the shop's fixed menu.
func Default() (*Catalog, error) {
	return New(menu)
}
