// Package valuation derives stock lines and totals from catalog snapshots.
// All functions are pure and never modify their inputs.
package valuation

import (
	"strings"

	"github.com/abgdnv/gocatalog/internal/model"
	"github.com/shopspring/decimal"
)

// StockLine is one product's contribution to the stock valuation.
type StockLine struct {
	ProductID    model.ProductID
	Name         string
	CategoryName string
	Price        decimal.Decimal
	Quantity     int64
	Value        decimal.Decimal
}

// PriceLine is one row of the price list.
type PriceLine struct {
	ProductID    model.ProductID
	Name         string
	CategoryName string
	Price        decimal.Decimal
}

// ListAll returns one stock line per product.
// CategoryName is empty for products without a resolvable category.
func ListAll(products []model.Product, categories []model.Category) []StockLine {
	names := categoryNames(categories)
	lines := make([]StockLine, 0, len(products))
	for _, p := range products {
		lines = append(lines, StockLine{
			ProductID:    p.ID,
			Name:         p.Name,
			CategoryName: names[p.CategoryID],
			Price:        p.Price,
			Quantity:     p.Quantity,
			Value:        p.Price.Mul(decimal.NewFromInt(p.Quantity)),
		})
	}
	return lines
}

// FilterByNameContains keeps the lines whose product name contains substring, ignoring case.
// Surrounding whitespace is ignored, so a blank substring keeps every line.
func FilterByNameContains(lines []StockLine, substring string) []StockLine {
	needle := strings.ToLower(strings.TrimSpace(substring))
	filtered := make([]StockLine, 0, len(lines))
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line.Name), needle) {
			filtered = append(filtered, line)
		}
	}
	return filtered
}

// TotalValue sums the value of every line. An empty input yields zero.
func TotalValue(lines []StockLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Value)
	}
	return total
}

// PriceList returns the current unit price of every product.
func PriceList(products []model.Product, categories []model.Category) []PriceLine {
	names := categoryNames(categories)
	lines := make([]PriceLine, 0, len(products))
	for _, p := range products {
		lines = append(lines, PriceLine{
			ProductID:    p.ID,
			Name:         p.Name,
			CategoryName: names[p.CategoryID],
			Price:        p.Price,
		})
	}
	return lines
}

func categoryNames(categories []model.Category) map[model.CategoryID]string {
	names := make(map[model.CategoryID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names
}
