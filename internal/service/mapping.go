package service

import (
	"cmp"
	"slices"
	"time"

	"github.com/abgdnv/gocatalog/internal/model"
	"github.com/abgdnv/gocatalog/internal/valuation"
	catalogv1 "github.com/abgdnv/gocatalog/pkg/api/catalog/v1"
	"github.com/abgdnv/gocatalog/pkg/messaging/events"
)

func toCategoryDto(c model.Category) catalogv1.Category {
	return catalogv1.Category{
		ID:        int64(c.ID),
		Name:      c.Name,
		Size:      c.Size.String(),
		Packaging: c.Packaging.String(),
		Version:   c.Version,
	}
}

func toProductDto(p model.Product) catalogv1.Product {
	return catalogv1.Product{
		ID:         int64(p.ID),
		Name:       p.Name,
		CategoryID: int64(p.CategoryID),
		Quantity:   p.Quantity,
		Price:      p.Price,
		Version:    p.Version,
	}
}

func toCategoryDtos(categories []model.Category) []catalogv1.Category {
	slices.SortFunc(categories, func(a, b model.Category) int { return cmp.Compare(a.ID, b.ID) })
	dtos := make([]catalogv1.Category, len(categories))
	for i, c := range categories {
		dtos[i] = toCategoryDto(c)
	}
	return dtos
}

func toProductDtos(products []model.Product) []catalogv1.Product {
	slices.SortFunc(products, func(a, b model.Product) int { return cmp.Compare(a.ID, b.ID) })
	dtos := make([]catalogv1.Product, len(products))
	for i, p := range products {
		dtos[i] = toProductDto(p)
	}
	return dtos
}

func toStockLineDtos(lines []valuation.StockLine) []catalogv1.StockLine {
	slices.SortFunc(lines, func(a, b valuation.StockLine) int { return cmp.Compare(a.ProductID, b.ProductID) })
	dtos := make([]catalogv1.StockLine, len(lines))
	for i, line := range lines {
		dtos[i] = catalogv1.StockLine{
			ProductID:    int64(line.ProductID),
			Name:         line.Name,
			CategoryName: line.CategoryName,
			Price:        line.Price,
			Quantity:     line.Quantity,
			Value:        line.Value,
		}
	}
	return dtos
}

func toPriceLineDtos(lines []valuation.PriceLine) []catalogv1.PriceLine {
	slices.SortFunc(lines, func(a, b valuation.PriceLine) int { return cmp.Compare(a.ProductID, b.ProductID) })
	dtos := make([]catalogv1.PriceLine, len(lines))
	for i, line := range lines {
		dtos[i] = catalogv1.PriceLine{
			ProductID:    int64(line.ProductID),
			Name:         line.Name,
			CategoryName: line.CategoryName,
			Price:        line.Price,
		}
	}
	return dtos
}

func categoryEvent(change events.Change, c model.Category, carrier map[string]string) events.CategoryChangedEvent {
	return events.CategoryChangedEvent{
		Carrier:    carrier,
		Change:     change,
		CategoryID: int64(c.ID),
		Name:       c.Name,
		Size:       c.Size.String(),
		Packaging:  c.Packaging.String(),
		Version:    c.Version,
		OccurredAt: time.Now().UTC(),
	}
}

func productEvent(change events.Change, p model.Product, carrier map[string]string) events.ProductChangedEvent {
	return events.ProductChangedEvent{
		Carrier:    carrier,
		Change:     change,
		ProductID:  int64(p.ID),
		Name:       p.Name,
		CategoryID: int64(p.CategoryID),
		Quantity:   p.Quantity,
		Price:      catalogv1.FormatAmount(p.Price),
		Version:    p.Version,
		OccurredAt: time.Now().UTC(),
	}
}
