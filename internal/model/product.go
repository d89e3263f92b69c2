package model

import (
	"fmt"
	"strings"

	catalogerrors "github.com/abgdnv/gocatalog/internal/errors"
	"github.com/shopspring/decimal"
)

// ProductID identifies a product. Zero is never assigned.
type ProductID int64

// Product is a stocked item. CategoryID is a weak reference and may be NoCategory.
type Product struct {
	ID         ProductID
	Name       string
	CategoryID CategoryID
	Quantity   int64
	Price      decimal.Decimal
	Version    int64
}

// Validate checks the product invariants and normalizes the name.
func (p *Product) Validate() error {
	name, err := ValidateName(p.Name)
	if err != nil {
		return err
	}
	if err := ValidateQuantity(p.Quantity); err != nil {
		return err
	}
	if err := ValidatePrice(p.Price); err != nil {
		return err
	}
	if p.CategoryID < NoCategory {
		return fmt.Errorf("%w: invalid category reference %d", catalogerrors.ErrValidation, p.CategoryID)
	}
	p.Name = name
	return nil
}

// ValidateName returns the trimmed name, or an error if nothing is left.
func ValidateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: name must not be empty", catalogerrors.ErrValidation)
	}
	return trimmed, nil
}

func ValidateQuantity(quantity int64) error {
	if quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative, got %d", catalogerrors.ErrValidation, quantity)
	}
	return nil
}

func ValidatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative, got %s", catalogerrors.ErrValidation, price.String())
	}
	return nil
}
