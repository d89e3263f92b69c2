// Package model defines the records kept by the catalog.
package model

import (
	"fmt"
	"strings"

	catalogerrors "github.com/abgdnv/gocatalog/internal/errors"
)

// CategoryID identifies a category. Zero is never assigned.
type CategoryID int64

// NoCategory is the explicit "none" reference a product may carry.
const NoCategory CategoryID = 0

// Size of the goods in a category.
type Size int

const (
	SizeSmall Size = iota + 1
	SizeMedium
	SizeLarge
)

var sizeNames = map[Size]string{
	SizeSmall:  "Small",
	SizeMedium: "Medium",
	SizeLarge:  "Large",
}

func (s Size) String() string {
	if name, ok := sizeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Size(%d)", int(s))
}

// Valid reports whether s is one of the known sizes.
func (s Size) Valid() bool {
	_, ok := sizeNames[s]
	return ok
}

// ParseSize converts a size name, ignoring case, into a Size.
func ParseSize(v string) (Size, error) {
	for size, name := range sizeNames {
		if strings.EqualFold(strings.TrimSpace(v), name) {
			return size, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown size %q", catalogerrors.ErrValidation, v)
}

// Packaging of the goods in a category.
type Packaging int

const (
	PackagingCan Packaging = iota + 1
	PackagingGlass
	PackagingPlastic
	PackagingUnspecified
)

var packagingNames = map[Packaging]string{
	PackagingCan:         "Can",
	PackagingGlass:       "Glass",
	PackagingPlastic:     "Plastic",
	PackagingUnspecified: "Unspecified",
}

func (p Packaging) String() string {
	if name, ok := packagingNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Packaging(%d)", int(p))
}

// Valid reports whether p is one of the known packagings.
func (p Packaging) Valid() bool {
	_, ok := packagingNames[p]
	return ok
}

// ParsePackaging converts a packaging name, ignoring case, into a Packaging.
func ParsePackaging(v string) (Packaging, error) {
	for packaging, name := range packagingNames {
		if strings.EqualFold(strings.TrimSpace(v), name) {
			return packaging, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown packaging %q", catalogerrors.ErrValidation, v)
}

// Category groups products sharing a size and packaging.
// Version is bumped on every replace and is informational only.
type Category struct {
	ID        CategoryID
	Name      string
	Size      Size
	Packaging Packaging
	Version   int64
}

// Validate checks the category invariants and normalizes the name.
func (c *Category) Validate() error {
	name, err := ValidateName(c.Name)
	if err != nil {
		return err
	}
	if !c.Size.Valid() {
		return fmt.Errorf("%w: invalid size %d", catalogerrors.ErrValidation, int(c.Size))
	}
	if !c.Packaging.Valid() {
		return fmt.Errorf("%w: invalid packaging %d", catalogerrors.ErrValidation, int(c.Packaging))
	}
	c.Name = name
	return nil
}
