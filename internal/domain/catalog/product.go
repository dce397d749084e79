package catalog

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = errors.New("catalog: product not found")
	ErrNameRequired     = errors.New("catalog: name is required")
	ErrDescription      = errors.New("catalog: description is required")
	ErrInvalidCategory  = errors.New("catalog: unknown category")
	ErrNegativePrice    = errors.New("catalog: price must be zero or greater")
	ErrNegativeQuantity = errors.New("catalog: quantity must be zero or greater")
	ErrCategoryChanged  = errors.New("catalog: category cannot change after creation")
)

type Category string

const (
	CategorySoftware Category = "Software"
	CategoryHardware Category = "Hardware"
	CategoryPrinters Category = "Printers"
)

func (c Category) Valid() bool {
	switch c {
	case CategorySoftware, CategoryHardware, CategoryPrinters:
		return true
	}
	return false
}

// ConfigOptions lists which configuration capabilities a product offers (ram, storage, gpu, warranty, support).
type ConfigOptions map[string]bool

type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Category      Category        `json:"category"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	Description   string          `json:"description"`
	ConfigOptions ConfigOptions   `json:"configOptions"`
}

// Validate checks the presence and format rules every stored product satisfies.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	if !p.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, p.Category)
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	if p.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if strings.TrimSpace(p.Description) == "" {
		return ErrDescription
	}
	return nil
}

// Replace validates next as a full replacement of p.
func (p *Product) Replace(next *Product) error {
	if err := next.Validate(); err != nil {
		return err
	}
	if next.Category != p.Category {
		return ErrCategoryChanged
	}
	return nil
}

func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	clone.ConfigOptions = maps.Clone(p.ConfigOptions)
	return &clone
}
