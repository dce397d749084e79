// Package seed loads the starting product catalog from YAML.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/Zhima-Mochi/procurement-portal/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// File is the on-disk shape of a seed catalog.
type File struct {
	Version  string    `yaml:"version"`
	Products []Product `yaml:"products"`
}

// Product keeps the price as text so decimal amounts survive YAML decoding.
type Product struct {
	ID            int64           `yaml:"id"`
	Name          string          `yaml:"name"`
	Category      string          `yaml:"category"`
	Price         string          `yaml:"price"`
	Quantity      int             `yaml:"quantity"`
	Description   string          `yaml:"description"`
	ConfigOptions map[string]bool `yaml:"configOptions"`
}

// Default returns the built-in catalog.
func Default() ([]*catalog.Product, error) {
	return Parse(defaultCatalog)
}

// LoadFile loads and parses a seed catalog from path.
func LoadFile(path string) ([]*catalog.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes data and validates every product. Products without an id are
// numbered after the highest explicit id.
func Parse(data []byte) ([]*catalog.Product, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("seed: parse yaml: %w", err)
	}
	applyDefaults(&f)

	out := make([]*catalog.Product, 0, len(f.Products))
	seen := make(map[int64]bool, len(f.Products))
	for i, doc := range f.Products {
		p, err := doc.toProduct()
		if err != nil {
			return nil, fmt.Errorf("seed: product %d: %w", i, err)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("seed: product %d: duplicate id %d", i, p.ID)
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out, nil
}

func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}
	var next int64
	for _, p := range f.Products {
		next = max(next, p.ID)
	}
	for i := range f.Products {
		if f.Products[i].ID == 0 {
			next++
			f.Products[i].ID = next
		}
		if f.Products[i].Price == "" {
			f.Products[i].Price = "0"
		}
	}
}

func (d Product) toProduct() (*catalog.Product, error) {
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return nil, fmt.Errorf("price %q: %w", d.Price, err)
	}
	p := &catalog.Product{
		ID:            d.ID,
		Name:          d.Name,
		Category:      catalog.Category(d.Category),
		Price:         price,
		Quantity:      d.Quantity,
		Description:   d.Description,
		ConfigOptions: catalog.ConfigOptions(d.ConfigOptions),
	}
	if p.ConfigOptions == nil {
		p.ConfigOptions = catalog.ConfigOptions{}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
