package catalog

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// Configuration holds the option values a requester picked, e.g. {"ram": "16GB", "gpu": true}.
type Configuration map[string]any

func (c Configuration) String(key string) string {
	s, _ := c[key].(string)
	return s
}

func (c Configuration) Bool(key string) bool {
	b, _ := c[key].(bool)
	return b
}

func (c Configuration) Clone() Configuration {
	return maps.Clone(c)
}

var (
	ErrOptionNotOffered = errors.New("catalog: configuration option not offered by product")
	ErrInvalidOption    = errors.New("catalog: invalid configuration value")
)

var (
	ramSurcharge = map[string]int64{
		"16GB": 1000,
		"32GB": 2000,
	}
	storageSurcharge = map[string]int64{
		"1TB": 1500,
		"2TB": 3000,
	}
	gpuSurcharge int64 = 5000

	// Sizes without a surcharge are the base configuration.
	ramSizes     = []string{"8GB", "16GB", "32GB"}
	storageSizes = []string{"512GB", "1TB", "2TB"}
)

// Configure checks cfg against the options p offers. Every key must be
// enabled in ConfigOptions; ram and storage take one of the known sizes and
// every other option is a bool.
func (p *Product) Configure(cfg Configuration) error {
	for key, value := range cfg {
		if !p.ConfigOptions[key] {
			return fmt.Errorf("%w: %q", ErrOptionNotOffered, key)
		}
		switch key {
		case "ram":
			if err := checkSize(key, value, ramSizes); err != nil {
				return err
			}
		case "storage":
			if err := checkSize(key, value, storageSizes); err != nil {
				return err
			}
		default:
			if _, ok := value.(bool); !ok {
				return fmt.Errorf("%w: %s must be true or false", ErrInvalidOption, key)
			}
		}
	}
	return nil
}

func checkSize(key string, value any, sizes []string) error {
	s, ok := value.(string)
	if !ok || !slices.Contains(sizes, s) {
		return fmt.Errorf("%w: %s must be one of %v", ErrInvalidOption, key, sizes)
	}
	return nil
}

// Surcharge is the per-unit extra cost of cfg. Only hardware is configurable.
func Surcharge(category Category, cfg Configuration) decimal.Decimal {
	if category != CategoryHardware || len(cfg) == 0 {
		return decimal.Zero
	}
	extra := ramSurcharge[cfg.String("ram")] + storageSurcharge[cfg.String("storage")]
	if cfg.Bool("gpu") {
		extra += gpuSurcharge
	}
	return decimal.NewFromInt(extra)
}

// Quote prices quantity units of p configured with cfg.
func Quote(p *Product, cfg Configuration, quantity int) decimal.Decimal {
	unit := p.Price.Add(Surcharge(p.Category, cfg))
	return unit.Mul(decimal.NewFromInt(int64(quantity)))
}
