package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func laptop() *Product {
	return &Product{
		ID:            2,
		Name:          "Dell XPS 15",
		Category:      CategoryHardware,
		Price:         decimal.NewFromInt(15000),
		Quantity:      25,
		Description:   "High-performance laptop for developers",
		ConfigOptions: ConfigOptions{"ram": true, "storage": true, "gpu": true},
	}
}

func TestQuoteHardwareSurcharges(t *testing.T) {
	cases := []struct {
		name string
		cfg  Configuration
		qty  int
		want int64
	}{
		{"base", nil, 1, 15000},
		{"ram 16GB", Configuration{"ram": "16GB"}, 1, 16000},
		{"ram 32GB", Configuration{"ram": "32GB"}, 1, 17000},
		{"storage 1TB", Configuration{"storage": "1TB"}, 1, 16500},
		{"storage 2TB", Configuration{"storage": "2TB"}, 1, 18000},
		{"gpu", Configuration{"gpu": true}, 1, 20000},
		{"gpu off", Configuration{"gpu": false}, 1, 15000},
		{"unknown sizes", Configuration{"ram": "8GB", "storage": "512GB"}, 1, 15000},
		{"everything times two", Configuration{"ram": "32GB", "storage": "2TB", "gpu": true}, 2, 50000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Quote(laptop(), tc.cfg, tc.qty)
			assert.True(t, got.Equal(decimal.NewFromInt(tc.want)), "got %s", got)
		})
	}
}

func TestQuoteIgnoresConfigurationOutsideHardware(t *testing.T) {
	p := laptop()
	p.Category = CategorySoftware
	p.Price = decimal.NewFromInt(20000)

	got := Quote(p, Configuration{"ram": "32GB", "gpu": true, "support": true}, 3)
	assert.True(t, got.Equal(decimal.NewFromInt(60000)), "got %s", got)
}

func TestValidate(t *testing.T) {
	require.NoError(t, laptop().Validate())

	p := laptop()
	p.Name = ""
	assert.ErrorIs(t, p.Validate(), ErrNameRequired)

	p = laptop()
	p.Category = "Furniture"
	assert.ErrorIs(t, p.Validate(), ErrInvalidCategory)

	p = laptop()
	p.Price = decimal.NewFromInt(-1)
	assert.ErrorIs(t, p.Validate(), ErrNegativePrice)

	p = laptop()
	p.Quantity = -1
	assert.ErrorIs(t, p.Validate(), ErrNegativeQuantity)

	p = laptop()
	p.Description = " "
	assert.ErrorIs(t, p.Validate(), ErrDescription)
}

func TestReplaceKeepsCategory(t *testing.T) {
	current := laptop()

	next := laptop()
	next.Quantity = 1
	assert.NoError(t, current.Replace(next))

	next.Category = CategoryPrinters
	assert.ErrorIs(t, current.Replace(next), ErrCategoryChanged)
}

func TestCloneIsDeep(t *testing.T) {
	p := laptop()
	c := p.Clone()
	c.ConfigOptions["warranty"] = true
	assert.NotContains(t, p.ConfigOptions, "warranty")

	var nilProduct *Product
	assert.Nil(t, nilProduct.Clone())
}

func TestConfigureAcceptsOfferedOptions(t *testing.T) {
	p := laptop()
	assert.NoError(t, p.Configure(nil))
	assert.NoError(t, p.Configure(Configuration{"ram": "8GB", "storage": "512GB", "gpu": false}))
	assert.NoError(t, p.Configure(Configuration{"ram": "32GB", "storage": "2TB", "gpu": true}))
}

func TestConfigureRejectsOptionsTheProductLacks(t *testing.T) {
	p := laptop()
	p.ConfigOptions = ConfigOptions{"ram": true, "gpu": false}

	cases := map[string]Configuration{
		"disabled gpu":  {"gpu": true},
		"missing key":   {"storage": "2TB"},
		"unknown key":   {"bogus": 42},
		"mixed request": {"ram": "16GB", "gpu": true, "storage": "2TB", "bogus": 42},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, p.Configure(cfg), ErrOptionNotOffered)
		})
	}
}

func TestConfigureRejectsBadValues(t *testing.T) {
	p := laptop()
	p.ConfigOptions["warranty"] = true

	cases := map[string]Configuration{
		"ram size":        {"ram": "64GB"},
		"ram type":        {"ram": 16},
		"storage size":    {"storage": "4TB"},
		"gpu as string":   {"gpu": "yes"},
		"warranty as int": {"warranty": 1},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, p.Configure(cfg), ErrInvalidOption)
		})
	}
}

func TestFilterMatches(t *testing.T) {
	p := laptop()
	assert.True(t, Filter{}.Matches(p))
	assert.True(t, Filter{Search: "dell"}.Matches(p))
	assert.True(t, Filter{Search: " DEVELOPERS "}.Matches(p))
	assert.True(t, Filter{Search: "hard"}.Matches(p))
	assert.True(t, Filter{Category: CategoryHardware, Search: "xps"}.Matches(p))
	assert.False(t, Filter{Category: CategorySoftware}.Matches(p))
	assert.False(t, Filter{Search: "printer"}.Matches(p))
	assert.False(t, Filter{}.Matches(nil))

	assert.NoError(t, Filter{Category: CategoryPrinters}.Validate())
	assert.ErrorIs(t, Filter{Category: "All"}.Validate(), ErrInvalidCategory)
}
