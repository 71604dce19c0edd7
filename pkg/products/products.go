// Package products defines the loan product catalog and request-vs-product
// bounds validation.
package products

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Common errors
var (
	ErrEmptyCatalog     = errors.New("product catalog contains no products")
	ErrUnknownProduct   = errors.New("unknown loan product")
	ErrDuplicateProduct = errors.New("duplicate loan product name")
)

// Product describes a named loan product and its bounds.
type Product struct {
	Name              string   `mapstructure:"name" json:"name"`
	AnnualRatePercent float64  `mapstructure:"annualRatePercent" json:"annualRatePercent"`
	MinAmount         float64  `mapstructure:"minAmount" json:"minAmount"`
	MaxAmount         float64  `mapstructure:"maxAmount" json:"maxAmount"`
	MinTermMonths     int      `mapstructure:"minTermMonths" json:"minTermMonths"`
	MaxTermMonths     int      `mapstructure:"maxTermMonths" json:"maxTermMonths"`
	MinMonthlyIncome  float64  `mapstructure:"minMonthlyIncome" json:"minMonthlyIncome"`
	RequiredDocuments []string `mapstructure:"requiredDocuments" json:"requiredDocuments"`
}

// Catalog is the static set of loan products known to the advisor.
type Catalog struct {
	products []Product
	byName   map[string]int
}

// NewCatalog builds a catalog from a product list.
func NewCatalog(products []Product) (*Catalog, error) {
	if len(products) == 0 {
		return nil, ErrEmptyCatalog
	}

	byName := make(map[string]int, len(products))
	for i, product := range products {
		if _, exists := byName[product.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateProduct, product.Name)
		}
		byName[product.Name] = i
	}

	return &Catalog{products: products, byName: byName}, nil
}

// LoadCatalog reads the JSON product catalog at the given path. The file
// holds a top-level "products" list.
func LoadCatalog(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading product catalog, %s", err)
	}

	var products []Product
	if err := v.UnmarshalKey("products", &products); err != nil {
		return nil, fmt.Errorf("unable to decode product catalog, %s", err)
	}

	return NewCatalog(products)
}

// Find looks up a product by name.
func (c *Catalog) Find(name string) (Product, error) {
	i, ok := c.byName[name]
	if !ok {
		return Product{}, fmt.Errorf("%w: %q", ErrUnknownProduct, name)
	}
	return c.products[i], nil
}

// Names returns the product names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.products))
	for i, product := range c.products {
		names[i] = product.Name
	}
	return names
}

// Products returns the full product list in catalog order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// ValidateRequest checks a loan request against the product's bounds and
// returns human-readable warnings. An empty result means the request fits
// the product.
func ValidateRequest(product Product, principal float64, termMonths int, monthlyIncome float64) []string {
	var warnings []string

	if principal < product.MinAmount || principal > product.MaxAmount {
		warnings = append(warnings, fmt.Sprintf("loan amount %.0f is outside the product range %.0f - %.0f",
			principal, product.MinAmount, product.MaxAmount))
	}
	if termMonths < product.MinTermMonths || termMonths > product.MaxTermMonths {
		warnings = append(warnings, fmt.Sprintf("term of %d months is outside the product range %d - %d months",
			termMonths, product.MinTermMonths, product.MaxTermMonths))
	}
	if monthlyIncome < 0 {
		warnings = append(warnings, "monthly income cannot be negative")
	}

	return warnings
}
