package tier

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

var defaultCatalog = MustParse(defaultCatalogYAML)

// Catalog holds the cap table of every tier and the ordered product list.
// A Catalog is immutable after Parse; accessors return copies.
type Catalog struct {
	limits   map[Tier]Limits
	products []Product
}

// capValue decodes a numeric cap or the keyword "unlimited".
type capValue int64

func (c *capValue) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Value == "unlimited" {
		*c = capValue(Unlimited)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return err
	}
	if n < 0 || n > Unlimited {
		return fmt.Errorf("cap %d out of range", n)
	}
	*c = capValue(n)
	return nil
}

type catalogDocument struct {
	Tiers map[Tier]struct {
		Caps     map[Resource]capValue `yaml:"caps"`
		Features []Feature             `yaml:"features"`
	} `yaml:"tiers"`
	Products []Product `yaml:"products"`
}

// Parse decodes and validates a YAML catalog definition.
func Parse(data []byte) (*Catalog, error) {
	var doc catalogDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrInvalidCatalog, err)
	}

	c := &Catalog{
		limits:   make(map[Tier]Limits, len(All)),
		products: make([]Product, 0, len(doc.Products)),
	}

	for _, t := range All {
		def, ok := doc.Tiers[t]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingTier, t)
		}
		caps := make(map[Resource]int64, len(def.Caps))
		for _, res := range Resources {
			v, ok := def.Caps[res]
			if !ok {
				return nil, fmt.Errorf("%w: %s.%s", ErrMissingResource, t, res)
			}
			caps[res] = int64(v)
		}
		features := slices.Clone(def.Features)
		if features == nil {
			features = []Feature{}
		}
		c.limits[t] = Limits{Tier: t, Caps: caps, Features: features}
	}

	if err := validateMonotonic(c.limits); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(doc.Products))
	for _, p := range doc.Products {
		if _, ok := ParseTier(string(p.Tier)); !ok {
			return nil, fmt.Errorf("%w: product %q has unknown tier %q", ErrInvalidCatalog, p.ID, p.Tier)
		}
		if _, dup := seen[p.ID]; dup || p.ID == "" {
			return nil, fmt.Errorf("%w: duplicate or empty product id %q", ErrInvalidCatalog, p.ID)
		}
		if !p.Tier.IsPaid() && (p.PriceMonthly != 0 || p.PriceYearly != 0) {
			return nil, fmt.Errorf("%w: product %q", ErrFreeTierPurchasable, p.ID)
		}
		seen[p.ID] = struct{}{}
		c.products = append(c.products, p.clone())
	}

	return c, nil
}

// MustParse is like Parse but panics on an invalid catalog.
func MustParse(data []byte) *Catalog {
	c, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return c
}

// validateMonotonic checks that every numeric cap is non-decreasing and every
// feature granted to a tier is granted to all higher tiers.
func validateMonotonic(limits map[Tier]Limits) error {
	for i := 1; i < len(All); i++ {
		lower, higher := limits[All[i-1]], limits[All[i]]
		for _, res := range Resources {
			if lower.Caps[res] > higher.Caps[res] {
				return fmt.Errorf("%w: %s %s=%d > %s %s=%d", ErrNonMonotonicLimits,
					lower.Tier, res, lower.Caps[res], higher.Tier, res, higher.Caps[res])
			}
		}
		for _, f := range lower.Features {
			if !higher.Has(f) {
				return fmt.Errorf("%w: feature %s granted to %s but not %s", ErrNonMonotonicLimits, f, lower.Tier, higher.Tier)
			}
		}
	}
	return nil
}

// ListProducts returns the products in display order.
func (c *Catalog) ListProducts() []Product {
	out := make([]Product, len(c.products))
	for i, p := range c.products {
		out[i] = p.clone()
	}
	return out
}

// GetLimits returns the cap table of a tier. Unknown tiers get free limits.
func (c *Catalog) GetLimits(t Tier) Limits {
	l, ok := c.limits[t]
	if !ok {
		l = c.limits[Free]
	}
	return l.clone()
}

// ResolveProduct finds a product by bare id or by the "<id>-<period>" form.
// A suffix takes precedence over the period argument; an empty period means monthly.
func (c *Catalog) ResolveProduct(productID, period string) (Product, BillingPeriod, error) {
	id, suffix := splitProductID(productID)

	bp := suffix
	if bp == "" {
		var ok bool
		if bp, ok = ParsePeriod(period); !ok {
			return Product{}, "", fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
		}
	}

	for _, p := range c.products {
		if p.ID == id {
			return p.clone(), bp, nil
		}
	}
	return Product{}, "", fmt.Errorf("%w: %q", ErrUnknownProduct, productID)
}

// Default returns the embedded catalog.
func Default() *Catalog {
	return defaultCatalog
}

// ListProducts returns the embedded catalog's products.
func ListProducts() []Product {
	return defaultCatalog.ListProducts()
}

// GetLimits returns the embedded catalog's cap table for a tier.
func GetLimits(t Tier) Limits {
	return defaultCatalog.GetLimits(t)
}

// ResolveProduct resolves a product against the embedded catalog.
func ResolveProduct(productID, period string) (Product, BillingPeriod, error) {
	return defaultCatalog.ResolveProduct(productID, period)
}
