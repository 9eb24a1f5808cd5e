package seed

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"go.yaml.in/yaml/v3"

	"vitrina/internal/domain"
)

//go:embed fixtures/demo.yaml
var demoFixture []byte

type Fixture struct {
	Companies []CompanyFixture `yaml:"companies"`
}

type CompanyFixture struct {
	TaxID         string           `yaml:"taxId"`
	Name          string           `yaml:"name"`
	Establishment string           `yaml:"establishment"`
	EmissionPoint string           `yaml:"emissionPoint"`
	Sequence      int              `yaml:"sequence"`
	Products      []ProductFixture `yaml:"products"`
}

type ProductFixture struct {
	Name     string           `yaml:"name"`
	Code     string           `yaml:"code"`
	Variants []VariantFixture `yaml:"variants"`
}

type VariantFixture struct {
	SKU     string `yaml:"sku"`
	Barcode string `yaml:"barcode"`
	Color   string `yaml:"color"`
	Size    string `yaml:"size"`
	Price   string `yaml:"price"`
	Stock   int    `yaml:"stock"`
}

// DefaultFixture is the demo catalog: one boutique with a blouse and a pair of jeans.
func DefaultFixture() (*Fixture, error) {
	return ParseFixture(demoFixture)
}

func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	return ParseFixture(data)
}

func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Fixture) validate() error {
	if len(f.Companies) == 0 {
		return fmt.Errorf("fixture declares no companies")
	}
	for _, c := range f.Companies {
		if !domain.ValidTaxID(c.TaxID) {
			return fmt.Errorf("company %q: invalid tax id %q", c.Name, c.TaxID)
		}
		for _, p := range c.Products {
			for _, v := range p.Variants {
				if _, err := decimal.NewFromString(v.Price); err != nil {
					return fmt.Errorf("variant %s: invalid price %q", v.SKU, v.Price)
				}
			}
		}
	}
	return nil
}

func (c CompanyFixture) Company() domain.Company {
	return domain.Company{
		TaxID:         c.TaxID,
		Name:          c.Name,
		Establishment: c.Establishment,
		EmissionPoint: c.EmissionPoint,
		Sequence:      c.Sequence,
	}
}

func (p ProductFixture) CodePtr() *string {
	return optional(p.Code)
}

// Specs converts the variants. Prices were checked by ParseFixture.
func (p ProductFixture) Specs() []domain.VariantSpec {
	specs := make([]domain.VariantSpec, 0, len(p.Variants))
	for _, v := range p.Variants {
		specs = append(specs, domain.VariantSpec{
			SKU:     v.SKU,
			Barcode: optional(v.Barcode),
			Color:   optional(v.Color),
			Size:    optional(v.Size),
			Price:   decimal.RequireFromString(v.Price),
			Stock:   v.Stock,
		})
	}
	return specs
}
