package seed

import (
	"context"
	"fmt"
	"sort"
	"time"

	driver "github.com/go-sql-driver/mysql"

	"vitrina/internal/domain"
	apperrors "vitrina/internal/errors"
)

// fakeCatalog is an in-memory store with the same uniqueness rules as the MySQL schema.
type fakeCatalog struct {
	companies map[string]*domain.Company
	products  []*domain.Product
	variants  []domain.Variant
	seq       int
	clock     time.Time

	// beforeInsert runs once before the next product insert, to simulate a concurrent loader.
	beforeInsert func()
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		companies: map[string]*domain.Company{},
		clock:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeCatalog) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeCatalog) tick() time.Time {
	f.clock = f.clock.Add(time.Millisecond)
	return f.clock
}

func (f *fakeCatalog) Ensure(ctx context.Context, c domain.Company) (*domain.Company, bool, error) {
	if existing, ok := f.companies[c.TaxID]; ok {
		cp := *existing
		return &cp, false, nil
	}
	c.ID = f.nextID("company")
	f.companies[c.TaxID] = &c
	cp := c
	return &cp, true, nil
}

func (f *fakeCatalog) FindByCode(ctx context.Context, companyID, code string) (*domain.Product, error) {
	for _, p := range f.products {
		if p.CompanyID == companyID && p.Code != nil && *p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperrors.NewNotFoundError("product not found")
}

func (f *fakeCatalog) FindOldestByName(ctx context.Context, companyID, name string) (*domain.Product, error) {
	for _, p := range f.products {
		if p.CompanyID == companyID && p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperrors.NewNotFoundError("product not found")
}

func (f *fakeCatalog) FindWithVariants(ctx context.Context, companyID, productID string) (*domain.Product, error) {
	for _, p := range f.products {
		if p.CompanyID == companyID && p.ID == productID {
			cp := *p
			cp.Variants = []domain.Variant{}
			for _, v := range f.variants {
				if v.ProductID == productID {
					cp.Variants = append(cp.Variants, v)
				}
			}
			return &cp, nil
		}
	}
	return nil, apperrors.NewNotFoundError("product not found")
}

func (f *fakeCatalog) Insert(ctx context.Context, p *domain.Product) error {
	if hook := f.beforeInsert; hook != nil {
		f.beforeInsert = nil
		hook()
	}
	if p.Code != nil {
		if _, err := f.FindByCode(ctx, p.CompanyID, *p.Code); err == nil {
			return fmt.Errorf("inserting product: %w", &driver.MySQLError{Number: 1062, Message: "Duplicate entry"})
		}
	}
	p.ID = f.nextID("product")
	p.CreatedAt = f.tick()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	f.products = append(f.products, &cp)
	return nil
}

func (f *fakeCatalog) ListVariantSKUs(ctx context.Context, companyID, productID string) ([]string, error) {
	skus := []string{}
	for _, v := range f.variants {
		if v.CompanyID == companyID && v.ProductID == productID {
			skus = append(skus, v.SKU)
		}
	}
	sort.Strings(skus)
	return skus, nil
}

func (f *fakeCatalog) InsertVariants(ctx context.Context, variants []domain.Variant) (domain.BulkInsertResult, error) {
	result := domain.BulkInsertResult{Outcomes: []domain.RowOutcome{}}
	for _, v := range variants {
		if f.skuTaken(v.CompanyID, v.SKU) {
			result.Outcomes = append(result.Outcomes, domain.RowOutcome{SKU: v.SKU, Status: domain.InsertStatusSkipped})
			continue
		}
		v.ID = f.nextID("variant")
		v.CreatedAt = f.tick()
		f.variants = append(f.variants, v)
		result.Outcomes = append(result.Outcomes, domain.RowOutcome{SKU: v.SKU, VariantID: v.ID, Status: domain.InsertStatusInserted})
	}
	return result, nil
}

func (f *fakeCatalog) skuTaken(companyID, sku string) bool {
	for _, v := range f.variants {
		if v.CompanyID == companyID && v.SKU == sku {
			return true
		}
	}
	return false
}

func (f *fakeCatalog) CountVariantsByCompany(ctx context.Context, companyID string) (int, error) {
	n := 0
	for _, v := range f.variants {
		if v.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

type recordedVariants map[string]int

func (r recordedVariants) RecordSeedVariants(outcome string, n int) {
	r[outcome] += n
}
