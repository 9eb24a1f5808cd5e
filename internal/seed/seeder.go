package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"vitrina/internal/domain"
)

type CompanyStore interface {
	Ensure(ctx context.Context, company domain.Company) (*domain.Company, bool, error)
}

type VariantCounter interface {
	CountVariantsByCompany(ctx context.Context, companyID string) (int, error)
}

type CompanySummary struct {
	TaxID            string
	CompanyID        string
	CompanyCreated   bool
	ProductsCreated  int
	ProductsExisting int
	VariantsInserted int
	VariantsSkipped  int
	TotalVariants    int
}

// Seeder applies a fixture: companies are ensured by tax id and never modified, then every
// product is upserted.
type Seeder struct {
	companies CompanyStore
	counter   VariantCounter
	upserter  *Upserter
	logger    *zap.Logger
}

func NewSeeder(companies CompanyStore, counter VariantCounter, upserter *Upserter, logger *zap.Logger) *Seeder {
	return &Seeder{
		companies: companies,
		counter:   counter,
		upserter:  upserter,
		logger:    logger,
	}
}

func (s *Seeder) Run(ctx context.Context, f *Fixture) ([]CompanySummary, error) {
	summaries := make([]CompanySummary, 0, len(f.Companies))

	for _, cf := range f.Companies {
		company, created, err := s.companies.Ensure(ctx, cf.Company())
		if err != nil {
			return summaries, fmt.Errorf("ensuring company %s: %w", cf.TaxID, err)
		}

		summary := CompanySummary{TaxID: company.TaxID, CompanyID: company.ID, CompanyCreated: created}

		for _, pf := range cf.Products {
			result, err := s.upserter.UpsertProductWithVariants(ctx, company.ID, pf.Name, pf.CodePtr(), pf.Specs())
			if err != nil {
				return summaries, fmt.Errorf("upserting product %q: %w", pf.Name, err)
			}
			if result.Created {
				summary.ProductsCreated++
			} else {
				summary.ProductsExisting++
			}
			summary.VariantsInserted += len(result.Variants.Inserted())
			summary.VariantsSkipped += len(result.Variants.Skipped())
		}

		total, err := s.counter.CountVariantsByCompany(ctx, company.ID)
		if err != nil {
			return summaries, err
		}
		summary.TotalVariants = total

		s.logger.Info("company seeded",
			zap.String("taxId", summary.TaxID),
			zap.String("companyId", summary.CompanyID),
			zap.Bool("companyCreated", summary.CompanyCreated),
			zap.Int("productsCreated", summary.ProductsCreated),
			zap.Int("productsExisting", summary.ProductsExisting),
			zap.Int("variantsInserted", summary.VariantsInserted),
			zap.Int("variantsSkipped", summary.VariantsSkipped),
			zap.Int("totalVariants", summary.TotalVariants),
		)

		summaries = append(summaries, summary)
	}

	return summaries, nil
}
