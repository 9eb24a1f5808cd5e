package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"vitrina/internal/domain"
	apperrors "vitrina/internal/errors"
	"vitrina/internal/infrastructure/logger"
	"vitrina/internal/infrastructure/mysql"
)

type Repository interface {
	FindByCode(ctx context.Context, companyID, code string) (*domain.Product, error)
	FindOldestByName(ctx context.Context, companyID, name string) (*domain.Product, error)
	FindWithVariants(ctx context.Context, companyID, productID string) (*domain.Product, error)
	Insert(ctx context.Context, p *domain.Product) error
	ListVariantSKUs(ctx context.Context, companyID, productID string) ([]string, error)
	InsertVariants(ctx context.Context, variants []domain.Variant) (domain.BulkInsertResult, error)
}

type VariantRecorder interface {
	RecordSeedVariants(outcome string, n int)
}

type UpsertResult struct {
	Product  *domain.Product
	Created  bool
	Variants domain.BulkInsertResult
}

// Upserter loads a product and its variants idempotently: running it twice with the same input
// leaves the catalog as running it once. Existing variants are never modified.
type Upserter struct {
	repo     Repository
	recorder VariantRecorder
	logger   *zap.Logger
}

// NewUpserter accepts a nil recorder.
func NewUpserter(repo Repository, recorder VariantRecorder, logger *zap.Logger) *Upserter {
	return &Upserter{repo: repo, recorder: recorder, logger: logger}
}

func (u *Upserter) UpsertProductWithVariants(
	ctx context.Context,
	companyID string,
	name string,
	code *string,
	specs []domain.VariantSpec,
) (*UpsertResult, error) {
	name = domain.NormalizeName(name)
	code = domain.NormalizeCode(code)
	if err := validateInput(name, code, specs); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx, u.logger).With(zap.String("companyId", companyID), zap.String("name", name))

	product, err := u.lookup(ctx, companyID, name, code)
	if err != nil {
		return nil, err
	}

	created := false
	if product == nil {
		candidate := &domain.Product{CompanyID: companyID, Name: name, Code: code}
		err := u.repo.Insert(ctx, candidate)
		switch {
		case err == nil:
			product, created = candidate, true
		case mysql.IsDuplicateKey(err):
			// another loader created it first; reconcile against theirs
			log.Info("product insert lost race, reconciling", zap.Stringp("code", code))
			product, err = u.lookup(ctx, companyID, name, code)
			if err != nil {
				return nil, err
			}
			if product == nil {
				return nil, fmt.Errorf("reloading product after duplicate key: %w", apperrors.NewNotFoundError("product not found"))
			}
		default:
			return nil, err
		}
	}

	owned := map[string]struct{}{}
	if !created {
		skus, err := u.repo.ListVariantSKUs(ctx, companyID, product.ID)
		if err != nil {
			return nil, err
		}
		for _, sku := range skus {
			owned[sku] = struct{}{}
		}
	}

	outcomes := make([]domain.RowOutcome, len(specs))
	var pending []domain.Variant
	var pendingIdx []int
	for i, spec := range specs {
		if _, ok := owned[spec.SKU]; ok {
			outcomes[i] = domain.RowOutcome{SKU: spec.SKU, Status: domain.InsertStatusSkipped}
			continue
		}
		pending = append(pending, spec.ToVariant(companyID, product.ID))
		pendingIdx = append(pendingIdx, i)
	}

	if len(pending) > 0 {
		inserted, err := u.repo.InsertVariants(ctx, pending)
		if err != nil {
			return nil, err
		}
		for j, outcome := range inserted.Outcomes {
			outcomes[pendingIdx[j]] = outcome
		}
	}

	final, err := u.repo.FindWithVariants(ctx, companyID, product.ID)
	if err != nil {
		return nil, err
	}

	result := &UpsertResult{
		Product:  final,
		Created:  created,
		Variants: domain.BulkInsertResult{Outcomes: outcomes},
	}

	if u.recorder != nil {
		u.recorder.RecordSeedVariants("inserted", len(result.Variants.Inserted()))
		u.recorder.RecordSeedVariants("skipped", len(result.Variants.Skipped()))
	}

	log.Debug("product upserted",
		zap.String("productId", final.ID),
		zap.Bool("created", created),
		zap.Int("inserted", len(result.Variants.Inserted())),
		zap.Int("skipped", len(result.Variants.Skipped())),
	)

	return result, nil
}

// lookup returns (nil, nil) when no product matches.
func (u *Upserter) lookup(ctx context.Context, companyID, name string, code *string) (*domain.Product, error) {
	var (
		p   *domain.Product
		err error
	)
	if code != nil {
		p, err = u.repo.FindByCode(ctx, companyID, *code)
	} else {
		p, err = u.repo.FindOldestByName(ctx, companyID, name)
	}
	if _, ok := apperrors.IsNotFoundError(err); ok {
		return nil, nil
	}
	return p, err
}

func validateInput(name string, code *string, specs []domain.VariantSpec) error {
	details := domain.ValidateProductFields(name, code)
	for i, spec := range specs {
		details = append(details, spec.Validate(fmt.Sprintf("variants[%d]", i))...)
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid product input", details...)
	}
	return nil
}
