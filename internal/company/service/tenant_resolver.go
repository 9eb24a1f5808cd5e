package service

import (
	"context"

	"go.uber.org/zap"

	"vitrina/internal/domain"
	apperrors "vitrina/internal/errors"
	"vitrina/internal/infrastructure/logger"
)

type CompanyRepository interface {
	FindByTaxID(ctx context.Context, taxID string) (*domain.Company, error)
}

type TenantCache interface {
	Get(ctx context.Context, taxID string) (companyID string, ok bool, err error)
	Set(ctx context.Context, taxID, companyID string) error
}

// TenantResolver turns the tax id a caller presents into the company id that scopes every catalog query.
type TenantResolver struct {
	repo   CompanyRepository
	cache  TenantCache
	logger *zap.Logger
}

// NewTenantResolver accepts a nil cache.
func NewTenantResolver(repo CompanyRepository, cache TenantCache, logger *zap.Logger) *TenantResolver {
	return &TenantResolver{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func (r *TenantResolver) Resolve(ctx context.Context, taxID string) (string, error) {
	log := logger.FromContext(ctx, r.logger)

	if r.cache != nil {
		companyID, ok, err := r.cache.Get(ctx, taxID)
		if err != nil {
			log.Warn("tenant cache read failed", zap.String("taxId", taxID), zap.Error(err))
		} else if ok {
			return companyID, nil
		}
	}

	company, err := r.repo.FindByTaxID(ctx, taxID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return "", apperrors.NewTenantNotFoundError(taxID)
		}
		return "", apperrors.NewInternalError("resolving tenant", err)
	}

	// misses are never cached so a newly onboarded company is visible at once
	if r.cache != nil {
		if err := r.cache.Set(ctx, taxID, company.ID); err != nil {
			log.Warn("tenant cache write failed", zap.String("taxId", taxID), zap.Error(err))
		}
	}

	return company.ID, nil
}
