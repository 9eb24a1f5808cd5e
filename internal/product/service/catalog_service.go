package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"vitrina/internal/domain"
	apperrors "vitrina/internal/errors"
	"vitrina/internal/infrastructure/logger"
	"vitrina/internal/infrastructure/mysql"
)

type Repository interface {
	ListPage(ctx context.Context, companyID string, filter domain.ProductFilter) (*domain.ProductPage, error)
	FindByID(ctx context.Context, companyID, productID string) (*domain.Product, error)
	FindWithVariants(ctx context.Context, companyID, productID string) (*domain.Product, error)
	Insert(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	CountVariants(ctx context.Context, companyID, productID string) (int, error)
	Delete(ctx context.Context, companyID, productID string) error
}

type ConflictRecorder interface {
	RecordConflict(operation string)
}

type CatalogService struct {
	repo        Repository
	conflicts   ConflictRecorder
	maxPageSize int
	logger      *zap.Logger
}

// NewCatalogService clamps maxPageSize to [1, domain.MaxPageSize]. conflicts may be nil.
func NewCatalogService(repo Repository, conflicts ConflictRecorder, maxPageSize int, logger *zap.Logger) *CatalogService {
	if maxPageSize < domain.MinPageSize || maxPageSize > domain.MaxPageSize {
		maxPageSize = domain.MaxPageSize
	}
	return &CatalogService{
		repo:        repo,
		conflicts:   conflicts,
		maxPageSize: maxPageSize,
		logger:      logger,
	}
}

func (s *CatalogService) List(ctx context.Context, companyID string, filter domain.ProductFilter) (*domain.ProductPage, error) {
	var details []apperrors.ValidationDetail
	if filter.Page < 1 {
		details = append(details, apperrors.ValidationDetail{Field: "page", Message: "page must be at least 1"})
	}
	if filter.PageSize < domain.MinPageSize || filter.PageSize > s.maxPageSize {
		details = append(details, apperrors.ValidationDetail{
			Field:   "pageSize",
			Message: fmt.Sprintf("pageSize must be between %d and %d", domain.MinPageSize, s.maxPageSize),
		})
	}
	if len(details) == 0 && filter.OffsetOverflows() {
		details = append(details, apperrors.ValidationDetail{Field: "page", Message: "page is out of range"})
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid pagination", details...)
	}

	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.ListPage(ctx, companyID, filter)
}

func (s *CatalogService) GetOne(ctx context.Context, companyID, productID string) (*domain.Product, error) {
	return s.repo.FindWithVariants(ctx, companyID, productID)
}

func (s *CatalogService) Create(ctx context.Context, companyID, name string, code *string) (*domain.Product, error) {
	p := &domain.Product{
		CompanyID: companyID,
		Name:      domain.NormalizeName(name),
		Code:      domain.NormalizeCode(code),
	}
	if err := validateProduct(p); err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, p); err != nil {
		if mysql.IsDuplicateKey(err) {
			return nil, s.conflict(ctx, "create", p.Code)
		}
		return nil, err
	}

	p.Variants = []domain.Variant{}
	return p, nil
}

func (s *CatalogService) Update(ctx context.Context, companyID, productID string, patch domain.ProductPatch) (*domain.Product, bool, error) {
	current, err := s.repo.FindByID(ctx, companyID, productID)
	if err != nil {
		return nil, false, err
	}

	next := *current
	changed := false

	if patch.Name != nil {
		name := domain.NormalizeName(*patch.Name)
		if name != current.Name {
			next.Name = name
			changed = true
		}
	}

	if patch.CodeSet {
		code := domain.NormalizeCode(patch.Code)
		if !domain.SameCode(code, current.Code) {
			next.Code = code
			changed = true
		}
	}

	if !changed {
		return current, false, nil
	}

	if err := validateProduct(&next); err != nil {
		return nil, false, err
	}

	if err := s.repo.Update(ctx, &next); err != nil {
		if mysql.IsDuplicateKey(err) {
			return nil, false, s.conflict(ctx, "update", next.Code)
		}
		return nil, false, err
	}

	return &next, true, nil
}

// Remove deletes a product that owns no variants. A variant added between the count and the
// delete makes the foreign key reject the delete and that storage error is returned as is.
func (s *CatalogService) Remove(ctx context.Context, companyID, productID string) error {
	if _, err := s.repo.FindByID(ctx, companyID, productID); err != nil {
		return err
	}

	n, err := s.repo.CountVariants(ctx, companyID, productID)
	if err != nil {
		return err
	}
	if n > 0 {
		if s.conflicts != nil {
			s.conflicts.RecordConflict("remove")
		}
		return apperrors.NewConflictError(fmt.Sprintf("product has %d variant(s) and cannot be removed", n))
	}

	err = s.repo.Delete(ctx, companyID, productID)
	if mysql.IsRowReferenced(err) {
		logger.FromContext(ctx, s.logger).Warn("variant added while removing product",
			zap.String("productId", productID),
			zap.Error(err),
		)
	}
	return err
}

func (s *CatalogService) conflict(ctx context.Context, operation string, code *string) error {
	if s.conflicts != nil {
		s.conflicts.RecordConflict(operation)
	}
	logger.FromContext(ctx, s.logger).Info("product code conflict",
		zap.String("operation", operation),
		zap.Stringp("code", code),
	)
	if code == nil {
		return apperrors.NewConflictError("product already exists")
	}
	return apperrors.NewConflictError(fmt.Sprintf("product code %s already exists", *code))
}

func validateProduct(p *domain.Product) error {
	if details := domain.ValidateProductFields(p.Name, p.Code); len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
