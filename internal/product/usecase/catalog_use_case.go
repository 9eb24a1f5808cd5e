package usecase

import (
	"context"
	"io"

	"go.uber.org/zap"

	"vitrina/internal/domain"
	"vitrina/internal/dto"
	"vitrina/internal/events"
	"vitrina/internal/infrastructure/logger"
	"vitrina/internal/seed"
)

type TenantResolver interface {
	Resolve(ctx context.Context, taxID string) (string, error)
}

type CatalogService interface {
	List(ctx context.Context, companyID string, filter domain.ProductFilter) (*domain.ProductPage, error)
	GetOne(ctx context.Context, companyID, productID string) (*domain.Product, error)
	Create(ctx context.Context, companyID, name string, code *string) (*domain.Product, error)
	Update(ctx context.Context, companyID, productID string, patch domain.ProductPatch) (*domain.Product, bool, error)
	Remove(ctx context.Context, companyID, productID string) error
}

type Importer interface {
	Import(ctx context.Context, companyID, filename string, r io.Reader) (*seed.ImportResult, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type ListQuery struct {
	TaxID    string
	Search   string
	Page     int
	PageSize int
}

// CatalogUseCase resolves the tenant of every request before touching the catalog.
type CatalogUseCase struct {
	tenants   TenantResolver
	service   CatalogService
	importer  Importer
	publisher EventPublisher
	logger    *zap.Logger
}

func NewCatalogUseCase(
	tenants TenantResolver,
	service CatalogService,
	importer Importer,
	publisher EventPublisher,
	logger *zap.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		tenants:   tenants,
		service:   service,
		importer:  importer,
		publisher: publisher,
		logger:    logger,
	}
}

func (uc *CatalogUseCase) ListProducts(ctx context.Context, q ListQuery) (*dto.ProductListResponse, error) {
	companyID, err := uc.tenants.Resolve(ctx, q.TaxID)
	if err != nil {
		return nil, err
	}

	page, err := uc.service.List(ctx, companyID, domain.ProductFilter{
		Search:   q.Search,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		return nil, err
	}

	items := make([]dto.ProductListItemDTO, 0, len(page.Items))
	for _, p := range page.Items {
		variants := make([]dto.VariantSummaryDTO, 0, len(p.Variants))
		for _, v := range p.Variants {
			variants = append(variants, dto.VariantSummaryDTO{
				ID:    v.ID,
				SKU:   v.SKU,
				Color: v.Color,
				Size:  v.Size,
				Price: v.Price.StringFixed(2),
				Stock: v.Stock,
			})
		}
		items = append(items, dto.ProductListItemDTO{ProductDTO: toProductDTO(p), Variants: variants})
	}

	return &dto.ProductListResponse{
		Items:    items,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
		Pages:    page.Pages(),
	}, nil
}

func (uc *CatalogUseCase) GetProduct(ctx context.Context, taxID, productID string) (*dto.ProductDetailDTO, error) {
	companyID, err := uc.tenants.Resolve(ctx, taxID)
	if err != nil {
		return nil, err
	}

	p, err := uc.service.GetOne(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}

	return toProductDetailDTO(p), nil
}

func (uc *CatalogUseCase) CreateProduct(ctx context.Context, taxID string, req dto.CreateProductRequest) (*dto.ProductDTO, error) {
	companyID, err := uc.tenants.Resolve(ctx, taxID)
	if err != nil {
		return nil, err
	}

	p, err := uc.service.Create(ctx, companyID, req.Name, req.Code)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx, uc.logger).Info("product created",
		zap.String("companyId", companyID),
		zap.String("productId", p.ID),
	)
	uc.publish(ctx, events.ProductCreated, p)

	out := toProductDTO(*p)
	return &out, nil
}

func (uc *CatalogUseCase) UpdateProduct(ctx context.Context, taxID, productID string, req dto.UpdateProductRequest) (*dto.ProductDTO, error) {
	companyID, err := uc.tenants.Resolve(ctx, taxID)
	if err != nil {
		return nil, err
	}

	patch := domain.ProductPatch{Code: req.Code.Value, CodeSet: req.Code.Set}
	if req.Name.Set {
		patch.Name = req.Name.Value
	}

	p, changed, err := uc.service.Update(ctx, companyID, productID, patch)
	if err != nil {
		return nil, err
	}

	if changed {
		logger.FromContext(ctx, uc.logger).Info("product updated",
			zap.String("companyId", companyID),
			zap.String("productId", p.ID),
		)
		uc.publish(ctx, events.ProductUpdated, p)
	}

	out := toProductDTO(*p)
	return &out, nil
}

func (uc *CatalogUseCase) RemoveProduct(ctx context.Context, taxID, productID string) error {
	companyID, err := uc.tenants.Resolve(ctx, taxID)
	if err != nil {
		return err
	}

	if err := uc.service.Remove(ctx, companyID, productID); err != nil {
		return err
	}

	logger.FromContext(ctx, uc.logger).Info("product removed",
		zap.String("companyId", companyID),
		zap.String("productId", productID),
	)
	uc.publish(ctx, events.ProductDeleted, &domain.Product{ID: productID, CompanyID: companyID})
	return nil
}

func (uc *CatalogUseCase) ImportProducts(ctx context.Context, taxID, filename string, r io.Reader) (*dto.ImportResponse, error) {
	companyID, err := uc.tenants.Resolve(ctx, taxID)
	if err != nil {
		return nil, err
	}

	result, err := uc.importer.Import(ctx, companyID, filename, r)
	if err != nil {
		return nil, err
	}

	rowErrors := make([]dto.ImportRowError, 0, len(result.Errors))
	for _, e := range result.Errors {
		rowErrors = append(rowErrors, dto.ImportRowError{Row: e.Row, Column: e.Column, Code: e.Code, Message: e.Message})
	}

	if err := uc.publisher.Publish(ctx, events.Event{
		Type:      events.ImportCompleted,
		CompanyID: companyID,
		Import: &events.ImportSummary{
			ProductsCreated:  result.ProductsCreated,
			ProductsExisting: result.ProductsExisting,
			VariantsInserted: result.VariantsInserted,
			VariantsSkipped:  result.VariantsSkipped,
			RowErrors:        len(result.Errors),
		},
	}); err != nil {
		logger.FromContext(ctx, uc.logger).Warn("failed to publish catalog event",
			zap.String("type", string(events.ImportCompleted)), zap.Error(err))
	}

	return &dto.ImportResponse{
		ProductsCreated:  result.ProductsCreated,
		ProductsExisting: result.ProductsExisting,
		VariantsInserted: result.VariantsInserted,
		VariantsSkipped:  result.VariantsSkipped,
		Errors:           rowErrors,
	}, nil
}

// publish never fails the request; the write it reports has already committed.
func (uc *CatalogUseCase) publish(ctx context.Context, t events.Type, p *domain.Product) {
	err := uc.publisher.Publish(ctx, events.Event{
		Type:      t,
		CompanyID: p.CompanyID,
		ProductID: p.ID,
		Name:      p.Name,
		Code:      p.Code,
	})
	if err != nil {
		logger.FromContext(ctx, uc.logger).Warn("failed to publish catalog event",
			zap.String("type", string(t)),
			zap.String("productId", p.ID),
			zap.Error(err),
		)
	}
}

func toProductDTO(p domain.Product) dto.ProductDTO {
	return dto.ProductDTO{
		ID:        p.ID,
		CompanyID: p.CompanyID,
		Name:      p.Name,
		Code:      p.Code,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toProductDetailDTO(p *domain.Product) *dto.ProductDetailDTO {
	variants := make([]dto.VariantDTO, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, dto.VariantDTO{
			ID:        v.ID,
			ProductID: v.ProductID,
			SKU:       v.SKU,
			Barcode:   v.Barcode,
			Color:     v.Color,
			Size:      v.Size,
			Price:     v.Price.StringFixed(2),
			Stock:     v.Stock,
			CreatedAt: v.CreatedAt,
			UpdatedAt: v.UpdatedAt,
		})
	}
	return &dto.ProductDetailDTO{ProductDTO: toProductDTO(*p), Variants: variants}
}
