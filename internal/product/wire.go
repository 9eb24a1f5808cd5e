package product

import (
	"database/sql"

	"go.uber.org/zap"

	"vitrina/internal/config"
	"vitrina/internal/domain"
	"vitrina/internal/infrastructure/metrics"
	"vitrina/internal/product/controller"
	"vitrina/internal/product/repository"
	"vitrina/internal/product/service"
	"vitrina/internal/product/usecase"
	"vitrina/internal/seed"
)

func NewModule(
	db *sql.DB,
	tenants usecase.TenantResolver,
	publisher usecase.EventPublisher,
	m *metrics.Metrics,
	cfg config.CatalogConfig,
	logger *zap.Logger,
) *controller.ProductsController {
	defaultPageSize, maxPageSize := pageSizes(cfg)

	repo := repository.NewMySQLRepository(db)
	svc := service.NewCatalogService(repo, m, maxPageSize, logger)
	importer := seed.NewImporter(seed.NewUpserter(repo, m, logger), logger)
	uc := usecase.NewCatalogUseCase(tenants, svc, importer, publisher, logger)
	return controller.NewProductsController(uc, defaultPageSize, cfg.ImportMaxFileBytes, logger)
}

// pageSizes bounds the configured maximum to [domain.MinPageSize, domain.MaxPageSize] and the
// default to [domain.MinPageSize, max], so a list call without pageSize is always valid.
func pageSizes(cfg config.CatalogConfig) (defaultSize, maxSize int) {
	maxSize = cfg.MaxPageSize
	if maxSize < domain.MinPageSize || maxSize > domain.MaxPageSize {
		maxSize = domain.MaxPageSize
	}
	defaultSize = min(max(cfg.DefaultPageSize, domain.MinPageSize), maxSize)
	return defaultSize, maxSize
}
