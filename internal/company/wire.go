package company

import (
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"vitrina/internal/company/cache"
	"vitrina/internal/company/repository"
	"vitrina/internal/company/service"
)

// NewModule builds the tenant resolver. A nil redis client disables caching.
func NewModule(db *sql.DB, redisClient *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *service.TenantResolver {
	repo := repository.NewMySQLCompanyRepository(db)

	var tenantCache service.TenantCache
	if redisClient != nil {
		tenantCache = cache.NewRedisTenantCache(redisClient, cacheTTL)
	}

	return service.NewTenantResolver(repo, tenantCache, logger)
}
