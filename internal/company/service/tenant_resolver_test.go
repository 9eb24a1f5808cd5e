package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vitrina/internal/domain"
	apperrors "vitrina/internal/errors"
)

type mockCompanyRepository struct {
	FindByTaxIDFunc func(ctx context.Context, taxID string) (*domain.Company, error)
	calls           int
}

func (m *mockCompanyRepository) FindByTaxID(ctx context.Context, taxID string) (*domain.Company, error) {
	m.calls++
	return m.FindByTaxIDFunc(ctx, taxID)
}

type mockTenantCache struct {
	GetFunc func(ctx context.Context, taxID string) (string, bool, error)
	SetFunc func(ctx context.Context, taxID, companyID string) error
	sets    map[string]string
}

func (m *mockTenantCache) Get(ctx context.Context, taxID string) (string, bool, error) {
	if m.GetFunc == nil {
		return "", false, nil
	}
	return m.GetFunc(ctx, taxID)
}

func (m *mockTenantCache) Set(ctx context.Context, taxID, companyID string) error {
	if m.sets == nil {
		m.sets = map[string]string{}
	}
	m.sets[taxID] = companyID
	if m.SetFunc == nil {
		return nil
	}
	return m.SetFunc(ctx, taxID, companyID)
}

func foundCompany(id string) func(ctx context.Context, taxID string) (*domain.Company, error) {
	return func(ctx context.Context, taxID string) (*domain.Company, error) {
		return &domain.Company{ID: id, TaxID: taxID}, nil
	}
}

func TestResolve_FromRepository(t *testing.T) {
	repo := &mockCompanyRepository{FindByTaxIDFunc: foundCompany("company-1")}
	resolver := NewTenantResolver(repo, nil, zap.NewNop())

	companyID, err := resolver.Resolve(context.Background(), "1790012345001")
	require.NoError(t, err)
	assert.Equal(t, "company-1", companyID)
}

func TestResolve_UnknownTaxID(t *testing.T) {
	repo := &mockCompanyRepository{
		FindByTaxIDFunc: func(ctx context.Context, taxID string) (*domain.Company, error) {
			return nil, apperrors.NewNotFoundError("company not found")
		},
	}
	cache := &mockTenantCache{}
	resolver := NewTenantResolver(repo, cache, zap.NewNop())

	companyID, err := resolver.Resolve(context.Background(), "1790099999001")

	assert.Empty(t, companyID)
	tnf, ok := apperrors.IsTenantNotFoundError(err)
	require.True(t, ok)
	assert.Equal(t, "1790099999001", tnf.TaxID)
	assert.Empty(t, cache.sets, "misses must not be cached")
}

func TestResolve_RepositoryErrorPassesThrough(t *testing.T) {
	dbErr := errors.New("connection refused")
	repo := &mockCompanyRepository{
		FindByTaxIDFunc: func(ctx context.Context, taxID string) (*domain.Company, error) {
			return nil, dbErr
		},
	}
	resolver := NewTenantResolver(repo, nil, zap.NewNop())

	_, err := resolver.Resolve(context.Background(), "1790012345001")

	assert.ErrorIs(t, err, dbErr)
	_, isInternal := apperrors.IsInternalError(err)
	assert.True(t, isInternal)
	_, ok := apperrors.IsTenantNotFoundError(err)
	assert.False(t, ok)
}

func TestResolve_CacheHitSkipsRepository(t *testing.T) {
	repo := &mockCompanyRepository{FindByTaxIDFunc: foundCompany("from-db")}
	cache := &mockTenantCache{
		GetFunc: func(ctx context.Context, taxID string) (string, bool, error) {
			return "from-cache", true, nil
		},
	}
	resolver := NewTenantResolver(repo, cache, zap.NewNop())

	companyID, err := resolver.Resolve(context.Background(), "1790012345001")
	require.NoError(t, err)

	assert.Equal(t, "from-cache", companyID)
	assert.Equal(t, 0, repo.calls)
}

func TestResolve_CacheMissPopulatesCache(t *testing.T) {
	repo := &mockCompanyRepository{FindByTaxIDFunc: foundCompany("company-1")}
	cache := &mockTenantCache{}
	resolver := NewTenantResolver(repo, cache, zap.NewNop())

	_, err := resolver.Resolve(context.Background(), "1790012345001")
	require.NoError(t, err)

	assert.Equal(t, "company-1", cache.sets["1790012345001"])
}

func TestResolve_CacheFailuresFallThrough(t *testing.T) {
	repo := &mockCompanyRepository{FindByTaxIDFunc: foundCompany("company-1")}
	cache := &mockTenantCache{
		GetFunc: func(ctx context.Context, taxID string) (string, bool, error) {
			return "", false, errors.New("redis down")
		},
		SetFunc: func(ctx context.Context, taxID, companyID string) error {
			return errors.New("redis down")
		},
	}
	resolver := NewTenantResolver(repo, cache, zap.NewNop())

	companyID, err := resolver.Resolve(context.Background(), "1790012345001")
	require.NoError(t, err)

	assert.Equal(t, "company-1", companyID)
	assert.Equal(t, 1, repo.calls)
}
