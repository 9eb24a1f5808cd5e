package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vitrina/internal/domain"
)

func TestDefaultFixture(t *testing.T) {
	f, err := DefaultFixture()
	require.NoError(t, err)

	require.Len(t, f.Companies, 1)
	c := f.Companies[0]
	assert.Equal(t, "1790012345001", c.TaxID)
	assert.Equal(t, "Boutique Demo", c.Name)
	require.Len(t, c.Products, 2)
	assert.Equal(t, "BLU-BASE", c.Products[0].Code)
	assert.Equal(t, "JEAN-CLAS", c.Products[1].Code)

	specs := c.Products[1].Specs()
	require.Len(t, specs, 2)
	assert.Equal(t, "32", *specs[0].Size)
	assert.Equal(t, "25.9", specs[0].Price.String())
}

func TestParseFixture_Invalid(t *testing.T) {
	_, err := ParseFixture([]byte("companies: []"))
	assert.Error(t, err)

	_, err = ParseFixture([]byte("companies:\n  - taxId: \"1790012345000\"\n    name: X\n"))
	assert.ErrorContains(t, err, "invalid tax id")

	_, err = ParseFixture([]byte("companies:\n  - taxId: \"1790012345001\"\n    products:\n      - name: A\n        variants:\n          - sku: S\n            price: cheap\n"))
	assert.ErrorContains(t, err, "invalid price")

	_, err = ParseFixture([]byte("companies: [unclosed"))
	assert.Error(t, err)
}

func TestLoadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("companies:\n  - taxId: \"0990012345001\"\n    name: Otra\n"), 0o600))

	f, err := LoadFixture(path)
	require.NoError(t, err)
	assert.Equal(t, "Otra", f.Companies[0].Name)

	_, err = LoadFixture(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSeeder_DemoRunsIdempotently(t *testing.T) {
	store := newFakeCatalog()
	rec := recordedVariants{}
	seeder := NewSeeder(store, store, NewUpserter(store, rec, zap.NewNop()), zap.NewNop())
	fixture, err := DefaultFixture()
	require.NoError(t, err)
	ctx := context.Background()

	first, err := seeder.Run(ctx, fixture)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, first[0].CompanyCreated)
	assert.Equal(t, 2, first[0].ProductsCreated)
	assert.Equal(t, 4, first[0].VariantsInserted)
	assert.Equal(t, 4, first[0].TotalVariants)

	second, err := seeder.Run(ctx, fixture)
	require.NoError(t, err)
	assert.False(t, second[0].CompanyCreated)
	assert.Equal(t, first[0].CompanyID, second[0].CompanyID)
	assert.Equal(t, 2, second[0].ProductsExisting)
	assert.Equal(t, 4, second[0].VariantsSkipped)
	assert.Equal(t, 4, second[0].TotalVariants)

	assert.Equal(t, 4, rec["inserted"])
	assert.Equal(t, 4, rec["skipped"])
}

func TestSeeder_BluBaseGainsOneVariant(t *testing.T) {
	store := newFakeCatalog()
	upserter := NewUpserter(store, nil, zap.NewNop())
	seeder := NewSeeder(store, store, upserter, zap.NewNop())
	fixture, err := DefaultFixture()
	require.NoError(t, err)
	ctx := context.Background()

	summaries, err := seeder.Run(ctx, fixture)
	require.NoError(t, err)
	companyID := summaries[0].CompanyID

	specs := fixture.Companies[0].Products[0].Specs()
	specs = append(specs, spec("BLU-BASE-BLA-L", "12.50", 5))

	result, err := upserter.UpsertProductWithVariants(ctx, companyID, "Blusa básica", strPtr("BLU-BASE"), specs)
	require.NoError(t, err)

	assert.Len(t, result.Product.Variants, 3)
	assert.Equal(t, []string{"BLU-BASE-BLA-L"}, result.Variants.Inserted())
}

func TestSeeder_NeverModifiesExistingCompany(t *testing.T) {
	store := newFakeCatalog()
	_, _, err := store.Ensure(context.Background(), domain.Company{TaxID: "1790012345001", Name: "Original", Sequence: 7})
	require.NoError(t, err)

	seeder := NewSeeder(store, store, NewUpserter(store, nil, zap.NewNop()), zap.NewNop())
	fixture, err := DefaultFixture()
	require.NoError(t, err)

	_, err = seeder.Run(context.Background(), fixture)
	require.NoError(t, err)

	assert.Equal(t, "Original", store.companies["1790012345001"].Name)
	assert.Equal(t, 7, store.companies["1790012345001"].Sequence)
}
