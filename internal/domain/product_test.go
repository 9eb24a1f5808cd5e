package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		name string
		in   *string
		want *string
	}{
		{name: "absent", in: nil, want: nil},
		{name: "empty", in: strPtr(""), want: nil},
		{name: "blank", in: strPtr("   "), want: nil},
		{name: "lowercase trimmed", in: strPtr("  blu-base "), want: strPtr("BLU-BASE")},
		{name: "already normalized", in: strPtr("JEAN-CLAS"), want: strPtr("JEAN-CLAS")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeCode(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestNormalizeCode_DoesNotMutateInput(t *testing.T) {
	in := strPtr(" abc ")
	_ = NormalizeCode(in)
	assert.Equal(t, " abc ", *in)
}

func TestSameCode(t *testing.T) {
	assert.True(t, SameCode(nil, nil))
	assert.True(t, SameCode(strPtr("A"), strPtr("A")))
	assert.False(t, SameCode(strPtr("A"), nil))
	assert.False(t, SameCode(nil, strPtr("A")))
	assert.False(t, SameCode(strPtr("A"), strPtr("B")))
}

func TestProduct_CodeValue(t *testing.T) {
	assert.Equal(t, "", Product{}.CodeValue())
	assert.Equal(t, "BLU-BASE", Product{Code: strPtr("BLU-BASE")}.CodeValue())
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Blusa básica", NormalizeName("  Blusa básica\t"))
}

func TestValidTaxID(t *testing.T) {
	tests := []struct {
		taxID string
		valid bool
	}{
		{"1790012345001", true},
		{"0102030405001", true},
		{"1790012345000", false},
		{"179001234500", false},
		{"17900123450011", false},
		{"17900123450a1", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.taxID, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidTaxID(tt.taxID))
		})
	}
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, PageCount(0, 20))
	assert.Equal(t, 1, PageCount(1, 20))
	assert.Equal(t, 1, PageCount(20, 20))
	assert.Equal(t, 2, PageCount(21, 20))
	assert.Equal(t, 5, PageCount(100, 20))
	assert.Equal(t, 0, PageCount(10, 0))
}

func TestProductPage_Pages(t *testing.T) {
	page := ProductPage{Total: 41, Page: 3, PageSize: 20}
	assert.Equal(t, 3, page.Pages())
}

func TestProductFilter_Offset(t *testing.T) {
	assert.Equal(t, 0, ProductFilter{Page: 1, PageSize: 20}.Offset())
	assert.Equal(t, 40, ProductFilter{Page: 3, PageSize: 20}.Offset())
}

func TestVariantSpec_ToVariant(t *testing.T) {
	spec := VariantSpec{
		SKU:     "BLU-BASE-ROJ-S",
		Barcode: strPtr("7891234567890"),
		Color:   strPtr("Rojo"),
		Size:    strPtr("S"),
		Price:   decimal.RequireFromString("12.50"),
		Stock:   15,
	}

	v := spec.ToVariant("company-1", "product-1")

	assert.Equal(t, "company-1", v.CompanyID)
	assert.Equal(t, "product-1", v.ProductID)
	assert.Equal(t, "BLU-BASE-ROJ-S", v.SKU)
	assert.Equal(t, "Rojo", *v.Color)
	assert.True(t, decimal.RequireFromString("12.5").Equal(v.Price))
	assert.Equal(t, 15, v.Stock)
	assert.Empty(t, v.ID)
}

func TestBulkInsertResult(t *testing.T) {
	result := BulkInsertResult{Outcomes: []RowOutcome{
		{SKU: "A", Status: InsertStatusInserted},
		{SKU: "B", Status: InsertStatusSkipped},
		{SKU: "C", Status: InsertStatusInserted},
	}}

	assert.Equal(t, []string{"A", "C"}, result.Inserted())
	assert.Equal(t, []string{"B"}, result.Skipped())
	assert.Equal(t, []string{}, BulkInsertResult{}.Skipped())
}

func TestProductPatch_Empty(t *testing.T) {
	assert.True(t, ProductPatch{}.Empty())
	assert.False(t, ProductPatch{Name: strPtr("x")}.Empty())
	assert.False(t, ProductPatch{CodeSet: true}.Empty())
}
