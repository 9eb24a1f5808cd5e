package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	apperrors "vitrina/internal/errors"
)

const (
	VariantSKUMaxLength     = 64
	VariantBarcodeMaxLength = 64
	VariantColorMaxLength   = 64
	VariantSizeMaxLength    = 32

	// MaxStock is the INT UNSIGNED ceiling of Variant.stock.
	MaxStock int64 = 1<<32 - 1
)

// MaxPrice is the DECIMAL(12,2) ceiling of Variant.price.
var MaxPrice = decimal.RequireFromString("9999999999.99")

// PriceInRange reports whether p, rounded to cents, fits Variant.price.
func PriceInRange(p decimal.Decimal) bool {
	return !p.IsNegative() && !p.Round(2).GreaterThan(MaxPrice)
}

func StockInRange(stock int) bool {
	return stock >= 0 && int64(stock) <= MaxStock
}

type Variant struct {
	ID        string
	CompanyID string
	ProductID string
	SKU       string
	Barcode   *string
	Color     *string
	Size      *string
	Price     decimal.Decimal
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VariantSpec is the declarative description of a variant used by seeding and import.
type VariantSpec struct {
	SKU     string
	Barcode *string
	Color   *string
	Size    *string
	Price   decimal.Decimal
	Stock   int
}

// Validate reports every problem of s, naming fields under prefix.
func (s VariantSpec) Validate(prefix string) []apperrors.ValidationDetail {
	var details []apperrors.ValidationDetail
	add := func(field, message string) {
		details = append(details, apperrors.ValidationDetail{Field: prefix + "." + field, Message: message})
	}

	switch {
	case strings.TrimSpace(s.SKU) == "" || s.SKU != strings.TrimSpace(s.SKU):
		add("sku", "sku must be non-blank and trimmed")
	case utf8.RuneCountInString(s.SKU) > VariantSKUMaxLength:
		add("sku", fmt.Sprintf("sku must be at most %d characters", VariantSKUMaxLength))
	}
	if tooLong(s.Barcode, VariantBarcodeMaxLength) {
		add("barcode", fmt.Sprintf("barcode must be at most %d characters", VariantBarcodeMaxLength))
	}
	if tooLong(s.Color, VariantColorMaxLength) {
		add("color", fmt.Sprintf("color must be at most %d characters", VariantColorMaxLength))
	}
	if tooLong(s.Size, VariantSizeMaxLength) {
		add("size", fmt.Sprintf("size must be at most %d characters", VariantSizeMaxLength))
	}
	if !PriceInRange(s.Price) {
		add("price", fmt.Sprintf("price must be between 0 and %s", MaxPrice.StringFixed(2)))
	}
	if !StockInRange(s.Stock) {
		add("stock", fmt.Sprintf("stock must be between 0 and %d", MaxStock))
	}
	return details
}

func tooLong(v *string, limit int) bool {
	return v != nil && utf8.RuneCountInString(*v) > limit
}

func (s VariantSpec) ToVariant(companyID, productID string) Variant {
	return Variant{
		CompanyID: companyID,
		ProductID: productID,
		SKU:       s.SKU,
		Barcode:   s.Barcode,
		Color:     s.Color,
		Size:      s.Size,
		Price:     s.Price,
		Stock:     s.Stock,
	}
}

type InsertStatus string

const (
	InsertStatusInserted InsertStatus = "INSERTED"
	InsertStatusSkipped  InsertStatus = "SKIPPED"
)

type RowOutcome struct {
	SKU       string
	VariantID string
	Status    InsertStatus
}

// BulkInsertResult holds one outcome per input row, in input order.
type BulkInsertResult struct {
	Outcomes []RowOutcome
}

func (r BulkInsertResult) Inserted() []string {
	return r.skusWith(InsertStatusInserted)
}

func (r BulkInsertResult) Skipped() []string {
	return r.skusWith(InsertStatusSkipped)
}

func (r BulkInsertResult) skusWith(status InsertStatus) []string {
	skus := []string{}
	for _, o := range r.Outcomes {
		if o.Status == status {
			skus = append(skus, o.SKU)
		}
	}
	return skus
}
