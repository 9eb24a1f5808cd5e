package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "vitrina/internal/errors"
)

const (
	ProductNameMaxLength = 200
	ProductCodeMaxLength = 64
)

type Product struct {
	ID        string
	CompanyID string
	Name      string
	Code      *string
	CreatedAt time.Time
	UpdatedAt time.Time
	Variants  []Variant
}

func (p Product) CodeValue() string {
	if p.Code == nil {
		return ""
	}
	return *p.Code
}

func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// NormalizeCode trims and uppercases a product code. Absent or blank codes become nil.
func NormalizeCode(code *string) *string {
	if code == nil {
		return nil
	}
	v := strings.TrimSpace(*code)
	if v == "" {
		return nil
	}
	v = strings.ToUpper(v)
	return &v
}

func SameCode(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ProductPatch carries the fields of a partial update. A nil Name leaves the name unchanged;
// Code is applied only when CodeSet is true, and a nil Code then clears it.
type ProductPatch struct {
	Name    *string
	Code    *string
	CodeSet bool
}

func (p ProductPatch) Empty() bool {
	return p.Name == nil && !p.CodeSet
}

// ValidateProductFields checks an already normalized name and code against the column limits.
func ValidateProductFields(name string, code *string) []apperrors.ValidationDetail {
	var details []apperrors.ValidationDetail
	if name == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	} else if utf8.RuneCountInString(name) > ProductNameMaxLength {
		details = append(details, apperrors.ValidationDetail{
			Field:   "name",
			Message: fmt.Sprintf("name must be at most %d characters", ProductNameMaxLength),
		})
	}
	if code != nil && utf8.RuneCountInString(*code) > ProductCodeMaxLength {
		details = append(details, apperrors.ValidationDetail{
			Field:   "code",
			Message: fmt.Sprintf("code must be at most %d characters", ProductCodeMaxLength),
		})
	}
	return details
}
