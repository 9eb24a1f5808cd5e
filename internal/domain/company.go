package domain

import "time"

const (
	TaxIDLength           = 13
	DefaultEstablishment  = "001"
	DefaultEmissionPoint  = "001"
	reservedEstablishment = "000"
)

// Company is the tenant root. TaxID never changes after creation.
type Company struct {
	ID            string
	TaxID         string
	Name          string
	Establishment string
	EmissionPoint string
	Sequence      int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidTaxID reports whether taxID has exactly 13 digits and does not end in "000".
func ValidTaxID(taxID string) bool {
	if len(taxID) != TaxIDLength {
		return false
	}
	for i := 0; i < len(taxID); i++ {
		if taxID[i] < '0' || taxID[i] > '9' {
			return false
		}
	}
	return taxID[TaxIDLength-3:] != reservedEstablishment
}
