package seed

import (
	"context"
	"io"

	"go.uber.org/zap"

	apperrors "vitrina/internal/errors"
	"vitrina/internal/infrastructure/logger"
)

type ImportResult struct {
	ProductsCreated  int
	ProductsExisting int
	VariantsInserted int
	VariantsSkipped  int
	Errors           []RowError
}

type Importer struct {
	upserter *Upserter
	logger   *zap.Logger
}

func NewImporter(upserter *Upserter, logger *zap.Logger) *Importer {
	return &Importer{upserter: upserter, logger: logger}
}

// Import upserts every product group of the spreadsheet into companyID. Row-level problems are
// reported in the result; storage failures abort the import.
func (i *Importer) Import(ctx context.Context, companyID, filename string, r io.Reader) (*ImportResult, error) {
	groups, rowErrors, err := ParseSpreadsheet(filename, r)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx, i.logger)
	result := &ImportResult{Errors: rowErrors}

	for _, g := range groups {
		upserted, err := i.upserter.UpsertProductWithVariants(ctx, companyID, g.Name, g.Code, g.Variants)
		if err != nil {
			if ve, ok := apperrors.IsValidationError(err); ok {
				result.Errors = append(result.Errors, RowError{Row: g.Rows[0], Code: ErrorCodeInvalid, Message: ve.Message})
				continue
			}
			return nil, err
		}

		if upserted.Created {
			result.ProductsCreated++
		} else {
			result.ProductsExisting++
		}
		result.VariantsInserted += len(upserted.Variants.Inserted())
		result.VariantsSkipped += len(upserted.Variants.Skipped())
	}

	log.Info("spreadsheet imported",
		zap.String("companyId", companyID),
		zap.String("file", filename),
		zap.Int("productsCreated", result.ProductsCreated),
		zap.Int("productsExisting", result.ProductsExisting),
		zap.Int("variantsInserted", result.VariantsInserted),
		zap.Int("variantsSkipped", result.VariantsSkipped),
		zap.Int("rowErrors", len(result.Errors)),
	)

	return result, nil
}
