package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"vitrina/internal/domain"
	apperrors "vitrina/internal/errors"
)

const (
	ColumnProductName = "productname"
	ColumnProductCode = "productcode"
	ColumnSKU         = "sku"
	ColumnBarcode     = "barcode"
	ColumnColor       = "color"
	ColumnSize        = "size"
	ColumnPrice       = "price"
	ColumnStock       = "stock"

	ErrorCodeRequired = "REQUIRED"
	ErrorCodeInvalid  = "INVALID"
	ErrorCodeTooLong  = "TOO_LONG"
)

// TemplateHeaders lists the import columns in template order. A trailing " *" marks a required column.
var TemplateHeaders = []string{"productName *", "productCode", "sku *", "barcode", "color", "size", "price *", "stock"}

var requiredColumns = []string{ColumnProductName, ColumnSKU, ColumnPrice}

type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ProductGroup is every valid row of one product, in sheet order.
type ProductGroup struct {
	Name     string
	Code     *string
	Variants []domain.VariantSpec
	Rows     []int
}

type row struct {
	number int
	values map[string]string
}

// ParseSpreadsheet reads an .xlsx or .csv upload and groups its rows by product code, or by name
// when the code is blank, keeping first-seen order. Invalid rows are reported and left out.
func ParseSpreadsheet(filename string, r io.Reader) ([]ProductGroup, []RowError, error) {
	var (
		rows []row
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		rows, err = readXLSX(r)
	case ".csv":
		rows, err = readCSV(r)
	default:
		return nil, nil, apperrors.NewValidationError("unsupported file type", apperrors.ValidationDetail{
			Field:   "file",
			Message: "file must be .xlsx or .csv",
		})
	}
	if err != nil {
		return nil, nil, err
	}

	var groups []ProductGroup
	index := map[string]int{}
	rowErrors := []RowError{}

	for _, rw := range rows {
		spec, name, code, errs := parseRow(rw)
		if len(errs) > 0 {
			rowErrors = append(rowErrors, errs...)
			continue
		}

		key := "name:" + strings.ToLower(name)
		if code != nil {
			key = "code:" + *code
		}

		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, ProductGroup{Name: name, Code: code})
		}
		groups[i].Variants = append(groups[i].Variants, spec)
		groups[i].Rows = append(groups[i].Rows, rw.number)
	}

	return groups, rowErrors, nil
}

func normalizeHeader(h string) string {
	h = strings.TrimSpace(strings.ToLower(h))
	return strings.TrimSuffix(h, " *")
}

func checkHeaders(headers []string) error {
	present := map[string]bool{}
	for _, h := range headers {
		present[h] = true
	}
	var details []apperrors.ValidationDetail
	for _, c := range requiredColumns {
		if !present[c] {
			details = append(details, apperrors.ValidationDetail{Field: c, Message: "column is required"})
		}
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("missing required columns", details...)
	}
	return nil
}

func toRows(headers []string, records [][]string, firstRow int) []row {
	rows := make([]row, 0, len(records))
	for n, record := range records {
		values := make(map[string]string, len(headers))
		blank := true
		for i, v := range record {
			if i < len(headers) {
				values[headers[i]] = strings.TrimSpace(v)
				if values[headers[i]] != "" {
					blank = false
				}
			}
		}
		if blank {
			continue
		}
		rows = append(rows, row{number: firstRow + n, values: values})
	}
	return rows
}

func readCSV(r io.Reader) ([]row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.NewValidationError("file is empty")
	}
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("reading CSV header: %v", err))
	}
	for i := range headers {
		headers[i] = normalizeHeader(strings.TrimPrefix(headers[i], "\ufeff"))
	}
	if err := checkHeaders(headers); err != nil {
		return nil, err
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("reading CSV: %v", err))
	}
	return toRows(headers, records, 2), nil
}

func readXLSX(r io.Reader) ([]row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("opening Excel file: %v", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewValidationError("no sheets found in Excel file")
	}

	sheet := sheets[0]
	for _, name := range sheets {
		if strings.EqualFold(name, "Products") {
			sheet = name
			break
		}
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	if len(records) == 0 {
		return nil, apperrors.NewValidationError("file is empty")
	}

	headers := records[0]
	for i := range headers {
		headers[i] = normalizeHeader(headers[i])
	}
	if err := checkHeaders(headers); err != nil {
		return nil, err
	}
	return toRows(headers, records[1:], 2), nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func parseRow(rw row) (domain.VariantSpec, string, *string, []RowError) {
	var errs []RowError
	add := func(column, code, message string) {
		errs = append(errs, RowError{Row: rw.number, Column: column, Code: code, Message: message})
	}

	name := domain.NormalizeName(rw.values[ColumnProductName])
	switch {
	case name == "":
		add(ColumnProductName, ErrorCodeRequired, "product name is required")
	case utf8.RuneCountInString(name) > domain.ProductNameMaxLength:
		add(ColumnProductName, ErrorCodeTooLong, fmt.Sprintf("product name exceeds %d characters", domain.ProductNameMaxLength))
	}

	code := domain.NormalizeCode(optional(rw.values[ColumnProductCode]))
	if code != nil && utf8.RuneCountInString(*code) > domain.ProductCodeMaxLength {
		add(ColumnProductCode, ErrorCodeTooLong, fmt.Sprintf("product code exceeds %d characters", domain.ProductCodeMaxLength))
	}

	sku := rw.values[ColumnSKU]
	switch {
	case sku == "":
		add(ColumnSKU, ErrorCodeRequired, "sku is required")
	case utf8.RuneCountInString(sku) > domain.VariantSKUMaxLength:
		add(ColumnSKU, ErrorCodeTooLong, fmt.Sprintf("sku exceeds %d characters", domain.VariantSKUMaxLength))
	}

	for _, c := range []struct {
		column string
		limit  int
	}{
		{ColumnBarcode, domain.VariantBarcodeMaxLength},
		{ColumnColor, domain.VariantColorMaxLength},
		{ColumnSize, domain.VariantSizeMaxLength},
	} {
		if utf8.RuneCountInString(rw.values[c.column]) > c.limit {
			add(c.column, ErrorCodeTooLong, fmt.Sprintf("%s exceeds %d characters", c.column, c.limit))
		}
	}

	var price decimal.Decimal
	if raw := rw.values[ColumnPrice]; raw == "" {
		add(ColumnPrice, ErrorCodeRequired, "price is required")
	} else if p, err := decimal.NewFromString(raw); err != nil || p.IsNegative() {
		add(ColumnPrice, ErrorCodeInvalid, "price must be a non-negative number")
	} else if !domain.PriceInRange(p) {
		add(ColumnPrice, ErrorCodeInvalid, fmt.Sprintf("price must not exceed %s", domain.MaxPrice.StringFixed(2)))
	} else {
		price = p.Round(2)
	}

	stock := 0
	if raw := rw.values[ColumnStock]; raw != "" {
		s, err := strconv.Atoi(raw)
		switch {
		case err != nil || s < 0:
			add(ColumnStock, ErrorCodeInvalid, "stock must be a non-negative integer")
		case !domain.StockInRange(s):
			add(ColumnStock, ErrorCodeInvalid, fmt.Sprintf("stock must not exceed %d", domain.MaxStock))
		default:
			stock = s
		}
	}

	spec := domain.VariantSpec{
		SKU:     sku,
		Barcode: optional(rw.values[ColumnBarcode]),
		Color:   optional(rw.values[ColumnColor]),
		Size:    optional(rw.values[ColumnSize]),
		Price:   price,
		Stock:   stock,
	}
	return spec, name, code, errs
}

// WriteTemplate writes an empty import workbook with the expected header row.
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Products"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	for i, h := range TemplateHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("writing header %s: %w", h, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
