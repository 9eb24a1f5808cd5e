package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"vitrina/internal/domain"
	"vitrina/internal/dto"
	apperrors "vitrina/internal/errors"
	"vitrina/internal/infrastructure/logger"
	"vitrina/internal/product/usecase"
	"vitrina/internal/seed"
)

type CatalogUseCase interface {
	ListProducts(ctx context.Context, q usecase.ListQuery) (*dto.ProductListResponse, error)
	GetProduct(ctx context.Context, taxID, productID string) (*dto.ProductDetailDTO, error)
	CreateProduct(ctx context.Context, taxID string, req dto.CreateProductRequest) (*dto.ProductDTO, error)
	UpdateProduct(ctx context.Context, taxID, productID string, req dto.UpdateProductRequest) (*dto.ProductDTO, error)
	RemoveProduct(ctx context.Context, taxID, productID string) error
	ImportProducts(ctx context.Context, taxID, filename string, r io.Reader) (*dto.ImportResponse, error)
}

type ProductsController struct {
	useCase         CatalogUseCase
	defaultPageSize int
	maxUploadBytes  int64
	logger          *zap.Logger
}

func NewProductsController(useCase CatalogUseCase, defaultPageSize int, maxUploadBytes int64, logger *zap.Logger) *ProductsController {
	if defaultPageSize < domain.MinPageSize || defaultPageSize > domain.MaxPageSize {
		defaultPageSize = 20
	}
	return &ProductsController{
		useCase:         useCase,
		defaultPageSize: defaultPageSize,
		maxUploadBytes:  maxUploadBytes,
		logger:          logger,
	}
}

func (c *ProductsController) Routes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", c.List)
		r.Post("/", c.Create)
		r.Post("/import", c.Import)
		r.Get("/template", c.Template)
		r.Get("/{id}", c.Get)
		r.Patch("/{id}", c.Update)
		r.Delete("/{id}", c.Remove)
	})
}

// request carries the per-request trace id and logger.
type request struct {
	traceID string
	logger  *zap.Logger
}

func (c *ProductsController) begin(r *http.Request) request {
	traceID := logger.TraceID(r.Context())
	if traceID == "" {
		traceID = uuid.New().String()
	}
	return request{
		traceID: traceID,
		logger:  logger.FromContext(r.Context(), c.logger.With(zap.String("traceId", traceID))),
	}
}

func (c *ProductsController) List(w http.ResponseWriter, r *http.Request) {
	req := c.begin(r)
	query := r.URL.Query()

	var details []apperrors.ValidationDetail
	taxID, detail := validateTaxID(query.Get("taxId"))
	if detail != nil {
		details = append(details, *detail)
	}
	page, detail := positiveIntParam(query, "page", 1)
	if detail != nil {
		details = append(details, *detail)
	}
	pageSize, detail := positiveIntParam(query, "pageSize", c.defaultPageSize)
	if detail != nil {
		details = append(details, *detail)
	}
	if len(details) > 0 {
		c.writeValidationError(w, req, "invalid query parameters", details...)
		return
	}

	resp, err := c.useCase.ListProducts(r.Context(), usecase.ListQuery{
		TaxID:    taxID,
		Search:   query.Get("q"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		c.handleUseCaseError(w, req, err)
		return
	}

	c.writeJSON(w, http.StatusOK, resp)
}

func (c *ProductsController) Get(w http.ResponseWriter, r *http.Request) {
	req := c.begin(r)

	taxID, detail := validateTaxID(r.URL.Query().Get("taxId"))
	if detail != nil {
		c.writeValidationError(w, req, "invalid query parameters", *detail)
		return
	}

	resp, err := c.useCase.GetProduct(r.Context(), taxID, chi.URLParam(r, "id"))
	if err != nil {
		c.handleUseCaseError(w, req, err)
		return
	}

	c.writeJSON(w, http.StatusOK, resp)
}

func (c *ProductsController) Create(w http.ResponseWriter, r *http.Request) {
	req := c.begin(r)

	taxID, detail := validateTaxID(r.URL.Query().Get("taxId"))
	if detail != nil {
		c.writeValidationError(w, req, "invalid query parameters", *detail)
		return
	}

	var body dto.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		req.logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, req, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	var details []apperrors.ValidationDetail
	if d := validateName(&body.Name); d != nil {
		details = append(details, *d)
	}
	if d := validateCode(body.Code); d != nil {
		details = append(details, *d)
	}
	if len(details) > 0 {
		c.writeValidationError(w, req, "validation failed", details...)
		return
	}

	resp, err := c.useCase.CreateProduct(r.Context(), taxID, body)
	if err != nil {
		c.handleUseCaseError(w, req, err)
		return
	}

	c.writeJSON(w, http.StatusCreated, resp)
}

func (c *ProductsController) Update(w http.ResponseWriter, r *http.Request) {
	req := c.begin(r)

	taxID, detail := validateTaxID(r.URL.Query().Get("taxId"))
	if detail != nil {
		c.writeValidationError(w, req, "invalid query parameters", *detail)
		return
	}

	var body dto.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		req.logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, req, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	var details []apperrors.ValidationDetail
	if body.Name.Set {
		if body.Name.Value == nil {
			details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name must not be null"})
		} else if d := validateName(body.Name.Value); d != nil {
			details = append(details, *d)
		}
	}
	if body.Code.Set {
		if d := validateCode(body.Code.Value); d != nil {
			details = append(details, *d)
		}
	}
	if len(details) > 0 {
		c.writeValidationError(w, req, "validation failed", details...)
		return
	}

	resp, err := c.useCase.UpdateProduct(r.Context(), taxID, chi.URLParam(r, "id"), body)
	if err != nil {
		c.handleUseCaseError(w, req, err)
		return
	}

	c.writeJSON(w, http.StatusOK, resp)
}

func (c *ProductsController) Remove(w http.ResponseWriter, r *http.Request) {
	req := c.begin(r)

	taxID, detail := validateTaxID(r.URL.Query().Get("taxId"))
	if detail != nil {
		c.writeValidationError(w, req, "invalid query parameters", *detail)
		return
	}

	if err := c.useCase.RemoveProduct(r.Context(), taxID, chi.URLParam(r, "id")); err != nil {
		c.handleUseCaseError(w, req, err)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.DeleteResponse{OK: true})
}

func (c *ProductsController) Import(w http.ResponseWriter, r *http.Request) {
	req := c.begin(r)

	taxID, detail := validateTaxID(r.URL.Query().Get("taxId"))
	if detail != nil {
		c.writeValidationError(w, req, "invalid query parameters", *detail)
		return
	}

	if c.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, c.maxUploadBytes)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		req.logger.Warn("invalid upload", zap.Error(err))
		message := "multipart field 'file' is required"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			message = "file exceeds " + strconv.FormatInt(c.maxUploadBytes, 10) + " bytes"
		}
		c.writeValidationError(w, req, "invalid upload", apperrors.ValidationDetail{Field: "file", Message: message})
		return
	}
	defer file.Close()

	resp, err := c.useCase.ImportProducts(r.Context(), taxID, header.Filename, file)
	if err != nil {
		c.handleUseCaseError(w, req, err)
		return
	}

	c.writeJSON(w, http.StatusOK, resp)
}

// Template serves an empty import workbook.
func (c *ProductsController) Template(w http.ResponseWriter, r *http.Request) {
	req := c.begin(r)

	var buf bytes.Buffer
	if err := seed.WriteTemplate(&buf); err != nil {
		c.handleUseCaseError(w, req, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="products_template.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		req.logger.Error("failed to write template", zap.Error(err))
	}
}

func validateTaxID(taxID string) (string, *apperrors.ValidationDetail) {
	taxID = strings.TrimSpace(taxID)
	if taxID == "" {
		return "", &apperrors.ValidationDetail{Field: "taxId", Message: "taxId is required"}
	}
	if !domain.ValidTaxID(taxID) {
		return "", &apperrors.ValidationDetail{
			Field:   "taxId",
			Message: "taxId must be 13 digits and must not end in 000",
		}
	}
	return taxID, nil
}

func positiveIntParam(query map[string][]string, name string, fallback int) (int, *apperrors.ValidationDetail) {
	values := query[name]
	if len(values) == 0 || values[0] == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(values[0])
	if err != nil || n < 1 {
		return 0, &apperrors.ValidationDetail{Field: name, Message: name + " must be a positive integer"}
	}
	return n, nil
}

func validateName(name *string) *apperrors.ValidationDetail {
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return &apperrors.ValidationDetail{Field: "name", Message: "name is required"}
	}
	if utf8.RuneCountInString(trimmed) > domain.ProductNameMaxLength {
		return &apperrors.ValidationDetail{
			Field:   "name",
			Message: "name must be at most " + strconv.Itoa(domain.ProductNameMaxLength) + " characters",
		}
	}
	return nil
}

func validateCode(code *string) *apperrors.ValidationDetail {
	if code == nil {
		return nil
	}
	if utf8.RuneCountInString(strings.TrimSpace(*code)) > domain.ProductCodeMaxLength {
		return &apperrors.ValidationDetail{
			Field:   "code",
			Message: "code must be at most " + strconv.Itoa(domain.ProductCodeMaxLength) + " characters",
		}
	}
	return nil
}

func (c *ProductsController) handleUseCaseError(w http.ResponseWriter, req request, err error) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, req, ve.Message, ve.Details...)
		return
	}

	if _, ok := apperrors.IsTenantNotFoundError(err); ok {
		c.writeErrorResponse(w, req, http.StatusNotFound, "TENANT_NOT_FOUND", err.Error(), nil)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeErrorResponse(w, req, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeErrorResponse(w, req, http.StatusConflict, "CONFLICT", err.Error(), nil)
		return
	}

	if ie, ok := apperrors.IsInternalError(err); ok {
		req.logger.Error(ie.Message, zap.Error(ie.Cause))
	} else {
		req.logger.Error("unexpected error", zap.Error(err))
	}
	c.writeErrorResponse(w, req, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", nil)
}

func (c *ProductsController) writeValidationError(w http.ResponseWriter, req request, message string, details ...apperrors.ValidationDetail) {
	c.writeErrorResponse(w, req, http.StatusBadRequest, "VALIDATION_ERROR", message, details)
}

func (c *ProductsController) writeErrorResponse(w http.ResponseWriter, req request, statusCode int, code, message string, details []apperrors.ValidationDetail) {
	response := dto.ErrorResponse{
		TraceID:   req.traceID,
		Status:    statusCode,
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}

	c.writeJSON(w, statusCode, response)
}

func (c *ProductsController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
