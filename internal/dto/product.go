package dto

import "time"

type CreateProductRequest struct {
	Name string  `json:"name"`
	Code *string `json:"code"`
}

type UpdateProductRequest struct {
	Name OptionalString `json:"name"`
	Code OptionalString `json:"code"`
}

type ProductDTO struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	Name      string    `json:"name"`
	Code      *string   `json:"code"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// VariantSummaryDTO is the variant shape embedded in list items.
type VariantSummaryDTO struct {
	ID    string  `json:"id"`
	SKU   string  `json:"sku"`
	Color *string `json:"color"`
	Size  *string `json:"size"`
	Price string  `json:"price"`
	Stock int     `json:"stock"`
}

type VariantDTO struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	SKU       string    `json:"sku"`
	Barcode   *string   `json:"barcode"`
	Color     *string   `json:"color"`
	Size      *string   `json:"size"`
	Price     string    `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ProductListItemDTO struct {
	ProductDTO
	Variants []VariantSummaryDTO `json:"variants"`
}

type ProductDetailDTO struct {
	ProductDTO
	Variants []VariantDTO `json:"variants"`
}

type ProductListResponse struct {
	Items    []ProductListItemDTO `json:"items"`
	Total    int                  `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"pageSize"`
	Pages    int                  `json:"pages"`
}

type DeleteResponse struct {
	OK bool `json:"ok"`
}
