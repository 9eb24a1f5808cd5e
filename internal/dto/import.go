package dto

type ImportRowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ImportResponse struct {
	ProductsCreated  int              `json:"productsCreated"`
	ProductsExisting int              `json:"productsExisting"`
	VariantsInserted int              `json:"variantsInserted"`
	VariantsSkipped  int              `json:"variantsSkipped"`
	Errors           []ImportRowError `json:"errors"`
}
