package dto

import (
	"github.com/shopspring/decimal"
)

// CreateProductRequest adds a product to the catalog.
type CreateProductRequest struct {
	Name      string          `json:"name" binding:"required"`
	Unit      string          `json:"unit,omitempty"`
	Category  string          `json:"category,omitempty"`
	SalePrice decimal.Decimal `json:"salePrice" binding:"required"`
}

// UpdateProductRequest updates mutable product fields; nil means unchanged.
type UpdateProductRequest struct {
	Name      *string          `json:"name,omitempty"`
	Unit      *string          `json:"unit,omitempty"`
	Category  *string          `json:"category,omitempty"`
	SalePrice *decimal.Decimal `json:"salePrice,omitempty"`
	CostPrice *decimal.Decimal `json:"costPrice,omitempty"`
}

// CreateCustomerRequest adds a customer.
type CreateCustomerRequest struct {
	Name           string          `json:"name" binding:"required"`
	Phone          string          `json:"phone,omitempty"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

// UpdateCustomerRequest updates mutable customer fields; nil means unchanged.
type UpdateCustomerRequest struct {
	Name           *string          `json:"name,omitempty"`
	Phone          *string          `json:"phone,omitempty"`
	CurrentBalance *decimal.Decimal `json:"currentBalance,omitempty"`
}
