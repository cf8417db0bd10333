package services

import (
	"context"

	"github.com/daftarhq/daftar/internal/core/domain"
	"github.com/daftarhq/daftar/internal/dto"
)

// ProductSvcFacade manages the product catalog. Products are mutable
// documents; their cached cost price resolves last-writer-wins under
// replication.
type ProductSvcFacade interface {
	CreateProduct(ctx context.Context, actor domain.Actor, req dto.CreateProductRequest) (*domain.Product, error)
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, actor domain.Actor, productID string, req dto.UpdateProductRequest) (*domain.Product, error)
}

// CustomerSvcFacade manages customers.
type CustomerSvcFacade interface {
	CreateCustomer(ctx context.Context, actor domain.Actor, req dto.CreateCustomerRequest) (*domain.Customer, error)
	GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	UpdateCustomer(ctx context.Context, actor domain.Actor, customerID string, req dto.UpdateCustomerRequest) (*domain.Customer, error)
}

// ChartSvcFacade manages the chart of accounts.
type ChartSvcFacade interface {
	// EnsureChart creates the bootstrap accounts once if absent, idempotently.
	EnsureChart(ctx context.Context, actor domain.Actor) error

	CreateAccount(ctx context.Context, actor domain.Actor, req dto.CreateAccountRequest) (*domain.Account, error)
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// EnsureExpenseAccount returns the expense account for a category,
	// creating it on first use with a deterministic identity.
	EnsureExpenseAccount(ctx context.Context, actor domain.Actor, category string) (*domain.Account, error)
}
