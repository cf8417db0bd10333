package services

import (
	"context"
	"fmt"
	"time"

	"github.com/daftarhq/daftar/internal/apperrors"
	"github.com/daftarhq/daftar/internal/core/domain"
	portsrepo "github.com/daftarhq/daftar/internal/core/ports/repositories"
	portssvc "github.com/daftarhq/daftar/internal/core/ports/services"
	"github.com/daftarhq/daftar/internal/dto"
	"github.com/daftarhq/daftar/internal/middleware"
	"github.com/google/uuid"
)

// customerService manages customers.
type customerService struct {
	store portsrepo.DocumentStore
}

// NewCustomerService creates a new customer service.
func NewCustomerService(store portsrepo.DocumentStore) portssvc.CustomerSvcFacade {
	return &customerService{store: store}
}

var _ portssvc.CustomerSvcFacade = (*customerService)(nil)

// CreateCustomer adds a customer. The current balance starts at the opening
// balance and is never derived from sales by the engine.
func (s *customerService) CreateCustomer(ctx context.Context, actor domain.Actor, req dto.CreateCustomerRequest) (*domain.Customer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	customer := domain.Customer{
		CustomerID:     "customer_" + uuid.NewString(),
		Name:           req.Name,
		Phone:          req.Phone,
		OpeningBalance: req.OpeningBalance,
		CurrentBalance: req.OpeningBalance,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	doc, err := domain.NewDocument(customer.CustomerID, domain.KindCustomer, now, customer)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	logger.Info("Customer created", "customer_id", customer.CustomerID)
	return &customer, nil
}

// GetCustomer returns one customer by identity.
func (s *customerService) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	doc, err := s.store.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if doc.Deleted || doc.Kind != domain.KindCustomer {
		return nil, fmt.Errorf("customer %s: %w", customerID, apperrors.ErrNotFound)
	}
	var customer domain.Customer
	if err := doc.DecodeBody(&customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// ListCustomers returns every live customer.
func (s *customerService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	docs, err := s.store.ScanKind(ctx, domain.KindCustomer)
	if err != nil {
		return nil, err
	}
	customers := make([]domain.Customer, 0, len(docs))
	for _, doc := range docs {
		var customer domain.Customer
		if err := doc.DecodeBody(&customer); err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, nil
}

// UpdateCustomer revises mutable customer fields.
func (s *customerService) UpdateCustomer(ctx context.Context, actor domain.Actor, customerID string, req dto.UpdateCustomerRequest) (*domain.Customer, error) {
	customer, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		customer.Name = *req.Name
		updated = true
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
		updated = true
	}
	if req.CurrentBalance != nil {
		customer.CurrentBalance = *req.CurrentBalance
		updated = true
	}
	if !updated {
		return customer, nil
	}

	now := time.Now().UTC()
	customer.LastUpdatedAt = now
	customer.LastUpdatedBy = actor.UserID

	doc, err := domain.NewDocument(customer.CustomerID, domain.KindCustomer, now, customer)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Put(ctx, doc); err != nil {
		return nil, fmt.Errorf("update customer %s: %w", customerID, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Customer updated", "customer_id", customerID)
	return customer, nil
}
