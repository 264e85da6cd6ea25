package service

import (
	"context"

	"github.com/doodlesbykumbi/credstore/pkg/audit"
	"github.com/doodlesbykumbi/credstore/pkg/identity"
	"github.com/doodlesbykumbi/credstore/pkg/model"
	"github.com/doodlesbykumbi/credstore/pkg/server/store"
)

// Customers manages tenant records.
type Customers struct {
	customers   store.CustomersStore
	recorder    *audit.Recorder
	pageSizeMax int
}

// NewCustomers creates a new Customers service
func NewCustomers(customers store.CustomersStore, recorder *audit.Recorder, pageSizeMax int) *Customers {
	return &Customers{customers: customers, recorder: recorder, pageSizeMax: pageSizeMax}
}

// CreateCustomerInput carries the fields for a new customer.
type CreateCustomerInput struct {
	Name         string
	Description  string
	ContactEmail string
	ContactPhone string
}

// CustomerPage is a paginated list result.
type CustomerPage struct {
	Items []model.Customer `json:"items"`
	Total int64            `json:"total"`
	Skip  int              `json:"skip"`
	Limit int              `json:"limit"`
}

func (s *Customers) Create(ctx context.Context, who identity.Identity, input CreateCustomerInput) (*model.Customer, error) {
	if input.Name == "" {
		return nil, invalidf("name is required")
	}
	customer := &model.Customer{
		Name:         input.Name,
		Description:  input.Description,
		ContactEmail: input.ContactEmail,
		ContactPhone: input.ContactPhone,
	}
	if err := s.customers.CreateCustomer(customer); err != nil {
		return nil, err
	}
	s.recorder.Record(audit.Entry{
		UserID:       who.UserID,
		Action:       "create_customer",
		ResourceType: audit.ResourceCustomer,
		ResourceID:   &customer.ID,
		CustomerID:   &customer.ID,
		Details:      "name: " + customer.Name,
		IPAddress:    who.RemoteIP,
		UserAgent:    who.UserAgent,
	})
	return customer, nil
}

func (s *Customers) Get(ctx context.Context, id int64) (*model.Customer, error) {
	return s.customers.GetCustomer(id)
}

func (s *Customers) List(ctx context.Context, skip, limit int) (*CustomerPage, error) {
	skip, limit = normalizePage(skip, limit, s.pageSizeMax)
	items, err := s.customers.ListCustomers(skip, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.customers.CountCustomers()
	if err != nil {
		return nil, err
	}
	return &CustomerPage{Items: items, Total: total, Skip: skip, Limit: limit}, nil
}

func (s *Customers) Update(ctx context.Context, who identity.Identity, id int64, patch store.CustomerPatch) (*model.Customer, error) {
	if patch.Name != nil && *patch.Name == "" {
		return nil, invalidf("name cannot be empty")
	}
	customer, err := s.customers.UpdateCustomer(id, patch)
	if err != nil {
		return nil, err
	}
	s.recorder.Record(audit.Entry{
		UserID:       who.UserID,
		Action:       "update_customer",
		ResourceType: audit.ResourceCustomer,
		ResourceID:   &customer.ID,
		CustomerID:   &customer.ID,
		IPAddress:    who.RemoteIP,
		UserAgent:    who.UserAgent,
	})
	return customer, nil
}

func (s *Customers) Delete(ctx context.Context, who identity.Identity, id int64) error {
	if err := s.customers.DeleteCustomer(id); err != nil {
		return err
	}
	s.recorder.Record(audit.Entry{
		UserID:       who.UserID,
		Action:       "delete_customer",
		ResourceType: audit.ResourceCustomer,
		ResourceID:   &id,
		CustomerID:   &id,
		IPAddress:    who.RemoteIP,
		UserAgent:    who.UserAgent,
	})
	return nil
}
