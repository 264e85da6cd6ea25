package store

import "github.com/doodlesbykumbi/credstore/pkg/model"

// CustomerPatch carries partial updates. Nil fields are left untouched.
type CustomerPatch struct {
	Name         *string
	Description  *string
	ContactEmail *string
	ContactPhone *string
}

// CustomersStore abstracts customer persistence
type CustomersStore interface {
	// CreateCustomer inserts a customer. Returns ErrConflict on a duplicate
	// name.
	CreateCustomer(customer *model.Customer) error

	// GetCustomer retrieves a customer by id. Returns ErrNotFound if absent.
	GetCustomer(id int64) (*model.Customer, error)

	// GetCustomerByName retrieves a customer by its unique name.
	GetCustomerByName(name string) (*model.Customer, error)

	// ListCustomers returns customers ordered by name.
	ListCustomers(skip, limit int) ([]model.Customer, error)

	// CountCustomers returns the total number of customers.
	CountCustomers() (int64, error)

	// UpdateCustomer applies a partial update. Returns ErrNotFound if absent
	// and ErrConflict on a duplicate name.
	UpdateCustomer(id int64, patch CustomerPatch) (*model.Customer, error)

	// DeleteCustomer removes a customer row. Cascading cleanup of dependent
	// rows is the operator's responsibility.
	DeleteCustomer(id int64) error
}
