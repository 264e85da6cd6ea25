package gorm

import (
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/credstore/pkg/model"
	"github.com/doodlesbykumbi/credstore/pkg/server/store"
)

// Ensure CustomersStore implements store.CustomersStore
var _ store.CustomersStore = (*CustomersStore)(nil)

// CustomersStore implements store.CustomersStore using GORM
type CustomersStore struct {
	db *gorm.DB
}

// NewCustomersStore creates a new CustomersStore
func NewCustomersStore(db *gorm.DB) *CustomersStore {
	return &CustomersStore{db: db}
}

func (s *CustomersStore) CreateCustomer(customer *model.Customer) error {
	return translateError(s.db.Create(customer).Error)
}

func (s *CustomersStore) GetCustomer(id int64) (*model.Customer, error) {
	var customer model.Customer
	if err := s.db.First(&customer, id).Error; err != nil {
		return nil, wrapNotFound(err, "customer", id)
	}
	return &customer, nil
}

func (s *CustomersStore) GetCustomerByName(name string) (*model.Customer, error) {
	var customer model.Customer
	err := s.db.Where("name = ?", name).First(&customer).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &customer, nil
}

func (s *CustomersStore) ListCustomers(skip, limit int) ([]model.Customer, error) {
	customers := make([]model.Customer, 0)
	err := s.db.Order("name").Offset(skip).Limit(limit).Find(&customers).Error
	return customers, err
}

func (s *CustomersStore) CountCustomers() (int64, error) {
	var count int64
	err := s.db.Model(&model.Customer{}).Count(&count).Error
	return count, err
}

func (s *CustomersStore) UpdateCustomer(id int64, patch store.CustomerPatch) (*model.Customer, error) {
	customer, err := s.GetCustomer(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.ContactEmail != nil {
		updates["contact_email"] = *patch.ContactEmail
	}
	if patch.ContactPhone != nil {
		updates["contact_phone"] = *patch.ContactPhone
	}
	if len(updates) > 0 {
		if err := s.db.Model(customer).Updates(updates).Error; err != nil {
			return nil, translateError(err)
		}
	}
	return customer, nil
}

func (s *CustomersStore) DeleteCustomer(id int64) error {
	result := s.db.Delete(&model.Customer{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
