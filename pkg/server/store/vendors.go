package store

import "github.com/doodlesbykumbi/credstore/pkg/model"

// VendorPatch carries partial updates. Nil fields are left untouched.
type VendorPatch struct {
	Name        *string
	DisplayName *string
	Description *string
}

// VendorsStore abstracts vendor catalog persistence
type VendorsStore interface {
	// CreateVendor inserts a vendor. Returns ErrConflict on a duplicate
	// technical name.
	CreateVendor(vendor *model.Vendor) error

	// GetVendor retrieves a vendor by id. Returns ErrNotFound if absent.
	GetVendor(id int64) (*model.Vendor, error)

	// GetVendorByName retrieves a vendor by its unique technical name.
	GetVendorByName(name string) (*model.Vendor, error)

	// ListVendors returns vendors ordered by name.
	ListVendors(skip, limit int) ([]model.Vendor, error)

	// CountVendors returns the total number of vendors.
	CountVendors() (int64, error)

	// UpdateVendor applies a partial update.
	UpdateVendor(id int64, patch VendorPatch) (*model.Vendor, error)

	// DeleteVendor removes a vendor row.
	DeleteVendor(id int64) error
}
