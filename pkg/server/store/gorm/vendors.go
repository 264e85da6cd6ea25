package gorm

import (
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/credstore/pkg/model"
	"github.com/doodlesbykumbi/credstore/pkg/server/store"
)

// Ensure VendorsStore implements store.VendorsStore
var _ store.VendorsStore = (*VendorsStore)(nil)

// VendorsStore implements store.VendorsStore using GORM
type VendorsStore struct {
	db *gorm.DB
}

// NewVendorsStore creates a new VendorsStore
func NewVendorsStore(db *gorm.DB) *VendorsStore {
	return &VendorsStore{db: db}
}

func (s *VendorsStore) CreateVendor(vendor *model.Vendor) error {
	return translateError(s.db.Create(vendor).Error)
}

func (s *VendorsStore) GetVendor(id int64) (*model.Vendor, error) {
	var vendor model.Vendor
	if err := s.db.First(&vendor, id).Error; err != nil {
		return nil, wrapNotFound(err, "vendor", id)
	}
	return &vendor, nil
}

func (s *VendorsStore) GetVendorByName(name string) (*model.Vendor, error) {
	var vendor model.Vendor
	err := s.db.Where("name = ?", name).First(&vendor).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &vendor, nil
}

func (s *VendorsStore) ListVendors(skip, limit int) ([]model.Vendor, error) {
	vendors := make([]model.Vendor, 0)
	err := s.db.Order("name").Offset(skip).Limit(limit).Find(&vendors).Error
	return vendors, err
}

func (s *VendorsStore) CountVendors() (int64, error) {
	var count int64
	err := s.db.Model(&model.Vendor{}).Count(&count).Error
	return count, err
}

func (s *VendorsStore) UpdateVendor(id int64, patch store.VendorPatch) (*model.Vendor, error) {
	vendor, err := s.GetVendor(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.DisplayName != nil {
		updates["display_name"] = *patch.DisplayName
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if len(updates) > 0 {
		if err := s.db.Model(vendor).Updates(updates).Error; err != nil {
			return nil, translateError(err)
		}
	}
	return vendor, nil
}

func (s *VendorsStore) DeleteVendor(id int64) error {
	result := s.db.Delete(&model.Vendor{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
