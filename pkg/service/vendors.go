package service

import (
	"context"

	"github.com/doodlesbykumbi/credstore/pkg/audit"
	"github.com/doodlesbykumbi/credstore/pkg/identity"
	"github.com/doodlesbykumbi/credstore/pkg/model"
	"github.com/doodlesbykumbi/credstore/pkg/server/store"
)

// Vendors manages the provider catalog.
type Vendors struct {
	vendors     store.VendorsStore
	recorder    *audit.Recorder
	pageSizeMax int
}

// NewVendors creates a new Vendors service
func NewVendors(vendors store.VendorsStore, recorder *audit.Recorder, pageSizeMax int) *Vendors {
	return &Vendors{vendors: vendors, recorder: recorder, pageSizeMax: pageSizeMax}
}

// CreateVendorInput carries the fields for a new vendor.
type CreateVendorInput struct {
	Name        string
	DisplayName string
	Description string
}

// VendorPage is a paginated list result.
type VendorPage struct {
	Items []model.Vendor `json:"items"`
	Total int64          `json:"total"`
	Skip  int            `json:"skip"`
	Limit int            `json:"limit"`
}

func (s *Vendors) Create(ctx context.Context, who identity.Identity, input CreateVendorInput) (*model.Vendor, error) {
	if input.Name == "" {
		return nil, invalidf("name is required")
	}
	if input.DisplayName == "" {
		input.DisplayName = input.Name
	}
	vendor := &model.Vendor{
		Name:        input.Name,
		DisplayName: input.DisplayName,
		Description: input.Description,
	}
	if err := s.vendors.CreateVendor(vendor); err != nil {
		return nil, err
	}
	s.recorder.Record(audit.Entry{
		UserID:       who.UserID,
		Action:       "create_vendor",
		ResourceType: audit.ResourceVendor,
		ResourceID:   &vendor.ID,
		VendorID:     &vendor.ID,
		Details:      "name: " + vendor.Name,
		IPAddress:    who.RemoteIP,
		UserAgent:    who.UserAgent,
	})
	return vendor, nil
}

func (s *Vendors) Get(ctx context.Context, id int64) (*model.Vendor, error) {
	return s.vendors.GetVendor(id)
}

func (s *Vendors) List(ctx context.Context, skip, limit int) (*VendorPage, error) {
	skip, limit = normalizePage(skip, limit, s.pageSizeMax)
	items, err := s.vendors.ListVendors(skip, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.vendors.CountVendors()
	if err != nil {
		return nil, err
	}
	return &VendorPage{Items: items, Total: total, Skip: skip, Limit: limit}, nil
}

func (s *Vendors) Update(ctx context.Context, who identity.Identity, id int64, patch store.VendorPatch) (*model.Vendor, error) {
	if patch.Name != nil && *patch.Name == "" {
		return nil, invalidf("name cannot be empty")
	}
	vendor, err := s.vendors.UpdateVendor(id, patch)
	if err != nil {
		return nil, err
	}
	s.recorder.Record(audit.Entry{
		UserID:       who.UserID,
		Action:       "update_vendor",
		ResourceType: audit.ResourceVendor,
		ResourceID:   &vendor.ID,
		VendorID:     &vendor.ID,
		IPAddress:    who.RemoteIP,
		UserAgent:    who.UserAgent,
	})
	return vendor, nil
}

func (s *Vendors) Delete(ctx context.Context, who identity.Identity, id int64) error {
	if err := s.vendors.DeleteVendor(id); err != nil {
		return err
	}
	s.recorder.Record(audit.Entry{
		UserID:       who.UserID,
		Action:       "delete_vendor",
		ResourceType: audit.ResourceVendor,
		ResourceID:   &id,
		VendorID:     &id,
		IPAddress:    who.RemoteIP,
		UserAgent:    who.UserAgent,
	})
	return nil
}
