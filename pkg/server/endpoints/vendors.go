package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/credstore/pkg/server"
	"github.com/doodlesbykumbi/credstore/pkg/server/store"
	"github.com/doodlesbykumbi/credstore/pkg/service"
)

// CreateVendorRequest is the POST /vendors body.
type CreateVendorRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Description string `json:"description,omitempty"`
}

// UpdateVendorRequest is the PATCH /vendors/{id} body.
type UpdateVendorRequest struct {
	Name        *string `json:"name,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// RegisterVendorsEndpoints registers the vendor catalog endpoints
func RegisterVendorsEndpoints(s *server.Server) {
	vendors := s.Vendors

	s.API.HandleFunc("/vendors", handleCreateVendor(vendors)).Methods("POST")
	s.API.HandleFunc("/vendors", handleListVendors(vendors)).Methods("GET")
	s.API.HandleFunc("/vendors/{id}", handleGetVendor(vendors)).Methods("GET")
	s.API.HandleFunc("/vendors/{id}", handleUpdateVendor(vendors)).Methods("PATCH")
	s.API.HandleFunc("/vendors/{id}", handleDeleteVendor(vendors)).Methods("DELETE")
}

func handleCreateVendor(vendors *service.Vendors) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		var req CreateVendorRequest
		if !decodeBody(w, r, &req) {
			return
		}
		vendor, err := vendors.Create(r.Context(), who, service.CreateVendorInput{
			Name:        req.Name,
			DisplayName: req.DisplayName,
			Description: req.Description,
		})
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, vendor)
	}
}

func handleListVendors(vendors *service.Vendors) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip, limit := pageParams(r)
		page, err := vendors.List(r.Context(), skip, limit)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, page)
	}
}

func handleGetVendor(vendors *service.Vendors) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		vendor, err := vendors.Get(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, vendor)
	}
}

func handleUpdateVendor(vendors *service.Vendors) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req UpdateVendorRequest
		if !decodeBody(w, r, &req) {
			return
		}
		vendor, err := vendors.Update(r.Context(), who, id, store.VendorPatch{
			Name:        req.Name,
			DisplayName: req.DisplayName,
			Description: req.Description,
		})
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, vendor)
	}
}

func handleDeleteVendor(vendors *service.Vendors) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := vendors.Delete(r.Context(), who, id); err != nil {
			respondWithServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
