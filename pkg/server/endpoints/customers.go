package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/credstore/pkg/server"
	"github.com/doodlesbykumbi/credstore/pkg/server/store"
	"github.com/doodlesbykumbi/credstore/pkg/service"
)

// CreateCustomerRequest is the POST /customers body.
type CreateCustomerRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
}

// UpdateCustomerRequest is the PATCH /customers/{id} body.
type UpdateCustomerRequest struct {
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`
	ContactPhone *string `json:"contact_phone,omitempty"`
}

// RegisterCustomersEndpoints registers the customer CRUD endpoints
func RegisterCustomersEndpoints(s *server.Server) {
	customers := s.Customers

	s.API.HandleFunc("/customers", handleCreateCustomer(customers)).Methods("POST")
	s.API.HandleFunc("/customers", handleListCustomers(customers)).Methods("GET")
	s.API.HandleFunc("/customers/{id}", handleGetCustomer(customers)).Methods("GET")
	s.API.HandleFunc("/customers/{id}", handleUpdateCustomer(customers)).Methods("PATCH")
	s.API.HandleFunc("/customers/{id}", handleDeleteCustomer(customers)).Methods("DELETE")
}

func handleCreateCustomer(customers *service.Customers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		var req CreateCustomerRequest
		if !decodeBody(w, r, &req) {
			return
		}
		customer, err := customers.Create(r.Context(), who, service.CreateCustomerInput{
			Name:         req.Name,
			Description:  req.Description,
			ContactEmail: req.ContactEmail,
			ContactPhone: req.ContactPhone,
		})
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, customer)
	}
}

func handleListCustomers(customers *service.Customers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip, limit := pageParams(r)
		page, err := customers.List(r.Context(), skip, limit)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, page)
	}
}

func handleGetCustomer(customers *service.Customers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		customer, err := customers.Get(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, customer)
	}
}

func handleUpdateCustomer(customers *service.Customers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req UpdateCustomerRequest
		if !decodeBody(w, r, &req) {
			return
		}
		customer, err := customers.Update(r.Context(), who, id, store.CustomerPatch{
			Name:         req.Name,
			Description:  req.Description,
			ContactEmail: req.ContactEmail,
			ContactPhone: req.ContactPhone,
		})
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, customer)
	}
}

func handleDeleteCustomer(customers *service.Customers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := customers.Delete(r.Context(), who, id); err != nil {
			respondWithServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
