package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/credstore/pkg/server"
	"github.com/doodlesbykumbi/credstore/pkg/service"
)

// CreateCredentialRequest is the POST /credentials body. The secret key is
// accepted here and never returned by any endpoint.
type CreateCredentialRequest struct {
	CustomerID   int64  `json:"customer_id"`
	ProjectID    *int64 `json:"project_id,omitempty"`
	VendorID     int64  `json:"vendor_id"`
	AccessKey    string `json:"access_key"`
	SecretKey    string `json:"secret_key"`
	ResourceUser string `json:"resource_user,omitempty"`
	Labels       string `json:"labels,omitempty"`
}

// UpdateCredentialRequest is the PATCH /credentials/{id} body. Absent fields
// are left untouched.
type UpdateCredentialRequest struct {
	AccessKey    *string `json:"access_key,omitempty"`
	SecretKey    *string `json:"secret_key,omitempty"`
	ResourceUser *string `json:"resource_user,omitempty"`
	Labels       *string `json:"labels,omitempty"`
	Status       *string `json:"status,omitempty"`
}

// CredentialResponse is the metadata shape returned by create and update.
// No secret field exists on the type.
type CredentialResponse struct {
	ID           int64  `json:"id"`
	CustomerID   int64  `json:"customer_id"`
	ProjectID    *int64 `json:"project_id,omitempty"`
	VendorID     int64  `json:"vendor_id"`
	AccessKey    string `json:"access_key"`
	ResourceUser string `json:"resource_user,omitempty"`
	Labels       string `json:"labels,omitempty"`
	Status       string `json:"status"`
}

// RegisterCredentialsEndpoints registers the credential lifecycle endpoints
func RegisterCredentialsEndpoints(s *server.Server) {
	credentials := s.Credentials

	s.API.HandleFunc("/credentials", handleCreateCredential(credentials)).Methods("POST")
	s.API.HandleFunc("/credentials", handleListCredentials(credentials)).Methods("GET")
	s.API.HandleFunc("/credentials/{id}/context", handleCredentialContext(credentials)).Methods("GET")
	s.API.HandleFunc("/credentials/{id}/external", handleCredentialExternal(credentials)).Methods("GET")
	s.API.HandleFunc("/credentials/{id}", handleUpdateCredential(credentials)).Methods("PATCH")
	s.API.HandleFunc("/credentials/{id}", handleDeleteCredential(credentials)).Methods("DELETE")
}

func handleCreateCredential(credentials *service.Credentials) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		var req CreateCredentialRequest
		if !decodeBody(w, r, &req) {
			return
		}

		created, err := credentials.Create(r.Context(), who, service.CreateCredentialInput{
			CustomerID:   req.CustomerID,
			ProjectID:    req.ProjectID,
			VendorID:     req.VendorID,
			AccessKey:    req.AccessKey,
			SecretKey:    req.SecretKey,
			ResourceUser: req.ResourceUser,
			Labels:       req.Labels,
		})
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, CredentialResponse{
			ID:           created.ID,
			CustomerID:   created.CustomerID,
			ProjectID:    created.ProjectID,
			VendorID:     created.VendorID,
			AccessKey:    created.AccessKey,
			ResourceUser: created.ResourceUser,
			Labels:       created.Labels,
			Status:       created.Status,
		})
	}
}

func handleListCredentials(credentials *service.Credentials) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		customerID, err := queryInt64Ptr(r, "customer_id")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid customer_id")
			return
		}
		projectID, err := queryInt64Ptr(r, "project_id")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid project_id")
			return
		}
		vendorID, err := queryInt64Ptr(r, "vendor_id")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid vendor_id")
			return
		}
		skip, limit := pageParams(r)

		page, err := credentials.List(r.Context(), who, service.CredentialListFilter{
			CustomerID: customerID,
			ProjectID:  projectID,
			VendorID:   vendorID,
		}, skip, limit)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, page)
	}
}

func handleCredentialContext(credentials *service.Credentials) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		credContext, err := credentials.GetContext(r.Context(), who, id)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, credContext)
	}
}

func handleCredentialExternal(credentials *service.Credentials) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		external, err := credentials.GetForExternalCall(r.Context(), who, id)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, external)
	}
}

func handleUpdateCredential(credentials *service.Credentials) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req UpdateCredentialRequest
		if !decodeBody(w, r, &req) {
			return
		}

		updated, err := credentials.Update(r.Context(), who, id, service.UpdateCredentialInput{
			AccessKey:    req.AccessKey,
			SecretKey:    req.SecretKey,
			ResourceUser: req.ResourceUser,
			Labels:       req.Labels,
			Status:       req.Status,
		})
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, CredentialResponse{
			ID:           updated.ID,
			CustomerID:   updated.CustomerID,
			ProjectID:    updated.ProjectID,
			VendorID:     updated.VendorID,
			AccessKey:    updated.AccessKey,
			ResourceUser: updated.ResourceUser,
			Labels:       updated.Labels,
			Status:       updated.Status,
		})
	}
}

func handleDeleteCredential(credentials *service.Credentials) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := credentials.Delete(r.Context(), who, id); err != nil {
			respondWithServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
