package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/credstore/pkg/server"
	"github.com/doodlesbykumbi/credstore/pkg/service"
)

// GrantPermissionRequest is the POST /permissions body. Omitting
// customer_id or project_id makes that position a wildcard.
type GrantPermissionRequest struct {
	UserID         string `json:"user_id"`
	CustomerID     *int64 `json:"customer_id,omitempty"`
	ProjectID      *int64 `json:"project_id,omitempty"`
	PermissionType string `json:"permission_type,omitempty"`
}

// UpdatePermissionRequest is the PATCH /permissions/{id} body.
type UpdatePermissionRequest struct {
	PermissionType string `json:"permission_type"`
}

// RegisterPermissionsEndpoints registers the grant management endpoints
func RegisterPermissionsEndpoints(s *server.Server) {
	permissions := s.Permissions

	s.API.HandleFunc("/permissions", handleGrantPermission(permissions)).Methods("POST")
	s.API.HandleFunc("/permissions", handleListPermissions(permissions)).Methods("GET")
	s.API.HandleFunc("/permissions/{id}", handleGetPermission(permissions)).Methods("GET")
	s.API.HandleFunc("/permissions/{id}", handleUpdatePermission(permissions)).Methods("PATCH")
	s.API.HandleFunc("/permissions/{id}", handleRevokePermission(permissions)).Methods("DELETE")
}

func handleGrantPermission(permissions *service.Permissions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		var req GrantPermissionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		permission, err := permissions.Grant(r.Context(), who, service.GrantInput{
			UserID:         req.UserID,
			CustomerID:     req.CustomerID,
			ProjectID:      req.ProjectID,
			PermissionType: req.PermissionType,
		})
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, permission)
	}
}

func handleListPermissions(permissions *service.Permissions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip, limit := pageParams(r)
		page, err := permissions.List(r.Context(), r.URL.Query().Get("user_id"), skip, limit)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, page)
	}
}

func handleGetPermission(permissions *service.Permissions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		permission, err := permissions.Get(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, permission)
	}
}

func handleUpdatePermission(permissions *service.Permissions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req UpdatePermissionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		permission, err := permissions.Update(r.Context(), who, id, req.PermissionType)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, permission)
	}
}

func handleRevokePermission(permissions *service.Permissions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := permissions.Revoke(r.Context(), who, id); err != nil {
			respondWithServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
