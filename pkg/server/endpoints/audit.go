package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/credstore/pkg/server"
	"github.com/doodlesbykumbi/credstore/pkg/service"
)

// RegisterAuditEndpoints registers the audit trail listing endpoints
func RegisterAuditEndpoints(s *server.Server) {
	auditTrail := s.AuditTrail

	s.API.HandleFunc("/audit/users/{user_id}", handleAuditByUser(auditTrail)).Methods("GET")
	s.API.HandleFunc("/audit/credentials/{id}", handleAuditByCredential(auditTrail)).Methods("GET")
}

func handleAuditByUser(auditTrail *service.AuditTrail) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip, limit := pageParams(r)
		page, err := auditTrail.ListByUser(r.Context(), mux.Vars(r)["user_id"], skip, limit)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, page)
	}
}

func handleAuditByCredential(auditTrail *service.AuditTrail) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		skip, limit := pageParams(r)
		page, err := auditTrail.ListByCredential(r.Context(), id, skip, limit)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, page)
	}
}
