package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/credstore/pkg/server"
	"github.com/doodlesbykumbi/credstore/pkg/server/store"
	"github.com/doodlesbykumbi/credstore/pkg/service"
)

// CreateProjectRequest is the POST /projects body.
type CreateProjectRequest struct {
	CustomerID  int64  `json:"customer_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateProjectRequest is the PATCH /projects/{id} body.
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// RegisterProjectsEndpoints registers the project CRUD endpoints
func RegisterProjectsEndpoints(s *server.Server) {
	projects := s.Projects

	s.API.HandleFunc("/projects", handleCreateProject(projects)).Methods("POST")
	s.API.HandleFunc("/projects", handleListProjects(projects)).Methods("GET")
	s.API.HandleFunc("/projects/{id}", handleGetProject(projects)).Methods("GET")
	s.API.HandleFunc("/projects/{id}", handleUpdateProject(projects)).Methods("PATCH")
	s.API.HandleFunc("/projects/{id}", handleDeleteProject(projects)).Methods("DELETE")
}

func handleCreateProject(projects *service.Projects) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		var req CreateProjectRequest
		if !decodeBody(w, r, &req) {
			return
		}
		project, err := projects.Create(r.Context(), who, service.CreateProjectInput{
			CustomerID:  req.CustomerID,
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, project)
	}
}

func handleListProjects(projects *service.Projects) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := queryInt64Ptr(r, "customer_id")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid customer_id")
			return
		}
		skip, limit := pageParams(r)
		page, err := projects.List(r.Context(), customerID, skip, limit)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, page)
	}
}

func handleGetProject(projects *service.Projects) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		project, err := projects.Get(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, project)
	}
}

func handleUpdateProject(projects *service.Projects) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req UpdateProjectRequest
		if !decodeBody(w, r, &req) {
			return
		}
		project, err := projects.Update(r.Context(), who, id, store.ProjectPatch{
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, project)
	}
}

func handleDeleteProject(projects *service.Projects) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, ok := requireIdentity(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := projects.Delete(r.Context(), who, id); err != nil {
			respondWithServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
