package endpoints

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/credstore/pkg/crypto"
	"github.com/doodlesbykumbi/credstore/pkg/identity"
	"github.com/doodlesbykumbi/credstore/pkg/server/store"
	"github.com/doodlesbykumbi/credstore/pkg/service"
	"github.com/doodlesbykumbi/credstore/pkg/vault"
)

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithServiceError maps service errors to status codes. Unrecognized
// errors are logged server-side and surface as an opaque 500 so backend
// details never cross the API boundary.
func respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalid):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotActive):
		respondWithError(w, http.StatusBadRequest, "credential is not active")
	case errors.Is(err, service.ErrForbidden):
		respondWithError(w, http.StatusForbidden, "permission denied")
	case errors.Is(err, store.ErrNotFound), errors.Is(err, vault.ErrSecretNotFound):
		respondWithError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrConflict):
		respondWithError(w, http.StatusConflict, "already exists")
	case errors.Is(err, vault.ErrUnavailable):
		respondWithError(w, http.StatusServiceUnavailable, "secret store unavailable")
	case errors.Is(err, crypto.ErrDecrypt):
		log.Printf("endpoints: decryption failure: %v", err)
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	default:
		log.Printf("endpoints: %v", err)
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// requireIdentity fetches the caller injected by the identity middleware.
func requireIdentity(w http.ResponseWriter, r *http.Request) (identity.Identity, bool) {
	who, ok := identity.Get(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthenticated")
		return identity.Identity{}, false
	}
	return who, true
}

// pathID parses the {id} path variable.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// pageParams parses skip/limit query parameters, defaulting missing or
// malformed values to zero (the service applies its own bounds).
func pageParams(r *http.Request) (int, int) {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return skip, limit
}

// queryInt64Ptr parses an optional int64 query parameter.
func queryInt64Ptr(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
