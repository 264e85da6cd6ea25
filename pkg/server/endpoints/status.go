package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/credstore/pkg/server"
	"github.com/doodlesbykumbi/credstore/pkg/server/store"
	"github.com/doodlesbykumbi/credstore/pkg/vault"
)

// StatusResponse is the GET /status body.
type StatusResponse struct {
	Status   string       `json:"status"`
	Database string       `json:"database"`
	Vault    vault.Health `json:"vault"`
}

// RegisterStatusEndpoints registers the health endpoint. It is public: no
// identity header is required.
func RegisterStatusEndpoints(s *server.Server) {
	s.Router.HandleFunc("/status", handleStatus(s.Health, s.Vault)).Methods("GET")
}

func handleStatus(health store.HealthStore, vaultClient *vault.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := StatusResponse{Status: "ok", Database: "ok"}

		if err := health.Ping(); err != nil {
			response.Status = "degraded"
			response.Database = "error"
		}

		if vaultClient != nil {
			response.Vault = vaultClient.CheckHealth(r.Context())
			if response.Vault.Status != "healthy" {
				response.Status = "degraded"
			}
		} else {
			response.Vault = vault.Health{Status: "disabled"}
		}

		code := http.StatusOK
		if response.Status != "ok" {
			code = http.StatusServiceUnavailable
		}
		respondWithJSON(w, code, response)
	}
}
