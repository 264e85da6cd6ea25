package endpoints

import (
	"github.com/doodlesbykumbi/credstore/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterCredentialsEndpoints(srv)
	RegisterCustomersEndpoints(srv)
	RegisterProjectsEndpoints(srv)
	RegisterVendorsEndpoints(srv)
	RegisterPermissionsEndpoints(srv)
	RegisterAuditEndpoints(srv)
	RegisterStatusEndpoints(srv)
}
