package server

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/credstore/pkg/config"
	"github.com/doodlesbykumbi/credstore/pkg/server/store"
	"github.com/doodlesbykumbi/credstore/pkg/service"
	"github.com/doodlesbykumbi/credstore/pkg/vault"
)

// Server holds the router and the services the endpoints dispatch to.
// Routes registered on API go through the identity middleware; Router is
// for public routes like /status.
type Server struct {
	Config      *config.Config
	Router      *mux.Router
	API         *mux.Router
	DB          *gorm.DB
	Credentials *service.Credentials
	Customers   *service.Customers
	Projects    *service.Projects
	Vendors     *service.Vendors
	Permissions *service.Permissions
	AuditTrail  *service.AuditTrail
	Health      store.HealthStore
	Vault       *vault.Client

	srv *http.Server
}

// Deps collects the collaborators for NewServer.
type Deps struct {
	Config      *config.Config
	DB          *gorm.DB
	Credentials *service.Credentials
	Customers   *service.Customers
	Projects    *service.Projects
	Vendors     *service.Vendors
	Permissions *service.Permissions
	AuditTrail  *service.AuditTrail
	Health      store.HealthStore
	Vault       *vault.Client
}

// NewServer creates a new Server. identityMiddleware is applied to every
// route registered on the API subrouter.
func NewServer(deps Deps, identityMiddleware mux.MiddlewareFunc) *Server {
	router := mux.NewRouter().UseEncodedPath()

	api := router.PathPrefix("/").Subrouter()
	api.Use(identityMiddleware)

	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    deps.Config.BindAddress + ":" + strconv.Itoa(deps.Config.Port),
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Config:      deps.Config,
		Router:      router,
		API:         api,
		DB:          deps.DB,
		Credentials: deps.Credentials,
		Customers:   deps.Customers,
		Projects:    deps.Projects,
		Vendors:     deps.Vendors,
		Permissions: deps.Permissions,
		AuditTrail:  deps.AuditTrail,
		Health:      deps.Health,
		Vault:       deps.Vault,
		srv:         srv,
	}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}
