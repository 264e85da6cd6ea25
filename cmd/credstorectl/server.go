package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/credstore/pkg/audit"
	"github.com/doodlesbykumbi/credstore/pkg/config"
	"github.com/doodlesbykumbi/credstore/pkg/crypto"
	"github.com/doodlesbykumbi/credstore/pkg/db"
	"github.com/doodlesbykumbi/credstore/pkg/server"
	"github.com/doodlesbykumbi/credstore/pkg/server/endpoints"
	"github.com/doodlesbykumbi/credstore/pkg/server/middleware"
	gormstore "github.com/doodlesbykumbi/credstore/pkg/server/store/gorm"
	"github.com/doodlesbykumbi/credstore/pkg/service"
	"github.com/doodlesbykumbi/credstore/pkg/vault"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the credstore application server",
	Long: `Run the credstore application server.

To run the server requires DATABASE_URL and an encryption key source
(ENCRYPTION_KEY, or ENCRYPTION_PASSWORD with ENCRYPTION_SALT).

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}

		// Flags override config file and environment
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind-address") {
			cfg.BindAddress, _ = cmd.Flags().GetString("bind-address")
		}

		// Validate required settings first (fail fast)
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		key, err := crypto.LoadKey(cfg.Encryption.Key, cfg.Encryption.Password, cfg.Encryption.Salt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Bad encryption key: %v\n", err)
			os.Exit(1)
		}

		cipher, err := crypto.New(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to initiate cipher: %v\n", err)
			os.Exit(1)
		}

		// Run migrations unless --no-migrate is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		database, err := db.Connect(db.Config{URL: cfg.DatabaseURL})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to connect to DB: %v\n", err)
			os.Exit(1)
		}

		vaultClient := vault.NewClient(cfg.Vault)
		if cfg.Vault.Enabled && !vaultClient.IsAvailable() {
			log.Println("Warning: secret store is unavailable, credential operations will fail until it recovers")
		}

		// A disabled secret store is reported as such on /status rather than
		// degrading the server's health.
		var statusVault *vault.Client
		if cfg.Vault.Enabled {
			statusVault = vaultClient
		}

		credentialsStore := gormstore.NewCredentialsStore(database)
		customersStore := gormstore.NewCustomersStore(database)
		projectsStore := gormstore.NewProjectsStore(database)
		vendorsStore := gormstore.NewVendorsStore(database)
		permissionsStore := gormstore.NewPermissionsStore(database)
		auditStore := gormstore.NewAuditStore(database)

		recorder := audit.NewRecorder(audit.NewLogger(), auditStore)

		identityMiddleware, err := middleware.NewIdentity(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to set up identity middleware: %v\n", err)
			os.Exit(1)
		}

		s := server.NewServer(server.Deps{
			Config: cfg,
			DB:     database,
			Credentials: service.NewCredentials(service.CredentialsDeps{
				Credentials:    credentialsStore,
				Customers:      customersStore,
				Projects:       projectsStore,
				Vendors:        vendorsStore,
				Permissions:    permissionsStore,
				Secrets:        vaultClient,
				Cipher:         cipher,
				Recorder:       recorder,
				CredentialPath: cfg.Vault.CredentialPath,
				PageSizeMax:    cfg.PageSizeMax,
			}),
			Customers:   service.NewCustomers(customersStore, recorder, cfg.PageSizeMax),
			Projects:    service.NewProjects(projectsStore, customersStore, recorder, cfg.PageSizeMax),
			Vendors:     service.NewVendors(vendorsStore, recorder, cfg.PageSizeMax),
			Permissions: service.NewPermissions(permissionsStore, customersStore, projectsStore, recorder, cfg.PageSizeMax),
			AuditTrail:  service.NewAuditTrail(auditStore, cfg.PageSizeMax),
			Health:      gormstore.NewHealthStore(database),
			Vault:       statusVault,
		}, identityMiddleware.Middleware)

		endpoints.RegisterAll(s)

		log.Printf("Running server at http://%s:%d...\n", cfg.BindAddress, cfg.Port)
		log.Fatal(s.Start())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().IntP("port", "p", 8002, "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", "0.0.0.0", "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
