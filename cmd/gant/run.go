package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oiime/logrusbun"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"

	"github.com/gantapp/gant/config"
	"github.com/gantapp/gant/pkg/models"
	"github.com/gantapp/gant/pkg/server"
	"github.com/gantapp/gant/pkg/shab"
	"github.com/gantapp/gant/pkg/store/postgres"
	"github.com/gantapp/gant/pkg/tasks"
)

const (
	ErrStoreTypeNotSet   = "store.type must be set"
	ErrPostgresDSNNotSet = "store.postgres.dsn must be set"
	StoreTypePostgres    = "postgres"
)

// run is the entrypoint for the gant server
func run() {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		log.Fatalf("Error configuring gant: %s", err)
	}

	handleCLIOptions(cfg)

	log.Infof("Starting gant server version %s", config.VersionString)

	config.SetLogLevel(cfg)
	appState := NewAppState(cfg)

	srv := server.Create(appState)

	log.Infof("Listening on: %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}

// NewAppState creates an AppState struct from the config file / ENV,
// initializes the stores, and starts the background processors.
func NewAppState(cfg *config.Config) *models.AppState {
	appState := &models.AppState{
		Fetcher: shab.NewClient(cfg),
		Config:  cfg,
	}

	initializeStores(appState)
	setupSignalHandler(appState)

	ctx := context.Background()
	tasks.StartPurgeProcessor(ctx, appState)
	tasks.StartIngestScheduler(ctx, tasks.NewIngestor(appState))

	return appState
}

// handleCLIOptions handles CLI options that don't require the server to run
func handleCLIOptions(cfg *config.Config) {
	if showVersion {
		fmt.Println(config.VersionString)
		os.Exit(0)
	}
	if dumpConfig {
		fmt.Printf("%+v\n", cfg)
		os.Exit(0)
	}
}

// initializeStores initializes the stores based on the config file / ENV
func initializeStores(appState *models.AppState) {
	if appState.Config.Store.Type == "" {
		log.Fatal(ErrStoreTypeNotSet)
	}

	switch appState.Config.Store.Type {
	case StoreTypePostgres:
		if appState.Config.Store.Postgres.DSN == "" {
			log.Fatal(ErrPostgresDSNNotSet)
		}
		db := postgres.NewPostgresConn(appState.Config.Store.Postgres.DSN)
		if appState.Config.Log.Level == "debug" {
			pgDebugLogging(db)
		}
		if err := postgres.CreateSchema(context.Background(), db); err != nil {
			log.Fatal(err)
		}
		appState.PublicationStore = postgres.NewPublicationStore(db)
		appState.SubscriptionStore = postgres.NewSubscriptionStore(db)
		appState.AnalyticsStore = postgres.NewAnalyticsStore(db)
	default:
		log.Fatal(
			fmt.Sprintf("store.type (%s) is not supported", appState.Config.Store.Type),
		)
	}

	log.Info("Using store: ", appState.Config.Store.Type)
}

func pgDebugLogging(db *bun.DB) {
	db.AddQueryHook(logrusbun.NewQueryHook(logrusbun.QueryHookOptions{
		LogSlow:         time.Second,
		Logger:          log,
		QueryLevel:      logrus.DebugLevel,
		ErrorLevel:      logrus.ErrorLevel,
		SlowLevel:       logrus.WarnLevel,
		MessageTemplate: "{{.Operation}}[{{.Duration}}]: {{.Query}}",
		ErrorTemplate:   "{{.Operation}}[{{.Duration}}]: {{.Query}}: {{.Error}}",
	}))
}

// setupSignalHandler sets up a signal handler to close the store
// connection on termination
func setupSignalHandler(appState *models.AppState) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signalCh
		if err := appState.PublicationStore.Close(); err != nil {
			log.Errorf("Error closing store connection: %v", err)
		}
		os.Exit(0)
	}()
}
