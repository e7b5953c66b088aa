package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smart_temperature/internal/handlers"
	"smart_temperature/internal/logger"
	"smart_temperature/internal/repository"
	"smart_temperature/internal/server"
	"smart_temperature/internal/service"

	"github.com/spf13/viper"
)

func main() {
	// load config.yml first so the logger level comes from it
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(viper.GetString("log.level"))

	// open DB
	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(db)
	services := service.NewService(repos, serviceConfig(), log)
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// seed the shared credential; no-op when one already exists
	if err := services.InitDefaultUser(ctx); err != nil {
		log.Fatalw("failed to init default credential", "err", err)
	}

	// start the MQTT reading feed (idle unless mqtt.enabled)
	go services.Ingest.Run(ctx)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")

	viper.SetDefault("port", "8080")
	viper.SetDefault("log.level", logger.InfoLevel)
	viper.SetDefault("db.path", "smarthome.db")
	viper.SetDefault("auth.default_password", "admin123")
	viper.SetDefault("auth.token_ttl", "12h")
	viper.SetDefault("limits.manual_level_max", 5)
	viper.SetDefault("limits.equipment_level_max", 100)
	viper.SetDefault("mqtt.enabled", false)

	return viper.ReadInConfig()
}

// serviceConfig maps config keys onto the service layer configuration.
func serviceConfig() service.Config {
	return service.Config{
		Auth: service.AuthConfig{
			DefaultPassword: viper.GetString("auth.default_password"),
			SigningKey:      viper.GetString("auth.signing_key"),
			TokenTTL:        viper.GetDuration("auth.token_ttl"),
		},
		Limits: service.Limits{
			ManualLevelMax:    viper.GetInt("limits.manual_level_max"),
			EquipmentLevelMax: viper.GetInt("limits.equipment_level_max"),
		},
		MQTT: service.MQTTConfig{
			Enabled:  viper.GetBool("mqtt.enabled"),
			Broker:   viper.GetString("mqtt.broker"),
			Topic:    viper.GetString("mqtt.topic"),
			ClientID: viper.GetString("mqtt.client_id"),
		},
	}
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "smarthome.db")
		dbPath = "smarthome.db"
	}
	return repository.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
