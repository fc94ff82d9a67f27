package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/lufcmattylad/Load-JSON-Object/pkg/config"
	"github.com/lufcmattylad/Load-JSON-Object/pkg/infra/database"
	"github.com/lufcmattylad/Load-JSON-Object/pkg/infra/logger"
	"github.com/lufcmattylad/Load-JSON-Object/pkg/infra/prometheus"
	"github.com/lufcmattylad/Load-JSON-Object/pkg/infra/script"
	"github.com/lufcmattylad/Load-JSON-Object/pkg/injection"
	"github.com/lufcmattylad/Load-JSON-Object/pkg/injection/sources"
	"github.com/lufcmattylad/Load-JSON-Object/pkg/plugins"
	"github.com/lufcmattylad/Load-JSON-Object/pkg/plugins/json_loader"
	"github.com/lufcmattylad/Load-JSON-Object/pkg/server"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logInstance := logger.NewLogger()

	if err := config.Load("./config"); err != nil {
		logInstance.Fatalf("failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	db, err := database.NewDB(logInstance, &database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logInstance.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close()

	if cfg.Metrics.Enabled {
		prometheus.Initialize()
	}

	executor := database.NewExecutor(db.DB, logInstance)
	runner := script.NewYaegiRunner(
		logInstance,
		time.Duration(cfg.Injection.ScriptTimeoutSeconds)*time.Second,
	)

	engine := injection.NewEngine(
		logInstance,
		injection.NewEmitter(cfg.Injection.ChunkSize),
		sources.NewAdapters(executor, runner),
	)

	pluginManager := plugins.NewManager(logInstance)
	if err := pluginManager.RegisterPlugin(json_loader.NewJSONLoaderPlugin(logInstance, engine)); err != nil {
		logInstance.Fatalf("failed to register json_loader plugin: %v", err)
	}

	for _, page := range cfg.Pages {
		if err := pluginManager.SetPluginChain(page.ID, page.PluginChain); err != nil {
			logInstance.Fatalf("invalid plugin chain for page %q: %v", page.ID, err)
		}
	}

	srv := server.NewPageServer(server.PageServerDI{
		Config:        cfg,
		Logger:        logInstance,
		PluginManager: pluginManager,
	})

	go func() {
		if err := srv.Run(); err != nil {
			logInstance.WithError(err).Fatal("page server terminated")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logInstance.WithFields(logrus.Fields{"signal": sig.String()}).Info("shutting down")
	if err := srv.Shutdown(); err != nil {
		logInstance.WithError(err).Error("error during server shutdown")
	}
}
