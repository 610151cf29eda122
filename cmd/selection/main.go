package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Nmk78/selection/internal/app"
	"github.com/Nmk78/selection/internal/auth"
	"github.com/Nmk78/selection/internal/config"
	"github.com/Nmk78/selection/internal/logger"
)

var (
	version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (YAML)")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	adminPw := flag.String("adminpw", "", "Admin password (auto-generated if not set)")
	logLevel := flag.String("loglevel", "", "Log level: debug, info, warn, error (overrides config)")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Selection - Pageant Voting System

Usage:
  selection [options]

Options:
  -config str    Path to config file (YAML)
  -addr str      HTTP listen address (overrides config, default ":8080")
  -db string     SQLite database path (overrides config, default "selection.db")
  -adminpw str   Admin password (auto-generated if not set)
  -loglevel str  Log level: debug, info, warn, error (overrides config)
  -version       Show version and exit
  -help          Show this help message

Configuration can also come from SELECTION_* environment variables,
e.g. SELECTION_SERVER_ADDR=:80 or SELECTION_DATABASE_PATH=/data/selection.db.

Examples:
  selection                          # Run on :8080 with selection.db
  selection -addr :8081              # Run on a different port
  selection -config selection.yaml   # Load settings from a file
  selection -adminpw secret123       # Use specific admin password

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("selection %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Flags win over config file and environment
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *adminPw != "" {
		cfg.Admin.Password = *adminPw
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	password := cfg.Admin.Password
	if password == "" {
		password = auth.GeneratePassword()
	}
	adminAuth := auth.New(password)

	appLog := logger.NewWithLevel(logger.ParseLevel(cfg.Log.Level))
	if cfg.Log.HTTP {
		appLog.EnableHTTPLogging()
	}

	a, err := app.New(appLog, cfg, adminAuth)
	if err != nil {
		log.Fatal("Failed to initialize application:", err)
	}
	defer a.Close()

	appLog.Info("Admin password", "password", password)
	if err := a.Run(); err != nil {
		log.Fatal(err)
	}
}
