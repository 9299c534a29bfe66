package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/teamlog/teamlog-backend/internal/config"
	"github.com/teamlog/teamlog-backend/internal/database"
	"github.com/teamlog/teamlog-backend/internal/migration"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	configPath := flag.String("config", "configs/config.local.yaml", "config file path")
	dryRun := flag.Bool("dry-run", false, "show pending schema changes without executing")
	verify := flag.Bool("verify", false, "check message data integrity")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logLevel := gormlogger.Warn
	if *verbose {
		logLevel = gormlogger.Info
	}

	db, err := database.Open(cfg.Database, logLevel)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying DB: %v", err)
	}
	defer sqlDB.Close()

	switch {
	case *dryRun:
		pending, err := migration.Plan(db)
		if err != nil {
			log.Fatalf("[dry-run] %v", err)
		}
		if len(pending) == 0 {
			log.Println("[dry-run] schema is up to date")
			return
		}
		for _, step := range pending {
			log.Printf("[dry-run] would %s", step)
		}

	case *verify:
		issues, err := migration.Verify(db)
		if err != nil {
			log.Fatalf("[verify] %v", err)
		}
		if len(issues) == 0 {
			log.Println("[verify] no integrity issues found")
			return
		}
		for _, issue := range issues {
			log.Printf("[verify] %s", issue)
		}
		sqlDB.Close()
		os.Exit(1)

	default:
		if err := migration.Run(db); err != nil {
			log.Fatalf("[migrate] %v", err)
		}
		log.Println("[migrate] done")
	}
}
