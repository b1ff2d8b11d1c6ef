// Package wire provides dependency injection for the plank application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/example/plank/internal/adapters/sqlite"
	"github.com/example/plank/internal/app"
	"github.com/example/plank/internal/config"
	"github.com/example/plank/internal/db"
	"github.com/example/plank/internal/locks"
	"github.com/example/plank/internal/ports/primary"
)

var (
	cfg             *config.Config
	recordService   primary.RecordService
	scopeService    primary.ScopeService
	rollbackService primary.RollbackService
	citationService primary.CitationService
	once            sync.Once
)

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// RecordService returns the singleton RecordService instance.
func RecordService() primary.RecordService {
	once.Do(initServices)
	return recordService
}

// ScopeService returns the singleton ScopeService instance.
func ScopeService() primary.ScopeService {
	once.Do(initServices)
	return scopeService
}

// RollbackService returns the singleton RollbackService instance.
func RollbackService() primary.RollbackService {
	once.Do(initServices)
	return rollbackService
}

// CitationService returns the singleton CitationService instance.
func CitationService() primary.CitationService {
	once.Do(initServices)
	return citationService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to determine working directory: %v", err)
	}
	cfg = config.LoadOrDefault(cwd)

	logger := buildLogger(cwd, cfg.LogLevel)

	dbPath := cfg.DatabasePath
	if dbPath == "" {
		dbPath, err = db.DefaultPath()
		if err != nil {
			log.Fatalf("failed to resolve database path: %v", err)
		}
	}
	database, err := db.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Repository adapters (secondary ports) - sqlite adapters with injected DB
	recordRepo := sqlite.NewRecordRepository(database)
	changeLogRepo := sqlite.NewChangeLogRepository(database)
	rollbackRepo := sqlite.NewRollbackRepository(database)
	citationRepo := sqlite.NewCitationRepository(database)

	lockMgr := locks.NewManager()

	// Services (primary ports implementation)
	recordService = app.NewRecordService(recordRepo, changeLogRepo, logger)
	scopeService = app.NewScopeService(recordRepo, changeLogRepo, logger)
	rollbackService = app.NewRollbackService(recordRepo, changeLogRepo, rollbackRepo, lockMgr, cfg.LockWaitTimeout, logger)
	citationService = app.NewCitationService(recordRepo, changeLogRepo, citationRepo, logger)
}

// buildLogger writes structured logs to .plank/plank.log in the working
// directory. Logging must never break the CLI: failures fall back to a
// no-op logger.
func buildLogger(dir, level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	logDir := filepath.Join(dir, ".plank")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return zap.NewNop()
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.OutputPaths = []string{filepath.Join(logDir, "plank.log")}
	zcfg.ErrorOutputPaths = []string{filepath.Join(logDir, "plank.log")}

	logger, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
