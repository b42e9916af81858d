package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Anshuman122/worker-productivity-dashboard-final/common/database"
	logpkg "github.com/Anshuman122/worker-productivity-dashboard-final/common/logger"
	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/config"

	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <migration_file.sql> [more.sql ...]\n", os.Args[0])
		os.Exit(2)
	}

	cfg := config.Load()

	log, err := logpkg.NewLogger(cfg.Log.Level, "console", "apply-migration")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Cannot connect to database", zap.Error(err))
	}
	defer database.Close(db)

	log.Info("Connected to database", zap.String("database", cfg.Database.Database))

	for _, file := range os.Args[1:] {
		content, err := os.ReadFile(file)
		if err != nil {
			log.Fatal("Failed to read migration file", zap.String("file", file), zap.Error(err))
		}

		statements := splitStatements(string(content))
		for i, stmt := range statements {
			if _, err := db.Exec(stmt); err != nil {
				log.Fatal("Failed to execute statement",
					zap.String("file", file),
					zap.Int("statement", i+1),
					zap.String("sql", stmt[:min(100, len(stmt))]),
					zap.Error(err),
				)
			}
			log.Debug("Statement executed", zap.String("file", file), zap.Int("statement", i+1))
		}
		log.Info("Migration applied", zap.String("file", file), zap.Int("statements", len(statements)))
	}
}

// splitStatements splits on ';' and drops empty chunks and full-line comments
func splitStatements(sqlContent string) []string {
	var out []string
	for _, chunk := range strings.Split(sqlContent, ";") {
		var lines []string
		for _, line := range strings.Split(chunk, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "--") {
				continue
			}
			lines = append(lines, line)
		}
		stmt := strings.TrimSpace(strings.Join(lines, "\n"))
		if stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
