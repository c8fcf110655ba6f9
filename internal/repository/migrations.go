package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations applies every *.up.sql file in dir in lexical order. The
// schema statements are idempotent, so a file that already ran is skipped
// rather than treated as a failure.
func RunMigrations(pool *pgxpool.Pool, dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("glob migrations in %s: %w", dir, err)
	}

	sort.Strings(files)

	for _, file := range files {
		log.Printf("Applying migration %s", file)
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}

		if _, err := pool.Exec(context.Background(), string(content)); err != nil {
			if strings.Contains(err.Error(), "already exists") {
				log.Printf("Migration %s already applied: %v", file, err)
				continue
			}
			return fmt.Errorf("apply migration %s: %w", file, err)
		}
	}

	return nil
}
