package testhelpers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
)

// LoadFixtures loads SQL fixture files into the database
func LoadFixtures(db *sqlx.DB, fixturesPath string, files []string) error {
	for _, file := range files {
		content, err := os.ReadFile(filepath.Join(fixturesPath, file))
		if err != nil {
			return fmt.Errorf("read fixture %s: %w", file, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("load fixture %s: %w", file, err)
		}
	}

	return nil
}
