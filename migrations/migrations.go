// Package migrations содержит SQL-миграции для обоих поддерживаемых драйверов БД.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// PostgresURL приводит DSN postgres к схеме драйвера migrate pgx5://
func PostgresURL(databaseURL string) string {
	if strings.HasPrefix(databaseURL, "pgx5://") {
		return databaseURL
	}
	if strings.HasPrefix(databaseURL, "postgresql://") {
		return strings.Replace(databaseURL, "postgresql://", "pgx5://", 1)
	}
	return strings.Replace(databaseURL, "postgres://", "pgx5://", 1)
}

// SQLiteURL строит URL migrate для файла sqlite
func SQLiteURL(path string) string {
	return "sqlite://" + path
}

// Up применяет миграции каталога dir ("postgres" или "sqlite") к базе по URL migrate
func Up(dir, databaseURL string) error {
	source, err := iofs.New(files, dir)
	if err != nil {
		return fmt.Errorf("could not open embedded migrations %s: %w", dir, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
