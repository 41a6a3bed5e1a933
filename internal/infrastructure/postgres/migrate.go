package postgres

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// Las restricciones únicas de numeración y de cuotas viven en estas migraciones.
//
//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// RunMigrations aplica las migraciones embebidas pendientes. Sin cambios no es error.
func RunMigrations(pool *pgxpool.Pool) error {
	return withMigrator(pool, func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("aplicar migraciones: %w", err)
		}
		return nil
	})
}

// MigrationVersion devuelve la versión aplicada (0 si ninguna) y si quedó en estado sucio.
func MigrationVersion(pool *pgxpool.Pool) (version uint, dirty bool, err error) {
	err = withMigrator(pool, func(m *migrate.Migrate) error {
		var verr error
		version, dirty, verr = m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			return nil
		}
		return verr
	})
	return version, dirty, err
}

func withMigrator(pool *pgxpool.Pool, fn func(m *migrate.Migrate) error) error {
	if pool == nil {
		return errors.New("pool de base de datos requerido para migrar")
	}

	source, err := iofs.New(embeddedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("crear fuente de migraciones: %w", err)
	}

	// El *sql.DB envuelve el pool; cerrarlo no cierra el pool.
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("crear driver de migraciones: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("crear migrador: %w", err)
	}
	return fn(m)
}
