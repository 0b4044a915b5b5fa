// Package migrations embeds the schema history and applies it with golang-migrate.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var files embed.FS

// Latest is the highest schema version shipped with this build.
const Latest uint = 4

// Migrator applies embedded migrations to one database.
type Migrator struct {
	m *migrate.Migrate
}

// New opens a migrator for the given postgres DSN.
func New(dsn string) (*Migrator, error) {
	src, err := iofs.New(files, ".")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, driverURL(dsn))
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return &Migrator{m: m}, nil
}

// driverURL rewrites a postgres:// DSN to the scheme the pgx/v5 driver registers.
func driverURL(dsn string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// Up applies all pending migrations. Returns true when something changed.
func (g *Migrator) Up() (bool, error) {
	return changed(g.m.Up())
}

// Down rolls back every migration.
func (g *Migrator) Down() (bool, error) {
	return changed(g.m.Down())
}

// Steps moves n migrations forward (n > 0) or back (n < 0).
func (g *Migrator) Steps(n int) (bool, error) {
	return changed(g.m.Steps(n))
}

// Version reports the current schema version. Zero means no migrations applied.
func (g *Migrator) Version() (version uint, dirty bool, err error) {
	version, dirty, err = g.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// Force marks a version as clean after a failed migration was repaired by hand.
func (g *Migrator) Force(version int) error {
	return g.m.Force(version)
}

// Close releases the source and database handles.
func (g *Migrator) Close() error {
	srcErr, dbErr := g.m.Close()
	return errors.Join(srcErr, dbErr)
}

func changed(err error) (bool, error) {
	if errors.Is(err, migrate.ErrNoChange) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
