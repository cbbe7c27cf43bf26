package migrate

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	ErrInitMigrator  = errors.New("migrate: failed to create migrator")
	ErrApply         = errors.New("migrate: failed to apply migrations")
	ErrUnknownAction = errors.New("migrate: unknown action")
)

// Action направление миграции
type Action string

const (
	ActionUp   Action = "up"
	ActionDown Action = "down"
	ActionDrop Action = "drop"
)

type Logger interface {
	Info(format string, v ...interface{})
}

// Run применяет встроенные миграции к базе по DSN
func Run(dsn string, action Action, log Logger) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("%w: source: %v", ErrInitMigrator, err)
	}

	mig, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInitMigrator, err)
	}
	defer mig.Close()

	switch action {
	case ActionUp:
		err = mig.Up()
	case ActionDown:
		err = mig.Steps(-1)
	case ActionDrop:
		err = mig.Down()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w: %s: %v", ErrApply, action, err)
	}

	version, dirty, verr := mig.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("%w: version: %v", ErrApply, verr)
	}
	log.Info("Migrations %s completed (version=%d, dirty=%t)", action, version, dirty)

	return nil
}

// Files возвращает имена встроенных файлов миграций
func Files() ([]string, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}
