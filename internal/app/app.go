package app

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/afero"

	"github.com/hance08/keabook/internal/config"
	"github.com/hance08/keabook/internal/service"
	"github.com/hance08/keabook/internal/store"
)

type App struct {
	Config  *config.Config
	Service *service.Service
	Store   *store.Store
	// FS receives exported files.
	FS  afero.Fs
	Now func() time.Time
}

// NewApp opens the database and builds the services, then returns the App
// with the function that releases it.
func NewApp(cfg *config.Config, migrationFS fs.FS) (*App, func(), error) {
	a := &App{}
	cleanup, err := a.Open(cfg, migrationFS)
	if err != nil {
		return nil, nil, err
	}
	return a, cleanup, nil
}

// Open fills a zero App in place. Commands are built around an App before
// the configuration is known and open it once flags are parsed.
func (a *App) Open(cfg *config.Config, migrationFS fs.FS) (func(), error) {
	dbStore, err := store.NewStore(cfg.Database.Path, migrationFS)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	a.Config = cfg
	a.Store = dbStore
	a.FS = afero.NewOsFs()
	a.Now = time.Now
	a.Service = service.NewService(dbStore, service.Config{
		DefaultCurrency: cfg.Defaults.Currency,
		Now:             func() time.Time { return a.Now() },
	})

	cleanup := func() {
		if err := dbStore.Close(); err != nil {
			fmt.Printf("Error closing DB: %v\n", err)
		}
	}

	return cleanup, nil
}
