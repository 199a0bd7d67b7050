// Package jobcheck wires the catalog, session store, report generator and
// dispatch sink into the operations every surface uses.
package jobcheck

import (
	"github.com/colonyops/jobcheck/internal/core/catalog"
	"github.com/colonyops/jobcheck/internal/core/config"
	"github.com/colonyops/jobcheck/internal/core/eventbus"
	"github.com/colonyops/jobcheck/internal/data/db"
)

// App is the central entry point for all jobcheck operations.
// Commands, the TUI and the API server consume App instead of cherry-picking
// raw dependencies.
type App struct {
	Checklists *ChecklistService
	Doctor     *DoctorService
	Catalog    *catalog.Provider
	Config     *config.Config
	Bus        *eventbus.EventBus
	// DB is nil when the json store backend is configured.
	DB *db.DB
}

// NewApp constructs an App from explicit dependencies.
func NewApp(
	checklists *ChecklistService,
	provider *catalog.Provider,
	cfg *config.Config,
	bus *eventbus.EventBus,
	database *db.DB,
) *App {
	return &App{
		Checklists: checklists,
		Doctor:     NewDoctorService(checklists.store, provider, cfg),
		Catalog:    provider,
		Config:     cfg,
		Bus:        bus,
		DB:         database,
	}
}
