package jobcheck

import (
	"context"

	"github.com/colonyops/jobcheck/internal/core/catalog"
	"github.com/colonyops/jobcheck/internal/core/checklist"
	"github.com/colonyops/jobcheck/internal/core/config"
	"github.com/colonyops/jobcheck/internal/core/doctor"
	"github.com/colonyops/jobcheck/internal/core/updatecheck"
)

// DoctorService runs health checks on the jobcheck setup.
type DoctorService struct {
	store    checklist.Store
	provider *catalog.Provider
	config   *config.Config

	updates *updatecheck.Checker
	version string
}

// NewDoctorService creates a new DoctorService.
func NewDoctorService(store checklist.Store, provider *catalog.Provider, cfg *config.Config) *DoctorService {
	return &DoctorService{
		store:    store,
		provider: provider,
		config:   cfg,
	}
}

// WithUpdateCheck adds a release check for version to RunChecks.
func (d *DoctorService) WithUpdateCheck(checker *updatecheck.Checker, version string) *DoctorService {
	cp := *d
	cp.updates = checker
	cp.version = version
	return &cp
}

// RunChecks executes all doctor checks and returns results.
func (d *DoctorService) RunChecks(ctx context.Context, configPath string, autofix bool) []doctor.Result {
	checks := []doctor.Check{
		doctor.NewConfigCheck(d.config, configPath),
		doctor.NewCatalogCheck(d.provider),
		doctor.NewRecordsCheck(d.store, d.provider, autofix),
		doctor.NewToolsCheck(d.config.Dispatch.OpenCommand),
	}
	if d.updates != nil {
		checks = append(checks, doctor.NewVersionCheck(d.updates, d.version))
	}
	return doctor.RunAll(ctx, checks)
}
