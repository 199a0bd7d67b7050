package doctor

import (
	"context"
	"fmt"

	"github.com/colonyops/jobcheck/internal/core/catalog"
)

// CatalogCheck loads the catalog and reports what it holds.
type CatalogCheck struct {
	provider *catalog.Provider
}

// NewCatalogCheck creates a new catalog check.
func NewCatalogCheck(provider *catalog.Provider) *CatalogCheck {
	return &CatalogCheck{provider: provider}
}

func (c *CatalogCheck) Name() string {
	return "Catalog"
}

func (c *CatalogCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	cat, err := c.provider.Load(ctx)
	if err != nil {
		result.fail("load", err.Error())
		return result
	}

	result.pass("job types", fmt.Sprintf("%d loaded", cat.Len()))
	for _, name := range cat.Names() {
		if cat.IsDelegating(name) {
			continue
		}
		tmpl, err := cat.Template(name)
		switch {
		case err != nil:
			result.fail(name, err.Error())
		case len(tmpl) == 0:
			result.warn(name, "no check-points")
		}
	}

	if len(cat.DelegateCandidates()) == 0 {
		result.warn(catalog.OtherJob, "no job types to delegate to")
	}

	return result
}
