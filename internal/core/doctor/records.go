package doctor

import (
	"context"
	"fmt"

	"github.com/colonyops/jobcheck/internal/core/catalog"
	"github.com/colonyops/jobcheck/internal/core/checklist"
)

// RecordsCheck reads every saved record. With autofix, records that cannot
// be decoded are cleared.
type RecordsCheck struct {
	store    checklist.Store
	provider *catalog.Provider
	autofix  bool
}

// NewRecordsCheck creates a new saved-records check.
func NewRecordsCheck(store checklist.Store, provider *catalog.Provider, autofix bool) *RecordsCheck {
	return &RecordsCheck{store: store, provider: provider, autofix: autofix}
}

func (c *RecordsCheck) Name() string {
	return "Saved checklists"
}

func (c *RecordsCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	saved, err := c.store.Saved(ctx)
	if err != nil {
		result.fail("store", err.Error())
		return result
	}
	if len(saved) == 0 {
		result.pass("store", "no saved checklists")
		return result
	}

	// A failed catalog is reported by CatalogCheck.
	cat, _ := c.provider.Get()

	for _, jobType := range saved {
		if _, err := c.store.Load(ctx, jobType); err != nil {
			result.Items = append(result.Items, c.unreadable(ctx, jobType, err))
			continue
		}
		if cat != nil && !cat.Has(jobType) {
			result.warn(jobType, "job type is not in the catalog")
			continue
		}
		result.pass(jobType, "")
	}

	return result
}

func (c *RecordsCheck) unreadable(ctx context.Context, jobType string, loadErr error) CheckItem {
	item := CheckItem{Label: jobType, Status: StatusFail, Detail: loadErr.Error(), Fixable: true}
	if !c.autofix {
		return item
	}

	if err := c.store.Clear(ctx, jobType); err != nil {
		item.Detail = fmt.Sprintf("clear failed: %v", err)
		return item
	}
	return CheckItem{Label: jobType, Status: StatusPass, Detail: "unreadable record cleared"}
}
