package catalog

import (
	"context"
	"sync"
	"time"
)

// Provider holds the current catalog for long-running surfaces. It is in
// either a loaded or a failed state; a failed load leaves no catalog behind.
type Provider struct {
	loader *Loader

	mu       sync.RWMutex
	catalog  *Catalog
	err      error
	loadedAt time.Time
}

// NewProvider creates an unloaded provider.
func NewProvider(loader *Loader) *Provider {
	return &Provider{loader: loader}
}

// Static returns a provider that always serves c.
func Static(c *Catalog) *Provider {
	return &Provider{catalog: c, loadedAt: time.Now()}
}

// Load runs the loader once and records the outcome.
func (p *Provider) Load(ctx context.Context) (*Catalog, error) {
	if p.loader == nil {
		return p.Get()
	}

	c, err := p.loader.Load(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.catalog, p.err, p.loadedAt = c, err, time.Now()
	return c, err
}

// Get returns the current catalog or the error of the last load.
func (p *Provider) Get() (*Catalog, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.err != nil {
		return nil, p.err
	}
	if p.catalog == nil {
		return nil, &LoadError{Source: "catalog", Err: errNotLoaded}
	}
	return p.catalog, nil
}

// LoadedAt returns when the last load finished.
func (p *Provider) LoadedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loadedAt
}
