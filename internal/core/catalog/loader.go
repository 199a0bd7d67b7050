package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/colonyops/jobcheck/pkg/workpool"
)

//go:embed default.yaml
var defaultCatalog []byte

// DefaultTimeout bounds remote catalog fetches.
const DefaultTimeout = 10 * time.Second

const (
	maxRemoteSize        = 1 << 20
	maxConcurrentSources = 4
)

// LoadError reports a catalog source that could not be fetched or parsed.
// A failed load is terminal: callers show the error and wait for a new user
// action instead of retrying.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load catalog %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Default returns the built-in catalog.
func Default() *Catalog {
	doc, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return Merge(doc)
}

// DefaultDocument returns the YAML source of the built-in catalog.
func DefaultDocument() []byte {
	return bytes.Clone(defaultCatalog)
}

// Loader reads catalog documents from files and URLs.
type Loader struct {
	// Sources are file paths, doublestar globs or http(s) URLs. When empty
	// the built-in catalog is used.
	Sources []string
	// BaseDir resolves relative file sources.
	BaseDir string
	Timeout time.Duration
	Client  *http.Client
	Log     zerolog.Logger
}

// Load reads every source in order and merges them.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	if len(l.Sources) == 0 {
		return Default(), nil
	}

	// Sources load concurrently but merge in the order they are listed.
	loaded := make([][]Document, len(l.Sources))
	errs := make([]error, len(l.Sources))
	pool := workpool.New(maxConcurrentSources)

	var wg sync.WaitGroup
	for i, src := range l.Sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := pool.RunContext(ctx, func() {
				loaded[i], errs[i] = l.loadSource(ctx, src)
			})
			if err != nil {
				errs[i] = &LoadError{Source: src, Err: err}
			}
		}()
	}
	wg.Wait()

	var docs []Document
	for i := range l.Sources {
		if errs[i] != nil {
			return nil, errs[i]
		}
		docs = append(docs, loaded[i]...)
	}

	c := Merge(docs...)
	l.Log.Debug().Int("job_types", c.Len()).Strs("sources", l.Sources).Msg("catalog loaded")
	return c, nil
}

// Files returns the local files the sources currently resolve to.
func (l *Loader) Files() ([]string, error) {
	var files []string
	for _, src := range l.Sources {
		if isURL(src) {
			continue
		}
		matches, err := l.expand(src)
		if err != nil {
			return nil, &LoadError{Source: src, Err: err}
		}
		files = append(files, matches...)
	}
	return files, nil
}

func (l *Loader) loadSource(ctx context.Context, src string) ([]Document, error) {
	if isURL(src) {
		data, err := l.fetch(ctx, src)
		if err != nil {
			return nil, &LoadError{Source: src, Err: err}
		}
		doc, err := Parse(data)
		if err != nil {
			return nil, &LoadError{Source: src, Err: err}
		}
		return []Document{doc}, nil
	}

	files, err := l.expand(src)
	if err != nil {
		return nil, &LoadError{Source: src, Err: err}
	}

	docs := make([]Document, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, &LoadError{Source: f, Err: err}
		}
		doc, err := Parse(data)
		if err != nil {
			return nil, &LoadError{Source: f, Err: err}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// expand resolves a file source. A pattern that matches nothing is an error
// so that a typo does not silently fall back to an empty catalog.
func (l *Loader) expand(src string) ([]string, error) {
	pattern := src
	if !filepath.IsAbs(pattern) && l.BaseDir != "" {
		pattern = filepath.Join(l.BaseDir, pattern)
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match %q", src)
	}
	return matches, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxRemoteSize {
		return nil, errors.New("catalog exceeds 1 MiB")
	}
	return data, nil
}

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}
