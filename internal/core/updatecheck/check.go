// Package updatecheck reports whether a newer jobcheck release is published.
package updatecheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/mod/semver"

	"github.com/colonyops/jobcheck/internal/core/kv"
)

const (
	cacheTTL       = 24 * time.Hour
	cacheNamespace = "update-check"
	cacheKey       = "latest"
	releaseAPIURL  = "https://api.github.com/repos/colonyops/jobcheck/releases/latest"
)

var releaseHTTPClient = &http.Client{Timeout: 5 * time.Second}

var fetchLatestReleaseJSON = func(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releaseAPIURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "jobcheck-update-checker")

	resp, err := releaseHTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request latest release: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Debug().Err(err).Msg("update check: close latest release response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request latest release: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read latest release body: %w", err)
	}

	return body, nil
}

// ReleaseInfo holds cached release data returned by GitHub.
type ReleaseInfo struct {
	TagName     string `json:"tag_name"`
	PublishedAt string `json:"published_at"`
}

// Result describes the installed and latest versions. Available is true
// when Latest is newer than Current.
type Result struct {
	Current   string
	Latest    string
	Available bool
}

// ErrUnknownVersion is returned for development builds and versions that are
// not semver.
var ErrUnknownVersion = errors.New("unknown version")

// Checker compares the running version with the latest release. Release
// lookups are cached in the KV store for a day.
type Checker struct {
	store kv.KV
	now   func() time.Time
}

// New creates a Checker caching in store. A nil store disables caching.
func New(store kv.KV) *Checker {
	return &Checker{store: store, now: time.Now}
}

// Check compares currentVersion to the latest release.
func (c *Checker) Check(ctx context.Context, currentVersion string) (Result, error) {
	if currentVersion == "" || currentVersion == "dev" {
		return Result{}, ErrUnknownVersion
	}

	current, ok := normalizeVersion(currentVersion)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownVersion, currentVersion)
	}

	release, err := c.latestRelease(ctx)
	if err != nil {
		return Result{}, err
	}

	latest, ok := normalizeVersion(release.TagName)
	if !ok {
		return Result{}, fmt.Errorf("invalid release tag %q", release.TagName)
	}

	return Result{
		Current:   current,
		Latest:    latest,
		Available: semver.Compare(current, latest) < 0,
	}, nil
}

func (c *Checker) latestRelease(ctx context.Context) (ReleaseInfo, error) {
	if c.store == nil {
		return fetchRelease(ctx)
	}

	cache := kv.Scoped[ReleaseInfo](c.store, cacheNamespace)

	// Entries never expire on their own; the update time bounds the cache.
	if entry, err := c.store.GetRaw(ctx, cache.Key(cacheKey)); err == nil && c.now().Sub(entry.UpdatedAt) < cacheTTL {
		if cached, err := cache.Get(ctx, cacheKey); err == nil {
			return cached, nil
		}
	}

	info, err := fetchRelease(ctx)
	if err != nil {
		return ReleaseInfo{}, err
	}

	if err := cache.Set(ctx, cacheKey, info); err != nil {
		log.Debug().Err(err).Msg("update check: failed to cache release")
	}

	return info, nil
}

func fetchRelease(ctx context.Context) (ReleaseInfo, error) {
	output, err := fetchLatestReleaseJSON(ctx)
	if err != nil {
		return ReleaseInfo{}, fmt.Errorf("fetch latest release: %w", err)
	}

	var info ReleaseInfo
	if err := json.Unmarshal(output, &info); err != nil {
		return ReleaseInfo{}, fmt.Errorf("decode latest release: %w", err)
	}

	if info.TagName == "" {
		return ReleaseInfo{}, errors.New("decode latest release: missing tag_name")
	}

	return info, nil
}

func normalizeVersion(version string) (string, bool) {
	if semver.IsValid(version) {
		return version, true
	}

	withPrefix := "v" + version
	if semver.IsValid(withPrefix) {
		return withPrefix, true
	}

	return "", false
}
