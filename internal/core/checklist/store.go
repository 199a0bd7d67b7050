package checklist

import (
	"context"
	"errors"
	"fmt"

	"github.com/colonyops/jobcheck/internal/core/kv"
)

// Key prefixes used in the key-value store.
const (
	RecordPrefix   = "checklist_"
	TemplatePrefix = "template_"
)

// Store persists one record per job type name. Saving overwrites any
// previous record for the same name.
type Store interface {
	// Load returns the saved record, or ErrNoRecord.
	Load(ctx context.Context, jobType string) (Record, error)
	Save(ctx context.Context, jobType string, rec Record) error
	Clear(ctx context.Context, jobType string) error
	// Saved lists job types that currently have a record.
	Saved(ctx context.Context) ([]string, error)
}

// TemplateStore holds per-job-type template overrides written when template
// edits are configured to apply globally.
type TemplateStore interface {
	LoadTemplate(ctx context.Context, jobType string) ([]string, bool, error)
	SaveTemplate(ctx context.Context, jobType string, texts []string) error
	ResetTemplate(ctx context.Context, jobType string) error
}

// KVStore implements Store and TemplateStore on top of a kv.KV.
type KVStore struct {
	records   *kv.TypedKV[Record]
	templates *kv.TypedKV[[]string]
}

var (
	_ Store         = (*KVStore)(nil)
	_ TemplateStore = (*KVStore)(nil)
)

// NewKVStore creates a store keyed "checklist_<jobType>".
func NewKVStore(store kv.KV) *KVStore {
	return &KVStore{
		records:   kv.Prefixed[Record](store, RecordPrefix),
		templates: kv.Prefixed[[]string](store, TemplatePrefix),
	}
}

func (s *KVStore) Load(ctx context.Context, jobType string) (Record, error) {
	rec, err := s.records.Get(ctx, jobType)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return Record{}, ErrNoRecord
		}
		return Record{}, fmt.Errorf("load checklist %q: %w", jobType, err)
	}
	return rec, nil
}

func (s *KVStore) Save(ctx context.Context, jobType string, rec Record) error {
	if err := s.records.Set(ctx, jobType, rec); err != nil {
		return fmt.Errorf("save checklist %q: %w", jobType, err)
	}
	return nil
}

func (s *KVStore) Clear(ctx context.Context, jobType string) error {
	if err := s.records.Delete(ctx, jobType); err != nil {
		return fmt.Errorf("clear checklist %q: %w", jobType, err)
	}
	return nil
}

func (s *KVStore) Saved(ctx context.Context) ([]string, error) {
	keys, err := s.records.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list saved checklists: %w", err)
	}
	return keys, nil
}

func (s *KVStore) LoadTemplate(ctx context.Context, jobType string) ([]string, bool, error) {
	texts, err := s.templates.Get(ctx, jobType)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load template %q: %w", jobType, err)
	}
	return texts, true, nil
}

func (s *KVStore) SaveTemplate(ctx context.Context, jobType string, texts []string) error {
	if err := s.templates.Set(ctx, jobType, texts); err != nil {
		return fmt.Errorf("save template %q: %w", jobType, err)
	}
	return nil
}

func (s *KVStore) ResetTemplate(ctx context.Context, jobType string) error {
	if err := s.templates.Delete(ctx, jobType); err != nil {
		return fmt.Errorf("reset template %q: %w", jobType, err)
	}
	return nil
}
