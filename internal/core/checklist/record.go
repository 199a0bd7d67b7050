package checklist

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// legacyDateLayouts are the locale renderings found in records exported from
// the browser version of the tool.
var legacyDateLayouts = []string{
	"02/01/2006, 15:04:05",
	"2/1/2006, 15:04:05",
	"1/2/2006, 3:04:05 PM",
}

// PointRecord is the persisted form of a CheckPoint.
type PointRecord struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Status Status `json:"status"`
}

// Record is the persisted state of one job type's session.
//
// Records written by this package always carry Points. The legacy flat form
// with per-index check{i} and status{i} fields is still accepted on read.
type Record struct {
	JobNum        string        `json:"jobNum"`
	Date          string        `json:"date"`
	Confirm       bool          `json:"confirm"`
	DoubleChecker string        `json:"doubleChecker,omitempty"`
	AllOK         bool          `json:"allOk,omitempty"`
	JobType       string        `json:"jobType,omitempty"`
	Points        []PointRecord `json:"points"`

	legacy map[int]Status
}

// IsLegacy reports whether the record was read from the index-keyed form.
func (r Record) IsLegacy() bool {
	return r.Points == nil && r.legacy != nil
}

// OpenedAt parses the record date.
func (r Record) OpenedAt() (time.Time, bool) {
	if r.Date == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, r.Date); err == nil {
		return t, true
	}
	for _, layout := range legacyDateLayouts {
		if t, err := time.ParseInLocation(layout, r.Date, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type recordAlias Record

// UnmarshalJSON decodes both the current and the legacy record shapes.
func (r *Record) UnmarshalJSON(data []byte) error {
	var base recordAlias
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}
	*r = Record(base)
	if r.Points != nil {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	legacy, err := parseLegacyFields(fields)
	if err != nil {
		return err
	}
	if len(legacy) > 0 {
		r.legacy = legacy
	}
	return nil
}

// parseLegacyFields reads check{i} booleans and status{i} values. A status
// field wins over the boolean at the same index.
func parseLegacyFields(fields map[string]json.RawMessage) (map[int]Status, error) {
	checks := make(map[int]Status)
	statuses := make(map[int]Status)

	for key, raw := range fields {
		switch {
		case strings.HasPrefix(key, "check"):
			i, err := strconv.Atoi(strings.TrimPrefix(key, "check"))
			if err != nil {
				continue
			}
			var checked bool
			if err := json.Unmarshal(raw, &checked); err != nil {
				return nil, fmt.Errorf("legacy field %s: %w", key, err)
			}
			if checked {
				checks[i] = StatusDone
			} else {
				checks[i] = StatusPending
			}
		case strings.HasPrefix(key, "status"):
			i, err := strconv.Atoi(strings.TrimPrefix(key, "status"))
			if err != nil {
				continue
			}
			var v string
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, fmt.Errorf("legacy field %s: %w", key, err)
			}
			st, err := parseLegacyStatus(v)
			if err != nil {
				return nil, fmt.Errorf("legacy field %s: %w", key, err)
			}
			statuses[i] = st
		}
	}

	for i, st := range statuses {
		checks[i] = st
	}
	return checks, nil
}

func parseLegacyStatus(v string) (Status, error) {
	switch strings.ToLower(strings.ReplaceAll(v, " ", "")) {
	case "notrequired", "not_required", "not-required", "na", "n/a":
		return StatusNotRequired, nil
	case "done", "complete", "completed":
		return StatusDone, nil
	case "pending", "":
		return StatusPending, nil
	default:
		return ParseStatus(v)
	}
}
