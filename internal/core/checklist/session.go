// Package checklist defines the checklist session engine: check-points, the
// mutable session a technician works through, completion gating and the
// persisted record shape.
package checklist

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultPointText is used when a check-point is added without text.
const DefaultPointText = "New checkpoint"

// CheckPoint is one inspectable item in a session.
type CheckPoint struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Status Status `json:"status"`
}

// Reviewer is the secondary sign-off recorded on a session.
type Reviewer struct {
	Name  string `json:"name"`
	AllOK bool   `json:"allOk"`
}

// Session is the live working copy of one job type's checklist.
//
// A Session is not safe for concurrent use. Surfaces own exactly one current
// session and pass it explicitly to the service layer.
type Session struct {
	JobType    string       `json:"jobType"`
	Delegating bool         `json:"delegating"`
	Delegate   string       `json:"delegate,omitempty"`
	JobNumber  string       `json:"jobNumber"`
	OpenedAt   time.Time    `json:"openedAt"`
	Points     []CheckPoint `json:"points"`
	Confirmed  bool         `json:"confirmed"`
	Reviewer   *Reviewer    `json:"reviewer,omitempty"`
}

// OpenOptions describes how to build a session.
type OpenOptions struct {
	// JobType is the name the session is persisted under.
	JobType string
	// Delegating marks the generic job type that needs a concrete delegate
	// before it can be finalized.
	Delegating bool
	// Template holds the check-point texts used when the record carries no
	// point list of its own.
	Template []string
	// Record is the previously saved state, nil for a fresh session.
	Record *Record
	// Now is used as the open time when the record has no date.
	Now time.Time
}

// Open builds a session from a template and an optional saved record.
//
// Saved point lists win over the template entirely, so text edits, added and
// removed points survive a reload. Legacy index-keyed records are mapped onto
// the template by position. The open time is taken from the record when it
// has one and is never refreshed afterwards.
func Open(opts OpenOptions) *Session {
	s := &Session{
		JobType:    opts.JobType,
		Delegating: opts.Delegating,
		OpenedAt:   opts.Now,
	}

	rec := opts.Record
	if rec == nil {
		s.Points = pointsFromTemplate(opts.Template, nil)
		return s
	}

	s.JobNumber = rec.JobNum
	s.Confirmed = rec.Confirm
	if opts.Delegating {
		s.Delegate = rec.JobType
	}
	if rec.DoubleChecker != "" {
		s.Reviewer = &Reviewer{Name: rec.DoubleChecker, AllOK: rec.AllOK}
	}
	if t, ok := rec.OpenedAt(); ok {
		s.OpenedAt = t
	}

	switch {
	case rec.Points != nil:
		s.Points = make([]CheckPoint, 0, len(rec.Points))
		for _, p := range rec.Points {
			st := p.Status
			if !st.IsValid() {
				st = StatusPending
			}
			id := p.ID
			if id == "" {
				id = uuid.NewString()
			}
			s.Points = append(s.Points, CheckPoint{ID: id, Text: p.Text, Status: st})
		}
	default:
		s.Points = pointsFromTemplate(opts.Template, rec.legacy)
	}

	return s
}

func pointsFromTemplate(template []string, legacy map[int]Status) []CheckPoint {
	points := make([]CheckPoint, 0, len(template))
	for i, text := range template {
		st := StatusPending
		if v, ok := legacy[i]; ok {
			st = v
		}
		points = append(points, CheckPoint{ID: uuid.NewString(), Text: text, Status: st})
	}
	return points
}

// ResolvedJobType returns the delegate when one is chosen, otherwise the job
// type the session was opened under.
func (s *Session) ResolvedJobType() string {
	if s.Delegating && s.Delegate != "" {
		return s.Delegate
	}
	return s.JobType
}

func (s *Session) point(index int) (*CheckPoint, error) {
	if index < 0 || index >= len(s.Points) {
		return nil, &OutOfRangeError{Index: index, Len: len(s.Points)}
	}
	return &s.Points[index], nil
}

// Toggle flips a check-point between Done and Pending. A NotRequired point
// becomes Done.
func (s *Session) Toggle(index int) error {
	p, err := s.point(index)
	if err != nil {
		return err
	}
	if p.Status == StatusDone {
		p.Status = StatusPending
	} else {
		p.Status = StatusDone
	}
	return nil
}

// SetStatus sets the status of a check-point.
func (s *Session) SetStatus(index int, status Status) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	p, err := s.point(index)
	if err != nil {
		return err
	}
	p.Status = status
	return nil
}

// EditText replaces the description of a check-point.
func (s *Session) EditText(index int, text string) error {
	p, err := s.point(index)
	if err != nil {
		return err
	}
	p.Text = text
	return nil
}

// Add appends a pending check-point and returns its index.
func (s *Session) Add(text string) int {
	if strings.TrimSpace(text) == "" {
		text = DefaultPointText
	}
	s.Points = append(s.Points, CheckPoint{ID: uuid.NewString(), Text: text, Status: StatusPending})
	return len(s.Points) - 1
}

// Remove deletes the check-point at index. Later points shift down by one
// and keep their IDs.
func (s *Session) Remove(index int) error {
	if _, err := s.point(index); err != nil {
		return err
	}
	s.Points = append(s.Points[:index], s.Points[index+1:]...)
	return nil
}

// SetJobNumber records the job number.
func (s *Session) SetJobNumber(n string) {
	s.JobNumber = strings.TrimSpace(n)
}

// SetConfirmed records the technician's safety confirmation.
func (s *Session) SetConfirmed(v bool) {
	s.Confirmed = v
}

// SetReviewer records a secondary reviewer attestation.
func (s *Session) SetReviewer(name string, allOK bool) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Problems: []string{"reviewer name is required"}}
	}
	s.Reviewer = &Reviewer{Name: name, AllOK: allOK}
	return nil
}

// ClearReviewer removes the secondary reviewer attestation.
func (s *Session) ClearReviewer() {
	s.Reviewer = nil
}

// SetDelegate chooses the concrete job type for a delegating session and
// replaces the check-points with that job type's template. Choosing the
// current delegate again keeps existing progress.
func (s *Session) SetDelegate(name string, template []string) error {
	if !s.Delegating {
		return fmt.Errorf("job type %q does not take a delegate", s.JobType)
	}
	if name == s.Delegate {
		return nil
	}
	s.Delegate = name
	s.Points = pointsFromTemplate(template, nil)
	return nil
}

// Pending returns the number of check-points not yet resolved.
func (s *Session) Pending() int {
	n := 0
	for _, p := range s.Points {
		if !p.Status.Resolved() {
			n++
		}
	}
	return n
}

// IsComplete reports whether every check-point is Done or NotRequired. The
// confirmation flag is not consulted.
func (s *Session) IsComplete() bool {
	return s.Pending() == 0
}

// CanFinalize reports whether the session may be completed: the checklist
// is complete and a delegating session has a delegate. An empty checklist
// is complete.
func (s *Session) CanFinalize() bool {
	return s.IsComplete() && (!s.Delegating || s.Delegate != "")
}

// Validate explains why CanFinalize is false. It returns nil when the
// session can be finalized.
func (s *Session) Validate() error {
	var problems []string
	if s.Delegating && s.Delegate == "" {
		problems = append(problems, "select a valid job type")
	}
	if n := s.Pending(); n > 0 {
		problems = append(problems, fmt.Sprintf("%d check-point(s) still pending", n))
	}
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

// Texts returns the current check-point descriptions in order.
func (s *Session) Texts() []string {
	texts := make([]string, len(s.Points))
	for i, p := range s.Points {
		texts[i] = p.Text
	}
	return texts
}

// Record flattens the session into its persisted form.
func (s *Session) Record() Record {
	rec := Record{
		JobNum:  s.JobNumber,
		Date:    s.OpenedAt.Format(time.RFC3339),
		Confirm: s.Confirmed,
		Points:  make([]PointRecord, len(s.Points)),
	}
	if s.Delegating {
		rec.JobType = s.Delegate
	}
	if s.Reviewer != nil {
		rec.DoubleChecker = s.Reviewer.Name
		rec.AllOK = s.Reviewer.AllOK
	}
	for i, p := range s.Points {
		rec.Points[i] = PointRecord(p)
	}
	return rec
}
