package checklist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tyres = []string{
	"Check tyre pressure",
	"Inspect tread depth",
	"Torque wheel nuts",
	"Check valve caps",
}

func openTyres(t *testing.T) *Session {
	t.Helper()
	return Open(OpenOptions{
		JobType:  "Tyres",
		Template: tyres,
		Now:      time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	})
}

func TestOpen_FreshSessionIsPending(t *testing.T) {
	s := openTyres(t)

	require.Len(t, s.Points, 4)
	for i, p := range s.Points {
		assert.Equal(t, tyres[i], p.Text)
		assert.Equal(t, StatusPending, p.Status)
		assert.NotEmpty(t, p.ID)
	}
	assert.False(t, s.IsComplete())
	assert.False(t, s.CanFinalize())
	assert.Equal(t, 4, s.Pending())
}

func TestOpen_DoesNotAliasTemplate(t *testing.T) {
	template := []string{"a", "b"}
	s := Open(OpenOptions{JobType: "x", Template: template})

	require.NoError(t, s.EditText(0, "changed"))
	assert.Equal(t, "a", template[0])
}

func TestSession_AllDoneCanFinalize(t *testing.T) {
	s := openTyres(t)
	for i := range s.Points {
		require.NoError(t, s.Toggle(i))
	}

	assert.True(t, s.IsComplete())
	assert.True(t, s.CanFinalize())
	assert.NoError(t, s.Validate())
}

func TestSession_NotRequiredCountsAsResolved(t *testing.T) {
	s := openTyres(t)
	for i := range 3 {
		require.NoError(t, s.SetStatus(i, StatusDone))
	}
	assert.False(t, s.CanFinalize())

	require.NoError(t, s.SetStatus(3, StatusNotRequired))
	assert.True(t, s.CanFinalize())
}

func TestSession_AddPendingBreaksCompletion(t *testing.T) {
	s := openTyres(t)
	for i := range s.Points {
		require.NoError(t, s.SetStatus(i, StatusDone))
	}
	require.True(t, s.IsComplete())

	idx := s.Add("")
	assert.Equal(t, 4, idx)
	assert.Equal(t, DefaultPointText, s.Points[idx].Text)
	assert.Equal(t, StatusPending, s.Points[idx].Status)
	assert.False(t, s.IsComplete())
}

func TestSession_Toggle(t *testing.T) {
	tests := []struct {
		name string
		from Status
		want Status
	}{
		{"pending becomes done", StatusPending, StatusDone},
		{"done becomes pending", StatusDone, StatusPending},
		{"not required becomes done", StatusNotRequired, StatusDone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openTyres(t)
			require.NoError(t, s.SetStatus(0, tt.from))
			require.NoError(t, s.Toggle(0))
			assert.Equal(t, tt.want, s.Points[0].Status)
		})
	}
}

func TestSession_OutOfRange(t *testing.T) {
	s := openTyres(t)

	tests := []struct {
		name string
		fn   func() error
	}{
		{"toggle", func() error { return s.Toggle(4) }},
		{"set status", func() error { return s.SetStatus(-1, StatusDone) }},
		{"edit text", func() error { return s.EditText(10, "x") }},
		{"remove", func() error { return s.Remove(4) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			require.ErrorIs(t, err, ErrOutOfRange)

			var rangeErr *OutOfRangeError
			require.ErrorAs(t, err, &rangeErr)
			assert.Equal(t, 4, rangeErr.Len)
		})
	}

	assert.Len(t, s.Points, 4, "failed mutations leave state unchanged")
	assert.Equal(t, 4, s.Pending())
}

func TestSession_SetStatusRejectsUnknown(t *testing.T) {
	s := openTyres(t)
	err := s.SetStatus(0, Status("skipped"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, StatusPending, s.Points[0].Status)
}

func TestSession_RemovePreservesOrder(t *testing.T) {
	s := openTyres(t)
	ids := []string{s.Points[0].ID, s.Points[2].ID, s.Points[3].ID}

	require.NoError(t, s.Remove(1))

	require.Len(t, s.Points, 3)
	assert.Equal(t, []string{tyres[0], tyres[2], tyres[3]}, s.Texts())
	for i, p := range s.Points {
		assert.Equal(t, ids[i], p.ID)
	}
}

func TestSession_EditText(t *testing.T) {
	s := openTyres(t)
	require.NoError(t, s.EditText(2, "Torque wheel nuts to 120Nm"))
	assert.Equal(t, "Torque wheel nuts to 120Nm", s.Points[2].Text)
}

func TestSession_Reviewer(t *testing.T) {
	s := openTyres(t)

	err := s.SetReviewer("  ", true)
	require.ErrorIs(t, err, ErrValidation)
	assert.Nil(t, s.Reviewer)

	require.NoError(t, s.SetReviewer(" Sam ", false))
	require.NotNil(t, s.Reviewer)
	assert.Equal(t, "Sam", s.Reviewer.Name)
	assert.False(t, s.Reviewer.AllOK)

	s.ClearReviewer()
	assert.Nil(t, s.Reviewer)
}

func TestSession_OtherJobNeedsDelegate(t *testing.T) {
	s := Open(OpenOptions{JobType: "Other Job", Delegating: true})
	idx := s.Add("Inspect exhaust")
	require.NoError(t, s.SetStatus(idx, StatusDone))

	assert.True(t, s.IsComplete())
	assert.False(t, s.CanFinalize())

	err := s.Validate()
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "select a valid job type")
}

func TestSession_SetDelegate(t *testing.T) {
	s := Open(OpenOptions{JobType: "Other Job", Delegating: true})

	require.NoError(t, s.SetDelegate("Tyres", tyres))
	assert.Equal(t, "Tyres", s.ResolvedJobType())
	require.Len(t, s.Points, 4)

	require.NoError(t, s.SetStatus(0, StatusDone))
	require.NoError(t, s.SetDelegate("Tyres", tyres))
	assert.Equal(t, StatusDone, s.Points[0].Status, "same delegate keeps progress")

	require.NoError(t, s.SetDelegate("Brakes", []string{"Check pads"}))
	assert.Equal(t, []string{"Check pads"}, s.Texts())
	assert.Equal(t, StatusPending, s.Points[0].Status)
}

func TestSession_SetDelegateOnConcreteJob(t *testing.T) {
	s := openTyres(t)
	assert.Error(t, s.SetDelegate("Brakes", nil))
	assert.Equal(t, "Tyres", s.ResolvedJobType())
}

func TestSession_ValidateListsAllProblems(t *testing.T) {
	s := Open(OpenOptions{JobType: "Other Job", Delegating: true, Template: []string{"a"}})

	var verr *ValidationError
	require.ErrorAs(t, s.Validate(), &verr)
	assert.Equal(t, []string{"select a valid job type", "1 check-point(s) still pending"}, verr.Problems)

	s2 := openTyres(t)
	require.ErrorAs(t, s2.Validate(), &verr)
	assert.Equal(t, []string{"4 check-point(s) still pending"}, verr.Problems)
}

func TestSession_EmptyChecklistCanFinalize(t *testing.T) {
	s := Open(OpenOptions{JobType: "Tyres", Template: []string{"a"}})
	assert.False(t, s.CanFinalize())

	require.NoError(t, s.Remove(0))
	assert.Zero(t, s.Pending())
	assert.True(t, s.IsComplete())
	assert.True(t, s.CanFinalize())
	assert.NoError(t, s.Validate())

	other := Open(OpenOptions{JobType: "Other Job", Delegating: true})
	assert.True(t, other.IsComplete())
	assert.False(t, other.CanFinalize(), "a delegating session still needs a delegate")
}

func TestSession_ConfirmedIsIndependent(t *testing.T) {
	s := openTyres(t)
	s.SetConfirmed(true)
	assert.False(t, s.IsComplete())

	for i := range s.Points {
		require.NoError(t, s.SetStatus(i, StatusDone))
	}
	s.SetConfirmed(false)
	assert.True(t, s.CanFinalize())
}

func TestSession_RecordRoundTrip(t *testing.T) {
	s := openTyres(t)
	s.SetJobNumber(" J-1042 ")
	s.SetConfirmed(true)
	require.NoError(t, s.SetStatus(0, StatusDone))
	require.NoError(t, s.SetStatus(1, StatusNotRequired))
	require.NoError(t, s.EditText(2, "Torque wheel nuts to 110Nm"))
	require.NoError(t, s.Remove(3))
	s.Add("Road test")
	require.NoError(t, s.SetReviewer("Alex", true))

	rec := s.Record()
	reopened := Open(OpenOptions{
		JobType:  "Tyres",
		Template: tyres,
		Record:   &rec,
		Now:      time.Now(),
	})

	assert.Equal(t, s.Points, reopened.Points)
	assert.Equal(t, "J-1042", reopened.JobNumber)
	assert.True(t, reopened.Confirmed)
	assert.Equal(t, s.Reviewer, reopened.Reviewer)
	assert.True(t, s.OpenedAt.Equal(reopened.OpenedAt), "open time is kept from the first save")
}

func TestSession_RecordKeepsDelegate(t *testing.T) {
	s := Open(OpenOptions{JobType: "Other Job", Delegating: true})
	require.NoError(t, s.SetDelegate("Tyres", tyres))

	rec := s.Record()
	assert.Equal(t, "Tyres", rec.JobType)

	reopened := Open(OpenOptions{JobType: "Other Job", Delegating: true, Record: &rec})
	assert.Equal(t, "Tyres", reopened.Delegate)
	assert.Equal(t, tyres, reopened.Texts())
}

func TestSession_RecordEmptyListSurvives(t *testing.T) {
	s := openTyres(t)
	for range 4 {
		require.NoError(t, s.Remove(0))
	}

	rec := s.Record()
	reopened := Open(OpenOptions{JobType: "Tyres", Template: tyres, Record: &rec})
	assert.Empty(t, reopened.Points)
}
