package report

import (
	"strings"
	"testing"
	"time"

	"github.com/colonyops/jobcheck/internal/core/checklist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tyres = []string{
	"Inspect tyre tread depth and condition",
	"Check for damage and age cracks",
	"Set correct tyre pressures",
	"Torque wheel nuts",
}

func newSession(t *testing.T) *checklist.Session {
	t.Helper()
	s := checklist.Open(checklist.OpenOptions{
		JobType:  "Tyres",
		Template: tyres,
		Now:      time.Date(2026, 3, 1, 9, 5, 7, 0, time.UTC),
	})
	s.SetJobNumber("J-1042")
	return s
}

func checkLines(report string) []string {
	_, after, _ := strings.Cut(report, "Completed Checks:\n")
	body, _, _ := strings.Cut(after, "\n\n")
	return strings.Split(body, "\n")
}

func TestGenerate_AllDone(t *testing.T) {
	s := newSession(t)
	for i := range s.Points {
		require.NoError(t, s.SetStatus(i, checklist.StatusDone))
	}
	require.True(t, s.CanFinalize())

	got := Generator{}.Generate(s)

	want := "Job Type: Tyres\n" +
		"Job Number: J-1042\n" +
		"Date/Time: 01/03/2026, 09:05:07\n" +
		"\n" +
		"Completed Checks:\n" +
		"✓ Inspect tyre tread depth and condition\n" +
		"✓ Check for damage and age cracks\n" +
		"✓ Set correct tyre pressures\n" +
		"✓ Torque wheel nuts\n" +
		"\n" +
		"Final Confirmation: ✓ Vehicle safe and ready for release."
	assert.Equal(t, want, got)

	lines := checkLines(got)
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasSuffix(got, ConfirmationLine))
}

func TestGenerate_NotRequiredSuffix(t *testing.T) {
	s := newSession(t)
	for i := range 3 {
		require.NoError(t, s.SetStatus(i, checklist.StatusDone))
	}
	require.NoError(t, s.SetStatus(3, checklist.StatusNotRequired))

	lines := checkLines(Generator{ShowStatus: true}.Generate(s))
	require.Len(t, lines, 4)
	assert.Equal(t, "✓ Inspect tyre tread depth and condition (Done)", lines[0])
	assert.Equal(t, "- Torque wheel nuts (Not Required)", lines[3])
}

func TestGenerate_PendingDoesNotPanic(t *testing.T) {
	s := newSession(t)
	lines := checkLines(Generator{ShowStatus: true}.Generate(s))
	assert.Equal(t, "✗ Inspect tyre tread depth and condition (Pending)", lines[0])
}

func TestGenerate_Reviewer(t *testing.T) {
	tests := []struct {
		name  string
		allOK bool
		want  string
	}{
		{"all ok", true, "Double Checked By: Sam – ✓ All OK"},
		{"not ok", false, "Double Checked By: Sam – ✗ All OK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t)
			require.NoError(t, s.SetReviewer("Sam", tt.allOK))

			got := Generator{}.Generate(s)
			assert.True(t, strings.HasSuffix(got, ConfirmationLine+"\n"+tt.want))
		})
	}
}

func TestGenerate_DelegateAndLayout(t *testing.T) {
	s := checklist.Open(checklist.OpenOptions{
		JobType:    "Other Job",
		Delegating: true,
		Now:        time.Date(2026, 3, 1, 9, 5, 7, 0, time.UTC),
	})
	require.NoError(t, s.SetDelegate("Exhaust", []string{"Fit new exhaust system"}))

	got := Generator{DateLayout: time.RFC3339}.Generate(s)
	assert.Contains(t, got, "Job Type: Exhaust\n")
	assert.Contains(t, got, "Date/Time: 2026-03-01T09:05:07Z\n")
}

func TestMark(t *testing.T) {
	assert.Equal(t, "✓", Mark(checklist.StatusDone))
	assert.Equal(t, "-", Mark(checklist.StatusNotRequired))
	assert.Equal(t, "✗", Mark(checklist.StatusPending))
	assert.Equal(t, "✗", Mark(checklist.Status("weird")))
}
