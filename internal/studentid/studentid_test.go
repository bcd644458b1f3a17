package studentid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/batchname"
)

func TestSimple(t *testing.T) {
	assert.Equal(t, "PY 9876543210", Simple("PY", "9876543210"))
}

func TestSequence(t *testing.T) {
	sched := batchname.Schedule{StartTime: "10:00", EndTime: "11:00", StartDate: "01-AUG-2025"}

	tests := []struct {
		name     string
		initials string
		existing []string
		sched    batchname.Schedule
		want     string
	}{
		{
			name:     "first of its course",
			initials: "PY",
			existing: []string{"JV 9999999999"},
			sched:    sched,
			want:     "PY001 (10:00)-(11:00) (01-AUG-2025)",
		},
		{
			name:     "continues after highest",
			initials: "PY",
			existing: []string{"PY001 (a)-(b) (c)", "PY007 (a)-(b) (c)", "PY003"},
			sched:    sched,
			want:     "PY008 (10:00)-(11:00) (01-AUG-2025)",
		},
		{
			name:     "simple ids are not numbered",
			initials: "PY",
			existing: []string{"PY 9876543210", "PYX12"},
			sched:    sched,
			want:     "PY001 (10:00)-(11:00) (01-AUG-2025)",
		},
		{
			name:     "unknown parts become TBD",
			initials: "DA",
			existing: nil,
			sched:    batchname.Schedule{StartTime: batchname.Unknown, EndTime: batchname.Unknown, StartDate: batchname.Unknown},
			want:     "DA001 (TBD)-(TBD) (TBD)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Sequence(tc.initials, tc.existing, tc.sched))
		})
	}
}

func TestResolveInitials(t *testing.T) {
	got, err := ResolveInitials("PY", "ignored")
	require.NoError(t, err)
	assert.Equal(t, "PY", got)

	got, err = ResolveInitials("CUSTOM", "  mla ")
	require.NoError(t, err)
	assert.Equal(t, "MLA", got)

	for _, bad := range []string{"", "x", "TOOLONG"} {
		_, err := ResolveInitials("CUSTOM", bad)
		assert.ErrorIs(t, err, ErrInvalidCustomInitials, bad)
	}
}
