package workout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymform/backend/internal/workout"
)

func validTestEntry() workout.SessionEntry {
	knee := 95.5
	return workout.SessionEntry{
		ExerciseType:       "squat",
		DurationSeconds:    120,
		TechniqueScore:     85,
		AccuracyPercentage: 90,
		TotalFrames:        300,
		GoodFrames:         270,
		AvgAngles:          workout.Angles{Knee: &knee},
	}
}

func TestSessionEntry_Validate(t *testing.T) {
	entry := validTestEntry()
	require.NoError(t, entry.Validate())

	testCases := []struct {
		name      string
		mutate    func(e *workout.SessionEntry)
		wantField string
	}{
		{
			name:      "missing exercise type",
			mutate:    func(e *workout.SessionEntry) { e.ExerciseType = "" },
			wantField: "exerciseType",
		},
		{
			name:      "zero duration",
			mutate:    func(e *workout.SessionEntry) { e.DurationSeconds = 0 },
			wantField: "durationSeconds",
		},
		{
			name:      "negative duration",
			mutate:    func(e *workout.SessionEntry) { e.DurationSeconds = -5 },
			wantField: "durationSeconds",
		},
		{
			name:      "technique score above 100",
			mutate:    func(e *workout.SessionEntry) { e.TechniqueScore = 100.5 },
			wantField: "techniqueScore",
		},
		{
			name:      "negative technique score",
			mutate:    func(e *workout.SessionEntry) { e.TechniqueScore = -1 },
			wantField: "techniqueScore",
		},
		{
			name:      "accuracy above 100",
			mutate:    func(e *workout.SessionEntry) { e.AccuracyPercentage = 101 },
			wantField: "accuracyPercentage",
		},
		{
			name:      "negative total frames",
			mutate:    func(e *workout.SessionEntry) { e.TotalFrames = -1 },
			wantField: "totalFrames",
		},
		{
			name:      "negative good frames",
			mutate:    func(e *workout.SessionEntry) { e.GoodFrames = -1 },
			wantField: "goodFrames",
		},
		{
			name: "symmetry score out of range",
			mutate: func(e *workout.SessionEntry) {
				symmetry := 120.0
				e.SymmetryScore = &symmetry
			},
			wantField: "symmetryScore",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			entry := validTestEntry()
			tc.mutate(&entry)

			err := entry.Validate()
			require.Error(t, err)

			var validationErr *workout.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.wantField, validationErr.Field)
		})
	}
}

func TestSessionEntry_DurationMinutes(t *testing.T) {
	entry := validTestEntry()
	assert.InDelta(t, 2.0, entry.DurationMinutes(), 0.0001)

	entry.DurationSeconds = 90
	assert.InDelta(t, 1.5, entry.DurationMinutes(), 0.0001)

	entry.DurationSeconds = 45
	assert.InDelta(t, 0.75, entry.DurationMinutes(), 0.0001)
}
