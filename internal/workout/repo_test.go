package workout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformanceBlobs_AbsentCollections(t *testing.T) {
	entry := SessionEntry{
		ExerciseType:    "squat",
		DurationSeconds: 120,
		TechniqueScore:  85,
		TotalFrames:     300,
		GoodFrames:      270,
	}

	angleHistory, feedback, metadata, err := performanceBlobs(entry)
	require.NoError(t, err)

	// empty arrays, never null, for absent history and feedback
	assert.Equal(t, "[]", string(angleHistory))
	assert.Equal(t, "[]", string(feedback))
	assert.JSONEq(t, `{"totalFrames":300,"goodFrames":270}`, string(metadata))
}

func TestPerformanceBlobs_SerializedAsProvided(t *testing.T) {
	knee := 95.5
	entry := SessionEntry{
		ExerciseType:    "squat",
		DurationSeconds: 120,
		TechniqueScore:  85,
		TotalFrames:     10,
		GoodFrames:      9,
		AngleHistory: []AngleSnapshot{
			{Frame: 1, Angles: Angles{Knee: &knee}},
		},
		Feedback: []string{"keep your back straight"},
	}

	angleHistory, feedback, metadata, err := performanceBlobs(entry)
	require.NoError(t, err)

	assert.JSONEq(t, `[{"frame":1,"angles":{"leftKnee":95.5}}]`, string(angleHistory))
	assert.JSONEq(t, `["keep your back straight"]`, string(feedback))
	assert.JSONEq(t, `{"totalFrames":10,"goodFrames":9}`, string(metadata))
}
