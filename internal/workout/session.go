package workout

import (
	"encoding/json"
	"fmt"
	"time"
)

// Angles holds the per-joint average angles computed by the pose
// analysis front end. Every joint is optional; a missing joint is
// stored as NULL, not treated as an error.
type Angles struct {
	Knee     *float64 `json:"leftKnee,omitempty"`
	Hip      *float64 `json:"leftHip,omitempty"`
	Shoulder *float64 `json:"leftShoulder,omitempty"`
	Elbow    *float64 `json:"leftElbow,omitempty"`
}

// AngleSnapshot is a single entry of the recorded angle history.
type AngleSnapshot struct {
	Frame  int    `json:"frame"`
	Angles Angles `json:"angles"`
}

// SessionEntry is the payload submitted by the client once a
// tracked exercise session is finished.
type SessionEntry struct {
	ExerciseType       string          `json:"exerciseType"`
	DurationSeconds    int             `json:"durationSeconds"`
	TechniqueScore     float64         `json:"techniqueScore"`
	AccuracyPercentage float64         `json:"accuracyPercentage"`
	TotalFrames        int             `json:"totalFrames"`
	GoodFrames         int             `json:"goodFrames"`
	AvgAngles          Angles          `json:"avgAngles"`
	SymmetryScore      *float64        `json:"symmetryScore,omitempty"`
	PoseData           json.RawMessage `json:"poseData,omitempty"`
	AngleHistory       []AngleSnapshot `json:"angleHistory,omitempty"`
	Feedback           []string        `json:"feedback,omitempty"`
	Notes              string          `json:"notes,omitempty"`
}

// ValidationError rejects a session entry before it reaches the database.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field [%s]: %s", e.Field, e.Reason)
}

func (e *SessionEntry) Validate() error {
	if e.ExerciseType == "" {
		return &ValidationError{Field: "exerciseType", Reason: "must not be empty"}
	}
	if e.DurationSeconds <= 0 {
		return &ValidationError{Field: "durationSeconds", Reason: "must be greater than 0"}
	}
	if e.TechniqueScore < 0 || e.TechniqueScore > 100 {
		return &ValidationError{Field: "techniqueScore", Reason: "must be between 0 and 100"}
	}
	if e.AccuracyPercentage < 0 || e.AccuracyPercentage > 100 {
		return &ValidationError{Field: "accuracyPercentage", Reason: "must be between 0 and 100"}
	}
	if e.TotalFrames < 0 {
		return &ValidationError{Field: "totalFrames", Reason: "must not be negative"}
	}
	if e.GoodFrames < 0 {
		return &ValidationError{Field: "goodFrames", Reason: "must not be negative"}
	}
	if e.SymmetryScore != nil && (*e.SymmetryScore < 0 || *e.SymmetryScore > 100) {
		return &ValidationError{Field: "symmetryScore", Reason: "must be between 0 and 100"}
	}
	return nil
}

// DurationMinutes converts the submitted duration to minutes,
// keeping the fractional part.
func (e *SessionEntry) DurationMinutes() float64 {
	return float64(e.DurationSeconds) / 60.0
}

type Session struct {
	ID              int       `json:"id"`
	UserID          int       `json:"userId"`
	SessionName     string    `json:"sessionName"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes float64   `json:"durationMinutes"`
	AverageScore    float64   `json:"averageScore"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Performance struct {
	ID             int             `json:"id"`
	SessionID      int             `json:"sessionId"`
	ExerciseTypeID int             `json:"exerciseTypeId"`
	ExerciseName   string          `json:"exerciseName"`
	UserID         int             `json:"userId"`
	SetNumber      int             `json:"setNumber"`
	Repetitions    int             `json:"repetitions"`
	TechniqueScore float64         `json:"techniqueScore"`
	KneeAngle      *float64        `json:"kneeAngle,omitempty"`
	HipAngle       *float64        `json:"hipAngle,omitempty"`
	ShoulderAngle  *float64        `json:"shoulderAngle,omitempty"`
	ElbowAngle     *float64        `json:"elbowAngle,omitempty"`
	MovementSpeed  *float64        `json:"movementSpeed,omitempty"`
	StabilityScore *float64        `json:"stabilityScore,omitempty"`
	SymmetryScore  *float64        `json:"symmetryScore,omitempty"`
	PoseData       json.RawMessage `json:"poseData,omitempty"`
	AngleHistory   []AngleSnapshot `json:"angleHistory"`
	Feedback       []string        `json:"feedback"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type ExerciseType struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Difficulty  string    `json:"difficulty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SessionView is the client-facing shape of a recorded session,
// reconstructed from the session row joined with its performance.
type SessionView struct {
	ID              int                `json:"id"`
	ExerciseType    string             `json:"exerciseType"`
	DurationSeconds int                `json:"durationSeconds"`
	TechniqueScore  float64            `json:"techniqueScore"`
	StabilityScore  float64            `json:"stabilityScore"`
	Angles          map[string]float64 `json:"angles"`
	Feedback        []string           `json:"feedback"`
	HasPoseData     bool               `json:"hasPoseData"`
	Notes           string             `json:"notes"`
	CreatedAt       time.Time          `json:"createdAt"`
}

type SessionDetailsSummary struct {
	TotalExercises  int     `json:"totalExercises"`
	AverageScore    float64 `json:"averageScore"`
	DurationMinutes float64 `json:"durationMinutes"`
}

type SessionDetails struct {
	Session      Session               `json:"session"`
	Performances []Performance         `json:"performances"`
	Summary      SessionDetailsSummary `json:"summary"`
}
