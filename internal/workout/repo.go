package workout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gymform/backend/internal/telemetry/tracing"
	"github.com/gymform/backend/pkg"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownUser     = errors.New("unknown user")
)

const defaultSymmetryScore = 100.0

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// SessionWindowRow is the slice of a session row the analyzer needs.
type SessionWindowRow struct {
	CreatedAt       time.Time
	AverageScore    float64
	DurationMinutes float64
}

// PerformanceWindowRow is the slice of a performance row the analyzer needs.
type PerformanceWindowRow struct {
	ExerciseName   string
	TechniqueScore float64
	KneeAngle      *float64
	StabilityScore *float64
	CreatedAt      time.Time
}

// Record stores a finished session. The session row and its performance
// row are written in one transaction so a failure in either leaves no
// partial session behind.
func (r *Repo) Record(ctx context.Context, userID int, entry SessionEntry) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.record")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	session := Session{
		UserID:          userID,
		SessionName:     "Session " + entry.ExerciseType,
		StartTime:       now,
		EndTime:         now,
		DurationMinutes: entry.DurationMinutes(),
		AverageScore:    entry.TechniqueScore,
		Notes:           entry.Notes,
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				err = fmt.Errorf("%w [rollback err: %s]", err, rollbackErr)
			}
			return
		}
		err = tx.Commit(ctx)
	}()

	err = tx.QueryRow(ctx,
		`INSERT INTO workout_session (user_id, session_name, start_time, end_time, duration_minutes, average_score, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at`,
		session.UserID, session.SessionName, session.StartTime, session.EndTime,
		session.DurationMinutes, session.AverageScore, session.Notes,
	).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("insert session: %w", err)
	}

	exerciseTypeID, err := resolveExerciseType(ctx, tx, entry.ExerciseType)
	if err != nil {
		return nil, fmt.Errorf("resolve exercise type: %w", err)
	}

	symmetry := defaultSymmetryScore
	if entry.SymmetryScore != nil {
		symmetry = *entry.SymmetryScore
	}

	angleHistoryJSON, feedbackJSON, metadataJSON, err := performanceBlobs(entry)
	if err != nil {
		return nil, err
	}

	var poseData []byte
	if len(entry.PoseData) > 0 {
		poseData = entry.PoseData
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO exercise_performance
			(session_id, exercise_type_id, user_id, set_number, repetitions, technique_score,
			 avg_knee_angle, avg_hip_angle, avg_shoulder_angle, avg_elbow_angle,
			 movement_speed, stability_score, symmetry_score,
			 pose_data, angle_history, feedback, metadata)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		session.ID, exerciseTypeID, userID, 1, entry.TotalFrames, entry.TechniqueScore,
		entry.AvgAngles.Knee, entry.AvgAngles.Hip, entry.AvgAngles.Shoulder, entry.AvgAngles.Elbow,
		nil, entry.AccuracyPercentage, symmetry,
		poseData, angleHistoryJSON, feedbackJSON, metadataJSON,
	)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("insert performance: %w", err)
	}

	return &session, nil
}

// performanceBlobs serializes the JSONB payloads of a performance row.
// Absent angle history and feedback become empty JSON arrays, not null.
func performanceBlobs(entry SessionEntry) (angleHistoryJSON, feedbackJSON, metadataJSON []byte, err error) {
	angleHistory := entry.AngleHistory
	if angleHistory == nil {
		angleHistory = []AngleSnapshot{}
	}
	angleHistoryJSON, err = json.Marshal(angleHistory)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshal angle history: %w", err)
	}

	feedback := entry.Feedback
	if feedback == nil {
		feedback = []string{}
	}
	feedbackJSON, err = json.Marshal(feedback)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshal feedback: %w", err)
	}

	metadataJSON, err = json.Marshal(map[string]int{
		"totalFrames": entry.TotalFrames,
		"goodFrames":  entry.GoodFrames,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshal metadata: %w", err)
	}

	return angleHistoryJSON, feedbackJSON, metadataJSON, nil
}

// resolveExerciseType returns the id of the named exercise type,
// creating it with catalog defaults on first use. A concurrent insert
// of the same name is harmless, the loser of the race re-reads the row.
func resolveExerciseType(ctx context.Context, q querier, name string) (int, error) {
	var id int
	err := q.QueryRow(ctx, `SELECT id FROM exercise_type WHERE name = $1`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	err = q.QueryRow(ctx,
		`INSERT INTO exercise_type (name, description, category, difficulty)
			VALUES ($1, $2, 'strength', 'beginner')
			ON CONFLICT (name) DO NOTHING
			RETURNING id`,
		name, fmt.Sprintf("Auto-created type for %s tracking", name),
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	if err := q.QueryRow(ctx, `SELECT id FROM exercise_type WHERE name = $1`, name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// List returns the user's sessions, most recent first.
func (r *Repo) List(ctx context.Context, userID, limit, offset int) (_ []SessionView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		`SELECT
			ws.id, ws.duration_minutes, ws.average_score, ws.notes, ws.created_at,
			et.name, ep.technique_score,
			ep.avg_knee_angle, ep.avg_hip_angle, ep.avg_shoulder_angle, ep.avg_elbow_angle,
			ep.stability_score, ep.feedback, ep.pose_data IS NOT NULL
		FROM workout_session ws
		LEFT JOIN exercise_performance ep ON ep.session_id = ws.id
		LEFT JOIN exercise_type et ON et.id = ep.exercise_type_id
		WHERE ws.user_id = $1
		ORDER BY ws.created_at DESC, ws.id DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]SessionView, 0)
	for rows.Next() {
		var (
			view            SessionView
			durationMinutes float64
			exerciseName    *string
			techniqueScore  *float64
			knee, hip       *float64
			shoulder, elbow *float64
			stability       *float64
			feedbackJSON    []byte
			hasPoseData     *bool
		)
		if err := rows.Scan(
			&view.ID, &durationMinutes, &view.TechniqueScore, &view.Notes, &view.CreatedAt,
			&exerciseName, &techniqueScore,
			&knee, &hip, &shoulder, &elbow,
			&stability, &feedbackJSON, &hasPoseData,
		); err != nil {
			return nil, err
		}

		view.DurationSeconds = int(math.Round(durationMinutes * 60))
		view.ExerciseType = "general"
		if exerciseName != nil {
			view.ExerciseType = *exerciseName
		}
		if techniqueScore != nil {
			view.TechniqueScore = *techniqueScore
		}
		if stability != nil {
			view.StabilityScore = *stability
		}
		if hasPoseData != nil {
			view.HasPoseData = *hasPoseData
		}

		view.Angles = map[string]float64{}
		for joint, angle := range map[string]*float64{
			"knee": knee, "hip": hip, "shoulder": shoulder, "elbow": elbow,
		} {
			if angle != nil {
				view.Angles[joint] = *angle
			}
		}

		view.Feedback = []string{}
		if len(feedbackJSON) > 0 {
			if err := json.Unmarshal(feedbackJSON, &view.Feedback); err != nil {
				return nil, fmt.Errorf("unmarshal feedback for session %d: %w", view.ID, err)
			}
		}

		sessions = append(sessions, view)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Get returns a single session with all of its performances. Sessions
// of other users are invisible, asking for one yields ErrSessionNotFound.
func (r *Repo) Get(ctx context.Context, userID, sessionID int) (_ *SessionDetails, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var details SessionDetails
	err = r.db.QueryRow(ctx,
		`SELECT id, user_id, session_name, start_time, end_time, duration_minutes, average_score, notes, created_at
		FROM workout_session
		WHERE id = $1 AND user_id = $2`,
		sessionID, userID,
	).Scan(
		&details.Session.ID, &details.Session.UserID, &details.Session.SessionName,
		&details.Session.StartTime, &details.Session.EndTime, &details.Session.DurationMinutes,
		&details.Session.AverageScore, &details.Session.Notes, &details.Session.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT
			ep.id, ep.session_id, ep.exercise_type_id, et.name, ep.user_id,
			ep.set_number, ep.repetitions, ep.technique_score,
			ep.avg_knee_angle, ep.avg_hip_angle, ep.avg_shoulder_angle, ep.avg_elbow_angle,
			ep.movement_speed, ep.stability_score, ep.symmetry_score,
			ep.pose_data, ep.angle_history, ep.feedback, ep.created_at
		FROM exercise_performance ep
		JOIN exercise_type et ON et.id = ep.exercise_type_id
		WHERE ep.session_id = $1
		ORDER BY ep.set_number, ep.id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details.Performances = make([]Performance, 0)
	var scoreSum float64
	for rows.Next() {
		var (
			p                Performance
			poseData         []byte
			angleHistoryJSON []byte
			feedbackJSON     []byte
		)
		if err := rows.Scan(
			&p.ID, &p.SessionID, &p.ExerciseTypeID, &p.ExerciseName, &p.UserID,
			&p.SetNumber, &p.Repetitions, &p.TechniqueScore,
			&p.KneeAngle, &p.HipAngle, &p.ShoulderAngle, &p.ElbowAngle,
			&p.MovementSpeed, &p.StabilityScore, &p.SymmetryScore,
			&poseData, &angleHistoryJSON, &feedbackJSON, &p.CreatedAt,
		); err != nil {
			return nil, err
		}

		if len(poseData) > 0 {
			p.PoseData = json.RawMessage(poseData)
		}
		p.AngleHistory = []AngleSnapshot{}
		if len(angleHistoryJSON) > 0 {
			if err := json.Unmarshal(angleHistoryJSON, &p.AngleHistory); err != nil {
				return nil, fmt.Errorf("unmarshal angle history for performance %d: %w", p.ID, err)
			}
		}
		p.Feedback = []string{}
		if len(feedbackJSON) > 0 {
			if err := json.Unmarshal(feedbackJSON, &p.Feedback); err != nil {
				return nil, fmt.Errorf("unmarshal feedback for performance %d: %w", p.ID, err)
			}
		}

		scoreSum += p.TechniqueScore
		details.Performances = append(details.Performances, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	details.Summary = SessionDetailsSummary{
		TotalExercises:  len(details.Performances),
		AverageScore:    details.Session.AverageScore,
		DurationMinutes: details.Session.DurationMinutes,
	}
	if len(details.Performances) > 0 {
		details.Summary.AverageScore = pkg.RoundTo2Decimals(scoreSum / float64(len(details.Performances)))
	}

	return &details, nil
}

// SessionsInWindow returns the per-session aggregates created at or
// after the given time, for stats computation.
func (r *Repo) SessionsInWindow(ctx context.Context, userID int, from time.Time) (_ []SessionWindowRow, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.sessionsInWindow")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		`SELECT created_at, average_score, duration_minutes
		FROM workout_session
		WHERE user_id = $1 AND created_at >= $2`,
		userID, from,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []SessionWindowRow
	for rows.Next() {
		var s SessionWindowRow
		if err := rows.Scan(&s.CreatedAt, &s.AverageScore, &s.DurationMinutes); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// PerformancesInWindow returns the per-performance values created at or
// after the given time, for stats computation.
func (r *Repo) PerformancesInWindow(ctx context.Context, userID int, from time.Time) (_ []PerformanceWindowRow, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.performancesInWindow")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		`SELECT et.name, ep.technique_score, ep.avg_knee_angle, ep.stability_score, ep.created_at
		FROM exercise_performance ep
		JOIN exercise_type et ON et.id = ep.exercise_type_id
		WHERE ep.user_id = $1 AND ep.created_at >= $2`,
		userID, from,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var performances []PerformanceWindowRow
	for rows.Next() {
		var p PerformanceWindowRow
		if err := rows.Scan(&p.ExerciseName, &p.TechniqueScore, &p.KneeAngle, &p.StabilityScore, &p.CreatedAt); err != nil {
			return nil, err
		}
		performances = append(performances, p)
	}
	return performances, rows.Err()
}

// ExerciseTypes returns the whole exercise type catalog.
func (r *Repo) ExerciseTypes(ctx context.Context) (_ []ExerciseType, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.exerciseTypes")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		`SELECT id, name, description, category, difficulty, created_at
		FROM exercise_type
		ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := make([]ExerciseType, 0)
	for rows.Next() {
		var t ExerciseType
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Category, &t.Difficulty, &t.CreatedAt); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}
