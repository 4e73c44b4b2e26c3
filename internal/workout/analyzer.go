package workout

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gymform/backend/internal/telemetry/tracing"
	"github.com/gymform/backend/pkg"
)

type DayStats struct {
	Date         string  `json:"date"`
	SessionCount int     `json:"sessionCount"`
	AvgScore     float64 `json:"avgScore"`
	TotalMinutes float64 `json:"totalMinutes"`
	BestScore    float64 `json:"bestScore"`
}

type Summary struct {
	TotalSessions int     `json:"totalSessions"`
	AvgScore      float64 `json:"avgScore"`
	TotalMinutes  float64 `json:"totalMinutes"`
	PeriodDays    int     `json:"periodDays"`
}

type ExerciseProgress struct {
	ExerciseName     string   `json:"exerciseName"`
	PerformanceCount int      `json:"performanceCount"`
	AvgScore         float64  `json:"avgScore"`
	BestScore        float64  `json:"bestScore"`
	AvgKneeAngle     *float64 `json:"avgKneeAngle"`
	AvgStability     *float64 `json:"avgStability"`
}

type WeekTrend struct {
	Week         string  `json:"week"`
	SessionCount int     `json:"sessionCount"`
	AvgScore     float64 `json:"avgScore"`
}

// SummaryStats is the full stats payload for a user's recent window.
type SummaryStats struct {
	Summary          Summary            `json:"summary"`
	DailyStats       []DayStats         `json:"dailyStats"`
	ExerciseProgress []ExerciseProgress `json:"exerciseProgress"`
	WeeklyTrend      []WeekTrend        `json:"weeklyTrend"`
}

type statsRepo interface {
	SessionsInWindow(ctx context.Context, userID int, from time.Time) ([]SessionWindowRow, error)
	PerformancesInWindow(ctx context.Context, userID int, from time.Time) ([]PerformanceWindowRow, error)
}

// Analyzer computes aggregate statistics over a user's recent sessions.
type Analyzer struct {
	repo statsRepo
}

func NewAnalyzer(repo statsRepo) *Analyzer {
	return &Analyzer{repo: repo}
}

// Summarize aggregates the user's sessions and performances recorded in
// the last windowDays days. An empty window yields zeroed summary values
// and empty slices, never an error.
func (a *Analyzer) Summarize(ctx context.Context, userID, windowDays int) (_ *SummaryStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.summarize")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	from := time.Now().AddDate(0, 0, -windowDays)

	sessions, err := a.repo.SessionsInWindow(ctx, userID, from)
	if err != nil {
		return nil, fmt.Errorf("sessions in window: %w", err)
	}
	performances, err := a.repo.PerformancesInWindow(ctx, userID, from)
	if err != nil {
		return nil, fmt.Errorf("performances in window: %w", err)
	}

	stats := &SummaryStats{
		Summary:          Summary{PeriodDays: windowDays},
		DailyStats:       dailyStats(sessions),
		ExerciseProgress: exerciseProgress(performances),
		WeeklyTrend:      weeklyTrend(sessions),
	}

	var scoreSum float64
	for _, day := range stats.DailyStats {
		stats.Summary.TotalSessions += day.SessionCount
		stats.Summary.TotalMinutes += day.TotalMinutes
		scoreSum += day.AvgScore * float64(day.SessionCount)
	}
	if stats.Summary.TotalSessions > 0 {
		stats.Summary.AvgScore = pkg.RoundTo2Decimals(scoreSum / float64(stats.Summary.TotalSessions))
	}
	stats.Summary.TotalMinutes = pkg.RoundTo2Decimals(stats.Summary.TotalMinutes)

	return stats, nil
}

func dailyStats(sessions []SessionWindowRow) []DayStats {
	type dayAgg struct {
		count    int
		scoreSum float64
		best     float64
		minutes  float64
	}
	days := make(map[string]*dayAgg)
	for _, s := range sessions {
		date := s.CreatedAt.UTC().Format("2006-01-02")
		agg, ok := days[date]
		if !ok {
			agg = &dayAgg{}
			days[date] = agg
		}
		agg.count++
		agg.scoreSum += s.AverageScore
		agg.minutes += s.DurationMinutes
		if s.AverageScore > agg.best {
			agg.best = s.AverageScore
		}
	}

	stats := make([]DayStats, 0, len(days))
	for date, agg := range days {
		stats = append(stats, DayStats{
			Date:         date,
			SessionCount: agg.count,
			AvgScore:     pkg.RoundTo2Decimals(agg.scoreSum / float64(agg.count)),
			TotalMinutes: pkg.RoundTo2Decimals(agg.minutes),
			BestScore:    agg.best,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Date > stats[j].Date
	})
	return stats
}

func exerciseProgress(performances []PerformanceWindowRow) []ExerciseProgress {
	type exerciseAgg struct {
		count        int
		scoreSum     float64
		best         float64
		kneeSum      float64
		kneeCount    int
		stabilitySum float64
		stabilityN   int
	}
	exercises := make(map[string]*exerciseAgg)
	for _, p := range performances {
		agg, ok := exercises[p.ExerciseName]
		if !ok {
			agg = &exerciseAgg{}
			exercises[p.ExerciseName] = agg
		}
		agg.count++
		agg.scoreSum += p.TechniqueScore
		if p.TechniqueScore > agg.best {
			agg.best = p.TechniqueScore
		}
		if p.KneeAngle != nil {
			agg.kneeSum += *p.KneeAngle
			agg.kneeCount++
		}
		if p.StabilityScore != nil {
			agg.stabilitySum += *p.StabilityScore
			agg.stabilityN++
		}
	}

	progress := make([]ExerciseProgress, 0, len(exercises))
	for name, agg := range exercises {
		e := ExerciseProgress{
			ExerciseName:     name,
			PerformanceCount: agg.count,
			AvgScore:         pkg.RoundTo2Decimals(agg.scoreSum / float64(agg.count)),
			BestScore:        agg.best,
		}
		if agg.kneeCount > 0 {
			avgKnee := pkg.RoundTo2Decimals(agg.kneeSum / float64(agg.kneeCount))
			e.AvgKneeAngle = &avgKnee
		}
		if agg.stabilityN > 0 {
			avgStability := pkg.RoundTo2Decimals(agg.stabilitySum / float64(agg.stabilityN))
			e.AvgStability = &avgStability
		}
		progress = append(progress, e)
	}
	sort.Slice(progress, func(i, j int) bool {
		if progress[i].PerformanceCount != progress[j].PerformanceCount {
			return progress[i].PerformanceCount > progress[j].PerformanceCount
		}
		return progress[i].ExerciseName < progress[j].ExerciseName
	})
	return progress
}

func weeklyTrend(sessions []SessionWindowRow) []WeekTrend {
	type weekKey struct {
		year int
		week int
	}
	type weekAgg struct {
		count    int
		scoreSum float64
	}
	weeks := make(map[weekKey]*weekAgg)
	for _, s := range sessions {
		year, week := s.CreatedAt.UTC().ISOWeek()
		key := weekKey{year: year, week: week}
		agg, ok := weeks[key]
		if !ok {
			agg = &weekAgg{}
			weeks[key] = agg
		}
		agg.count++
		agg.scoreSum += s.AverageScore
	}

	keys := make([]weekKey, 0, len(weeks))
	for key := range weeks {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].week < keys[j].week
	})

	trend := make([]WeekTrend, 0, len(keys))
	for _, key := range keys {
		agg := weeks[key]
		trend = append(trend, WeekTrend{
			Week:         fmt.Sprintf("%d-W%02d", key.year, key.week),
			SessionCount: agg.count,
			AvgScore:     pkg.RoundTo2Decimals(agg.scoreSum / float64(agg.count)),
		})
	}
	return trend
}
