// Package habits derives streak, milestone and trend statistics from sparse
// per-day completion records. All date math uses bare calendar dates; no
// timezone is modeled.
package habits

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/amberhq/amber/internal/metrics"
	"github.com/amberhq/amber/store"
)

// MilestoneThresholds are the streak lengths whose first-achieved dates are
// tracked for display.
var MilestoneThresholds = []int{7, 30, 60, 90, 180, 365}

// maxStreakWalk bounds the current-streak walk so corrupted data cannot
// produce an unbounded loop.
const maxStreakWalk = 365

// Trend classifies completion momentum across a date range.
type Trend string

const (
	TrendImproving        Trend = "improving"
	TrendDeclining        Trend = "declining"
	TrendStable           Trend = "stable"
	TrendInsufficientData Trend = "insufficient_data"
)

// Milestone is a streak threshold and the date it was first reached.
type Milestone struct {
	Days       int
	AchievedAt *string // YYYY-MM-DD, nil if never reached
}

// Streak is the derived streak state for one habit.
type Streak struct {
	CurrentStreak     int
	LongestStreak     int
	LastCompletedDate *string
	IsActiveToday     bool
	Milestones        []Milestone
}

// Stats are range-scoped statistics for one habit.
type Stats struct {
	TotalCompletions    int
	ExpectedCompletions int
	CompletionRate      float64
	Trend               Trend
	CurrentStreak       int
	LongestStreak       int
}

// Summary aggregates across all of a user's active habits.
type Summary struct {
	ActiveHabits         int
	CompletedToday       int
	CompletionRate30Days float64
	TotalCurrentStreak   int
	MaxCurrentStreak     int
	WeekOverWeekChange   float64
	MonthOverMonthChange float64
}

// Gateway is the slice of the store the analytics engine reads from.
type Gateway interface {
	GetHabit(ctx context.Context, find *store.FindHabit) (*store.Habit, error)
	ListHabits(ctx context.Context, find *store.FindHabit) ([]*store.Habit, error)
	ListHabitCompletions(ctx context.Context, find *store.FindHabitCompletion) ([]*store.HabitCompletion, error)
}

// Analytics computes habit statistics. It is stateless apart from the
// injected clock and safe for concurrent use.
type Analytics struct {
	gateway Gateway
	now     func() time.Time
}

// NewAnalytics creates an analytics engine backed by the given gateway.
// *store.Store satisfies Gateway.
func NewAnalytics(gateway Gateway) *Analytics {
	return &Analytics{gateway: gateway, now: time.Now}
}

// WithClock overrides the time source. Streak math depends only on the
// completion set and "today", so a fixed clock makes results reproducible.
func (a *Analytics) WithClock(now func() time.Time) *Analytics {
	a.now = now
	return a
}

func (a *Analytics) today() time.Time {
	return truncateDay(a.now())
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CalculateStreak computes current/longest streaks and milestone dates for
// one habit from its full completion history.
func (a *Analytics) CalculateStreak(ctx context.Context, userID, habitID int32) (*Streak, error) {
	metrics.AnalyticsCalls.WithLabelValues("calculate_streak").Inc()

	completions, err := a.gateway.ListHabitCompletions(ctx, &store.FindHabitCompletion{
		UserID:  &userID,
		HabitID: &habitID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list habit completions")
	}

	dates, err := completionDates(completions)
	if err != nil {
		return nil, err
	}

	streak := &Streak{Milestones: emptyMilestones()}
	if len(dates) == 0 {
		return streak, nil
	}

	today := a.today()
	completed := map[time.Time]bool{}
	for _, d := range dates {
		completed[d] = true
	}

	last := dates[0].Format(store.DateLayout)
	streak.LastCompletedDate = &last
	streak.IsActiveToday = completed[today]

	// Current streak walks backward one calendar day at a time, starting at
	// today or yesterday when today has no completion yet.
	cursor := today
	if !completed[cursor] {
		cursor = cursor.AddDate(0, 0, -1)
	}
	for completed[cursor] && streak.CurrentStreak < maxStreakWalk {
		streak.CurrentStreak++
		cursor = cursor.AddDate(0, 0, -1)
	}

	// Longest streak is a single scan over the descending dates, resetting
	// the running counter whenever consecutive completion dates are not
	// exactly one calendar day apart.
	running := 1
	streak.LongestStreak = 1
	for i := 1; i < len(dates); i++ {
		if daysBetween(dates[i-1], dates[i]) == 1 {
			running++
		} else {
			running = 1
		}
		if running > streak.LongestStreak {
			streak.LongestStreak = running
		}
	}

	// Milestones scan chronologically so AchievedAt is the first date the
	// running streak reached each threshold.
	running = 1
	oldest := len(dates) - 1
	recordMilestones(streak.Milestones, running, dates[oldest])
	for i := oldest - 1; i >= 0; i-- {
		if daysBetween(dates[i], dates[i+1]) == 1 {
			running++
		} else {
			running = 1
		}
		recordMilestones(streak.Milestones, running, dates[i])
	}

	return streak, nil
}

// GetHabitStats computes range-scoped statistics for one habit. Returns nil
// when the habit does not exist.
func (a *Analytics) GetHabitStats(ctx context.Context, userID, habitID int32, startDate, endDate string) (*Stats, error) {
	metrics.AnalyticsCalls.WithLabelValues("habit_stats").Inc()

	start, err := time.Parse(store.DateLayout, startDate)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid start date %q", startDate)
	}
	end, err := time.Parse(store.DateLayout, endDate)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid end date %q", endDate)
	}
	if end.Before(start) {
		return nil, errors.Errorf("end date %s before start date %s", endDate, startDate)
	}

	habit, err := a.gateway.GetHabit(ctx, &store.FindHabit{ID: &habitID, UserID: &userID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get habit")
	}
	if habit == nil {
		return nil, nil
	}

	completions, err := a.gateway.ListHabitCompletions(ctx, &store.FindHabitCompletion{
		UserID:    &userID,
		HabitID:   &habitID,
		StartDate: &startDate,
		EndDate:   &endDate,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list habit completions")
	}
	dates, err := completionDates(completions)
	if err != nil {
		return nil, err
	}

	days := daysBetween(end, start) + 1
	stats := &Stats{
		TotalCompletions:    len(dates),
		ExpectedCompletions: expectedCompletions(habit.Frequency, days),
	}
	if stats.ExpectedCompletions > 0 {
		stats.CompletionRate = float64(stats.TotalCompletions) / float64(stats.ExpectedCompletions)
		if stats.CompletionRate > 1 {
			stats.CompletionRate = 1
		}
	}
	stats.Trend = classifyTrend(dates, start, days)

	streak, err := a.CalculateStreak(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}
	stats.CurrentStreak = streak.CurrentStreak
	stats.LongestStreak = streak.LongestStreak

	return stats, nil
}

// GetHabitsSummary aggregates streaks and completion rates across all of a
// user's active habits.
func (a *Analytics) GetHabitsSummary(ctx context.Context, userID int32) (*Summary, error) {
	metrics.AnalyticsCalls.WithLabelValues("habits_summary").Inc()

	active := true
	habits, err := a.gateway.ListHabits(ctx, &store.FindHabit{UserID: &userID, Active: &active})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list habits")
	}

	summary := &Summary{ActiveHabits: len(habits)}
	if len(habits) == 0 {
		return summary, nil
	}

	activeIDs := map[int32]bool{}
	for _, habit := range habits {
		activeIDs[habit.ID] = true

		streak, err := a.CalculateStreak(ctx, userID, habit.ID)
		if err != nil {
			return nil, err
		}
		summary.TotalCurrentStreak += streak.CurrentStreak
		if streak.CurrentStreak > summary.MaxCurrentStreak {
			summary.MaxCurrentStreak = streak.CurrentStreak
		}
	}

	// One 60-day window covers today's count, the 30-day rate and both
	// period-over-period comparisons.
	today := a.today()
	startDate := today.AddDate(0, 0, -59).Format(store.DateLayout)
	endDate := today.Format(store.DateLayout)
	completions, err := a.gateway.ListHabitCompletions(ctx, &store.FindHabitCompletion{
		UserID:    &userID,
		StartDate: &startDate,
		EndDate:   &endDate,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list habit completions")
	}

	var last30, prior30, thisWeek, lastWeek int
	for _, completion := range completions {
		if !activeIDs[completion.HabitID] {
			continue
		}
		date, err := time.Parse(store.DateLayout, completion.Date)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid completion date %q", completion.Date)
		}
		age := daysBetween(today, truncateDay(date))
		switch {
		case age < 0:
			continue
		case age == 0:
			summary.CompletedToday++
		}
		if age < 30 {
			last30++
		} else if age < 60 {
			prior30++
		}
		if age < 7 {
			thisWeek++
		} else if age < 14 {
			lastWeek++
		}
	}

	// 30-day rate assumes a daily cadence for every habit.
	summary.CompletionRate30Days = float64(last30) / float64(len(habits)*30)
	summary.WeekOverWeekChange = percentChange(thisWeek, lastWeek)
	// Month over month compares the last 30 days against the 30 before,
	// mirroring the week-over-week shape.
	summary.MonthOverMonthChange = percentChange(last30, prior30)

	return summary, nil
}

// completionDates parses, dedupes and sorts completion dates descending.
func completionDates(completions []*store.HabitCompletion) ([]time.Time, error) {
	seen := map[time.Time]bool{}
	dates := []time.Time{}
	for _, completion := range completions {
		date, err := time.Parse(store.DateLayout, completion.Date)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid completion date %q", completion.Date)
		}
		date = truncateDay(date)
		if seen[date] {
			continue
		}
		seen[date] = true
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	return dates, nil
}

// daysBetween returns the whole calendar days from b up to a.
func daysBetween(a, b time.Time) int {
	return int(a.Sub(b).Hours() / 24)
}

func emptyMilestones() []Milestone {
	milestones := make([]Milestone, 0, len(MilestoneThresholds))
	for _, days := range MilestoneThresholds {
		milestones = append(milestones, Milestone{Days: days})
	}
	return milestones
}

// recordMilestones stamps the first date the running streak reached each
// threshold.
func recordMilestones(milestones []Milestone, running int, date time.Time) {
	for i := range milestones {
		if milestones[i].AchievedAt == nil && running >= milestones[i].Days {
			achieved := date.Format(store.DateLayout)
			milestones[i].AchievedAt = &achieved
		}
	}
}

// percentChange returns 0 when there is no prior activity to compare
// against, rather than signaling an infinite increase.
func percentChange(current, prior int) float64 {
	if prior == 0 {
		return 0
	}
	return float64(current-prior) / float64(prior) * 100
}

func expectedCompletions(frequency store.HabitFrequency, days int) int {
	switch frequency {
	case store.HabitFrequencyWeekly:
		return days / 7
	case store.HabitFrequencyMonthly:
		return days / 30
	default:
		return days
	}
}

// classifyTrend splits the range at its midpoint and compares completion
// counts between the halves.
func classifyTrend(dates []time.Time, start time.Time, days int) Trend {
	if len(dates) < 5 {
		return TrendInsufficientData
	}
	midpoint := start.AddDate(0, 0, days/2)
	var firstHalf, secondHalf int
	for _, date := range dates {
		if date.Before(midpoint) {
			firstHalf++
		} else {
			secondHalf++
		}
	}
	switch {
	case float64(secondHalf) > float64(firstHalf)*1.2:
		return TrendImproving
	case float64(secondHalf) < float64(firstHalf)*0.8:
		return TrendDeclining
	default:
		return TrendStable
	}
}
