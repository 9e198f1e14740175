package habits

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amberhq/amber/store"
)

// fakeGateway is an in-memory habit store for deterministic analytics tests.
type fakeGateway struct {
	habits      []*store.Habit
	completions []*store.HabitCompletion
	err         error
}

func (g *fakeGateway) GetHabit(_ context.Context, find *store.FindHabit) (*store.Habit, error) {
	if g.err != nil {
		return nil, g.err
	}
	for _, habit := range g.habits {
		if find.ID != nil && habit.ID == *find.ID {
			return habit, nil
		}
	}
	return nil, nil
}

func (g *fakeGateway) ListHabits(_ context.Context, find *store.FindHabit) ([]*store.Habit, error) {
	if g.err != nil {
		return nil, g.err
	}
	out := []*store.Habit{}
	for _, habit := range g.habits {
		if find.Active != nil && habit.Active != *find.Active {
			continue
		}
		out = append(out, habit)
	}
	return out, nil
}

func (g *fakeGateway) ListHabitCompletions(_ context.Context, find *store.FindHabitCompletion) ([]*store.HabitCompletion, error) {
	if g.err != nil {
		return nil, g.err
	}
	out := []*store.HabitCompletion{}
	for _, completion := range g.completions {
		if find.HabitID != nil && completion.HabitID != *find.HabitID {
			continue
		}
		// YYYY-MM-DD compares correctly as a string.
		if find.StartDate != nil && completion.Date < *find.StartDate {
			continue
		}
		if find.EndDate != nil && completion.Date > *find.EndDate {
			continue
		}
		out = append(out, completion)
	}
	return out, nil
}

func fixedClock(date string) func() time.Time {
	day, err := time.Parse(store.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return day.Add(15 * time.Hour) }
}

func completionsFor(habitID int32, dates ...string) []*store.HabitCompletion {
	out := make([]*store.HabitCompletion, 0, len(dates))
	for _, date := range dates {
		out = append(out, &store.HabitCompletion{UserID: 1, HabitID: habitID, Date: date})
	}
	return out
}

func TestCalculateStreak_ConsecutiveRun(t *testing.T) {
	gateway := &fakeGateway{
		completions: completionsFor(1, "2024-01-01", "2024-01-02", "2024-01-03"),
	}
	analytics := NewAnalytics(gateway).WithClock(fixedClock("2024-01-03"))

	streak, err := analytics.CalculateStreak(context.Background(), 1, 1)

	require.NoError(t, err)
	assert.Equal(t, 3, streak.CurrentStreak)
	assert.Equal(t, 3, streak.LongestStreak)
	assert.True(t, streak.IsActiveToday)
	require.NotNil(t, streak.LastCompletedDate)
	assert.Equal(t, "2024-01-03", *streak.LastCompletedDate)
}

func TestCalculateStreak_GapResets(t *testing.T) {
	gateway := &fakeGateway{
		completions: completionsFor(1, "2024-01-01", "2024-01-03"),
	}
	analytics := NewAnalytics(gateway).WithClock(fixedClock("2024-01-03"))

	streak, err := analytics.CalculateStreak(context.Background(), 1, 1)

	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 1, streak.LongestStreak)
}

func TestCalculateStreak_YesterdayGrace(t *testing.T) {
	// No completion today yet: the streak ending yesterday still counts.
	gateway := &fakeGateway{
		completions: completionsFor(1, "2024-01-01", "2024-01-02"),
	}
	analytics := NewAnalytics(gateway).WithClock(fixedClock("2024-01-03"))

	streak, err := analytics.CalculateStreak(context.Background(), 1, 1)

	require.NoError(t, err)
	assert.Equal(t, 2, streak.CurrentStreak)
	assert.False(t, streak.IsActiveToday)
}

func TestCalculateStreak_BrokenTwoDaysAgo(t *testing.T) {
	gateway := &fakeGateway{
		completions: completionsFor(1, "2024-01-01"),
	}
	analytics := NewAnalytics(gateway).WithClock(fixedClock("2024-01-03"))

	streak, err := analytics.CalculateStreak(context.Background(), 1, 1)

	require.NoError(t, err)
	assert.Equal(t, 0, streak.CurrentStreak)
	assert.Equal(t, 1, streak.LongestStreak)
}

func TestCalculateStreak_NoCompletions(t *testing.T) {
	analytics := NewAnalytics(&fakeGateway{}).WithClock(fixedClock("2024-01-03"))

	streak, err := analytics.CalculateStreak(context.Background(), 1, 1)

	require.NoError(t, err)
	assert.Equal(t, 0, streak.CurrentStreak)
	assert.Equal(t, 0, streak.LongestStreak)
	assert.Nil(t, streak.LastCompletedDate)
	require.Len(t, streak.Milestones, len(MilestoneThresholds))
	for _, milestone := range streak.Milestones {
		assert.Nil(t, milestone.AchievedAt)
	}
}

func TestCalculateStreak_DuplicateDatesCollapse(t *testing.T) {
	gateway := &fakeGateway{
		completions: completionsFor(1, "2024-01-02", "2024-01-02", "2024-01-03"),
	}
	analytics := NewAnalytics(gateway).WithClock(fixedClock("2024-01-03"))

	streak, err := analytics.CalculateStreak(context.Background(), 1, 1)

	require.NoError(t, err)
	assert.Equal(t, 2, streak.CurrentStreak)
	assert.Equal(t, 2, streak.LongestStreak)
}

func TestCalculateStreak_MilestoneFirstReachDate(t *testing.T) {
	dates := []string{}
	for day := 1; day <= 9; day++ {
		dates = append(dates, time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC).Format(store.DateLayout))
	}
	gateway := &fakeGateway{completions: completionsFor(1, dates...)}
	analytics := NewAnalytics(gateway).WithClock(fixedClock("2024-01-09"))

	streak, err := analytics.CalculateStreak(context.Background(), 1, 1)

	require.NoError(t, err)
	assert.Equal(t, 9, streak.CurrentStreak)
	require.NotNil(t, streak.Milestones[0].AchievedAt)
	// The 7-day milestone is stamped with the seventh day of the run, not
	// the run's start or end.
	assert.Equal(t, 7, streak.Milestones[0].Days)
	assert.Equal(t, "2024-01-07", *streak.Milestones[0].AchievedAt)
	assert.Nil(t, streak.Milestones[1].AchievedAt)
}

func TestGetHabitStats(t *testing.T) {
	gateway := &fakeGateway{
		habits: []*store.Habit{{ID: 1, UserID: 1, Name: "read", Frequency: store.HabitFrequencyDaily, Active: true}},
		completions: completionsFor(1,
			"2024-01-05", "2024-01-06", "2024-01-07", "2024-01-08", "2024-01-09", "2024-01-10"),
	}
	analytics := NewAnalytics(gateway).WithClock(fixedClock("2024-01-10"))

	stats, err := analytics.GetHabitStats(context.Background(), 1, 1, "2024-01-01", "2024-01-10")

	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 6, stats.TotalCompletions)
	assert.Equal(t, 10, stats.ExpectedCompletions)
	assert.InDelta(t, 0.6, stats.CompletionRate, 1e-9)
	// One completion before the Jan 6 midpoint, five after.
	assert.Equal(t, TrendImproving, stats.Trend)
	assert.Equal(t, 6, stats.CurrentStreak)
}

func TestGetHabitStats_WeeklyExpectation(t *testing.T) {
	gateway := &fakeGateway{
		habits:      []*store.Habit{{ID: 1, UserID: 1, Frequency: store.HabitFrequencyWeekly, Active: true}},
		completions: completionsFor(1, "2024-01-07"),
	}
	analytics := NewAnalytics(gateway).WithClock(fixedClock("2024-01-14"))

	stats, err := analytics.GetHabitStats(context.Background(), 1, 1, "2024-01-01", "2024-01-14")

	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.ExpectedCompletions)
	assert.InDelta(t, 0.5, stats.CompletionRate, 1e-9)
}

func TestGetHabitStats_RateClampedToOne(t *testing.T) {
	gateway := &fakeGateway{
		habits:      []*store.Habit{{ID: 1, UserID: 1, Frequency: store.HabitFrequencyWeekly, Active: true}},
		completions: completionsFor(1, "2024-01-02", "2024-01-04", "2024-01-06"),
	}
	analytics := NewAnalytics(gateway).WithClock(fixedClock("2024-01-07"))

	stats, err := analytics.GetHabitStats(context.Background(), 1, 1, "2024-01-01", "2024-01-07")

	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 1, stats.ExpectedCompletions)
	assert.InDelta(t, 1, stats.CompletionRate, 1e-9)
}

func TestGetHabitStats_FewCompletionsIsInsufficientData(t *testing.T) {
	gateway := &fakeGateway{
		habits:      []*store.Habit{{ID: 1, UserID: 1, Frequency: store.HabitFrequencyDaily, Active: true}},
		completions: completionsFor(1, "2024-01-02", "2024-01-05"),
	}
	analytics := NewAnalytics(gateway).WithClock(fixedClock("2024-01-10"))

	stats, err := analytics.GetHabitStats(context.Background(), 1, 1, "2024-01-01", "2024-01-10")

	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, TrendInsufficientData, stats.Trend)
}

func TestGetHabitStats_UnknownHabit(t *testing.T) {
	analytics := NewAnalytics(&fakeGateway{}).WithClock(fixedClock("2024-01-10"))

	stats, err := analytics.GetHabitStats(context.Background(), 1, 99, "2024-01-01", "2024-01-10")

	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestGetHabitStats_InvalidRange(t *testing.T) {
	analytics := NewAnalytics(&fakeGateway{}).WithClock(fixedClock("2024-01-10"))

	_, err := analytics.GetHabitStats(context.Background(), 1, 1, "2024-01-10", "2024-01-01")
	require.Error(t, err)

	_, err = analytics.GetHabitStats(context.Background(), 1, 1, "not-a-date", "2024-01-10")
	require.Error(t, err)
}

func TestGetHabitsSummary(t *testing.T) {
	today := "2024-03-30"
	gateway := &fakeGateway{
		habits: []*store.Habit{
			{ID: 1, UserID: 1, Active: true},
			{ID: 2, UserID: 1, Active: true},
			{ID: 3, UserID: 1, Active: false},
		},
		completions: append(append(
			completionsFor(1, "2024-03-30", "2024-03-29", "2024-03-22", "2024-02-24"),
			completionsFor(2, "2024-03-28")...),
			// Inactive habit activity must not leak into the summary.
			completionsFor(3, today)...),
	}
	analytics := NewAnalytics(gateway).WithClock(fixedClock(today))

	summary, err := analytics.GetHabitsSummary(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.ActiveHabits)
	assert.Equal(t, 1, summary.CompletedToday)
	// Habit 1 completed today and yesterday; habit 2 last completed two
	// days ago, so it contributes nothing.
	assert.Equal(t, 2, summary.TotalCurrentStreak)
	assert.Equal(t, 2, summary.MaxCurrentStreak)
	// 4 completions in the last 30 days across 2 habits.
	assert.InDelta(t, 4.0/60.0, summary.CompletionRate30Days, 1e-9)
	// This week 3 vs last week 1; last 30 days 4 vs prior 30 days 1.
	assert.InDelta(t, 200, summary.WeekOverWeekChange, 1e-9)
	assert.InDelta(t, 300, summary.MonthOverMonthChange, 1e-9)
}

func TestGetHabitsSummary_NoActiveHabits(t *testing.T) {
	analytics := NewAnalytics(&fakeGateway{}).WithClock(fixedClock("2024-03-30"))

	summary, err := analytics.GetHabitsSummary(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, 0, summary.ActiveHabits)
	assert.Zero(t, summary.CompletionRate30Days)
}

func TestGetHabitsSummary_NoPriorActivity(t *testing.T) {
	gateway := &fakeGateway{
		habits:      []*store.Habit{{ID: 1, UserID: 1, Active: true}},
		completions: completionsFor(1, "2024-03-30"),
	}
	analytics := NewAnalytics(gateway).WithClock(fixedClock("2024-03-30"))

	summary, err := analytics.GetHabitsSummary(context.Background(), 1)

	require.NoError(t, err)
	// No prior week or month to compare against reads as flat, not infinite.
	assert.Zero(t, summary.WeekOverWeekChange)
	assert.Zero(t, summary.MonthOverMonthChange)
}

func TestPercentChange(t *testing.T) {
	assert.Zero(t, percentChange(5, 0))
	assert.InDelta(t, 100, percentChange(10, 5), 1e-9)
	assert.InDelta(t, -50, percentChange(5, 10), 1e-9)
	assert.Zero(t, percentChange(0, 0))
}
