package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amberhq/amber/store"
)

func TestUpsertHabitCompletion_SecondSubmissionOverwritesNotes(t *testing.T) {
	ctx := context.Background()
	driver := newTestDB(t)
	userID := int32(1)

	habit, err := driver.CreateHabit(ctx, &store.Habit{
		UID: "habit-uid", UserID: userID, Name: "read", Frequency: store.HabitFrequencyDaily, Active: true,
	})
	require.NoError(t, err)

	first, err := driver.UpsertHabitCompletion(ctx, &store.UpsertHabitCompletion{
		UserID: userID, HabitID: habit.ID, Date: "2024-01-03", Notes: "ten pages",
	})
	require.NoError(t, err)

	second, err := driver.UpsertHabitCompletion(ctx, &store.UpsertHabitCompletion{
		UserID: userID, HabitID: habit.ID, Date: "2024-01-03", Notes: "whole chapter",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "re-submission updates the existing row")
	assert.Equal(t, "whole chapter", second.Notes)

	completions, err := driver.ListHabitCompletions(ctx, &store.FindHabitCompletion{
		UserID: &userID, HabitID: &habit.ID,
	})
	require.NoError(t, err)
	require.Len(t, completions, 1)
	assert.Equal(t, "whole chapter", completions[0].Notes)
}

func TestUpsertHabitCompletion_DistinctDatesKeepSeparateRows(t *testing.T) {
	ctx := context.Background()
	driver := newTestDB(t)
	userID := int32(1)

	habit, err := driver.CreateHabit(ctx, &store.Habit{
		UID: "habit-uid", UserID: userID, Name: "read", Frequency: store.HabitFrequencyDaily, Active: true,
	})
	require.NoError(t, err)

	for _, date := range []string{"2024-01-02", "2024-01-03"} {
		_, err := driver.UpsertHabitCompletion(ctx, &store.UpsertHabitCompletion{
			UserID: userID, HabitID: habit.ID, Date: date,
		})
		require.NoError(t, err)
	}

	completions, err := driver.ListHabitCompletions(ctx, &store.FindHabitCompletion{
		UserID: &userID, HabitID: &habit.ID,
	})
	require.NoError(t, err)
	assert.Len(t, completions, 2)
}
