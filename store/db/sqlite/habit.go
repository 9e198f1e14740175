package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/amberhq/amber/store"
)

func (d *DB) CreateHabit(ctx context.Context, create *store.Habit) (*store.Habit, error) {
	now := time.Now().Unix()
	create.CreatedTs = now
	create.UpdatedTs = now

	stmt := `
		INSERT INTO habit (uid, user_id, name, frequency, active, created_ts, updated_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.UserID,
		create.Name,
		create.Frequency,
		create.Active,
		create.CreatedTs,
		create.UpdatedTs,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create habit")
	}
	return create, nil
}

func (d *DB) ListHabits(ctx context.Context, find *store.FindHabit) ([]*store.Habit, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = ?"), append(args, *find.UID)
	}
	if find.UserID != nil {
		where, args = append(where, "user_id = ?"), append(args, *find.UserID)
	}
	if find.Active != nil {
		where, args = append(where, "active = ?"), append(args, *find.Active)
	}

	query := `
		SELECT id, uid, user_id, name, frequency, active, created_ts, updated_ts
		FROM habit
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC`
	if find.Limit != nil {
		query += fmt.Sprintf(" LIMIT %d", *find.Limit)
		if find.Offset != nil {
			query += fmt.Sprintf(" OFFSET %d", *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list habits")
	}
	defer rows.Close()

	list := []*store.Habit{}
	for rows.Next() {
		var habit store.Habit
		if err := rows.Scan(
			&habit.ID,
			&habit.UID,
			&habit.UserID,
			&habit.Name,
			&habit.Frequency,
			&habit.Active,
			&habit.CreatedTs,
			&habit.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan habit")
		}
		list = append(list, &habit)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) UpdateHabit(ctx context.Context, update *store.UpdateHabit) (*store.Habit, error) {
	set, args := []string{}, []any{}

	if v := update.Name; v != nil {
		set, args = append(set, "name = ?"), append(args, *v)
	}
	if v := update.Frequency; v != nil {
		set, args = append(set, "frequency = ?"), append(args, *v)
	}
	if v := update.Active; v != nil {
		set, args = append(set, "active = ?"), append(args, *v)
	}
	set, args = append(set, "updated_ts = ?"), append(args, time.Now().Unix())
	args = append(args, update.ID, update.UserID)

	stmt := `
		UPDATE habit
		SET ` + strings.Join(set, ", ") + `
		WHERE id = ? AND user_id = ?
		RETURNING id, uid, user_id, name, frequency, active, created_ts, updated_ts
	`
	var habit store.Habit
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&habit.ID,
		&habit.UID,
		&habit.UserID,
		&habit.Name,
		&habit.Frequency,
		&habit.Active,
		&habit.CreatedTs,
		&habit.UpdatedTs,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoData
		}
		return nil, errors.Wrap(err, "failed to update habit")
	}
	return &habit, nil
}

func (d *DB) DeleteHabit(ctx context.Context, delete *store.DeleteHabit) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM habit_completion WHERE habit_id = ? AND user_id = ?`, delete.ID, delete.UserID); err != nil {
		return errors.Wrap(err, "failed to delete habit completions")
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM habit WHERE id = ? AND user_id = ?`, delete.ID, delete.UserID); err != nil {
		return errors.Wrap(err, "failed to delete habit")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// UpsertHabitCompletion records a completion for one calendar day. The
// unique constraint on (user_id, habit_id, date) makes re-submission an
// update of notes rather than a duplicate row.
func (d *DB) UpsertHabitCompletion(ctx context.Context, upsert *store.UpsertHabitCompletion) (*store.HabitCompletion, error) {
	stmt := `
		INSERT INTO habit_completion (user_id, habit_id, date, notes, created_ts)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, habit_id, date) DO UPDATE SET
			notes = excluded.notes
		RETURNING id, user_id, habit_id, date, notes, created_ts
	`
	var completion store.HabitCompletion
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.UserID,
		upsert.HabitID,
		upsert.Date,
		upsert.Notes,
		time.Now().Unix(),
	).Scan(
		&completion.ID,
		&completion.UserID,
		&completion.HabitID,
		&completion.Date,
		&completion.Notes,
		&completion.CreatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to upsert habit completion")
	}
	return &completion, nil
}

func (d *DB) ListHabitCompletions(ctx context.Context, find *store.FindHabitCompletion) ([]*store.HabitCompletion, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.UserID != nil {
		where, args = append(where, "user_id = ?"), append(args, *find.UserID)
	}
	if find.HabitID != nil {
		where, args = append(where, "habit_id = ?"), append(args, *find.HabitID)
	}
	if find.Date != nil {
		where, args = append(where, "date = ?"), append(args, *find.Date)
	}
	if find.StartDate != nil {
		where, args = append(where, "date >= ?"), append(args, *find.StartDate)
	}
	if find.EndDate != nil {
		where, args = append(where, "date <= ?"), append(args, *find.EndDate)
	}

	query := `
		SELECT id, user_id, habit_id, date, notes, created_ts
		FROM habit_completion
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY date DESC`
	if find.Limit != nil {
		query += fmt.Sprintf(" LIMIT %d", *find.Limit)
		if find.Offset != nil {
			query += fmt.Sprintf(" OFFSET %d", *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list habit completions")
	}
	defer rows.Close()

	list := []*store.HabitCompletion{}
	for rows.Next() {
		var completion store.HabitCompletion
		if err := rows.Scan(
			&completion.ID,
			&completion.UserID,
			&completion.HabitID,
			&completion.Date,
			&completion.Notes,
			&completion.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan habit completion")
		}
		list = append(list, &completion)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) DeleteHabitCompletion(ctx context.Context, delete *store.DeleteHabitCompletion) error {
	stmt := `DELETE FROM habit_completion WHERE user_id = ? AND habit_id = ? AND date = ?`
	if _, err := d.db.ExecContext(ctx, stmt, delete.UserID, delete.HabitID, delete.Date); err != nil {
		return errors.Wrap(err, "failed to delete habit completion")
	}
	return nil
}
