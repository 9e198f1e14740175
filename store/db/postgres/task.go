package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/amberhq/amber/store"
)

func (d *DB) CreateTask(ctx context.Context, create *store.Task) (*store.Task, error) {
	now := time.Now().Unix()
	create.CreatedTs = now
	create.UpdatedTs = now

	stmt := `
		INSERT INTO task (uid, user_id, name, notes, status, due_ts, parent_id, project_id, created_ts, updated_ts)
		VALUES (` + placeholders(10) + `)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.UserID,
		create.Name,
		create.Notes,
		create.Status,
		create.DueTs,
		create.ParentID,
		create.ProjectID,
		create.CreatedTs,
		create.UpdatedTs,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create task")
	}
	return create, nil
}

func (d *DB) ListTasks(ctx context.Context, find *store.FindTask) ([]*store.Task, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}
	if find.UserID != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *find.UserID)
	}
	if find.ProjectID != nil {
		where, args = append(where, "project_id = "+placeholder(len(args)+1)), append(args, *find.ProjectID)
	}
	if find.ParentID != nil {
		where, args = append(where, "parent_id = "+placeholder(len(args)+1)), append(args, *find.ParentID)
	}
	if find.Status != nil {
		where, args = append(where, "status = "+placeholder(len(args)+1)), append(args, *find.Status)
	}
	if find.Search != nil {
		pattern := "%" + *find.Search + "%"
		p1, p2 := placeholder(len(args)+1), placeholder(len(args)+2)
		where = append(where, "(name ILIKE "+p1+" OR notes ILIKE "+p2+")")
		args = append(args, pattern, pattern)
	}

	query := `
		SELECT id, uid, user_id, name, notes, status, due_ts, parent_id, project_id, created_ts, updated_ts
		FROM task
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
		return nil, errors.Wrap(err, "failed to list tasks")
	}
	defer rows.Close()

	list := []*store.Task{}
	for rows.Next() {
		var task store.Task
		if err := rows.Scan(
			&task.ID,
			&task.UID,
			&task.UserID,
			&task.Name,
			&task.Notes,
			&task.Status,
			&task.DueTs,
			&task.ParentID,
			&task.ProjectID,
			&task.CreatedTs,
			&task.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan task")
		}
		list = append(list, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) UpdateTask(ctx context.Context, update *store.UpdateTask) (*store.Task, error) {
	set, args := []string{}, []any{}

	if v := update.Name; v != nil {
		set, args = append(set, "name = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Notes; v != nil {
		set, args = append(set, "notes = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Status; v != nil {
		set, args = append(set, "status = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.DueTs; v != nil {
		set, args = append(set, "due_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.ParentID; v != nil {
		set, args = append(set, "parent_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.ProjectID; v != nil {
		set, args = append(set, "project_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, time.Now().Unix())
	idPlaceholder, userIDPlaceholder := placeholder(len(args)+1), placeholder(len(args)+2)
	args = append(args, update.ID, update.UserID)

	stmt := `
		UPDATE task
		SET ` + strings.Join(set, ", ") + `
		WHERE id = ` + idPlaceholder + ` AND user_id = ` + userIDPlaceholder + `
		RETURNING id, uid, user_id, name, notes, status, due_ts, parent_id, project_id, created_ts, updated_ts
	`
	var task store.Task
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&task.ID,
		&task.UID,
		&task.UserID,
		&task.Name,
		&task.Notes,
		&task.Status,
		&task.DueTs,
		&task.ParentID,
		&task.ProjectID,
		&task.CreatedTs,
		&task.UpdatedTs,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoData
		}
		return nil, errors.Wrap(err, "failed to update task")
	}
	return &task, nil
}

func (d *DB) DeleteTask(ctx context.Context, delete *store.DeleteTask) error {
	stmt := `DELETE FROM task WHERE id = $1 AND user_id = $2`
	if _, err := d.db.ExecContext(ctx, stmt, delete.ID, delete.UserID); err != nil {
		return errors.Wrap(err, "failed to delete task")
	}
	return nil
}
