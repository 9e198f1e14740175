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

func (d *DB) CreateJob(ctx context.Context, create *store.Job) (*store.Job, error) {
	now := time.Now().Unix()
	create.CreatedTs = now
	create.UpdatedTs = now

	stmt := `
		INSERT INTO job (uid, user_id, kind, payload, status, attempts, run_at_ts, created_ts, updated_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.UserID,
		create.Kind,
		create.Payload,
		create.Status,
		create.Attempts,
		create.RunAtTs,
		create.CreatedTs,
		create.UpdatedTs,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create job")
	}
	return create, nil
}

func (d *DB) ListJobs(ctx context.Context, find *store.FindJob) ([]*store.Job, error) {
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
	if find.Kind != nil {
		where, args = append(where, "kind = ?"), append(args, *find.Kind)
	}
	if find.Status != nil {
		where, args = append(where, "status = ?"), append(args, *find.Status)
	}

	query := `
		SELECT id, uid, user_id, kind, payload, status, attempts, run_at_ts, created_ts, updated_ts
		FROM job
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
		return nil, errors.Wrap(err, "failed to list jobs")
	}
	defer rows.Close()

	list := []*store.Job{}
	for rows.Next() {
		var job store.Job
		if err := rows.Scan(
			&job.ID,
			&job.UID,
			&job.UserID,
			&job.Kind,
			&job.Payload,
			&job.Status,
			&job.Attempts,
			&job.RunAtTs,
			&job.CreatedTs,
			&job.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan job")
		}
		list = append(list, &job)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) UpdateJob(ctx context.Context, update *store.UpdateJob) (*store.Job, error) {
	set, args := []string{}, []any{}

	if v := update.Status; v != nil {
		set, args = append(set, "status = ?"), append(args, *v)
	}
	if v := update.Attempts; v != nil {
		set, args = append(set, "attempts = ?"), append(args, *v)
	}
	if v := update.Payload; v != nil {
		set, args = append(set, "payload = ?"), append(args, *v)
	}
	if v := update.RunAtTs; v != nil {
		set, args = append(set, "run_at_ts = ?"), append(args, *v)
	}
	set, args = append(set, "updated_ts = ?"), append(args, time.Now().Unix())
	args = append(args, update.ID, update.UserID)

	stmt := `
		UPDATE job
		SET ` + strings.Join(set, ", ") + `
		WHERE id = ? AND user_id = ?
		RETURNING id, uid, user_id, kind, payload, status, attempts, run_at_ts, created_ts, updated_ts
	`
	var job store.Job
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&job.ID,
		&job.UID,
		&job.UserID,
		&job.Kind,
		&job.Payload,
		&job.Status,
		&job.Attempts,
		&job.RunAtTs,
		&job.CreatedTs,
		&job.UpdatedTs,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoData
		}
		return nil, errors.Wrap(err, "failed to update job")
	}
	return &job, nil
}

func (d *DB) DeleteJob(ctx context.Context, delete *store.DeleteJob) error {
	stmt := `DELETE FROM job WHERE id = ? AND user_id = ?`
	if _, err := d.db.ExecContext(ctx, stmt, delete.ID, delete.UserID); err != nil {
		return errors.Wrap(err, "failed to delete job")
	}
	return nil
}
