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

func (d *DB) CreateCalendarEvent(ctx context.Context, create *store.CalendarEvent) (*store.CalendarEvent, error) {
	now := time.Now().Unix()
	create.CreatedTs = now
	create.UpdatedTs = now

	stmt := `
		INSERT INTO calendar_event (uid, user_id, title, description, location, start_ts, end_ts, created_ts, updated_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.UserID,
		create.Title,
		create.Description,
		create.Location,
		create.StartTs,
		create.EndTs,
		create.CreatedTs,
		create.UpdatedTs,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create calendar event")
	}
	return create, nil
}

func (d *DB) ListCalendarEvents(ctx context.Context, find *store.FindCalendarEvent) ([]*store.CalendarEvent, error) {
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
	if find.StartTs != nil {
		where, args = append(where, "start_ts >= ?"), append(args, *find.StartTs)
	}
	if find.EndTs != nil {
		where, args = append(where, "start_ts < ?"), append(args, *find.EndTs)
	}
	if find.Search != nil {
		pattern := "%" + *find.Search + "%"
		where = append(where, "(title LIKE ? OR description LIKE ?)")
		args = append(args, pattern, pattern)
	}

	query := `
		SELECT id, uid, user_id, title, description, location, start_ts, end_ts, created_ts, updated_ts
		FROM calendar_event
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
		return nil, errors.Wrap(err, "failed to list calendar events")
	}
	defer rows.Close()

	list := []*store.CalendarEvent{}
	for rows.Next() {
		var event store.CalendarEvent
		if err := rows.Scan(
			&event.ID,
			&event.UID,
			&event.UserID,
			&event.Title,
			&event.Description,
			&event.Location,
			&event.StartTs,
			&event.EndTs,
			&event.CreatedTs,
			&event.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan calendar event")
		}
		list = append(list, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) UpdateCalendarEvent(ctx context.Context, update *store.UpdateCalendarEvent) (*store.CalendarEvent, error) {
	set, args := []string{}, []any{}

	if v := update.Title; v != nil {
		set, args = append(set, "title = ?"), append(args, *v)
	}
	if v := update.Description; v != nil {
		set, args = append(set, "description = ?"), append(args, *v)
	}
	if v := update.Location; v != nil {
		set, args = append(set, "location = ?"), append(args, *v)
	}
	if v := update.StartTs; v != nil {
		set, args = append(set, "start_ts = ?"), append(args, *v)
	}
	if v := update.EndTs; v != nil {
		set, args = append(set, "end_ts = ?"), append(args, *v)
	}
	set, args = append(set, "updated_ts = ?"), append(args, time.Now().Unix())
	args = append(args, update.ID, update.UserID)

	stmt := `
		UPDATE calendar_event
		SET ` + strings.Join(set, ", ") + `
		WHERE id = ? AND user_id = ?
		RETURNING id, uid, user_id, title, description, location, start_ts, end_ts, created_ts, updated_ts
	`
	var event store.CalendarEvent
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&event.ID,
		&event.UID,
		&event.UserID,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.StartTs,
		&event.EndTs,
		&event.CreatedTs,
		&event.UpdatedTs,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoData
		}
		return nil, errors.Wrap(err, "failed to update calendar event")
	}
	return &event, nil
}

func (d *DB) DeleteCalendarEvent(ctx context.Context, delete *store.DeleteCalendarEvent) error {
	stmt := `DELETE FROM calendar_event WHERE id = ? AND user_id = ?`
	if _, err := d.db.ExecContext(ctx, stmt, delete.ID, delete.UserID); err != nil {
		return errors.Wrap(err, "failed to delete calendar event")
	}
	return nil
}
