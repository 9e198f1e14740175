package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/amberhq/amber/store"
)

func (d *DB) UpsertTag(ctx context.Context, upsert *store.Tag) (*store.Tag, error) {
	stmt := `
		INSERT INTO tag (user_id, name, color, created_ts)
		VALUES (` + placeholders(4) + `)
		ON CONFLICT (user_id, name) DO UPDATE SET
			color = EXCLUDED.color
		RETURNING id, user_id, name, color, created_ts
	`
	var tag store.Tag
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.UserID,
		upsert.Name,
		upsert.Color,
		time.Now().Unix(),
	).Scan(
		&tag.ID,
		&tag.UserID,
		&tag.Name,
		&tag.Color,
		&tag.CreatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to upsert tag")
	}
	return &tag, nil
}

func (d *DB) ListTags(ctx context.Context, find *store.FindTag) ([]*store.Tag, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "t.id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UserID != nil {
		where, args = append(where, "t.user_id = "+placeholder(len(args)+1)), append(args, *find.UserID)
	}
	if find.Name != nil {
		where, args = append(where, "t.name = "+placeholder(len(args)+1)), append(args, *find.Name)
	}

	from := "tag t"
	if find.ContactID != nil {
		from = "tag t INNER JOIN contact_tag ct ON ct.tag_id = t.id"
		where, args = append(where, "ct.contact_id = "+placeholder(len(args)+1)), append(args, *find.ContactID)
	}

	query := `
		SELECT t.id, t.user_id, t.name, t.color, t.created_ts
		FROM ` + from + `
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY t.name ASC`
	if find.Limit != nil {
		query += fmt.Sprintf(" LIMIT %d", *find.Limit)
		if find.Offset != nil {
			query += fmt.Sprintf(" OFFSET %d", *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tags")
	}
	defer rows.Close()

	list := []*store.Tag{}
	for rows.Next() {
		var tag store.Tag
		if err := rows.Scan(
			&tag.ID,
			&tag.UserID,
			&tag.Name,
			&tag.Color,
			&tag.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan tag")
		}
		list = append(list, &tag)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) DeleteTag(ctx context.Context, delete *store.DeleteTag) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM contact_tag WHERE tag_id = $1 AND user_id = $2`, delete.ID, delete.UserID); err != nil {
		return errors.Wrap(err, "failed to detach tag from contacts")
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tag WHERE id = $1 AND user_id = $2`, delete.ID, delete.UserID); err != nil {
		return errors.Wrap(err, "failed to delete tag")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

func (d *DB) AttachContactTag(ctx context.Context, attach *store.ContactTag) error {
	stmt := `
		INSERT INTO contact_tag (contact_id, tag_id, user_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (contact_id, tag_id) DO NOTHING
	`
	if _, err := d.db.ExecContext(ctx, stmt, attach.ContactID, attach.TagID, attach.UserID); err != nil {
		return errors.Wrap(err, "failed to attach contact tag")
	}
	return nil
}

func (d *DB) DetachContactTag(ctx context.Context, detach *store.ContactTag) error {
	stmt := `DELETE FROM contact_tag WHERE contact_id = $1 AND tag_id = $2 AND user_id = $3`
	if _, err := d.db.ExecContext(ctx, stmt, detach.ContactID, detach.TagID, detach.UserID); err != nil {
		return errors.Wrap(err, "failed to detach contact tag")
	}
	return nil
}
