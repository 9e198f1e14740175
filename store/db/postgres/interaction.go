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

func (d *DB) CreateInteraction(ctx context.Context, create *store.Interaction) (*store.Interaction, error) {
	now := time.Now().Unix()
	create.CreatedTs = now
	create.UpdatedTs = now
	if create.OccurredTs == 0 {
		create.OccurredTs = now
	}

	stmt := `
		INSERT INTO interaction (uid, user_id, contact_id, kind, subject, body, occurred_ts, created_ts, updated_ts)
		VALUES (` + placeholders(9) + `)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.UserID,
		create.ContactID,
		create.Kind,
		create.Subject,
		create.Body,
		create.OccurredTs,
		create.CreatedTs,
		create.UpdatedTs,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create interaction")
	}
	return create, nil
}

func (d *DB) ListInteractions(ctx context.Context, find *store.FindInteraction) ([]*store.Interaction, error) {
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
	if find.ContactID != nil {
		where, args = append(where, "contact_id = "+placeholder(len(args)+1)), append(args, *find.ContactID)
	}
	if find.Kind != nil {
		where, args = append(where, "kind = "+placeholder(len(args)+1)), append(args, *find.Kind)
	}
	if find.Search != nil {
		pattern := "%" + *find.Search + "%"
		p1, p2 := placeholder(len(args)+1), placeholder(len(args)+2)
		where = append(where, "(subject ILIKE "+p1+" OR body ILIKE "+p2+")")
		args = append(args, pattern, pattern)
	}

	query := `
		SELECT id, uid, user_id, contact_id, kind, subject, body, occurred_ts, created_ts, updated_ts
		FROM interaction
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
		return nil, errors.Wrap(err, "failed to list interactions")
	}
	defer rows.Close()

	list := []*store.Interaction{}
	for rows.Next() {
		var interaction store.Interaction
		if err := rows.Scan(
			&interaction.ID,
			&interaction.UID,
			&interaction.UserID,
			&interaction.ContactID,
			&interaction.Kind,
			&interaction.Subject,
			&interaction.Body,
			&interaction.OccurredTs,
			&interaction.CreatedTs,
			&interaction.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan interaction")
		}
		list = append(list, &interaction)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) UpdateInteraction(ctx context.Context, update *store.UpdateInteraction) (*store.Interaction, error) {
	set, args := []string{}, []any{}

	if v := update.Kind; v != nil {
		set, args = append(set, "kind = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Subject; v != nil {
		set, args = append(set, "subject = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Body; v != nil {
		set, args = append(set, "body = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.OccurredTs; v != nil {
		set, args = append(set, "occurred_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, time.Now().Unix())
	idPlaceholder, userIDPlaceholder := placeholder(len(args)+1), placeholder(len(args)+2)
	args = append(args, update.ID, update.UserID)

	stmt := `
		UPDATE interaction
		SET ` + strings.Join(set, ", ") + `
		WHERE id = ` + idPlaceholder + ` AND user_id = ` + userIDPlaceholder + `
		RETURNING id, uid, user_id, contact_id, kind, subject, body, occurred_ts, created_ts, updated_ts
	`
	var interaction store.Interaction
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&interaction.ID,
		&interaction.UID,
		&interaction.UserID,
		&interaction.ContactID,
		&interaction.Kind,
		&interaction.Subject,
		&interaction.Body,
		&interaction.OccurredTs,
		&interaction.CreatedTs,
		&interaction.UpdatedTs,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoData
		}
		return nil, errors.Wrap(err, "failed to update interaction")
	}
	return &interaction, nil
}

func (d *DB) DeleteInteraction(ctx context.Context, delete *store.DeleteInteraction) error {
	stmt := `DELETE FROM interaction WHERE id = $1 AND user_id = $2`
	if _, err := d.db.ExecContext(ctx, stmt, delete.ID, delete.UserID); err != nil {
		return errors.Wrap(err, "failed to delete interaction")
	}
	return nil
}
