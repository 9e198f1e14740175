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

func (d *DB) CreateInsight(ctx context.Context, create *store.Insight) (*store.Insight, error) {
	create.CreatedTs = time.Now().Unix()

	stmt := `
		INSERT INTO insight (uid, user_id, kind, title, body, confidence, dismissed, created_ts)
		VALUES (` + placeholders(8) + `)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.UserID,
		create.Kind,
		create.Title,
		create.Body,
		create.Confidence,
		create.Dismissed,
		create.CreatedTs,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create insight")
	}
	return create, nil
}

func (d *DB) ListInsights(ctx context.Context, find *store.FindInsight) ([]*store.Insight, error) {
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
	if find.Kind != nil {
		where, args = append(where, "kind = "+placeholder(len(args)+1)), append(args, *find.Kind)
	}
	if find.Dismissed != nil {
		where, args = append(where, "dismissed = "+placeholder(len(args)+1)), append(args, *find.Dismissed)
	}

	query := `
		SELECT id, uid, user_id, kind, title, body, confidence, dismissed, created_ts
		FROM insight
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
		return nil, errors.Wrap(err, "failed to list insights")
	}
	defer rows.Close()

	list := []*store.Insight{}
	for rows.Next() {
		var insight store.Insight
		if err := rows.Scan(
			&insight.ID,
			&insight.UID,
			&insight.UserID,
			&insight.Kind,
			&insight.Title,
			&insight.Body,
			&insight.Confidence,
			&insight.Dismissed,
			&insight.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan insight")
		}
		list = append(list, &insight)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) UpdateInsight(ctx context.Context, update *store.UpdateInsight) (*store.Insight, error) {
	set, args := []string{}, []any{}

	if v := update.Dismissed; v != nil {
		set, args = append(set, "dismissed = "+placeholder(len(args)+1)), append(args, *v)
	}
	idPlaceholder, userIDPlaceholder := placeholder(len(args)+1), placeholder(len(args)+2)
	args = append(args, update.ID, update.UserID)

	stmt := `
		UPDATE insight
		SET ` + strings.Join(set, ", ") + `
		WHERE id = ` + idPlaceholder + ` AND user_id = ` + userIDPlaceholder + `
		RETURNING id, uid, user_id, kind, title, body, confidence, dismissed, created_ts
	`
	var insight store.Insight
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&insight.ID,
		&insight.UID,
		&insight.UserID,
		&insight.Kind,
		&insight.Title,
		&insight.Body,
		&insight.Confidence,
		&insight.Dismissed,
		&insight.CreatedTs,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoData
		}
		return nil, errors.Wrap(err, "failed to update insight")
	}
	return &insight, nil
}

func (d *DB) DeleteInsight(ctx context.Context, delete *store.DeleteInsight) error {
	stmt := `DELETE FROM insight WHERE id = $1 AND user_id = $2`
	if _, err := d.db.ExecContext(ctx, stmt, delete.ID, delete.UserID); err != nil {
		return errors.Wrap(err, "failed to delete insight")
	}
	return nil
}
