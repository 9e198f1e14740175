package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/amberhq/amber/store"
)

func (d *DB) UpsertIntegrationCredential(ctx context.Context, upsert *store.IntegrationCredential) (*store.IntegrationCredential, error) {
	now := time.Now().Unix()
	stmt := `
		INSERT INTO integration_credential (user_id, provider, sealed, created_ts, updated_ts)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, provider) DO UPDATE SET
			sealed = excluded.sealed,
			updated_ts = excluded.updated_ts
		RETURNING id, created_ts, updated_ts
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.UserID,
		upsert.Provider,
		upsert.Sealed,
		now,
		now,
	).Scan(&upsert.ID, &upsert.CreatedTs, &upsert.UpdatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to upsert integration credential")
	}
	return upsert, nil
}

func (d *DB) ListIntegrationCredentials(ctx context.Context, find *store.FindIntegrationCredential) ([]*store.IntegrationCredential, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}
	if find.UserID != nil {
		where, args = append(where, "user_id = ?"), append(args, *find.UserID)
	}
	if find.Provider != nil {
		where, args = append(where, "provider = ?"), append(args, *find.Provider)
	}

	query := `
		SELECT id, user_id, provider, sealed, created_ts, updated_ts
		FROM integration_credential
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY provider ASC`
	if find.Limit != nil {
		query += fmt.Sprintf(" LIMIT %d", *find.Limit)
		if find.Offset != nil {
			query += fmt.Sprintf(" OFFSET %d", *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list integration credentials")
	}
	defer rows.Close()

	list := []*store.IntegrationCredential{}
	for rows.Next() {
		var credential store.IntegrationCredential
		if err := rows.Scan(
			&credential.ID,
			&credential.UserID,
			&credential.Provider,
			&credential.Sealed,
			&credential.CreatedTs,
			&credential.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan integration credential")
		}
		list = append(list, &credential)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) DeleteIntegrationCredential(ctx context.Context, delete *store.DeleteIntegrationCredential) error {
	stmt := `DELETE FROM integration_credential WHERE id = ? AND user_id = ?`
	if _, err := d.db.ExecContext(ctx, stmt, delete.ID, delete.UserID); err != nil {
		return errors.Wrap(err, "failed to delete integration credential")
	}
	return nil
}
