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

func (d *DB) CreateOnboardingToken(ctx context.Context, create *store.OnboardingToken) (*store.OnboardingToken, error) {
	create.CreatedTs = time.Now().Unix()

	stmt := `
		INSERT INTO onboarding_token (user_id, code, max_uses, uses, expires_ts, created_ts)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UserID,
		create.Code,
		create.MaxUses,
		create.Uses,
		create.ExpiresTs,
		create.CreatedTs,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create onboarding token")
	}
	return create, nil
}

func (d *DB) ListOnboardingTokens(ctx context.Context, find *store.FindOnboardingToken) ([]*store.OnboardingToken, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}
	if find.UserID != nil {
		where, args = append(where, "user_id = ?"), append(args, *find.UserID)
	}
	if find.Code != nil {
		where, args = append(where, "code = ?"), append(args, *find.Code)
	}

	query := `
		SELECT id, user_id, code, max_uses, uses, expires_ts, created_ts
		FROM onboarding_token
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
		return nil, errors.Wrap(err, "failed to list onboarding tokens")
	}
	defer rows.Close()

	list := []*store.OnboardingToken{}
	for rows.Next() {
		var token store.OnboardingToken
		if err := rows.Scan(
			&token.ID,
			&token.UserID,
			&token.Code,
			&token.MaxUses,
			&token.Uses,
			&token.ExpiresTs,
			&token.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan onboarding token")
		}
		list = append(list, &token)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// ConsumeOnboardingToken increments the use counter with a single
// conditional UPDATE so concurrent consumers cannot exceed max_uses.
func (d *DB) ConsumeOnboardingToken(ctx context.Context, code string, userID int32) (*store.OnboardingToken, error) {
	stmt := `
		UPDATE onboarding_token
		SET uses = uses + 1
		WHERE code = ? AND user_id = ? AND uses < max_uses AND (expires_ts = 0 OR expires_ts > ?)
		RETURNING id, user_id, code, max_uses, uses, expires_ts, created_ts
	`
	var token store.OnboardingToken
	if err := d.db.QueryRowContext(ctx, stmt, code, userID, time.Now().Unix()).Scan(
		&token.ID,
		&token.UserID,
		&token.Code,
		&token.MaxUses,
		&token.Uses,
		&token.ExpiresTs,
		&token.CreatedTs,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTokenExhausted
		}
		return nil, errors.Wrap(err, "failed to consume onboarding token")
	}
	return &token, nil
}

func (d *DB) DeleteOnboardingToken(ctx context.Context, delete *store.DeleteOnboardingToken) error {
	stmt := `DELETE FROM onboarding_token WHERE id = ? AND user_id = ?`
	if _, err := d.db.ExecContext(ctx, stmt, delete.ID, delete.UserID); err != nil {
		return errors.Wrap(err, "failed to delete onboarding token")
	}
	return nil
}
