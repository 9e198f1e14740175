package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/amberhq/amber/store"
)

func (d *DB) CreateConsent(ctx context.Context, create *store.Consent) (*store.Consent, error) {
	create.CreatedTs = time.Now().Unix()

	stmt := `
		INSERT INTO consent (user_id, contact_id, scope, source, granted_ts, created_ts)
		VALUES (` + placeholders(6) + `)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UserID,
		create.ContactID,
		create.Scope,
		create.Source,
		create.GrantedTs,
		create.CreatedTs,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create consent")
	}
	return create, nil
}

func (d *DB) ListConsents(ctx context.Context, find *store.FindConsent) ([]*store.Consent, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UserID != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *find.UserID)
	}
	if find.ContactID != nil {
		where, args = append(where, "contact_id = "+placeholder(len(args)+1)), append(args, *find.ContactID)
	}
	if find.Scope != nil {
		where, args = append(where, "scope = "+placeholder(len(args)+1)), append(args, *find.Scope)
	}

	query := `
		SELECT id, user_id, contact_id, scope, source, granted_ts, created_ts
		FROM consent
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
		return nil, errors.Wrap(err, "failed to list consents")
	}
	defer rows.Close()

	list := []*store.Consent{}
	for rows.Next() {
		var consent store.Consent
		if err := rows.Scan(
			&consent.ID,
			&consent.UserID,
			&consent.ContactID,
			&consent.Scope,
			&consent.Source,
			&consent.GrantedTs,
			&consent.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan consent")
		}
		list = append(list, &consent)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) DeleteConsent(ctx context.Context, delete *store.DeleteConsent) error {
	stmt := `DELETE FROM consent WHERE id = $1 AND user_id = $2`
	if _, err := d.db.ExecContext(ctx, stmt, delete.ID, delete.UserID); err != nil {
		return errors.Wrap(err, "failed to delete consent")
	}
	return nil
}

func (d *DB) CreateAttachment(ctx context.Context, create *store.Attachment) (*store.Attachment, error) {
	create.CreatedTs = time.Now().Unix()

	stmt := `
		INSERT INTO attachment (uid, user_id, contact_id, filename, type, size, blob, created_ts)
		VALUES (` + placeholders(8) + `)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.UserID,
		create.ContactID,
		create.Filename,
		create.Type,
		create.Size,
		create.Blob,
		create.CreatedTs,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create attachment")
	}
	return create, nil
}

func (d *DB) ListAttachments(ctx context.Context, find *store.FindAttachment) ([]*store.Attachment, error) {
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

	fields := []string{"id", "uid", "user_id", "contact_id", "filename", "type", "size", "created_ts"}
	if find.GetBlob {
		fields = append(fields, "blob")
	}

	query := `
		SELECT ` + strings.Join(fields, ", ") + `
		FROM attachment
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
		return nil, errors.Wrap(err, "failed to list attachments")
	}
	defer rows.Close()

	list := []*store.Attachment{}
	for rows.Next() {
		var attachment store.Attachment
		dests := []any{
			&attachment.ID,
			&attachment.UID,
			&attachment.UserID,
			&attachment.ContactID,
			&attachment.Filename,
			&attachment.Type,
			&attachment.Size,
			&attachment.CreatedTs,
		}
		if find.GetBlob {
			dests = append(dests, &attachment.Blob)
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, errors.Wrap(err, "failed to scan attachment")
		}
		list = append(list, &attachment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) DeleteAttachment(ctx context.Context, delete *store.DeleteAttachment) error {
	stmt := `DELETE FROM attachment WHERE id = $1 AND user_id = $2`
	if _, err := d.db.ExecContext(ctx, stmt, delete.ID, delete.UserID); err != nil {
		return errors.Wrap(err, "failed to delete attachment")
	}
	return nil
}

// CreateContactWithConsent inserts the contact, its optional attachment, the
// consent record and consumes one onboarding-token use inside a single
// transaction. Any failure rolls back every step.
func (d *DB) CreateContactWithConsent(ctx context.Context, create *store.CreateContactWithConsent) (*store.Contact, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	now := time.Now().Unix()

	contact := create.Contact
	contact.CreatedTs = now
	contact.UpdatedTs = now
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO contact (uid, user_id, display_name, email, phone, company, role, archived, created_ts, updated_ts)
		VALUES (`+placeholders(10)+`)
		RETURNING id
	`,
		contact.UID,
		contact.UserID,
		contact.DisplayName,
		contact.Email,
		contact.Phone,
		contact.Company,
		contact.Role,
		contact.Archived,
		contact.CreatedTs,
		contact.UpdatedTs,
	).Scan(&contact.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create contact")
	}

	if attachment := create.Attachment; attachment != nil {
		attachment.ContactID = &contact.ID
		attachment.CreatedTs = now
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO attachment (uid, user_id, contact_id, filename, type, size, blob, created_ts)
			VALUES (`+placeholders(8)+`)
			RETURNING id
		`,
			attachment.UID,
			attachment.UserID,
			attachment.ContactID,
			attachment.Filename,
			attachment.Type,
			attachment.Size,
			attachment.Blob,
			attachment.CreatedTs,
		).Scan(&attachment.ID); err != nil {
			return nil, errors.Wrap(err, "failed to create attachment")
		}
	}

	consent := create.Consent
	consent.ContactID = contact.ID
	consent.CreatedTs = now
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO consent (user_id, contact_id, scope, source, granted_ts, created_ts)
		VALUES (`+placeholders(6)+`)
		RETURNING id
	`,
		consent.UserID,
		consent.ContactID,
		consent.Scope,
		consent.Source,
		consent.GrantedTs,
		consent.CreatedTs,
	).Scan(&consent.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create consent")
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE onboarding_token
		SET uses = uses + 1
		WHERE code = $1 AND user_id = $2 AND uses < max_uses AND (expires_ts = 0 OR expires_ts > $3)
	`, create.TokenCode, contact.UserID, now)
	if err != nil {
		return nil, errors.Wrap(err, "failed to consume onboarding token")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "failed to check onboarding token")
	}
	if affected == 0 {
		return nil, store.ErrTokenExhausted
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}
	return contact, nil
}
