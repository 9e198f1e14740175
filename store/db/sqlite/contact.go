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

func (d *DB) CreateContact(ctx context.Context, create *store.Contact) (*store.Contact, error) {
	now := time.Now().Unix()
	create.CreatedTs = now
	create.UpdatedTs = now

	stmt := `
		INSERT INTO contact (uid, user_id, display_name, email, phone, company, role, archived, created_ts, updated_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.UserID,
		create.DisplayName,
		create.Email,
		create.Phone,
		create.Company,
		create.Role,
		create.Archived,
		create.CreatedTs,
		create.UpdatedTs,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create contact")
	}
	return create, nil
}

func (d *DB) ListContacts(ctx context.Context, find *store.FindContact) ([]*store.Contact, error) {
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
	if find.Archived != nil {
		where, args = append(where, "archived = ?"), append(args, *find.Archived)
	}
	if find.Search != nil {
		pattern := "%" + *find.Search + "%"
		where = append(where, "(display_name LIKE ? OR email LIKE ? OR phone LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}

	query := `
		SELECT id, uid, user_id, display_name, email, phone, company, role, archived, created_ts, updated_ts
		FROM contact
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
		return nil, errors.Wrap(err, "failed to list contacts")
	}
	defer rows.Close()

	list := []*store.Contact{}
	for rows.Next() {
		var contact store.Contact
		if err := rows.Scan(
			&contact.ID,
			&contact.UID,
			&contact.UserID,
			&contact.DisplayName,
			&contact.Email,
			&contact.Phone,
			&contact.Company,
			&contact.Role,
			&contact.Archived,
			&contact.CreatedTs,
			&contact.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan contact")
		}
		list = append(list, &contact)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) UpdateContact(ctx context.Context, update *store.UpdateContact) (*store.Contact, error) {
	set, args := []string{}, []any{}

	if v := update.DisplayName; v != nil {
		set, args = append(set, "display_name = ?"), append(args, *v)
	}
	if v := update.Email; v != nil {
		set, args = append(set, "email = ?"), append(args, *v)
	}
	if v := update.Phone; v != nil {
		set, args = append(set, "phone = ?"), append(args, *v)
	}
	if v := update.Company; v != nil {
		set, args = append(set, "company = ?"), append(args, *v)
	}
	if v := update.Role; v != nil {
		set, args = append(set, "role = ?"), append(args, *v)
	}
	if v := update.Archived; v != nil {
		set, args = append(set, "archived = ?"), append(args, *v)
	}
	set, args = append(set, "updated_ts = ?"), append(args, time.Now().Unix())
	args = append(args, update.ID, update.UserID)

	stmt := `
		UPDATE contact
		SET ` + strings.Join(set, ", ") + `
		WHERE id = ? AND user_id = ?
		RETURNING id, uid, user_id, display_name, email, phone, company, role, archived, created_ts, updated_ts
	`
	var contact store.Contact
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&contact.ID,
		&contact.UID,
		&contact.UserID,
		&contact.DisplayName,
		&contact.Email,
		&contact.Phone,
		&contact.Company,
		&contact.Role,
		&contact.Archived,
		&contact.CreatedTs,
		&contact.UpdatedTs,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoData
		}
		return nil, errors.Wrap(err, "failed to update contact")
	}
	return &contact, nil
}

func (d *DB) DeleteContact(ctx context.Context, delete *store.DeleteContact) error {
	stmt := `DELETE FROM contact WHERE id = ? AND user_id = ?`
	if _, err := d.db.ExecContext(ctx, stmt, delete.ID, delete.UserID); err != nil {
		return errors.Wrap(err, "failed to delete contact")
	}
	return nil
}
