package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/amberhq/amber/store"
)

// UpsertEmbedding inserts or updates the embedding row for one owner.
// Vectors use the pgvector column type; a nil vector is stored as NULL so
// the row can be registered before its vector is computed.
func (d *DB) UpsertEmbedding(ctx context.Context, upsert *store.Embedding) (*store.Embedding, error) {
	var vector any
	if upsert.Embedding != nil {
		vector = pgvector.NewVector(upsert.Embedding)
	}

	now := time.Now().Unix()
	stmt := `
		INSERT INTO embedding (user_id, owner_type, owner_id, model, content_hash, embedding, created_ts, updated_ts)
		VALUES (` + placeholders(8) + `)
		ON CONFLICT (user_id, owner_type, owner_id, model) DO UPDATE SET
			content_hash = EXCLUDED.content_hash,
			embedding = EXCLUDED.embedding,
			updated_ts = EXCLUDED.updated_ts
		RETURNING id, created_ts, updated_ts
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.UserID,
		upsert.OwnerType,
		upsert.OwnerID,
		upsert.Model,
		upsert.ContentHash,
		vector,
		now,
		now,
	).Scan(&upsert.ID, &upsert.CreatedTs, &upsert.UpdatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to upsert embedding")
	}
	return upsert, nil
}

func (d *DB) ListEmbeddings(ctx context.Context, find *store.FindEmbedding) ([]*store.Embedding, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.UserID != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *find.UserID)
	}
	if find.OwnerType != nil {
		where, args = append(where, "owner_type = "+placeholder(len(args)+1)), append(args, *find.OwnerType)
	}
	if find.OwnerID != nil {
		where, args = append(where, "owner_id = "+placeholder(len(args)+1)), append(args, *find.OwnerID)
	}
	if find.Model != nil {
		where, args = append(where, "model = "+placeholder(len(args)+1)), append(args, *find.Model)
	}

	query := `
		SELECT id, user_id, owner_type, owner_id, model, content_hash, embedding, created_ts, updated_ts
		FROM embedding
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
		return nil, errors.Wrap(err, "failed to list embeddings")
	}
	defer rows.Close()

	list := []*store.Embedding{}
	for rows.Next() {
		var embedding store.Embedding
		var vector sql.Null[pgvector.Vector]
		if err := rows.Scan(
			&embedding.ID,
			&embedding.UserID,
			&embedding.OwnerType,
			&embedding.OwnerID,
			&embedding.Model,
			&embedding.ContentHash,
			&vector,
			&embedding.CreatedTs,
			&embedding.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan embedding")
		}

		if vector.Valid {
			embedding.Embedding = vector.V.Slice()
		}

		list = append(list, &embedding)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) DeleteEmbedding(ctx context.Context, delete *store.DeleteEmbedding) error {
	stmt := `DELETE FROM embedding WHERE user_id = $1 AND owner_type = $2 AND owner_id = $3`
	if _, err := d.db.ExecContext(ctx, stmt, delete.UserID, delete.OwnerType, delete.OwnerID); err != nil {
		return errors.Wrap(err, "failed to delete embedding")
	}
	return nil
}
