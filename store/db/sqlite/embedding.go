package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/amberhq/amber/store"
)

// UpsertEmbedding inserts or updates the embedding row for one owner.
// Vectors are stored as little-endian float32 BLOBs; a nil vector is stored
// as NULL so the row can be registered before its vector is computed.
func (d *DB) UpsertEmbedding(ctx context.Context, upsert *store.Embedding) (*store.Embedding, error) {
	var vectorBLOB []byte
	if upsert.Embedding != nil {
		vectorBLOB = float32ArrayToBLOB(upsert.Embedding)
	}

	now := time.Now().Unix()
	stmt := `
		INSERT INTO embedding (user_id, owner_type, owner_id, model, content_hash, embedding, created_ts, updated_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, owner_type, owner_id, model) DO UPDATE SET
			content_hash = excluded.content_hash,
			embedding = excluded.embedding,
			updated_ts = excluded.updated_ts
		RETURNING id, created_ts, updated_ts
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.UserID,
		upsert.OwnerType,
		upsert.OwnerID,
		upsert.Model,
		upsert.ContentHash,
		vectorBLOB,
		now,
		now,
	).Scan(&upsert.ID, &upsert.CreatedTs, &upsert.UpdatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to upsert embedding")
	}
	return upsert, nil
}

// ListEmbeddings lists embedding rows, newest first. Rows whose BLOB cannot
// be decoded are returned with a nil vector rather than failing the scan.
func (d *DB) ListEmbeddings(ctx context.Context, find *store.FindEmbedding) ([]*store.Embedding, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.UserID != nil {
		where, args = append(where, "user_id = ?"), append(args, *find.UserID)
	}
	if find.OwnerType != nil {
		where, args = append(where, "owner_type = ?"), append(args, *find.OwnerType)
	}
	if find.OwnerID != nil {
		where, args = append(where, "owner_id = ?"), append(args, *find.OwnerID)
	}
	if find.Model != nil {
		where, args = append(where, "model = ?"), append(args, *find.Model)
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
		var vectorBLOB []byte
		if err := rows.Scan(
			&embedding.ID,
			&embedding.UserID,
			&embedding.OwnerType,
			&embedding.OwnerID,
			&embedding.Model,
			&embedding.ContentHash,
			&vectorBLOB,
			&embedding.CreatedTs,
			&embedding.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan embedding")
		}

		if vectorBLOB != nil {
			vec, err := blobToFloat32Array(vectorBLOB)
			if err != nil {
				slog.Warn("failed to decode embedding BLOB", "owner_type", embedding.OwnerType, "owner_id", embedding.OwnerID, "error", err)
			} else {
				embedding.Embedding = vec
			}
		}

		list = append(list, &embedding)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) DeleteEmbedding(ctx context.Context, delete *store.DeleteEmbedding) error {
	stmt := `DELETE FROM embedding WHERE user_id = ? AND owner_type = ? AND owner_id = ?`
	if _, err := d.db.ExecContext(ctx, stmt, delete.UserID, delete.OwnerType, delete.OwnerID); err != nil {
		return errors.Wrap(err, "failed to delete embedding")
	}
	return nil
}
