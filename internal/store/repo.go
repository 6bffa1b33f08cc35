package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Tariqve/mashd/internal/knot"
)

const stateSelected = "selected_knot"

// KnotRepo persists knots in insertion order.
type KnotRepo struct {
	db *sql.DB
}

func NewKnotRepo(db *sql.DB) *KnotRepo { return &KnotRepo{db: db} }

func (r *KnotRepo) List(ctx context.Context) ([]knot.Knot, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, name, code, created_at, updated_at
	FROM knots ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []knot.Knot
	for rows.Next() {
		var k knot.Knot
		if err := rows.Scan(&k.ID, &k.Name, &k.Code, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func (r *KnotRepo) Insert(ctx context.Context, k knot.Knot) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO knots(id, name, code, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		k.ID, k.Name, k.Code, k.CreatedAt, k.UpdatedAt)
	return err
}

// Update rewrites name and code. It reports whether a row matched.
func (r *KnotRepo) Update(ctx context.Context, k knot.Knot) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
	UPDATE knots SET name = ?, code = ?, updated_at = ? WHERE id = ?`,
		k.Name, k.Code, k.UpdatedAt, k.ID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Delete removes a knot and, in the same transaction, a selection that
// pointed at it. It reports whether a row matched.
func (r *KnotRepo) Delete(ctx context.Context, id string) (bool, error) {
	var found bool
	err := WithTx(r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM knots WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		found = n > 0
		_, err = tx.ExecContext(ctx, `DELETE FROM state WHERE key = ? AND value = ?`, stateSelected, id)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("delete knot: %w", err)
	}
	return found, nil
}

func (r *KnotRepo) GetState(ctx context.Context, key string) (string, error) {
	var v string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM state WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return v, err
}

// SetState upserts key; an empty value deletes it.
func (r *KnotRepo) SetState(ctx context.Context, key, value string) error {
	if value == "" {
		_, err := r.db.ExecContext(ctx, `DELETE FROM state WHERE key = ?`, key)
		return err
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO state(key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value=excluded.value;
	`, key, value)
	return err
}
