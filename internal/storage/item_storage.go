package storage

import (
	"context"
	"database/sql"
	"time"

	"ItemList/internal/metrics"
	"ItemList/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrItemNotFound = errors.New("item not found")

// SQLite에는 시간을 문자열로 저장 (RFC 3339, 나노초, UTC)
const timestampLayout = time.RFC3339Nano

// Insert persists item and republishes the collection. A missing ID or
// timestamp is filled in; the returned item is exactly what was stored.
func (s *Store) Insert(ctx context.Context, item models.Item) (models.Item, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Timestamp.IsZero() {
		item.Timestamp = time.Now()
	}
	item.Timestamp = item.Timestamp.UTC().Round(0)

	stmt, err := s.db.PrepareContext(ctx, "INSERT INTO items(id, timestamp) VALUES(?, ?)")
	if err != nil {
		return models.Item{}, errors.WithStack(err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, item.ID, item.Timestamp.Format(timestampLayout)); err != nil {
		return models.Item{}, errors.Wrapf(err, "failed to insert item %s", item.ID)
	}
	metrics.ItemsInserted.Inc()

	s.publish(ctx)
	return item, nil
}

// Delete removes the items with the given ids. Unknown ids are ignored.
func (s *Store) Delete(ctx context.Context, ids ...string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	defer tx.Rollback()

	deleted, err := deleteIDs(ctx, tx, ids)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, errors.WithStack(err)
	}

	s.afterDelete(ctx, deleted)
	return deleted, nil
}

// DeleteAt removes the items found at the given list positions, resolved
// against the current order. Out of range offsets are ignored.
func (s *Store) DeleteAt(ctx context.Context, offsets ...int) (int, error) {
	if len(offsets) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, "SELECT id FROM items ORDER BY seq ASC")
	if err != nil {
		return 0, errors.WithStack(err)
	}
	var ordered []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, errors.WithStack(err)
		}
		ordered = append(ordered, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, errors.WithStack(err)
	}
	rows.Close()

	ids := make([]string, 0, len(offsets))
	for _, offset := range offsets {
		if offset < 0 || offset >= len(ordered) {
			continue
		}
		ids = append(ids, ordered[offset])
	}

	deleted, err := deleteIDs(ctx, tx, ids)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, errors.WithStack(err)
	}

	s.afterDelete(ctx, deleted)
	return deleted, nil
}

func deleteIDs(ctx context.Context, tx *sql.Tx, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	stmt, err := tx.PrepareContext(ctx, "DELETE FROM items WHERE id = ?")
	if err != nil {
		return 0, errors.WithStack(err)
	}
	defer stmt.Close()

	deleted := 0
	for _, id := range ids {
		res, err := stmt.ExecContext(ctx, id)
		if err != nil {
			return 0, errors.Wrapf(err, "failed to delete item %s", id)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, errors.WithStack(err)
		}
		deleted += int(n)
	}
	return deleted, nil
}

func (s *Store) afterDelete(ctx context.Context, deleted int) {
	if deleted == 0 {
		return
	}
	metrics.ItemsDeleted.Add(float64(deleted))
	s.publish(ctx)
}

// All returns every item in insertion order.
func (s *Store) All(ctx context.Context) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, timestamp FROM items ORDER BY seq ASC")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	items := make([]models.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return items, nil
}

func (s *Store) Get(ctx context.Context, id string) (models.Item, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, timestamp FROM items WHERE id = ?", id)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Item{}, ErrItemNotFound
		}
		return models.Item{}, err
	}
	return item, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&count); err != nil {
		return 0, errors.WithStack(err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (models.Item, error) {
	var item models.Item
	var timestampStr string

	if err := row.Scan(&item.ID, &timestampStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return item, err
		}
		return item, errors.WithStack(err)
	}

	parsed, err := time.Parse(timestampLayout, timestampStr)
	if err != nil {
		return item, errors.Wrapf(err, "invalid timestamp for item %s", item.ID)
	}
	item.Timestamp = parsed
	return item, nil
}
