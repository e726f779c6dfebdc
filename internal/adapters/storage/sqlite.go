package storage

// sqlite.go: caché de órdenes en un fichero SQLite.
//
// Dos tablas planas:
//   - `fetches`: una fila por type id con el instante de la descarga.
//   - `orders`: las órdenes de esa descarga. Put reemplaza todas las del type.
//
// Prune automático al abrir: se borran las descargas de hace más de un día.
// Prune borra todo lo caducado según el TTL.

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/oreplan/internal/domain"
	"github.com/alejandrodnm/oreplan/internal/ports"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS fetches (
    type_id    INTEGER PRIMARY KEY,
    fetched_at INTEGER NOT NULL -- unix ms
);

CREATE TABLE IF NOT EXISTS orders (
    type_id       INTEGER NOT NULL,
    order_id      INTEGER NOT NULL DEFAULT 0,
    location_id   INTEGER NOT NULL DEFAULT 0,
    volume_remain REAL    NOT NULL,
    price         REAL    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_type   ON orders(type_id);
CREATE INDEX IF NOT EXISTS idx_fetches_at    ON fetches(fetched_at);
`

const retention = 24 * time.Hour

// SQLiteCache implementa ports.OrderCache usando SQLite (pure Go, sin CGo).
type SQLiteCache struct {
	expiry
	db *sql.DB
}

var _ ports.OrderCache = (*SQLiteCache)(nil)

// NewSQLiteCache abre (o crea) la caché en la ruta dada, aplica el schema
// y elimina las entradas caducadas.
func NewSQLiteCache(path string, ttl time.Duration) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteCache: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteCache: apply schema: %w", err)
	}

	c := &SQLiteCache{expiry: newExpiry(ttl), db: db}
	n, err := c.pruneBefore(context.Background(), c.now().Add(-max(c.ttl, retention)))
	if err != nil {
		db.Close()
		return nil, err
	}
	if n > 0 {
		slog.Debug("order cache pruned on open", "path", path, "removed", n)
	}
	return c, nil
}

// Get devuelve las órdenes guardadas de un type id.
func (c *SQLiteCache) Get(ctx context.Context, typeID int) (ports.CachedOrders, bool, error) {
	entry := ports.CachedOrders{TypeID: typeID}

	var fetchedMs int64
	err := c.db.QueryRowContext(ctx,
		`SELECT fetched_at FROM fetches WHERE type_id = ?`, typeID,
	).Scan(&fetchedMs)
	if err == sql.ErrNoRows {
		return entry, false, nil
	}
	if err != nil {
		return entry, false, fmt.Errorf("storage.Get: type %d: %w", typeID, err)
	}
	entry.FetchedAt = time.UnixMilli(fetchedMs).UTC()

	rows, err := c.db.QueryContext(ctx,
		`SELECT order_id, location_id, volume_remain, price FROM orders WHERE type_id = ? ORDER BY rowid`,
		typeID,
	)
	if err != nil {
		return entry, false, fmt.Errorf("storage.Get: query orders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		o := domain.Order{TypeID: typeID}
		if err := rows.Scan(&o.OrderID, &o.LocationID, &o.VolumeRemain, &o.Price); err != nil {
			return entry, false, fmt.Errorf("storage.Get: scan: %w", err)
		}
		entry.Orders = append(entry.Orders, o)
	}
	if err := rows.Err(); err != nil {
		return entry, false, fmt.Errorf("storage.Get: rows: %w", err)
	}
	return entry, true, nil
}

// Put reemplaza las órdenes guardadas de entry.TypeID en una transacción.
func (c *SQLiteCache) Put(ctx context.Context, entry ports.CachedOrders) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.Put: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE type_id = ?`, entry.TypeID); err != nil {
		return fmt.Errorf("storage.Put: delete orders: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO fetches (type_id, fetched_at) VALUES (?, ?)
		 ON CONFLICT(type_id) DO UPDATE SET fetched_at = excluded.fetched_at`,
		entry.TypeID, entry.FetchedAt.UnixMilli(),
	); err != nil {
		return fmt.Errorf("storage.Put: upsert fetch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO orders (type_id, order_id, location_id, volume_remain, price) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("storage.Put: prepare: %w", err)
	}
	defer stmt.Close()

	for _, o := range entry.Orders {
		if _, err := stmt.ExecContext(ctx, entry.TypeID, o.OrderID, o.LocationID, o.VolumeRemain, o.Price); err != nil {
			return fmt.Errorf("storage.Put: insert order %d: %w", o.OrderID, err)
		}
	}
	return tx.Commit()
}

// Prune elimina las descargas caducadas y sus órdenes. Devuelve cuántos
// type ids se borraron.
func (c *SQLiteCache) Prune(ctx context.Context) (int64, error) {
	return c.pruneBefore(ctx, c.now().Add(-c.ttl))
}

func (c *SQLiteCache) pruneBefore(ctx context.Context, before time.Time) (int64, error) {
	cutoff := before.UnixMilli()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("storage.Prune: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM orders WHERE type_id IN (SELECT type_id FROM fetches WHERE fetched_at <= ?)`, cutoff,
	); err != nil {
		return 0, fmt.Errorf("storage.Prune: delete orders: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM fetches WHERE fetched_at <= ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("storage.Prune: delete fetches: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, tx.Commit()
}

// Close cierra la conexión a la base de datos.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
