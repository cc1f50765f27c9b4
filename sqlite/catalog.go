package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/quantonganh/prefcenter"
)

type catalogService struct {
	db *DB
}

// NewCatalogService returns a catalog service backed by the local database.
func NewCatalogService(db *DB) prefcenter.CatalogService {
	return &catalogService{
		db: db,
	}
}

// Newsletters loads the full catalog. Languages are stored comma-separated;
// display_order is nullable so catalogs without explicit ordering fall back
// to title sorting.
func (cs *catalogService) Newsletters(ctx context.Context) (map[string]prefcenter.Newsletter, error) {
	rows, err := cs.db.sqlDB.QueryContext(ctx,
		"SELECT id, title, description, languages, show_new, display_order FROM newsletters")
	if err != nil {
		return nil, fmt.Errorf("failed to query newsletters: %w", err)
	}
	defer rows.Close()

	catalog := make(map[string]prefcenter.Newsletter)
	for rows.Next() {
		var (
			n     prefcenter.Newsletter
			langs string
			order sql.NullInt64
		)
		if err := rows.Scan(&n.ID, &n.Title, &n.Description, &langs, &n.Show, &order); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if langs != "" {
			n.Languages = strings.Split(langs, ",")
		}
		if order.Valid {
			o := int(order.Int64)
			n.Order = &o
		}
		catalog[n.ID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return catalog, nil
}

// Upsert inserts or replaces one newsletter row; used by operators seeding
// the local catalog.
func (cs *catalogService) Upsert(ctx context.Context, n prefcenter.Newsletter) error {
	var order interface{}
	if n.Order != nil {
		order = *n.Order
	}
	_, err := cs.db.sqlDB.ExecContext(ctx,
		`INSERT INTO newsletters (id, title, description, languages, show_new, display_order)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title = excluded.title,
		   description = excluded.description,
		   languages = excluded.languages,
		   show_new = excluded.show_new,
		   display_order = excluded.display_order`,
		n.ID, n.Title, n.Description, strings.Join(n.Languages, ","), n.Show, order)
	if err != nil {
		return fmt.Errorf("failed to upsert newsletter %s: %w", n.ID, err)
	}

	return nil
}
