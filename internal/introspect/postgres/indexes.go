package postgres

import (
	"context"

	"github.com/bovinemagnet/pg-console/internal/schema"
)

func (i *introspector) loadIndexes(ctx context.Context, t *schema.Table) error {
	rows, err := i.pool.Query(ctx, `
		SELECT ic.relname,
		       am.amname,
		       ix.indisunique,
		       ix.indisprimary,
		       COALESCE(pg_get_expr(ix.indpred, ix.indrelid), ''),
		       pg_get_indexdef(ix.indexrelid),
		       COALESCE(ts.spcname, ''),
		       ARRAY(
		           SELECT pg_get_indexdef(ix.indexrelid, g.i, true)
		           FROM generate_series(1, ix.indnkeyatts) AS g(i)
		       ),
		       ARRAY(
		           SELECT pg_get_indexdef(ix.indexrelid, g.i, true)
		           FROM generate_series(ix.indnkeyatts + 1, ix.indnatts) AS g(i)
		       )
		FROM pg_index ix
		JOIN pg_class ic ON ic.oid = ix.indexrelid
		JOIN pg_class c ON c.oid = ix.indrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		JOIN pg_am am ON am.oid = ic.relam
		LEFT JOIN pg_tablespace ts ON ts.oid = ic.reltablespace
		WHERE n.nspname = $1 AND c.relname = $2
		ORDER BY ic.relname
	`, t.Schema, t.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		idx := &schema.Index{}
		if err := rows.Scan(
			&idx.Name, &idx.Type, &idx.Unique, &idx.Primary,
			&idx.Where, &idx.Definition, &idx.Tablespace,
			&idx.Columns, &idx.Include,
		); err != nil {
			return err
		}
		t.Indexes = append(t.Indexes, idx)
	}
	return rows.Err()
}
