package postgres

import (
	"context"

	"github.com/bovinemagnet/pg-console/internal/schema"
)

func (i *introspector) loadColumns(ctx context.Context, t *schema.Table) error {
	rows, err := i.pool.Query(ctx, `
		SELECT a.attname,
		       format_type(a.atttypid, a.atttypmod),
		       NOT a.attnotnull,
		       pg_get_expr(ad.adbin, ad.adrelid),
		       a.attidentity::text,
		       a.attgenerated::text,
		       COALESCE(col.collname, ''),
		       a.attnum,
		       COALESCE(col_description(a.attrelid, a.attnum), '')
		FROM pg_attribute a
		JOIN pg_class c ON c.oid = a.attrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		LEFT JOIN pg_attrdef ad ON ad.adrelid = a.attrelid AND ad.adnum = a.attnum
		LEFT JOIN pg_collation col ON col.oid = a.attcollation AND col.collname <> 'default'
		WHERE n.nspname = $1 AND c.relname = $2
		  AND a.attnum > 0 AND NOT a.attisdropped
		ORDER BY a.attnum
	`, t.Schema, t.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		col := &schema.Column{}
		var defExpr *string
		var identity, generated string
		if err := rows.Scan(
			&col.Name, &col.DataType, &col.Nullable, &defExpr,
			&identity, &generated, &col.Collation, &col.Position, &col.Comment,
		); err != nil {
			return err
		}

		col.Identity = identity != ""
		col.IdentityType = decodeIdentity(identity)

		// Generated columns store their expression where plain columns
		// store their default; never report it as both.
		if generated != "" {
			col.Generated = true
			if defExpr != nil {
				col.GenerationExpression = *defExpr
			}
		} else {
			col.Default = defExpr
		}

		t.Columns = append(t.Columns, col)
	}
	return rows.Err()
}
