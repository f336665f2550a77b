package postgres

import (
	"context"

	"github.com/bovinemagnet/pg-console/internal/schema"
)

func (i *introspector) loadConstraints(ctx context.Context, t *schema.Table) error {
	rows, err := i.pool.Query(ctx, `
		SELECT con.conname,
		       con.contype::text,
		       pg_get_constraintdef(con.oid),
		       ARRAY(
		           SELECT a.attname
		           FROM unnest(con.conkey) WITH ORDINALITY AS k(attnum, ord)
		           JOIN pg_attribute a ON a.attrelid = con.conrelid AND a.attnum = k.attnum
		           ORDER BY k.ord
		       ),
		       COALESCE(rn.nspname, ''),
		       COALESCE(rc.relname, ''),
		       ARRAY(
		           SELECT a.attname
		           FROM unnest(con.confkey) WITH ORDINALITY AS k(attnum, ord)
		           JOIN pg_attribute a ON a.attrelid = con.confrelid AND a.attnum = k.attnum
		           ORDER BY k.ord
		       ),
		       con.confdeltype::text,
		       con.confupdtype::text,
		       con.condeferrable,
		       con.condeferred,
		       con.connoinherit
		FROM pg_constraint con
		JOIN pg_class c ON c.oid = con.conrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		LEFT JOIN pg_class rc ON rc.oid = con.confrelid
		LEFT JOIN pg_namespace rn ON rn.oid = rc.relnamespace
		WHERE n.nspname = $1 AND c.relname = $2
		  AND con.contype IN ('p', 'f', 'u', 'c')
		ORDER BY con.conname
	`, t.Schema, t.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name, ctype, def          string
			cols, refCols             []string
			refSchema, refTable       string
			delCode, updCode          string
			deferrable, deferred      bool
			noInherit                 bool
		)
		if err := rows.Scan(
			&name, &ctype, &def, &cols,
			&refSchema, &refTable, &refCols,
			&delCode, &updCode, &deferrable, &deferred, &noInherit,
		); err != nil {
			return err
		}

		switch ctype {
		case "p":
			t.PrimaryKey = &schema.PrimaryKey{Name: name, Columns: cols}
		case "f":
			t.ForeignKeys = append(t.ForeignKeys, &schema.ForeignKey{
				Name:              name,
				Columns:           cols,
				RefSchema:         refSchema,
				RefTable:          refTable,
				RefColumns:        refCols,
				OnDelete:          decodeRefAction(delCode),
				OnUpdate:          decodeRefAction(updCode),
				Deferrable:        deferrable,
				InitiallyDeferred: deferred,
			})
		case "u":
			t.UniqueConstraints = append(t.UniqueConstraints, &schema.UniqueConstraint{
				Name:    name,
				Columns: cols,
			})
		case "c":
			t.CheckConstraints = append(t.CheckConstraints, &schema.CheckConstraint{
				Name:       name,
				Expression: parseCheckExpression(def),
				NoInherit:  noInherit,
			})
		}
	}
	return rows.Err()
}
