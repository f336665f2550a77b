package postgres

import (
	"context"

	"github.com/bovinemagnet/pg-console/internal/schema"
)

func (i *introspector) loadSequences(ctx context.Context, s *schema.Schema) error {
	rows, err := i.pool.Query(ctx, `
		SELECT sc.relname,
		       format_type(sq.seqtypid, NULL),
		       sq.seqstart,
		       sq.seqincrement,
		       sq.seqmin,
		       sq.seqmax,
		       sq.seqcache,
		       sq.seqcycle,
		       COALESCE(oc.relname, ''),
		       COALESCE(oa.attname, '')
		FROM pg_sequence sq
		JOIN pg_class sc ON sc.oid = sq.seqrelid
		JOIN pg_namespace sn ON sn.oid = sc.relnamespace
		LEFT JOIN pg_depend d ON d.objid = sq.seqrelid
		     AND d.classid = 'pg_class'::regclass
		     AND d.refclassid = 'pg_class'::regclass
		     AND d.deptype IN ('a', 'i')
		LEFT JOIN pg_class oc ON oc.oid = d.refobjid
		LEFT JOIN pg_attribute oa ON oa.attrelid = d.refobjid AND oa.attnum = d.refobjsubid
		WHERE sn.nspname = $1
		ORDER BY sc.relname
	`, s.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		seq := &schema.Sequence{Schema: s.Name}
		if err := rows.Scan(
			&seq.Name, &seq.DataType,
			&seq.Start, &seq.Increment, &seq.Min, &seq.Max,
			&seq.Cache, &seq.Cycle,
			&seq.OwnedByTable, &seq.OwnedByColumn,
		); err != nil {
			return err
		}
		s.Sequences = append(s.Sequences, seq)
	}
	return rows.Err()
}
