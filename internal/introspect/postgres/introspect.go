// Package postgres implements catalog introspection for PostgreSQL. It
// reads pg_catalog into the snapshot model, preserving expression text
// exactly as the server reports it; whitespace normalisation is the
// comparator's job, not the introspector's.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/bovinemagnet/pg-console/internal/introspect"
	"github.com/bovinemagnet/pg-console/internal/schema"
)

type introspector struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

// New returns an Introspector backed by the given pool. The logger may
// be nil.
func New(pool *pgxpool.Pool, log *zap.Logger) introspect.Introspector {
	if log == nil {
		log = zap.NewNop()
	}
	return &introspector{pool: pool, log: log}
}

// Snapshot captures the named schema: tables with their columns,
// constraints, indexes and triggers, plus the schema's sequences. The
// returned snapshot is sorted into canonical order and validated.
func (i *introspector) Snapshot(ctx context.Context, schemaName string) (*schema.Schema, error) {
	var exists bool
	err := i.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_namespace WHERE nspname = $1)`,
		schemaName).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("introspect schema %q: %w", schemaName, err)
	}
	if !exists {
		return nil, fmt.Errorf("introspect schema %q: schema does not exist", schemaName)
	}

	s := &schema.Schema{Name: schemaName}

	if err := i.loadTables(ctx, s); err != nil {
		return nil, fmt.Errorf("introspect schema %q: %w", schemaName, err)
	}

	for _, t := range s.Tables {
		if err := i.loadColumns(ctx, t); err != nil {
			return nil, fmt.Errorf("introspect table %q: %w", t.QualifiedName(), err)
		}
		if err := i.loadConstraints(ctx, t); err != nil {
			return nil, fmt.Errorf("introspect table %q: %w", t.QualifiedName(), err)
		}
		if err := i.loadIndexes(ctx, t); err != nil {
			return nil, fmt.Errorf("introspect table %q: %w", t.QualifiedName(), err)
		}
		if err := i.loadTriggers(ctx, t); err != nil {
			return nil, fmt.Errorf("introspect table %q: %w", t.QualifiedName(), err)
		}
	}

	if err := i.loadSequences(ctx, s); err != nil {
		return nil, fmt.Errorf("introspect schema %q: %w", schemaName, err)
	}

	s.Sort()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("introspect schema %q: invalid snapshot: %w", schemaName, err)
	}

	i.log.Debug("snapshot captured",
		zap.String("schema", schemaName),
		zap.Int("tables", len(s.Tables)),
		zap.Int("sequences", len(s.Sequences)))

	return s, nil
}

func (i *introspector) loadTables(ctx context.Context, s *schema.Schema) error {
	rows, err := i.pool.Query(ctx, `
		SELECT c.relname,
		       pg_get_userbyid(c.relowner),
		       COALESCE(obj_description(c.oid, 'pg_class'), ''),
		       COALESCE(ts.spcname, ''),
		       c.relkind = 'p',
		       CASE pt.partstrat
		            WHEN 'r' THEN 'RANGE'
		            WHEN 'l' THEN 'LIST'
		            WHEN 'h' THEN 'HASH'
		            ELSE ''
		       END,
		       COALESCE(pg_get_partkeydef(c.oid), ''),
		       c.relispartition,
		       c.relrowsecurity
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		LEFT JOIN pg_tablespace ts ON ts.oid = c.reltablespace
		LEFT JOIN pg_partitioned_table pt ON pt.partrelid = c.oid
		WHERE n.nspname = $1 AND c.relkind IN ('r', 'p')
		ORDER BY c.relname
	`, s.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		t := &schema.Table{Schema: s.Name}
		if err := rows.Scan(
			&t.Name, &t.Owner, &t.Comment, &t.Tablespace,
			&t.IsPartitioned, &t.PartitionStrategy, &t.PartitionKey,
			&t.IsPartition, &t.RowSecurity,
		); err != nil {
			return err
		}
		s.Tables = append(s.Tables, t)
	}
	return rows.Err()
}
