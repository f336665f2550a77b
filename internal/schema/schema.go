// Package schema contains the snapshot model for a PostgreSQL schema.
// It provides a structured, read-only representation of tables, columns,
// constraints, indexes, triggers, and sequences as captured at one point
// in time by the introspection layer. The comparison engine treats these
// values as immutable.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Schema is the root of one snapshot: all tables and free-standing
// sequences of a single PostgreSQL schema namespace.
type Schema struct {
	Name      string      `json:"name"`
	Tables    []*Table    `json:"tables"`
	Sequences []*Sequence `json:"sequences,omitempty"`
}

// Table represents one table of the snapshot, identified by
// (schema name, table name).
type Table struct {
	Schema     string `json:"schema"`
	Name       string `json:"name"`
	Owner      string `json:"owner,omitempty"`
	Comment    string `json:"comment,omitempty"`
	Tablespace string `json:"tablespace,omitempty"`

	IsPartitioned     bool   `json:"isPartitioned,omitempty"`
	PartitionStrategy string `json:"partitionStrategy,omitempty"`
	PartitionKey      string `json:"partitionKey,omitempty"`
	IsPartition       bool   `json:"isPartition,omitempty"`

	// RowSecurity reports whether row-level security is enabled.
	RowSecurity bool `json:"rowSecurity,omitempty"`

	Columns           []*Column           `json:"columns"`
	PrimaryKey        *PrimaryKey         `json:"primaryKey,omitempty"`
	ForeignKeys       []*ForeignKey       `json:"foreignKeys,omitempty"`
	UniqueConstraints []*UniqueConstraint `json:"uniqueConstraints,omitempty"`
	CheckConstraints  []*CheckConstraint  `json:"checkConstraints,omitempty"`
	Indexes           []*Index            `json:"indexes,omitempty"`
	Triggers          []*Trigger          `json:"triggers,omitempty"`
}

// Column represents a single column inside a table. Columns are unique
// by name within their table.
type Column struct {
	Name     string  `json:"name"`
	DataType string  `json:"dataType"`
	Nullable bool    `json:"nullable"`
	Default  *string `json:"default,omitempty"`

	// Identity marks GENERATED ... AS IDENTITY columns; IdentityType is
	// "ALWAYS" or "BY DEFAULT".
	Identity     bool   `json:"identity,omitempty"`
	IdentityType string `json:"identityType,omitempty"`

	Generated            bool   `json:"generated,omitempty"`
	GenerationExpression string `json:"generationExpression,omitempty"`

	Collation string `json:"collation,omitempty"`
	Position  int    `json:"position"`
	Comment   string `json:"comment,omitempty"`
}

// PrimaryKey represents the primary-key constraint of a table. A table
// has at most one.
type PrimaryKey struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// ForeignKey represents a FOREIGN KEY constraint, identified by its
// constraint name.
type ForeignKey struct {
	Name       string   `json:"name"`
	Columns    []string `json:"columns"`
	RefSchema  string   `json:"refSchema,omitempty"`
	RefTable   string   `json:"refTable"`
	RefColumns []string `json:"refColumns"`

	OnDelete string `json:"onDelete,omitempty"`
	OnUpdate string `json:"onUpdate,omitempty"`

	Deferrable        bool `json:"deferrable,omitempty"`
	InitiallyDeferred bool `json:"initiallyDeferred,omitempty"`
}

// UniqueConstraint represents a UNIQUE constraint, identified by its
// constraint name.
type UniqueConstraint struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// CheckConstraint represents a CHECK constraint, identified by its
// constraint name. Expression holds the boolean expression text exactly
// as reported by the catalog; whitespace normalisation happens in the
// comparator, not here.
type CheckConstraint struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
	NoInherit  bool   `json:"noInherit,omitempty"`
}

// Index represents an index on a table, identified by its index name.
type Index struct {
	Name    string   `json:"name"`
	Type    string   `json:"type,omitempty"` // btree, hash, gin, gist, brin, spgist
	Columns []string `json:"columns"`
	Include []string `json:"include,omitempty"`
	Unique  bool     `json:"unique,omitempty"`
	Primary bool     `json:"primary,omitempty"`

	// Where is the partial-index predicate, empty for full indexes.
	Where string `json:"where,omitempty"`

	// Definition is the full CREATE INDEX statement from pg_indexes,
	// kept for expression indexes whose column list alone is lossy.
	Definition string `json:"definition,omitempty"`

	Tablespace string `json:"tablespace,omitempty"`
}

// Trigger represents a trigger on a table, identified by its trigger name.
type Trigger struct {
	Name   string   `json:"name"`
	Timing string   `json:"timing"` // BEFORE, AFTER, INSTEAD OF
	Events []string `json:"events"` // INSERT, UPDATE, DELETE, TRUNCATE
	Level  string   `json:"level"`  // ROW or STATEMENT

	FunctionSchema string `json:"functionSchema,omitempty"`
	FunctionName   string `json:"functionName"`

	// When is the optional WHEN condition, empty when absent.
	When    string `json:"when,omitempty"`
	Enabled bool   `json:"enabled"`
}

// Sequence represents a free-standing sequence, identified by
// (schema name, sequence name).
type Sequence struct {
	Schema   string `json:"schema"`
	Name     string `json:"name"`
	DataType string `json:"dataType"`

	Start     int64 `json:"start"`
	Increment int64 `json:"increment"`
	Min       int64 `json:"min"`
	Max       int64 `json:"max"`
	Cache     int64 `json:"cache"`
	Cycle     bool  `json:"cycle,omitempty"`

	// OwnedByTable/OwnedByColumn record the OWNED BY pair for sequences
	// backing serial or identity columns; both empty otherwise.
	OwnedByTable  string `json:"ownedByTable,omitempty"`
	OwnedByColumn string `json:"ownedByColumn,omitempty"`
}

// GetName methods allow these types to be used with the generic Named interface.
func (t *Table) GetName() string            { return t.Name }
func (c *Column) GetName() string           { return c.Name }
func (fk *ForeignKey) GetName() string      { return fk.Name }
func (u *UniqueConstraint) GetName() string { return u.Name }
func (c *CheckConstraint) GetName() string  { return c.Name }
func (i *Index) GetName() string            { return i.Name }
func (tr *Trigger) GetName() string         { return tr.Name }
func (s *Sequence) GetName() string         { return s.Name }

// QualifiedName returns the schema-qualified table name, e.g. "public.users".
func (t *Table) QualifiedName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// QualifiedName returns the schema-qualified sequence name.
func (s *Sequence) QualifiedName() string {
	if s.Schema == "" {
		return s.Name
	}
	return s.Schema + "." + s.Name
}

// FunctionRef returns the schema-qualified trigger function reference.
func (tr *Trigger) FunctionRef() string {
	if tr.FunctionSchema == "" {
		return tr.FunctionName
	}
	return tr.FunctionSchema + "." + tr.FunctionName
}

// FindTable looks for a table by name inside a schema snapshot.
func (s *Schema) FindTable(name string) *Table {
	for _, t := range s.Tables {
		if strings.EqualFold(t.Name, name) {
			return t
		}
	}
	return nil
}

// FindSequence looks for a sequence by name inside a schema snapshot.
func (s *Schema) FindSequence(name string) *Sequence {
	for _, seq := range s.Sequences {
		if strings.EqualFold(seq.Name, name) {
			return seq
		}
	}
	return nil
}

// FindColumn looks for a column by name inside a table.
func (t *Table) FindColumn(name string) *Column {
	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// FindIndex looks for an index by name inside a table.
func (t *Table) FindIndex(name string) *Index {
	for _, i := range t.Indexes {
		if strings.EqualFold(i.Name, name) {
			return i
		}
	}
	return nil
}

// FindTrigger looks for a trigger by name inside a table.
func (t *Table) FindTrigger(name string) *Trigger {
	for _, tr := range t.Triggers {
		if strings.EqualFold(tr.Name, name) {
			return tr
		}
	}
	return nil
}

// Sort puts the snapshot into canonical traversal order: tables by
// schema then name, columns by ordinal position, every named
// sub-collection by name, sequences by name. Comparison output order
// depends on this, so the introspector calls it once per snapshot.
func (s *Schema) Sort() {
	sort.Slice(s.Tables, func(i, j int) bool {
		a, b := s.Tables[i], s.Tables[j]
		if !strings.EqualFold(a.Schema, b.Schema) {
			return strings.ToLower(a.Schema) < strings.ToLower(b.Schema)
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	for _, t := range s.Tables {
		t.Sort()
	}
	sortNamed(s.Sequences)
}

// Sort puts a table's sub-collections into canonical order.
func (t *Table) Sort() {
	sort.Slice(t.Columns, func(i, j int) bool {
		return t.Columns[i].Position < t.Columns[j].Position
	})
	sortNamed(t.ForeignKeys)
	sortNamed(t.UniqueConstraints)
	sortNamed(t.CheckConstraints)
	sortNamed(t.Indexes)
	sortNamed(t.Triggers)
}

// Named is implemented by types that have a name identifier.
// This interface enables type-safe sorting and mapping operations.
type Named interface {
	GetName() string
}

// sortNamed sorts a slice of Named items by name (case-insensitive).
func sortNamed[T Named](items []T) {
	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i].GetName()) < strings.ToLower(items[j].GetName())
	})
}

// String returns a short description of a table with object counts.
func (t *Table) String() string {
	return fmt.Sprintf("Table: %s (%d cols, %d indexes, %d triggers)",
		t.QualifiedName(), len(t.Columns), len(t.Indexes), len(t.Triggers))
}
