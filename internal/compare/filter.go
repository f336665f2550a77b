package compare

import (
	"strings"

	"github.com/bovinemagnet/pg-console/internal/schema"
)

// Filter narrows which schemas and object categories participate in a
// comparison. The zero value compares everything. A filter is applied
// identically to both snapshots before matching, so excluded objects
// never surface as spurious missing/extra differences.
type Filter struct {
	// Schemas restricts comparison to the named schemas; empty means all.
	Schemas []string `json:"schemas,omitempty" toml:"schemas"`

	// ExcludeTables lists table names (bare or schema-qualified) to
	// leave out entirely.
	ExcludeTables []string `json:"excludeTables,omitempty" toml:"exclude_tables"`

	SkipTables    bool `json:"skipTables,omitempty" toml:"skip_tables"`
	SkipIndexes   bool `json:"skipIndexes,omitempty" toml:"skip_indexes"`
	SkipTriggers  bool `json:"skipTriggers,omitempty" toml:"skip_triggers"`
	SkipSequences bool `json:"skipSequences,omitempty" toml:"skip_sequences"`

	// SkipConstraints removes primary keys, foreign keys, unique and
	// check constraints from the comparison.
	SkipConstraints bool `json:"skipConstraints,omitempty" toml:"skip_constraints"`
}

// IncludesSchema reports whether objects of the named schema participate.
func (f Filter) IncludesSchema(name string) bool {
	if len(f.Schemas) == 0 {
		return true
	}
	for _, s := range f.Schemas {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

// IncludesTable reports whether the table participates in the comparison.
func (f Filter) IncludesTable(t *schema.Table) bool {
	if f.SkipTables || !f.IncludesSchema(t.Schema) {
		return false
	}
	for _, ex := range f.ExcludeTables {
		if strings.EqualFold(ex, t.Name) || strings.EqualFold(ex, t.QualifiedName()) {
			return false
		}
	}
	return true
}

// Apply returns a view of the snapshot restricted to the filter. The
// input snapshot is never mutated; tables that survive but lose object
// categories are shallow-copied.
func (f Filter) Apply(s *schema.Schema) *schema.Schema {
	if s == nil {
		return nil
	}

	out := &schema.Schema{Name: s.Name}

	for _, t := range s.Tables {
		if !f.IncludesTable(t) {
			continue
		}
		ft := *t
		if f.SkipConstraints {
			ft.PrimaryKey = nil
			ft.ForeignKeys = nil
			ft.UniqueConstraints = nil
			ft.CheckConstraints = nil
		}
		if f.SkipIndexes {
			ft.Indexes = nil
		}
		if f.SkipTriggers {
			ft.Triggers = nil
		}
		out.Tables = append(out.Tables, &ft)
	}

	if !f.SkipSequences {
		for _, seq := range s.Sequences {
			if f.IncludesSchema(seq.Schema) {
				out.Sequences = append(out.Sequences, seq)
			}
		}
	}

	return out
}
