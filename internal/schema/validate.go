package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Validate runs structural validation on a fully built snapshot. It is
// called by the introspector before a snapshot is handed to the
// comparison engine, so that catalog anomalies surface as introspection
// failures instead of nonsense differences. It returns the first
// problem encountered.
func (s *Schema) Validate() error {
	if s == nil {
		return errors.New("schema snapshot is nil")
	}
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("schema name is empty")
	}

	if err := s.validateTableUniqueness(); err != nil {
		return err
	}

	for _, t := range s.Tables {
		if err := t.validate(); err != nil {
			return fmt.Errorf("table %q: %w", t.QualifiedName(), err)
		}
	}

	seen := make(map[string]bool, len(s.Sequences))
	for _, seq := range s.Sequences {
		if strings.TrimSpace(seq.Name) == "" {
			return errors.New("sequence with empty name")
		}
		key := strings.ToLower(seq.Name)
		if seen[key] {
			return fmt.Errorf("duplicate sequence name %q", seq.Name)
		}
		seen[key] = true
	}

	return nil
}

func (s *Schema) validateTableUniqueness() error {
	seen := make(map[string]bool, len(s.Tables))
	for _, t := range s.Tables {
		if strings.TrimSpace(t.Name) == "" {
			return errors.New("table with empty name")
		}
		key := strings.ToLower(t.Schema + "." + t.Name)
		if seen[key] {
			return fmt.Errorf("duplicate table name %q", t.QualifiedName())
		}
		seen[key] = true
	}
	return nil
}

func (t *Table) validate() error {
	if len(t.Columns) == 0 {
		return errors.New("no columns")
	}

	cols := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return errors.New("column with empty name")
		}
		if strings.TrimSpace(c.DataType) == "" {
			return fmt.Errorf("column %q: data type is empty", c.Name)
		}
		key := strings.ToLower(c.Name)
		if cols[key] {
			return fmt.Errorf("duplicate column name %q", c.Name)
		}
		cols[key] = true
	}

	if t.PrimaryKey != nil {
		if err := t.validateColumnRefs("primary key "+t.PrimaryKey.Name, t.PrimaryKey.Columns, cols); err != nil {
			return err
		}
	}

	for _, fk := range t.ForeignKeys {
		if err := t.validateColumnRefs("foreign key "+fk.Name, fk.Columns, cols); err != nil {
			return err
		}
		if len(fk.Columns) != len(fk.RefColumns) {
			return fmt.Errorf("foreign key %q: %d local columns reference %d remote columns",
				fk.Name, len(fk.Columns), len(fk.RefColumns))
		}
		if strings.TrimSpace(fk.RefTable) == "" {
			return fmt.Errorf("foreign key %q: referenced table is empty", fk.Name)
		}
	}

	for _, u := range t.UniqueConstraints {
		if err := t.validateColumnRefs("unique constraint "+u.Name, u.Columns, cols); err != nil {
			return err
		}
	}

	if err := validateNamedUniqueness("index", namesOf(t.Indexes)); err != nil {
		return err
	}
	if err := validateNamedUniqueness("trigger", namesOf(t.Triggers)); err != nil {
		return err
	}

	return nil
}

func (t *Table) validateColumnRefs(owner string, refs []string, cols map[string]bool) error {
	if len(refs) == 0 {
		return fmt.Errorf("%s: empty column list", owner)
	}
	for _, ref := range refs {
		if !cols[strings.ToLower(ref)] {
			return fmt.Errorf("%s: unknown column %q", owner, ref)
		}
	}
	return nil
}

func validateNamedUniqueness(kind string, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			return fmt.Errorf("%s with empty name", kind)
		}
		key := strings.ToLower(n)
		if seen[key] {
			return fmt.Errorf("duplicate %s name %q", kind, n)
		}
		seen[key] = true
	}
	return nil
}

func namesOf[T Named](items []T) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.GetName()
	}
	return names
}
