package compare

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/bovinemagnet/pg-console/internal/schema"
)

// Compare runs the full comparison of two snapshots and returns a new
// result. The snapshots are read-only inputs; every traversal works on
// sorted copies of their slices so output order is deterministic
// regardless of how the snapshots were assembled.
//
// Traversal order: tables in schema-then-name order; within a table,
// columns by ordinal position, then the primary key, then foreign keys,
// unique constraints, check constraints, indexes, and triggers, each by
// name; sequences last, by name.
func Compare(source, destination *schema.Schema, src, dst Target, f Filter) *Result {
	start := time.Now()

	if source == nil {
		return Failed(src, dst, f, errors.New("source snapshot is missing"))
	}
	if destination == nil {
		return Failed(src, dst, f, errors.New("destination snapshot is missing"))
	}

	r := newResult(src, dst, f)

	fsrc := f.Apply(source)
	fdst := f.Apply(destination)

	r.compareTables(fsrc.Tables, fdst.Tables)
	r.compareSequences(fsrc.Sequences, fdst.Sequences)

	r.Duration = time.Since(start)
	return r
}

func (r *Result) compareTables(src, dst []*schema.Table) {
	src = sortedTables(src)
	dst = sortedTables(dst)

	srcMap := make(map[string]*schema.Table, len(src))
	for _, t := range src {
		srcMap[t.QualifiedName()] = t
	}
	dstMap := make(map[string]*schema.Table, len(dst))
	for _, t := range dst {
		dstMap[t.QualifiedName()] = t
	}

	for _, st := range src {
		r.Summary.noteCompared(ObjectTable)

		dt, ok := dstMap[st.QualifiedName()]
		if !ok {
			// A missing table subsumes all of its sub-objects; none of
			// them are diffed individually.
			r.addDifference(ObjectDiff{
				Type:     ObjectTable,
				Diff:     DiffMissing,
				Severity: SeverityBreaking,
				Name:     st.QualifiedName(),
			})
			continue
		}

		if attrs := diffTableAttrs(st, dt); len(attrs) > 0 {
			r.addDifference(ObjectDiff{
				Type:       ObjectTable,
				Diff:       DiffModified,
				Severity:   modifiedSeverity(attrs),
				Name:       st.QualifiedName(),
				Attributes: attrs,
			})
		} else {
			r.Summary.MatchingObjects++
		}

		r.compareTablePair(st, dt)
	}

	for _, dt := range dst {
		if _, ok := srcMap[dt.QualifiedName()]; ok {
			continue
		}
		r.Summary.noteCompared(ObjectTable)
		r.addDifference(ObjectDiff{
			Type:     ObjectTable,
			Diff:     DiffExtra,
			Severity: SeverityInfo,
			Name:     dt.QualifiedName(),
		})
	}
}

func (r *Result) compareTablePair(st, dt *schema.Table) {
	prefix := st.QualifiedName() + "."
	qualify := func(name string) string { return prefix + name }

	matchOrdered(r, ObjectColumn,
		sortedColumns(st.Columns), sortedColumns(dt.Columns),
		qualify, columnComparator())

	r.comparePrimaryKeys(st, dt, qualify)

	matchNamed(r, ObjectConstraint, st.ForeignKeys, dt.ForeignKeys, qualify, foreignKeyComparator())
	matchNamed(r, ObjectConstraint, st.UniqueConstraints, dt.UniqueConstraints, qualify, uniqueComparator())
	matchNamed(r, ObjectConstraint, st.CheckConstraints, dt.CheckConstraints, qualify, checkComparator())
	matchNamed(r, ObjectIndex, st.Indexes, dt.Indexes, qualify, indexComparator())
	matchNamed(r, ObjectTrigger, st.Triggers, dt.Triggers, qualify, triggerComparator())
}

// comparePrimaryKeys handles the at-most-one primary key of a table
// pair. The reported name is the source side's constraint name when it
// exists on the source.
func (r *Result) comparePrimaryKeys(st, dt *schema.Table, qualify func(string) string) {
	spk, dpk := st.PrimaryKey, dt.PrimaryKey

	switch {
	case spk == nil && dpk == nil:
		return
	case dpk == nil:
		r.Summary.noteCompared(ObjectConstraint)
		r.addDifference(ObjectDiff{
			Type:     ObjectConstraint,
			Diff:     DiffMissing,
			Severity: SeverityBreaking,
			Name:     qualify(spk.Name),
		})
	case spk == nil:
		r.Summary.noteCompared(ObjectConstraint)
		r.addDifference(ObjectDiff{
			Type:     ObjectConstraint,
			Diff:     DiffExtra,
			Severity: SeverityInfo,
			Name:     qualify(dpk.Name),
		})
	default:
		r.Summary.noteCompared(ObjectConstraint)
		cmp := primaryKeyComparator()
		if cmp.equal(spk, dpk) {
			r.Summary.MatchingObjects++
			return
		}
		attrs := cmp.diff(spk, dpk)
		r.addDifference(ObjectDiff{
			Type:       ObjectConstraint,
			Diff:       DiffModified,
			Severity:   modifiedSeverity(attrs),
			Name:       qualify(spk.Name),
			Attributes: attrs,
		})
	}
}

func (r *Result) compareSequences(src, dst []*schema.Sequence) {
	qualify := func(name string) string { return name }
	bySeqName := func(s *schema.Sequence) string { return s.QualifiedName() }

	matchOrderedBy(r, ObjectSequence,
		sortedByKey(src, bySeqName), sortedByKey(dst, bySeqName),
		bySeqName, qualify, sequenceComparator())
}

// matchNamed aligns two same-kind collections by object name. Both
// sides are walked in name order: source objects absent from the
// destination emit MISSING, destination objects absent from the source
// emit EXTRA, and objects present on both sides emit either nothing
// (structurally equal) or one MODIFIED difference.
func matchNamed[T schema.Named](r *Result, objType ObjectType, src, dst []T, qualify func(string) string, cmp comparator[T]) {
	byName := func(item T) string { return item.GetName() }
	matchOrderedBy(r, objType,
		sortedByKey(src, byName), sortedByKey(dst, byName),
		byName, qualify, cmp)
}

// matchOrdered is matchNamed for collections whose traversal order is
// not name order (columns travel by ordinal position).
func matchOrdered[T schema.Named](r *Result, objType ObjectType, src, dst []T, qualify func(string) string, cmp comparator[T]) {
	byName := func(item T) string { return item.GetName() }
	matchOrderedBy(r, objType, src, dst, byName, qualify, cmp)
}

func matchOrderedBy[T any](r *Result, objType ObjectType, src, dst []T, key func(T) string, qualify func(string) string, cmp comparator[T]) {
	srcMap := make(map[string]T, len(src))
	for _, item := range src {
		srcMap[key(item)] = item
	}
	dstMap := make(map[string]T, len(dst))
	for _, item := range dst {
		dstMap[key(item)] = item
	}

	for _, sItem := range src {
		r.Summary.noteCompared(objType)

		dItem, ok := dstMap[key(sItem)]
		if !ok {
			r.addDifference(ObjectDiff{
				Type:     objType,
				Diff:     DiffMissing,
				Severity: SeverityBreaking,
				Name:     qualify(key(sItem)),
			})
			continue
		}

		if cmp.equal(sItem, dItem) {
			r.Summary.MatchingObjects++
			continue
		}

		attrs := cmp.diff(sItem, dItem)
		r.addDifference(ObjectDiff{
			Type:       objType,
			Diff:       DiffModified,
			Severity:   modifiedSeverity(attrs),
			Name:       qualify(key(sItem)),
			Attributes: attrs,
		})
	}

	for _, dItem := range dst {
		if _, ok := srcMap[key(dItem)]; ok {
			continue
		}
		r.Summary.noteCompared(objType)
		r.addDifference(ObjectDiff{
			Type:     objType,
			Diff:     DiffExtra,
			Severity: SeverityInfo,
			Name:     qualify(key(dItem)),
		})
	}
}

// modifiedSeverity classifies a modified object: breaking when any
// attribute delta is breaking, otherwise warning. Atomic kinds (unique
// and check constraints) carry no attribute breakdown and classify as
// warning.
func modifiedSeverity(attrs []AttributeDiff) Severity {
	for _, a := range attrs {
		if a.Breaking {
			return SeverityBreaking
		}
	}
	return SeverityWarning
}

func sortedTables(tables []*schema.Table) []*schema.Table {
	out := make([]*schema.Table, len(tables))
	copy(out, tables)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !strings.EqualFold(a.Schema, b.Schema) {
			return strings.ToLower(a.Schema) < strings.ToLower(b.Schema)
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	return out
}

func sortedColumns(cols []*schema.Column) []*schema.Column {
	out := make([]*schema.Column, len(cols))
	copy(out, cols)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out
}

func sortedByKey[T any](items []T, key func(T) string) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(key(out[i])) < strings.ToLower(key(out[j]))
	})
	return out
}
