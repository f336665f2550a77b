package compare

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bovinemagnet/pg-console/internal/schema"
)

// Per-kind structural rules. Each kind supplies an equality predicate
// and an attribute diff function; both are nil-safe and neither looks
// at the object's own name (objects are already aligned by name when
// these run). Column is the exception: columns are matched and reported
// by name, so the name participates in equality.

// comparator bundles the structural rule pair for one object kind so
// the matcher can invoke them polymorphically.
type comparator[T any] struct {
	equal func(a, b T) bool
	diff  func(a, b T) []AttributeDiff
}

var wsRe = regexp.MustCompile(`\s+`)

// normalizeExpr collapses runs of whitespace and trims, so expression
// comparisons do not flag formatting-only differences.
func normalizeExpr(s string) string {
	return strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
}

func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func formatNameList(items []string) string {
	return "(" + strings.Join(items, ", ") + ")"
}

func ptrStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

func columnComparator() comparator[*schema.Column] {
	return comparator[*schema.Column]{equal: equalColumn, diff: diffColumn}
}

func equalColumn(a, b *schema.Column) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Name == b.Name && len(diffColumn(a, b)) == 0
}

func diffColumn(a, b *schema.Column) []AttributeDiff {
	if a == nil || b == nil {
		return nil
	}
	c := &attrCollector{}

	c.add("Data Type", a.DataType, b.DataType, true)
	// Tightening nullable -> NOT NULL breaks writers; the reverse is
	// harmless relaxation.
	c.add("Nullable", yesNo(a.Nullable), yesNo(b.Nullable), a.Nullable && !b.Nullable)
	c.add("Default", ptrStr(a.Default), ptrStr(b.Default), false)
	c.add("Identity", identityString(a), identityString(b), false)
	c.add("Generated", generationString(a), generationString(b), true)
	c.add("Collation", a.Collation, b.Collation, false)

	return c.diffs
}

func identityString(c *schema.Column) string {
	if !c.Identity {
		return "NO"
	}
	if c.IdentityType == "" {
		return "YES"
	}
	return c.IdentityType
}

func generationString(c *schema.Column) string {
	if !c.Generated {
		return "NO"
	}
	return normalizeExpr(c.GenerationExpression)
}

func primaryKeyComparator() comparator[*schema.PrimaryKey] {
	return comparator[*schema.PrimaryKey]{equal: equalPrimaryKey, diff: diffPrimaryKey}
}

func equalPrimaryKey(a, b *schema.PrimaryKey) bool {
	if a == nil || b == nil {
		return false
	}
	return equalStringSlices(a.Columns, b.Columns)
}

func diffPrimaryKey(a, b *schema.PrimaryKey) []AttributeDiff {
	if a == nil || b == nil {
		return nil
	}
	c := &attrCollector{}
	c.add("Columns", formatNameList(a.Columns), formatNameList(b.Columns), true)
	return c.diffs
}

func foreignKeyComparator() comparator[*schema.ForeignKey] {
	return comparator[*schema.ForeignKey]{equal: equalForeignKey, diff: diffForeignKey}
}

func equalForeignKey(a, b *schema.ForeignKey) bool {
	if a == nil || b == nil {
		return false
	}
	return len(diffForeignKey(a, b)) == 0
}

func diffForeignKey(a, b *schema.ForeignKey) []AttributeDiff {
	if a == nil || b == nil {
		return nil
	}
	c := &attrCollector{}

	c.add("Columns", formatNameList(a.Columns), formatNameList(b.Columns), true)
	c.add("Referenced Table", refTableName(a), refTableName(b), true)
	c.add("Referenced Columns", formatNameList(a.RefColumns), formatNameList(b.RefColumns), true)
	c.add("On Delete", a.OnDelete, b.OnDelete, false)
	c.add("On Update", a.OnUpdate, b.OnUpdate, false)
	c.add("Deferrable", yesNo(a.Deferrable), yesNo(b.Deferrable), false)
	c.add("Initially Deferred", yesNo(a.InitiallyDeferred), yesNo(b.InitiallyDeferred), false)

	return c.diffs
}

func refTableName(fk *schema.ForeignKey) string {
	if fk.RefSchema == "" {
		return fk.RefTable
	}
	return fk.RefSchema + "." + fk.RefTable
}

// Unique constraints are atomic: any structural change reports the
// constraint as modified without an attribute breakdown.
func uniqueComparator() comparator[*schema.UniqueConstraint] {
	return comparator[*schema.UniqueConstraint]{
		equal: equalUnique,
		diff:  func(a, b *schema.UniqueConstraint) []AttributeDiff { return nil },
	}
}

func equalUnique(a, b *schema.UniqueConstraint) bool {
	if a == nil || b == nil {
		return false
	}
	return equalStringSlices(a.Columns, b.Columns)
}

// Check constraints are likewise atomic. Expressions compare after
// whitespace normalisation so that formatting drift between catalogs
// does not produce false positives.
func checkComparator() comparator[*schema.CheckConstraint] {
	return comparator[*schema.CheckConstraint]{
		equal: equalCheck,
		diff:  func(a, b *schema.CheckConstraint) []AttributeDiff { return nil },
	}
}

func equalCheck(a, b *schema.CheckConstraint) bool {
	if a == nil || b == nil {
		return false
	}
	return normalizeExpr(a.Expression) == normalizeExpr(b.Expression) &&
		a.NoInherit == b.NoInherit
}

func indexComparator() comparator[*schema.Index] {
	return comparator[*schema.Index]{equal: equalIndex, diff: diffIndex}
}

func equalIndex(a, b *schema.Index) bool {
	if a == nil || b == nil {
		return false
	}
	return len(diffIndex(a, b)) == 0
}

func diffIndex(a, b *schema.Index) []AttributeDiff {
	if a == nil || b == nil {
		return nil
	}
	c := &attrCollector{}

	c.add("Index Type", strings.ToLower(a.Type), strings.ToLower(b.Type), true)
	c.add("Columns", formatNameList(a.Columns), formatNameList(b.Columns), true)
	c.add("Unique", yesNo(a.Unique), yesNo(b.Unique), true)
	c.add("Primary", yesNo(a.Primary), yesNo(b.Primary), true)
	c.add("Include Columns", formatNameList(a.Include), formatNameList(b.Include), false)
	c.add("Where Clause", normalizeExpr(a.Where), normalizeExpr(b.Where), false)
	c.add("Tablespace", a.Tablespace, b.Tablespace, false)

	return c.diffs
}

func triggerComparator() comparator[*schema.Trigger] {
	return comparator[*schema.Trigger]{equal: equalTrigger, diff: diffTrigger}
}

func equalTrigger(a, b *schema.Trigger) bool {
	if a == nil || b == nil {
		return false
	}
	return len(diffTrigger(a, b)) == 0
}

func diffTrigger(a, b *schema.Trigger) []AttributeDiff {
	if a == nil || b == nil {
		return nil
	}
	c := &attrCollector{}

	c.add("Timing", a.Timing, b.Timing, true)
	c.add("Events", strings.Join(a.Events, " OR "), strings.Join(b.Events, " OR "), true)
	c.add("Level", a.Level, b.Level, true)
	c.add("Function", a.FunctionRef(), b.FunctionRef(), true)
	c.add("When Condition", normalizeExpr(a.When), normalizeExpr(b.When), false)
	c.add("Enabled", yesNo(a.Enabled), yesNo(b.Enabled), false)

	return c.diffs
}

func sequenceComparator() comparator[*schema.Sequence] {
	return comparator[*schema.Sequence]{equal: equalSequence, diff: diffSequence}
}

func equalSequence(a, b *schema.Sequence) bool {
	if a == nil || b == nil {
		return false
	}
	return len(diffSequence(a, b)) == 0
}

func diffSequence(a, b *schema.Sequence) []AttributeDiff {
	if a == nil || b == nil {
		return nil
	}
	c := &attrCollector{}

	c.add("Data Type", a.DataType, b.DataType, true)
	c.add("Start Value", formatInt(a.Start), formatInt(b.Start), false)
	c.add("Increment", formatInt(a.Increment), formatInt(b.Increment), false)
	c.add("Min Value", formatInt(a.Min), formatInt(b.Min), false)
	c.add("Max Value", formatInt(a.Max), formatInt(b.Max), false)
	c.add("Cache Size", formatInt(a.Cache), formatInt(b.Cache), false)
	c.add("Cycle", yesNo(a.Cycle), yesNo(b.Cycle), false)
	c.add("Owned By", ownedBy(a), ownedBy(b), false)

	return c.diffs
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func ownedBy(s *schema.Sequence) string {
	if s.OwnedByTable == "" {
		return ""
	}
	return s.OwnedByTable + "." + s.OwnedByColumn
}

// diffTableAttrs reports table-level attribute deltas for a table
// present on both sides. Sub-objects (columns, constraints, indexes,
// triggers) are matched separately.
func diffTableAttrs(a, b *schema.Table) []AttributeDiff {
	if a == nil || b == nil {
		return nil
	}
	c := &attrCollector{}

	c.add("Partitioned", yesNo(a.IsPartitioned), yesNo(b.IsPartitioned), true)
	c.add("Partition Strategy", a.PartitionStrategy, b.PartitionStrategy, true)
	c.add("Partition Key", normalizeExpr(a.PartitionKey), normalizeExpr(b.PartitionKey), true)
	c.add("Row Security", yesNo(a.RowSecurity), yesNo(b.RowSecurity), true)
	c.add("Owner", a.Owner, b.Owner, false)
	c.add("Tablespace", a.Tablespace, b.Tablespace, false)

	return c.diffs
}
