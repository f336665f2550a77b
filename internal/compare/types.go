// Package compare implements the schema comparison engine: it takes two
// snapshots produced by the introspection layer, aligns their objects by
// identity, and reports every structural difference with a severity
// classification. The engine is a pure function of two read-only
// snapshots plus a filter; it performs no I/O and raises no errors for
// expected structural divergence.
package compare

// ObjectType identifies the kind of database object a difference refers to.
type ObjectType string

const (
	ObjectTable      ObjectType = "TABLE"
	ObjectColumn     ObjectType = "COLUMN"
	ObjectIndex      ObjectType = "INDEX"
	ObjectConstraint ObjectType = "CONSTRAINT"
	ObjectTrigger    ObjectType = "TRIGGER"
	ObjectSequence   ObjectType = "SEQUENCE"
)

// DiffType classifies a difference relative to the source-to-destination
// direction of the comparison.
type DiffType string

const (
	// DiffMissing marks an object present in the source but absent in
	// the destination.
	DiffMissing DiffType = "MISSING"
	// DiffExtra marks an object present in the destination but absent
	// in the source.
	DiffExtra DiffType = "EXTRA"
	// DiffModified marks an object present on both sides with
	// structural differences.
	DiffModified DiffType = "MODIFIED"
)

// Severity ranks how disruptive a difference is for consumers of the
// source schema.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityBreaking
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityBreaking:
		return "BREAKING"
	default:
		return "UNKNOWN"
	}
}

// AttributeDiff is a single named-attribute delta between the source and
// destination version of one object.
type AttributeDiff struct {
	Attribute   string `json:"attribute"`
	Source      string `json:"source"`
	Destination string `json:"destination"`

	// Breaking marks changes likely to require data migration or break
	// dependent application code (type changes, constraint tightening,
	// reference changes) as opposed to cosmetic or tuning changes.
	Breaking bool `json:"breaking"`
}

// ObjectDiff is one structural mismatch at object granularity. For
// modified objects, Attributes holds the ordered attribute deltas that
// justify the classification; missing and extra objects carry none.
type ObjectDiff struct {
	Type     ObjectType `json:"objectType"`
	Diff     DiffType   `json:"differenceType"`
	Severity Severity   `json:"severity"`

	// Name is the fully qualified object name, e.g. "public.users.email".
	Name string `json:"name"`

	Attributes []AttributeDiff `json:"attributes,omitempty"`
}

// HasBreakingAttribute reports whether any attribute delta is breaking.
func (d ObjectDiff) HasBreakingAttribute() bool {
	for _, a := range d.Attributes {
		if a.Breaking {
			return true
		}
	}
	return false
}

// attrCollector accumulates attribute deltas, dropping no-op entries.
type attrCollector struct {
	diffs []AttributeDiff
}

func (c *attrCollector) add(attribute, src, dst string, breaking bool) {
	if src == dst {
		return
	}
	c.diffs = append(c.diffs, AttributeDiff{
		Attribute:   attribute,
		Source:      src,
		Destination: dst,
		Breaking:    breaking,
	})
}
