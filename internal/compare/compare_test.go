package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bovinemagnet/pg-console/internal/schema"
)

var (
	srcTarget = Target{Instance: "primary", Schema: "public"}
	dstTarget = Target{Instance: "replica", Schema: "public"}
)

// shopSchema builds the snapshot used by most engine tests: two tables
// with the usual constraint and index spread, plus one sequence.
func shopSchema() *schema.Schema {
	return &schema.Schema{
		Name: "public",
		Tables: []*schema.Table{
			{
				Schema: "public",
				Name:   "users",
				Owner:  "app",
				Columns: []*schema.Column{
					{Name: "id", DataType: "bigint", Position: 1},
					{Name: "email", DataType: "text", Position: 2},
					{Name: "created_at", DataType: "timestamptz", Nullable: true, Position: 3},
				},
				PrimaryKey: &schema.PrimaryKey{Name: "users_pkey", Columns: []string{"id"}},
				UniqueConstraints: []*schema.UniqueConstraint{
					{Name: "users_email_key", Columns: []string{"email"}},
				},
				Indexes: []*schema.Index{
					{Name: "idx_users_created_at", Type: "btree", Columns: []string{"created_at"}},
				},
			},
			{
				Schema: "public",
				Name:   "orders",
				Owner:  "app",
				Columns: []*schema.Column{
					{Name: "id", DataType: "bigint", Position: 1},
					{Name: "user_id", DataType: "bigint", Position: 2},
					{Name: "amount", DataType: "numeric", Nullable: true, Position: 3},
				},
				PrimaryKey: &schema.PrimaryKey{Name: "orders_pkey", Columns: []string{"id"}},
				ForeignKeys: []*schema.ForeignKey{
					{
						Name:       "orders_user_id_fkey",
						Columns:    []string{"user_id"},
						RefSchema:  "public",
						RefTable:   "users",
						RefColumns: []string{"id"},
						OnDelete:   "NO ACTION",
						OnUpdate:   "NO ACTION",
					},
				},
				CheckConstraints: []*schema.CheckConstraint{
					{Name: "orders_amount_check", Expression: "(amount >= 0)"},
				},
				Triggers: []*schema.Trigger{
					{
						Name:           "orders_audit",
						Timing:         "AFTER",
						Events:         []string{"INSERT", "UPDATE"},
						Level:          "ROW",
						FunctionSchema: "public",
						FunctionName:   "audit_row",
						Enabled:        true,
					},
				},
			},
		},
		Sequences: []*schema.Sequence{
			{
				Schema: "public", Name: "orders_id_seq", DataType: "bigint",
				Start: 1, Increment: 1, Min: 1, Max: 9223372036854775807, Cache: 1,
			},
		},
	}
}

func TestCompareIdenticalSchemas(t *testing.T) {
	r := Compare(shopSchema(), shopSchema(), srcTarget, dstTarget, Filter{})

	require.True(t, r.Success)
	assert.True(t, r.IsIdentical())
	assert.False(t, r.HasBreakingChanges())
	assert.Empty(t, r.Differences)
	assert.Equal(t, 0, r.Summary.TotalDifferences())

	assert.Equal(t, 2, r.Summary.TablesCompared)
	assert.Equal(t, 6, r.Summary.ColumnsCompared)
	assert.Equal(t, 1, r.Summary.IndexesCompared)
	// 2 primary keys + 1 fk + 1 unique + 1 check
	assert.Equal(t, 5, r.Summary.ConstraintsCompared)
	assert.Equal(t, 1, r.Summary.TriggersCompared)
	assert.Equal(t, 1, r.Summary.SequencesCompared)

	assert.Equal(t, "schemas are identical", r.SummaryText())
}

func TestCompareColumnTypeChange(t *testing.T) {
	src := shopSchema()
	dst := shopSchema()
	dst.FindTable("orders").FindColumn("amount").DataType = "integer"

	r := Compare(src, dst, srcTarget, dstTarget, Filter{})

	require.Len(t, r.Differences, 1)
	d := r.Differences[0]
	assert.Equal(t, ObjectColumn, d.Type)
	assert.Equal(t, DiffModified, d.Diff)
	assert.Equal(t, SeverityBreaking, d.Severity)
	assert.Equal(t, "public.orders.amount", d.Name)
	require.Len(t, d.Attributes, 1)
	assert.Equal(t, AttributeDiff{
		Attribute:   "Data Type",
		Source:      "numeric",
		Destination: "integer",
		Breaking:    true,
	}, d.Attributes[0])

	assert.True(t, r.HasBreakingChanges())
	assert.Equal(t, 1, r.BreakingCount())
	assert.Equal(t, "1 difference (0 missing, 0 extra, 1 modified)", r.SummaryText())
}

func TestCompareNullabilityDirection(t *testing.T) {
	t.Run("tightened is breaking", func(t *testing.T) {
		src := shopSchema()
		dst := shopSchema()
		dst.FindTable("users").FindColumn("created_at").Nullable = false

		r := Compare(src, dst, srcTarget, dstTarget, Filter{})

		require.Len(t, r.Differences, 1)
		assert.Equal(t, SeverityBreaking, r.Differences[0].Severity)
		require.Len(t, r.Differences[0].Attributes, 1)
		assert.Equal(t, AttributeDiff{
			Attribute:   "Nullable",
			Source:      "YES",
			Destination: "NO",
			Breaking:    true,
		}, r.Differences[0].Attributes[0])
	})

	t.Run("relaxed is warning", func(t *testing.T) {
		src := shopSchema()
		src.FindTable("users").FindColumn("created_at").Nullable = false
		dst := shopSchema()

		r := Compare(src, dst, srcTarget, dstTarget, Filter{})

		require.Len(t, r.Differences, 1)
		assert.Equal(t, SeverityWarning, r.Differences[0].Severity)
		require.Len(t, r.Differences[0].Attributes, 1)
		assert.Equal(t, AttributeDiff{
			Attribute:   "Nullable",
			Source:      "NO",
			Destination: "YES",
			Breaking:    false,
		}, r.Differences[0].Attributes[0])
		assert.False(t, r.HasBreakingChanges())
	})
}

func TestCompareMissingTableSubsumesSubObjects(t *testing.T) {
	src := shopSchema()
	dst := shopSchema()
	dst.Tables = dst.Tables[:1] // drop orders

	r := Compare(src, dst, srcTarget, dstTarget, Filter{})

	require.Len(t, r.Differences, 1)
	d := r.Differences[0]
	assert.Equal(t, ObjectTable, d.Type)
	assert.Equal(t, DiffMissing, d.Diff)
	assert.Equal(t, SeverityBreaking, d.Severity)
	assert.Equal(t, "public.orders", d.Name)
	assert.Empty(t, d.Attributes)

	assert.Equal(t, 1, r.Summary.MissingObjects)
	// Columns, constraints and triggers of the missing table were not
	// walked individually.
	assert.Equal(t, 3, r.Summary.ColumnsCompared)
	assert.Equal(t, 2, r.Summary.ConstraintsCompared)
	assert.Equal(t, 0, r.Summary.TriggersCompared)
}

func TestCompareExtraIndex(t *testing.T) {
	src := shopSchema()
	dst := shopSchema()
	users := dst.FindTable("users")
	users.Indexes = append(users.Indexes, &schema.Index{
		Name: "idx_users_email_lower", Type: "btree", Columns: []string{"lower(email)"},
	})

	r := Compare(src, dst, srcTarget, dstTarget, Filter{})

	require.Len(t, r.Differences, 1)
	d := r.Differences[0]
	assert.Equal(t, ObjectIndex, d.Type)
	assert.Equal(t, DiffExtra, d.Diff)
	assert.Equal(t, SeverityInfo, d.Severity)
	assert.Equal(t, "public.users.idx_users_email_lower", d.Name)

	assert.Equal(t, 1, r.Summary.ExtraObjects)
	assert.False(t, r.HasBreakingChanges())
	assert.Equal(t, 1, r.InfoCount())
}

func TestCompareMatcherCompleteness(t *testing.T) {
	// Source has triggers {audit, touch}, destination {touch, notify}.
	// Expect one missing, one extra, one matching.
	src := shopSchema()
	dst := shopSchema()

	touch := &schema.Trigger{
		Name: "orders_touch", Timing: "BEFORE", Events: []string{"UPDATE"},
		Level: "ROW", FunctionSchema: "public", FunctionName: "touch_updated_at",
		Enabled: true,
	}
	notify := &schema.Trigger{
		Name: "orders_notify", Timing: "AFTER", Events: []string{"INSERT"},
		Level: "ROW", FunctionSchema: "public", FunctionName: "notify_channel",
		Enabled: true,
	}

	srcOrders := src.FindTable("orders")
	srcOrders.Triggers = append(srcOrders.Triggers, touch)

	dstOrders := dst.FindTable("orders")
	dstOrders.Triggers = []*schema.Trigger{touch, notify}

	r := Compare(src, dst, srcTarget, dstTarget, Filter{})

	triggers := r.ByObjectType(ObjectTrigger)
	require.Len(t, triggers, 2)

	missing := r.ByDiffType(DiffMissing)
	require.Len(t, missing, 1)
	assert.Equal(t, "public.orders.orders_audit", missing[0].Name)

	extra := r.ByDiffType(DiffExtra)
	require.Len(t, extra, 1)
	assert.Equal(t, "public.orders.orders_notify", extra[0].Name)

	// 2 source + 1 extra destination trigger counted.
	assert.Equal(t, 3, r.Summary.TriggersCompared)
}

func TestCompareDeterministicOrder(t *testing.T) {
	src := shopSchema()
	dst := &schema.Schema{Name: "public"} // everything missing

	first := Compare(src, dst, srcTarget, dstTarget, Filter{})

	// Reverse the source slices; traversal must not change.
	shuffled := shopSchema()
	for i, j := 0, len(shuffled.Tables)-1; i < j; i, j = i+1, j-1 {
		shuffled.Tables[i], shuffled.Tables[j] = shuffled.Tables[j], shuffled.Tables[i]
	}

	second := Compare(shuffled, dst, srcTarget, dstTarget, Filter{})

	require.Equal(t, len(first.Differences), len(second.Differences))
	for i := range first.Differences {
		assert.Equal(t, first.Differences[i].Name, second.Differences[i].Name)
		assert.Equal(t, first.Differences[i].Diff, second.Differences[i].Diff)
	}

	// orders sorts before users.
	require.NotEmpty(t, first.Differences)
	assert.Equal(t, "public.orders", first.Differences[0].Name)
}

func TestCompareIdempotent(t *testing.T) {
	src := shopSchema()
	dst := shopSchema()
	dst.FindTable("orders").FindColumn("amount").DataType = "integer"
	dst.Tables = dst.Tables[:1]

	first := Compare(src, dst, srcTarget, dstTarget, Filter{})
	second := Compare(src, dst, srcTarget, dstTarget, Filter{})

	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.Differences, second.Differences)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCompareDoesNotMutateInputs(t *testing.T) {
	src := shopSchema()
	dst := shopSchema()

	// Deliberately unsorted table order.
	src.Tables[0], src.Tables[1] = src.Tables[1], src.Tables[0]
	wantFirst := src.Tables[0].Name

	_ = Compare(src, dst, srcTarget, dstTarget, Filter{})

	assert.Equal(t, wantFirst, src.Tables[0].Name)
	assert.NotNil(t, src.FindTable("orders").ForeignKeys)
}

func TestCompareNilSnapshots(t *testing.T) {
	t.Run("nil source", func(t *testing.T) {
		r := Compare(nil, shopSchema(), srcTarget, dstTarget, Filter{})
		assert.False(t, r.Success)
		assert.Equal(t, "source snapshot is missing", r.ErrorMessage)
		assert.Empty(t, r.Differences)
		assert.False(t, r.IsIdentical())
	})

	t.Run("nil destination", func(t *testing.T) {
		r := Compare(shopSchema(), nil, srcTarget, dstTarget, Filter{})
		assert.False(t, r.Success)
		assert.Equal(t, "destination snapshot is missing", r.ErrorMessage)
	})
}

func TestCompareSequenceChanges(t *testing.T) {
	src := shopSchema()
	dst := shopSchema()
	dst.Sequences[0].Increment = 10

	r := Compare(src, dst, srcTarget, dstTarget, Filter{})

	require.Len(t, r.Differences, 1)
	d := r.Differences[0]
	assert.Equal(t, ObjectSequence, d.Type)
	assert.Equal(t, DiffModified, d.Diff)
	assert.Equal(t, SeverityWarning, d.Severity)
	assert.Equal(t, "public.orders_id_seq", d.Name)
}

func TestCompareAggregatorInvariant(t *testing.T) {
	src := shopSchema()
	dst := shopSchema()
	dst.FindTable("orders").FindColumn("amount").DataType = "integer"
	dst.FindTable("users").Indexes = nil
	dst.Sequences = nil
	extra := dst.FindTable("orders")
	extra.Triggers = append(extra.Triggers, &schema.Trigger{
		Name: "orders_extra", Timing: "AFTER", Events: []string{"DELETE"},
		Level: "ROW", FunctionSchema: "public", FunctionName: "noop", Enabled: true,
	})

	r := Compare(src, dst, srcTarget, dstTarget, Filter{})

	assert.Equal(t, len(r.Differences), r.Summary.TotalDifferences())
	assert.Equal(t, len(r.Differences),
		r.Summary.BreakingChanges+r.Summary.WarningChanges+r.Summary.InfoChanges)
	assert.Equal(t, len(r.BySeverity(SeverityBreaking)), r.BreakingCount())
	assert.Equal(t, len(r.BySeverity(SeverityWarning)), r.WarningCount())
	assert.Equal(t, len(r.BySeverity(SeverityInfo)), r.InfoCount())
}

func TestCompareWithFilter(t *testing.T) {
	t.Run("skip everything yields identical result", func(t *testing.T) {
		src := shopSchema()
		dst := &schema.Schema{Name: "public"}

		f := Filter{SkipTables: true, SkipSequences: true}
		r := Compare(src, dst, srcTarget, dstTarget, f)

		assert.True(t, r.Success)
		assert.True(t, r.IsIdentical())
		assert.Equal(t, 0, r.Summary.TablesCompared)
		assert.Equal(t, 0, r.Summary.SequencesCompared)
	})

	t.Run("excluded table never reported", func(t *testing.T) {
		src := shopSchema()
		dst := shopSchema()
		dst.Tables = dst.Tables[:1] // orders missing on destination

		f := Filter{ExcludeTables: []string{"orders"}}
		r := Compare(src, dst, srcTarget, dstTarget, f)

		assert.Empty(t, r.Differences)
		assert.Equal(t, 1, r.Summary.TablesCompared)
	})

	t.Run("skip indexes hides index drift", func(t *testing.T) {
		src := shopSchema()
		dst := shopSchema()
		dst.FindTable("users").Indexes = nil

		r := Compare(src, dst, srcTarget, dstTarget, Filter{SkipIndexes: true})
		assert.Empty(t, r.Differences)

		r = Compare(src, dst, srcTarget, dstTarget, Filter{})
		require.Len(t, r.Differences, 1)
		assert.Equal(t, DiffMissing, r.Differences[0].Diff)
	})

	t.Run("schema restriction", func(t *testing.T) {
		src := shopSchema()
		src.Tables = append(src.Tables, &schema.Table{
			Schema: "audit",
			Name:   "events",
			Columns: []*schema.Column{
				{Name: "id", DataType: "bigint", Position: 1},
			},
		})
		dst := shopSchema()

		f := Filter{Schemas: []string{"public"}}
		r := Compare(src, dst, srcTarget, dstTarget, f)
		assert.Empty(t, r.Differences)

		r = Compare(src, dst, srcTarget, dstTarget, Filter{})
		require.Len(t, r.Differences, 1)
		assert.Equal(t, "audit.events", r.Differences[0].Name)
	})
}

func TestComparePrimaryKeyPresence(t *testing.T) {
	t.Run("missing primary key", func(t *testing.T) {
		src := shopSchema()
		dst := shopSchema()
		dst.FindTable("users").PrimaryKey = nil

		r := Compare(src, dst, srcTarget, dstTarget, Filter{})

		require.Len(t, r.Differences, 1)
		d := r.Differences[0]
		assert.Equal(t, ObjectConstraint, d.Type)
		assert.Equal(t, DiffMissing, d.Diff)
		assert.Equal(t, SeverityBreaking, d.Severity)
		assert.Equal(t, "public.users.users_pkey", d.Name)
	})

	t.Run("extra primary key", func(t *testing.T) {
		src := shopSchema()
		src.FindTable("users").PrimaryKey = nil
		dst := shopSchema()

		r := Compare(src, dst, srcTarget, dstTarget, Filter{})

		require.Len(t, r.Differences, 1)
		d := r.Differences[0]
		assert.Equal(t, DiffExtra, d.Diff)
		assert.Equal(t, SeverityInfo, d.Severity)
	})

	t.Run("modified primary key", func(t *testing.T) {
		src := shopSchema()
		dst := shopSchema()
		dst.FindTable("users").PrimaryKey.Columns = []string{"id", "email"}

		r := Compare(src, dst, srcTarget, dstTarget, Filter{})

		require.Len(t, r.Differences, 1)
		d := r.Differences[0]
		assert.Equal(t, DiffModified, d.Diff)
		assert.Equal(t, SeverityBreaking, d.Severity)
		require.Len(t, d.Attributes, 1)
		assert.Equal(t, "Columns", d.Attributes[0].Attribute)
	})
}

func TestCompareAtomicConstraintModification(t *testing.T) {
	src := shopSchema()
	dst := shopSchema()
	dst.FindTable("orders").CheckConstraints[0].Expression = "(amount > 0)"

	r := Compare(src, dst, srcTarget, dstTarget, Filter{})

	require.Len(t, r.Differences, 1)
	d := r.Differences[0]
	assert.Equal(t, ObjectConstraint, d.Type)
	assert.Equal(t, DiffModified, d.Diff)
	assert.Equal(t, SeverityWarning, d.Severity)
	assert.Empty(t, d.Attributes)
}
