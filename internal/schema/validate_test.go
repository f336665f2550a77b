package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSnapshot() *Schema {
	return &Schema{
		Name: "public",
		Tables: []*Table{
			{
				Schema: "public",
				Name:   "users",
				Columns: []*Column{
					{Name: "id", DataType: "bigint", Position: 1},
					{Name: "email", DataType: "text", Position: 2},
				},
				PrimaryKey: &PrimaryKey{Name: "users_pkey", Columns: []string{"id"}},
				UniqueConstraints: []*UniqueConstraint{
					{Name: "users_email_key", Columns: []string{"email"}},
				},
			},
			{
				Schema: "public",
				Name:   "orders",
				Columns: []*Column{
					{Name: "id", DataType: "bigint", Position: 1},
					{Name: "user_id", DataType: "bigint", Position: 2},
				},
				ForeignKeys: []*ForeignKey{
					{Name: "orders_user_id_fkey", Columns: []string{"user_id"}, RefTable: "users", RefColumns: []string{"id"}},
				},
			},
		},
		Sequences: []*Sequence{
			{Schema: "public", Name: "orders_id_seq", DataType: "bigint"},
		},
	}
}

func TestValidateAcceptsWellFormedSnapshot(t *testing.T) {
	assert.NoError(t, validSnapshot().Validate())
}

func TestValidateRejects(t *testing.T) {
	t.Run("nil schema", func(t *testing.T) {
		var s *Schema
		assert.EqualError(t, s.Validate(), "schema snapshot is nil")
	})

	t.Run("empty schema name", func(t *testing.T) {
		s := validSnapshot()
		s.Name = "  "
		assert.EqualError(t, s.Validate(), "schema name is empty")
	})

	t.Run("duplicate table", func(t *testing.T) {
		s := validSnapshot()
		s.Tables = append(s.Tables, s.Tables[0])
		require.Error(t, s.Validate())
		assert.Contains(t, s.Validate().Error(), "duplicate table name")
	})

	t.Run("table without columns", func(t *testing.T) {
		s := validSnapshot()
		s.Tables[0].Columns = nil
		assert.ErrorContains(t, s.Validate(), "no columns")
	})

	t.Run("duplicate column differing only by case", func(t *testing.T) {
		s := validSnapshot()
		s.Tables[0].Columns = append(s.Tables[0].Columns, &Column{Name: "ID", DataType: "bigint", Position: 3})
		assert.ErrorContains(t, s.Validate(), "duplicate column name")
	})

	t.Run("column without data type", func(t *testing.T) {
		s := validSnapshot()
		s.Tables[0].Columns[0].DataType = ""
		assert.ErrorContains(t, s.Validate(), "data type is empty")
	})

	t.Run("primary key referencing unknown column", func(t *testing.T) {
		s := validSnapshot()
		s.Tables[0].PrimaryKey.Columns = []string{"uuid"}
		assert.ErrorContains(t, s.Validate(), `unknown column "uuid"`)
	})

	t.Run("foreign key column count mismatch", func(t *testing.T) {
		s := validSnapshot()
		s.Tables[1].ForeignKeys[0].RefColumns = []string{"id", "tenant_id"}
		assert.ErrorContains(t, s.Validate(), "1 local columns reference 2 remote columns")
	})

	t.Run("foreign key without referenced table", func(t *testing.T) {
		s := validSnapshot()
		s.Tables[1].ForeignKeys[0].RefTable = ""
		assert.ErrorContains(t, s.Validate(), "referenced table is empty")
	})

	t.Run("duplicate index name", func(t *testing.T) {
		s := validSnapshot()
		s.Tables[0].Indexes = []*Index{
			{Name: "idx", Type: "btree", Columns: []string{"id"}},
			{Name: "IDX", Type: "btree", Columns: []string{"email"}},
		}
		assert.ErrorContains(t, s.Validate(), "duplicate index name")
	})

	t.Run("duplicate trigger name", func(t *testing.T) {
		s := validSnapshot()
		s.Tables[0].Triggers = []*Trigger{
			{Name: "trg", Timing: "AFTER", Events: []string{"INSERT"}, Level: "ROW", FunctionName: "f", Enabled: true},
			{Name: "trg", Timing: "BEFORE", Events: []string{"UPDATE"}, Level: "ROW", FunctionName: "g", Enabled: true},
		}
		assert.ErrorContains(t, s.Validate(), "duplicate trigger name")
	})

	t.Run("duplicate sequence name", func(t *testing.T) {
		s := validSnapshot()
		s.Sequences = append(s.Sequences, &Sequence{Schema: "public", Name: "ORDERS_ID_SEQ", DataType: "bigint"})
		assert.ErrorContains(t, s.Validate(), "duplicate sequence name")
	})

	t.Run("error names the offending table", func(t *testing.T) {
		s := validSnapshot()
		s.Tables[1].Columns = nil
		assert.ErrorContains(t, s.Validate(), `table "public.orders"`)
	})
}
