package introspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/erdgen/models"
)

func intPtr(i int) *int { return &i }

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		dataType string
		udtName  string
		length   *int
		want     string
	}{
		{"integer", "int4", nil, "integer"},
		{"timestamp with time zone", "timestamptz", nil, "timestamptz"},
		{"timestamp without time zone", "timestamp", nil, "timestamp"},
		{"character varying", "varchar", intPtr(255), "varchar(255)"},
		{"character varying", "varchar", nil, "varchar"},
		{"character", "bpchar", intPtr(2), "char(2)"},
		{"ARRAY", "_int4", nil, "integer[]"},
		{"ARRAY", "_text", nil, "text[]"},
		{"ARRAY", "", nil, "array"},
		{"USER-DEFINED", "order_status", nil, "order_status"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeType(tt.dataType, tt.udtName, tt.length))
		})
	}
}

func TestAssemble(t *testing.T) {
	tables := []string{"orders", "profiles", "users"}
	columns := []columnRow{
		{Table: "orders", Name: "id", Type: "integer"},
		{Table: "orders", Name: "user_id", Type: "integer"},
		{Table: "orders", Name: "reviewer_id", Type: "integer"},
		{Table: "profiles", Name: "user_id", Type: "integer"},
		{Table: "users", Name: "id", Type: "integer"},
		{Table: "users", Name: "email", Type: "varchar(255)", Note: "login"},
		{Table: "views", Name: "ignored", Type: "text"},
	}
	pks := []keyRow{
		{Table: "orders", Column: "id"},
		{Table: "profiles", Column: "user_id"},
		{Table: "users", Column: "id"},
	}
	fks := []foreignKeyRow{
		{Table: "orders", Column: "user_id", TargetTable: "users", TargetColumn: "id"},
		{Table: "orders", Column: "reviewer_id", TargetTable: "users", TargetColumn: "id"},
		{Table: "profiles", Column: "user_id", TargetTable: "users", TargetColumn: "id"},
		{Table: "orders", Column: "missing", TargetTable: "users", TargetColumn: "id"},
	}

	s := assemble(tables, columns, pks, fks)
	require.Len(t, s.Tables, 3)
	assert.Equal(t, "orders", s.Tables[0].Name)

	orders := s.Table("orders")
	require.NotNil(t, orders)
	require.Len(t, orders.Columns, 3)
	assert.True(t, orders.Column("id").PrimaryKey)
	assert.Equal(t, []string{"users"}, orders.Refs)

	ref := orders.Column("user_id").References
	require.Len(t, ref, 1)
	assert.Equal(t, "users.id", ref[0].Target)
	assert.Equal(t, models.ManyToOne, ref[0].Kind)
	assert.Equal(t, "many_to_one", ref[0].Description)

	profile := s.Table("profiles").Column("user_id")
	require.Len(t, profile.References, 1)
	assert.Equal(t, models.OneToOne, profile.References[0].Kind)

	users := s.Table("users")
	assert.Equal(t, "login", users.Column("email").Note)
	assert.Empty(t, users.Column("id").References)
	assert.NotNil(t, users.Column("id").References)

	assert.Equal(t, 3, s.ReferenceCount())
	assert.Nil(t, s.Table("views"))
}

func TestAssembleEmptyTable(t *testing.T) {
	s := assemble([]string{"empty"}, nil, nil, nil)
	require.Len(t, s.Tables, 1)
	assert.NotNil(t, s.Tables[0].Columns)
	assert.Empty(t, s.Tables[0].Columns)
}
