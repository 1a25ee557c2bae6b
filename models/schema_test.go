package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const parsedSource = `{
	"users": {
		"description": "registered accounts",
		"columns": {
			"id": {"name": "id", "type": "INTEGER", "note": null, "refs": [], "primary_key": true},
			"email": {"name": "email", "type": "VARCHAR", "note": "login", "refs": [], "primary_key": false}
		},
		"refs": []
	},
	"orders": {
		"description": null,
		"columns": {
			"user_id": {
				"name": "user_id",
				"type": "INTEGER",
				"refs": [{"column_name": "users.id", "dbml_ref_type": ">", "ref_description": "many_to_one"}],
				"primary_key": false
			},
			"id": {"name": "id", "type": "INTEGER", "refs": [], "primary_key": true}
		},
		"refs": ["users"]
	},
	"audit": {"note": "append only", "columns": {}}
}`

func TestSchemaUnmarshalJSON_KeepsOrder(t *testing.T) {
	var s Schema
	require.NoError(t, json.Unmarshal([]byte(parsedSource), &s))

	require.Len(t, s.Tables, 3)
	assert.Equal(t, "users", s.Tables[0].Name)
	assert.Equal(t, "orders", s.Tables[1].Name)
	assert.Equal(t, "audit", s.Tables[2].Name)

	users := s.Table("users")
	require.NotNil(t, users)
	assert.Equal(t, "registered accounts", users.Description)
	require.Len(t, users.Columns, 2)
	assert.Equal(t, "id", users.Columns[0].Name)
	assert.True(t, users.Columns[0].PrimaryKey)
	assert.Equal(t, "email", users.Columns[1].Name)
	assert.Equal(t, "login", users.Columns[1].Note)

	orders := s.Table("orders")
	require.NotNil(t, orders)
	assert.Equal(t, "user_id", orders.Columns[0].Name)
	require.Len(t, orders.Columns[0].References, 1)
	ref := orders.Columns[0].References[0]
	assert.Equal(t, "users.id", ref.Target)
	assert.Equal(t, ManyToOne, ref.Kind)
	assert.Equal(t, []string{"users"}, orders.Refs)

	audit := s.Table("audit")
	require.NotNil(t, audit)
	assert.Equal(t, "append only", audit.Description)
	assert.NotNil(t, audit.Columns)
	assert.Empty(t, audit.Columns)

	assert.Equal(t, 4, s.ColumnCount())
	assert.Equal(t, 1, s.ReferenceCount())
}

func TestSchemaUnmarshalJSON_MissingColumns(t *testing.T) {
	var s Schema
	require.NoError(t, json.Unmarshal([]byte(`{"a": {"description": "x"}, "b": {"columns": null}}`), &s))

	require.Len(t, s.Tables, 2)
	assert.Nil(t, s.Tables[0].Columns)
	assert.Nil(t, s.Tables[1].Columns)
}

func TestSchemaUnmarshalJSON_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"not an object", `[1, 2]`, ErrMalformedSchema},
		{"table not an object", `{"a": 5}`, ErrMalformedSchema},
		{"columns not an object", `{"a": {"columns": [1]}}`, ErrMalformedSchema},
		{"unknown ref kind", `{"a": {"columns": {"x": {"type": "int", "refs": [{"column_name": "b.y", "dbml_ref_type": "~"}]}}}}`, ErrUnknownRefKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Schema
			err := json.Unmarshal([]byte(tt.input), &s)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestSchemaMarshalJSON_RoundTripKeepsOrder(t *testing.T) {
	var s Schema
	require.NoError(t, json.Unmarshal([]byte(parsedSource), &s))

	out, err := json.Marshal(s)
	require.NoError(t, err)

	var again Schema
	require.NoError(t, json.Unmarshal(out, &again))
	require.Len(t, again.Tables, 3)
	assert.Equal(t, []string{"users", "orders", "audit"}, []string{again.Tables[0].Name, again.Tables[1].Name, again.Tables[2].Name})
	assert.Equal(t, "user_id", again.Tables[1].Columns[0].Name)
	assert.Equal(t, ManyToOne, again.Tables[1].Columns[0].References[0].Kind)
}

func TestSchemaUnmarshalYAML(t *testing.T) {
	doc := `
b_table:
  note: second in alphabet, first in file
  columns:
    z_col:
      type: int
      primary_key: true
    a_col:
      type: varchar
      refs:
        - column_name: a_table.id
          dbml_ref_type: "<>"
a_table:
  columns:
    id:
      type: int
broken:
  description: no columns here
`
	var s Schema
	require.NoError(t, yaml.Unmarshal([]byte(doc), &s))

	require.Len(t, s.Tables, 3)
	assert.Equal(t, "b_table", s.Tables[0].Name)
	assert.Equal(t, "second in alphabet, first in file", s.Tables[0].Description)
	require.Len(t, s.Tables[0].Columns, 2)
	assert.Equal(t, "z_col", s.Tables[0].Columns[0].Name)
	assert.Equal(t, "a_col", s.Tables[0].Columns[1].Name)
	assert.Equal(t, ManyToMany, s.Tables[0].Columns[1].References[0].Kind)
	assert.Equal(t, "a_table", s.Tables[1].Name)
	assert.Nil(t, s.Tables[2].Columns)
}

func TestSchemaUnmarshalYAML_UnknownRefKind(t *testing.T) {
	doc := `
t:
  columns:
    c:
      refs:
        - column_name: u.id
          dbml_ref_type: "=>"
`
	var s Schema
	err := yaml.Unmarshal([]byte(doc), &s)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownRefKind)
}

func TestParseRefKind(t *testing.T) {
	tests := []struct {
		token string
		want  RefKind
		desc  string
	}{
		{"<", OneToMany, "one_to_many"},
		{">", ManyToOne, "many_to_one"},
		{"-", OneToOne, "one_to_one"},
		{"<>", ManyToMany, "many_to_many"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseRefKind(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
			assert.Equal(t, tt.token, got.String())
			assert.Equal(t, tt.desc, got.Description())
		})
	}

	_, err := ParseRefKind("")
	assert.ErrorIs(t, err, ErrUnknownRefKind)
	assert.False(t, RefKind(0).Valid())
}

func TestSplitColumnID(t *testing.T) {
	table, column, ok := SplitColumnID("sales.orders.id")
	assert.True(t, ok)
	assert.Equal(t, "sales", table)
	assert.Equal(t, "orders.id", column)

	_, _, ok = SplitColumnID("orders")
	assert.False(t, ok)
}
