package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	v := New()
	assert.NotNil(t, v)
	assert.NotNil(t, v.structValidator)
}

func hasError(result *ValidationResult, field string) bool {
	for _, e := range result.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

func TestValidateSchema_Valid(t *testing.T) {
	v := New()

	doc := []byte(`{
		"users":  {"columns": {"id": {"name": "id", "type": "int", "primary_key": true, "refs": []}}},
		"orders": {"columns": {
			"id":      {"name": "id", "type": "int", "primary_key": true, "refs": []},
			"user_id": {"name": "user_id", "type": "int", "refs": [{"column_name": "users.id", "dbml_ref_type": ">"}]}
		}}
	}`)

	result, err := v.ValidateSchema(doc)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 2, result.Tables)
	assert.Equal(t, 3, result.Columns)
	assert.Equal(t, 1, result.References)
}

func TestValidateSchema_DanglingReferences(t *testing.T) {
	v := New()

	doc := []byte(`{
		"orders": {"columns": {
			"user_id":  {"name": "user_id", "type": "int", "refs": [{"column_name": "users.id", "dbml_ref_type": ">"}]},
			"self_id":  {"name": "self_id", "type": "int", "refs": [{"column_name": "orders.nope", "dbml_ref_type": "-"}]},
			"plain_id": {"name": "plain_id", "type": "int", "refs": [{"column_name": "orders", "dbml_ref_type": "<"}]}
		}}
	}`)

	result, err := v.ValidateSchema(doc)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 3)
	assert.True(t, hasError(result, "orders.columns.user_id.refs[0].column_name"))
	assert.True(t, hasError(result, "orders.columns.self_id.refs[0].column_name"))
	assert.True(t, hasError(result, "orders.columns.plain_id.refs[0].column_name"))
}

func TestValidateSchema_MissingColumns(t *testing.T) {
	v := New()

	result, err := v.ValidateSchema([]byte(`{"broken": {"description": "x"}}`))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.True(t, hasError(result, "broken"))
}

func TestValidateSchema_MissingType(t *testing.T) {
	v := New()

	result, err := v.ValidateSchema([]byte(`{"t": {"columns": {"c": {"name": "c", "refs": []}}}}`))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.True(t, hasError(result, "t.columns.c.type"))
}

func TestValidateSchema_InvalidJSON(t *testing.T) {
	v := New()

	result, err := v.ValidateSchema([]byte(`{"t": `))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "document", result.Errors[0].Field)
}

func TestValidateSchema_UnknownKind(t *testing.T) {
	v := New()

	result, err := v.ValidateSchema([]byte(`{"t": {"columns": {"c": {"name": "c", "type": "int",
		"refs": [{"column_name": "t.c", "dbml_ref_type": "<->"}]}}}}`))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors[0].Message, "unknown reference kind")
}

func TestValidateSchema_Empty(t *testing.T) {
	v := New()

	result, err := v.ValidateSchema([]byte(`{}`))
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestValidateSchemaYAML(t *testing.T) {
	v := New()

	doc := []byte(`
users:
  columns:
    id: {name: id, type: int, primary_key: true}
orders:
  columns:
    user_id:
      name: user_id
      type: int
      refs:
        - {column_name: users.id, dbml_ref_type: ">"}
`)

	result, err := v.ValidateSchemaYAML(doc)
	require.NoError(t, err)
	assert.True(t, result.Valid, "%v", result.Errors)
	assert.Equal(t, 1, result.References)
}

func TestStruct(t *testing.T) {
	v := New()

	type payload struct {
		DBML   string `json:"dbml" validate:"required"`
		Layout string `json:"layout" validate:"omitempty,oneof=tree force"`
	}

	assert.Empty(t, v.Struct(payload{DBML: "Table a {}", Layout: "tree"}))

	errs := v.Struct(payload{Layout: "spiral"})
	require.Len(t, errs, 2)
	assert.Equal(t, "dbml", errs[0].Field)
	assert.Equal(t, "dbml is required", errs[0].Message)
	assert.Equal(t, "layout", errs[1].Field)
	assert.Equal(t, "must be one of: tree, force", errs[1].Message)
}
