// Package validation checks table definition documents and API payloads.
//
// Two layers are covered:
//   - go-playground/validator for struct-level validation of request payloads
//   - referential checks on a decoded schema (dangling references, tables
//     without a columns field, empty names)
//
// # Usage Example
//
//	v := validation.New()
//	result, err := v.ValidateSchema(jsonData)
//	if err != nil {
//	    // Handle error
//	}
//	if !result.Valid {
//	    for _, e := range result.Errors {
//	        fmt.Printf("%s: %s\n", e.Field, e.Message)
//	    }
//	}
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"evalgo.org/erdgen/models"
)

// Validator handles schema and payload validation.
type Validator struct {
	structValidator *validator.Validate
}

// ValidationError represents a single validation error with field-level details.
type ValidationError struct {
	// Field is a path into the document, e.g. "orders.columns.user_id.refs[0]"
	Field string `json:"field" yaml:"field"`

	// Message describes why the validation failed
	Message string `json:"message" yaml:"message"`

	// Value is the invalid value that caused the error (optional)
	Value interface{} `json:"value,omitempty" yaml:"value,omitempty"`
}

// ValidationResult represents the complete result of a validation operation.
type ValidationResult struct {
	// Valid is true if validation passed, false otherwise
	Valid bool `json:"valid" yaml:"valid"`

	// Errors contains all validation errors found (empty if Valid is true)
	Errors []ValidationError `json:"errors,omitempty" yaml:"errors,omitempty"`

	// Stats summarises what was checked
	Tables     int `json:"tables" yaml:"tables"`
	Columns    int `json:"columns" yaml:"columns"`
	References int `json:"references" yaml:"references"`
}

// New creates a new Validator instance.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{structValidator: v}
}

// Struct validates a payload against its `validate` tags.
func (v *Validator) Struct(s interface{}) []ValidationError {
	err := v.structValidator.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Field: "document", Message: err.Error()}}
	}

	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: describeTag(fe),
			Value:   fe.Value(),
		})
	}
	return out
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "excluded_with":
		return fmt.Sprintf("cannot be combined with %s", fe.Param())
	default:
		return fmt.Sprintf("failed on %q", fe.Tag())
	}
}

// ValidateSchema decodes a JSON table definition document and checks it.
func (v *Validator) ValidateSchema(data []byte) (*ValidationResult, error) {
	var schema models.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return invalidDocument("Invalid schema JSON", err), nil
	}
	return v.Check(&schema), nil
}

// ValidateSchemaYAML is ValidateSchema for YAML documents.
func (v *Validator) ValidateSchemaYAML(data []byte) (*ValidationResult, error) {
	var schema models.Schema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return invalidDocument("Invalid schema YAML", err), nil
	}
	return v.Check(&schema), nil
}

func invalidDocument(prefix string, err error) *ValidationResult {
	return &ValidationResult{
		Valid: false,
		Errors: []ValidationError{
			{
				Field:   "document",
				Message: fmt.Sprintf("%s: %v", prefix, err),
			},
		},
	}
}

// Check runs the referential checks on a decoded schema. Every reference
// must point at an existing "<table>.<column>".
func (v *Validator) Check(schema *models.Schema) *ValidationResult {
	var errs []ValidationError

	if schema == nil || len(schema.Tables) == 0 {
		return &ValidationResult{
			Valid:  false,
			Errors: []ValidationError{{Field: "document", Message: "Schema has no tables"}},
		}
	}

	for _, table := range schema.Tables {
		if strings.TrimSpace(table.Name) == "" {
			errs = append(errs, ValidationError{Field: "tables", Message: "Table name cannot be empty"})
		}
		if table.Columns == nil {
			errs = append(errs, ValidationError{
				Field:   table.Name,
				Message: "Table has no columns field",
			})
			continue
		}

		for _, column := range table.Columns {
			field := fmt.Sprintf("%s.columns.%s", table.Name, column.Name)
			if strings.TrimSpace(column.Name) == "" {
				errs = append(errs, ValidationError{Field: table.Name + ".columns", Message: "Column name cannot be empty"})
			}
			if strings.TrimSpace(column.Type) == "" {
				errs = append(errs, ValidationError{Field: field + ".type", Message: "Column type is required"})
			}

			for i, ref := range column.References {
				refField := fmt.Sprintf("%s.refs[%d]", field, i)
				errs = append(errs, checkReference(schema, refField, ref)...)
			}
		}
	}

	return &ValidationResult{
		Valid:      len(errs) == 0,
		Errors:     errs,
		Tables:     len(schema.Tables),
		Columns:    schema.ColumnCount(),
		References: schema.ReferenceCount(),
	}
}

func checkReference(schema *models.Schema, field string, ref models.Reference) []ValidationError {
	var errs []ValidationError

	if !ref.Kind.Valid() {
		errs = append(errs, ValidationError{
			Field:   field + ".dbml_ref_type",
			Message: "Reference kind must be one of: <, >, -, <>",
			Value:   ref.Kind.String(),
		})
	}

	tableName, columnName, ok := models.SplitColumnID(ref.Target)
	if !ok {
		errs = append(errs, ValidationError{
			Field:   field + ".column_name",
			Message: "Reference target must be <table>.<column>",
			Value:   ref.Target,
		})
		return errs
	}

	target := schema.Table(tableName)
	if target == nil {
		errs = append(errs, ValidationError{
			Field:   field + ".column_name",
			Message: fmt.Sprintf("Referenced table %q does not exist", tableName),
			Value:   ref.Target,
		})
		return errs
	}
	if target.Column(columnName) == nil {
		errs = append(errs, ValidationError{
			Field:   field + ".column_name",
			Message: fmt.Sprintf("Referenced column %q does not exist in table %q", columnName, tableName),
			Value:   ref.Target,
		})
	}
	return errs
}
