package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownRefKind is returned when a reference carries a token outside <, >, - and <>.
	ErrUnknownRefKind = errors.New("unknown reference kind")

	// ErrMalformedSchema is returned when a table definition document cannot be decoded.
	ErrMalformedSchema = errors.New("malformed schema")
)

// RefKind is the relationship kind of a column reference, read from the
// perspective of the column that holds the reference.
type RefKind uint8

const (
	// OneToMany is the DBML "<" token.
	OneToMany RefKind = iota + 1
	// ManyToOne is the DBML ">" token.
	ManyToOne
	// OneToOne is the DBML "-" token.
	OneToOne
	// ManyToMany is the DBML "<>" token.
	ManyToMany
)

var refKindTokens = map[RefKind]string{
	OneToMany:  "<",
	ManyToOne:  ">",
	OneToOne:   "-",
	ManyToMany: "<>",
}

var refKindDescriptions = map[RefKind]string{
	OneToMany:  "one_to_many",
	ManyToOne:  "many_to_one",
	OneToOne:   "one_to_one",
	ManyToMany: "many_to_many",
}

// ParseRefKind maps a DBML relationship token to its RefKind.
func ParseRefKind(token string) (RefKind, error) {
	for kind, t := range refKindTokens {
		if t == token {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRefKind, token)
}

// Valid reports whether k is one of the four declared kinds.
func (k RefKind) Valid() bool {
	_, ok := refKindTokens[k]
	return ok
}

// String returns the DBML token.
func (k RefKind) String() string {
	if t, ok := refKindTokens[k]; ok {
		return t
	}
	return fmt.Sprintf("RefKind(%d)", uint8(k))
}

// Description returns the long form used by the parse service, e.g. "many_to_one".
func (k RefKind) Description() string {
	return refKindDescriptions[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k RefKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRefKind, uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *RefKind) UnmarshalText(text []byte) error {
	parsed, err := ParseRefKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *RefKind) UnmarshalYAML(value *yaml.Node) error {
	var token string
	if err := value.Decode(&token); err != nil {
		return err
	}
	return k.UnmarshalText([]byte(token))
}

// Reference points from a column to a target column.
type Reference struct {
	// Target is the referenced column as "<table>.<column>".
	Target string `json:"column_name" yaml:"column_name"`

	Kind RefKind `json:"dbml_ref_type" yaml:"dbml_ref_type"`

	// Description is the long form of Kind as sent by the parse service (optional).
	Description string `json:"ref_description,omitempty" yaml:"ref_description,omitempty"`
}

// Column is a single column of a table.
type Column struct {
	Name       string      `json:"name" yaml:"name"`
	Type       string      `json:"type" yaml:"type"`
	PrimaryKey bool        `json:"primary_key" yaml:"primary_key"`
	Note       string      `json:"note,omitempty" yaml:"note,omitempty"`
	References []Reference `json:"refs" yaml:"refs"`
}

// Table is a table definition. Columns keep the order in which the
// document declared them.
//
// A nil Columns slice means the document had no "columns" field at all;
// an empty table decodes to a non-nil, zero-length slice.
type Table struct {
	Name        string   `json:"-" yaml:"-"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Columns     []Column `json:"-" yaml:"-"`
	Refs        []string `json:"refs,omitempty" yaml:"refs,omitempty"`
}

// Column returns the named column, or nil.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// Schema is an ordered set of tables, as produced by the DBML parse service
// under "parsed_source".
type Schema struct {
	Tables []Table
}

// Table returns the named table, or nil.
func (s *Schema) Table(name string) *Table {
	if s == nil {
		return nil
	}
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// ColumnCount returns the number of columns across all tables.
func (s *Schema) ColumnCount() int {
	n := 0
	for _, t := range s.Tables {
		n += len(t.Columns)
	}
	return n
}

// ReferenceCount returns the number of references across all columns.
func (s *Schema) ReferenceCount() int {
	n := 0
	for _, t := range s.Tables {
		for _, c := range t.Columns {
			n += len(c.References)
		}
	}
	return n
}

// tableDocument mirrors the wire form of a table. Columns stays raw so the
// key order can be recovered.
type tableDocument struct {
	Description *string         `json:"description"`
	Note        *string         `json:"note"`
	Columns     json.RawMessage `json:"columns"`
	Refs        []string        `json:"refs"`
}

// UnmarshalJSON decodes the table-name keyed object, keeping key order.
func (s *Schema) UnmarshalJSON(data []byte) error {
	if isJSONNull(data) {
		s.Tables = nil
		return nil
	}
	tables := make([]Table, 0)
	err := decodeOrderedObject(data, func(name string, raw json.RawMessage) error {
		var t Table
		if err := json.Unmarshal(raw, &t); err != nil {
			return fmt.Errorf("table %q: %w", name, err)
		}
		t.Name = name
		tables = append(tables, t)
		return nil
	})
	if err != nil {
		return err
	}
	s.Tables = tables
	return nil
}

// MarshalJSON encodes the schema back into its table-name keyed form.
func (s Schema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, t := range s.Tables {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKeyValue(&buf, t.Name, t); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a table, keeping the column order.
func (t *Table) UnmarshalJSON(data []byte) error {
	var doc tableDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSchema, err)
	}

	switch {
	case doc.Description != nil:
		t.Description = *doc.Description
	case doc.Note != nil:
		t.Description = *doc.Note
	}
	t.Refs = doc.Refs

	if len(doc.Columns) == 0 || isJSONNull(doc.Columns) {
		t.Columns = nil
		return nil
	}

	columns := make([]Column, 0)
	err := decodeOrderedObject(doc.Columns, func(name string, raw json.RawMessage) error {
		var c Column
		if err := json.Unmarshal(raw, &c); err != nil {
			return fmt.Errorf("column %q: %w", name, err)
		}
		// The key is authoritative; "name" inside the object may keep the
		// original casing.
		c.Name = name
		columns = append(columns, c)
		return nil
	})
	if err != nil {
		return err
	}
	t.Columns = columns
	return nil
}

// MarshalJSON encodes a table with its ordered columns.
func (t Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if t.Description != "" {
		if err := writeKeyValue(&buf, "description", t.Description); err != nil {
			return nil, err
		}
		buf.WriteByte(',')
	}
	buf.WriteString(`"columns":`)
	if t.Columns == nil {
		buf.WriteString("null")
	} else {
		buf.WriteByte('{')
		for i, c := range t.Columns {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeKeyValue(&buf, c.Name, c); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
	}
	if len(t.Refs) > 0 {
		buf.WriteByte(',')
		if err := writeKeyValue(&buf, "refs", t.Refs); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalYAML decodes a table-name keyed mapping, keeping key order.
func (s *Schema) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: schema must be a mapping (line %d)", ErrMalformedSchema, value.Line)
	}
	tables := make([]Table, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		var t Table
		if err := value.Content[i+1].Decode(&t); err != nil {
			return fmt.Errorf("table %q: %w", name, err)
		}
		t.Name = name
		tables = append(tables, t)
	}
	s.Tables = tables
	return nil
}

// UnmarshalYAML decodes a table, keeping the column order.
func (t *Table) UnmarshalYAML(value *yaml.Node) error {
	var doc struct {
		Description *string   `yaml:"description"`
		Note        *string   `yaml:"note"`
		Columns     yaml.Node `yaml:"columns"`
		Refs        []string  `yaml:"refs"`
	}
	if err := value.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSchema, err)
	}

	switch {
	case doc.Description != nil:
		t.Description = *doc.Description
	case doc.Note != nil:
		t.Description = *doc.Note
	}
	t.Refs = doc.Refs

	if doc.Columns.Kind == 0 || doc.Columns.Tag == "!!null" {
		t.Columns = nil
		return nil
	}
	if doc.Columns.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: columns must be a mapping (line %d)", ErrMalformedSchema, doc.Columns.Line)
	}

	columns := make([]Column, 0, len(doc.Columns.Content)/2)
	for i := 0; i+1 < len(doc.Columns.Content); i += 2 {
		name := doc.Columns.Content[i].Value
		var c Column
		if err := doc.Columns.Content[i+1].Decode(&c); err != nil {
			return fmt.Errorf("column %q: %w", name, err)
		}
		c.Name = name
		columns = append(columns, c)
	}
	t.Columns = columns
	return nil
}

// decodeOrderedObject walks a JSON object and calls fn for every member in
// document order.
func decodeOrderedObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSchema, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: expected object, got %v", ErrMalformedSchema, tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedSchema, err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: expected object key, got %v", ErrMalformedSchema, tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedSchema, err)
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSchema, err)
	}
	return nil
}

func writeKeyValue(buf *bytes.Buffer, key string, value interface{}) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

func isJSONNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}
