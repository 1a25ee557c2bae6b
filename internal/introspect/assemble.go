package introspect

import (
	"fmt"

	"evalgo.org/erdgen/models"
)

type columnRow struct {
	Table string
	Name  string
	Type  string
	Note  string
}

type keyRow struct {
	Table  string
	Column string
}

type foreignKeyRow struct {
	Table        string
	Column       string
	TargetTable  string
	TargetColumn string
}

// assemble builds the schema from the catalog rows. A foreign key column
// that is also the whole primary key of its table becomes a one-to-one
// reference, every other one many-to-one.
func assemble(tables []string, columns []columnRow, pks []keyRow, fks []foreignKeyRow) *models.Schema {
	schema := &models.Schema{Tables: make([]models.Table, 0, len(tables))}
	index := make(map[string]int, len(tables))
	for _, name := range tables {
		index[name] = len(schema.Tables)
		schema.Tables = append(schema.Tables, models.Table{Name: name, Columns: make([]models.Column, 0)})
	}

	for _, c := range columns {
		i, ok := index[c.Table]
		if !ok {
			continue
		}
		schema.Tables[i].Columns = append(schema.Tables[i].Columns, models.Column{
			Name:       c.Name,
			Type:       c.Type,
			Note:       c.Note,
			References: make([]models.Reference, 0),
		})
	}

	pkCount := make(map[string]int)
	for _, pk := range pks {
		if col := lookup(schema, index, pk.Table, pk.Column); col != nil {
			col.PrimaryKey = true
			pkCount[pk.Table]++
		}
	}

	for _, fk := range fks {
		col := lookup(schema, index, fk.Table, fk.Column)
		if col == nil {
			continue
		}

		kind := models.ManyToOne
		if col.PrimaryKey && pkCount[fk.Table] == 1 {
			kind = models.OneToOne
		}
		col.References = append(col.References, models.Reference{
			Target:      models.ColumnID(fk.TargetTable, fk.TargetColumn),
			Kind:        kind,
			Description: kind.Description(),
		})

		t := &schema.Tables[index[fk.Table]]
		if !contains(t.Refs, fk.TargetTable) {
			t.Refs = append(t.Refs, fk.TargetTable)
		}
	}

	return schema
}

func lookup(schema *models.Schema, index map[string]int, table, column string) *models.Column {
	i, ok := index[table]
	if !ok {
		return nil
	}
	return schema.Tables[i].Column(column)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// normalizeType maps verbose SQL type names to their usual PostgreSQL spelling.
func normalizeType(dataType, udtName string, charMaxLength *int) string {
	switch dataType {
	case "timestamp with time zone":
		return "timestamptz"
	case "timestamp without time zone":
		return "timestamp"
	case "time with time zone":
		return "timetz"
	case "time without time zone":
		return "time"
	case "character varying":
		if charMaxLength != nil {
			return fmt.Sprintf("varchar(%d)", *charMaxLength)
		}
		return "varchar"
	case "character":
		if charMaxLength != nil {
			return fmt.Sprintf("char(%d)", *charMaxLength)
		}
		return "char"
	case "ARRAY":
		// udt_name carries a leading underscore for arrays, e.g. "_int4"
		if len(udtName) > 1 && udtName[0] == '_' {
			return normalizeUdtName(udtName[1:]) + "[]"
		}
		return "array"
	case "USER-DEFINED":
		return udtName
	default:
		return dataType
	}
}

func normalizeUdtName(udtName string) string {
	switch udtName {
	case "int4":
		return "integer"
	case "int8":
		return "bigint"
	case "int2":
		return "smallint"
	case "float4":
		return "real"
	case "float8":
		return "double precision"
	case "bool":
		return "boolean"
	default:
		return udtName
	}
}
