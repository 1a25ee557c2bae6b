// Package introspect reads table definitions straight from a live PostgreSQL
// database, as an alternative to parsing DBML.
package introspect

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"evalgo.org/erdgen/models"
)

// DefaultSchema is the PostgreSQL schema read when none is given.
const DefaultSchema = "public"

// Postgres extracts a models.Schema from information_schema.
type Postgres struct {
	conn   *pgx.Conn
	schema string
}

// Connect opens and pings a connection.
func Connect(ctx context.Context, connString, pgSchema string) (*Postgres, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if pgSchema == "" {
		pgSchema = DefaultSchema
	}
	return &Postgres{conn: conn, schema: pgSchema}, nil
}

// Close closes the database connection.
func (p *Postgres) Close(ctx context.Context) error {
	return p.conn.Close(ctx)
}

// Schema reads every base table with its columns, primary keys and foreign
// keys. Tables come back sorted by name, columns by ordinal position.
func (p *Postgres) Schema(ctx context.Context) (*models.Schema, error) {
	tables, err := p.tableNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}

	columns, err := p.columns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}

	pks, err := p.primaryKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to extract primary keys: %w", err)
	}

	fks, err := p.foreignKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to extract foreign keys: %w", err)
	}

	return assemble(tables, columns, pks, fks), nil
}

func (p *Postgres) tableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := p.conn.Query(ctx, query, p.schema)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (p *Postgres) columns(ctx context.Context) ([]columnRow, error) {
	query := `
		SELECT c.table_name, c.column_name, c.data_type, c.udt_name,
			c.character_maximum_length,
			col_description(format('%I.%I', c.table_schema, c.table_name)::regclass, c.ordinal_position)
		FROM information_schema.columns c
		JOIN information_schema.tables t
			ON t.table_schema = c.table_schema AND t.table_name = c.table_name
		WHERE c.table_schema = $1 AND t.table_type = 'BASE TABLE'
		ORDER BY c.table_name, c.ordinal_position
	`

	rows, err := p.conn.Query(ctx, query, p.schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []columnRow
	for rows.Next() {
		var r columnRow
		var dataType, udtName string
		var charMaxLength *int
		var note *string
		if err := rows.Scan(&r.Table, &r.Name, &dataType, &udtName, &charMaxLength, &note); err != nil {
			return nil, err
		}
		r.Type = normalizeType(dataType, udtName, charMaxLength)
		if note != nil {
			r.Note = *note
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *Postgres) primaryKeys(ctx context.Context) ([]keyRow, error) {
	query := `
		SELECT kcu.table_name, kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.table_schema = $1 AND tc.constraint_type = 'PRIMARY KEY'
		ORDER BY kcu.table_name, kcu.ordinal_position
	`

	rows, err := p.conn.Query(ctx, query, p.schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []keyRow
	for rows.Next() {
		var r keyRow
		if err := rows.Scan(&r.Table, &r.Column); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *Postgres) foreignKeys(ctx context.Context) ([]foreignKeyRow, error) {
	query := `
		SELECT
			kcu.table_name,
			kcu.column_name,
			ccu.table_name AS foreign_table_name,
			ccu.column_name AS foreign_column_name
		FROM information_schema.table_constraints AS tc
		JOIN information_schema.key_column_usage AS kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage AS ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY' AND tc.table_schema = $1
		ORDER BY kcu.table_name, kcu.ordinal_position
	`

	rows, err := p.conn.Query(ctx, query, p.schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []foreignKeyRow
	for rows.Next() {
		var r foreignKeyRow
		if err := rows.Scan(&r.Table, &r.Column, &r.TargetTable, &r.TargetColumn); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
