package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"evalgo.org/erdgen/internal/diagram"
	"evalgo.org/erdgen/internal/introspect"
	"evalgo.org/erdgen/internal/layout"
	"evalgo.org/erdgen/internal/parser"
	"evalgo.org/erdgen/models"
	"evalgo.org/erdgen/pkg/erdgen/client"
)

var generateCmd = &cobra.Command{
	Use:   "generate [file]",
	Short: "Generate a diagram",
	Long: `Generate the node and edge graph of a schema.

The input is DBML by default, read from the file argument or stdin. With
--schema the input is an already parsed table definition document (JSON or
YAML). With --db-url the schema is read from a live PostgreSQL database.

Examples:
  erdgen generate shop.dbml
  erdgen generate shop.dbml --layout tree --format yaml -o shop.yaml
  erdgen generate tables.json --schema --grid
  erdgen generate --db-url postgres://localhost/shop --db-schema public
  erdgen generate shop.dbml --server http://localhost:8080 --token $TOKEN`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

var (
	generateLayout   string
	generateFormat   string
	generateOutput   string
	generateSchema   bool
	generateGrid     bool
	generateStrict   bool
	generateDBURL    string
	generateDBSchema string
	generateServer   string
	generateToken    string
)

func init() {
	generateCmd.Flags().StringVar(&generateLayout, "layout", "", "layout preset (default: from config)")
	generateCmd.Flags().StringVar(&generateFormat, "format", "json", "output format (json, yaml)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "output file (default: stdout)")
	generateCmd.Flags().BoolVar(&generateSchema, "schema", false, "input is a table definition document instead of DBML")
	generateCmd.Flags().BoolVar(&generateGrid, "grid", false, "use the built-in grid layout instead of ELK")
	generateCmd.Flags().BoolVar(&generateStrict, "strict", false, "exit non-zero when the diagram is incomplete")
	generateCmd.Flags().StringVar(&generateDBURL, "db-url", "", "read the schema from a PostgreSQL database")
	generateCmd.Flags().StringVar(&generateDBSchema, "db-schema", "public", "PostgreSQL schema to read with --db-url")
	generateCmd.Flags().StringVar(&generateServer, "server", "", "generate on a running erdgen server instead of locally")
	generateCmd.Flags().StringVar(&generateToken, "token", "", "client token for --server")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if generateFormat != "json" && generateFormat != "yaml" {
		return fmt.Errorf("unknown format %q (use 'json' or 'yaml')", generateFormat)
	}

	preset := generateLayout
	if preset == "" {
		preset = cfg.Layout.Preset
	}
	opts, err := layout.ParsePreset(preset)
	if err != nil {
		return err
	}

	var result interface{}
	var complete bool

	if generateServer != "" {
		d, err := generateRemote(ctx, args, preset)
		if err != nil {
			return err
		}
		result, complete = d, d.Complete
	} else {
		schema, err := loadSchema(ctx, args)
		if err != nil {
			return err
		}

		var l layout.Layouter
		if generateGrid {
			l = layout.NewGrid()
		} else if l, err = newLayouter(cfg.Layout); err != nil {
			return err
		}

		d, err := diagram.NewGenerator(l).Generate(ctx, schema, opts)
		if err != nil {
			if errors.Is(err, layout.ErrLayout) {
				return err
			}
			log.Printf("WARN: %v", err)
		}
		result, complete = d, d.Complete
	}

	out := cmd.OutOrStdout()
	if generateOutput != "" {
		f, err := os.Create(generateOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := writeOutput(out, result, generateFormat); err != nil {
		return err
	}

	if !complete && generateStrict {
		return fmt.Errorf("diagram is incomplete")
	}
	return nil
}

// loadSchema reads the schema from the database, a table definition
// document or DBML, depending on the flags.
func loadSchema(ctx context.Context, args []string) (*models.Schema, error) {
	if generateDBURL != "" {
		db, err := introspect.Connect(ctx, generateDBURL, generateDBSchema)
		if err != nil {
			return nil, err
		}
		defer db.Close(ctx)
		return db.Schema(ctx)
	}

	data, name, err := readInput(args)
	if err != nil {
		return nil, err
	}

	if generateSchema {
		return decodeSchema(data, name)
	}

	p, err := parser.New(cfg.Parser)
	if err != nil {
		return nil, err
	}
	return p.Parse(ctx, string(data))
}

func generateRemote(ctx context.Context, args []string, preset string) (*client.Diagram, error) {
	c, err := client.New(generateServer, client.WithToken(generateToken))
	if err != nil {
		return nil, err
	}

	data, name, err := readInput(args)
	if err != nil {
		return nil, err
	}

	if generateSchema {
		schema, err := decodeSchema(data, name)
		if err != nil {
			return nil, err
		}
		return c.GenerateFromSchema(ctx, schema, preset)
	}
	return c.GenerateDiagram(ctx, string(data), preset)
}

// readInput returns the content of the file argument, or stdin for none or "-".
func readInput(args []string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, "stdin", nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}
	return data, args[0], nil
}

// decodeSchema decodes a table definition document; .yaml and .yml files
// are read as YAML, everything else as JSON.
func decodeSchema(data []byte, name string) (*models.Schema, error) {
	var schema models.Schema

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("invalid schema YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("invalid schema JSON: %w", err)
		}
	}
	return &schema, nil
}

func writeOutput(w io.Writer, v interface{}, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}
