package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"evalgo.org/erdgen/internal/validation"
	"evalgo.org/erdgen/pkg/erdgen/client"
)

var (
	validateServer string
	validateToken  string
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a table definition document",
	Long: `Check a table definition document (JSON or YAML) for references to
missing tables or columns, tables without columns and columns without a type.

Examples:
  erdgen validate tables.json
  erdgen validate tables.yaml
  erdgen validate tables.json --server http://localhost:8080`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateServer, "server", "", "validate on a running erdgen server instead of locally")
	validateCmd.Flags().StringVar(&validateToken, "token", "", "client token for --server")
}

func runValidate(cmd *cobra.Command, args []string) error {
	filename := args[0]

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if validateServer != "" {
		return runAPIValidation(cmd, data, filename)
	}
	return runLocalValidation(data, filename)
}

// runLocalValidation validates the document locally
func runLocalValidation(data []byte, filename string) error {
	validator := validation.New()

	var result *validation.ValidationResult
	var err error

	if schemaContentType(filename) == client.ContentTypeYAML {
		result, err = validator.ValidateSchemaYAML(data)
	} else {
		result, err = validator.ValidateSchema(data)
	}
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	problems := make([]client.Problem, 0, len(result.Errors))
	for _, e := range result.Errors {
		problems = append(problems, client.Problem{Field: e.Field, Message: e.Message, Value: e.Value})
	}
	return report(result.Valid, result.Tables, result.Columns, result.References, problems)
}

// runAPIValidation validates the document via API
func runAPIValidation(cmd *cobra.Command, data []byte, filename string) error {
	c, err := client.New(validateServer, client.WithToken(validateToken))
	if err != nil {
		return err
	}

	result, err := c.ValidateSchema(cmd.Context(), data, schemaContentType(filename))
	if err != nil {
		return err
	}
	return report(result.Valid, result.Tables, result.Columns, result.References, result.Errors)
}

// schemaContentType picks the upload type from the file extension.
func schemaContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return client.ContentTypeYAML
	default:
		return client.ContentTypeJSON
	}
}

func report(valid bool, tables, columns, refs int, problems []client.Problem) error {
	if valid {
		fmt.Printf("✓ Document is valid (%d tables, %d columns, %d references)\n", tables, columns, refs)
		return nil
	}

	fmt.Println("✗ Validation failed:")
	for _, e := range problems {
		if e.Value != nil {
			fmt.Printf("  - %s: %s (value: %v)\n", e.Field, e.Message, e.Value)
		} else {
			fmt.Printf("  - %s: %s\n", e.Field, e.Message)
		}
	}

	return fmt.Errorf("validation failed")
}
