package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runShowConfig,
}

var initConfigCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	RunE:  runInitConfig,
}

var initConfigPath string

func init() {
	initConfigCmd.Flags().StringVarP(&initConfigPath, "output", "o", "config.yaml", "path of the new config file")

	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(initConfigCmd)
}

func runShowConfig(cmd *cobra.Command, args []string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	fmt.Println(string(data))
	return nil
}

const defaultConfig = `# erdgen Configuration

server:
  host: 0.0.0.0
  port: 8080
  read_timeout: 30s
  write_timeout: 30s
  request_timeout: 25s
  max_body_size: 1048576
  shutdown_timeout: 10s
  debug: false

# DBML parse service
parser:
  url: http://localhost:8000
  timeout: 15s
  user_id: erdgen
  activity_id: dbml-editor
  service_id: erdgen

# elk: remote ELK-JSON endpoint, grid: built-in arrangement
layout:
  provider: elk
  url: http://localhost:8090/layout
  timeout: 10s
  preset: layered-right
  fallback_to_grid: true

editor:
  debounce: 400ms
  max_message_size: 1048576

logging:
  level: info
  format: json

security:
  rate_limit: 100
  allowed_origins:
    - "*"
  auth_enabled: false
  jwt_secret: change-me-in-production
  jwt_expiration: 24h
`

func runInitConfig(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(initConfigPath); err == nil {
		return fmt.Errorf("%s already exists", initConfigPath)
	}

	if err := os.WriteFile(initConfigPath, []byte(defaultConfig), 0644); err != nil {
		return err
	}

	fmt.Printf("✓ Created %s\n", initConfigPath)
	return nil
}
