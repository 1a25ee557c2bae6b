// Command erdgen serves and generates entity-relationship diagrams from DBML.
//
//go:generate swag init -g cmd/erdgen/main.go -d ../../ -o ../../docs
//
// @title erdgen API
// @version 1.0
// @description Turns DBML schemas into entity-relationship diagram graphs.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"fmt"
	"os"

	"evalgo.org/erdgen/internal/commands"
	"evalgo.org/erdgen/internal/version"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	version.Version = Version
	version.BuildTime = BuildTime
	version.GitCommit = GitCommit

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
