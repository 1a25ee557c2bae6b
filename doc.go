// Package erdgen turns database schemas written in DBML into
// entity-relationship diagram graphs.
//
// # Overview
//
// DBML source is sent to an external parse service, which answers with a
// table definition document. erdgen synthesizes one table node per table,
// one column node per column, and one edge per foreign-key reference, then
// hands the graph to a layout engine for positions.
//
// The platform consists of four main components:
//   - API Server: REST API, live editor websocket and the editor page
//   - Parser Client: talks to the DBML parse service
//   - Diagram Generator: builds nodes, edges and cardinality labels
//   - Layouter: ELK layout service with a built-in grid fallback
//
// # Architecture
//
//	┌─────────────────┐
//	│  Editor Page    │
//	│  (Templ/WS)     │
//	└────────┬────────┘
//	         │
//	┌────────▼────────┐       ┌─────────────────┐
//	│  API Server     │──────►│  Parse Service  │
//	│  (Echo REST)    │       │  (DBML → JSON)  │
//	└────────┬────────┘       └─────────────────┘
//	         │
//	┌────────▼────────┐       ┌─────────────────┐
//	│  Generator      │──────►│  ELK Layout     │
//	│  (nodes/edges)  │       │  (or grid)      │
//	└─────────────────┘       └─────────────────┘
//
// # Usage
//
// Start the API server:
//
//	erdgen server --config config.yaml
//
// Generate a diagram locally:
//
//	erdgen generate shop.dbml --layout tree
//	erdgen generate tables.yaml --schema --grid
//	erdgen generate --db-url postgres://localhost/shop
//
// Validate a table definition document:
//
//	erdgen validate tables.json
//
// Issue a client token when authentication is enabled:
//
//	erdgen token client ci-bot --scopes read,generate
//
// Open the editor:
//
//	http://localhost:8080
//
// # Configuration
//
// Configuration can be provided via:
//   - YAML file (erdgen config init writes one)
//   - Environment variables (ERD_ prefix, e.g. ERD_LAYOUT_PROVIDER=grid)
//
// Example configuration:
//
//	server:
//	  port: 8080
//	parser:
//	  url: http://localhost:8000
//	layout:
//	  provider: elk
//	  url: http://localhost:8090/layout
//	  preset: layered-right
//	  fallback_to_grid: true
//	editor:
//	  debounce: 400ms
//
// # API Endpoints
//
// Diagrams:
//   - POST /api/v1/diagrams           - Generate from DBML
//   - POST /api/v1/diagrams/schema    - Generate from a parsed schema
//   - GET  /api/v1/layouts            - List layout presets
//
// Schemas:
//   - POST /api/v1/parse              - Parse DBML only
//   - POST /api/v1/schemas/validate   - Validate a table definition document
//
// Editor:
//   - GET /api/v1/ws/editor           - Live editor websocket
//   - GET /                           - Editor page
//
// # Editor Protocol
//
// The client sends {"dbml": "...", "layout": "tree"} on every change. The
// server waits for the debounce delay, drops superseded edits and answers
// with events:
//
//	{"type": "ready", "session": "session:..."}
//	{"type": "diagram", "seq": 3, "diagram": {...}}
//	{"type": "error", "seq": 4, "error": {"code": 422, "message": "..."}}
//
// # Development
//
// Run tests:
//
//	go test ./...
//
// Run integration tests (requires PostgreSQL):
//
//	ERD_TEST_DATABASE_URL=postgres://localhost/erd_test go test -tags=integration ./internal/introspect/...
//
// Build the binary:
//
//	go build -o erdgen ./cmd/erdgen
//
// # Technology Stack
//
//   - Go 1.25+
//   - Echo v4 (Web framework)
//   - Cobra and Viper (CLI and configuration)
//   - Templ (Editor page)
//   - Gorilla WebSocket (Live editor)
//   - pgx (PostgreSQL introspection)
package erdgen
