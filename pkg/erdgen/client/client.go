// Package client is a Go client for the erdgen HTTP API.
//
//	c, err := client.New("http://localhost:8080", client.WithToken(token))
//	if err != nil {
//	    return err
//	}
//	d, err := c.GenerateDiagram(ctx, dbml, "tree")
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"evalgo.org/erdgen/models"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sends token as a bearer token on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is required")
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Error is a non-2xx answer from the server.
type Error struct {
	StatusCode  int               `json:"code"`
	Message     string            `json:"message"`
	Details     string            `json:"details,omitempty"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("erdgen: %d %s: %s", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("erdgen: %d %s", e.StatusCode, e.Message)
}

// Stats counts what a diagram was built from.
type Stats struct {
	Tables     int `json:"tables" yaml:"tables"`
	Columns    int `json:"columns" yaml:"columns"`
	References int `json:"references" yaml:"references"`
}

// Diagram is the generated graph as returned by the server.
type Diagram struct {
	Nodes         []models.Node     `json:"nodes" yaml:"nodes"`
	Edges         []models.Edge     `json:"edges" yaml:"edges"`
	TableEdges    []models.Edge     `json:"table_edges" yaml:"table_edges"`
	SourceColumns []string          `json:"source_columns" yaml:"source_columns"`
	TargetColumns []string          `json:"target_columns" yaml:"target_columns"`
	Layout        map[string]string `json:"layout" yaml:"layout"`
	Stats         Stats             `json:"stats" yaml:"stats"`
	Complete      bool              `json:"complete" yaml:"complete"`
	Errors        []string          `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Problem is one finding of schema validation.
type Problem struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationResult is the answer of ValidateSchema.
type ValidationResult struct {
	Valid      bool      `json:"valid"`
	Errors     []Problem `json:"errors,omitempty"`
	Tables     int       `json:"tables"`
	Columns    int       `json:"columns"`
	References int       `json:"references"`
}

// GenerateDiagram sends DBML to the server and returns the diagram. An empty
// layout selects the server default.
func (c *Client) GenerateDiagram(ctx context.Context, dbml, layout string) (*Diagram, error) {
	body := map[string]string{"dbml": dbml}
	if layout != "" {
		body["layout"] = layout
	}

	var d Diagram
	if err := c.post(ctx, "/api/v1/diagrams", body, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// GenerateFromSchema lays out an already parsed schema on the server.
func (c *Client) GenerateFromSchema(ctx context.Context, schema *models.Schema, layout string) (*Diagram, error) {
	body := struct {
		Schema *models.Schema `json:"schema"`
		Layout string         `json:"layout,omitempty"`
	}{schema, layout}

	var d Diagram
	if err := c.post(ctx, "/api/v1/diagrams/schema", body, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Content types accepted by ValidateSchema.
const (
	ContentTypeJSON = "application/json"
	ContentTypeYAML = "application/x-yaml"
)

// ValidateSchema checks a table definition document on the server.
// contentType is ContentTypeJSON or ContentTypeYAML; empty means JSON. An
// invalid document is not an error: inspect result.Valid.
func (c *Client) ValidateSchema(ctx context.Context, document []byte, contentType string) (*ValidationResult, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/schemas/validate", bytes.NewReader(document))
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to API: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadRequest {
		return nil, decodeError(resp.StatusCode, data)
	}

	// A 400 without findings comes from request checks, not from validation.
	var result ValidationResult
	if err := json.Unmarshal(data, &result); err != nil ||
		(resp.StatusCode == http.StatusBadRequest && len(result.Errors) == 0) {
		return nil, decodeError(resp.StatusCode, data)
	}
	return &result, nil
}

// Layouts returns the preset names the server accepts.
func (c *Client) Layouts(ctx context.Context) ([]string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/layouts", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Presets []struct {
			Name string `json:"name"`
		} `json:"presets"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(resp.Presets))
	for _, p := range resp.Presets {
		names = append(names, p.Name)
	}
	return names, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", ContentTypeJSON)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to API: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(status int, data []byte) error {
	apiErr := &Error{}
	if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
		apiErr.Details = strings.TrimSpace(string(data))
	}
	apiErr.StatusCode = status
	return apiErr
}

// IsStatus reports whether err is an API error with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
