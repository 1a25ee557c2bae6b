// Package parser talks to the external DBML parse service, which turns DBML
// text into table definitions.
package parser

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

	"evalgo.org/erdgen/internal/config"
	"evalgo.org/erdgen/models"
)

// Endpoint is the path of the conversion call on the parse service.
const Endpoint = "/dbml_to_table_def"

var (
	// ErrEmptyInput is returned for blank DBML; no request is sent.
	ErrEmptyInput = errors.New("dbml input is empty")

	// ErrParseFailed is returned when the service rejects the DBML.
	ErrParseFailed = errors.New("dbml parse failed")

	// ErrServiceUnavailable is returned when the service cannot be reached.
	ErrServiceUnavailable = errors.New("parse service unavailable")
)

// ServiceError carries a non-2xx answer from the parse service.
type ServiceError struct {
	StatusCode int
	Body       string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("parse service returned status %d: %s", e.StatusCode, e.Body)
}

// Unwrap lets errors.Is match ErrParseFailed for 4xx answers and
// ErrServiceUnavailable for 5xx ones.
func (e *ServiceError) Unwrap() error {
	if e.StatusCode >= 500 {
		return ErrServiceUnavailable
	}
	return ErrParseFailed
}

// Client calls the parse service.
type Client struct {
	baseURL    string
	userID     string
	activityID string
	serviceID  string
	httpClient *http.Client
}

type request struct {
	SourceDBML  string  `json:"source_dbml"`
	TargetDBML  *string `json:"target_dbml"`
	IncludeRefs bool    `json:"include_refs"`
}

type response struct {
	ParsedSource json.RawMessage `json:"parsed_source"`
	ParsedTarget json.RawMessage `json:"parsed_target"`
}

// New returns a client for the service configured in cfg.
func New(cfg config.ParserConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("parser url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		userID:     cfg.UserID,
		activityID: cfg.ActivityID,
		serviceID:  cfg.ServiceID,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Parse converts DBML text into a schema. Double quotes are sent as single
// quotes; the service does not accept them.
func (c *Client) Parse(ctx context.Context, dbml string) (*models.Schema, error) {
	if strings.TrimSpace(dbml) == "" {
		return nil, ErrEmptyInput
	}

	payload, err := json.Marshal(request{
		SourceDBML:  strings.ReplaceAll(dbml, `"`, `'`),
		IncludeRefs: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode parse request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create parse request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-user-id", c.userID)
	req.Header.Set("X-activity-id", c.activityID)
	req.Header.Set("X-service-id", c.serviceID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrServiceUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServiceError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}

	return decodeResponse(body)
}

// decodeResponse extracts parsed_source. The service reports DBML errors as
// {"parsed_source": {"error": "..."}} with status 200.
func decodeResponse(body []byte) (*models.Schema, error) {
	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: invalid response: %v", ErrParseFailed, err)
	}
	if len(resp.ParsedSource) == 0 || string(resp.ParsedSource) == "null" {
		return nil, fmt.Errorf("%w: response has no parsed_source", ErrParseFailed)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(resp.ParsedSource, &envelope); err != nil {
		return nil, fmt.Errorf("%w: parsed_source is not an object: %v", ErrParseFailed, err)
	}
	if raw, ok := envelope["error"]; ok {
		var msg string
		if err := json.Unmarshal(raw, &msg); err == nil {
			return nil, fmt.Errorf("%w: %s", ErrParseFailed, msg)
		}
	}

	var schema models.Schema
	if err := json.Unmarshal(resp.ParsedSource, &schema); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return &schema, nil
}
