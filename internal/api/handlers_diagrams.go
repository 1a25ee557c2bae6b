package api

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"evalgo.org/erdgen/internal/diagram"
	"evalgo.org/erdgen/internal/layout"
	"evalgo.org/erdgen/models"
)

// @Summary List layout presets
// @Description List the layout presets accepted by the diagram endpoints and the editor
// @Tags Layouts
// @Produce json
// @Success 200 {object} LayoutsResponse
// @Failure 401 {object} APIError "Unauthorized"
// @Router /layouts [get]
func (s *Server) listLayouts(c echo.Context) error {
	names := layout.Presets()
	presets := make([]LayoutPreset, 0, len(names))
	for _, name := range names {
		opts, err := layout.ParsePreset(name)
		if err != nil {
			continue
		}
		presets = append(presets, LayoutPreset{
			Name:      name,
			Algorithm: string(opts.Algorithm),
			Direction: string(opts.Direction),
		})
	}

	return c.JSON(http.StatusOK, LayoutsResponse{
		Default:  s.defaultPreset(),
		Provider: s.config.Layout.Provider,
		Presets:  presets,
	})
}

// @Summary Parse DBML
// @Description Convert DBML text into table definitions using the parse service
// @Tags Schemas
// @Accept json
// @Produce json
// @Param request body ParseRequest true "DBML document"
// @Success 200 {object} ParseResponse
// @Failure 400 {object} APIError
// @Failure 422 {object} APIError "DBML rejected by the parse service"
// @Failure 502 {object} APIError "Parse service unavailable"
// @Router /parse [post]
func (s *Server) parseDBML(c echo.Context) error {
	var req ParseRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestError("Invalid request body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	schema, err := s.parser.Parse(c.Request().Context(), req.DBML)
	if err != nil {
		log.Printf("ERROR: Failed to parse DBML: %v", err)
		return pipelineError(err)
	}

	return c.JSON(http.StatusOK, ParseResponse{
		Schema: schema,
		Stats: diagram.Stats{
			Tables:     len(schema.Tables),
			Columns:    schema.ColumnCount(),
			References: schema.ReferenceCount(),
		},
	})
}

// @Summary Validate a schema document
// @Description Check a table definition document (JSON or YAML) for dangling references and missing fields
// @Tags Schemas
// @Accept json
// @Accept x-yaml
// @Produce json
// @Param request body object true "Table definition document"
// @Success 200 {object} ValidateSchemaResponse
// @Failure 400 {object} ValidateSchemaResponse
// @Router /schemas/validate [post]
func (s *Server) validateSchema(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return BadRequestError("Failed to read request body", err.Error())
	}

	validate := s.validator.ValidateSchema
	if isYAMLContentType(c.Request().Header.Get(echo.HeaderContentType)) {
		validate = s.validator.ValidateSchemaYAML
	}

	result, err := validate(body)
	if err != nil {
		return InternalError("Validation error", err.Error())
	}

	if result.Valid {
		return c.JSON(http.StatusOK, result)
	}
	return c.JSON(http.StatusBadRequest, result)
}

// @Summary Generate a diagram from DBML
// @Description Parse DBML, lay out the tables and return the node and edge graph
// @Tags Diagrams
// @Accept json
// @Produce json
// @Param request body GenerateRequest true "DBML document and layout preset"
// @Success 200 {object} diagram.Diagram "complete is false when synthesis stopped early"
// @Failure 400 {object} APIError
// @Failure 422 {object} APIError "DBML rejected by the parse service"
// @Failure 502 {object} APIError "Parse service or layout engine failed"
// @Router /diagrams [post]
func (s *Server) generateDiagram(c echo.Context) error {
	var req GenerateRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestError("Invalid request body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	opts, err := s.layoutOptions(req.Layout)
	if err != nil {
		return BadRequestError("Invalid layout", err.Error())
	}

	d, err := s.generate(c.Request().Context(), req.DBML, opts)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// @Summary Generate a diagram from table definitions
// @Description Lay out an already parsed schema and return the node and edge graph
// @Tags Diagrams
// @Accept json
// @Produce json
// @Param request body SchemaGenerateRequest true "Schema and layout preset"
// @Success 200 {object} diagram.Diagram "complete is false when synthesis stopped early"
// @Failure 400 {object} APIError
// @Failure 502 {object} APIError "Layout engine failed"
// @Router /diagrams/schema [post]
func (s *Server) generateFromSchema(c echo.Context) error {
	var req SchemaGenerateRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestError("Invalid request body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	opts, err := s.layoutOptions(req.Layout)
	if err != nil {
		return BadRequestError("Invalid layout", err.Error())
	}

	d, err := s.synthesize(c.Request().Context(), req.Schema, opts)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// generate runs parse and synthesis for one DBML document.
func (s *Server) generate(ctx context.Context, dbml string, opts layout.Options) (*diagram.Diagram, error) {
	schema, err := s.parser.Parse(ctx, dbml)
	if err != nil {
		s.debugLog("DEBUG: parse failed: %v", err)
		return nil, pipelineError(err)
	}
	return s.synthesize(ctx, schema, opts)
}

// synthesize runs the generator. Synthesis faults are reported inside the
// diagram (complete=false); only layout and context failures are errors.
func (s *Server) synthesize(ctx context.Context, schema *models.Schema, opts layout.Options) (*diagram.Diagram, error) {
	d, err := s.generator.Generate(ctx, schema, opts)
	if err == nil {
		return d, nil
	}

	if errors.Is(err, layout.ErrLayout) {
		log.Printf("ERROR: Layout failed: %v", err)
		return nil, pipelineError(err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, pipelineError(ctxErr)
	}

	log.Printf("ERROR: Diagram incomplete: %v", err)
	return d, nil
}
