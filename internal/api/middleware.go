package api

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// yamlContentTypes are the media types accepted for YAML schema documents.
var yamlContentTypes = []string{"application/yaml", "application/x-yaml", "text/yaml"}

// ValidateContentType middleware ensures that requests with a body have the correct Content-Type
func ValidateContentType(next echo.HandlerFunc) echo.HandlerFunc {
	return requireContentType(next, echo.MIMEApplicationJSON)
}

// ValidateSchemaContentType is ValidateContentType for endpoints that also
// read YAML table definition documents.
func ValidateSchemaContentType(next echo.HandlerFunc) echo.HandlerFunc {
	return requireContentType(next, append([]string{echo.MIMEApplicationJSON}, yamlContentTypes...)...)
}

func requireContentType(next echo.HandlerFunc, allowed ...string) echo.HandlerFunc {
	return func(c echo.Context) error {
		method := c.Request().Method

		// Only check POST, PUT, PATCH requests
		if method == "POST" || method == "PUT" || method == "PATCH" {
			contentType := c.Request().Header.Get("Content-Type")

			// Allow empty body for some requests
			if c.Request().ContentLength == 0 {
				return next(c)
			}

			for _, t := range allowed {
				if strings.HasPrefix(contentType, t) {
					return next(c)
				}
			}
			return BadRequestError(
				"Invalid Content-Type",
				"Content-Type must be one of '"+strings.Join(allowed, "', '")+"'. Got: "+contentType,
			)
		}

		return next(c)
	}
}

// isYAMLContentType reports whether contentType names a YAML document.
func isYAMLContentType(contentType string) bool {
	for _, t := range yamlContentTypes {
		if strings.HasPrefix(contentType, t) {
			return true
		}
	}
	return false
}

// ValidateAcceptHeader middleware ensures that clients can accept JSON responses
func ValidateAcceptHeader(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		accept := c.Request().Header.Get("Accept")

		// If no Accept header, assume */*
		if accept == "" {
			return next(c)
		}

		if !strings.Contains(accept, "application/json") &&
			!strings.Contains(accept, "*/*") &&
			!strings.Contains(accept, "application/*") {
			return BadRequestError(
				"Invalid Accept header",
				"API only returns JSON. Accept header must include 'application/json' or '*/*'. Got: "+accept,
			)
		}

		return next(c)
	}
}

// SecurityHeaders middleware adds security headers to responses
func SecurityHeaders(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("X-Content-Type-Options", "nosniff")
		c.Response().Header().Set("X-Frame-Options", "DENY")
		c.Response().Header().Set("X-XSS-Protection", "1; mode=block")
		c.Response().Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		return next(c)
	}
}

// isWebSocketUpgrade reports whether the request asks for a websocket.
func isWebSocketUpgrade(c echo.Context) bool {
	return strings.EqualFold(c.Request().Header.Get(echo.HeaderUpgrade), "websocket")
}
