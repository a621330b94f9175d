package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger serves the API description.
// - GET /swagger/index.html  -> Swagger UI loading doc.json
// - GET /swagger/doc.json    -> OpenAPI document
func RegisterSwagger(rg gin.IRoutes) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>halcyon site API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "halcyon-site", "version": "v1.0.0" },
  "paths": {
    "/api/newsletter": {
      "post": {
        "summary": "Subscribe an email address with every configured provider",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["email"],"properties":{"email":{"type":"string"}}}}}},
        "responses": {
          "200": { "description": "subscribed; warnings lists providers that failed" },
          "400": { "description": "missing or malformed email" },
          "429": { "description": "rate limited" },
          "500": { "description": "every provider failed, or none configured" }
        }
      }
    },
    "/api/sponsor-inquiry": {
      "post": {
        "summary": "Submit a sponsorship inquiry",
        "parameters": [ { "name": "X-Bot-Token", "in": "header", "schema": {"type":"string"} } ],
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["firstName","lastName","company","email","source"],"properties":{"firstName":{"type":"string"},"lastName":{"type":"string"},"company":{"type":"string"},"email":{"type":"string"},"phone":{"type":"string"},"message":{"type":"string"},"source":{"type":"string"}}}}}},
        "responses": {
          "200": { "description": "accepted" },
          "400": { "description": "validation failed" },
          "403": { "description": "bot verification failed" },
          "502": { "description": "the CRM webhook rejected the inquiry" }
        }
      }
    },
    "/api/admin/inquiries": {
      "get": { "summary": "List stored inquiries", "security": [ { "bearer": [] } ], "responses": { "200": { "description": "inquiries, newest first" }, "401": { "description": "missing or invalid token" }, "403": { "description": "not an admin" } } }
    },
    "/api/content/cards": { "get": { "summary": "Showcase cards", "parameters": [ { "name": "category", "in": "query", "schema": {"type":"string"} } ], "responses": { "200": { "description": "cards" } } } },
    "/api/content/feed": { "get": { "summary": "Editorial feed", "parameters": [ { "name": "type", "in": "query", "schema": {"type":"string","enum":["video","article","podcast","newsletter"]} } ], "responses": { "200": { "description": "feed items, newest first" }, "400": { "description": "unknown type" } } } },
    "/api/content/events": { "get": { "summary": "Upcoming events", "responses": { "200": { "description": "events" } } } },
    "/api/content/pricing": { "get": { "summary": "Sponsorship pricing plans", "responses": { "200": { "description": "plans" } } } },
    "/api/timeline/{name}": {
      "get": {
        "summary": "Evaluate a timeline preset at progress p",
        "parameters": [ { "name": "name", "in": "path", "required": true, "schema": {"type":"string"} }, { "name": "p", "in": "query", "schema": {"type":"number"} } ],
        "responses": { "200": { "description": "property values" }, "400": { "description": "bad progress" }, "404": { "description": "unknown preset" } }
      }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  },
  "components": { "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer" } } }
}`
