package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>careconnect — Swagger</title>
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

// Minimal OpenAPI document describing the auth and patient endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "careconnect", "version": "v0.1.0" },
  "paths": {
    "/api/auth/signup": {
      "post": {
        "summary": "Create a patient account and start a session",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"name":{"type":"string"},"email":{"type":"string"},"password":{"type":"string"},"phone":{"type":"string"}}}}}},
        "responses": { "201": { "description": "account created, session cookie set" }, "400": { "description": "signup failed" } }
      }
    },
    "/api/auth/login": {
      "post": {
        "summary": "Authenticate with email and password",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"},"role":{"type":"string"}}}}}},
        "responses": { "200": { "description": "session cookie set" }, "401": { "description": "invalid credentials" } }
      }
    },
    "/api/auth/logout": {
      "post": { "summary": "End the current session and clear the cookie", "responses": { "200": { "description": "logged out" } } }
    },
    "/api/auth/forgot-password": {
      "post": { "summary": "Send a password recovery email", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"}}}}}}, "responses": { "200": { "description": "recovery mail sent" } } }
    },
    "/api/auth/reset-password": {
      "post": { "summary": "Complete password recovery", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"userId":{"type":"string"},"secret":{"type":"string"},"password":{"type":"string"}}}}}}, "responses": { "200": { "description": "password updated" }, "400": { "description": "invalid or expired link" } } }
    },
    "/api/auth/verify-email": {
      "post": { "summary": "Confirm email verification", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"userId":{"type":"string"},"secret":{"type":"string"}}}}}}, "responses": { "200": { "description": "email verified" } } }
    },
    "/api/me": {
      "get": { "summary": "Get the current session", "responses": { "200": { "description": "session record" }, "401": { "description": "no session" } } }
    },
    "/api/patients": {
      "get": { "summary": "List registered patients", "responses": { "200": { "description": "patient list" } } },
      "post": { "summary": "Register a patient profile", "responses": { "201": { "description": "patient created" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
