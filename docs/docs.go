// Package docs registers the OpenAPI document served at /swagger. The
// document is maintained by hand next to the handler annotations; the router
// tests fail when a served route is missing from it.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/register": {"post": {"tags": ["registration"], "summary": "Register with email", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}}},
        "/auth/federated": {"post": {"tags": ["registration"], "summary": "Sign in with identity provider", "responses": {"200": {"description": "OK"}, "201": {"description": "Created"}}}},
        "/auth/check-field": {"post": {"tags": ["registration"], "summary": "Validate one sign-up field", "responses": {"200": {"description": "OK"}}}},
        "/auth/password-strength": {"post": {"tags": ["registration"], "summary": "Estimate password strength", "responses": {"200": {"description": "OK"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Admin login", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}}},
        "/auth/logout": {"post": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Logout", "responses": {"204": {"description": "No Content"}}}},
        "/admin/users": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "List users", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Create a user", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/admin/users/export": {"get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Export users as CSV", "produces": ["text/csv"], "responses": {"200": {"description": "OK"}}}},
        "/admin/users/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Get a user", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Update a user", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"202": {"description": "Accepted"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Delete a user", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"202": {"description": "Accepted"}}}
        },
        "/admin/dashboard": {"get": {"security": [{"BearerAuth": []}], "tags": ["dashboard"], "summary": "Current dashboard frame", "responses": {"200": {"description": "OK"}}}},
        "/admin/dashboard/filter": {"post": {"security": [{"BearerAuth": []}], "tags": ["dashboard"], "summary": "Set table filter", "responses": {"200": {"description": "OK"}}}},
        "/admin/dashboard/page": {"post": {"security": [{"BearerAuth": []}], "tags": ["dashboard"], "summary": "Change table page", "responses": {"200": {"description": "OK"}}}},
        "/admin/dashboard/section": {"post": {"security": [{"BearerAuth": []}], "tags": ["dashboard"], "summary": "Show section", "responses": {"200": {"description": "OK"}}}},
        "/admin/dashboard/ws": {"get": {"tags": ["dashboard"], "summary": "Live dashboard updates", "responses": {"101": {"description": "Switching Protocols"}}}},
        "/admin/stats": {"get": {"security": [{"BearerAuth": []}], "tags": ["dashboard"], "summary": "Dashboard statistics", "responses": {"200": {"description": "OK"}}}},
        "/admin/reports/{kind}": {"get": {"security": [{"BearerAuth": []}], "tags": ["dashboard"], "summary": "Generate report", "parameters": [{"type": "string", "name": "kind", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/admin/sections/{name}": {"get": {"security": [{"BearerAuth": []}], "tags": ["sections"], "summary": "Load dashboard section", "parameters": [{"type": "string", "name": "name", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/admin/packages": {"post": {"security": [{"BearerAuth": []}], "tags": ["sections"], "summary": "Add premium package", "responses": {"201": {"description": "Created"}}}},
        "/admin/backups": {"post": {"security": [{"BearerAuth": []}], "tags": ["sections"], "summary": "Request backup", "responses": {"202": {"description": "Accepted"}}}},
        "/admin/settings": {"put": {"security": [{"BearerAuth": []}], "tags": ["sections"], "summary": "Save settings", "responses": {"204": {"description": "No Content"}}}},
        "/health": {"get": {"tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}},
        "/health/ready": {"get": {"tags": ["health"], "summary": "Readiness probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "dashblogger admin console API",
	Description:      "Administration console for the dashblogger user base.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
