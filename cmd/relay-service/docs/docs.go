// Package docs holds the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/relay-service/main.go -o cmd/relay-service/docs
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
        "/receive-data": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["relay"],
                "summary": "Store a producer result",
                "parameters": [
                    {"description": "Producer payload", "name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/relay.ReceiveResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/poll-result/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["relay"],
                "summary": "Poll for a result",
                "parameters": [
                    {"type": "string", "description": "Correlation id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/relay.PollResponse"}},
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/relay.NotReadyResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["relay"],
                "summary": "Store a producer result for a known id",
                "parameters": [
                    {"type": "string", "description": "Correlation id", "name": "id", "in": "path", "required": true},
                    {"description": "Producer payload", "name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/relay.ReceiveResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/api/clear-data": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["relay"],
                "summary": "Clear all stored results",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/relay.ClearResponse"}}
                }
            }
        },
        "/api/clear-data/{id}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["relay"],
                "summary": "Clear one stored result",
                "parameters": [
                    {"type": "string", "description": "Correlation id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/relay.ClearResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/relay.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/relay.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "errors.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"type": "string"},
                "error_code": {"type": "string"},
                "reason": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true}
            }
        },
        "relay.ReceiveResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "message": {"type": "string", "example": "Data received successfully"},
                "requestId": {"type": "string", "example": "1717171717171-abc123"}
            }
        },
        "relay.PollData": {
            "type": "object",
            "properties": {
                "result": {"type": "string"},
                "status": {"type": "string", "example": "success"},
                "message": {"type": "string"},
                "timestamp": {"type": "integer", "example": 1717171717171},
                "receivedAt": {"type": "string", "example": "2024-05-31T16:08:37.171Z"},
                "ageSeconds": {"type": "number", "example": 4.2}
            }
        },
        "relay.PollResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "data": {"$ref": "#/definitions/relay.PollData"}
            }
        },
        "relay.NotReadyResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "message": {"type": "string", "example": "Result not ready yet"},
                "requestId": {"type": "string"}
            }
        },
        "relay.ClearResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "cleared": {"type": "integer", "example": 1}
            }
        },
        "relay.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "healthy"},
                "timestamp": {"type": "string"},
                "activeResponses": {"type": "integer", "example": 3},
                "checks": {"type": "object", "additionalProperties": true}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Relay Service API",
	Description:      "Correlates webhook results posted by automation flows with browser clients polling for them.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
