// Package docs holds the OpenAPI description of the groundstation API,
// registered with swag for the /docs UI.
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
        "/": {
            "get": {
                "description": "Get basic groundstation information and capabilities",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Groundstation information",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.WorkerInfoResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Check if the groundstation is healthy and responsive",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}}
                }
            }
        },
        "/telemetry": {
            "get": {
                "description": "Live platform position and heading",
                "produces": ["application/json"],
                "tags": ["flight"],
                "summary": "Current telemetry",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TelemetryResponse"}}
                }
            },
            "post": {
                "description": "Record a new fix. Reaching the active target fires the trigger and heads home.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["flight"],
                "summary": "Update telemetry",
                "parameters": [
                    {"description": "New fix", "name": "fix", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.TelemetryResponse"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.PositionUpdateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/location": {
            "get": {
                "description": "Alias of GET /telemetry",
                "produces": ["application/json"],
                "tags": ["flight"],
                "summary": "Current location",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TelemetryResponse"}}
                }
            }
        },
        "/set_target/{coords}": {
            "get": {
                "description": "Fly to a reported violation location",
                "produces": ["text/plain"],
                "tags": ["flight"],
                "summary": "Set target",
                "parameters": [
                    {"type": "string", "description": "lat,lon", "name": "coords", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "string"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/set_home/{coords}": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["flight"],
                "summary": "Set home",
                "parameters": [
                    {"type": "string", "description": "lat,lon", "name": "coords", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "string"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/play": {
            "get": {
                "description": "Fire the on-board action",
                "produces": ["application/json"],
                "tags": ["flight"],
                "summary": "Trigger",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TriggerResponse"}}
                }
            }
        },
        "/state": {
            "get": {
                "description": "Full groundstation session: pose, home, target, mode and counters",
                "produces": ["application/json"],
                "tags": ["flight"],
                "summary": "Flight state",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.StateSnapshot"}}
                }
            }
        }
    },
    "definitions": {
        "geodesy.Point": {
            "type": "object",
            "properties": {
                "lat": {"type": "number"},
                "lon": {"type": "number"}
            }
        },
        "api.StateSnapshot": {
            "type": "object",
            "properties": {
                "position": {"$ref": "#/definitions/geodesy.Point"},
                "heading": {"type": "number"},
                "home": {"$ref": "#/definitions/geodesy.Point"},
                "target": {"$ref": "#/definitions/geodesy.Point"},
                "mode": {"type": "string", "enum": ["idle", "to_target", "returning"]},
                "triggers": {"type": "integer"},
                "arrivals": {"type": "integer"},
                "last_update": {"type": "string"},
                "arrival_radius_m": {"type": "number"}
            }
        },
        "handlers.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "healthy"},
                "worker_id": {"type": "string", "example": "proxwatch-1"}
            }
        },
        "handlers.WorkerInfoResponse": {
            "type": "object",
            "properties": {
                "capabilities": {"type": "array", "items": {"type": "string"}},
                "status": {"type": "string", "example": "running"},
                "version": {"type": "string", "example": "1.0.0"},
                "worker_id": {"type": "string", "example": "proxwatch-1"}
            }
        },
        "handlers.TelemetryResponse": {
            "type": "object",
            "properties": {
                "heading": {"type": "number", "example": 90},
                "lat": {"type": "number", "example": 43.4723},
                "lon": {"type": "number", "example": -80.5449}
            }
        },
        "handlers.PositionUpdateResponse": {
            "type": "object",
            "properties": {
                "arrived": {"type": "boolean"}
            }
        },
        "handlers.TriggerResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "triggered"},
                "triggers": {"type": "integer", "example": 1}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:5000",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Proxwatch Groundstation API",
	Description:      "Flight-side telemetry contract for the proximity heatmap pipeline: live pose, target reports and the trigger action.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
