// Package docs serves the OpenAPI description of the REST API.
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
        "/habits": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["habits"],
                "summary": "List active habits",
                "parameters": [
                    {"type": "string", "description": "IANA time zone used for occurrence state", "name": "tz", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/habitResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "A client-supplied id makes the call idempotent for the same user.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["habits"],
                "summary": "Create a habit",
                "parameters": [
                    {"description": "Habit definition", "name": "habit", "in": "body", "required": true, "schema": {"$ref": "#/definitions/createHabitRequest"}},
                    {"type": "string", "description": "IANA time zone used for occurrence state", "name": "tz", "in": "query"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/habitResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/habits/sync": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["habits"],
                "summary": "Habits changed since the last sync, deletions included",
                "parameters": [
                    {"type": "string", "description": "RFC3339 instant", "name": "last_sync", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/syncResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/habits/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["habits"],
                "summary": "Update a habit",
                "parameters": [
                    {"type": "string", "description": "Habit id", "name": "id", "in": "path", "required": true},
                    {"description": "Changed fields", "name": "habit", "in": "body", "required": true, "schema": {"$ref": "#/definitions/updateHabitRequest"}},
                    {"type": "string", "description": "IANA time zone used for occurrence state", "name": "tz", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/habitResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["habits"],
                "summary": "Soft-delete a habit",
                "parameters": [
                    {"type": "string", "description": "Habit id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/habits/{id}/entries": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["entries"],
                "summary": "List entries of a habit, newest first",
                "parameters": [
                    {"type": "string", "description": "Habit id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "RFC3339, defaults to 30 days before to", "name": "from", "in": "query"},
                    {"type": "string", "description": "RFC3339, defaults to now", "name": "to", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.HabitEntry"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/entries": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "completion_date defaults to now and value to 1.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["entries"],
                "summary": "Record a habit completion",
                "parameters": [
                    {"description": "Completion", "name": "entry", "in": "body", "required": true, "schema": {"$ref": "#/definitions/createEntryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.HabitEntry"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/entries/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["entries"],
                "summary": "Get one entry",
                "parameters": [
                    {"type": "string", "description": "Entry id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.HabitEntry"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["entries"],
                "summary": "Delete an entry",
                "parameters": [
                    {"type": "string", "description": "Entry id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/timers": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["timers"],
                "summary": "List timers with their elapsed and remaining time",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.TimerView"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["timers"],
                "summary": "Create a stopped countdown timer",
                "parameters": [
                    {"description": "Timer", "name": "timer", "in": "body", "required": true, "schema": {"$ref": "#/definitions/createTimerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.TimerView"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/timers/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["timers"],
                "summary": "Get one timer",
                "parameters": [
                    {"type": "string", "description": "Timer id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.TimerView"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["timers"],
                "summary": "Delete a timer",
                "parameters": [
                    {"type": "string", "description": "Timer id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/timers/{id}/{action}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["timers"],
                "summary": "Change timer state",
                "parameters": [
                    {"type": "string", "description": "Timer id", "name": "id", "in": "path", "required": true},
                    {"enum": ["start", "pause", "resume", "stop"], "type": "string", "description": "Transition", "name": "action", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.TimerView"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Habit cycles are evaluated in tz (default UTC).",
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Overdue habits, the next habit and live timers",
                "parameters": [
                    {"type": "string", "description": "IANA time zone, e.g. Europe/Rome", "name": "tz", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Dashboard"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "createHabitRequest": {
            "type": "object",
            "required": ["title", "frequency", "anchor_at"],
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "color": {"type": "string"},
                "icon": {"type": "string"},
                "frequency": {"type": "string", "enum": ["DAILY", "WEEKLY", "MONTHLY", "YEARLY"]},
                "anchor_at": {"type": "string", "format": "date-time"}
            }
        },
        "updateHabitRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "color": {"type": "string"},
                "icon": {"type": "string"},
                "frequency": {"type": "string", "enum": ["DAILY", "WEEKLY", "MONTHLY", "YEARLY"]},
                "anchor_at": {"type": "string", "format": "date-time"},
                "sort_order": {"type": "integer"},
                "version": {"type": "integer"}
            }
        },
        "habitResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "user_id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "color": {"type": "string"},
                "icon": {"type": "string"},
                "sort_order": {"type": "integer"},
                "frequency": {"type": "string"},
                "anchor_at": {"type": "string", "format": "date-time"},
                "last_completed_at": {"type": "string", "format": "date-time"},
                "current_streak": {"type": "integer"},
                "longest_streak": {"type": "integer"},
                "version": {"type": "integer"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"},
                "deleted_at": {"type": "string", "format": "date-time"},
                "next_occurrence_at": {"type": "string", "format": "date-time"},
                "is_overdue": {"type": "boolean"},
                "done_this_cycle": {"type": "boolean"}
            }
        },
        "syncResponse": {
            "type": "object",
            "properties": {
                "changes": {"type": "array", "items": {"$ref": "#/definitions/habitResponse"}},
                "timestamp": {"type": "string", "format": "date-time"}
            }
        },
        "createEntryRequest": {
            "type": "object",
            "required": ["habit_id"],
            "properties": {
                "habit_id": {"type": "string"},
                "completion_date": {"type": "string", "format": "date-time"},
                "value": {"type": "integer"},
                "notes": {"type": "string"}
            }
        },
        "domain.HabitEntry": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "habit_id": {"type": "string"},
                "user_id": {"type": "string"},
                "completion_date": {"type": "string", "format": "date-time"},
                "value": {"type": "integer"},
                "notes": {"type": "string"},
                "version": {"type": "integer"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "createTimerRequest": {
            "type": "object",
            "required": ["label", "duration_ms"],
            "properties": {
                "label": {"type": "string"},
                "duration_ms": {"type": "integer", "minimum": 1, "maximum": 604800000}
            }
        },
        "domain.Timer": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "user_id": {"type": "string"},
                "label": {"type": "string"},
                "state": {"type": "string", "enum": ["STOPPED", "RUNNING", "PAUSED", "COMPLETED"]},
                "start_time": {"type": "string", "format": "date-time"},
                "pause_time": {"type": "string", "format": "date-time"},
                "accumulated_paused_ms": {"type": "integer"},
                "duration_ms": {"type": "integer"},
                "version": {"type": "integer"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "domain.TimerView": {
            "type": "object",
            "properties": {
                "timer": {"$ref": "#/definitions/domain.Timer"},
                "elapsed_ms": {"type": "integer"},
                "remaining_seconds": {"type": "integer"},
                "should_complete": {"type": "boolean"}
            }
        },
        "domain.Dashboard": {
            "type": "object",
            "properties": {
                "generated_at": {"type": "string", "format": "date-time"},
                "time_zone": {"type": "string"},
                "next_habit": {"$ref": "#/definitions/habitResponse"},
                "next_habit_due_at": {"type": "string", "format": "date-time"},
                "overdue_habits": {"type": "array", "items": {"$ref": "#/definitions/habitResponse"}},
                "timers": {"type": "array", "items": {"$ref": "#/definitions/domain.TimerView"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "LifeCommander API",
	Description:      "Habits, completion entries, countdown timers and the dashboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
