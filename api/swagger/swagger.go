package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Education Portal Scheduling API",
        "description": "Weekly availability matching and lesson scheduling",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Availability", "description": "Weekly free windows of students and teachers"},
        {"name": "Matching", "description": "Mutually free windows for a student and a teacher"},
        {"name": "Lessons", "description": "Recurring lesson series and cancellations"},
        {"name": "Timetable", "description": "Dated lesson occurrences"},
        {"name": "Observability", "description": "Counters and probes"}
    ],
    "paths": {
        "/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "List a person's availability slots",
                "parameters": [
                    {"$ref": "#/parameters/ownerId"},
                    {"$ref": "#/parameters/ownerKind"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Availability"],
                "summary": "Declare a weekly availability slot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAvailabilityRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid window or payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/availability/{id}": {
            "delete": {
                "tags": ["Availability"],
                "summary": "Remove an availability slot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Removed"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/matches": {
            "get": {
                "tags": ["Matching"],
                "summary": "Find weekly windows free for both a student and a teacher",
                "parameters": [
                    {"name": "studentId", "in": "query", "required": true, "type": "integer"},
                    {"name": "teacherId", "in": "query", "required": true, "type": "integer"},
                    {"name": "dayOfWeek", "in": "query", "type": "integer", "minimum": 0, "maximum": 6}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lessons": {
            "get": {
                "tags": ["Lessons"],
                "summary": "List every lesson series of a person",
                "parameters": [
                    {"$ref": "#/parameters/ownerId"},
                    {"$ref": "#/parameters/ownerKind"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Lessons"],
                "summary": "Create a weekly lesson series",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LessonSeriesRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Scheduling conflict or outside availability", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "423": {"description": "Owner locked by a concurrent request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lessons/check": {
            "post": {
                "tags": ["Lessons"],
                "summary": "Dry-run conflict detection for a lesson series",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LessonSeriesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lessons/{id}": {
            "get": {
                "tags": ["Lessons"],
                "summary": "Get a lesson series",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lessons/{id}/occurrences/{date}": {
            "get": {
                "tags": ["Lessons"],
                "summary": "Check whether a series meets on a date",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "date", "in": "path", "required": true, "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lessons/{id}/cancel": {
            "post": {
                "tags": ["Lessons"],
                "summary": "Cancel one occurrence or a whole lesson series",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CancelLessonRequest"}}
                ],
                "responses": {
                    "200": {"description": "Cancelled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing or malformed cancel date", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "No cancellable occurrence on that date", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable": {
            "get": {
                "tags": ["Timetable"],
                "summary": "List lesson occurrences of a person in a date range",
                "parameters": [
                    {"$ref": "#/parameters/ownerId"},
                    {"$ref": "#/parameters/ownerKind"},
                    {"name": "from", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "required": true, "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/export": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Download a timetable as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"$ref": "#/parameters/ownerId"},
                    {"$ref": "#/parameters/ownerKind"},
                    {"name": "from", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}}
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Observability"],
                "summary": "Scheduling counters snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "parameters": {
        "ownerId": {"name": "ownerId", "in": "query", "required": true, "type": "integer"},
        "ownerKind": {"name": "ownerKind", "in": "query", "required": true, "type": "string", "enum": ["STUDENT", "TEACHER"]}
    },
    "definitions": {
        "CreateAvailabilityRequest": {
            "type": "object",
            "required": ["ownerId", "ownerKind", "dayOfWeek", "startTime", "endTime"],
            "properties": {
                "ownerId": {"type": "integer"},
                "ownerKind": {"type": "string", "enum": ["STUDENT", "TEACHER"]},
                "dayOfWeek": {"type": "integer", "minimum": 0, "maximum": 6},
                "startTime": {"type": "string", "example": "15:00"},
                "endTime": {"type": "string", "example": "16:00"}
            }
        },
        "LessonSeriesRequest": {
            "type": "object",
            "required": ["kind", "teacherId", "participantIds", "dayOfWeek", "startTime", "endTime", "seriesStartDate"],
            "properties": {
                "kind": {"type": "string", "enum": ["INDIVIDUAL", "GROUP"]},
                "teacherId": {"type": "integer"},
                "participantIds": {"type": "array", "items": {"type": "integer"}},
                "dayOfWeek": {"type": "integer", "minimum": 0, "maximum": 6},
                "startTime": {"type": "string", "example": "15:00"},
                "endTime": {"type": "string", "example": "16:00"},
                "seriesStartDate": {"type": "string", "format": "date"},
                "seriesEndDate": {"type": "string", "format": "date"}
            }
        },
        "CancelLessonRequest": {
            "type": "object",
            "properties": {
                "cancelAll": {"type": "boolean"},
                "cancelDate": {"type": "string", "format": "date"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
