package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Tutoring Site API",
        "description": "Read-only JSON access to news and lesson content",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Content", "description": "News and lessons"},
        {"name": "Ops", "description": "Health and readiness"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Ops"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Ops"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Database reachable"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/api/v1/news": {
            "get": {
                "tags": ["Content"],
                "summary": "List news",
                "description": "Returns every news entry, newest first",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/NewsListEnvelope"}},
                    "429": {"description": "Too many requests"},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/grades": {
            "get": {
                "tags": ["Content"],
                "summary": "List grades and lessons",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/GradeListEnvelope"}},
                    "429": {"description": "Too many requests"}
                }
            }
        },
        "/api/v1/lessons/{grade_code}/{topic}": {
            "get": {
                "tags": ["Content"],
                "summary": "Get lesson",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "grade_code", "in": "path", "required": true, "type": "string"},
                    {"name": "topic", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LessonEnvelope"}},
                    "404": {"description": "Lesson not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "News": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "content": {"type": "string"},
                "attachment_url": {"type": "string"},
                "attachment_name": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "Lesson": {
            "type": "object",
            "properties": {
                "grade_code": {"type": "string"},
                "grade_name": {"type": "string"},
                "topic": {"type": "string"},
                "title": {"type": "string"},
                "body": {"type": "string"}
            }
        },
        "Grade": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "name": {"type": "string"},
                "lessons": {"type": "array", "items": {"$ref": "#/definitions/Lesson"}}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        },
        "NewsListEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/News"}},
                "meta": {"type": "object", "properties": {"count": {"type": "integer"}}}
            }
        },
        "GradeListEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/Grade"}}
            }
        },
        "LessonEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/Lesson"}
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
