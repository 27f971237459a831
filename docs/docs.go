// Package docs registers the OpenAPI description served under /swagger.
// Keep it in step with the @Router annotations on the handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/session": {
            "get": {"tags": ["session"], "summary": "Current session", "produces": ["application/json"], "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/session"}}}}
        },
        "/session/login": {
            "post": {"tags": ["session"], "summary": "Log in", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/credentials"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/session"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/error"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/error"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/error"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/error"}}
                }}
        },
        "/session/logout": {
            "post": {"tags": ["session"], "summary": "Log out", "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "No Content"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/error"}}}}
        },
        "/standings/me": {
            "get": {"tags": ["standings"], "summary": "My standing", "security": [{"BearerAuth": []}], "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/standing"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/error"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/error"}}
                }}
        },
        "/standings/students/{id}": {
            "get": {"tags": ["standings"], "summary": "Student standing", "security": [{"BearerAuth": []}], "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/standing"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/error"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/error"}}
                }}
        },
        "/standings/classes/{id}": {
            "get": {"tags": ["standings"], "summary": "Class standings", "security": [{"BearerAuth": []}], "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/standing"}}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/error"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/error"}}
                }}
        },
        "/reports/statistics": {
            "get": {"tags": ["reports"], "summary": "School statistics", "security": [{"BearerAuth": []}], "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/statistics"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/error"}}
                }}
        },
        "/identity/register": {
            "post": {"tags": ["identity"], "summary": "Register an account", "security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/error"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/error"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/error"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/error"}}
                }}
        },
        "/identity/login": {
            "post": {"tags": ["identity"], "summary": "Issue a token", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/credentials"}}],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/error"}}
                }}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "definitions": {
        "error": {"type": "object", "properties": {"error": {"type": "string"}}},
        "credentials": {"type": "object", "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "user": {"type": "object", "properties": {
            "id": {"type": "string"}, "display_name": {"type": "string"},
            "email": {"type": "string"}, "role": {"type": "string", "enum": ["ADMINISTRATOR", "TEACHER", "STUDENT"]}}},
        "session": {"type": "object", "properties": {
            "authenticated": {"type": "boolean"}, "user": {"$ref": "#/definitions/user"}, "landing_area": {"type": "string"},
            "token": {"type": "string"}}},
        "standing": {"type": "object", "properties": {
            "student_id": {"type": "string"}, "student_name": {"type": "string"},
            "subjects": {"type": "array", "items": {"type": "string"}},
            "standing": {"type": "object", "properties": {
                "average_by_subject": {"type": "object", "additionalProperties": {"type": "number"}},
                "overall_average": {"type": "number"},
                "min_attendance_rate": {"type": "number"},
                "classification": {"type": "string", "enum": ["approved", "retake", "failed"]}}},
            "average_attendance_rate": {"type": "number"}}},
        "statistics": {"type": "object", "properties": {
            "total_students": {"type": "integer"}, "total_teachers": {"type": "integer"},
            "total_classes": {"type": "integer"}, "total_subjects": {"type": "integer"},
            "students_per_class": {"type": "object", "additionalProperties": {"type": "integer"}},
            "subjects_per_teacher": {"type": "object", "additionalProperties": {"type": "integer"}},
            "classes_per_grade_level": {"type": "object", "additionalProperties": {"type": "integer"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "School Console API",
	Description:      "Session and academic standing endpoints of the school console.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
