// Package docs holds the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/server/main.go
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
        "/user/google_auth/": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in with Google",
                "parameters": [{"description": "Google ID token", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.GoogleAuthRequest"}}],
                "responses": {
                    "200": {"description": "Signed in", "schema": {"$ref": "#/definitions/service.SocialLoginOutput"}},
                    "400": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "403": {"description": "User is inactive", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "409": {"description": "Account conflict", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "503": {"description": "Session issuance failed", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/user/apple_auth/": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in with Apple",
                "parameters": [{"description": "Apple identity token and first-login profile", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.AppleAuthRequest"}}],
                "responses": {
                    "200": {"description": "Signed in", "schema": {"$ref": "#/definitions/service.SocialLoginOutput"}},
                    "400": {"description": "Missing or invalid token, or email not provided", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "403": {"description": "User is inactive", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "409": {"description": "Account conflict", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "503": {"description": "Session issuance failed", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/token/refresh/": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Refresh session",
                "parameters": [{"description": "Refresh token", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.RefreshRequest"}}],
                "responses": {
                    "200": {"description": "New tokens", "schema": {"$ref": "#/definitions/service.TokenPair"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "401": {"description": "Invalid or revoked refresh token", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "403": {"description": "User is inactive", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/token/logout/": {
            "post": {
                "consumes": ["application/json"],
                "tags": ["auth"],
                "summary": "Log out",
                "parameters": [{"description": "Refresh token", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.RefreshRequest"}}],
                "responses": {
                    "204": {"description": "Logged out"},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "401": {"description": "Invalid refresh token", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/user/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "User details", "schema": {"$ref": "#/definitions/service.UserPayload"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "403": {"description": "User is inactive", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "detail": {"type": "string"}}
        },
        "handler.GoogleAuthRequest": {
            "type": "object",
            "properties": {"code": {"type": "string"}}
        },
        "handler.AppleName": {
            "type": "object",
            "properties": {"givenName": {"type": "string"}, "familyName": {"type": "string"}}
        },
        "handler.AppleAuthRequest": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "email": {"type": "string"}, "fullName": {"$ref": "#/definitions/handler.AppleName"}}
        },
        "handler.RefreshRequest": {
            "type": "object",
            "required": ["refresh_token"],
            "properties": {"refresh_token": {"type": "string"}}
        },
        "service.TokenPair": {
            "type": "object",
            "properties": {"access_token": {"type": "string"}, "refresh_token": {"type": "string"}}
        },
        "service.UserPayload": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"}
            }
        },
        "service.SocialLoginOutput": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "refresh_token": {"type": "string"},
                "user": {"$ref": "#/definitions/service.UserPayload"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "fedauth API",
	Description:      "Federated Google and Apple sign-in.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
