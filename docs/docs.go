// Package docs registers the OpenAPI document for ollamachat with swag.
// Regenerate with `swag init -g cmd/ollamachat/docs.go`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Liveness banner",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.RootResponse"}}
                }
            }
        },
        "/api/chat": {
            "post": {
                "description": "Switch and generation failures are reported in the response\nfield with status 200, or 502 when strict errors are enabled.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Send a chat message, optionally switching model first",
                "parameters": [
                    {"description": "Message and optional model", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.ChatRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ChatResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ChatResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/types.ChatResponse"}}
                }
            }
        },
        "/api/chat/ws": {
            "get": {
                "description": "Each text frame is a ChatRequest; each reply frame is a whole\nChatResponse. A frame without a model keeps the current model.",
                "tags": ["chat"],
                "summary": "Chat over a websocket",
                "responses": {
                    "101": {"description": "Switching Protocols", "schema": {"type": "string"}}
                }
            }
        },
        "/api/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Server and inference backend health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusMessage"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.StatusMessage"}}
                }
            }
        },
        "/api/models": {
            "get": {
                "produces": ["application/json"],
                "tags": ["models"],
                "summary": "List permitted models and the active one",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ModelInfoResponse"}}
                }
            }
        },
        "/api/models/installed": {
            "get": {
                "produces": ["application/json"],
                "tags": ["models"],
                "summary": "List models installed in the inference backend",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.InstalledModelsResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/api/models/pull": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["models"],
                "summary": "Pull a model into the inference backend",
                "parameters": [
                    {"description": "Model to pull", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.PullRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusMessage"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.StatusMessage"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.StatusMessage"}}
                }
            }
        }
    },
    "definitions": {
        "types.ChatRequest": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "write a for loop in Go"},
                "model_name": {"type": "string", "description": "Absent means the default model; empty or null keeps the active model.", "example": "mistral:7b", "x-nullable": true}
            }
        },
        "types.ChatResponse": {
            "type": "object",
            "properties": {
                "response": {"type": "string", "example": "Here is a for loop: ..."}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 400},
                "error": {"type": "string", "example": "invalid JSON body"}
            }
        },
        "types.InstalledModel": {
            "type": "object",
            "properties": {
                "digest": {"type": "string"},
                "modified_at": {"type": "string"},
                "name": {"type": "string", "example": "llama3:8b"},
                "size": {"type": "integer"}
            }
        },
        "types.InstalledModelsResponse": {
            "type": "object",
            "properties": {
                "models": {"type": "array", "items": {"$ref": "#/definitions/types.InstalledModel"}}
            }
        },
        "types.ModelInfoResponse": {
            "type": "object",
            "properties": {
                "available_models": {"type": "array", "items": {"type": "string"}},
                "current_model": {"type": "string", "example": "deepseek-coder-v2"}
            }
        },
        "types.PullRequest": {
            "type": "object",
            "properties": {
                "model_name": {"type": "string", "example": "codellama:7b"}
            }
        },
        "types.RootResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Ollama Chat Bot API is running"}
            }
        },
        "types.StatusMessage": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string", "example": "Server is running and Ollama is available"},
                "status": {"type": "string", "example": "ok"},
                "version": {"type": "string", "example": "0.6.2"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "127.0.0.1:8000",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "ollamachat API",
	Description:      "Chat relay that forwards messages to a local Ollama runtime,\nwith model switching restricted to a fixed registry.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
