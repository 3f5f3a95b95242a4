// Package docs registers the OpenAPI description of the session API with swag
// so that echo-swagger can serve it. Keep it in sync with the godoc
// annotations in internal/dashboard/delivery/http.
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
        "/session": {
            "get": {
                "description": "Get the active symbol, its series and metrics, results, trending feed and notices",
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Get the session state",
                "parameters": [
                    {"type": "integer", "description": "Number of most recent series points to include", "name": "points", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.SessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/session/presets": {
            "get": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "List preset symbols",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "string"}}}
                }
            }
        },
        "/session/symbol": {
            "post": {
                "description": "Select a preset with \"symbol\" or submit free text with \"raw\"",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Select the active symbol",
                "parameters": [
                    {"description": "Symbol selection", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.SelectSymbolRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/http.AcceptedResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/session/series/refresh": {
            "post": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Reload the price series of the active symbol",
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/http.AcceptedResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/session/analyze": {
            "post": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Request an AI analysis of the active symbol",
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/http.AcceptedResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/session/chat": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Ask a question about the active symbol",
                "parameters": [
                    {"description": "Question", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.ChatRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/http.AcceptedResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/session/trending/refresh": {
            "post": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Reload the trending feed",
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/http.AcceptedResponse"}}
                }
            }
        },
        "/session/tab": {
            "put": {
                "consumes": ["application/json"],
                "tags": ["session"],
                "summary": "Switch the visible tab",
                "parameters": [
                    {"description": "Tab", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.TabRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/session/notices/{id}": {
            "delete": {
                "tags": ["session"],
                "summary": "Dismiss a notice",
                "parameters": [
                    {"type": "string", "description": "Notice ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "http.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "http.AcceptedResponse": {
            "type": "object",
            "properties": {"status": {"type": "string"}, "symbol": {"type": "string"}}
        },
        "http.SelectSymbolRequest": {
            "type": "object",
            "properties": {"symbol": {"type": "string"}, "raw": {"type": "string"}}
        },
        "http.ChatRequest": {
            "type": "object",
            "properties": {"query": {"type": "string"}}
        },
        "http.TabRequest": {
            "type": "object",
            "required": ["tab"],
            "properties": {"tab": {"type": "string", "enum": ["analysis", "chat", "trending"]}}
        },
        "http.MetricsResponse": {
            "type": "object",
            "properties": {
                "current_price": {"type": "string"},
                "price_change": {"type": "string"},
                "price_change_percent": {"type": "string"}
            }
        },
        "http.PricePointResponse": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "open": {"type": "string"},
                "high": {"type": "string"},
                "low": {"type": "string"},
                "close": {"type": "string"},
                "volume": {"type": "integer"},
                "sma_20": {"type": "string"},
                "sma_50": {"type": "string"},
                "rsi": {"type": "string"}
            }
        },
        "http.AnalysisResponse": {
            "type": "object",
            "properties": {
                "symbol": {"type": "string"},
                "timeframe": {"type": "string"},
                "technical_indicators": {"type": "object", "additionalProperties": {"type": "number"}},
                "risk_level": {"type": "string", "enum": ["low", "medium", "high", "unknown"]},
                "confidence_score": {"type": "number"},
                "recommendations": {"type": "array", "items": {"type": "string"}},
                "analysis": {"type": "string"}
            }
        },
        "http.ChatResponse": {
            "type": "object",
            "properties": {
                "symbol": {"type": "string"},
                "query": {"type": "string"},
                "analysis": {"type": "string"},
                "recommendations": {"type": "array", "items": {"type": "string"}}
            }
        },
        "http.TrendingResponse": {
            "type": "object",
            "properties": {
                "symbol": {"type": "string"},
                "name": {"type": "string"},
                "price": {"type": "string"},
                "change": {"type": "string"},
                "change_percent": {"type": "string"}
            }
        },
        "http.LoadingResponse": {
            "type": "object",
            "properties": {
                "series": {"type": "boolean"},
                "analysis": {"type": "boolean"},
                "chat": {"type": "boolean"},
                "trending": {"type": "boolean"}
            }
        },
        "http.NoticeResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "kind": {"type": "string", "enum": ["validation", "fetch", "decode"]},
                "op": {"type": "string"},
                "symbol": {"type": "string"},
                "message": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "http.SessionResponse": {
            "type": "object",
            "properties": {
                "symbol": {"type": "string"},
                "series_status": {"type": "string", "enum": ["idle", "loading", "ready", "failed"]},
                "metrics": {"$ref": "#/definitions/http.MetricsResponse"},
                "series": {"type": "array", "items": {"$ref": "#/definitions/http.PricePointResponse"}},
                "analysis": {"$ref": "#/definitions/http.AnalysisResponse"},
                "chat": {"$ref": "#/definitions/http.ChatResponse"},
                "trending": {"type": "array", "items": {"$ref": "#/definitions/http.TrendingResponse"}},
                "tab": {"type": "string"},
                "pending": {"type": "boolean"},
                "loading": {"$ref": "#/definitions/http.LoadingResponse"},
                "notices": {"type": "array", "items": {"$ref": "#/definitions/http.NoticeResponse"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Stock Dashboard Session API",
	Description:      "Headless access to a stock dashboard client session.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
