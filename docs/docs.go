// Package docs registers the swagger spec for the item list API.
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
        "/api/items": {
            "get": {
                "description": "저장된 아이템을 생성 순서대로 반환합니다.",
                "produces": ["application/json"],
                "tags": ["Items"],
                "summary": "아이템 목록 조회",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ItemListResponse"}},
                    "500": {"description": "DB 조회 실패", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"AccessKey": []}],
                "description": "현재 시각으로 새 아이템을 생성합니다.",
                "produces": ["application/json"],
                "tags": ["Items"],
                "summary": "아이템 추가 (Add Item)",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.ItemResponse"}},
                    "403": {"description": "접근 키 오류", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "429": {"description": "요청 과다", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "500": {"description": "DB 저장 실패", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/items/delete": {
            "post": {
                "security": [{"AccessKey": []}],
                "description": "현재 목록 순서 기준의 위치(offsets)에 있는 아이템들을 삭제합니다. 범위를 벗어난 위치는 무시됩니다.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Items"],
                "summary": "위치 기반 아이템 삭제",
                "parameters": [
                    {"description": "삭제할 위치 목록", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.DeleteOffsetsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.DeleteOffsetsResponse"}},
                    "400": {"description": "잘못된 요청", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "403": {"description": "접근 키 오류", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "500": {"description": "DB 삭제 실패", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/items/{id}": {
            "get": {
                "description": "선택한 아이템의 타임스탬프를 상세 문구와 함께 반환합니다.",
                "produces": ["application/json"],
                "tags": ["Items"],
                "summary": "아이템 상세 조회",
                "parameters": [
                    {"type": "string", "description": "아이템 ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ItemDetailResponse"}},
                    "404": {"description": "아이템 없음", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "500": {"description": "DB 조회 실패", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"AccessKey": []}],
                "description": "ID로 아이템을 삭제합니다. 이미 삭제된 아이템이어도 성공합니다.",
                "tags": ["Items"],
                "summary": "아이템 삭제",
                "parameters": [
                    {"type": "string", "description": "아이템 ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "접근 키 오류", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "500": {"description": "DB 삭제 실패", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "헬스 체크",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"status": {"type": "string"}}}}
                }
            }
        },
        "/ws/items": {
            "get": {
                "description": "연결마다 하나의 목록 화면 세션을 만들고, 저장소가 바뀔 때마다 최신 화면을 전송합니다. delete는 ids 또는 offsets + 화면 version으로 지정합니다.",
                "tags": ["WebSocket (Live)"],
                "summary": "실시간 아이템 목록 WebSocket 연결",
                "parameters": [
                    {"type": "string", "description": "접근 키 (설정된 경우)", "name": "key", "in": "query"}
                ],
                "responses": {
                    "101": {"description": "101 Switching Protocols", "schema": {"type": "string"}},
                    "403": {"description": "접근 키 오류", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.DeleteOffsetsRequest": {
            "type": "object",
            "properties": {
                "offsets": {"type": "array", "items": {"type": "integer"}, "example": [0, 2]}
            }
        },
        "handler.DeleteOffsetsResponse": {
            "type": "object",
            "properties": {
                "deleted": {"type": "integer", "example": 2}
            }
        },
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "Failed to fetch items"}
            }
        },
        "handler.ItemDetailResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "3f1c2a9e-3b7a-4b8e-9d7e-1f2a3b4c5d6e"},
                "label": {"type": "string", "example": "4/30/2024, 9:00:00 AM"},
                "text": {"type": "string", "example": "Item at 4/30/2024, 9:00:00 AM"},
                "timestamp": {"type": "string", "example": "2024-04-30T09:00:00Z"}
            }
        },
        "handler.ItemListResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/handler.ItemResponse"}}
            }
        },
        "handler.ItemResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "3f1c2a9e-3b7a-4b8e-9d7e-1f2a3b4c5d6e"},
                "label": {"type": "string", "example": "4/30/2024, 9:00:00 AM"},
                "timestamp": {"type": "string", "example": "2024-04-30T09:00:00Z"}
            }
        }
    },
    "securityDefinitions": {
        "AccessKey": {
            "type": "apiKey",
            "name": "X-Access-Key",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "ItemList API",
	Description:      "Timestamped item list with a live websocket view.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
