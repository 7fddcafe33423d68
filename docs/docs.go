// Package docs registers the OpenAPI document served at /swagger/*.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/signup": {"post": {"tags": ["auth"], "summary": "Register an account and start the free tier", "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failed"}, "409": {"description": "Email already registered"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Exchange credentials for an access token", "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}}},
        "/subscriptions/plans": {"get": {"tags": ["plans"], "summary": "List active plans", "responses": {"200": {"description": "OK"}}}},
        "/subscriptions/plans/{id}": {"get": {"tags": ["plans"], "summary": "Get a plan", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/subscriptions": {
            "get": {"tags": ["subscriptions"], "security": [{"BearerAuth": []}], "summary": "List the caller's subscriptions", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["subscriptions"], "security": [{"BearerAuth": []}], "summary": "Request a subscription to a plan", "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid plan or payment method"}}}
        },
        "/subscriptions/active": {"get": {"tags": ["subscriptions"], "security": [{"BearerAuth": []}], "summary": "Current active subscription", "responses": {"200": {"description": "OK"}, "404": {"description": "No active subscription"}}}},
        "/subscriptions/limits": {"get": {"tags": ["subscriptions"], "security": [{"BearerAuth": []}], "summary": "Listing quotas granted by the current plan", "responses": {"200": {"description": "OK"}}}},
        "/subscriptions/upgrade": {"post": {"tags": ["subscriptions"], "security": [{"BearerAuth": []}], "summary": "Upgrade to a paid plan using the account balance", "responses": {"200": {"description": "OK"}, "400": {"description": "Insufficient balance"}}}},
        "/subscriptions/{id}": {"get": {"tags": ["subscriptions"], "security": [{"BearerAuth": []}], "summary": "Get a subscription", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/subscriptions/{id}/logs": {"get": {"tags": ["subscriptions"], "security": [{"BearerAuth": []}], "summary": "Audit trail of a subscription", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/subscriptions/{id}/activate": {"post": {"tags": ["subscriptions"], "security": [{"BearerAuth": []}], "summary": "Activate a pending subscription", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid transition"}}}},
        "/subscriptions/{id}/cancel": {"post": {"tags": ["subscriptions"], "security": [{"BearerAuth": []}], "summary": "Cancel an active subscription", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid transition"}}}},
        "/me": {"get": {"tags": ["account"], "security": [{"BearerAuth": []}], "summary": "Caller profile", "responses": {"200": {"description": "OK"}}}},
        "/me/transactions": {"get": {"tags": ["account"], "security": [{"BearerAuth": []}], "summary": "Balance ledger", "responses": {"200": {"description": "OK"}}}},
        "/me/notifications": {"get": {"tags": ["account"], "security": [{"BearerAuth": []}], "summary": "Status change notifications", "responses": {"200": {"description": "OK"}}}},
        "/admin/subscriptions": {"get": {"tags": ["admin"], "security": [{"BearerAuth": []}], "summary": "List all subscriptions", "responses": {"200": {"description": "OK"}}}},
        "/admin/subscriptions/expiring-soon": {"get": {"tags": ["admin"], "security": [{"BearerAuth": []}], "summary": "Active subscriptions ending within 7 days", "responses": {"200": {"description": "OK"}}}},
        "/admin/subscriptions/recently-expired": {"get": {"tags": ["admin"], "security": [{"BearerAuth": []}], "summary": "Subscriptions that ended within 30 days", "responses": {"200": {"description": "OK"}}}},
        "/admin/subscriptions/{id}/payment": {"post": {"tags": ["admin"], "security": [{"BearerAuth": []}], "summary": "Record a payment outcome", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid transition"}, "404": {"description": "Not found"}}}},
        "/admin/sweep": {"post": {"tags": ["admin"], "security": [{"BearerAuth": []}], "summary": "Run the expiration sweep now", "responses": {"200": {"description": "OK"}}}},
        "/admin/products/sync": {"post": {"tags": ["admin"], "security": [{"BearerAuth": []}], "summary": "Reconcile product activation with subscription status", "responses": {"200": {"description": "OK"}}}},
        "/admin/jobs": {"get": {"tags": ["admin"], "security": [{"BearerAuth": []}], "summary": "Next scheduled job runs", "responses": {"200": {"description": "OK"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "AdsyClub Subscription API",
	Description:      "Plans, subscriptions and entitlements for AdsyClub sellers.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
