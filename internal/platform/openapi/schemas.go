package openapi

import "encoding/json"

// listParameterNames are the query parameters shared by every list operation.
var listParameterNames = []string{"page", "limit", "search", "sortBy", "sortOrder"}

func raw(v string) json.RawMessage {
	return json.RawMessage(v)
}

func float(v float64) *float64 {
	return &v
}

func length(v uint64) *uint64 {
	return &v
}

func componentParameters() map[string]*Parameter {
	return map[string]*Parameter{
		"page": {
			Name:        "page",
			In:          "query",
			Description: "Page number, starting at 1",
			Schema:      &Schema{Type: "integer", Minimum: float(1), Default: raw("1")},
		},
		"limit": {
			Name:        "limit",
			In:          "query",
			Description: "Items per page",
			Schema:      &Schema{Type: "integer", Minimum: float(1), Maximum: float(100), Default: raw("10")},
		},
		"search": {
			Name:        "search",
			In:          "query",
			Description: "Free-text search term",
			Schema:      &Schema{Type: "string"},
		},
		"sortBy": {
			Name:        "sortBy",
			In:          "query",
			Description: "Field to sort by",
			Schema:      &Schema{Type: "string", Default: raw(`"createdAt"`)},
		},
		"sortOrder": {
			Name:        "sortOrder",
			In:          "query",
			Description: "Sort direction",
			Schema:      &Schema{Type: "string", Enum: []string{"asc", "desc"}, Default: raw(`"desc"`)},
		},
	}
}

func componentSchemas() map[string]*Schema {
	return map[string]*Schema{
		"ResourceStatus": {
			Type:        "string",
			Description: "Lifecycle status shared by every resource",
			Enum:        []string{"active", "inactive"},
			Default:     raw(`"active"`),
		},
		"ResourceInput": {
			Type:     "object",
			Required: []string{"name"},
			Properties: map[string]*Schema{
				"name":        {Type: "string", MinLength: length(1), MaxLength: length(255), Example: raw(`"Sample name"`)},
				"description": {Type: "string", MaxLength: length(2000), Example: raw(`"Sample description"`)},
				"status":      ref("ResourceStatus"),
			},
		},
		"Resource": {
			Type:     "object",
			Required: []string{"id", "name", "status", "createdAt", "updatedAt"},
			Properties: map[string]*Schema{
				"id":          {Type: "string", Format: "uuid", ReadOnly: true, Example: raw(`"3fa85f64-5717-4562-b3fc-2c963f66afa6"`)},
				"name":        {Type: "string", Example: raw(`"Sample name"`)},
				"description": {Type: "string", Nullable: true},
				"status":      ref("ResourceStatus"),
				"createdAt":   {Type: "string", Format: "date-time", ReadOnly: true},
				"updatedAt":   {Type: "string", Format: "date-time", ReadOnly: true},
			},
		},
		"Pagination": {
			Type:     "object",
			Required: []string{"page", "limit", "total", "totalPages", "hasNext", "hasPrev"},
			Properties: map[string]*Schema{
				"page":       {Type: "integer", Example: raw("1")},
				"limit":      {Type: "integer", Example: raw("10")},
				"total":      {Type: "integer", Example: raw("42")},
				"totalPages": {Type: "integer", Example: raw("5")},
				"hasNext":    {Type: "boolean"},
				"hasPrev":    {Type: "boolean"},
			},
		},
		"SuccessResponse": {
			Type:     "object",
			Required: []string{"success", "data"},
			Properties: map[string]*Schema{
				"success": {Type: "boolean", Example: raw("true")},
				"data":    {Type: "object", Description: "Response payload"},
				"message": {Type: "string", Example: raw(`"Operation completed successfully"`)},
			},
		},
		"PaginatedResponse": {
			Type:     "object",
			Required: []string{"success", "data", "pagination"},
			Properties: map[string]*Schema{
				"success":    {Type: "boolean", Example: raw("true")},
				"data":       {Type: "array", Items: ref("Resource")},
				"message":    {Type: "string"},
				"pagination": ref("Pagination"),
			},
		},
		"DeleteResponse": {
			Type:     "object",
			Required: []string{"success", "data"},
			Properties: map[string]*Schema{
				"success": {Type: "boolean", Example: raw("true")},
				"data":    {Type: "object", Nullable: true, Description: "Always null for deletes"},
				"message": {Type: "string", Example: raw(`"Deleted successfully"`)},
			},
		},
		"ErrorDetail": {
			Type:        "string",
			Description: "Human-readable detail, usually one per invalid field",
			Example:     raw(`"name is required"`),
		},
		"Error": {
			Type:     "object",
			Required: []string{"code", "message", "details", "timestamp", "requestId"},
			Properties: map[string]*Schema{
				"code":      {Type: "string", Example: raw(`"BAD_REQUEST"`)},
				"message":   {Type: "string", Example: raw(`"Validation failed"`)},
				"details":   {Type: "array", Items: ref("ErrorDetail")},
				"timestamp": {Type: "string", Format: "date-time"},
				"requestId": {Type: "string", Example: raw(`"9f1c2d3e-4b5a-6978-8a9b-0c1d2e3f4a5b"`)},
			},
		},
		"ErrorResponse": {
			Type:     "object",
			Required: []string{"success", "error"},
			Properties: map[string]*Schema{
				"success": {Type: "boolean", Example: raw("false")},
				"error":   ref("Error"),
			},
		},
		"Credentials": {
			Type:     "object",
			Required: []string{"email", "password"},
			Properties: map[string]*Schema{
				"email":    {Type: "string", Format: "email", Example: raw(`"jane.doe@example.com"`)},
				"password": {Type: "string", Format: "password", MinLength: length(8)},
				"name":     {Type: "string", Description: "Display name, used on registration"},
			},
		},
		"AuthTokens": {
			Type:     "object",
			Required: []string{"accessToken", "refreshToken", "expiresIn"},
			Properties: map[string]*Schema{
				"accessToken":  {Type: "string"},
				"refreshToken": {Type: "string"},
				"tokenType":    {Type: "string", Example: raw(`"Bearer"`)},
				"expiresIn":    {Type: "integer", Description: "Access token lifetime in seconds", Example: raw("3600")},
			},
		},
	}
}
