package handler

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// ChatRequest represents the chat request body. A bare JSON string is also
// accepted and taken as the content.
type ChatRequest struct {
	Content        interface{} `json:"content" swaggertype:"string" example:"[{\"role\":\"client\",\"text\":\"Is parking included?\"}]"`
	Goal           string      `json:"goal,omitempty" example:"book a site visit"`
	ProjectContext string      `json:"projectContext,omitempty" example:"3BHK towers, possession June 2026"`
	CompanyContext string      `json:"companyContext,omitempty" example:"Acme Homes, 20 years in Pune"`
}

// OptionBody documents one ranked option.
type OptionBody struct {
	Option string  `json:"option" example:"Would Saturday morning suit you for a walkthrough?"`
	Score  float64 `json:"score" example:"0.87"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status      string   `json:"status" example:"ok"`
	Connections int      `json:"connections,omitempty" example:"4"`
	Providers   []string `json:"providers,omitempty"`
	Error       string   `json:"error,omitempty" example:"no generation provider configured"`
}

// Response wraps a successful response.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
