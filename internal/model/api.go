package model

// ErrorDetail is the body of every object-shaped error response.
type ErrorDetail struct {
	Message string `json:"message"`
}

// RouteDefinition describes one entry of the resource route table.
type RouteDefinition struct {
	URL    string `json:"url"`
	Method string `json:"method"`
}
