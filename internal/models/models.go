package models

// SwapResponse is returned by POST /tryon on success
type SwapResponse struct {
	Image string `json:"image"` // base64 PNG
}

// ErrorResponse is returned by POST /tryon on failure
type ErrorResponse struct {
	Detail string `json:"detail"`
	Kind   string `json:"kind,omitempty"` // "input", "reference", "upstream", "transport", "internal"
}

// HealthResponse is returned by GET /
type HealthResponse struct {
	Status string `json:"status"`
}
