package response

type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse reports the reachability of each configured backend.
type HealthResponse struct {
	Status   string            `json:"status"` // "ok" or "degraded"
	Services map[string]string `json:"services,omitempty"`
}
