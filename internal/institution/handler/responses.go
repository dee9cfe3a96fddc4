package handler

// DecisionResponse is returned by the approve and reject endpoints.
type DecisionResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// RequestedResponse is returned on a recorded registration request.
type RequestedResponse struct {
	Message string `json:"message"`
}

// InstitutionView is the public listing shape. The registrar code never
// leaves the admin approve response.
type InstitutionView struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
}
