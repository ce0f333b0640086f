package domain

// ChatRequest es el cuerpo que viaja widget -> proxy -> asistente.
type ChatRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"sessionId,omitempty"`
}

// ChatResponse cubre tanto la respuesta del asistente como el error normalizado del proxy.
type ChatResponse struct {
	Answer string `json:"answer,omitempty"`
	Error  string `json:"error,omitempty"`
}
