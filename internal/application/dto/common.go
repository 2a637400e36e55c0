package dto

// ErrorResponse respuesta de error estándar de la API: Code estable para el
// cliente, Message con el motivo específico (qué precondición o invariante falló).
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"` // true en conflictos de concurrencia
}
