package common

// Envelope codes shared by every service surface.
const (
	CodeOK                    = 200
	CodeInvalidRequest        = 400
	CodeNotFound              = 404
	CodeInvalidTransition     = 409
	CodeDependencyUnavailable = 503
)

// Result é o envelope de resposta padrão dos serviços
type Result struct {
	Success      bool   `json:"success"`
	Data         any    `json:"data"`
	ErrorCode    int    `json:"errorCode"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// Ok monta um envelope de sucesso
func Ok(data any) Result {
	return Result{
		Success:   true,
		Data:      data,
		ErrorCode: CodeOK,
	}
}

// Error monta um envelope de falha com código e mensagem
func Error(code int, message string) Result {
	return Result{
		Success:      false,
		Data:         nil,
		ErrorCode:    code,
		ErrorMessage: message,
	}
}
