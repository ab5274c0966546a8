package errors

import (
	"fmt"
	"net/http"
)

// AppError é a interface central para todos os erros customizados.
// Permite que a camada de Handler acesse a Categoria e o status HTTP
// sugerido sem conhecer o tipo concreto.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria do erro (e.g., "VALIDATION_ERROR", "TRANSPORT_ERROR")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Unwrap() error    // Permite encapsular o erro subjacente
}

// --- Erros de Validação (locais, pré-rede) ---

// Códigos de validação reconhecidos pelo fluxo de movimentação.
const (
	CodeInvalidQuantity   = "INVALID_QUANTITY"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
)

// ValidationError representa falhas de validação de dados de entrada.
// Erros de validação interrompem o fluxo antes de qualquer chamada de rede.
type ValidationError struct {
	Code string // Vazio para validações genéricas de payload
	Msg  string
}

func (e *ValidationError) Error() string    { return fmt.Sprintf("Erro de Validação: %s", e.Msg) }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError cria um erro de validação genérico.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NewInvalidQuantityError cria o erro para quantidade não positiva.
func NewInvalidQuantityError(msg string) AppError {
	return &ValidationError{Code: CodeInvalidQuantity, Msg: msg}
}

// NewInsufficientStockError cria o erro para saída maior que o estoque
// em cache. A checagem é otimista: usa o snapshot local, não a planilha.
func NewInsufficientStockError(msg string) AppError {
	return &ValidationError{Code: CodeInsufficientStock, Msg: msg}
}

// NotFoundError representa a ausência de um recurso solicitado.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("Recurso não encontrado: %s", e.Msg) }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound } // 404
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// --- Erros da Fonte de Dados (planilha) ---

// SourceFormatError indica que a fonte inteira está ilegível como dado
// tabular (falha de fetch ou de decodificação do CSV). Problemas por
// linha nunca geram este erro — são absorvidos na normalização.
type SourceFormatError struct {
	Msg string
	Err error
}

func (e *SourceFormatError) Error() string    { return fmt.Sprintf("Fonte ilegível: %s", e.Msg) }
func (e *SourceFormatError) Category() string { return "SOURCE_FORMAT_ERROR" }
func (e *SourceFormatError) HTTPStatus() int  { return http.StatusBadGateway } // 502
func (e *SourceFormatError) Unwrap() error    { return e.Err }

// NewSourceFormatError cria o erro de fonte ilegível.
func NewSourceFormatError(msg string, err error) AppError {
	return &SourceFormatError{Msg: msg, Err: err}
}

// --- Erros de Transporte (webhook de movimentação) ---

// TransportKind distingue as falhas de transporte. Todas são
// recuperáveis por nova tentativa do usuário.
type TransportKind string

const (
	TransportTimeout    TransportKind = "timeout"
	TransportConnection TransportKind = "connection"
	TransportStatus     TransportKind = "http-status"
)

// TransportError representa uma falha na comunicação com o endpoint de
// movimentação: timeout, erro de conexão ou status HTTP não-2xx.
type TransportError struct {
	Kind TransportKind
	Msg  string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("Falha de transporte (%s): %s", e.Kind, e.Msg)
}
func (e *TransportError) Category() string { return "TRANSPORT_ERROR" }
func (e *TransportError) HTTPStatus() int {
	if e.Kind == TransportTimeout {
		return http.StatusGatewayTimeout // 504
	}
	return http.StatusBadGateway // 502
}
func (e *TransportError) Unwrap() error { return e.Err }

// NewTransportError cria um erro de transporte classificado.
func NewTransportError(kind TransportKind, msg string, err error) AppError {
	return &TransportError{Kind: kind, Msg: msg, Err: err}
}

// RemoteRejectionError indica que o endpoint respondeu, mas com um corpo
// que não pôde ser interpretado. Rejeições explícitas (success=false)
// não são erros Go — viram um MovementOutcome de falha.
type RemoteRejectionError struct {
	Msg string
	Err error
}

func (e *RemoteRejectionError) Error() string    { return fmt.Sprintf("Rejeição remota: %s", e.Msg) }
func (e *RemoteRejectionError) Category() string { return "REMOTE_REJECTION" }
func (e *RemoteRejectionError) HTTPStatus() int  { return http.StatusBadGateway } // 502
func (e *RemoteRejectionError) Unwrap() error    { return e.Err }

// NewRemoteRejectionError cria o erro de resposta remota ininterpretável.
func NewRemoteRejectionError(msg string, err error) AppError {
	return &RemoteRejectionError{Msg: msg, Err: err}
}

// --- Erros de Infraestrutura ---

// InternalError representa falhas inesperadas no serviço.
type InternalError struct {
	Msg string
	Err error
}

func (e *InternalError) Error() string    { return fmt.Sprintf("Erro Interno: %s", e.Msg) }
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro de servidor.
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// --- Helper para o Handler (Tradução Final) ---

// MapToHTTPStatus recebe um erro e o traduz para código HTTP, categoria
// e mensagem para o corpo da resposta.
func MapToHTTPStatus(err error) (int, string, string) {
	if appErr, ok := err.(AppError); ok {
		return appErr.HTTPStatus(), appErr.Category(), appErr.Error()
	}

	// Erro não tipado: tratar como erro interno genérico.
	return http.StatusInternalServerError, "UNKNOWN_ERROR", "Ocorreu um erro inesperado."
}
