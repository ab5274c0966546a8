package movement

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"estoquemobile/internal/domain"
	apperror "estoquemobile/internal/errors"
	"estoquemobile/internal/pkg/logger"
	"estoquemobile/internal/pkg/middleware"
	"estoquemobile/internal/service/movementservice"
)

// MovementService define o contrato que o Handler espera da camada de Serviço.
type MovementService interface {
	SubmitMovement(ctx context.Context, in movementservice.MovementInput) (domain.MovementOutcome, error)
}

// Handler agrupa os métodos de Handler de movimentação.
type Handler struct {
	Service MovementService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc MovementService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// movementPayload é o corpo esperado em POST /v1/movements.
// Mesmos nomes de campo (em português) que a UI sempre usou.
type movementPayload struct {
	Codigo      string `json:"codigo"`
	Quantidade  int    `json:"quantidade"`
	Tipo        string `json:"tipo"`
	Colaborador string `json:"colaborador"`
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
				http.Error(w, "Erro ao codificar resposta", http.StatusInternalServerError)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	errorResponse := domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse)
}

// SubmitMovementHandler lida com POST /v1/movements.
//
// Erros de validação locais retornam 4xx. Falhas de transporte e
// rejeições do webhook retornam 200 com um MovementOutcome de falha —
// o fluxo nunca quebra, a UI exibe o motivo e permite repetir.
func (h *Handler) SubmitMovementHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var payload movementPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.handleServiceResponse(w, r, nil,
			apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusOK)
		return
	}

	h.Logger.Info("Movimentação recebida.", map[string]interface{}{
		"request_id": middleware.GetRequestID(r.Context()),
		"codigo":     payload.Codigo,
		"quantidade": payload.Quantidade,
		"tipo":       payload.Tipo,
	})

	input := movementservice.MovementInput{
		Code:     payload.Codigo,
		Quantity: payload.Quantidade,
		Kind:     domain.MovementKind(payload.Tipo),
		Operator: payload.Colaborador,
	}

	outcome, err := h.Service.SubmitMovement(r.Context(), input)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, outcome, nil, http.StatusOK)
}
