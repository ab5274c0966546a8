package domain

// MovementKind identifica o tipo de movimentação. Os valores são os
// literais que o webhook do Apps Script espera no campo 'tipo'.
type MovementKind string

const (
	MovementInflow  MovementKind = "entrada"
	MovementOutflow MovementKind = "saida"
)

// Valid informa se o tipo de movimentação é um dos reconhecidos.
func (k MovementKind) Valid() bool {
	return k == MovementInflow || k == MovementOutflow
}

// MovementRequest é o payload enviado ao webhook de movimentação.
// Os nomes de campo (em português) são o contrato do endpoint externo.
// 'colaborador' só é serializado nas implantações que coletam a
// identidade do operador.
type MovementRequest struct {
	Code     string       `json:"codigo"`
	Quantity int          `json:"quantidade"`
	Kind     MovementKind `json:"tipo"`
	Operator string       `json:"colaborador,omitempty"`
}

// MovementOutcome é o resultado tipado de uma movimentação submetida:
// sucesso com decorações opcionais, ou falha com motivo legível.
// PreviousStock/NewStock são opcionais — o webhook pode ou não informá-los.
type MovementOutcome struct {
	Success       bool   `json:"success"`
	Message       string `json:"message,omitempty"`
	Reason        string `json:"reason,omitempty"`
	Retryable     bool   `json:"retryable,omitempty"`
	PreviousStock *int   `json:"previous_stock,omitempty"`
	NewStock      *int   `json:"new_stock,omitempty"`
}

// ResponseFieldMap mapeia os conceitos da resposta do webhook para os
// nomes de campo usados pela implantação concreta. Implantações distintas
// do script usam nomes diferentes para os mesmos conceitos, então o
// mapeamento é declarativo e vem da configuração.
type ResponseFieldMap struct {
	Success       string
	Message       string
	Error         string
	PreviousStock string
	NewStock      string
}

// DefaultResponseFieldMap retorna o mapeamento usado pelo script padrão.
func DefaultResponseFieldMap() ResponseFieldMap {
	return ResponseFieldMap{
		Success:       "success",
		Message:       "message",
		Error:         "error",
		PreviousStock: "estoqueAnterior",
		NewStock:      "novoEstoque",
	}
}
