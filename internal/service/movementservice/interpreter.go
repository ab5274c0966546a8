package movementservice

import (
	"encoding/json"

	"estoquemobile/internal/domain"
)

// InterpretPayload traduz o payload bruto do webhook em um resultado
// tipado, usando o mapeamento declarativo de nomes de campo da
// implantação. Os campos descritivos (mensagem, estoque anterior/novo)
// são decorações opcionais: a ausência deles nunca é erro.
func InterpretPayload(payload map[string]interface{}, fields domain.ResponseFieldMap) domain.MovementOutcome {
	success, _ := payload[fields.Success].(bool)

	if !success {
		// Flag ausente ou falsa: falha explícita do endpoint.
		reason := "Erro desconhecido"
		if v, ok := payload[fields.Error].(string); ok && v != "" {
			reason = v
		} else if v, ok := payload[fields.Message].(string); ok && v != "" {
			reason = v
		}
		return domain.MovementOutcome{
			Success:   false,
			Reason:    reason,
			Retryable: true,
		}
	}

	outcome := domain.MovementOutcome{Success: true}
	if v, ok := payload[fields.Message].(string); ok {
		outcome.Message = v
	}
	if n, ok := asInt(payload[fields.PreviousStock]); ok {
		outcome.PreviousStock = &n
	}
	if n, ok := asInt(payload[fields.NewStock]); ok {
		outcome.NewStock = &n
	}
	return outcome
}

// asInt extrai um inteiro de um valor JSON decodificado genericamente.
func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
	}
	return 0, false
}
