package movementservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"estoquemobile/internal/domain"
	apperror "estoquemobile/internal/errors"
	"estoquemobile/internal/pkg/logger"
	"estoquemobile/internal/service/movementservice"
)

// MockCatalog é uma implementação mock da interface Catalog.
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetOrRefresh(ctx context.Context) (*domain.Snapshot, error) {
	args := m.Called(ctx)
	if snap := args.Get(0); snap != nil {
		return snap.(*domain.Snapshot), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalog) Invalidate() {
	m.Called()
}

// MockWebhook é uma implementação mock da interface Webhook.
type MockWebhook struct {
	mock.Mock
}

func (m *MockWebhook) Submit(ctx context.Context, req domain.MovementRequest) (map[string]interface{}, error) {
	args := m.Called(ctx, req)
	if payload := args.Get(0); payload != nil {
		return payload.(map[string]interface{}), args.Error(1)
	}
	return nil, args.Error(1)
}

func snapshotWith(products ...domain.Product) *domain.Snapshot {
	return &domain.Snapshot{Products: products}
}

func defaultOpts() movementservice.Options {
	return movementservice.Options{ResponseFields: domain.DefaultResponseFieldMap()}
}

func newService(catalog *MockCatalog, webhook *MockWebhook, opts movementservice.Options) *movementservice.Service {
	return movementservice.NewService(catalog, webhook, opts, logger.NewLogger("error"))
}

// TestSubmitMovement_InvalidQuantity verifica que quantidade não positiva
// falha antes de qualquer interação de rede.
func TestSubmitMovement_InvalidQuantity(t *testing.T) {
	mockCatalog := new(MockCatalog)
	mockWebhook := new(MockWebhook)
	svc := newService(mockCatalog, mockWebhook, defaultOpts())

	_, err := svc.SubmitMovement(context.Background(), movementservice.MovementInput{
		Code: "P001", Quantity: 0, Kind: domain.MovementOutflow,
	})

	assert.Error(t, err)
	var validationErr *apperror.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, apperror.CodeInvalidQuantity, validationErr.Code)
	mockWebhook.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
	mockCatalog.AssertNotCalled(t, "GetOrRefresh", mock.Anything)
}

// TestSubmitMovement_UnknownKind verifica a rejeição de tipo inválido.
func TestSubmitMovement_UnknownKind(t *testing.T) {
	mockCatalog := new(MockCatalog)
	mockWebhook := new(MockWebhook)
	svc := newService(mockCatalog, mockWebhook, defaultOpts())

	_, err := svc.SubmitMovement(context.Background(), movementservice.MovementInput{
		Code: "P001", Quantity: 1, Kind: domain.MovementKind("transferencia"),
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockWebhook.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

// TestSubmitMovement_InsufficientStock verifica a checagem otimista de
// saída contra o estoque em cache: nenhuma requisição é enviada.
func TestSubmitMovement_InsufficientStock(t *testing.T) {
	mockCatalog := new(MockCatalog)
	mockWebhook := new(MockWebhook)
	svc := newService(mockCatalog, mockWebhook, defaultOpts())

	mockCatalog.On("GetOrRefresh", mock.Anything).
		Return(snapshotWith(domain.Product{Code: "P001", Name: "Parafuso", CurrentStock: 3}), nil)

	_, err := svc.SubmitMovement(context.Background(), movementservice.MovementInput{
		Code: "P001", Quantity: 5, Kind: domain.MovementOutflow,
	})

	assert.Error(t, err)
	var validationErr *apperror.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, apperror.CodeInsufficientStock, validationErr.Code)
	mockWebhook.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

// TestSubmitMovement_OutflowAtExactStock verifica a borda: saída igual ao
// estoque atual passa na validação e monta a requisição com tipo "saida".
func TestSubmitMovement_OutflowAtExactStock(t *testing.T) {
	mockCatalog := new(MockCatalog)
	mockWebhook := new(MockWebhook)
	svc := newService(mockCatalog, mockWebhook, defaultOpts())

	mockCatalog.On("GetOrRefresh", mock.Anything).
		Return(snapshotWith(domain.Product{Code: "P001", Name: "Parafuso", CurrentStock: 3}), nil)
	mockCatalog.On("Invalidate").Return()

	expectedReq := domain.MovementRequest{Code: "P001", Quantity: 3, Kind: domain.MovementOutflow}
	mockWebhook.On("Submit", mock.Anything, expectedReq).
		Return(map[string]interface{}{"success": true, "message": "Saída realizada", "novoEstoque": float64(0)}, nil)

	outcome, err := svc.SubmitMovement(context.Background(), movementservice.MovementInput{
		Code: "P001", Quantity: 3, Kind: domain.MovementOutflow,
	})

	assert.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "Saída realizada", outcome.Message)
	assert.NotNil(t, outcome.NewStock)
	assert.Equal(t, 0, *outcome.NewStock)
	mockWebhook.AssertExpectations(t)
	mockCatalog.AssertCalled(t, "Invalidate")
}

// TestSubmitMovement_CodePreservedVerbatim verifica que a requisição usa
// o código como está na planilha, mesmo com a busca case-insensitive.
func TestSubmitMovement_CodePreservedVerbatim(t *testing.T) {
	mockCatalog := new(MockCatalog)
	mockWebhook := new(MockWebhook)
	svc := newService(mockCatalog, mockWebhook, defaultOpts())

	mockCatalog.On("GetOrRefresh", mock.Anything).
		Return(snapshotWith(domain.Product{Code: "P001", Name: "Parafuso", CurrentStock: 10}), nil)
	mockCatalog.On("Invalidate").Return()

	expectedReq := domain.MovementRequest{Code: "P001", Quantity: 2, Kind: domain.MovementInflow}
	mockWebhook.On("Submit", mock.Anything, expectedReq).
		Return(map[string]interface{}{"success": true}, nil)

	outcome, err := svc.SubmitMovement(context.Background(), movementservice.MovementInput{
		Code: "p001", Quantity: 2, Kind: domain.MovementInflow,
	})

	assert.NoError(t, err)
	assert.True(t, outcome.Success)
	mockWebhook.AssertExpectations(t)
}

// TestSubmitMovement_UnknownProduct verifica o código inexistente no snapshot.
func TestSubmitMovement_UnknownProduct(t *testing.T) {
	mockCatalog := new(MockCatalog)
	mockWebhook := new(MockWebhook)
	svc := newService(mockCatalog, mockWebhook, defaultOpts())

	mockCatalog.On("GetOrRefresh", mock.Anything).Return(snapshotWith(), nil)

	_, err := svc.SubmitMovement(context.Background(), movementservice.MovementInput{
		Code: "P999", Quantity: 1, Kind: domain.MovementInflow,
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockWebhook.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

// TestSubmitMovement_TransportTimeoutBecomesRetryableFailure verifica que
// timeout de transporte vira Outcome de falha retryable, nunca error.
func TestSubmitMovement_TransportTimeoutBecomesRetryableFailure(t *testing.T) {
	mockCatalog := new(MockCatalog)
	mockWebhook := new(MockWebhook)
	svc := newService(mockCatalog, mockWebhook, defaultOpts())

	mockCatalog.On("GetOrRefresh", mock.Anything).
		Return(snapshotWith(domain.Product{Code: "P001", Name: "Parafuso", CurrentStock: 10}), nil)
	mockWebhook.On("Submit", mock.Anything, mock.Anything).
		Return(nil, apperror.NewTransportError(apperror.TransportTimeout, "tempo esgotado aguardando o webhook", nil))

	outcome, err := svc.SubmitMovement(context.Background(), movementservice.MovementInput{
		Code: "P001", Quantity: 1, Kind: domain.MovementInflow,
	})

	assert.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.True(t, outcome.Retryable)
	assert.Contains(t, outcome.Reason, "timeout")
	mockCatalog.AssertNotCalled(t, "Invalidate")
}

// TestSubmitMovement_ConnectionFailureDistinguishedFromTimeout verifica
// que o motivo distingue erro de conexão de timeout.
func TestSubmitMovement_ConnectionFailureDistinguishedFromTimeout(t *testing.T) {
	mockCatalog := new(MockCatalog)
	mockWebhook := new(MockWebhook)
	svc := newService(mockCatalog, mockWebhook, defaultOpts())

	mockCatalog.On("GetOrRefresh", mock.Anything).
		Return(snapshotWith(domain.Product{Code: "P001", Name: "Parafuso", CurrentStock: 10}), nil)
	mockWebhook.On("Submit", mock.Anything, mock.Anything).
		Return(nil, apperror.NewTransportError(apperror.TransportConnection, "falha de conexão com o webhook", nil))

	outcome, err := svc.SubmitMovement(context.Background(), movementservice.MovementInput{
		Code: "P001", Quantity: 1, Kind: domain.MovementInflow,
	})

	assert.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.True(t, outcome.Retryable)
	assert.Contains(t, outcome.Reason, "connection")
	assert.NotContains(t, outcome.Reason, "timeout")
}

// TestSubmitMovement_RemoteRejection verifica que success=false no
// payload vira falha com o motivo do endpoint, sem invalidar o cache.
func TestSubmitMovement_RemoteRejection(t *testing.T) {
	mockCatalog := new(MockCatalog)
	mockWebhook := new(MockWebhook)
	svc := newService(mockCatalog, mockWebhook, defaultOpts())

	mockCatalog.On("GetOrRefresh", mock.Anything).
		Return(snapshotWith(domain.Product{Code: "P001", Name: "Parafuso", CurrentStock: 10}), nil)
	mockWebhook.On("Submit", mock.Anything, mock.Anything).
		Return(map[string]interface{}{"success": false, "error": "Estoque insuficiente na planilha"}, nil)

	outcome, err := svc.SubmitMovement(context.Background(), movementservice.MovementInput{
		Code: "P001", Quantity: 1, Kind: domain.MovementOutflow,
	})

	assert.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, "Estoque insuficiente na planilha", outcome.Reason)
	mockCatalog.AssertNotCalled(t, "Invalidate")
}

// TestSubmitMovement_OperatorRoster verifica a política de roster fixo.
func TestSubmitMovement_OperatorRoster(t *testing.T) {
	mockCatalog := new(MockCatalog)
	mockWebhook := new(MockWebhook)

	opts := movementservice.Options{
		CollectOperator: true,
		Operators:       []string{"Maria", "Pericles"},
		ResponseFields:  domain.DefaultResponseFieldMap(),
	}
	svc := newService(mockCatalog, mockWebhook, opts)

	// Colaborador fora do roster: rejeitado antes da rede.
	_, err := svc.SubmitMovement(context.Background(), movementservice.MovementInput{
		Code: "P001", Quantity: 1, Kind: domain.MovementInflow, Operator: "Intruso",
	})
	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)

	// Colaborador ausente com coleta habilitada: rejeitado.
	_, err = svc.SubmitMovement(context.Background(), movementservice.MovementInput{
		Code: "P001", Quantity: 1, Kind: domain.MovementInflow,
	})
	assert.Error(t, err)

	// Colaborador do roster: incluído no payload.
	mockCatalog.On("GetOrRefresh", mock.Anything).
		Return(snapshotWith(domain.Product{Code: "P001", Name: "Parafuso", CurrentStock: 10}), nil)
	mockCatalog.On("Invalidate").Return()

	expectedReq := domain.MovementRequest{Code: "P001", Quantity: 1, Kind: domain.MovementInflow, Operator: "Maria"}
	mockWebhook.On("Submit", mock.Anything, expectedReq).
		Return(map[string]interface{}{"success": true}, nil)

	outcome, err := svc.SubmitMovement(context.Background(), movementservice.MovementInput{
		Code: "P001", Quantity: 1, Kind: domain.MovementInflow, Operator: "Maria",
	})
	assert.NoError(t, err)
	assert.True(t, outcome.Success)
	mockWebhook.AssertExpectations(t)
}

// TestSubmitMovement_OperatorIgnoredWhenNotCollected verifica que, sem
// coleta de operador, o campo não entra na requisição.
func TestSubmitMovement_OperatorIgnoredWhenNotCollected(t *testing.T) {
	mockCatalog := new(MockCatalog)
	mockWebhook := new(MockWebhook)
	svc := newService(mockCatalog, mockWebhook, defaultOpts())

	mockCatalog.On("GetOrRefresh", mock.Anything).
		Return(snapshotWith(domain.Product{Code: "P001", Name: "Parafuso", CurrentStock: 10}), nil)
	mockCatalog.On("Invalidate").Return()

	expectedReq := domain.MovementRequest{Code: "P001", Quantity: 1, Kind: domain.MovementInflow}
	mockWebhook.On("Submit", mock.Anything, expectedReq).
		Return(map[string]interface{}{"success": true}, nil)

	_, err := svc.SubmitMovement(context.Background(), movementservice.MovementInput{
		Code: "P001", Quantity: 1, Kind: domain.MovementInflow, Operator: "Alguém",
	})

	assert.NoError(t, err)
	mockWebhook.AssertExpectations(t)
}

// TestSubmitMovement_NoSnapshotPropagatesError verifica que sem snapshot
// algum o erro da fonte sobe para o chamador.
func TestSubmitMovement_NoSnapshotPropagatesError(t *testing.T) {
	mockCatalog := new(MockCatalog)
	mockWebhook := new(MockWebhook)
	svc := newService(mockCatalog, mockWebhook, defaultOpts())

	mockCatalog.On("GetOrRefresh", mock.Anything).
		Return(nil, apperror.NewSourceFormatError("planilha fora do ar", nil))

	_, err := svc.SubmitMovement(context.Background(), movementservice.MovementInput{
		Code: "P001", Quantity: 1, Kind: domain.MovementInflow,
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.SourceFormatError{}, err)
	mockWebhook.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}
