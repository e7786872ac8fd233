package service

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) Insert(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status *model.OrderStatus, paymentStatus *model.PaymentStatus) (*model.Order, error) {
	args := m.Called(ctx, id, status, paymentStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }

func validAddress() model.Address {
	return model.Address{
		Line1:      "12 High Street",
		City:       "Oxford",
		Country:    "GB",
		PostalCode: "OX1 1AA",
	}
}

func checkoutRequest(items ...model.CheckoutItem) *model.CheckoutRequest {
	return &model.CheckoutRequest{
		Items:           items,
		CustomerName:    "Ada Lovelace",
		CustomerEmail:   "ada@example.com",
		ShippingAddress: validAddress(),
	}
}

func TestCheckoutService_PlaceOrder_Success(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	productA := model.Product{ID: uuid.New(), Name: "Keyboard", Slug: "keyboard", Price: 100.00, Stock: 10, IsActive: true}
	productB := model.Product{ID: uuid.New(), Name: "Mouse", Slug: "mouse", Price: 25.50, Stock: 4, IsActive: true}

	req := checkoutRequest(
		model.CheckoutItem{ProductID: productA.ID, Quantity: 3},
		model.CheckoutItem{ProductID: productB.ID, Quantity: 2},
	)

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	mockTx := new(MockTx)

	service := NewCheckoutService(mockOrderRepo, mockProductRepo, logger)

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockProductRepo.On("FindActiveByIDs", ctx, mockTx, []uuid.UUID{productA.ID, productB.ID}).
		Return([]model.Product{productA, productB}, nil)
	mockProductRepo.On("DecrementStock", ctx, mockTx, productA.ID, 3).Return(true, nil)
	mockProductRepo.On("DecrementStock", ctx, mockTx, productB.ID, 2).Return(true, nil)
	mockOrderRepo.On("Insert", ctx, mockTx, mock.AnythingOfType("*model.Order")).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	order, err := service.PlaceOrder(ctx, userID, req)

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.NotEqual(t, uuid.Nil, order.ID)
	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, model.PaymentStatusPending, order.PaymentStatus)
	assert.InDelta(t, 351.00, order.TotalAmount, 0.001)

	// Line items snapshot name and price at checkout time.
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Keyboard", order.Items[0].Name)
	assert.Equal(t, 100.00, order.Items[0].Price)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, "Mouse", order.Items[1].Name)

	mockOrderRepo.AssertExpectations(t)
	mockProductRepo.AssertExpectations(t)
	mockTx.AssertExpectations(t)
	assert.True(t, mockTx.committed)
	assert.False(t, mockTx.rolledBack)
}

func TestCheckoutService_PlaceOrder_InsufficientStock(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	product := model.Product{ID: uuid.New(), Name: "Keyboard", Slug: "keyboard", Price: 100.00, Stock: 2, IsActive: true}

	req := checkoutRequest(model.CheckoutItem{ProductID: product.ID, Quantity: 5})

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	mockTx := new(MockTx)

	service := NewCheckoutService(mockOrderRepo, mockProductRepo, logger)

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockProductRepo.On("FindActiveByIDs", ctx, mockTx, []uuid.UUID{product.ID}).
		Return([]model.Product{product}, nil)
	mockProductRepo.On("DecrementStock", ctx, mockTx, product.ID, 5).Return(false, nil)
	mockTx.On("Rollback", ctx).Return(nil)

	order, err := service.PlaceOrder(ctx, userID, req)

	require.Error(t, err)
	assert.Nil(t, order)

	var stockErr *model.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, product.ID, stockErr.ProductID)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)

	mockOrderRepo.AssertNotCalled(t, "Insert")
	mockTx.AssertExpectations(t)
	assert.True(t, mockTx.rolledBack)
	assert.False(t, mockTx.committed)
}

func TestCheckoutService_PlaceOrder_InvalidProducts(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	active := model.Product{ID: uuid.New(), Name: "Keyboard", Slug: "keyboard", Price: 100.00, Stock: 10, IsActive: true}
	missingID := uuid.New()

	req := checkoutRequest(
		model.CheckoutItem{ProductID: active.ID, Quantity: 1},
		model.CheckoutItem{ProductID: missingID, Quantity: 1},
	)

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	mockTx := new(MockTx)

	service := NewCheckoutService(mockOrderRepo, mockProductRepo, logger)

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockProductRepo.On("FindActiveByIDs", ctx, mockTx, []uuid.UUID{active.ID, missingID}).
		Return([]model.Product{active}, nil)
	mockTx.On("Rollback", ctx).Return(nil)

	order, err := service.PlaceOrder(ctx, userID, req)

	require.Error(t, err)
	assert.Nil(t, order)

	var invalidErr *model.InvalidProductError
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, []uuid.UUID{missingID}, invalidErr.ProductIDs)

	// No stock was touched and no order row was written.
	mockProductRepo.AssertNotCalled(t, "DecrementStock")
	mockOrderRepo.AssertNotCalled(t, "Insert")
	mockTx.AssertExpectations(t)
	assert.True(t, mockTx.rolledBack)
}

func TestCheckoutService_PlaceOrder_DuplicateLines(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	product := model.Product{ID: uuid.New(), Name: "Keyboard", Slug: "keyboard", Price: 10.00, Stock: 10, IsActive: true}

	// The same product appears on two cart lines. The lookup is deduplicated
	// and stock is taken in a single decrement for the combined quantity,
	// while each line is charged and recorded separately.
	req := checkoutRequest(
		model.CheckoutItem{ProductID: product.ID, Quantity: 2},
		model.CheckoutItem{ProductID: product.ID, Quantity: 3},
	)

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	mockTx := new(MockTx)

	service := NewCheckoutService(mockOrderRepo, mockProductRepo, logger)

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockProductRepo.On("FindActiveByIDs", ctx, mockTx, []uuid.UUID{product.ID}).
		Return([]model.Product{product}, nil)
	mockProductRepo.On("DecrementStock", ctx, mockTx, product.ID, 5).Return(true, nil)
	mockOrderRepo.On("Insert", ctx, mockTx, mock.AnythingOfType("*model.Order")).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	order, err := service.PlaceOrder(ctx, userID, req)

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Len(t, order.Items, 2)
	assert.InDelta(t, 50.00, order.TotalAmount, 0.001)

	mockProductRepo.AssertExpectations(t)
}

func TestCheckoutService_PlaceOrder_DecrementOrderIsDeterministic(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	first := model.Product{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), Name: "Keyboard", Slug: "keyboard", Price: 10.00, Stock: 10, IsActive: true}
	second := model.Product{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), Name: "Mouse", Slug: "mouse", Price: 5.00, Stock: 10, IsActive: true}

	// Cart lines reference the products in descending ID order. Stock is
	// still taken in ascending ID order so two concurrent checkouts holding
	// each other's next row lock cannot deadlock.
	req := checkoutRequest(
		model.CheckoutItem{ProductID: second.ID, Quantity: 1},
		model.CheckoutItem{ProductID: first.ID, Quantity: 2},
	)

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	mockTx := new(MockTx)

	service := NewCheckoutService(mockOrderRepo, mockProductRepo, logger)

	var decremented []uuid.UUID
	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockProductRepo.On("FindActiveByIDs", ctx, mockTx, []uuid.UUID{second.ID, first.ID}).
		Return([]model.Product{first, second}, nil)
	mockProductRepo.On("DecrementStock", ctx, mockTx, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("int")).
		Run(func(args mock.Arguments) {
			decremented = append(decremented, args.Get(2).(uuid.UUID))
		}).
		Return(true, nil)
	mockOrderRepo.On("Insert", ctx, mockTx, mock.AnythingOfType("*model.Order")).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	order, err := service.PlaceOrder(ctx, userID, req)

	require.NoError(t, err)
	require.NotNil(t, order)
	require.Equal(t, []uuid.UUID{first.ID, second.ID}, decremented)

	// Order lines keep the cart order even though locking reordered the
	// decrements.
	require.Len(t, order.Items, 2)
	assert.Equal(t, second.ID, order.Items[0].ProductID)
	assert.Equal(t, first.ID, order.Items[1].ProductID)
	assert.InDelta(t, 25.00, order.TotalAmount, 0.001)
}

func TestCheckoutService_PlaceOrder_InsertFailureRollsBack(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	product := model.Product{ID: uuid.New(), Name: "Keyboard", Slug: "keyboard", Price: 100.00, Stock: 10, IsActive: true}

	req := checkoutRequest(model.CheckoutItem{ProductID: product.ID, Quantity: 1})

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	mockTx := new(MockTx)

	service := NewCheckoutService(mockOrderRepo, mockProductRepo, logger)

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockProductRepo.On("FindActiveByIDs", ctx, mockTx, []uuid.UUID{product.ID}).
		Return([]model.Product{product}, nil)
	mockProductRepo.On("DecrementStock", ctx, mockTx, product.ID, 1).Return(true, nil)
	mockOrderRepo.On("Insert", ctx, mockTx, mock.AnythingOfType("*model.Order")).
		Return(errors.New("database error"))
	mockTx.On("Rollback", ctx).Return(nil)

	order, err := service.PlaceOrder(ctx, userID, req)

	require.Error(t, err)
	assert.Nil(t, order)

	mockTx.AssertExpectations(t)
	assert.True(t, mockTx.rolledBack)
	assert.False(t, mockTx.committed)
}

func TestCheckoutService_PlaceOrder_BeginTxFailure(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	product := uuid.New()
	req := checkoutRequest(model.CheckoutItem{ProductID: product, Quantity: 1})

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)

	service := NewCheckoutService(mockOrderRepo, mockProductRepo, logger)

	mockOrderRepo.On("BeginTx", ctx).Return(nil, errors.New("connection refused"))

	order, err := service.PlaceOrder(ctx, uuid.New(), req)

	require.Error(t, err)
	assert.Nil(t, order)
	mockProductRepo.AssertNotCalled(t, "FindActiveByIDs")
}

func TestCheckoutService_PlaceOrder_ValidationErrors(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)

	service := NewCheckoutService(mockOrderRepo, mockProductRepo, logger)

	productID := uuid.New()

	tests := []struct {
		name        string
		req         *model.CheckoutRequest
		expectedErr error
	}{
		{
			name: "Nil request",
			req:  nil,
		},
		{
			name:        "Empty items",
			req:         checkoutRequest(),
			expectedErr: model.ErrEmptyCart,
		},
		{
			name: "Missing product ID",
			req:  checkoutRequest(model.CheckoutItem{Quantity: 1}),
		},
		{
			name:        "Zero quantity",
			req:         checkoutRequest(model.CheckoutItem{ProductID: productID, Quantity: 0}),
			expectedErr: model.ErrInvalidQuantity,
		},
		{
			name:        "Negative quantity",
			req:         checkoutRequest(model.CheckoutItem{ProductID: productID, Quantity: -5}),
			expectedErr: model.ErrInvalidQuantity,
		},
		{
			name: "Missing customer name",
			req: &model.CheckoutRequest{
				Items:           []model.CheckoutItem{{ProductID: productID, Quantity: 1}},
				CustomerEmail:   "ada@example.com",
				ShippingAddress: validAddress(),
			},
		},
		{
			name: "Missing shipping address",
			req: &model.CheckoutRequest{
				Items:         []model.CheckoutItem{{ProductID: productID, Quantity: 1}},
				CustomerName:  "Ada Lovelace",
				CustomerEmail: "ada@example.com",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := service.PlaceOrder(ctx, uuid.New(), tt.req)

			require.Error(t, err)
			assert.Nil(t, order)
			if tt.expectedErr != nil {
				assert.Equal(t, tt.expectedErr, err)
			}
		})
	}

	// Validation failures never reach the database.
	mockOrderRepo.AssertNotCalled(t, "BeginTx")
}
