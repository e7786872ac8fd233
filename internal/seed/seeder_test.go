package seed

import (
	"context"
	"testing"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of repository.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]model.Product), args.Int(1), args.Error(2)
}

func (m *MockProductRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) FindActiveByIDs(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) ([]model.Product, error) {
	args := m.Called(ctx, tx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, qty int) (bool, error) {
	args := m.Called(ctx, tx, id, qty)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) SetStock(ctx context.Context, id uuid.UUID, stock int) (*model.Product, error) {
	args := m.Called(ctx, id, stock)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) ToggleActive(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

// MockCategoryRepository is a mock implementation of repository.CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) ListActive(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func TestSeeder_Run_CreatesCategoriesAndProducts(t *testing.T) {
	ctx := context.Background()
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)

	records := []ProductRecord{
		{
			Name:     "Wireless Mouse",
			Slug:     "wireless-mouse",
			Category: CategoryRecord{Name: "Electronics", Slug: "electronics"},
			Price:    29.99,
			Stock:    50,
		},
		{
			Name:     "Mechanical Keyboard",
			Slug:     "mechanical-keyboard",
			Category: CategoryRecord{Name: "Electronics", Slug: "electronics"},
			Price:    119.00,
			Stock:    12,
		},
	}

	categoryRepo.On("GetBySlug", ctx, "electronics").Return(nil, nil).Once()
	categoryRepo.On("Create", ctx, mock.AnythingOfType("*model.Category")).Return(nil).Once()
	productRepo.On("GetBySlug", ctx, "wireless-mouse").Return(nil, nil)
	productRepo.On("GetBySlug", ctx, "mechanical-keyboard").Return(nil, nil)
	productRepo.On("Create", ctx, mock.AnythingOfType("*model.Product")).Return(nil).Twice()

	seeder := NewSeeder(productRepo, categoryRepo, zerolog.Nop())

	result, err := seeder.Run(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CategoriesCreated)
	assert.Equal(t, 2, result.ProductsCreated)
	assert.Equal(t, 0, result.Skipped)

	productRepo.AssertExpectations(t)
	categoryRepo.AssertExpectations(t)
}

func TestSeeder_Run_SkipsExistingProducts(t *testing.T) {
	ctx := context.Background()
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)

	existingCategory := &model.Category{ID: uuid.New(), Name: "Electronics", Slug: "electronics"}
	existingProduct := &model.Product{ID: uuid.New(), Slug: "wireless-mouse"}

	records := []ProductRecord{
		{
			Name:     "Wireless Mouse",
			Slug:     "wireless-mouse",
			Category: CategoryRecord{Name: "Electronics", Slug: "electronics"},
			Price:    29.99,
			Stock:    50,
		},
	}

	categoryRepo.On("GetBySlug", ctx, "electronics").Return(existingCategory, nil)
	productRepo.On("GetBySlug", ctx, "wireless-mouse").Return(existingProduct, nil)

	seeder := NewSeeder(productRepo, categoryRepo, zerolog.Nop())

	result, err := seeder.Run(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 0, result.CategoriesCreated)
	assert.Equal(t, 0, result.ProductsCreated)
	assert.Equal(t, 1, result.Skipped)

	productRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSeeder_Run_MissingCategorySlug(t *testing.T) {
	ctx := context.Background()
	seeder := NewSeeder(new(MockProductRepository), new(MockCategoryRepository), zerolog.Nop())

	records := []ProductRecord{
		{Name: "Orphan", Slug: "orphan"},
	}

	result, err := seeder.Run(ctx, records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no category slug")
	assert.Nil(t, result)
}
