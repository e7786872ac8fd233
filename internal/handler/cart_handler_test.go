package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/cart"
	"storefront/internal/model"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCartHandler(t *testing.T, products *MockProductService) (*CartHandler, cart.Store) {
	t.Helper()
	store := cart.NewMemoryStore()
	return NewCartHandler(store, products, validatorv10.New(), zerolog.Nop()), store
}

func TestCartHandler_AddAndGet(t *testing.T) {
	user := testUser()

	product := &model.Product{
		ID:       uuid.New(),
		Name:     "Keyboard",
		Slug:     "keyboard",
		Price:    100,
		Stock:    5,
		IsActive: true,
	}

	mockProducts := new(MockProductService)
	handler, _ := newCartHandler(t, mockProducts)

	mockProducts.On("GetByID", mock.Anything, product.ID).Return(product, nil)

	addReq := authedRequest(http.MethodPost, "/api/cart/items",
		map[string]interface{}{"productId": product.ID, "quantity": 2}, user)
	rec := httptest.NewRecorder()
	handler.AddItem(rec, addReq)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp CartResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, product.ID, resp.Items[0].ProductID)
	assert.Equal(t, "Keyboard", resp.Items[0].Name)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.Equal(t, 200.0, resp.Subtotal)

	// Adding the same product again merges into the existing line.
	addAgain := authedRequest(http.MethodPost, "/api/cart/items",
		map[string]interface{}{"productId": product.ID, "quantity": 1}, user)
	rec = httptest.NewRecorder()
	handler.AddItem(rec, addAgain)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 3, resp.Items[0].Quantity)

	// The cart survives across requests for the same user.
	getReq := authedRequest(http.MethodGet, "/api/cart", nil, user)
	rec = httptest.NewRecorder()
	handler.Get(rec, getReq)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 300.0, resp.Subtotal)
}

func TestCartHandler_AddItem_Unsellable(t *testing.T) {
	user := testUser()

	inactive := &model.Product{ID: uuid.New(), Name: "Retired", Slug: "retired", Price: 10, Stock: 5, IsActive: false}

	mockProducts := new(MockProductService)
	handler, _ := newCartHandler(t, mockProducts)

	mockProducts.On("GetByID", mock.Anything, inactive.ID).Return(inactive, nil)

	req := authedRequest(http.MethodPost, "/api/cart/items",
		map[string]interface{}{"productId": inactive.ID, "quantity": 1}, user)
	rec := httptest.NewRecorder()
	handler.AddItem(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, model.ErrCodeInvalidProduct, resp.Error)
}

func TestCartHandler_UpdateItem(t *testing.T) {
	user := testUser()

	product := &model.Product{ID: uuid.New(), Name: "Keyboard", Slug: "keyboard", Price: 100, Stock: 5, IsActive: true}

	mockProducts := new(MockProductService)
	handler, store := newCartHandler(t, mockProducts)

	c := cart.New()
	c.Add(cart.Item{ProductID: product.ID, Slug: product.Slug, Name: product.Name, Price: product.Price, Quantity: 2})
	require.NoError(t, store.Save(context.Background(), user.ID, c))

	t.Run("Set quantity", func(t *testing.T) {
		req := authedRequest(http.MethodPatch, "/api/cart/items/"+product.ID.String(),
			map[string]interface{}{"quantity": 5}, user)
		req.SetPathValue("productId", product.ID.String())

		rec := httptest.NewRecorder()
		handler.UpdateItem(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp CartResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Len(t, resp.Items, 1)
		assert.Equal(t, 5, resp.Items[0].Quantity)
	})

	t.Run("Zero quantity removes the line", func(t *testing.T) {
		req := authedRequest(http.MethodPatch, "/api/cart/items/"+product.ID.String(),
			map[string]interface{}{"quantity": 0}, user)
		req.SetPathValue("productId", product.ID.String())

		rec := httptest.NewRecorder()
		handler.UpdateItem(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp CartResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Empty(t, resp.Items)
	})

	t.Run("Unknown product", func(t *testing.T) {
		missing := uuid.New()
		req := authedRequest(http.MethodPatch, "/api/cart/items/"+missing.String(),
			map[string]interface{}{"quantity": 3}, user)
		req.SetPathValue("productId", missing.String())

		rec := httptest.NewRecorder()
		handler.UpdateItem(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCartHandler_Clear(t *testing.T) {
	user := testUser()

	mockProducts := new(MockProductService)
	handler, store := newCartHandler(t, mockProducts)

	c := cart.New()
	c.Add(cart.Item{ProductID: uuid.New(), Name: "Keyboard", Price: 100, Quantity: 1})
	require.NoError(t, store.Save(context.Background(), user.ID, c))

	req := authedRequest(http.MethodDelete, "/api/cart", nil, user)
	rec := httptest.NewRecorder()
	handler.Clear(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp CartResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Items)
	assert.Zero(t, resp.Subtotal)

	got, err := store.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Len())
}
