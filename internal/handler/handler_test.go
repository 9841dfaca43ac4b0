package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"foodorder/internal/domain/model"
	"foodorder/internal/logger"
	repo "foodorder/internal/repository"
	"foodorder/internal/usecase"
	"foodorder/internal/validator"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type productRepoMock struct{ mock.Mock }

func (m *productRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	total, _ := args.Get(1).(int64)
	return items, total, args.Error(2)
}

func (m *productRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *productRepoMock) FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	panic("not used in handler tests")
}

func (m *productRepoMock) Create(ctx context.Context, p *model.Product) error {
	panic("not used in handler tests")
}

func (m *productRepoMock) Update(ctx context.Context, p *model.Product) error {
	panic("not used in handler tests")
}

func (m *productRepoMock) Delete(ctx context.Context, id int64) error {
	panic("not used in handler tests")
}

type envelopeBody struct {
	Status  int             `json:"status"`
	Success string          `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestEcho(t *testing.T, products *productRepoMock, logs *bytes.Buffer) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = NewErrorHandler(logger.New(logger.Config{Level: "error", Output: logs}))

	uc := usecase.NewProductUsecase(products, nil, nil, nil, usecase.SystemClock{})
	NewProductHandler(uc).RegisterRoutes(e.Group("/api"))
	return e
}

func doRequest(e *echo.Echo, method, target, lang string) (*httptest.ResponseRecorder, envelopeBody) {
	req := httptest.NewRequest(method, target, nil)
	if lang != "" {
		req.Header.Set("Accept-Language", lang)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body envelopeBody
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestProducts_ListEnvelope(t *testing.T) {
	products := new(productRepoMock)
	products.On("List", mock.Anything, repo.ProductListQuery{Page: 1, Limit: 2, Q: "burger"}).
		Return([]model.Product{{ID: 1, Name: "Burger"}}, int64(1), nil)
	e := newTestEcho(t, products, &bytes.Buffer{})

	rec, body := doRequest(e, http.MethodGet, "/api/products?page=1&limit=2&q=burger", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusOK, body.Status)
	assert.Equal(t, "success", body.Success)
	assert.Equal(t, "operation successful", body.Message)

	var data usecase.ProductListOutput
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, int64(1), data.Total)
	require.Len(t, data.Items, 1)
	assert.Equal(t, "Burger", data.Items[0].Name)
}

func TestProducts_ArabicSuccessMessage(t *testing.T) {
	products := new(productRepoMock)
	products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Name: "Burger"}, nil)
	e := newTestEcho(t, products, &bytes.Buffer{})

	_, body := doRequest(e, http.MethodGet, "/api/products/1", "ar-JO,ar;q=0.9")
	assert.Equal(t, "success", body.Success)
	assert.Equal(t, "تمت العملية بنجاح", body.Message)
}

func TestProducts_NotFoundKeepsSpecificMessage(t *testing.T) {
	products := new(productRepoMock)
	products.On("FindByID", mock.Anything, int64(999)).Return(nil, repo.ErrNotFound)
	e := newTestEcho(t, products, &bytes.Buffer{})

	for _, lang := range []string{"", "ar"} {
		rec, body := doRequest(e, http.MethodGet, "/api/products/999", lang)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "fail", body.Success)
		assert.Equal(t, "product not found", body.Message)
		assert.JSONEq(t, `{"code":"NOT_FOUND"}`, string(body.Data))
	}
}

func TestProducts_BadQuery(t *testing.T) {
	e := newTestEcho(t, new(productRepoMock), &bytes.Buffer{})

	rec, body := doRequest(e, http.MethodGet, "/api/products?page=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid page", body.Message)
	assert.JSONEq(t, `{"code":"VALIDATION_ERROR"}`, string(body.Data))

	rec, _ = doRequest(e, http.MethodGet, "/api/products/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorHandler_InternalErrorIsHiddenAndLogged(t *testing.T) {
	products := new(productRepoMock)
	products.On("List", mock.Anything, mock.Anything).Return(nil, nil, errors.New("connection refused"))
	logs := &bytes.Buffer{}
	e := newTestEcho(t, products, logs)

	rec, body := doRequest(e, http.MethodGet, "/api/products", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "something went wrong", body.Message)
	assert.NotContains(t, rec.Body.String(), "connection refused")
	assert.JSONEq(t, `{"code":"INTERNAL_ERROR"}`, string(body.Data))
	assert.Contains(t, logs.String(), "connection refused")

	_, body = doRequest(e, http.MethodGet, "/api/products", "ar")
	assert.Equal(t, "حدث خطأ في الخادم", body.Message)
}

func TestErrorHandler_EchoErrors(t *testing.T) {
	e := newTestEcho(t, new(productRepoMock), &bytes.Buffer{})

	rec, body := doRequest(e, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", body.Message)
	assert.Equal(t, "fail", body.Success)
}

func TestErrorHandler_GenericStatusesTranslated(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = NewErrorHandler(logger.Nop())
	e.GET("/private", func(c echo.Context) error {
		return usecase.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	})

	rec, body := doRequest(e, http.MethodGet, "/private", "ar")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "غير مصرح لك بالوصول", body.Message)
	assert.JSONEq(t, `{"code":"UNAUTHORIZED"}`, string(body.Data))
}

func TestBindAndValidate(t *testing.T) {
	e := echo.New()
	e.Validator = validator.New()

	newCtx := func(body string) echo.Context {
		req := httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		return e.NewContext(req, httptest.NewRecorder())
	}

	var ok AddCartRequest
	require.NoError(t, bindAndValidate(newCtx(`{"items":[{"product_id":1,"quantity":2,"spice":"0.5"}]}`), &ok))
	require.Len(t, ok.Items, 1)
	assert.Equal(t, "0.5", ok.Items[0].Spice.String())

	var empty AddCartRequest
	err := bindAndValidate(newCtx(`{"items":[]}`), &empty)
	he, isHTTP := usecase.AsHTTPError(err)
	require.True(t, isHTTP)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, usecase.CodeValidation, he.Code)

	var zeroQty AddCartRequest
	err = bindAndValidate(newCtx(`{"items":[{"product_id":1,"quantity":0}]}`), &zeroQty)
	he, _ = usecase.AsHTTPError(err)
	require.NotNil(t, he)
	assert.Equal(t, "quantity must be >= 1", he.Message)

	var broken AddCartRequest
	err = bindAndValidate(newCtx(`{"items":`), &broken)
	he, _ = usecase.AsHTTPError(err)
	require.NotNil(t, he)
	assert.Equal(t, "invalid body", he.Message)
}
