package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/team0101/shoes-shop/internal/models"
	"github.com/team0101/shoes-shop/internal/purchase"
	"github.com/team0101/shoes-shop/internal/repo"
	"github.com/team0101/shoes-shop/internal/service"
	"github.com/team0101/shoes-shop/internal/transport"
)

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB
	P  *PurchaseHandler
	C  *CatalogHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Branch{},
		&models.Manufacturer{},
		&models.Customer{},
		&models.Employee{},
		&models.Product{},
		&models.PurchaseItem{},
		&models.Pickup{},
		&models.Refund{},
	))

	svc := &service.PurchaseService{
		Repo:   repo.NewGormRepo(db),
		Engine: purchase.Engine{},
	}

	return &testEnv{
		T:  t,
		E:  echo.New(),
		DB: db,
		P:  &PurchaseHandler{Svc: svc},
		C:  &CatalogHandler{DB: db},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func TestCreatePurchaseHandler(t *testing.T) {
	env := newTestEnv(t)

	req := transport.CreatePurchaseRequest{
		CustomerID: 1,
		BranchID:   2,
		Items: []transport.PurchaseLine{
			{ProductID: 10, Quantity: 2, UnitPrice: 50000},
			{ProductID: 11, Quantity: 1, UnitPrice: 30000},
		},
	}

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/purchases", req)
	require.NoError(t, env.P.CreatePurchase(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp transport.CreatePurchaseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.OrderTag)
	require.Len(t, resp.ItemIDs, 2)
}

func TestCreatePurchaseHandlerRejectsEmpty(t *testing.T) {
	env := newTestEnv(t)

	req := transport.CreatePurchaseRequest{CustomerID: 1, BranchID: 2}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/purchases", req)

	err := env.P.CreatePurchase(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestGetOrdersHandler(t *testing.T) {
	env := newTestEnv(t)

	now := time.Date(2025, 3, 14, 12, 0, 10, 0, time.UTC)
	items := []models.PurchaseItem{
		{ProductID: 1, CustomerID: 1, BranchID: 2, Quantity: 1, UnitPrice: 1000, OrderTag: "TXN-1", PurchasedAt: now},
		{ProductID: 2, CustomerID: 1, BranchID: 2, Quantity: 2, UnitPrice: 2000, OrderTag: "TXN-1", PurchasedAt: now},
		{ProductID: 3, CustomerID: 1, BranchID: 2, Quantity: 1, UnitPrice: 500, OrderTag: "TXN-2", PurchasedAt: now.Add(time.Hour)},
	}
	require.NoError(t, env.DB.Create(&items).Error)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/orders?customer_id=1", nil)
	require.NoError(t, env.P.GetOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Orders []purchase.LogicalOrder `json:"orders"`
		Total  int                     `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Total)
	require.Equal(t, "tag/TXN-2", resp.Orders[0].Key)
	require.Equal(t, 2, resp.Orders[1].ItemCount)
	require.Equal(t, int64(5000), resp.Orders[1].TotalAmount)
}

func TestGetOrdersHandlerRequiresCustomer(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodGet, "/api/v1/orders", nil)
	err := env.P.GetOrders(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestReturnFlowHandler(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()

	picked := now.Add(-5 * 24 * time.Hour)
	item := models.PurchaseItem{
		ProductID: 1, CustomerID: 1, BranchID: 2, Quantity: 2, UnitPrice: 50000,
		Status: models.StatusPickedUp, PurchasedAt: picked.Add(-time.Hour), PickedUpAt: &picked,
	}
	require.NoError(t, env.DB.Create(&item).Error)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/purchases/1/return", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.P.RequestReturn(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.StatusChangeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "return_requested", resp.Status)
}

func TestReturnFlowHandlerWindowClosed(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()

	picked := now.Add(-31 * 24 * time.Hour)
	item := models.PurchaseItem{
		ProductID: 1, CustomerID: 1, BranchID: 2, Quantity: 2, UnitPrice: 50000,
		Status: models.StatusPickedUp, PurchasedAt: picked.Add(-time.Hour), PickedUpAt: &picked,
	}
	require.NoError(t, env.DB.Create(&item).Error)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/purchases/1/return", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := env.P.RequestReturn(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnprocessableEntity, he.Code)
}

func TestChangeItemStatusHandlerInvalidTarget(t *testing.T) {
	env := newTestEnv(t)

	item := models.PurchaseItem{ProductID: 1, CustomerID: 1, BranchID: 2, Quantity: 1, UnitPrice: 100, PurchasedAt: time.Now()}
	require.NoError(t, env.DB.Create(&item).Error)

	// Skipping ready: rejected as a conflict.
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/purchases/1/status", transport.StatusChangeRequest{TargetStatus: "picked_up"})
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := env.P.ChangeItemStatus(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusConflict, he.Code)
	_ = rec

	// Unknown status name: bad request.
	_, c = env.doJSONRequest(http.MethodPost, "/api/v1/admin/purchases/1/status", transport.StatusChangeRequest{TargetStatus: "shipped"})
	c.SetParamNames("id")
	c.SetParamValues("1")

	err = env.P.ChangeItemStatus(c)
	require.Error(t, err)
	he, ok = err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestPickupHandler(t *testing.T) {
	env := newTestEnv(t)

	item := models.PurchaseItem{ProductID: 1, CustomerID: 1, BranchID: 2, Quantity: 1, UnitPrice: 100, Status: models.StatusReady, PurchasedAt: time.Now()}
	require.NoError(t, env.DB.Create(&item).Error)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/purchases/1/pickup", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.P.RecordPickup(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var got models.PurchaseItem
	require.NoError(t, env.DB.First(&got, item.ID).Error)
	require.Equal(t, models.StatusPickedUp, got.Status)
	require.NotNil(t, got.PickedUpAt)
}

func TestBranchCRUDHandlers(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/branches", models.Branch{Name: "Gangnam", Address: "Seoul"})
	require.NoError(t, env.C.CreateBranch(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, c = env.doJSONRequest(http.MethodGet, "/api/v1/branches", nil)
	require.NoError(t, env.C.ListBranches(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var branches []models.Branch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &branches))
	require.Len(t, branches, 1)
	require.Equal(t, "Gangnam", branches[0].Name)

	rec, c = env.doJSONRequest(http.MethodDelete, "/api/v1/admin/branches/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.C.DeleteBranch(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, c = env.doJSONRequest(http.MethodDelete, "/api/v1/admin/branches/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	err := env.C.DeleteBranch(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, he.Code)
}
