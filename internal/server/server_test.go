package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jozseflehocz/BookStore/internal/infra/db"
	infraRepo "github.com/jozseflehocz/BookStore/internal/infra/repository"
	"github.com/jozseflehocz/BookStore/internal/notify"
	"github.com/jozseflehocz/BookStore/internal/server"
	"github.com/jozseflehocz/BookStore/internal/usecase"
	"github.com/jozseflehocz/BookStore/internal/validator"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "e2e_secret"

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

type CreatedResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type Book struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	Quantity      int64  `json:"quantity"`
	SupplierName  string `json:"supplier_name"`
	SupplierPhone string `json:"supplier_phone"`
}

type CatalogItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
	InStock  bool   `json:"in_stock"`
}

type Catalog struct {
	Items []CatalogItem `json:"items"`
	Total int           `json:"total"`
}

type AdjustResponse struct {
	Book    Book   `json:"book"`
	Message string `json:"message"`
	Changed bool   `json:"changed"`
}

type testEnv struct {
	srv *httptest.Server
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := db.OpenSQLite(filepath.Join(t.TempDir(), "bookstore.db"), nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	hub := notify.NewHub()
	uc := usecase.NewBookUsecase(infraRepo.NewBookGormRepository(gdb), validator.NewBookValidator(), hub)
	srv := httptest.NewServer(server.New(uc, hub, testSecret))

	t.Cleanup(func() {
		srv.Close()
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return &testEnv{srv: srv}
}

func (e *testEnv) doJSON(t *testing.T, method, path, bearer string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, e.srv.URL+path, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func requireStatus(t *testing.T, resp *http.Response, want int, body []byte) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("status=%d want=%d body=%s", resp.StatusCode, want, string(body))
	}
}

func mustDecode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("json.Unmarshal failed: %v body=%s", err, string(body))
	}
	return v
}

func adminToken(t *testing.T) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "1",
		"role": "ADMIN",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func toStr(v int64) string {
	return strconv.FormatInt(v, 10)
}

func (e *testEnv) createBook(t *testing.T, name string, qty int64) int64 {
	t.Helper()
	resp, body := e.doJSON(t, http.MethodPost, "/books", "", map[string]interface{}{
		"name":           name,
		"price":          1200,
		"quantity":       qty,
		"supplier_name":  "HVG",
		"supplier_phone": "0036201111111",
	})
	requireStatus(t, resp, http.StatusOK, body)
	return mustDecode[CreatedResponse](t, body).ID
}

func Test_Health(t *testing.T) {
	e := newEnv(t)
	resp, body := e.doJSON(t, http.MethodGet, "/health", "", nil)
	requireStatus(t, resp, http.StatusOK, body)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

// 5から3減らす → 2。2から5減らす → 拒否で2のまま。空入力 → 拒否。
func Test_QuantityScenario(t *testing.T) {
	e := newEnv(t)
	id := e.createBook(t, "Dune", 5)

	resp, body := e.doJSON(t, http.MethodPost, "/books/"+toStr(id)+"/quantity/decrease", "", map[string]string{"amount": "3"})
	requireStatus(t, resp, http.StatusOK, body)
	adj := mustDecode[AdjustResponse](t, body)
	assert.Equal(t, int64(2), adj.Book.Quantity)
	assert.True(t, adj.Changed)
	assert.Equal(t, "quantity successfully decreased", adj.Message)

	resp, body = e.doJSON(t, http.MethodPost, "/books/"+toStr(id)+"/quantity/decrease", "", map[string]string{"amount": "5"})
	requireStatus(t, resp, http.StatusBadRequest, body)
	assert.Equal(t, "quantity can not be negative", mustDecode[ErrorResponse](t, body).Error)

	resp, body = e.doJSON(t, http.MethodPost, "/books/"+toStr(id)+"/quantity/decrease", "", map[string]string{"amount": ""})
	requireStatus(t, resp, http.StatusBadRequest, body)
	assert.Equal(t, "you must provide a value", mustDecode[ErrorResponse](t, body).Error)

	resp, body = e.doJSON(t, http.MethodGet, "/books/"+toStr(id), "", nil)
	requireStatus(t, resp, http.StatusOK, body)
	assert.Equal(t, int64(2), mustDecode[Book](t, body).Quantity)

	resp, body = e.doJSON(t, http.MethodPost, "/books/"+toStr(id)+"/quantity/increase", "", map[string]string{"amount": "10"})
	requireStatus(t, resp, http.StatusOK, body)
	assert.Equal(t, int64(12), mustDecode[AdjustResponse](t, body).Book.Quantity)
}

func Test_SaleUntilOutOfStock(t *testing.T) {
	e := newEnv(t)
	id := e.createBook(t, "Dune", 2)

	for want := int64(1); want >= 0; want-- {
		resp, body := e.doJSON(t, http.MethodPost, "/books/"+toStr(id)+"/sale", "", nil)
		requireStatus(t, resp, http.StatusOK, body)
		assert.Equal(t, want, mustDecode[Book](t, body).Quantity)
	}

	// 在庫0のカタログ行は「在庫なし」
	resp, body := e.doJSON(t, http.MethodGet, "/books", "", nil)
	requireStatus(t, resp, http.StatusOK, body)
	cat := mustDecode[Catalog](t, body)
	require.Len(t, cat.Items, 1)
	assert.False(t, cat.Items[0].InStock)

	resp, body = e.doJSON(t, http.MethodPost, "/books/"+toStr(id)+"/sale", "", nil)
	requireStatus(t, resp, http.StatusConflict, body)
	assert.Equal(t, "out of stock", mustDecode[ErrorResponse](t, body).Error)

	resp, body = e.doJSON(t, http.MethodPost, "/books/999/sale", "", nil)
	requireStatus(t, resp, http.StatusNotFound, body)
}

func Test_EditAndDeleteBook(t *testing.T) {
	e := newEnv(t)
	id := e.createBook(t, "Dune", 1)

	resp, body := e.doJSON(t, http.MethodPut, "/books/"+toStr(id), "", map[string]interface{}{
		"name":           "Dune Messiah",
		"price":          900,
		"quantity":       4,
		"supplier_name":  "Libri",
		"supplier_phone": "0036309999999",
	})
	requireStatus(t, resp, http.StatusOK, body)

	resp, body = e.doJSON(t, http.MethodGet, "/books/"+toStr(id), "", nil)
	requireStatus(t, resp, http.StatusOK, body)
	b := mustDecode[Book](t, body)
	assert.Equal(t, "Dune Messiah", b.Name)
	assert.Equal(t, "0036309999999", b.SupplierPhone)

	resp, body = e.doJSON(t, http.MethodPost, "/books", "", map[string]interface{}{"name": "x"})
	requireStatus(t, resp, http.StatusBadRequest, body)
	assert.Equal(t, "supplier name required", mustDecode[ErrorResponse](t, body).Error)

	resp, body = e.doJSON(t, http.MethodDelete, "/books/"+toStr(id), "", nil)
	requireStatus(t, resp, http.StatusOK, body)
	assert.Equal(t, "book deleted", mustDecode[SuccessResponse](t, body).Message)

	resp, body = e.doJSON(t, http.MethodDelete, "/books/"+toStr(id), "", nil)
	requireStatus(t, resp, http.StatusNotFound, body)
	assert.Equal(t, "error with deleting book", mustDecode[ErrorResponse](t, body).Error)

	resp, body = e.doJSON(t, http.MethodGet, "/books/"+toStr(id), "", nil)
	requireStatus(t, resp, http.StatusNotFound, body)

	resp, body = e.doJSON(t, http.MethodGet, "/books/abc", "", nil)
	requireStatus(t, resp, http.StatusBadRequest, body)
}

func Test_AdminDummyAndDeleteAll(t *testing.T) {
	e := newEnv(t)
	access := adminToken(t)

	// トークンなしは401
	resp, body := e.doJSON(t, http.MethodDelete, "/admin/books", "", nil)
	requireStatus(t, resp, http.StatusUnauthorized, body)

	for i := 0; i < 3; i++ {
		resp, body = e.doJSON(t, http.MethodPost, "/admin/books/dummy", access, nil)
		requireStatus(t, resp, http.StatusOK, body)
	}

	resp, body = e.doJSON(t, http.MethodGet, "/books", "", nil)
	requireStatus(t, resp, http.StatusOK, body)
	cat := mustDecode[Catalog](t, body)
	require.Len(t, cat.Items, 3)
	assert.Equal(t, "Star Wars", cat.Items[0].Name)
	assert.True(t, cat.Items[0].InStock)

	resp, body = e.doJSON(t, http.MethodDelete, "/admin/books", access, nil)
	requireStatus(t, resp, http.StatusOK, body)
	assert.JSONEq(t, `{"deleted":3}`, string(body))

	resp, body = e.doJSON(t, http.MethodGet, "/books", "", nil)
	requireStatus(t, resp, http.StatusOK, body)
	assert.Empty(t, mustDecode[Catalog](t, body).Items)
}

func Test_CatalogWebSocket(t *testing.T) {
	e := newEnv(t)

	wsURL := "ws" + strings.TrimPrefix(e.srv.URL, "http") + "/ws/books"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	readCatalog := func() Catalog {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var c Catalog
		require.NoError(t, conn.ReadJSON(&c))
		return c
	}

	// 接続直後は空の一覧
	assert.Empty(t, readCatalog().Items)

	id := e.createBook(t, "Dune", 1)

	// 変更のたびに最新の一覧が届く。合図はまとめられることがある。
	var c Catalog
	for len(c.Items) == 0 {
		c = readCatalog()
	}
	assert.Equal(t, id, c.Items[0].ID)

	resp, body := e.doJSON(t, http.MethodPost, "/books/"+toStr(id)+"/sale", "", nil)
	requireStatus(t, resp, http.StatusOK, body)

	for c.Items[0].InStock {
		c = readCatalog()
	}
	assert.Equal(t, int64(0), c.Items[0].Quantity)
}
