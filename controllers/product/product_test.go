package productControllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func mockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}
	return gdb, mock
}

func TestGetProductByIDFound(t *testing.T) {
	gdb, mock := mockDB(t)

	productID := "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	categoryID := "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "products"`).
		WithArgs(productID, 1).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "description", "price", "discount_price",
			"stock", "image_url", "category_id", "created_at", "updated_at", "deleted_at",
		}).AddRow(
			productID, "Desk Lamp", "Warm light", 49.99, nil,
			12, "", categoryID, now, now, nil,
		))

	mock.ExpectQuery(`SELECT \* FROM "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}).
			AddRow(categoryID, "Lighting", ""))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/products/:id", GetProductByID(gdb))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/"+productID, nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Title string `json:"title"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !body.Success || body.Data.Title != "Desk Lamp" {
		t.Fatalf("unexpected response body: %s", w.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetProductByIDNotFound(t *testing.T) {
	gdb, mock := mockDB(t)

	productID := "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	mock.ExpectQuery(`SELECT \* FROM "products"`).
		WithArgs(productID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/products/:id", GetProductByID(gdb))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/"+productID, nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}
