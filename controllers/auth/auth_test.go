package authControllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/kartlane/ecommerce-api/config"
	"github.com/kartlane/ecommerce-api/utils"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
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

func loginRouter(t *testing.T, gdb *gorm.DB) *gin.Engine {
	t.Helper()

	cfg := &config.Config{
		JWTAccessSecret:  "access-secret",
		JWTRefreshSecret: "refresh-secret",
	}
	h := NewHandler(gdb, cfg, utils.NewEmailService("", "no-reply@example.com"), zaptest.NewLogger(t))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/auth/login", h.Login)
	return r
}

func userRow(id, email, phone, passwordHash string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "email", "phone", "password", "role", "is_verified",
	}).AddRow(id, "Test User", email, phone, passwordHash, "USER", true)
}

// A user who registered without a phone must be findable by email alone;
// the empty phone must not become part of the predicate, or it would
// match every other phone-less account first.
func TestLoginWithEmailOnly(t *testing.T) {
	gdb, mock := mockDB(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), 10)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	userID := "22222222-2222-2222-2222-222222222222"

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WithArgs("b@example.com", 1).
		WillReturnRows(userRow(userID, "b@example.com", "", string(hash)))

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "refresh_tokens"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	r := loginRouter(t, gdb)

	body := `{"email":"b@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLoginWithPhoneOnly(t *testing.T) {
	gdb, mock := mockDB(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), 10)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	userID := "33333333-3333-3333-3333-333333333333"

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE phone = \$1`).
		WithArgs("5551234567", 1).
		WillReturnRows(userRow(userID, "c@example.com", "5551234567", string(hash)))

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "refresh_tokens"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	r := loginRouter(t, gdb)

	body := `{"phone":"5551234567","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	gdb, mock := mockDB(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), 10)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WithArgs("b@example.com", 1).
		WillReturnRows(userRow("22222222-2222-2222-2222-222222222222", "b@example.com", "", string(hash)))

	r := loginRouter(t, gdb)

	body := `{"email":"b@example.com","password":"wrong-password"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
}
