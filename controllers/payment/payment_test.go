package paymentControllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/kartlane/ecommerce-api/controllers/order"
	"github.com/kartlane/ecommerce-api/gateway"
	"github.com/kartlane/ecommerce-api/middleware"
	"github.com/kartlane/ecommerce-api/models"
	"github.com/kartlane/ecommerce-api/utils"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testAccessSecret = "access-secret"
	testKeySecret    = "rzp-key-secret"
	testUserID       = "11111111-1111-1111-1111-111111111111"
	testOrderID      = "44444444-4444-4444-4444-444444444444"
	testAddressID    = "55555555-5555-5555-5555-555555555555"
)

type stubGateway struct {
	order   *gateway.Order
	created bool
	fetched bool
}

func (s *stubGateway) CreateOrder(amountPaise int64, receipt string, notes map[string]interface{}) (*gateway.Order, error) {
	s.created = true
	return s.order, nil
}

func (s *stubGateway) FetchOrder(orderID string) (*gateway.Order, error) {
	s.fetched = true
	return s.order, nil
}

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

func paymentRouter(t *testing.T, gdb *gorm.DB, gw gateway.Client) *gin.Engine {
	t.Helper()

	logger := zaptest.NewLogger(t)
	h := NewHandler(gdb, gw, testKeySecret, logger,
		utils.NewEmailService("", "no-reply@example.com"), orderControllers.NewHub(logger))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := middleware.RequireAuth(testAccessSecret)
	r.POST("/api/payments/initiate", auth, h.InitiatePayment)
	r.POST("/api/payments/verify", auth, h.VerifyRazorpayPayment)
	return r
}

func authedRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()

	token, err := utils.GenerateAccessToken(testAccessSecret, &models.User{
		ID:    testUserID,
		Email: "user@example.com",
		Role:  models.RoleUser,
	})
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: token})
	return req
}

func signPayment(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testKeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func orderRow(total float64, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "address_id", "coupon_id", "total_amount", "discount_amount", "status",
	}).AddRow(testOrderID, testUserID, testAddressID, nil, total, 0.0, status)
}

func paymentRow(status, razorpayOrderID string, amount float64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "order_id", "amount", "method", "status", "razorpay_order_id",
	}).AddRow("66666666-6666-6666-6666-666666666666", testOrderID, amount, "RAZORPAY", status, razorpayOrderID)
}

func expectVerifyLookups(mock sqlmock.Sqlmock, paymentStatus string) {
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 AND user_id = \$2`).
		WithArgs(testOrderID, testUserID, 1).
		WillReturnRows(orderRow(200, "PENDING"))
	mock.ExpectQuery(`SELECT \* FROM "payments" WHERE order_id = \$1`).
		WithArgs(testOrderID, 1).
		WillReturnRows(paymentRow(paymentStatus, "order_rzp1", 200))
}

func TestVerifyTamperedSignatureRejectedWithoutMutation(t *testing.T) {
	gdb, mock := mockDB(t)
	expectVerifyLookups(mock, "CREATED")

	gw := &stubGateway{}
	r := paymentRouter(t, gdb, gw)

	body := `{"order_id":"` + testOrderID + `","razorpay_order_id":"order_rzp1",` +
		`"razorpay_payment_id":"pay_1","razorpay_signature":"deadbeef"}`

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodPost, "/api/payments/verify", body))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if gw.fetched {
		t.Fatal("gateway must not be consulted for a bad signature")
	}
	// no transaction or update was queued, so any write would fail here
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected database activity: %v", err)
	}
}

func TestVerifyAlreadySucceededConflict(t *testing.T) {
	gdb, mock := mockDB(t)
	expectVerifyLookups(mock, "SUCCESS")

	r := paymentRouter(t, gdb, &stubGateway{})

	body := `{"order_id":"` + testOrderID + `","razorpay_order_id":"order_rzp1",` +
		`"razorpay_payment_id":"pay_1","razorpay_signature":"` + signPayment("order_rzp1", "pay_1") + `"}`

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodPost, "/api/payments/verify", body))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected database activity: %v", err)
	}
}

// A second verify that got past the fast-path check (the race window)
// must lose the conditional claim inside the transaction and roll back
// before any stock is touched.
func TestVerifyLosesClaimInsideTransaction(t *testing.T) {
	gdb, mock := mockDB(t)
	expectVerifyLookups(mock, "CREATED")

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	r := paymentRouter(t, gdb, &stubGateway{
		order: &gateway.Order{ID: "order_rzp1", Status: "paid", AmountPaise: 20000},
	})

	body := `{"order_id":"` + testOrderID + `","razorpay_order_id":"order_rzp1",` +
		`"razorpay_payment_id":"pay_1","razorpay_signature":"` + signPayment("order_rzp1", "pay_1") + `"}`

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodPost, "/api/payments/verify", body))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// A retry while an open gateway order exists for the same cart total
// must hand back the existing gateway order instead of minting another
// pending order.
func TestInitiateReusesOpenOrder(t *testing.T) {
	gdb, mock := mockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "addresses" WHERE id = \$1 AND user_id = \$2`).
		WithArgs(testAddressID, testUserID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(testAddressID, testUserID))

	mock.ExpectQuery(`SELECT \* FROM "cart_items" WHERE user_id = \$1`).
		WithArgs(testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "product_id", "quantity"}).
			AddRow("77777777-7777-7777-7777-777777777777", testUserID,
				"88888888-8888-8888-8888-888888888888", 2))

	mock.ExpectQuery(`SELECT \* FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "price", "stock"}).
			AddRow("88888888-8888-8888-8888-888888888888", "Desk Lamp", 100.0, 5))

	mock.ExpectQuery(`FROM "orders" JOIN payments ON payments.order_id = orders.id`).
		WithArgs(testUserID, "PENDING", "RAZORPAY", "CREATED", 1).
		WillReturnRows(orderRow(200, "PENDING"))

	mock.ExpectQuery(`SELECT \* FROM "payments" WHERE order_id = \$1`).
		WithArgs(testOrderID, 1).
		WillReturnRows(paymentRow("CREATED", "order_rzp1", 200))

	gw := &stubGateway{}
	r := paymentRouter(t, gdb, gw)

	body := `{"address_id":"` + testAddressID + `"}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, http.MethodPost, "/api/payments/initiate", body))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "order_rzp1") {
		t.Fatalf("expected the existing gateway order in the response: %s", w.Body.String())
	}
	if gw.created {
		t.Fatal("gateway must not create a second order for the same cart")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
