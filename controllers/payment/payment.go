package paymentControllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kartlane/ecommerce-api/controllers/order"
	"github.com/kartlane/ecommerce-api/gateway"
	"github.com/kartlane/ecommerce-api/middleware"
	"github.com/kartlane/ecommerce-api/models"
	"github.com/kartlane/ecommerce-api/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handler struct {
	db        *gorm.DB
	gw        gateway.Client
	keySecret string
	logger    *zap.Logger
	mailer    *utils.EmailService
	hub       *orderControllers.Hub
}

func NewHandler(db *gorm.DB, gw gateway.Client, keySecret string, logger *zap.Logger, mailer *utils.EmailService, hub *orderControllers.Hub) *Handler {
	return &Handler{db: db, gw: gw, keySecret: keySecret, logger: logger, mailer: mailer, hub: hub}
}

type InitiateRequest struct {
	AddressID  string `json:"address_id" binding:"required,uuid"`
	CouponCode string `json:"coupon_code"`
}

// POST /api/payments/initiate
//
// Creates a pending order without items plus a gateway order. Stock is
// not touched and the cart stays intact until verification succeeds;
// the priced cart is re-planned at verify time.
func (h *Handler) InitiatePayment(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.Fail(c, utils.Unauthorized("Not logged in"))
		return
	}

	var req InitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.BadRequest("Invalid input: "+err.Error()))
		return
	}

	var address models.Address
	if err := h.db.Where("id = ? AND user_id = ?", req.AddressID, userID).
		First(&address).Error; err != nil {
		utils.Fail(c, utils.NotFound("Address not found or does not belong to user"))
		return
	}

	plan, err := orderControllers.PlanCheckout(h.db, userID, req.CouponCode)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	// A retry after a failed client handoff must not mint a second
	// pending order. Reuse the open one while the cart still prices the
	// same; supersede it when it does not.
	var open models.Order
	err = h.db.Joins("JOIN payments ON payments.order_id = orders.id").
		Where("orders.user_id = ? AND orders.status = ? AND payments.method = ? AND payments.status = ?",
			userID, models.OrderStatusPending, models.PaymentMethodRazorpay, models.PaymentStatusCreated).
		First(&open).Error
	if err == nil {
		var openPayment models.Payment
		if err := h.db.Where("order_id = ?", open.ID).First(&openPayment).Error; err != nil {
			utils.Fail(c, err)
			return
		}

		if math.Abs(open.TotalAmount-plan.TotalAmount) <= 0.01 {
			utils.OK(c, http.StatusOK, "Payment already initiated", gin.H{
				"orderId":         open.ID,
				"paymentId":       openPayment.ID,
				"razorpayOrderId": openPayment.RazorpayOrderID,
				"amount":          int64(math.Round(open.TotalAmount * 100)),
				"currency":        "INR",
			})
			return
		}

		// Pending gateway orders have no items and never touched stock,
		// so superseding is pure bookkeeping.
		err := h.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Payment{}).Where("id = ?", openPayment.ID).
				Update("status", models.PaymentStatusFailed).Error; err != nil {
				return err
			}
			return tx.Model(&models.Order{}).Where("id = ?", open.ID).
				Update("status", models.OrderStatusCancelled).Error
		})
		if err != nil {
			utils.Fail(c, err)
			return
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Fail(c, err)
		return
	}

	order := models.Order{
		UserID:         userID,
		AddressID:      req.AddressID,
		TotalAmount:    plan.TotalAmount,
		DiscountAmount: plan.DiscountAmount,
		Status:         models.OrderStatusPending,
	}
	if plan.Coupon != nil {
		order.CouponID = &plan.Coupon.ID
	}
	if err := h.db.Create(&order).Error; err != nil {
		utils.Fail(c, err)
		return
	}

	amountPaise := int64(math.Round(plan.TotalAmount * 100))
	gwOrder, err := h.gw.CreateOrder(amountPaise, order.ID, map[string]interface{}{
		"user_id": userID,
	})
	if err != nil {
		h.logger.Error("gateway order creation failed",
			zap.String("order_id", order.ID), zap.Error(err))
		utils.Fail(c, err)
		return
	}

	payment := models.Payment{
		OrderID:         order.ID,
		Amount:          plan.TotalAmount,
		Method:          models.PaymentMethodRazorpay,
		Status:          models.PaymentStatusCreated,
		RazorpayOrderID: gwOrder.ID,
	}
	if err := h.db.Create(&payment).Error; err != nil {
		utils.Fail(c, err)
		return
	}

	utils.OK(c, http.StatusCreated, "Payment initiated successfully", gin.H{
		"orderId":         order.ID,
		"paymentId":       payment.ID,
		"razorpayOrderId": gwOrder.ID,
		"amount":          amountPaise,
		"currency":        "INR",
	})
}

type VerifyRequest struct {
	OrderID           string `json:"order_id" binding:"required,uuid"`
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// POST /api/payments/verify
//
// The client callback is untrusted: after the signature check the
// authoritative order is fetched from the gateway and both its status
// and its amount are verified before any state changes. Only then does
// the finalize transaction decrement stock, materialize the items,
// confirm the order and clear the cart.
func (h *Handler) VerifyRazorpayPayment(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.Fail(c, utils.Unauthorized("Not logged in"))
		return
	}

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.BadRequest("Invalid input: "+err.Error()))
		return
	}

	var order models.Order
	if err := h.db.Preload("Coupon").
		Where("id = ? AND user_id = ?", req.OrderID, userID).
		First(&order).Error; err != nil {
		utils.Fail(c, utils.NotFound("Order not found"))
		return
	}

	var payment models.Payment
	if err := h.db.Where("order_id = ?", order.ID).First(&payment).Error; err != nil {
		utils.Fail(c, utils.NotFound("Payment not found for this order"))
		return
	}

	if payment.Status == models.PaymentStatusSuccess {
		utils.Fail(c, utils.Conflict("Payment has already been verified"))
		return
	}
	if payment.RazorpayOrderID != req.RazorpayOrderID {
		utils.Fail(c, utils.BadRequest("Gateway order does not match this order"))
		return
	}

	if !gateway.VerifySignature(h.keySecret, req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		h.logger.Warn("payment signature verification failed",
			zap.String("order_id", order.ID))
		utils.Fail(c, utils.BadRequest("Invalid payment signature"))
		return
	}

	gwOrder, err := h.gw.FetchOrder(req.RazorpayOrderID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if gwOrder.Status != "paid" {
		utils.Fail(c, utils.BadRequest("Payment has not been captured by the gateway"))
		return
	}
	expectedPaise := int64(math.Round(order.TotalAmount * 100))
	if gwOrder.AmountPaise != expectedPaise {
		h.logger.Warn("payment amount mismatch",
			zap.String("order_id", order.ID),
			zap.Int64("expected_paise", expectedPaise),
			zap.Int64("gateway_paise", gwOrder.AmountPaise))
		utils.Fail(c, utils.BadRequest("Payment amount does not match the order"))
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		// Claim the payment row first. The conditional update is the
		// guard against two concurrent verifies for the same order:
		// the second one blocks on the row, sees SUCCESS, affects zero
		// rows and rolls back before touching stock.
		claim := tx.Model(&models.Payment{}).
			Where("id = ? AND status <> ?", payment.ID, models.PaymentStatusSuccess).
			Updates(map[string]interface{}{
				"status":              models.PaymentStatusSuccess,
				"razorpay_payment_id": req.RazorpayPaymentID,
				"razorpay_signature":  req.RazorpaySignature,
			})
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return utils.Conflict("Payment has already been verified")
		}

		plan, err := orderControllers.PlanCheckout(tx, userID, "")
		if err != nil {
			return err
		}
		plan.Coupon = order.Coupon

		// The order was priced at initiate time; refuse to finalize if
		// the cart no longer prices to the amount that was paid.
		if math.Abs(plan.Subtotal-order.DiscountAmount-order.TotalAmount) > 0.01 {
			return utils.BadRequest("Cart has changed since payment was initiated")
		}

		if err := orderControllers.FinalizeOrder(tx, &order, plan); err != nil {
			return err
		}

		order.Status = models.OrderStatusConfirmed
		return tx.Save(&order).Error
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}

	payment.Status = models.PaymentStatusSuccess
	payment.RazorpayPaymentID = req.RazorpayPaymentID
	payment.RazorpaySignature = req.RazorpaySignature

	middleware.CountOrderPlaced(string(models.PaymentMethodRazorpay))

	if err := h.db.Preload("Items.Product").Preload("Address").
		First(&order, "id = ?", order.ID).Error; err == nil {
		h.hub.BroadcastOrderEvent("order.placed", &order)
	}

	h.sendConfirmation(userID, order)

	utils.OK(c, http.StatusOK, "Payment verified successfully", gin.H{
		"order":   order,
		"payment": payment,
	})
}

func (h *Handler) sendConfirmation(userID string, order models.Order) {
	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return
	}
	go func() {
		if err := h.mailer.SendOrderConfirmationEmail(user.Name, user.Email, order); err != nil {
			h.logger.Warn("order confirmation email failed",
				zap.String("order_id", order.ID), zap.Error(err))
		}
	}()
}

// GET /api/payments/order/:orderId
func (h *Handler) GetPaymentByOrderID(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.Fail(c, utils.Unauthorized("Not logged in"))
		return
	}

	var payment models.Payment
	err := h.db.Preload("Order").Where("order_id = ?", c.Param("orderId")).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Fail(c, utils.NotFound("Payment not found"))
		return
	}
	if err != nil {
		utils.Fail(c, err)
		return
	}

	if payment.Order != nil && payment.Order.UserID != userID && !middleware.IsAdmin(c) {
		utils.Fail(c, utils.Forbidden("You do not have access to this payment"))
		return
	}

	utils.OK(c, http.StatusOK, "Payment fetched successfully", payment)
}

// GET /api/payments/:id
func (h *Handler) GetPaymentByID(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.Fail(c, utils.Unauthorized("Not logged in"))
		return
	}

	var payment models.Payment
	err := h.db.Preload("Order").First(&payment, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Fail(c, utils.NotFound("Payment not found"))
		return
	}
	if err != nil {
		utils.Fail(c, err)
		return
	}

	if payment.Order != nil && payment.Order.UserID != userID && !middleware.IsAdmin(c) {
		utils.Fail(c, utils.Forbidden("You do not have access to this payment"))
		return
	}

	utils.OK(c, http.StatusOK, "Payment fetched successfully", payment)
}

// GET /api/payments (admin)
func (h *Handler) GetAllPayments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := h.db.Model(&models.Payment{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if method := c.Query("method"); method != "" {
		query = query.Where("method = ?", method)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Fail(c, err)
		return
	}

	var payments []models.Payment
	if err := query.Preload("Order").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&payments).Error; err != nil {
		utils.Fail(c, err)
		return
	}

	utils.OK(c, http.StatusOK, "Payments fetched successfully",
		utils.Paginated(payments, total, page, limit))
}

type PaymentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=CREATED SUCCESS FAILED REFUNDED"`
}

// PATCH /api/payments/:id/status (admin)
//
// Manual correction endpoint, used for marking refunds after a
// completed return.
func (h *Handler) UpdatePaymentStatus(c *gin.Context) {
	var req PaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.BadRequest("Invalid input: "+err.Error()))
		return
	}

	var payment models.Payment
	if err := h.db.First(&payment, "id = ?", c.Param("id")).Error; err != nil {
		utils.Fail(c, utils.NotFound("Payment not found"))
		return
	}

	payment.Status = models.PaymentStatus(req.Status)
	if err := h.db.Save(&payment).Error; err != nil {
		utils.Fail(c, err)
		return
	}

	utils.OK(c, http.StatusOK, "Payment status updated successfully", payment)
}
