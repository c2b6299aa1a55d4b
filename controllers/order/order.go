package orderControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kartlane/ecommerce-api/controllers/coupon"
	"github.com/kartlane/ecommerce-api/middleware"
	"github.com/kartlane/ecommerce-api/models"
	"github.com/kartlane/ecommerce-api/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handler struct {
	db     *gorm.DB
	logger *zap.Logger
	mailer *utils.EmailService
	hub    *Hub
}

func NewHandler(db *gorm.DB, logger *zap.Logger, mailer *utils.EmailService, hub *Hub) *Handler {
	return &Handler{db: db, logger: logger, mailer: mailer, hub: hub}
}

// CheckoutLine is a cart line priced at checkout time.
type CheckoutLine struct {
	ProductID string
	Title     string
	Price     float64
	Quantity  int
}

// CheckoutPlan is the priced view of a user's cart, with an optional
// coupon already validated against the subtotal.
type CheckoutPlan struct {
	Lines          []CheckoutLine
	Subtotal       float64
	DiscountAmount float64
	TotalAmount    float64
	Coupon         *models.Coupon
}

// PlanCheckout prices the user's cart and applies the coupon if one was
// given. It only reads; stock is checked again, conditionally, inside
// the finalize transaction.
func PlanCheckout(db *gorm.DB, userID, couponCode string) (*CheckoutPlan, error) {
	var items []models.CartItem
	if err := db.Preload("Product").Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, utils.BadRequest("Cart is empty")
	}

	plan := &CheckoutPlan{Lines: make([]CheckoutLine, 0, len(items))}
	for _, item := range items {
		if item.Product == nil {
			return nil, utils.BadRequest("A product in your cart no longer exists")
		}
		if item.Product.Stock < item.Quantity {
			return nil, utils.BadRequest("Insufficient stock for " + item.Product.Title)
		}
		price := item.Product.EffectivePrice()
		plan.Lines = append(plan.Lines, CheckoutLine{
			ProductID: item.ProductID,
			Title:     item.Product.Title,
			Price:     price,
			Quantity:  item.Quantity,
		})
		plan.Subtotal += price * float64(item.Quantity)
	}

	plan.TotalAmount = plan.Subtotal
	if couponCode != "" {
		coupon, discount, err := couponControllers.Validate(db, userID, couponCode, plan.Subtotal)
		if err != nil {
			return nil, err
		}
		plan.Coupon = coupon
		plan.DiscountAmount = discount
		plan.TotalAmount = plan.Subtotal - discount
	}

	return plan, nil
}

// DecrementStock takes qty units off a product only if enough remain.
// The conditional update makes concurrent checkouts safe without row
// locks.
func DecrementStock(tx *gorm.DB, productID string, qty int) error {
	result := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.BadRequest("Insufficient stock available")
	}
	return nil
}

// RestoreStock adds units back after a cancellation.
func RestoreStock(tx *gorm.DB, productID string, qty int) error {
	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", qty)).Error
}

// FinalizeOrder runs inside the caller's transaction: it decrements
// stock for every line, materializes the order items, records coupon
// usage and empties the cart. The order row itself must already exist.
func FinalizeOrder(tx *gorm.DB, order *models.Order, plan *CheckoutPlan) error {
	for _, line := range plan.Lines {
		if err := DecrementStock(tx, line.ProductID, line.Quantity); err != nil {
			return err
		}
		item := models.OrderItem{
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Price:     line.Price,
			Quantity:  line.Quantity,
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
	}

	if plan.Coupon != nil {
		usage := models.CouponUsage{UserID: order.UserID, CouponID: plan.Coupon.ID}
		if err := tx.Create(&usage).Error; err != nil {
			return err
		}
	}

	return tx.Where("user_id = ?", order.UserID).Delete(&models.CartItem{}).Error
}

type CheckoutRequest struct {
	AddressID  string `json:"address_id" binding:"required,uuid"`
	CouponCode string `json:"coupon_code"`
}

// POST /api/orders/checkout
//
// Cash-on-delivery checkout. The whole flow commits in one transaction;
// card payments go through the payment initiate/verify pair instead.
func (h *Handler) Checkout(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.Fail(c, utils.Unauthorized("Not logged in"))
		return
	}

	var req CheckoutRequest
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

	var order models.Order
	err := h.db.Transaction(func(tx *gorm.DB) error {
		plan, err := PlanCheckout(tx, userID, req.CouponCode)
		if err != nil {
			return err
		}

		order = models.Order{
			UserID:         userID,
			AddressID:      req.AddressID,
			TotalAmount:    plan.TotalAmount,
			DiscountAmount: plan.DiscountAmount,
			Status:         models.OrderStatusPending,
		}
		if plan.Coupon != nil {
			order.CouponID = &plan.Coupon.ID
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		payment := models.Payment{
			OrderID: order.ID,
			Amount:  plan.TotalAmount,
			Method:  models.PaymentMethodCOD,
			Status:  models.PaymentStatusSuccess,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		return FinalizeOrder(tx, &order, plan)
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}

	middleware.CountOrderPlaced(string(models.PaymentMethodCOD))

	if err := h.db.Preload("Items.Product").Preload("Address").
		First(&order, "id = ?", order.ID).Error; err == nil {
		h.hub.BroadcastOrderEvent("order.placed", &order)
	}

	h.sendConfirmation(userID, order)

	utils.OK(c, http.StatusCreated, "Order placed successfully", order)
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

// GET /api/orders
func (h *Handler) GetUserOrders(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.Fail(c, utils.Unauthorized("Not logged in"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	query := h.db.Model(&models.Order{}).Where("user_id = ?", userID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Fail(c, err)
		return
	}

	var orders []models.Order
	if err := query.Preload("Items.Product").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error; err != nil {
		utils.Fail(c, err)
		return
	}

	utils.OK(c, http.StatusOK, "Orders fetched successfully",
		utils.Paginated(orders, total, page, limit))
}

// GET /api/orders/:id
func (h *Handler) GetOrderByID(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.Fail(c, utils.Unauthorized("Not logged in"))
		return
	}

	var order models.Order
	err := h.db.Preload("Items.Product").Preload("Address").Preload("Coupon").
		First(&order, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Fail(c, utils.NotFound("Order not found"))
		return
	}
	if err != nil {
		utils.Fail(c, err)
		return
	}

	if order.UserID != userID && !middleware.IsAdmin(c) {
		utils.Fail(c, utils.Forbidden("You do not have access to this order"))
		return
	}

	utils.OK(c, http.StatusOK, "Order fetched successfully", order)
}

// GET /api/orders/all (admin)
func (h *Handler) GetAllOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := h.db.Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Fail(c, err)
		return
	}

	var orders []models.Order
	if err := query.Preload("User").Preload("Items.Product").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error; err != nil {
		utils.Fail(c, err)
		return
	}

	utils.OK(c, http.StatusOK, "Orders fetched successfully",
		utils.Paginated(orders, total, page, limit))
}

type OrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING CONFIRMED SHIPPED DELIVERED CANCELLED"`
}

// PATCH /api/orders/:id/status (admin)
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.BadRequest("Invalid input: "+err.Error()))
		return
	}

	next := models.OrderStatus(req.Status)

	var order models.Order
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, "id = ?", c.Param("id")).Error; err != nil {
			return utils.NotFound("Order not found")
		}

		if err := ValidateOrderTransition(order.Status, next); err != nil {
			return err
		}

		// An admin cancel restores stock the same way the user cancel
		// and the approved cancellation request do.
		if next == models.OrderStatusCancelled {
			for _, item := range order.Items {
				if err := RestoreStock(tx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}

		order.Status = next
		return tx.Save(&order).Error
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}

	h.hub.BroadcastOrderEvent("order.status_changed", &order)

	utils.OK(c, http.StatusOK, "Order status updated successfully", order)
}

// POST /api/orders/:id/cancel
//
// Direct self-service cancellation, only while the order is still
// PENDING. Anything later goes through a cancellation request.
func (h *Handler) CancelOrder(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.Fail(c, utils.Unauthorized("Not logged in"))
		return
	}

	var order models.Order
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").
			Where("id = ? AND user_id = ?", c.Param("id"), userID).
			First(&order).Error; err != nil {
			return utils.NotFound("Order not found")
		}
		if order.Status != models.OrderStatusPending {
			return utils.BadRequest("Only pending orders can be cancelled directly")
		}

		for _, item := range order.Items {
			if err := RestoreStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		order.Status = models.OrderStatusCancelled
		return tx.Save(&order).Error
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}

	h.hub.BroadcastOrderEvent("order.cancelled", &order)

	utils.OK(c, http.StatusOK, "Order cancelled successfully", order)
}
