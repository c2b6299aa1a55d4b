package orderControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kartlane/ecommerce-api/middleware"
	"github.com/kartlane/ecommerce-api/models"
	"github.com/kartlane/ecommerce-api/utils"
	"gorm.io/gorm"
)

// POST /api/order-returns/:orderId
//
// Returns are only accepted for delivered orders. One request per
// order.
func (h *Handler) RequestReturn(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.Fail(c, utils.Unauthorized("Not logged in"))
		return
	}

	var req RequestReason
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.BadRequest("Invalid input: "+err.Error()))
		return
	}

	var order models.Order
	if err := h.db.Where("id = ? AND user_id = ?", c.Param("orderId"), userID).
		First(&order).Error; err != nil {
		utils.Fail(c, utils.NotFound("Order not found"))
		return
	}

	if order.Status != models.OrderStatusDelivered {
		utils.Fail(c, utils.BadRequest("Only delivered orders can be returned"))
		return
	}

	var existing models.OrderReturn
	if err := h.db.Where("order_id = ?", order.ID).First(&existing).Error; err == nil {
		utils.Fail(c, utils.Conflict("A return request already exists for this order"))
		return
	}

	orderReturn := models.OrderReturn{
		OrderID: order.ID,
		UserID:  userID,
		Reason:  req.Reason,
		Status:  models.RequestStatusRequested,
	}
	if err := h.db.Create(&orderReturn).Error; err != nil {
		utils.Fail(c, err)
		return
	}

	utils.OK(c, http.StatusCreated, "Return requested successfully", orderReturn)
}

// GET /api/order-returns
func (h *Handler) GetUserReturns(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.Fail(c, utils.Unauthorized("Not logged in"))
		return
	}

	var returns []models.OrderReturn
	if err := h.db.Preload("Order").
		Where("user_id = ?", userID).
		Order("requested_at DESC").
		Find(&returns).Error; err != nil {
		utils.Fail(c, err)
		return
	}

	utils.OK(c, http.StatusOK, "Return requests fetched successfully", returns)
}

// GET /api/order-returns/:id
func (h *Handler) GetReturnByID(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.Fail(c, utils.Unauthorized("Not logged in"))
		return
	}

	var orderReturn models.OrderReturn
	err := h.db.Preload("Order").First(&orderReturn, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Fail(c, utils.NotFound("Return request not found"))
		return
	}
	if err != nil {
		utils.Fail(c, err)
		return
	}

	if orderReturn.UserID != userID && !middleware.IsAdmin(c) {
		utils.Fail(c, utils.Forbidden("You do not have access to this request"))
		return
	}

	utils.OK(c, http.StatusOK, "Return request fetched successfully", orderReturn)
}

// GET /api/order-returns/all (admin)
func (h *Handler) GetAllReturns(c *gin.Context) {
	query := h.db.Model(&models.OrderReturn{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var returns []models.OrderReturn
	if err := query.Preload("Order").Preload("Order.User").
		Order("requested_at DESC").
		Find(&returns).Error; err != nil {
		utils.Fail(c, err)
		return
	}

	utils.OK(c, http.StatusOK, "Return requests fetched successfully", returns)
}

// PATCH /api/order-returns/:id/status (admin)
//
// COMPLETED marks the goods as received back; refund bookkeeping stays
// on the payment record and is updated separately by the payments
// admin endpoint.
func (h *Handler) UpdateReturnStatus(c *gin.Context) {
	var req RequestStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.BadRequest("Invalid input: "+err.Error()))
		return
	}
	next := models.RequestStatus(req.Status)

	var orderReturn models.OrderReturn
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&orderReturn, "id = ?", c.Param("id")).Error; err != nil {
			return utils.NotFound("Return request not found")
		}

		if err := ValidateRequestTransition(orderReturn.Status, next); err != nil {
			return err
		}

		now := time.Now()
		orderReturn.Status = next
		orderReturn.ProcessedAt = &now
		return tx.Save(&orderReturn).Error
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.OK(c, http.StatusOK, "Return request updated successfully", orderReturn)
}
