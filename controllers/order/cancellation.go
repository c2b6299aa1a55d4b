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

type RequestReason struct {
	Reason string `json:"reason" binding:"required"`
}

type RequestStatusUpdate struct {
	Status string `json:"status" binding:"required,oneof=APPROVED REJECTED COMPLETED"`
}

// POST /api/order-cancellations/:orderId
//
// A cancellation request is allowed while the order is PENDING or
// CONFIRMED. One request per order.
func (h *Handler) RequestCancellation(c *gin.Context) {
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

	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusConfirmed {
		utils.Fail(c, utils.BadRequest("This order can no longer be cancelled"))
		return
	}

	var existing models.OrderCancellation
	if err := h.db.Where("order_id = ?", order.ID).First(&existing).Error; err == nil {
		utils.Fail(c, utils.Conflict("A cancellation request already exists for this order"))
		return
	}

	cancellation := models.OrderCancellation{
		OrderID: order.ID,
		UserID:  userID,
		Reason:  req.Reason,
		Status:  models.RequestStatusRequested,
	}
	if err := h.db.Create(&cancellation).Error; err != nil {
		utils.Fail(c, err)
		return
	}

	utils.OK(c, http.StatusCreated, "Cancellation requested successfully", cancellation)
}

// GET /api/order-cancellations
func (h *Handler) GetUserCancellations(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.Fail(c, utils.Unauthorized("Not logged in"))
		return
	}

	var cancellations []models.OrderCancellation
	if err := h.db.Preload("Order").
		Where("user_id = ?", userID).
		Order("requested_at DESC").
		Find(&cancellations).Error; err != nil {
		utils.Fail(c, err)
		return
	}

	utils.OK(c, http.StatusOK, "Cancellation requests fetched successfully", cancellations)
}

// GET /api/order-cancellations/:id
func (h *Handler) GetCancellationByID(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.Fail(c, utils.Unauthorized("Not logged in"))
		return
	}

	var cancellation models.OrderCancellation
	err := h.db.Preload("Order").First(&cancellation, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Fail(c, utils.NotFound("Cancellation request not found"))
		return
	}
	if err != nil {
		utils.Fail(c, err)
		return
	}

	if cancellation.UserID != userID && !middleware.IsAdmin(c) {
		utils.Fail(c, utils.Forbidden("You do not have access to this request"))
		return
	}

	utils.OK(c, http.StatusOK, "Cancellation request fetched successfully", cancellation)
}

// GET /api/order-cancellations/all (admin)
func (h *Handler) GetAllCancellations(c *gin.Context) {
	query := h.db.Model(&models.OrderCancellation{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var cancellations []models.OrderCancellation
	if err := query.Preload("Order").Preload("Order.User").
		Order("requested_at DESC").
		Find(&cancellations).Error; err != nil {
		utils.Fail(c, err)
		return
	}

	utils.OK(c, http.StatusOK, "Cancellation requests fetched successfully", cancellations)
}

// PATCH /api/order-cancellations/:id/status (admin)
//
// Approving a cancellation cancels the order and restores its stock in
// the same transaction.
func (h *Handler) UpdateCancellationStatus(c *gin.Context) {
	var req RequestStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.BadRequest("Invalid input: "+err.Error()))
		return
	}
	next := models.RequestStatus(req.Status)

	var cancellation models.OrderCancellation
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cancellation, "id = ?", c.Param("id")).Error; err != nil {
			return utils.NotFound("Cancellation request not found")
		}

		if err := ValidateRequestTransition(cancellation.Status, next); err != nil {
			return err
		}

		if next == models.RequestStatusApproved {
			var order models.Order
			if err := tx.Preload("Items").First(&order, "id = ?", cancellation.OrderID).Error; err != nil {
				return err
			}
			if order.Status != models.OrderStatusCancelled {
				for _, item := range order.Items {
					if err := RestoreStock(tx, item.ProductID, item.Quantity); err != nil {
						return err
					}
				}
				order.Status = models.OrderStatusCancelled
				if err := tx.Save(&order).Error; err != nil {
					return err
				}
			}
		}

		now := time.Now()
		cancellation.Status = next
		cancellation.ProcessedAt = &now
		return tx.Save(&cancellation).Error
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.OK(c, http.StatusOK, "Cancellation request updated successfully", cancellation)
}
