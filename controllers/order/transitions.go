package orderControllers

import (
	"github.com/kartlane/ecommerce-api/models"
	"github.com/kartlane/ecommerce-api/utils"
)

var requestTransitions = map[models.RequestStatus][]models.RequestStatus{
	models.RequestStatusRequested: {models.RequestStatusApproved, models.RequestStatusRejected},
	models.RequestStatusApproved:  {models.RequestStatusCompleted},
	models.RequestStatusRejected:  {},
	models.RequestStatusCompleted: {},
}

// ValidateRequestTransition enforces the cancellation/return state
// machine: REQUESTED can be approved or rejected, APPROVED can be
// completed, and REJECTED/COMPLETED are terminal.
func ValidateRequestTransition(current, next models.RequestStatus) error {
	allowed, ok := requestTransitions[current]
	if !ok {
		return utils.BadRequest("Unknown request status: " + string(current))
	}
	for _, s := range allowed {
		if s == next {
			return nil
		}
	}
	return utils.BadRequest(
		"Cannot transition request from " + string(current) + " to " + string(next))
}

var orderForward = map[models.OrderStatus]models.OrderStatus{
	models.OrderStatusPending:   models.OrderStatusConfirmed,
	models.OrderStatusConfirmed: models.OrderStatusShipped,
	models.OrderStatusShipped:   models.OrderStatusDelivered,
}

// ValidateOrderTransition enforces the forward-only order lifecycle
// PENDING -> CONFIRMED -> SHIPPED -> DELIVERED. CANCELLED is reachable
// from any state before delivery; delivered orders go through the
// return flow instead.
func ValidateOrderTransition(current, next models.OrderStatus) error {
	if next == models.OrderStatusCancelled {
		if current == models.OrderStatusDelivered || current == models.OrderStatusCancelled {
			return utils.BadRequest("This order can no longer be cancelled")
		}
		return nil
	}
	if orderForward[current] == next {
		return nil
	}
	return utils.BadRequest(
		"Cannot transition order from " + string(current) + " to " + string(next))
}
