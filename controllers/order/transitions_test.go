package orderControllers

import (
	"testing"

	"github.com/kartlane/ecommerce-api/models"
)

func TestValidateRequestTransitionAllowed(t *testing.T) {
	cases := []struct {
		current models.RequestStatus
		next    models.RequestStatus
	}{
		{models.RequestStatusRequested, models.RequestStatusApproved},
		{models.RequestStatusRequested, models.RequestStatusRejected},
		{models.RequestStatusApproved, models.RequestStatusCompleted},
	}

	for _, tc := range cases {
		if err := ValidateRequestTransition(tc.current, tc.next); err != nil {
			t.Errorf("expected %s -> %s to be allowed, got %v", tc.current, tc.next, err)
		}
	}
}

func TestValidateRequestTransitionRejected(t *testing.T) {
	cases := []struct {
		current models.RequestStatus
		next    models.RequestStatus
	}{
		{models.RequestStatusRequested, models.RequestStatusCompleted},
		{models.RequestStatusApproved, models.RequestStatusRejected},
		{models.RequestStatusRejected, models.RequestStatusApproved},
		{models.RequestStatusRejected, models.RequestStatusCompleted},
		{models.RequestStatusCompleted, models.RequestStatusApproved},
		{models.RequestStatusCompleted, models.RequestStatusRequested},
	}

	for _, tc := range cases {
		if err := ValidateRequestTransition(tc.current, tc.next); err == nil {
			t.Errorf("expected %s -> %s to be rejected", tc.current, tc.next)
		}
	}
}

func TestValidateRequestTransitionUnknownStatus(t *testing.T) {
	if err := ValidateRequestTransition("SOMETHING", models.RequestStatusApproved); err == nil {
		t.Fatal("expected error for unknown current status")
	}
}

func TestValidateOrderTransitionForward(t *testing.T) {
	cases := []struct {
		current models.OrderStatus
		next    models.OrderStatus
	}{
		{models.OrderStatusPending, models.OrderStatusConfirmed},
		{models.OrderStatusConfirmed, models.OrderStatusShipped},
		{models.OrderStatusShipped, models.OrderStatusDelivered},
	}

	for _, tc := range cases {
		if err := ValidateOrderTransition(tc.current, tc.next); err != nil {
			t.Errorf("expected %s -> %s to be allowed, got %v", tc.current, tc.next, err)
		}
	}
}

func TestValidateOrderTransitionBackwardRejected(t *testing.T) {
	cases := []struct {
		current models.OrderStatus
		next    models.OrderStatus
	}{
		{models.OrderStatusDelivered, models.OrderStatusPending},
		{models.OrderStatusShipped, models.OrderStatusConfirmed},
		{models.OrderStatusConfirmed, models.OrderStatusPending},
		{models.OrderStatusPending, models.OrderStatusShipped},
		{models.OrderStatusPending, models.OrderStatusDelivered},
	}

	for _, tc := range cases {
		if err := ValidateOrderTransition(tc.current, tc.next); err == nil {
			t.Errorf("expected %s -> %s to be rejected", tc.current, tc.next)
		}
	}
}

func TestValidateOrderTransitionCancel(t *testing.T) {
	for _, current := range []models.OrderStatus{
		models.OrderStatusPending,
		models.OrderStatusConfirmed,
		models.OrderStatusShipped,
	} {
		if err := ValidateOrderTransition(current, models.OrderStatusCancelled); err != nil {
			t.Errorf("expected cancel from %s to be allowed, got %v", current, err)
		}
	}

	if err := ValidateOrderTransition(models.OrderStatusDelivered, models.OrderStatusCancelled); err == nil {
		t.Error("expected cancel of a delivered order to be rejected")
	}
	if err := ValidateOrderTransition(models.OrderStatusCancelled, models.OrderStatusCancelled); err == nil {
		t.Error("expected cancel of a cancelled order to be rejected")
	}
}
