package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignatureValid(t *testing.T) {
	secret := "test-secret"
	orderID := "order_abc123"
	paymentID := "pay_xyz789"

	signature := sign(secret, orderID, paymentID)
	if !VerifySignature(secret, orderID, paymentID, signature) {
		t.Fatal("expected a valid signature to verify")
	}
}

func TestVerifySignatureTampered(t *testing.T) {
	secret := "test-secret"
	signature := sign(secret, "order_abc123", "pay_xyz789")

	if VerifySignature(secret, "order_abc123", "pay_other", signature) {
		t.Fatal("expected signature for a different payment id to fail")
	}
	if VerifySignature(secret, "order_other", "pay_xyz789", signature) {
		t.Fatal("expected signature for a different order id to fail")
	}
	if VerifySignature("wrong-secret", "order_abc123", "pay_xyz789", signature) {
		t.Fatal("expected signature with the wrong secret to fail")
	}
}

func TestVerifySignatureGarbage(t *testing.T) {
	if VerifySignature("test-secret", "order_abc123", "pay_xyz789", "not-a-signature") {
		t.Fatal("expected garbage signature to fail")
	}
}
