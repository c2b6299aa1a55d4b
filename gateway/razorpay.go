package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// Order is the subset of the gateway order we act on.
type Order struct {
	ID          string
	Status      string
	AmountPaise int64
}

// Client is the surface the payment flow needs from the gateway. The
// interface exists so the verification logic can be tested without
// network calls.
type Client interface {
	CreateOrder(amountPaise int64, receipt string, notes map[string]interface{}) (*Order, error)
	FetchOrder(orderID string) (*Order, error)
}

type razorpayClient struct {
	api *razorpay.Client
}

func NewRazorpayClient(keyID, keySecret string) Client {
	return &razorpayClient{api: razorpay.NewClient(keyID, keySecret)}
}

func (r *razorpayClient) CreateOrder(amountPaise int64, receipt string, notes map[string]interface{}) (*Order, error) {
	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}

	body, err := r.api.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}
	return parseOrder(body)
}

func (r *razorpayClient) FetchOrder(orderID string) (*Order, error) {
	body, err := r.api.Order.Fetch(orderID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gateway order: %w", err)
	}
	return parseOrder(body)
}

func parseOrder(body map[string]interface{}) (*Order, error) {
	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("gateway response missing order id")
	}
	status, _ := body["status"].(string)
	return &Order{
		ID:          id,
		Status:      status,
		AmountPaise: toInt64(body["amount"]),
	}, nil
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}

// VerifySignature checks the HMAC-SHA256 the gateway computes over
// "<orderID>|<paymentID>". hmac.Equal keeps the comparison constant time.
func VerifySignature(keySecret, orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
