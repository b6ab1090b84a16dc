package payment

import "context"

// SessionRequest carries everything a driver needs to open a hosted
// payment session with the gateway.
type SessionRequest struct {
	TranID     string
	Amount     float64
	Currency   string
	CustomerID string
	SuccessURL string
	FailURL    string
	CancelURL  string
	IPNURL     string
}

// CallbackData is the verified content of a gateway callback. Amount is
// kept as the provider's raw string; callers parse it exactly before
// crediting anything.
type CallbackData struct {
	TranID string
	ValID  string
	Status string
	Amount string
}

// Driver is the interface every payment gateway driver implements.
type Driver interface {
	// CreateSession initiates a payment and returns the URL the citizen
	// is redirected to. The context bounds the gateway call.
	CreateSession(ctx context.Context, req SessionRequest) (string, error)

	// VerifyCallback validates the signature of a redirect or IPN
	// callback and extracts its fields.
	VerifyCallback(params map[string]string) (CallbackData, error)
}
