package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const stripeAPIBase = "https://api.stripe.com/v1"

// StripeGateway charges cards through Stripe's HTTP API. The secret key
// is injected at construction.
type StripeGateway struct {
	key     string
	baseURL string
	client  *http.Client
}

// NewStripeGateway builds a gateway using the given secret key.
func NewStripeGateway(key string) *StripeGateway {
	return &StripeGateway{
		key:     key,
		baseURL: stripeAPIBase,
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        200,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// WithBaseURL points the gateway at a different endpoint. Used by tests
// against an httptest server.
func (g *StripeGateway) WithBaseURL(base string) *StripeGateway {
	g.baseURL = strings.TrimRight(base, "/")
	return g
}

type stripeCharge struct {
	ID       string `json:"id"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
}

type stripeError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Charge POSTs a form-encoded charge request. Card declines come back as
// *DeclineError; anything transport-level wraps ErrGatewayUnreachable.
func (g *StripeGateway) Charge(ctx context.Context, amount int, currency, source string) (*Charge, error) {
	form := url.Values{}
	form.Set("amount", strconv.Itoa(amount))
	form.Set("currency", currency)
	form.Set("source", source)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/charges", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("payment: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+g.key)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var ch stripeCharge
		if err := json.NewDecoder(resp.Body).Decode(&ch); err != nil {
			// 200 means the charge went through; only the body was lost.
			// Not an unreachable gateway: the caller must reconcile, not
			// treat it as "nothing happened".
			return nil, fmt.Errorf("%w: decode response: %v", ErrChargeStateUnknown, err)
		}
		return &Charge{ID: ch.ID, Amount: ch.Amount, Currency: ch.Currency}, nil
	}

	// 402 carries a structured card error; treat it as a decline.
	if resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusBadRequest {
		var se stripeError
		if err := json.NewDecoder(resp.Body).Decode(&se); err == nil && se.Error.Type == "card_error" {
			return nil, &DeclineError{Code: se.Error.Code, Message: se.Error.Message}
		}
	}

	return nil, fmt.Errorf("%w: status %d", ErrGatewayUnreachable, resp.StatusCode)
}
