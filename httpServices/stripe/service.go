package httpServices

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StripeClient creates payment intents against a Stripe-compatible API.
// The app only ever needs the resulting client secret; confirmation happens
// client-side and comes back through the payment confirmation endpoint.
type StripeClient struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
}

func NewClient(baseURL, secretKey string) *StripeClient {
	if baseURL == "" {
		baseURL = "https://api.stripe.com"
	}
	return &StripeClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
	}
}

// CreatePaymentIntent requests a payment intent for the given amount (in the
// smallest currency unit) and returns the opaque client secret.
func (c *StripeClient) CreatePaymentIntent(amount int64, currency, description string) (*PaymentIntentResponse, error) {
	if c.secretKey == "" {
		return nil, errors.New("payment provider secret key is not set")
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	form.Set("description", description)
	form.Set("automatic_payment_methods[enabled]", "true")

	httpReq, err := http.NewRequest(http.MethodPost, c.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("payment API error: %s", apiErr.Error.Message)
		}
		return nil, errors.New("payment API returned non-OK status: " + resp.Status)
	}

	var intent PaymentIntentResponse
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, err
	}
	if intent.ClientSecret == "" {
		return nil, errors.New("empty client secret in payment API response")
	}

	return &intent, nil
}
