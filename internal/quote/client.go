package quote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Submission is the quote request posted to the CMS quotes endpoint: the
// customer's contact fields plus the formatted cart. CartItems holds the
// cart service's JSON line payload verbatim; CartText the plaintext
// rendering embedded in the notification email.
type Submission struct {
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	CompanyName   string          `json:"company_name,omitempty"`
	VATNumber     string          `json:"vat_number,omitempty"`
	Message       string          `json:"message,omitempty"`
	CartItems     json.RawMessage `json:"cart_items,omitempty"`
	CartText      string          `json:"cart_text,omitempty"`
}

// Receipt is the endpoint's acknowledgement.
type Receipt struct {
	Reference string `json:"reference"`
}

// Client submits quote requests. It knows nothing about the cart; the HTTP
// layer decides whether to clear the cart after a confirmed success.
type Client struct {
	endpoint string
	httpc    *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		httpc: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Submit posts the quote request and returns the receipt. Name and email are
// required by the endpoint; validate before calling.
func (c *Client) Submit(ctx context.Context, sub Submission) (*Receipt, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("marshal submission failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit quote failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("submit quote failed: status %d", resp.StatusCode)
	}

	var receipt Receipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		// Some deployments answer 200 with an empty body; the submission
		// still succeeded.
		return &Receipt{}, nil
	}
	return &receipt, nil
}
