package checkout

import "github.com/shopspring/decimal"

// Status of one session's checkout handoff.
type Status string

const (
	StatusIdle       Status = "IDLE"
	StatusSubmitting Status = "SUBMITTING"
	StatusRedirected Status = "REDIRECTED"
	StatusFailed     Status = "FAILED"
)

func (s Status) IsTerminal() bool {
	return s == StatusRedirected || s == StatusFailed
}

// String representation (for logging)
func (s Status) String() string {
	return string(s)
}

// CheckoutItem is the price-free projection of a line item submitted to the
// checkout service. The type deliberately has no price, subtotal, total or
// tax fields: the external service is the sole authority for money and the
// payload must not even hint at client-side figures.
type CheckoutItem struct {
	ProductID string  `json:"product_id"`
	Color     *string `json:"color"`
	Size      *string `json:"size"`
	Quantity  int     `json:"quantity"`
}

type handoffRequest struct {
	CartItems []CheckoutItem `json:"cart_items"`
	Currency  string         `json:"currency,omitempty"`
}

// handoffResponse mirrors the checkout service's response envelope. The
// money fields are authoritative but unused here: this client only needs a
// redirect target.
type handoffResponse struct {
	Data struct {
		CheckoutURL string          `json:"checkout_url"`
		LinkID      string          `json:"link_id"`
		BrandID     string          `json:"brand_id"`
		Currency    string          `json:"currency"`
		Subtotal    decimal.Decimal `json:"subtotal"`
		VAT         decimal.Decimal `json:"vat"`
		TotalPrice  decimal.Decimal `json:"total_price"`
	} `json:"data"`
	Error string `json:"error"`
}
