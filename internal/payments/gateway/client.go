package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"rinkside/pkg/client"
	"rinkside/pkg/config"
	"rinkside/pkg/logger"
)

// CheckoutParams describes one hosted checkout session. Amount is in
// minor units (cents) because that is what the gateway's API takes.
type CheckoutParams struct {
	BookingID     string
	ResourceID    string
	ResourceKind  string
	UserID        string
	Description   string
	AmountMinor   int64
	Currency      string
	CustomerEmail string
}

// CheckoutSession is the gateway's handle for a created session. URL is
// where the client is redirected to pay.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Client creates hosted checkout sessions against the payment gateway's
// REST API.
type Client interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
}

type httpGateway struct {
	http *client.HttpClient
	cfg  *config.Config
	log  *logger.Logger
}

func NewClient(cfg *config.Config, log *logger.Logger) Client {
	return &httpGateway{
		http: client.NewHttpClient(cfg.GatewayAPIURL),
		cfg:  cfg,
		log:  log,
	}
}

func (g *httpGateway) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", g.cfg.CheckoutSuccessURL)
	form.Set("cancel_url", g.cfg.CheckoutCancelURL)
	form.Set("line_items[0][price_data][currency]", params.Currency)
	form.Set("line_items[0][price_data][product_data][name]", params.Description)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.AmountMinor, 10))
	form.Set("line_items[0][quantity]", "1")
	// Metadata rides along to the webhook so the confirmation can be
	// tied back to the booking without a session lookup.
	form.Set("metadata[bookingId]", params.BookingID)
	form.Set("metadata[resourceId]", params.ResourceID)
	form.Set("metadata[resourceType]", params.ResourceKind)
	form.Set("metadata[userId]", params.UserID)
	if params.CustomerEmail != "" {
		form.Set("customer_email", params.CustomerEmail)
	}

	// Keyed by booking so a retried request reuses the session the
	// gateway already created instead of minting a second one.
	headers := map[string]string{
		"Authorization":   "Bearer " + g.cfg.GatewaySecretKey,
		"Idempotency-Key": "booking-" + params.BookingID,
	}

	resp, err := g.http.POSTForm(ctx, "/v1/checkout/sessions", form, headers)
	if err != nil {
		return nil, fmt.Errorf("checkout session request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("checkout session rejected: status %d: %s",
			resp.StatusCode, client.GetErrorMessage(resp))
	}

	var session CheckoutSession
	if err := resp.DecodeJSON(&session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}
	if session.ID == "" || session.URL == "" {
		return nil, fmt.Errorf("checkout session response missing id or url")
	}

	g.log.Info("Checkout session created",
		"session_id", session.ID,
		"booking_id", params.BookingID,
		"amount_minor", params.AmountMinor,
		"currency", params.Currency,
	)
	return &session, nil
}
