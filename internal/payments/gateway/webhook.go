package gateway

// Webhook event types the gateway delivers. Only the checkout
// completion matters here; anything else is acknowledged and dropped.
const EventCheckoutCompleted = "checkout.session.completed"

// WebhookEvent is the gateway's callback envelope.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object WebhookSession `json:"object"`
	} `json:"data"`
}

// WebhookSession is the completed session carried inside the event.
// AmountTotal is in minor units. Metadata echoes what was attached at
// session creation.
type WebhookSession struct {
	ID          string            `json:"id"`
	AmountTotal int64             `json:"amount_total"`
	Currency    string            `json:"currency"`
	Metadata    map[string]string `json:"metadata"`
}
