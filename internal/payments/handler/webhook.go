package handler

import (
	"encoding/json"
	"net/http"

	"rinkside/internal/payments/gateway"
	"rinkside/internal/payments/service"
	httputil "rinkside/pkg/http"
	"rinkside/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

// WebhookPath is where the payment gateway delivers callbacks. The
// server mounts it behind signature verification instead of the API
// middleware chain.
const WebhookPath = "/v1/payments/webhook"

type WebhookHandler struct {
	service service.PaymentService
	log     *logger.Logger
}

func NewWebhookHandler(service service.PaymentService, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		log:     log,
	}
}

type webhookResponse struct {
	Received bool `json:"received"`
}

// Confirm acknowledges a verified gateway event. Any non-2xx response
// makes the gateway retry, so only datastore failures surface as errors.
func (h *WebhookHandler) Confirm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var event gateway.WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid webhook payload",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Confirm", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.ConfirmPayment(r.Context(), &event); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Confirm", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, webhookResponse{Received: true}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Confirm", "operation", "WriteJSON", "error", err)
	}
}

func (h *WebhookHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST(WebhookPath, h.Confirm)
}
