package handler

import (
	"encoding/json"
	"net/http"

	"rinkside/internal/payments/service"
	httputil "rinkside/pkg/http"
	"rinkside/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type PaymentHandler struct {
	service service.PaymentService
	log     *logger.Logger
}

func NewPaymentHandler(service service.PaymentService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log,
	}
}

// checkoutRequest mirrors the client payload. Price, package and contact
// fields ride along but the server trusts only its own booking snapshot.
type checkoutRequest struct {
	BookingID     string  `json:"bookingId"`
	ResourceID    string  `json:"resourceId"`
	ResourceType  string  `json:"resourceType"`
	Price         float64 `json:"price"`
	PackageName   string  `json:"packageName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerName  string  `json:"customerName"`
	UserID        string  `json:"userId"`
}

type checkoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

func (h *PaymentHandler) Checkout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Checkout", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	session, err := h.service.InitiateCheckout(r.Context(), req.BookingID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Checkout", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, checkoutResponse{
		SessionID: session.ID,
		URL:       session.URL,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Checkout", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PaymentHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/v1/payments/checkout", h.Checkout)
}
