package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "rinkside/internal/bookings/errors"
	bookingsrepo "rinkside/internal/bookings/repository"
	inventoryerrors "rinkside/internal/inventory/errors"
	inventoryrepo "rinkside/internal/inventory/repository"
	"rinkside/internal/notifications"
	"rinkside/internal/payments/gateway"
	"rinkside/pkg/config"
	apperrors "rinkside/pkg/errors"
	"rinkside/pkg/model"
)

// HSTRate is the Ontario harmonized sales tax applied on top of every
// snapshot price.
const HSTRate = 0.13

type PaymentService interface {
	// InitiateCheckout creates a hosted checkout session for an
	// approved booking. Any other booking status is refused.
	InitiateCheckout(ctx context.Context, bookingID string) (*gateway.CheckoutSession, error)
	// ConfirmPayment applies a verified gateway callback: marks the
	// booking paid and retires the underlying resource. Replays of a
	// session already applied are silent no-ops.
	ConfirmPayment(ctx context.Context, event *gateway.WebhookEvent) error
}

type paymentService struct {
	bookings  bookingsrepo.BookingRepository
	slots     inventoryrepo.SlotRepository
	events    inventoryrepo.EventRepository
	gateway   gateway.Client
	publisher notifications.Publisher
	cfg       *config.Config
}

func NewPaymentService(
	bookings bookingsrepo.BookingRepository,
	slots inventoryrepo.SlotRepository,
	events inventoryrepo.EventRepository,
	gatewayClient gateway.Client,
	publisher notifications.Publisher,
	cfg *config.Config,
) PaymentService {
	return &paymentService{
		bookings:  bookings,
		slots:     slots,
		events:    events,
		gateway:   gatewayClient,
		publisher: publisher,
		cfg:       cfg,
	}
}

// AmountMinor converts a price to gateway minor units with HST applied.
// Rounding happens once, on the final minor-unit amount.
func AmountMinor(price float64) int64 {
	total := price * (1 + HSTRate)
	return int64(math.Round(total * 100))
}

func (s *paymentService) InitiateCheckout(ctx context.Context, bookingID string) (*gateway.CheckoutSession, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", bookingID)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	if booking.Status != model.BookingApproved {
		return nil, apperrors.Forbidden(
			fmt.Sprintf("Booking is not payable in status '%s'", booking.Status))
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, gateway.CheckoutParams{
		BookingID:     booking.ID,
		ResourceID:    booking.ResourceID,
		ResourceKind:  string(booking.ResourceKind),
		UserID:        booking.UserID,
		Description:   booking.PackageName,
		AmountMinor:   AmountMinor(booking.Price),
		Currency:      s.cfg.CheckoutCurrency,
		CustomerEmail: booking.ClientEmail,
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create checkout session", "booking_id", bookingID, "error", err)
		return nil, apperrors.Gateway("Failed to create checkout session")
	}

	return session, nil
}

func (s *paymentService) ConfirmPayment(ctx context.Context, event *gateway.WebhookEvent) error {
	if event.Type != gateway.EventCheckoutCompleted {
		s.cfg.Log.Info("Ignoring gateway event", "event_id", event.ID, "event_type", event.Type)
		return nil
	}

	session := event.Data.Object
	bookingID := session.Metadata["bookingId"]
	if session.ID == "" || bookingID == "" {
		return apperrors.Gateway("Webhook session is missing id or booking metadata")
	}

	// Replay guard: a booking already carrying this session ID means
	// the callback was applied before the gateway's retry.
	if _, err := s.bookings.FindByPaymentSession(ctx, session.ID); err == nil {
		s.cfg.Log.Info("Payment session already applied", "session_id", session.ID, "booking_id", bookingID)
		return nil
	} else if !errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.Internal("Failed to check payment session", err)
	}

	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) || errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.Gateway("Webhook references an unknown booking")
		}
		return apperrors.Internal("Failed to retrieve booking", err)
	}

	amountPaid := float64(session.AmountTotal) / 100
	paidAt := time.Now().UTC()

	applied := false
	err = s.bookings.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.bookings.MarkPaid(sessCtx, booking.ID, session.ID, amountPaid, paidAt); err != nil {
			if errors.Is(err, bookingserrors.ErrAlreadyDecided) {
				return nil
			}
			if errors.Is(err, bookingserrors.ErrInvalidTransition) {
				s.cfg.Log.Error("Payment received for a booking that is no longer approved",
					"booking_id", booking.ID,
					"session_id", session.ID,
					"status", booking.Status,
					"amount_paid", amountPaid,
				)
				return apperrors.Gateway("Booking is not awaiting payment")
			}
			return apperrors.Internal("Failed to mark booking paid", err)
		}
		applied = true

		switch booking.ResourceKind {
		case model.KindSlot:
			if err := s.slots.MarkSold(sessCtx, booking.ResourceID); err != nil {
				return apperrors.Internal("Failed to mark slot sold", err)
			}
		case model.KindEvent:
			if err := s.events.Admit(sessCtx, booking.ResourceID); err != nil {
				if errors.Is(err, inventoryerrors.ErrCapacityFull) {
					return apperrors.Internal("Event is at capacity for a confirmed payment", err)
				}
				return apperrors.Internal("Failed to admit event booking", err)
			}
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to confirm payment",
			"booking_id", booking.ID,
			"session_id", session.ID,
			"error", err,
		)
		return err
	}

	// The booking was already paid under another session, so the
	// confirmation side effects must not run a second time.
	if !applied {
		s.cfg.Log.Info("Booking already paid, skipping confirmation",
			"booking_id", booking.ID,
			"session_id", session.ID,
		)
		return nil
	}

	s.publisher.BookingPaid(ctx, notifications.BookingPaid{
		BookingID:    booking.ID,
		ResourceID:   booking.ResourceID,
		ResourceKind: string(booking.ResourceKind),
		PackageLabel: booking.PackageName,
		ClientName:   booking.ClientName,
		ClientEmail:  booking.ClientEmail,
		AmountPaid:   amountPaid,
		PaidAt:       paidAt,
	})

	s.cfg.Log.Info("Payment confirmed",
		"booking_id", booking.ID,
		"session_id", session.ID,
		"amount_paid", amountPaid,
	)
	return nil
}
