package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "rinkside/internal/bookings/errors"
	"rinkside/internal/bookings/repository"
	"rinkside/internal/bookings/validator"
	inventoryerrors "rinkside/internal/inventory/errors"
	inventoryrepo "rinkside/internal/inventory/repository"
	"rinkside/internal/notifications"
	"rinkside/pkg/config"
	apperrors "rinkside/pkg/errors"
	"rinkside/pkg/model"
)

// Admin decision verbs accepted by Decide. They double as the target
// booking status.
const (
	DecisionApprove = model.BookingApproved
	DecisionReject  = model.BookingRejected
)

type BookingService interface {
	// Request creates a pending booking against a slot or event. For
	// slots this also takes the exclusive hold, so a second request
	// for the same slot fails with a conflict.
	Request(ctx context.Context, booking *model.Booking) error
	// Decide applies the admin's approve or reject verdict. Repeating
	// a decision that already landed is a no-op; flipping a settled
	// decision is a conflict.
	Decide(ctx context.Context, id, decision string) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	resources inventoryrepo.ResourceRepository
	slots     inventoryrepo.SlotRepository
	validator *validator.BookingValidator
	publisher notifications.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	resources inventoryrepo.ResourceRepository,
	slots inventoryrepo.SlotRepository,
	validator *validator.BookingValidator,
	publisher notifications.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		resources: resources,
		slots:     slots,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) Request(ctx context.Context, booking *model.Booking) error {
	booking.ID = ""
	booking.Status = model.BookingPending
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking request validation failed", "error", err)
		return apperrors.Validation("Invalid booking request", map[string]any{"error": err.Error()})
	}

	resource, err := s.resources.FindResource(ctx, booking.ResourceKind, booking.ResourceID)
	if err != nil {
		if errors.Is(err, inventoryerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Resource", booking.ResourceID)
		}
		if errors.Is(err, inventoryerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid resource ID format")
		}
		return apperrors.Internal("Failed to load resource", err)
	}
	if !resource.Available() {
		return apperrors.Conflict("Resource is not available for booking")
	}

	// Snapshot the offer so later price or label edits never change
	// what the client agreed to.
	booking.PackageName = resource.PackageLabel()
	booking.Price = resource.UnitPrice()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		if booking.ResourceKind == model.KindSlot {
			if err := s.slots.Lock(sessCtx, booking.ResourceID, booking.ID, booking.UserID); err != nil {
				if errors.Is(err, inventoryerrors.ErrUnavailable) {
					return apperrors.Conflict("Slot is no longer available")
				}
				return apperrors.Internal("Failed to lock slot", err)
			}
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking request", "error", err)
		return err
	}

	s.publisher.BookingRequested(ctx, notifications.BookingRequested{
		BookingID:    booking.ID,
		ResourceID:   booking.ResourceID,
		ResourceKind: string(booking.ResourceKind),
		PackageLabel: booking.PackageName,
		ClientName:   booking.ClientName,
		ClientEmail:  booking.ClientEmail,
		ClientPhone:  booking.ClientPhone,
		AdminEmail:   s.cfg.AdminEmail,
		RequestedAt:  booking.CreatedAt,
	})

	s.cfg.Log.Info("Booking requested",
		"id", booking.ID,
		"resource_id", booking.ResourceID,
		"resource_kind", booking.ResourceKind,
		"user_id", booking.UserID,
	)
	return nil
}

func (s *bookingService) Decide(ctx context.Context, id, decision string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	var target string
	switch decision {
	case DecisionApprove:
		target = model.BookingApproved
	case DecisionReject:
		target = model.BookingRejected
	default:
		return nil, apperrors.InvalidInput("Decision must be 'approved' or 'rejected'")
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status == target {
		s.cfg.Log.Info("Booking decision already applied", "id", id, "decision", decision)
		return booking, nil
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.UpdateStatus(sessCtx, id, model.BookingPending, target); err != nil {
			if errors.Is(err, bookingserrors.ErrAlreadyDecided) {
				return nil
			}
			if errors.Is(err, bookingserrors.ErrInvalidTransition) {
				return apperrors.Conflict("Booking has already been decided")
			}
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return apperrors.Internal("Failed to update booking status", err)
		}

		if booking.ResourceKind == model.KindSlot {
			var slotErr error
			if target == model.BookingApproved {
				slotErr = s.slots.Approve(sessCtx, booking.ResourceID)
			} else {
				slotErr = s.slots.Release(sessCtx, booking.ResourceID)
			}
			if slotErr != nil {
				return apperrors.Internal("Failed to update slot hold", slotErr)
			}
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to apply booking decision", "id", id, "decision", decision, "error", err)
		return nil, err
	}

	booking.Status = target
	booking.DecidedAt = time.Now().UTC()

	s.cfg.Log.Info("Booking decision applied",
		"id", id,
		"decision", decision,
		"resource_id", booking.ResourceID,
		"resource_kind", booking.ResourceKind,
	)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}
