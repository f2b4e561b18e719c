package validator

import (
	"io"
	"strings"
	"testing"

	"rinkside/pkg/logger"
	"rinkside/pkg/model"
)

func newTestValidator() *BookingValidator {
	return NewBookingValidator(logger.New(logger.Config{Output: io.Discard}))
}

func validBooking() *model.Booking {
	return &model.Booking{
		ResourceID:   "665f1c2b8e4d3a0012345678",
		ResourceKind: model.KindSlot,
		UserID:       "user-1",
		ClientName:   "Jamie Doe",
		ClientEmail:  "jamie@example.com",
		ClientPhone:  "4165551234",
	}
}

func TestValidate_ValidBooking(t *testing.T) {
	if err := newTestValidator().Validate(validBooking()); err != nil {
		t.Errorf("expected valid booking, got error: %v", err)
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *model.Booking)
		field  string
	}{
		{"missing resource id", func(b *model.Booking) { b.ResourceID = "" }, "ResourceID"},
		{"missing user id", func(b *model.Booking) { b.UserID = "" }, "UserID"},
		{"missing client name", func(b *model.Booking) { b.ClientName = "" }, "ClientName"},
		{"missing client email", func(b *model.Booking) { b.ClientEmail = "" }, "ClientEmail"},
		{"missing client phone", func(b *model.Booking) { b.ClientPhone = "" }, "ClientPhone"},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := validBooking()
			tt.mutate(booking)

			err := v.Validate(booking)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("expected error to name field %s, got: %v", tt.field, err)
			}
		})
	}
}

func TestValidate_InvalidResourceKind(t *testing.T) {
	booking := validBooking()
	booking.ResourceKind = "room"

	if err := newTestValidator().Validate(booking); err == nil {
		t.Error("expected invalid resource kind to fail validation")
	}
}

func TestValidate_MalformedResourceID(t *testing.T) {
	booking := validBooking()
	booking.ResourceID = "not-an-object-id"

	if err := newTestValidator().Validate(booking); err == nil {
		t.Error("expected malformed resource ID to fail validation")
	}
}

func TestValidate_BadEmail(t *testing.T) {
	booking := validBooking()
	booking.ClientEmail = "jamie-at-example"

	err := newTestValidator().Validate(booking)
	if err == nil {
		t.Fatal("expected invalid email to fail validation")
	}
	if !strings.Contains(err.Error(), "valid email") {
		t.Errorf("expected email message, got: %v", err)
	}
}

func TestValidate_ShortName(t *testing.T) {
	booking := validBooking()
	booking.ClientName = "J"

	if err := newTestValidator().Validate(booking); err == nil {
		t.Error("expected one-character name to fail validation")
	}
}
