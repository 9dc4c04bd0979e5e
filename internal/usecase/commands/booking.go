package commands

import (
	"context"
	"time"

	"barberbook/internal/domain/booking"
	"barberbook/internal/infra"
	"barberbook/internal/pkg/clock"
	"barberbook/internal/pkg/errs"
	"barberbook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrProfessionalNotFound = errs.New("professional not found in location")
	ErrInvalidTimeSlot      = errs.New("invalid time slot")
	ErrSlotOccupied         = errs.New("time slot conflicts with an existing booking")
	ErrBlockedInterval      = errs.New("time slot overlaps an unavailability block")
	ErrHolidayClosed        = errs.New("location is closed on the requested date")
	ErrDomainValidation     = errs.New("domain validation error")
)

type CreateBookingRequest struct {
	LocationID     uuid.UUID
	ProfessionalID uuid.UUID
	ClientID       *uuid.UUID
	StartTime      time.Time
	ExpectedEnd    time.Time
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (uuid.UUID, error)
}

type bookingUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	audit shared.AuditSink
}

func NewBookingUseCase(uow shared.UnitOfWork, clk clock.Clock, audit shared.AuditSink) BookingCommands {
	return &bookingUseCaseImpl{uow: uow, clock: clk, audit: audit}
}

func (uc *bookingUseCaseImpl) CreateBooking(ctx context.Context, req CreateBookingRequest) (uuid.UUID, error) {
	prof, err := uc.uow.CommandReads().ProfessionalByID(ctx, req.ProfessionalID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return uuid.Nil, ErrProfessionalNotFound
		}
		return uuid.Nil, err
	}
	if prof.LocationID != req.LocationID || !prof.Active {
		return uuid.Nil, ErrProfessionalNotFound
	}

	slot, err := booking.NewTimeSlot(req.StartTime, req.ExpectedEnd)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidTimeSlot)
	}

	entity, err := booking.NewBooking(req.ProfessionalID, req.LocationID, req.ClientID, slot, uc.clock.Now())
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}

	var createdID uuid.UUID
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		holiday, derr := tx.Reads().IsHoliday(ctx, req.LocationID, slot.Start())
		if derr != nil {
			return derr
		}
		if holiday {
			return ErrHolidayClosed
		}

		blocks, derr := tx.Reads().CountBlocksOverlapping(ctx, req.LocationID, req.ProfessionalID, slot.Start(), slot.ExpectedEnd())
		if derr != nil {
			return derr
		}
		if blocks > 0 {
			return ErrBlockedInterval
		}

		occupied, derr := tx.Bookings().OccupiedSlotsForUpdate(ctx, req.ProfessionalID, slot.Start(), slot.ExpectedEnd())
		if derr != nil {
			return derr
		}
		for _, o := range occupied {
			if o.Overlaps(slot) {
				return ErrSlotOccupied
			}
		}

		id, derr := tx.Bookings().Create(ctx, entity)
		if derr != nil {
			if infra.IsKind(derr, infra.KindConflict) {
				return ErrSlotOccupied
			}
			return derr
		}
		createdID = id
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	uc.audit.Record(ctx, shared.AuditEvent{
		LocationID: req.LocationID,
		ActorID:    req.ClientID,
		Action:     "booking.created",
		EntityID:   createdID,
		Detail: map[string]any{
			"professional_id": req.ProfessionalID,
			"start_time":      slot.Start(),
			"expected_end":    slot.ExpectedEnd(),
		},
	})
	return createdID, nil
}
