package commands

import (
	"context"
	"time"

	"barberbook/internal/infra"
	"barberbook/internal/pkg/clock"
	"barberbook/internal/pkg/errs"
	"barberbook/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrWaitListEntryNotFound = errs.New("wait list entry not found")

type JoinWaitListRequest struct {
	LocationID     uuid.UUID
	ProfessionalID uuid.UUID
	ClientID       *uuid.UUID
	Phone          *string
	DesiredDate    time.Time
	Note           *string
}

type WaitListCommands interface {
	JoinWaitList(ctx context.Context, req JoinWaitListRequest) (uuid.UUID, error)
	LeaveWaitList(ctx context.Context, entryID uuid.UUID) error
}

type waitListUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	audit shared.AuditSink
}

func NewWaitListUseCase(uow shared.UnitOfWork, clk clock.Clock, audit shared.AuditSink) WaitListCommands {
	return &waitListUseCaseImpl{uow: uow, clock: clk, audit: audit}
}

func (uc *waitListUseCaseImpl) JoinWaitList(ctx context.Context, req JoinWaitListRequest) (uuid.UUID, error) {
	prof, err := uc.uow.CommandReads().ProfessionalByID(ctx, req.ProfessionalID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return uuid.Nil, ErrProfessionalNotFound
		}
		return uuid.Nil, err
	}
	if prof.LocationID != req.LocationID {
		return uuid.Nil, ErrProfessionalNotFound
	}

	var createdID uuid.UUID
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, derr := tx.WaitList().Add(ctx, shared.WaitListEntry{
			LocationID:     req.LocationID,
			ProfessionalID: req.ProfessionalID,
			ClientID:       req.ClientID,
			Phone:          req.Phone,
			DesiredDate:    req.DesiredDate,
			Note:           req.Note,
		})
		if derr != nil {
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
		Action:     "waitlist.joined",
		EntityID:   createdID,
	})
	return createdID, nil
}

func (uc *waitListUseCaseImpl) LeaveWaitList(ctx context.Context, entryID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.WaitList().Deactivate(ctx, entryID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrWaitListEntryNotFound
			}
			return err
		}
		return nil
	})
}
