package request

import (
	"time"

	"barberbook/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	LocationID     uuid.UUID  `json:"locationId" binding:"required"`
	ProfessionalID uuid.UUID  `json:"professionalId" binding:"required"`
	ClientID       *uuid.UUID `json:"clientId"`
	StartTime      time.Time  `json:"startTime" binding:"required"`
	ExpectedEnd    time.Time  `json:"expectedEnd" binding:"required"`
}

func (r *CreateBookingRequest) ToParams() commands.CreateBookingRequest {
	return commands.CreateBookingRequest{
		LocationID:     r.LocationID,
		ProfessionalID: r.ProfessionalID,
		ClientID:       r.ClientID,
		StartTime:      r.StartTime,
		ExpectedEnd:    r.ExpectedEnd,
	}
}

type CancelBookingRequest struct {
	Reason   *string `json:"reason"`
	Override bool    `json:"override"`
}

func (r *CancelBookingRequest) ToParams(actorID *uuid.UUID) commands.CancelBookingRequest {
	return commands.CancelBookingRequest{
		Reason:   r.Reason,
		ActorID:  actorID,
		Override: r.Override,
	}
}
