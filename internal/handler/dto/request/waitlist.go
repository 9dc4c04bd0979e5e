package request

import (
	"time"

	"barberbook/internal/usecase/commands"

	"github.com/google/uuid"
)

type JoinWaitListRequest struct {
	LocationID     uuid.UUID  `json:"locationId" binding:"required"`
	ProfessionalID uuid.UUID  `json:"professionalId" binding:"required"`
	ClientID       *uuid.UUID `json:"clientId"`
	Phone          *string    `json:"phone"`
	DesiredDate    time.Time  `json:"desiredDate" binding:"required"`
	Note           *string    `json:"note"`
}

func (r *JoinWaitListRequest) ToParams() commands.JoinWaitListRequest {
	return commands.JoinWaitListRequest{
		LocationID:     r.LocationID,
		ProfessionalID: r.ProfessionalID,
		ClientID:       r.ClientID,
		Phone:          r.Phone,
		DesiredDate:    r.DesiredDate,
		Note:           r.Note,
	}
}
