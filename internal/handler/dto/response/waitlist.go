package response

import (
	"time"

	"barberbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type WaitListEntryResponse struct {
	ID             uuid.UUID  `json:"id"`
	LocationID     uuid.UUID  `json:"locationId"`
	ProfessionalID uuid.UUID  `json:"professionalId"`
	ClientID       *uuid.UUID `json:"clientId,omitempty"`
	Phone          *string    `json:"phone,omitempty"`
	DesiredDate    time.Time  `json:"desiredDate"`
	Note           *string    `json:"note,omitempty"`
	Active         bool       `json:"active"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func FromWaitListViews(views []*queries.WaitListEntryView) ([]*WaitListEntryResponse, error) {
	entries := []*WaitListEntryResponse{}
	if err := copier.Copy(&entries, &views); err != nil {
		return nil, err
	}
	return entries, nil
}
