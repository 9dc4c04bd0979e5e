package response

import (
	"time"

	"barberbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type SlotResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type AvailabilityResponse struct {
	Date               time.Time       `json:"date"`
	SlotGranularityMin int             `json:"slotGranularityMin"`
	ResolvedServiceID  *uuid.UUID      `json:"resolvedServiceId,omitempty"`
	Slots              []*SlotResponse `json:"slots"`
}

func FromAvailabilityView(view *queries.AvailabilityView) (*AvailabilityResponse, error) {
	resp := &AvailabilityResponse{Slots: []*SlotResponse{}}
	if err := copier.Copy(resp, view); err != nil {
		return nil, err
	}
	return resp, nil
}
