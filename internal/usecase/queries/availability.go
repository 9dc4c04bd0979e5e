package queries

import (
	"context"
	"time"

	"barberbook/internal/domain/schedule"
	"barberbook/internal/infra"
	"barberbook/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrProfessionalNotFound = errs.New("professional not found in location")
	ErrServiceNotFound      = errs.New("service not found in location")
	ErrInvalidDate          = errs.New("invalid availability date")
)

type AvailabilityRequest struct {
	LocationID     uuid.UUID
	ProfessionalID uuid.UUID
	ServiceID      *uuid.UUID
	Date           time.Time
	GranularityMin *int
}

type AvailabilityQueries interface {
	DayAvailability(ctx context.Context, req AvailabilityRequest) (*AvailabilityView, error)
}

// AvailabilityViewRepo is the schedule read surface backing slot computation.
type AvailabilityViewRepo interface {
	ProfessionalByID(ctx context.Context, id uuid.UUID) (*ProfessionalView, error)
	ServiceByID(ctx context.Context, id uuid.UUID) (*ServiceView, error)
	LocationByID(ctx context.Context, id uuid.UUID) (*LocationView, error)
	// WorkingWindows returns active windows for the professional plus the
	// location-wide ones.
	WorkingWindows(ctx context.Context, locationID, professionalID uuid.UUID) ([]*WorkingWindowView, error)
	IsHoliday(ctx context.Context, locationID uuid.UUID, date time.Time) (bool, error)
	BlocksOverlapping(ctx context.Context, locationID, professionalID uuid.UUID, from, to time.Time) ([]*BlockView, error)
	// OccupiedSlots returns the [start, expectedEnd) pairs of non-canceled
	// bookings for the professional intersecting [from, to).
	OccupiedSlots(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]*SlotView, error)
}

type availabilityQueriesImpl struct {
	repo               AvailabilityViewRepo
	defaultGranularity time.Duration
}

func NewAvailabilityQueries(repo AvailabilityViewRepo, defaultGranularityMin int) AvailabilityQueries {
	granularity := time.Duration(defaultGranularityMin) * time.Minute
	if granularity <= 0 {
		granularity = schedule.DefaultSlotGranularity
	}
	return &availabilityQueriesImpl{repo: repo, defaultGranularity: granularity}
}

func (q *availabilityQueriesImpl) DayAvailability(ctx context.Context, req AvailabilityRequest) (*AvailabilityView, error) {
	prof, err := q.repo.ProfessionalByID(ctx, req.ProfessionalID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrProfessionalNotFound
		}
		return nil, err
	}
	if prof.LocationID != req.LocationID || !prof.Active {
		return nil, ErrProfessionalNotFound
	}

	granularity, resolvedServiceID, err := q.resolveGranularity(ctx, req)
	if err != nil {
		return nil, err
	}

	loc, err := q.repo.LocationByID(ctx, req.LocationID)
	if err != nil {
		return nil, err
	}
	tz, err := time.LoadLocation(loc.Timezone)
	if err != nil {
		tz = time.UTC
	}

	day := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, tz)
	dayEnd := day.AddDate(0, 0, 1)

	view := &AvailabilityView{
		Date:               day,
		SlotGranularityMin: int(granularity / time.Minute),
		ResolvedServiceID:  resolvedServiceID,
		Slots:              []*SlotView{},
	}

	holiday, err := q.repo.IsHoliday(ctx, req.LocationID, day)
	if err != nil {
		return nil, err
	}
	if holiday {
		return view, nil
	}

	windows, err := q.loadWindows(ctx, req.LocationID, req.ProfessionalID)
	if err != nil {
		return nil, err
	}
	busy, err := q.loadBusy(ctx, req.LocationID, req.ProfessionalID, day, dayEnd)
	if err != nil {
		return nil, err
	}

	for _, s := range schedule.FreeSlots(day, granularity, windows, busy) {
		view.Slots = append(view.Slots, &SlotView{Start: s.Start(), End: s.End()})
	}
	return view, nil
}

// resolveGranularity prefers the requested service's estimated duration, then
// the explicit override, then the configured default.
func (q *availabilityQueriesImpl) resolveGranularity(ctx context.Context, req AvailabilityRequest) (time.Duration, *uuid.UUID, error) {
	if req.ServiceID != nil {
		svc, err := q.repo.ServiceByID(ctx, *req.ServiceID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return 0, nil, ErrServiceNotFound
			}
			return 0, nil, err
		}
		if svc.LocationID != req.LocationID || !svc.Active {
			return 0, nil, ErrServiceNotFound
		}
		if svc.DurationMin > 0 {
			return time.Duration(svc.DurationMin) * time.Minute, &svc.ID, nil
		}
		return q.defaultGranularity, &svc.ID, nil
	}
	if req.GranularityMin != nil && *req.GranularityMin > 0 {
		return time.Duration(*req.GranularityMin) * time.Minute, nil, nil
	}
	return q.defaultGranularity, nil, nil
}

func (q *availabilityQueriesImpl) loadWindows(ctx context.Context, locationID, professionalID uuid.UUID) ([]schedule.WorkingWindow, error) {
	rows, err := q.repo.WorkingWindows(ctx, locationID, professionalID)
	if err != nil {
		return nil, err
	}

	windows := make([]schedule.WorkingWindow, 0, len(rows))
	for _, row := range rows {
		days := make([]schedule.Weekday, 0, len(row.DaysOfWeek))
		for _, d := range row.DaysOfWeek {
			days = append(days, schedule.Weekday(d))
		}
		opens, err := schedule.ParseTimeOfDay(row.OpensAt)
		if err != nil {
			return nil, err
		}
		closes, err := schedule.ParseTimeOfDay(row.ClosesAt)
		if err != nil {
			return nil, err
		}
		w, err := schedule.NewWorkingWindow(days, opens, closes, row.Active)
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	return windows, nil
}

func (q *availabilityQueriesImpl) loadBusy(ctx context.Context, locationID, professionalID uuid.UUID, from, to time.Time) ([]schedule.Interval, error) {
	occupied, err := q.repo.OccupiedSlots(ctx, professionalID, from, to)
	if err != nil {
		return nil, err
	}
	blocks, err := q.repo.BlocksOverlapping(ctx, locationID, professionalID, from, to)
	if err != nil {
		return nil, err
	}

	busy := make([]schedule.Interval, 0, len(occupied)+len(blocks))
	for _, o := range occupied {
		iv, err := schedule.NewInterval(o.Start, o.End)
		if err != nil {
			continue
		}
		busy = append(busy, iv)
	}
	for _, b := range blocks {
		iv, err := schedule.NewInterval(b.StartTime, b.EndTime)
		if err != nil {
			continue
		}
		busy = append(busy, iv)
	}
	return busy, nil
}
