package policy

import (
	"errors"
	"time"
)

var (
	ErrInsufficientNotice  = errors.New("cancellation is below the minimum advance notice")
	ErrLateCancelBlocked   = errors.New("client exceeded the allowed number of late cancellations")
	ErrInvalidNoticeConfig = errors.New("negative late-cancellation limit")
)

// Cancellation is a location's cancellation rule set. Values are injected at
// construction from stored per-location configuration.
type Cancellation struct {
	MinAdvanceNoticeHours                 int32
	LatePenaltyPercent                    float64
	MaxUnnotifiedCancellationsBeforeBlock int32
}

// ValidateAdvanceNotice passes when no minimum is configured, otherwise
// requires startTime − now to meet the minimum.
func (c Cancellation) ValidateAdvanceNotice(now, startTime time.Time) error {
	if c.MinAdvanceNoticeHours <= 0 {
		return nil
	}
	notice := startTime.Sub(now)
	if notice < time.Duration(c.MinAdvanceNoticeHours)*time.Hour {
		return ErrInsufficientNotice
	}
	return nil
}

// ValidateLateCount gates a late cancellation given the client's no-show
// count for the location after recording this one. A non-positive limit
// disables blocking.
func (c Cancellation) ValidateLateCount(countAfterRecording int64) error {
	if c.MaxUnnotifiedCancellationsBeforeBlock <= 0 {
		return nil
	}
	if countAfterRecording > int64(c.MaxUnnotifiedCancellationsBeforeBlock) {
		return ErrLateCancelBlocked
	}
	return nil
}
