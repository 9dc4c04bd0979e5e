package booking

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCanceled   Status = "canceled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCanceled:
		return true
	default:
		return false
	}
}

// transitions is the full lifecycle table. Terminal statuses map to an empty
// set, so any transition out of them (including to themselves) is illegal.
var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCanceled},
	StatusConfirmed:  {StatusInProgress, StatusCanceled},
	StatusInProgress: {StatusCompleted, StatusCanceled},
	StatusCompleted:  {},
	StatusCanceled:   {},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Occupies reports whether a booking in this status still holds its time
// slot for availability purposes.
func (s Status) Occupies() bool {
	return s != StatusCanceled
}

type ItemKind string

const (
	ItemKindService ItemKind = "service"
	ItemKindProduct ItemKind = "product"
)

func (k ItemKind) IsValid() bool {
	return k == ItemKindService || k == ItemKindProduct
}

type ReceivableStatus string

const (
	ReceivableStatusPending  ReceivableStatus = "pending"
	ReceivableStatusPaid     ReceivableStatus = "paid"
	ReceivableStatusReversed ReceivableStatus = "reversed"
)

type ReceiptStatus string

const (
	ReceiptStatusPending  ReceiptStatus = "pending"
	ReceiptStatusReceived ReceiptStatus = "received"
	ReceiptStatusReversed ReceiptStatus = "reversed"
)
