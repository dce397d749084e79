package request

import "time"

// SubmittedEvent is emitted once a request has been stored.
type SubmittedEvent struct {
	RequestID  int64
	ItemID     int64
	UserID     string
	Quantity   int
	Urgency    Urgency
	OccurredAt time.Time
}

func (SubmittedEvent) EventName() string { return "request.submitted" }

func NewSubmittedEvent(r *PurchaseRequest) SubmittedEvent {
	return SubmittedEvent{
		RequestID:  r.ID,
		ItemID:     r.ItemID,
		UserID:     r.UserID,
		Quantity:   r.Quantity,
		Urgency:    r.Urgency,
		OccurredAt: time.Now().UTC(),
	}
}

// ResolvedEvent is emitted when an admin accepts or rejects a request.
type ResolvedEvent struct {
	RequestID  int64
	ItemID     int64
	UserID     string
	Status     Status
	ResolvedBy string
	OccurredAt time.Time
}

func (ResolvedEvent) EventName() string { return "request.resolved" }

func NewResolvedEvent(r *PurchaseRequest, resolvedBy string) ResolvedEvent {
	return ResolvedEvent{
		RequestID:  r.ID,
		ItemID:     r.ItemID,
		UserID:     r.UserID,
		Status:     r.Status,
		ResolvedBy: resolvedBy,
		OccurredAt: time.Now().UTC(),
	}
}
