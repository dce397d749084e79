package request

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Zhima-Mochi/procurement-portal/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("request: not found")
	ErrInvalidQuantity = errors.New("request: quantity must be at least 1")
	ErrItemRequired    = errors.New("request: item is required")
	ErrUserRequired    = errors.New("request: requester is required")
	ErrInvalidUrgency  = errors.New("request: unknown urgency")
	ErrInvalidStatus   = errors.New("request: status must be accepted or rejected")
	ErrExceedsStock    = errors.New("request: requested quantity exceeds available stock")
	ErrAlreadyResolved = errors.New("request: already resolved")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
	UrgencyUrgent Urgency = "urgent"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyNormal, UrgencyHigh, UrgencyUrgent:
		return true
	}
	return false
}

// PurchaseRequest is a user's demand for a catalog item. ItemID is a weak
// reference: the product may be deleted later and lookups must tolerate that.
type PurchaseRequest struct {
	ID            int64                 `json:"id"`
	ItemID        int64                 `json:"itemId"`
	ItemName      string                `json:"itemName,omitempty"`
	UserID        string                `json:"userId"`
	Quantity      int                   `json:"quantity"`
	Configuration catalog.Configuration `json:"configuration"`
	TotalPrice    decimal.Decimal       `json:"totalPrice"`
	Urgency       Urgency               `json:"urgency"`
	Justification string                `json:"justification,omitempty"`
	Status        Status                `json:"status"`
	Date          time.Time             `json:"date"`
}

// Draft carries the requester-supplied fields of a new request.
type Draft struct {
	ItemID        int64
	UserID        string
	Quantity      int
	Configuration catalog.Configuration
	Urgency       Urgency
	Justification string
}

// Validate checks the draft on its own, before the catalog is consulted.
func (d *Draft) Validate() error {
	if d.ItemID == 0 {
		return ErrItemRequired
	}
	if strings.TrimSpace(d.UserID) == "" {
		return ErrUserRequired
	}
	if d.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if d.Urgency != "" && !d.Urgency.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidUrgency, d.Urgency)
	}
	return nil
}

// New builds a pending request for product. The stock check is advisory: it
// compares against the quantity on hand at submission and reserves nothing.
func New(id int64, d Draft, product *catalog.Product, now time.Time) (*PurchaseRequest, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if product == nil || product.ID != d.ItemID {
		return nil, fmt.Errorf("%w: %w", ErrItemRequired, catalog.ErrNotFound)
	}
	if d.Quantity > product.Quantity {
		return nil, ErrExceedsStock
	}
	if err := product.Configure(d.Configuration); err != nil {
		return nil, err
	}
	urgency := d.Urgency
	if urgency == "" {
		urgency = UrgencyNormal
	}
	cfg := d.Configuration.Clone()
	if cfg == nil {
		cfg = catalog.Configuration{}
	}
	return &PurchaseRequest{
		ID:            id,
		ItemID:        product.ID,
		ItemName:      product.Name,
		UserID:        strings.TrimSpace(d.UserID),
		Quantity:      d.Quantity,
		Configuration: cfg,
		TotalPrice:    catalog.Quote(product, cfg, d.Quantity),
		Urgency:       urgency,
		Justification: strings.TrimSpace(d.Justification),
		Status:        StatusPending,
		Date:          now.UTC(),
	}, nil
}

// Resolve moves a pending request to accepted or rejected.
func (r *PurchaseRequest) Resolve(to Status) error {
	next, err := stateOf(r.Status).resolve(to)
	if err != nil {
		return err
	}
	r.Status = next.Status()
	return nil
}

func (r *PurchaseRequest) Clone() *PurchaseRequest {
	if r == nil {
		return nil
	}
	clone := *r
	clone.Configuration = r.Configuration.Clone()
	return &clone
}
