package notification

import (
	"fmt"
	"time"

	"github.com/Zhima-Mochi/procurement-portal/internal/domain/identity"
)

type Type string

const (
	TypeAdmin Type = "admin"
	TypeUser  Type = "user"
)

// Views a notification can point back to.
const (
	LinkAdmin   = "/admin"
	LinkHistory = "/history"
)

type Notification struct {
	ID        int64     `json:"id"`
	Type      Type      `json:"type"`
	UserID    string    `json:"userId,omitempty"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// ForAdmins addresses every administrator.
func ForAdmins(id int64, message, link string, now time.Time) *Notification {
	return &Notification{
		ID:        id,
		Type:      TypeAdmin,
		Message:   message,
		Link:      link,
		Timestamp: now.UTC(),
	}
}

// ForUser addresses a single requester.
func ForUser(id int64, userID, message, link string, now time.Time) *Notification {
	return &Notification{
		ID:        id,
		Type:      TypeUser,
		UserID:    userID,
		Message:   message,
		Link:      link,
		Timestamp: now.UTC(),
	}
}

func RequestSubmittedMessage(userID string) string {
	return fmt.Sprintf("%s submitted a purchase request.", userID)
}

// RequestResolvedMessage names the item when it still exists in the catalog.
func RequestResolvedMessage(itemName, status string) string {
	if itemName == "" {
		itemName = "item"
	}
	return fmt.Sprintf("Your request for %s was %s.", itemName, status)
}

// Audience selects the notifications visible to an identity.
type Audience struct {
	Role   identity.Role
	UserID string
}

func AudienceOf(i identity.Identity) Audience {
	return Audience{Role: i.Role, UserID: i.ID}
}

// Sees reports whether n belongs to the audience: admins see admin-type
// entries, everyone else sees user-type entries addressed to them.
func (a Audience) Sees(n *Notification) bool {
	if n == nil {
		return false
	}
	if a.Role == identity.RoleAdmin {
		return n.Type == TypeAdmin
	}
	return n.Type == TypeUser && n.UserID != "" && n.UserID == a.UserID
}

func UnreadCount(ns []*Notification) int {
	count := 0
	for _, n := range ns {
		if !n.Read {
			count++
		}
	}
	return count
}

func (n *Notification) Clone() *Notification {
	if n == nil {
		return nil
	}
	clone := *n
	return &clone
}
