package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Shared identity kernel: the Actor shape and the guard contract every
// context consumes. Policy rules live in the authguard context; this package
// only defines the vocabulary so contexts do not import each other.

type Role string

const (
	RoleBusiness   Role = "business"
	RoleInfluencer Role = "influencer"
	RoleAdmin      Role = "admin"
	RoleSystem     Role = "system"
)

// Actor is an authenticated caller with exactly one role, resolved once per
// request at the transport boundary.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsZero() bool {
	return strings.TrimSpace(a.ID) == ""
}

func (a Actor) Elevated() bool {
	return a.Role == RoleAdmin || a.Role == RoleSystem
}

func IsSupportedRole(value Role) bool {
	switch value {
	case RoleBusiness, RoleInfluencer, RoleAdmin, RoleSystem:
		return true
	default:
		return false
	}
}

type Action string

const (
	ActionApply            Action = "apply"
	ActionTransitionStatus Action = "transition-status"
	ActionView             Action = "view"
	ActionAdjustBalance    Action = "adjust-balance"
)

// Target carries the ownership fields of the entity a decision is about.
type Target struct {
	Entity          string
	BusinessID      string
	InfluencerID    string
	CampaignStatus  string
	CurrentStatus   string
	RequestedStatus string
}

type DenyReason string

const (
	DenyUnauthenticated DenyReason = "unauthenticated"
	DenyWrongRole       DenyReason = "wrong_role"
	DenyNotOwner        DenyReason = "not_owner"
	DenyAlreadyExists   DenyReason = "already_exists"
	DenyInvalidState    DenyReason = "invalid_state"
)

// Decision is the pure outcome of an authorization check. A denial always
// carries a machine-readable reason, never a silent pass.
type Decision struct {
	Allowed bool
	Reason  DenyReason
	Detail  string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason DenyReason, detail string) Decision {
	return Decision{Reason: reason, Detail: detail}
}

var (
	ErrUnauthenticated = errors.New("caller is not authenticated")
	ErrForbidden       = errors.New("caller is not allowed to perform this action")
	ErrAlreadyExists   = errors.New("target already exists")
	ErrInvalidState    = errors.New("target is in an invalid state for this action")
)

// Err maps a denial to its sentinel error, keeping the reason and detail in
// the message for logs and API payloads.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	var sentinel error
	switch d.Reason {
	case DenyUnauthenticated:
		sentinel = ErrUnauthenticated
	case DenyAlreadyExists:
		sentinel = ErrAlreadyExists
	case DenyInvalidState:
		sentinel = ErrInvalidState
	default:
		sentinel = ErrForbidden
	}
	if strings.TrimSpace(d.Detail) == "" {
		return fmt.Errorf("%w (%s)", sentinel, d.Reason)
	}
	return fmt.Errorf("%w (%s): %s", sentinel, d.Reason, d.Detail)
}

// Guard is the single authorization entry point. Implementations must be
// pure decisions over (actor, action, target) with no side effects.
type Guard interface {
	Authorize(ctx context.Context, actor Actor, action Action, target Target) Decision
}
