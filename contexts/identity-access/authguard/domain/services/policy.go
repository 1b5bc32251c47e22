package services

import (
	"fmt"

	"vantage/internal/shared/identity"
)

// transitionTargetsByRole lists which target statuses each role may request
// per entity type. This is role policy, not transition legality: the
// workflow table still decides whether the move is legal from the current
// status. Kept as data so new statuses are a config change here, not new
// branches in every caller.
var transitionTargetsByRole = map[string]map[identity.Role][]string{
	"application": {
		identity.RoleBusiness:   {"in_review", "approved", "rejected", "revision_requested", "completed"},
		identity.RoleInfluencer: {"withdrawn"},
	},
	"submission": {
		identity.RoleBusiness:   {"approved", "rejected", "revision_requested"},
		identity.RoleInfluencer: {"submitted"},
	},
	"campaign": {
		identity.RoleBusiness: {"draft", "active", "closed"},
	},
}

// Decide is the pure authorization decision of spec'd form
// authorize(actor, action, target). No I/O, no side effects.
func Decide(actor identity.Actor, action identity.Action, target identity.Target) identity.Decision {
	if actor.IsZero() {
		return identity.Deny(identity.DenyUnauthenticated, "no actor resolved for request")
	}
	if !identity.IsSupportedRole(actor.Role) {
		return identity.Deny(identity.DenyWrongRole, fmt.Sprintf("unsupported role %q", actor.Role))
	}
	if actor.Elevated() {
		return identity.Allow()
	}

	switch action {
	case identity.ActionApply:
		if actor.Role != identity.RoleInfluencer {
			return identity.Deny(identity.DenyWrongRole, "only influencers can apply to campaigns")
		}
		if target.CampaignStatus != "active" {
			return identity.Deny(identity.DenyInvalidState, "campaign is not accepting applications")
		}
		return identity.Allow()

	case identity.ActionView:
		if actor.ID == target.BusinessID || actor.ID == target.InfluencerID {
			return identity.Allow()
		}
		return identity.Deny(identity.DenyNotOwner, "actor is not a party on this entity")

	case identity.ActionAdjustBalance:
		return identity.Deny(identity.DenyWrongRole, "balance adjustments require an admin actor")

	case identity.ActionTransitionStatus:
		return decideTransition(actor, target)

	default:
		return identity.Deny(identity.DenyWrongRole, fmt.Sprintf("unknown action %q", action))
	}
}

func decideTransition(actor identity.Actor, target identity.Target) identity.Decision {
	byRole, ok := transitionTargetsByRole[target.Entity]
	if !ok {
		return identity.Deny(identity.DenyWrongRole, fmt.Sprintf("no transition policy for entity %q", target.Entity))
	}
	allowed, ok := byRole[actor.Role]
	if !ok {
		return identity.Deny(identity.DenyWrongRole, fmt.Sprintf("role %q cannot transition %s status", actor.Role, target.Entity))
	}

	switch actor.Role {
	case identity.RoleBusiness:
		if actor.ID != target.BusinessID {
			return identity.Deny(identity.DenyNotOwner, "actor does not own this entity")
		}
	case identity.RoleInfluencer:
		if actor.ID != target.InfluencerID {
			return identity.Deny(identity.DenyNotOwner, "actor is not the subject of this entity")
		}
	}

	for _, status := range allowed {
		if status == target.RequestedStatus {
			return identity.Allow()
		}
	}
	return identity.Deny(identity.DenyWrongRole,
		fmt.Sprintf("role %q may not move %s to %q", actor.Role, target.Entity, target.RequestedStatus))
}
