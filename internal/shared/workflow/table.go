package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

type EntityType string

const (
	EntityCampaign    EntityType = "campaign"
	EntityApplication EntityType = "application"
	EntitySubmission  EntityType = "submission"
)

// Campaign statuses.
const (
	CampaignDraft  = "draft"
	CampaignActive = "active"
	CampaignClosed = "closed"
)

// Application statuses. The set is configuration, not a closed enum: the
// table below is only the compiled default and can be replaced wholesale
// from a JSON file without touching callers.
const (
	ApplicationPending           = "pending"
	ApplicationInReview          = "in_review"
	ApplicationApproved          = "approved"
	ApplicationRejected          = "rejected"
	ApplicationRevisionRequested = "revision_requested"
	ApplicationCompleted         = "completed"
	ApplicationWithdrawn         = "withdrawn"
)

// Submission statuses.
const (
	SubmissionSubmitted         = "submitted"
	SubmissionApproved          = "approved"
	SubmissionAutoApproved      = "auto_approved"
	SubmissionRejected          = "rejected"
	SubmissionRevisionRequested = "revision_requested"
)

var (
	ErrUnknownEntity     = errors.New("unknown entity type in transition table")
	ErrUnknownStatus     = errors.New("status is not present in the transition table")
	ErrInvalidTransition = errors.New("status transition is not allowed")
	ErrTerminalStatus    = errors.New("entity is in a terminal status")
)

// Table is the authoritative mapping of legal next-statuses per current
// status, per entity type. A status with no outgoing transitions is terminal.
type Table struct {
	rules map[EntityType]map[string][]string
}

func DefaultTable() *Table {
	return &Table{rules: map[EntityType]map[string][]string{
		EntityCampaign: {
			CampaignDraft:  {CampaignActive, CampaignClosed},
			CampaignActive: {CampaignClosed},
			CampaignClosed: {},
		},
		EntityApplication: {
			ApplicationPending:           {ApplicationInReview, ApplicationApproved, ApplicationRejected, ApplicationWithdrawn},
			ApplicationInReview:          {ApplicationApproved, ApplicationRejected, ApplicationRevisionRequested, ApplicationWithdrawn},
			ApplicationRevisionRequested: {ApplicationInReview, ApplicationApproved, ApplicationRejected, ApplicationWithdrawn},
			ApplicationApproved:          {ApplicationCompleted},
			ApplicationRejected:          {},
			ApplicationWithdrawn:         {},
			ApplicationCompleted:         {},
		},
		EntitySubmission: {
			SubmissionSubmitted:         {SubmissionApproved, SubmissionAutoApproved, SubmissionRejected, SubmissionRevisionRequested},
			SubmissionRevisionRequested: {SubmissionSubmitted},
			SubmissionApproved:          {},
			SubmissionAutoApproved:      {},
			SubmissionRejected:          {},
		},
	}}
}

// LoadTable reads a full transition table from a JSON file shaped as
// {"entity": {"status": ["next", ...], ...}, ...}. The file replaces the
// defaults entirely so operators see exactly one source of truth.
func LoadTable(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transition table: %w", err)
	}
	var parsed map[EntityType]map[string][]string
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse transition table: %w", err)
	}
	if len(parsed) == 0 {
		return nil, errors.New("transition table file is empty")
	}
	return &Table{rules: parsed}, nil
}

func (t *Table) Known(entity EntityType, status string) bool {
	statuses, ok := t.rules[entity]
	if !ok {
		return false
	}
	_, ok = statuses[status]
	return ok
}

func (t *Table) Terminal(entity EntityType, status string) bool {
	statuses, ok := t.rules[entity]
	if !ok {
		return false
	}
	next, ok := statuses[status]
	return ok && len(next) == 0
}

// Allowed reports whether from -> to is a legal transition. A transition to
// the current status is always allowed: callers treat it as an idempotent
// no-op and must not re-apply writes or side effects.
func (t *Table) Allowed(entity EntityType, from string, to string) bool {
	if from == to {
		return true
	}
	statuses, ok := t.rules[entity]
	if !ok {
		return false
	}
	for _, candidate := range statuses[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// Validate returns a sentinel error describing why from -> to is illegal,
// or nil when the transition may proceed.
func (t *Table) Validate(entity EntityType, from string, to string) error {
	statuses, ok := t.rules[entity]
	if !ok {
		return ErrUnknownEntity
	}
	if _, ok := statuses[from]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, from)
	}
	if _, ok := statuses[to]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if from == to {
		return nil
	}
	if t.Terminal(entity, from) {
		return fmt.Errorf("%w: %q", ErrTerminalStatus, from)
	}
	if !t.Allowed(entity, from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// NextStatuses returns a copy of the allowed next statuses for callers that
// surface the table (API discovery, admin tooling).
func (t *Table) NextStatuses(entity EntityType, from string) []string {
	statuses, ok := t.rules[entity]
	if !ok {
		return nil
	}
	return append([]string(nil), statuses[from]...)
}
