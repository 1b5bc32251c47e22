package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainerrors "vantage/contexts/identity-access/authguard/domain/errors"
	"vantage/contexts/identity-access/authguard/domain/services"
	"vantage/contexts/identity-access/authguard/ports"
	"vantage/internal/shared/identity"
)

// Service resolves actors once per request and answers authorization checks.
// It implements identity.Guard for the other contexts.
type Service struct {
	Roles    ports.RoleDirectory
	Cache    ports.RoleCache
	Tokens   ports.TokenParser
	CacheTTL time.Duration
	Logger   *slog.Logger
}

func (s Service) Authorize(ctx context.Context, actor identity.Actor, action identity.Action, target identity.Target) identity.Decision {
	decision := services.Decide(actor, action, target)
	if !decision.Allowed {
		ResolveLogger(s.Logger).Info("authorization denied",
			"event", "authorization_denied",
			"module", "identity-access/authguard",
			"layer", "application",
			"actor_id", actor.ID,
			"actor_role", string(actor.Role),
			"action", string(action),
			"entity", target.Entity,
			"reason", string(decision.Reason),
		)
	}
	return decision
}

// ResolveFromToken builds the request Actor from a bearer token. The role
// claim from the provider is trusted when present; otherwise the directory
// is consulted through the cache.
func (s Service) ResolveFromToken(ctx context.Context, rawToken string) (identity.Actor, error) {
	if s.Tokens == nil || strings.TrimSpace(rawToken) == "" {
		return identity.Actor{}, domainerrors.ErrInvalidToken
	}
	claims, err := s.Tokens.Parse(strings.TrimSpace(rawToken))
	if err != nil {
		return identity.Actor{}, err
	}
	return s.ResolveSubject(ctx, claims.Subject, claims.Role)
}

// ResolveSubject resolves a subject id plus an optional role hint into an
// Actor. Unknown subjects and unsupported roles fail closed.
func (s Service) ResolveSubject(ctx context.Context, subjectID string, roleHint string) (identity.Actor, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return identity.Actor{}, identity.ErrUnauthenticated
	}

	if hinted := identity.Role(strings.TrimSpace(roleHint)); hinted != "" {
		if !identity.IsSupportedRole(hinted) {
			return identity.Actor{}, domainerrors.ErrUnknownRole
		}
		return identity.Actor{ID: subjectID, Role: hinted}, nil
	}

	if s.Cache != nil {
		role, found, err := s.Cache.GetRole(ctx, subjectID)
		if err == nil && found {
			return identity.Actor{ID: subjectID, Role: role}, nil
		}
		if err != nil {
			ResolveLogger(s.Logger).Warn("role cache read failed",
				"event", "role_cache_read_failed",
				"module", "identity-access/authguard",
				"layer", "application",
				"subject_id", subjectID,
				"error", err.Error(),
			)
		}
	}

	if s.Roles == nil {
		return identity.Actor{}, domainerrors.ErrUnknownSubject
	}
	role, err := s.Roles.GetRole(ctx, subjectID)
	if err != nil {
		return identity.Actor{}, err
	}
	if !identity.IsSupportedRole(role) {
		return identity.Actor{}, domainerrors.ErrUnknownRole
	}

	if s.Cache != nil {
		ttl := s.CacheTTL
		if ttl <= 0 {
			ttl = 5 * time.Minute
		}
		if err := s.Cache.PutRole(ctx, subjectID, role, ttl); err != nil {
			ResolveLogger(s.Logger).Warn("role cache write failed",
				"event", "role_cache_write_failed",
				"module", "identity-access/authguard",
				"layer", "application",
				"subject_id", subjectID,
				"error", err.Error(),
			)
		}
	}
	return identity.Actor{ID: subjectID, Role: role}, nil
}
