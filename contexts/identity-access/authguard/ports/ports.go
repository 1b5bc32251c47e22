package ports

import (
	"context"
	"time"

	"vantage/internal/shared/identity"
)

// RoleDirectory is the authoritative store of subject roles. In production
// this fronts the accounts table owned by the identity provider sync.
type RoleDirectory interface {
	GetRole(ctx context.Context, subjectID string) (identity.Role, error)
}

// RoleCache is a read-through cache in front of the directory.
type RoleCache interface {
	GetRole(ctx context.Context, subjectID string) (identity.Role, bool, error)
	PutRole(ctx context.Context, subjectID string, role identity.Role, ttl time.Duration) error
}

// TokenParser validates an access token issued by the external auth provider
// and returns its subject and role claims.
type TokenParser interface {
	Parse(raw string) (TokenClaims, error)
}

type TokenClaims struct {
	Subject string
	Role    string
}
