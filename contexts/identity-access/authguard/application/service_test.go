package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vantage/contexts/identity-access/authguard/adapters/memory"
	"vantage/contexts/identity-access/authguard/adapters/token"
	domainerrors "vantage/contexts/identity-access/authguard/domain/errors"
	"vantage/internal/shared/identity"
)

func TestResolveSubjectPrefersRoleHint(t *testing.T) {
	service := Service{Roles: memory.NewStore(nil)}

	actor, err := service.ResolveSubject(context.Background(), "biz-1", "business")
	require.NoError(t, err)
	assert.Equal(t, identity.Actor{ID: "biz-1", Role: identity.RoleBusiness}, actor)

	_, err = service.ResolveSubject(context.Background(), "biz-1", "superuser")
	assert.ErrorIs(t, err, domainerrors.ErrUnknownRole)
}

func TestResolveSubjectFallsBackToDirectory(t *testing.T) {
	store := memory.NewStore(map[string]identity.Role{"inf-1": identity.RoleInfluencer})
	cache := memory.NewCache()
	service := Service{Roles: store, Cache: cache, CacheTTL: time.Minute}

	actor, err := service.ResolveSubject(context.Background(), "inf-1", "")
	require.NoError(t, err)
	assert.Equal(t, identity.RoleInfluencer, actor.Role)

	// The role is now cached; a directory change is not visible until TTL.
	store.AssignRole("inf-1", identity.RoleBusiness)
	actor, err = service.ResolveSubject(context.Background(), "inf-1", "")
	require.NoError(t, err)
	assert.Equal(t, identity.RoleInfluencer, actor.Role)
}

func TestResolveSubjectUnknown(t *testing.T) {
	service := Service{Roles: memory.NewStore(nil)}

	_, err := service.ResolveSubject(context.Background(), "ghost", "")
	assert.ErrorIs(t, err, domainerrors.ErrUnknownSubject)

	_, err = service.ResolveSubject(context.Background(), "  ", "")
	assert.ErrorIs(t, err, identity.ErrUnauthenticated)
}

func TestResolveFromToken(t *testing.T) {
	parser, err := token.NewParser("test-secret")
	require.NoError(t, err)
	service := Service{Tokens: parser, Roles: memory.NewStore(nil)}

	raw, err := parser.Sign("inf-1", "influencer", time.Minute)
	require.NoError(t, err)

	actor, err := service.ResolveFromToken(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, identity.Actor{ID: "inf-1", Role: identity.RoleInfluencer}, actor)

	_, err = service.ResolveFromToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)

	_, err = Service{}.ResolveFromToken(context.Background(), raw)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
}

func TestAuthorizeDelegatesToPolicy(t *testing.T) {
	service := Service{}

	allowed := service.Authorize(context.Background(), identity.Actor{ID: "adm", Role: identity.RoleAdmin},
		identity.ActionAdjustBalance, identity.Target{Entity: "balance"})
	assert.True(t, allowed.Allowed)

	denied := service.Authorize(context.Background(), identity.Actor{}, identity.ActionView, identity.Target{})
	assert.False(t, denied.Allowed)
}
