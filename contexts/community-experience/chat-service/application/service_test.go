package application

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vantage/contexts/community-experience/chat-service/adapters/memory"
	"vantage/contexts/community-experience/chat-service/domain/entities"
	domainerrors "vantage/contexts/community-experience/chat-service/domain/errors"
	authapp "vantage/contexts/identity-access/authguard/application"
	"vantage/internal/shared/identity"
)

func newChatService(store *memory.Store) Service {
	return Service{
		Conversations: store,
		Messages:      store,
		Guard:         authapp.Service{},
		Clock:         store,
		IDGen:         store,
	}
}

func TestEnsureConversationIsIdempotentPerApplication(t *testing.T) {
	store := memory.NewStore()
	service := newChatService(store)
	ctx := context.Background()

	first, err := service.EnsureConversation(ctx, "biz-1", "inf-1", "app-1")
	require.NoError(t, err)

	// The dispatcher may retry the effect; the same conversation comes back.
	second, err := service.EnsureConversation(ctx, "biz-1", "inf-1", "app-1")
	require.NoError(t, err)
	assert.Equal(t, first.ConversationID, second.ConversationID)

	conversations, err := service.ListConversations(ctx, identity.Actor{ID: "inf-1", Role: identity.RoleInfluencer})
	require.NoError(t, err)
	assert.Len(t, conversations, 1)
}

func TestPostMessageGuardedToParties(t *testing.T) {
	store := memory.NewStore()
	service := newChatService(store)
	ctx := context.Background()

	conversation, err := service.EnsureConversation(ctx, "biz-1", "inf-1", "app-1")
	require.NoError(t, err)

	message, err := service.PostMessage(ctx, identity.Actor{ID: "biz-1", Role: identity.RoleBusiness},
		conversation.ConversationID, "welcome aboard")
	require.NoError(t, err)
	assert.Equal(t, entities.SenderUser, message.SenderKind)
	assert.Equal(t, "biz-1", message.SenderID)

	_, err = service.PostMessage(ctx, identity.Actor{ID: "inf-2", Role: identity.RoleInfluencer},
		conversation.ConversationID, "let me in")
	assert.ErrorIs(t, err, identity.ErrForbidden)

	_, err = service.PostMessage(ctx, identity.Actor{ID: "biz-1", Role: identity.RoleBusiness},
		conversation.ConversationID, "   ")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidMessageInput)

	_, err = service.PostMessage(ctx, identity.Actor{ID: "biz-1", Role: identity.RoleBusiness},
		conversation.ConversationID, strings.Repeat("x", 4001))
	assert.ErrorIs(t, err, domainerrors.ErrInvalidMessageInput)
}

func TestMessagesListedInPostingOrder(t *testing.T) {
	store := memory.NewStore()
	service := newChatService(store)
	ctx := context.Background()

	conversation, err := service.EnsureConversation(ctx, "biz-1", "inf-1", "app-1")
	require.NoError(t, err)

	business := identity.Actor{ID: "biz-1", Role: identity.RoleBusiness}
	influencer := identity.Actor{ID: "inf-1", Role: identity.RoleInfluencer}

	_, err = service.PostMessage(ctx, business, conversation.ConversationID, "first")
	require.NoError(t, err)
	_, err = service.PostMessage(ctx, influencer, conversation.ConversationID, "second")
	require.NoError(t, err)

	require.NoError(t, service.PostSystemNotice(ctx, "app-1", "submission approved"))

	messages, err := service.ListMessages(ctx, business, conversation.ConversationID, 0)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "first", messages[0].Body)
	assert.Equal(t, "second", messages[1].Body)
	assert.Equal(t, entities.SenderSystem, messages[2].SenderKind)
	assert.Equal(t, "system", messages[2].SenderID)
}

func TestPostSystemNoticeUnknownApplication(t *testing.T) {
	service := newChatService(memory.NewStore())
	err := service.PostSystemNotice(context.Background(), "ghost-app", "notice")
	assert.ErrorIs(t, err, domainerrors.ErrConversationNotFound)
}

func TestListMessagesForbiddenForStrangers(t *testing.T) {
	store := memory.NewStore()
	service := newChatService(store)
	ctx := context.Background()

	conversation, err := service.EnsureConversation(ctx, "biz-1", "inf-1", "app-1")
	require.NoError(t, err)

	_, err = service.ListMessages(ctx, identity.Actor{ID: "biz-2", Role: identity.RoleBusiness},
		conversation.ConversationID, 0)
	assert.ErrorIs(t, err, identity.ErrForbidden)

	_, err = service.ListConversations(ctx, identity.Actor{})
	assert.ErrorIs(t, err, identity.ErrUnauthenticated)
}
