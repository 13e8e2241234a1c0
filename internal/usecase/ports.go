package usecase

import (
	"context"

	"github.com/hazelwood-labs/chatgate"
	"github.com/hazelwood-labs/chatgate/internal/domain"
)

// IdentityGateway encapsulates the external card service.
type IdentityGateway interface {
	PublishCard(ctx context.Context, raw string) (chatgate.Card, error)
	GetCard(ctx context.Context, cardID string) (chatgate.Card, error)
	// VerifyAccessToken returns the resolved card id, or an empty id when
	// the service rejected the token.
	VerifyAccessToken(ctx context.Context, accessToken string) (string, error)
	GenerateJWT(identity string) (string, error)
}

// MessagingGateway encapsulates the external messaging platform.
type MessagingGateway interface {
	CreateUser(ctx context.Context, name string) (map[string]any, error)
	ListUsers(ctx context.Context) ([]map[string]any, error)
	CreateConversation(ctx context.Context, displayName string) (map[string]any, error)
	UpdateConversation(ctx context.Context, update domain.MembershipUpdate) (map[string]any, error)
	GenerateJWT(identity string) (string, error)
}
