package usecase

import (
	"context"

	"github.com/hazelwood-labs/chatgate/internal/domain"
)

type ConversationUsecase struct {
	messaging MessagingGateway
}

func NewConversationUsecase(messaging MessagingGateway) *ConversationUsecase {
	return &ConversationUsecase{messaging: messaging}
}

func (uc *ConversationUsecase) Create(ctx context.Context, displayName string) (map[string]any, error) {
	return uc.messaging.CreateConversation(ctx, displayName)
}

func (uc *ConversationUsecase) UpdateMembership(ctx context.Context, update domain.MembershipUpdate) (map[string]any, error) {
	return uc.messaging.UpdateConversation(ctx, update)
}
