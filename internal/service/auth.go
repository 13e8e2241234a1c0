package service

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/hazelwood-labs/chatgate"
)

var tracer = otel.Tracer("auth")

// CardResolver is the slice of the identity gateway the auth flow needs.
type CardResolver interface {
	VerifyAccessToken(ctx context.Context, accessToken string) (string, error)
	GetCard(ctx context.Context, cardID string) (chatgate.Card, error)
}

// AuthService resolves bearer access tokens into identity cards.
type AuthService struct {
	identity CardResolver
}

func NewAuthService(identity CardResolver) *AuthService {
	return &AuthService{identity: identity}
}

// VerifyAccessToken asks the identity service to resolve a token. An empty
// card id means the token was rejected; an error means the service itself
// failed.
func (s *AuthService) VerifyAccessToken(ctx context.Context, accessToken string) (string, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.VerifyAccessToken")
	defer span.End()

	cardID, err := s.identity.VerifyAccessToken(ctx, accessToken)
	if err != nil {
		span.RecordError(err)
		return "", errors.Wrap(err, "AuthService.VerifyAccessToken failed")
	}

	if cardID != "" {
		span.SetAttributes(attribute.String("CardId", cardID))
	}
	return cardID, nil
}

// FetchCard loads the full card for a resolved card id.
func (s *AuthService) FetchCard(ctx context.Context, cardID string) (chatgate.Card, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.FetchCard")
	defer span.End()

	card, err := s.identity.GetCard(ctx, cardID)
	if err != nil {
		span.RecordError(err)
		return chatgate.Card{}, err
	}
	return card, nil
}
