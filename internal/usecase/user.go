package usecase

import (
	"context"

	"github.com/pkg/errors"

	"github.com/hazelwood-labs/chatgate"
)

type UserUsecase struct {
	identity  IdentityGateway
	messaging MessagingGateway
}

func NewUserUsecase(identity IdentityGateway, messaging MessagingGateway) *UserUsecase {
	return &UserUsecase{identity: identity, messaging: messaging}
}

type RegisterResult struct {
	User         map[string]any `json:"user"`
	IdentityJWT  string         `json:"identity_jwt"`
	MessagingJWT string         `json:"messaging_jwt"`
}

// Register publishes a card from a raw signing request, creates the
// matching messaging user, and mints both token kinds. The steps are
// strictly sequential; a failure aborts the rest and earlier side effects
// are not rolled back.
func (uc *UserUsecase) Register(ctx context.Context, rawCard string) (RegisterResult, error) {
	card, err := uc.identity.PublishCard(ctx, rawCard)
	if err != nil {
		return RegisterResult{}, err
	}

	user, err := uc.messaging.CreateUser(ctx, card.Identity)
	if err != nil {
		return RegisterResult{}, err
	}
	if user == nil {
		user = map[string]any{}
	}

	serialized, err := chatgate.SerializeCard(card)
	if err != nil {
		return RegisterResult{}, errors.Wrap(err, "register: failed to serialize card")
	}
	user["identity_card"] = serialized

	identityJWT, err := uc.identity.GenerateJWT(card.Identity)
	if err != nil {
		return RegisterResult{}, errors.Wrap(err, "register: failed to mint identity token")
	}
	messagingJWT, err := uc.messaging.GenerateJWT(card.Identity)
	if err != nil {
		return RegisterResult{}, errors.Wrap(err, "register: failed to mint messaging token")
	}

	return RegisterResult{
		User:         user,
		IdentityJWT:  identityJWT,
		MessagingJWT: messagingJWT,
	}, nil
}

func (uc *UserUsecase) List(ctx context.Context) ([]map[string]any, error) {
	return uc.messaging.ListUsers(ctx)
}
