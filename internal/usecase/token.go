package usecase

type TokenUsecase struct {
	identity  IdentityGateway
	messaging MessagingGateway
}

func NewTokenUsecase(identity IdentityGateway, messaging MessagingGateway) *TokenUsecase {
	return &TokenUsecase{identity: identity, messaging: messaging}
}

// IdentityJWT mints a card-service token for an identity. Minting is a
// pure local operation, unlike token verification which always calls the
// identity service.
func (uc *TokenUsecase) IdentityJWT(identity string) (string, error) {
	return uc.identity.GenerateJWT(identity)
}

// MessagingJWT mints a messaging-platform token for an identity.
func (uc *TokenUsecase) MessagingJWT(identity string) (string, error) {
	return uc.messaging.GenerateJWT(identity)
}
