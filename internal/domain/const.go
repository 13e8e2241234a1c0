package domain

// Request context keys populated by the auth middleware.
const (
	CardIdCtxKey   = "cg-cardId"
	CardCtxKey     = "cg-card"
	IdentityCtxKey = "cg-identity"
)
