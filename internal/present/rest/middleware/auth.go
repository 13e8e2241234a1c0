package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/hazelwood-labs/chatgate/internal/domain"
	"github.com/hazelwood-labs/chatgate/internal/service"
)

var tracer = otel.Tracer("auth")

type AuthMiddleware struct {
	auth *service.AuthService
}

func NewAuthMiddleware(auth *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Authenticate gates a protected route. It exchanges the bearer token for
// a card id and attaches it to the request context, or terminates the
// request with a 401-class error.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.Authenticate")
		defer span.End()

		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return domain.ErrMissingAuthorization
		}

		// a header with no token portion yields an empty token, which the
		// identity service then rejects
		var accessToken string
		if parts := strings.Fields(authHeader); len(parts) > 1 {
			accessToken = parts[1]
		}

		cardID, err := m.auth.VerifyAccessToken(ctx, accessToken)
		if err != nil {
			span.RecordError(err)
			return errors.Wrap(err, "authenticate: token verification failed")
		}
		if cardID == "" {
			return domain.ErrInvalidAccessToken
		}

		span.SetAttributes(attribute.String("CardId", cardID))
		ctx = context.WithValue(ctx, domain.CardIdCtxKey, cardID)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// ResolveCard fetches the full card for the authenticated card id and
// attaches the card and its identity to the request context. Must run
// after Authenticate. A dangling card id terminates the request with the
// same 401 class as an invalid token.
func (m *AuthMiddleware) ResolveCard(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.ResolveCard")
		defer span.End()

		cardID, _ := ctx.Value(domain.CardIdCtxKey).(string)
		if cardID == "" {
			return domain.ErrInvalidAccessToken
		}

		card, err := m.auth.FetchCard(ctx, cardID)
		if err != nil {
			span.RecordError(err)
			if errors.Is(err, domain.ErrInvalidAccessToken) {
				return domain.ErrInvalidAccessToken
			}
			return errors.Wrap(err, "resolve card: fetch failed")
		}

		span.SetAttributes(attribute.String("Identity", card.Identity))
		ctx = context.WithValue(ctx, domain.CardCtxKey, card)
		ctx = context.WithValue(ctx, domain.IdentityCtxKey, card.Identity)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// ResolveIdentity serves the token-minting routes, which accept either a
// bearer token or, unauthenticated, an explicit identity query parameter.
// The Authorization header wins when both are present.
func (m *AuthMiddleware) ResolveIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get(echo.HeaderAuthorization) != "" {
			return m.Authenticate(m.ResolveCard(next))(c)
		}

		identity := c.QueryParam("identity")
		if identity == "" {
			return domain.ErrMissingAuthorization
		}

		ctx := context.WithValue(c.Request().Context(), domain.IdentityCtxKey, identity)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}
