package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hazelwood-labs/chatgate/internal/domain"
	"github.com/hazelwood-labs/chatgate/internal/present/rest/middleware"
	"github.com/hazelwood-labs/chatgate/internal/present/rest/presenter"
	"github.com/hazelwood-labs/chatgate/internal/usecase"
)

type Handler struct {
	users         *usecase.UserUsecase
	conversations *usecase.ConversationUsecase
	tokens        *usecase.TokenUsecase
}

func NewHandler(
	users *usecase.UserUsecase,
	conversations *usecase.ConversationUsecase,
	tokens *usecase.TokenUsecase,
) *Handler {
	return &Handler{
		users:         users,
		conversations: conversations,
		tokens:        tokens,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo, auth *middleware.AuthMiddleware) {
	e.GET("/health/status", h.handleHealth)
	e.POST("/users", h.handleRegisterUser)
	e.GET("/users", h.handleListUsers, auth.Authenticate)
	e.POST("/conversations", h.handleCreateConversation, auth.Authenticate)
	e.PUT("/conversations", h.handleUpdateConversation, auth.Authenticate)
	e.GET("/identity-jwt", h.handleIdentityJWT, auth.ResolveIdentity)
	e.GET("/messaging-jwt", h.handleMessagingJWT, auth.ResolveIdentity)
}

func (h *Handler) handleHealth(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (h *Handler) handleRegisterUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		RawCardString string `json:"raw_card_string"`
	}
	err := c.Bind(&req)
	if err != nil || req.RawCardString == "" {
		return domain.ErrMissingCard
	}

	result, err := h.users.Register(ctx, req.RawCardString)
	if err != nil {
		return err
	}
	return presenter.OK(c, result)
}

func (h *Handler) handleListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	users, err := h.users.List(ctx)
	if err != nil {
		return err
	}
	return presenter.OK(c, users)
}

func (h *Handler) handleCreateConversation(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		DisplayName string `json:"display_name"`
	}
	err := c.Bind(&req)
	if err != nil || req.DisplayName == "" {
		return domain.MissingParameter("display_name")
	}

	conversation, err := h.conversations.Create(ctx, req.DisplayName)
	if err != nil {
		return err
	}
	return presenter.OK(c, conversation)
}

func (h *Handler) handleUpdateConversation(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		ConversationID string `json:"conversation_id"`
		UserID         string `json:"user_id"`
		Action         string `json:"action"`
	}
	err := c.Bind(&req)
	if err != nil || req.ConversationID == "" {
		return domain.MissingParameter("conversation_id")
	}
	if req.UserID == "" {
		return domain.MissingParameter("user_id")
	}
	if req.Action == "" {
		return domain.MissingParameter("action")
	}

	membership, err := h.conversations.UpdateMembership(ctx, domain.MembershipUpdate{
		ConversationID: req.ConversationID,
		UserID:         req.UserID,
		Action:         req.Action,
	})
	if err != nil {
		return err
	}
	return presenter.OK(c, membership)
}

func (h *Handler) handleIdentityJWT(c echo.Context) error {
	identity, _ := c.Request().Context().Value(domain.IdentityCtxKey).(string)
	if identity == "" {
		return domain.ErrMissingIdentity
	}

	jwt, err := h.tokens.IdentityJWT(identity)
	if err != nil {
		return err
	}
	return presenter.OK(c, echo.Map{"jwt": jwt})
}

func (h *Handler) handleMessagingJWT(c echo.Context) error {
	identity, _ := c.Request().Context().Value(domain.IdentityCtxKey).(string)
	if identity == "" {
		return domain.ErrMissingIdentity
	}

	jwt, err := h.tokens.MessagingJWT(identity)
	if err != nil {
		return err
	}
	return presenter.OK(c, echo.Map{"jwt": jwt})
}
