package gateway

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/hazelwood-labs/chatgate/internal/config"
	"github.com/hazelwood-labs/chatgate/internal/domain"
	"github.com/hazelwood-labs/chatgate/token"
)

const messagingTokenTTL = 24 * time.Hour

// userACL is the permission set embedded in user-facing messaging tokens.
var userACL = token.ACL{Paths: map[string]token.Permission{
	"/v1/sessions/**":     {Methods: []string{"GET"}},
	"/v1/users/*":         {Methods: []string{"GET"}},
	"/v1/conversations/*": {Methods: []string{"GET", "POST", "PUT"}},
}}

// serviceACL is the permission set for this server's own platform calls.
var serviceACL = token.ACL{Paths: map[string]token.Permission{
	"/**": {Methods: []string{"GET", "POST", "PUT", "DELETE"}},
}}

// MessagingGateway wraps the external messaging platform: user records,
// conversations, membership changes, and messaging-scoped JWTs. User and
// conversation records are relayed verbatim; this server keeps no copy.
type MessagingGateway struct {
	client        *http.Client
	baseURL       string
	applicationID string
	privateKey    *rsa.PrivateKey
}

func NewMessagingGateway(conf config.Messaging) (*MessagingGateway, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(conf.PrivateKey))
	if err != nil {
		return nil, errors.Wrap(err, "messaging: invalid private key")
	}

	return &MessagingGateway{
		client:        &http.Client{Timeout: defaultTimeout},
		baseURL:       conf.BaseURL,
		applicationID: conf.ApplicationID,
		privateKey:    key,
	}, nil
}

// CreateUser creates a messaging user record for an identity. Not
// idempotent: callers register each identity at most once, right after
// card publication.
func (g *MessagingGateway) CreateUser(ctx context.Context, name string) (map[string]any, error) {
	var user map[string]any
	err := g.do(ctx, http.MethodPost, "/v1/users", map[string]string{"name": name}, &user)
	if err != nil {
		return nil, errors.Wrap(err, "messaging: failed to create user")
	}
	return user, nil
}

func (g *MessagingGateway) ListUsers(ctx context.Context) ([]map[string]any, error) {
	var users []map[string]any
	err := g.do(ctx, http.MethodGet, "/v1/users", nil, &users)
	if err != nil {
		return nil, errors.Wrap(err, "messaging: failed to list users")
	}
	return users, nil
}

func (g *MessagingGateway) CreateConversation(ctx context.Context, displayName string) (map[string]any, error) {
	var conversation map[string]any
	err := g.do(ctx, http.MethodPost, "/v1/conversations", map[string]string{"display_name": displayName}, &conversation)
	if err != nil {
		return nil, errors.Wrap(err, "messaging: failed to create conversation")
	}
	return conversation, nil
}

// UpdateConversation forwards a membership change. The action enumeration
// is not validated here.
func (g *MessagingGateway) UpdateConversation(ctx context.Context, update domain.MembershipUpdate) (map[string]any, error) {
	body := map[string]any{
		"action":  update.Action,
		"user_id": update.UserID,
		"channel": map[string]string{"type": "app"},
	}

	var membership map[string]any
	path := "/v1/conversations/" + url.PathEscape(update.ConversationID) + "/members"
	err := g.do(ctx, http.MethodPut, path, body, &membership)
	if err != nil {
		return nil, errors.Wrap(err, "messaging: failed to update conversation")
	}
	return membership, nil
}

// GenerateJWT mints a messaging-scoped token for an identity with the
// fixed user ACL and TTL.
func (g *MessagingGateway) GenerateJWT(identity string) (string, error) {
	claims := token.NewClaims("", identity, messagingTokenTTL)
	claims.ApplicationID = g.applicationID
	acl := userACL
	claims.ACL = &acl
	return token.Mint(jwt.SigningMethodRS256, g.privateKey, claims)
}

func (g *MessagingGateway) do(ctx context.Context, method, path string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to encode request body")
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	claims := token.NewClaims("", g.applicationID, serviceTokenTTL)
	claims.ApplicationID = g.applicationID
	acl := serviceACL
	claims.ACL = &acl
	signed, err := token.Mint(jwt.SigningMethodRS256, g.privateKey, claims)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+signed)

	resp, err := g.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		return errors.Wrap(err, "failed to decode response")
	}
	return nil
}
