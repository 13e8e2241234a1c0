package gateway

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/hazelwood-labs/chatgate"
	"github.com/hazelwood-labs/chatgate/internal/config"
	"github.com/hazelwood-labs/chatgate/internal/domain"
	"github.com/hazelwood-labs/chatgate/token"
)

const (
	defaultTimeout   = 10 * time.Second
	identityTokenTTL = time.Hour
	serviceTokenTTL  = 5 * time.Minute
)

// IdentityGateway wraps the external card service: card publication and
// lookup, access-token verification, and minting of identity-scoped JWTs.
type IdentityGateway struct {
	client      *http.Client
	cache       *cache.Cache
	baseURL     string
	authBaseURL string
	appID       string
	appKeyID    string
	appKey      ed25519.PrivateKey
}

func NewIdentityGateway(conf config.Identity) (*IdentityGateway, error) {
	seed, err := base64.StdEncoding.DecodeString(conf.AppKey)
	if err != nil {
		return nil, errors.Wrap(err, "identity: invalid app key encoding")
	}
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Errorf("identity: app key must be a %d-byte ed25519 seed", ed25519.SeedSize)
	}

	return &IdentityGateway{
		client:      &http.Client{Timeout: defaultTimeout},
		cache:       cache.New(10*time.Minute, 15*time.Minute),
		baseURL:     conf.BaseURL,
		authBaseURL: conf.AuthBaseURL,
		appID:       conf.AppID,
		appKeyID:    conf.AppKeyID,
		appKey:      ed25519.NewKeyFromSeed(seed),
	}, nil
}

// VerifyAccessToken resolves a bearer token to a card id. An empty id with
// a nil error means the identity service rejected the token; callers must
// treat that as an authentication failure, not a resolved identity.
func (g *IdentityGateway) VerifyAccessToken(ctx context.Context, accessToken string) (string, error) {
	body, err := json.Marshal(map[string]string{"access_token": accessToken})
	if err != nil {
		return "", errors.Wrap(err, "identity: failed to encode verify request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.authBaseURL+"/authorization/actions/verify", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "identity: failed to create verify request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "identity: verify request failed")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var result struct {
			CardID string `json:"resource_owner_card_id"`
		}
		err = json.NewDecoder(resp.Body).Decode(&result)
		if err != nil {
			return "", errors.Wrap(err, "identity: failed to decode verify response")
		}
		return result.CardID, nil
	case http.StatusBadRequest:
		// the service reports the token itself as invalid
		return "", nil
	default:
		return "", errors.Errorf("identity: unexpected status %d from verify", resp.StatusCode)
	}
}

// GetCard fetches a card by id. A dangling id is reported as an
// invalid-access-token condition since card ids double as resolved-token
// subjects. Cards are immutable, so lookups are cached.
func (g *IdentityGateway) GetCard(ctx context.Context, cardID string) (chatgate.Card, error) {
	if x, found := g.cache.Get(cardID); found {
		return x.(chatgate.Card), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/card/"+url.PathEscape(cardID), nil)
	if err != nil {
		return chatgate.Card{}, errors.Wrap(err, "identity: failed to create card request")
	}
	err = g.authorize(req)
	if err != nil {
		return chatgate.Card{}, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return chatgate.Card{}, errors.Wrap(err, "identity: card request failed")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var card chatgate.Card
		err = json.NewDecoder(resp.Body).Decode(&card)
		if err != nil {
			return chatgate.Card{}, errors.Wrap(err, "identity: failed to decode card")
		}
		g.cache.Set(cardID, card, cache.DefaultExpiration)
		return card, nil
	case http.StatusNotFound:
		return chatgate.Card{}, domain.ErrInvalidAccessToken
	default:
		return chatgate.Card{}, errors.Errorf("identity: unexpected status %d fetching card", resp.StatusCode)
	}
}

// PublishCard parses a client-submitted signing request, rejects duplicate
// identities, co-signs with the application key and submits the request to
// the card service.
func (g *IdentityGateway) PublishCard(ctx context.Context, raw string) (chatgate.Card, error) {
	signingReq, err := chatgate.ParseSigningRequest(raw)
	if err != nil {
		return chatgate.Card{}, errors.Wrap(domain.ErrInvalidCard, err.Error())
	}
	content, err := signingReq.Content()
	if err != nil {
		return chatgate.Card{}, errors.Wrap(domain.ErrInvalidCard, err.Error())
	}

	available, err := g.identityAvailable(ctx, content.Identity)
	if err != nil {
		return chatgate.Card{}, err
	}
	if !available {
		return chatgate.Card{}, domain.ErrDuplicateIdentity
	}

	if signingReq.Meta.Signs == nil {
		signingReq.Meta.Signs = map[string][]byte{}
	}
	signingReq.Meta.Signs[g.appKeyID] = ed25519.Sign(g.appKey, signingReq.ContentSnapshot)

	body, err := json.Marshal(signingReq)
	if err != nil {
		return chatgate.Card{}, errors.Wrap(err, "identity: failed to encode signing request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/card", bytes.NewReader(body))
	if err != nil {
		return chatgate.Card{}, errors.Wrap(err, "identity: failed to create publish request")
	}
	req.Header.Set("Content-Type", "application/json")
	err = g.authorize(req)
	if err != nil {
		return chatgate.Card{}, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return chatgate.Card{}, errors.Wrap(err, "identity: publish request failed")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		var card chatgate.Card
		err = json.NewDecoder(resp.Body).Decode(&card)
		if err != nil {
			return chatgate.Card{}, errors.Wrap(err, "identity: failed to decode published card")
		}
		return card, nil
	case http.StatusBadRequest:
		return chatgate.Card{}, domain.ErrInvalidCard
	default:
		return chatgate.Card{}, errors.Wrapf(domain.ErrUpstream, "identity: status %d publishing card", resp.StatusCode)
	}
}

// GenerateJWT mints an identity-scoped token granting read/write access to
// the card service for that identity. Pure local operation, no network.
func (g *IdentityGateway) GenerateJWT(identity string) (string, error) {
	claims := token.NewClaims(g.appID, identity, identityTokenTTL)
	claims.ACL = &token.ACL{Paths: map[string]token.Permission{
		"/card":        {Methods: []string{"GET", "POST"}},
		"/card/*":      {Methods: []string{"GET"}},
		"/card/search": {Methods: []string{"GET"}},
	}}
	return token.Mint(jwt.SigningMethodEdDSA, g.appKey, claims)
}

func (g *IdentityGateway) identityAvailable(ctx context.Context, identity string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/card/search?identity="+url.QueryEscape(identity), nil)
	if err != nil {
		return false, errors.Wrap(err, "identity: failed to create search request")
	}
	err = g.authorize(req)
	if err != nil {
		return false, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return false, errors.Wrap(err, "identity: search request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, errors.Wrapf(domain.ErrUpstream, "identity: status %d searching cards", resp.StatusCode)
	}

	var cards []json.RawMessage
	err = json.NewDecoder(resp.Body).Decode(&cards)
	if err != nil {
		return false, errors.Wrap(err, "identity: failed to decode search response")
	}
	return len(cards) == 0, nil
}

// authorize attaches a short-lived application token for the card service.
func (g *IdentityGateway) authorize(req *http.Request) error {
	claims := token.NewClaims(g.appID, g.appID, serviceTokenTTL)
	signed, err := token.Mint(jwt.SigningMethodEdDSA, g.appKey, claims)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+signed)
	return nil
}
