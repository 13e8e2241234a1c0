package gateway

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hazelwood-labs/chatgate/internal/config"
	"github.com/hazelwood-labs/chatgate/internal/domain"
	"github.com/hazelwood-labs/chatgate/token"
)

func testRSAKey(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("keygen failed: %v", err)
	}
	pemBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	return key, string(pemBytes)
}

func newMessagingGateway(t *testing.T, baseURL string) (*MessagingGateway, *rsa.PrivateKey) {
	t.Helper()
	key, pemKey := testRSAKey(t)
	g, err := NewMessagingGateway(config.Messaging{
		BaseURL:       baseURL,
		ApplicationID: "msg-app-1",
		PrivateKey:    pemKey,
	})
	if err != nil {
		t.Fatalf("failed to build gateway: %v", err)
	}
	return g, key
}

func TestNewMessagingGatewayRejectsBadKey(t *testing.T) {
	_, err := NewMessagingGateway(config.Messaging{
		BaseURL:       "http://localhost",
		ApplicationID: "a",
		PrivateKey:    "garbage",
	})
	if err == nil {
		t.Fatal("expected error for invalid private key")
	}
}

func TestCreateUser(t *testing.T) {
	var gotName string
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/users", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		gotName = req["name"]
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": "usr-1", "name": req["name"]})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	g, _ := newMessagingGateway(t, srv.URL)

	user, err := g.CreateUser(context.Background(), "alice")
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if gotName != "alice" || user["id"] != "usr-1" {
		t.Fatalf("name = %q, user = %+v", gotName, user)
	}
	if !strings.HasPrefix(gotAuth, "Bearer ") {
		t.Fatalf("missing bearer auth on platform call: %q", gotAuth)
	}
}

func TestListUsers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/users", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{{"name": "a"}, {"name": "b"}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	g, _ := newMessagingGateway(t, srv.URL)

	users, err := g.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users got %d", len(users))
	}
}

func TestUpdateConversation(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /v1/conversations/{id}/members", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{"state": "invited"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	g, _ := newMessagingGateway(t, srv.URL)

	membership, err := g.UpdateConversation(context.Background(), domain.MembershipUpdate{
		ConversationID: "conv-7",
		UserID:         "usr-1",
		Action:         "invite",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if membership["state"] != "invited" {
		t.Fatalf("unexpected membership: %+v", membership)
	}
	if gotPath != "/v1/conversations/conv-7/members" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotBody["action"] != "invite" || gotBody["user_id"] != "usr-1" {
		t.Fatalf("body = %+v", gotBody)
	}
	channel, _ := gotBody["channel"].(map[string]any)
	if channel["type"] != "app" {
		t.Fatalf("channel = %+v", channel)
	}
}

func TestUpdateConversationUpstreamError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /v1/conversations/{id}/members", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	g, _ := newMessagingGateway(t, srv.URL)

	_, err := g.UpdateConversation(context.Background(), domain.MembershipUpdate{
		ConversationID: "conv-7",
		UserID:         "usr-1",
		Action:         "detonate",
	})
	if err == nil {
		t.Fatal("expected error for upstream rejection")
	}
}

func TestMessagingGenerateJWT(t *testing.T) {
	g, key := newMessagingGateway(t, "http://localhost")

	signed, err := g.GenerateJWT("bob")
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	var claims token.Claims
	tok, err := jwt.ParseWithClaims(signed, &claims, func(_ *jwt.Token) (any, error) {
		return &key.PublicKey, nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Subject != "bob" || claims.ApplicationID != "msg-app-1" {
		t.Fatalf("unexpected claims: sub=%q app=%q", claims.Subject, claims.ApplicationID)
	}
	if claims.ID == "" {
		t.Fatal("jti missing")
	}
	if claims.ACL == nil {
		t.Fatal("acl missing")
	}
	perms, ok := claims.ACL.Paths["/v1/conversations/*"]
	if !ok || len(perms.Methods) != 3 {
		t.Fatalf("conversation acl = %+v", claims.ACL.Paths)
	}
}
