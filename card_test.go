package chatgate

import (
	"encoding/base64"
	"encoding/json"
	"testing"
)

func makeRawCard(t *testing.T, content CardContent, signs map[string][]byte) string {
	t.Helper()

	snapshot, err := json.Marshal(content)
	if err != nil {
		t.Fatalf("failed to marshal content: %v", err)
	}
	req := SigningRequest{
		ContentSnapshot: snapshot,
		Meta:            SigningRequestMeta{Signs: signs},
	}
	b, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	return base64.StdEncoding.EncodeToString(b)
}

func TestParseSigningRequest(t *testing.T) {
	raw := makeRawCard(t, CardContent{
		Identity:  "alice",
		PublicKey: []byte{1, 2, 3},
		CreatedAt: 1700000000,
	}, map[string][]byte{"self": {4, 5, 6}})

	req, err := ParseSigningRequest(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	content, err := req.Content()
	if err != nil {
		t.Fatalf("content unpack failed: %v", err)
	}
	if content.Identity != "alice" {
		t.Fatalf("expected identity alice got %s", content.Identity)
	}
	if string(req.Meta.Signs["self"]) != string([]byte{4, 5, 6}) {
		t.Fatalf("self signature not preserved")
	}
}

func TestParseSigningRequestRejectsGarbage(t *testing.T) {
	cases := map[string]string{
		"not base64":  "%%%not-base64%%%",
		"not json":    base64.StdEncoding.EncodeToString([]byte("hello")),
		"no snapshot": base64.StdEncoding.EncodeToString([]byte(`{"meta":{"signs":{}}}`)),
	}

	for name, raw := range cases {
		if _, err := ParseSigningRequest(raw); err == nil {
			t.Errorf("%s: expected error, got none", name)
		}
	}
}

func TestSigningRequestContentRequiresIdentity(t *testing.T) {
	req := SigningRequest{ContentSnapshot: []byte(`{"public_key":"AQID"}`)}
	if _, err := req.Content(); err == nil {
		t.Fatal("expected error for snapshot without identity")
	}
}

func TestCardSerializationRoundTrip(t *testing.T) {
	card := Card{
		ID:              "b5bb9d8014a0f9b1d61e21e796d78dcc",
		Identity:        "bob",
		PublicKey:       []byte{9, 8, 7},
		ContentSnapshot: []byte(`{"identity":"bob"}`),
		Signatures: []CardSignature{
			{SignerID: "self", Signature: []byte{1, 1}},
			{SignerID: "authority", Signature: []byte{2, 2}},
		},
	}

	s, err := SerializeCard(card)
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}
	got, err := DeserializeCard(s)
	if err != nil {
		t.Fatalf("deserialize failed: %v", err)
	}

	if got.ID != card.ID || got.Identity != card.Identity {
		t.Fatalf("id/identity not preserved: %+v", got)
	}
	if string(got.PublicKey) != string(card.PublicKey) {
		t.Fatalf("public key not preserved")
	}
	if string(got.ContentSnapshot) != string(card.ContentSnapshot) {
		t.Fatalf("content snapshot not preserved")
	}
	if len(got.Signatures) != 2 {
		t.Fatalf("expected 2 signatures got %d", len(got.Signatures))
	}
	for i := range card.Signatures {
		if got.Signatures[i].SignerID != card.Signatures[i].SignerID {
			t.Fatalf("signer id %d not preserved", i)
		}
		if string(got.Signatures[i].Signature) != string(card.Signatures[i].Signature) {
			t.Fatalf("signature %d not preserved", i)
		}
	}
}

func TestDeserializeCardRejectsGarbage(t *testing.T) {
	if _, err := DeserializeCard("***"); err == nil {
		t.Fatal("expected error for non-base64 input")
	}
	if _, err := DeserializeCard(base64.StdEncoding.EncodeToString([]byte("nope"))); err == nil {
		t.Fatal("expected error for non-json input")
	}
}
