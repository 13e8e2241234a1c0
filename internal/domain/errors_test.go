package domain

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
)

func TestAPIErrorIsMatchesByCode(t *testing.T) {
	if !errors.Is(ErrInvalidAccessToken, ErrInvalidAccessToken) {
		t.Fatal("sentinel should match itself")
	}
	if errors.Is(ErrInvalidAccessToken, ErrMissingAuthorization) {
		t.Fatal("distinct codes should not match")
	}

	wrapped := errors.Wrap(ErrDuplicateIdentity, "publish failed")
	if !errors.Is(wrapped, ErrDuplicateIdentity) {
		t.Fatal("wrapped sentinel should still match")
	}

	var apiErr *APIError
	if !errors.As(wrapped, &apiErr) {
		t.Fatal("wrapped sentinel should unwrap to APIError")
	}
	if apiErr.Code != 40002 {
		t.Fatalf("code = %d, want 40002", apiErr.Code)
	}
}

func TestAPIErrorWireShape(t *testing.T) {
	b, err := json.Marshal(MissingParameter("action"))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded["status"] != float64(400) {
		t.Fatalf("status = %v", decoded["status"])
	}
	if decoded["error_code"] != float64(40004) {
		t.Fatalf("error_code = %v", decoded["error_code"])
	}
	msg, _ := decoded["message"].(string)
	if msg == "" {
		t.Fatal("message missing")
	}
	if _, ok := decoded["Name"]; ok {
		t.Fatal("name should not be serialized")
	}
}
