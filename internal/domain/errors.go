package domain

import "fmt"

// APIError is a domain error with a stable wire representation. The whole
// error surface of the server is the closed set of constructors below;
// anything else is flattened to Internal by the HTTP error handler.
type APIError struct {
	Status  int    `json:"status"`
	Code    int    `json:"error_code"`
	Name    string `json:"-"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// Is enables errors.Is matching by error code.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Code == e.Code
}

var (
	// ErrInvalidCard signals a raw card string that could not be parsed.
	ErrInvalidCard = &APIError{
		Status:  400,
		Code:    40001,
		Name:    "InvalidCard",
		Message: "Could not parse provided raw card string.",
	}

	// ErrDuplicateIdentity signals an identity label already bound to a card.
	ErrDuplicateIdentity = &APIError{
		Status:  400,
		Code:    40002,
		Name:    "DuplicateIdentity",
		Message: "Another card with the same identity has already been registered.",
	}

	// ErrMissingCard signals a register request without a raw card string.
	ErrMissingCard = &APIError{
		Status:  400,
		Code:    40003,
		Name:    "MissingCard",
		Message: `Request body is malformed. Expected JSON with "raw_card_string" property. Did you forget Content-Type header?`,
	}

	// ErrMissingIdentity signals a token request without an identity.
	ErrMissingIdentity = &APIError{
		Status:  400,
		Code:    40004,
		Name:    "MissingIdentity",
		Message: `Request url is invalid. Expected "identity" query parameter.`,
	}

	// ErrMissingAuthorization signals an absent Authorization header on a
	// protected route.
	ErrMissingAuthorization = &APIError{
		Status:  401,
		Code:    40101,
		Name:    "Unauthorized",
		Message: "Authorization header is missing.",
	}

	// ErrInvalidAccessToken signals a token the identity service rejected,
	// or a resolved card id that no longer resolves to a card.
	ErrInvalidAccessToken = &APIError{
		Status:  401,
		Code:    40102,
		Name:    "Unauthorized",
		Message: "Access token is invalid or has expired.",
	}

	// ErrNotFound is the shape for unmatched routes.
	ErrNotFound = &APIError{
		Status:  404,
		Code:    40400,
		Name:    "NotFound",
		Message: "Not Found",
	}

	// ErrUpstream signals an unexpected answer from the card service.
	ErrUpstream = &APIError{
		Status:  500,
		Code:    50020,
		Name:    "UpstreamError",
		Message: "Received unexpected error from the card service.",
	}

	// ErrInternal is what clients see for everything unrecognized.
	ErrInternal = &APIError{
		Status:  500,
		Code:    50000,
		Name:    "InternalServerError",
		Message: "An unexpected error has occurred on the server.",
	}
)

// MissingParameter reports an absent or empty required body field.
func MissingParameter(name string) *APIError {
	return &APIError{
		Status:  400,
		Code:    40004,
		Name:    "MissingParameter",
		Message: fmt.Sprintf("Request body is malformed. Expected JSON with %q property. Did you forget Content-Type header?", name),
	}
}
