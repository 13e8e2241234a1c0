package chatgate

import (
	"encoding/base64"
	"encoding/json"

	"github.com/pkg/errors"
)

// ParseSigningRequest decodes a raw card string (base64 over JSON) into a
// SigningRequest. It does not verify any of the contained signatures.
func ParseSigningRequest(raw string) (SigningRequest, error) {
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return SigningRequest{}, errors.Wrap(err, "invalid raw card encoding")
	}

	var req SigningRequest
	err = json.Unmarshal(decoded, &req)
	if err != nil {
		return SigningRequest{}, errors.Wrap(err, "invalid raw card json")
	}

	if len(req.ContentSnapshot) == 0 {
		return SigningRequest{}, errors.New("raw card has no content snapshot")
	}

	return req, nil
}

// Content unpacks the request's content snapshot.
func (r SigningRequest) Content() (CardContent, error) {
	var content CardContent
	err := json.Unmarshal(r.ContentSnapshot, &content)
	if err != nil {
		return CardContent{}, errors.Wrap(err, "invalid content snapshot")
	}
	if content.Identity == "" {
		return CardContent{}, errors.New("content snapshot has no identity")
	}
	return content, nil
}

// SerializeCard encodes a card for transport. The encoding is reversible:
// DeserializeCard(SerializeCard(card)) reproduces every field.
func SerializeCard(card Card) (string, error) {
	b, err := json.Marshal(card)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal card")
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// DeserializeCard is the inverse of SerializeCard.
func DeserializeCard(s string) (Card, error) {
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return Card{}, errors.Wrap(err, "invalid card encoding")
	}
	var card Card
	err = json.Unmarshal(decoded, &card)
	if err != nil {
		return Card{}, errors.Wrap(err, "invalid card json")
	}
	return card, nil
}
