package chatgate

// Card is a signed, service-attested identity credential. Cards are
// immutable once published; this server never mutates or deletes them.
type Card struct {
	ID              string          `json:"id"`
	Identity        string          `json:"identity"`
	PublicKey       []byte          `json:"public_key"`
	ContentSnapshot []byte          `json:"content_snapshot"`
	Signatures      []CardSignature `json:"signatures"`
}

// CardSignature is a single attestation over a card's content snapshot.
type CardSignature struct {
	SignerID  string `json:"signer_id"`
	Signature []byte `json:"signature"`
}

// CardContent is the payload encoded in a signing request's content
// snapshot. It is what signers actually sign.
type CardContent struct {
	Identity  string `json:"identity"`
	PublicKey []byte `json:"public_key"`
	CreatedAt int64  `json:"created_at"`
}

// SigningRequest is a client-constructed, self-signed request for
// credential issuance. The server adds its own authority signature to
// Meta.Signs before forwarding it to the card service.
type SigningRequest struct {
	ContentSnapshot []byte             `json:"content_snapshot"`
	Meta            SigningRequestMeta `json:"meta"`
}

type SigningRequestMeta struct {
	Signs map[string][]byte `json:"signs"`
}
