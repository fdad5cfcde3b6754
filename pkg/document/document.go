// Package document holds the VerificationDocument value type: the
// named container of key material that FiProof signs and verifies
// against.
package document

// VerificationDocument is a named container of optional key material.
// Either key may be absent (nil). It is a plain value type — copying a
// VerificationDocument copies the struct, including the backing slice
// headers of its key fields; callers who need independently mutable key
// bytes across copies should clone the slices themselves.
type VerificationDocument struct {
	id         string
	privateKey []byte
	publicKey  []byte
}

// New constructs a VerificationDocument. privateKey and publicKey may be
// nil.
func New(id string, privateKey, publicKey []byte) VerificationDocument {
	return VerificationDocument{id: id, privateKey: privateKey, publicKey: publicKey}
}

// ID returns the document's identifier.
func (d VerificationDocument) ID() string { return d.id }

// SetID updates the document's identifier.
func (d *VerificationDocument) SetID(id string) { d.id = id }

// PrivateKey returns the private key bytes, or nil if absent.
func (d VerificationDocument) PrivateKey() []byte { return d.privateKey }

// SetPrivateKey sets the private key bytes.
func (d *VerificationDocument) SetPrivateKey(key []byte) { d.privateKey = key }

// HasPrivateKey reports whether a private key is present.
func (d VerificationDocument) HasPrivateKey() bool { return len(d.privateKey) > 0 }

// PublicKey returns the public key bytes, or nil if absent.
func (d VerificationDocument) PublicKey() []byte { return d.publicKey }

// SetPublicKey sets the public key bytes.
func (d *VerificationDocument) SetPublicKey(key []byte) { d.publicKey = key }

// HasPublicKey reports whether a public key is present.
func (d VerificationDocument) HasPublicKey() bool { return len(d.publicKey) > 0 }
