package license

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IssuerConfig holds the collaborators of an Issuer. Zero fields get defaults:
// the modular scheme, the default catalog, the hash signer and 129 characters
// of alphanumeric padding.
type IssuerConfig struct {
	Scheme  Scheme
	Catalog *Catalog
	Signer  Signer
	Padder  *Padder
	// Now stamps legacy licenses. Defaults to time.Now.
	Now func() time.Time
}

// Issuer runs the issuance pipeline: validate, serialize, sign, pad, encode.
// An Issuer holds no mutable state and may be shared between goroutines.
type Issuer struct {
	scheme  Scheme
	catalog *Catalog
	signer  Signer
	padder  *Padder
	now     func() time.Time
}

// Issued is the result of one successful issuance.
type Issued struct {
	ID        uuid.UUID
	Scheme    Scheme
	Algorithm Algorithm
	// Record is the signed record; Record.Signature is Padding followed by Digest.
	Record Record
	// Payload is the canonical bytes that were signed.
	Payload   []byte
	Digest    string
	Padding   string
	Blob      string
	CreatedAt time.Time
}

// Fingerprint returns the hex SHA-256 of the blob, safe to log and store.
func (i *Issued) Fingerprint() string {
	sum := sha256.Sum256([]byte(i.Blob))
	return hex.EncodeToString(sum[:])
}

// NewIssuer creates an Issuer from cfg.
func NewIssuer(cfg IssuerConfig) (*Issuer, error) {
	if cfg.Scheme == "" {
		cfg.Scheme = SchemeModular
	}
	if !cfg.Scheme.IsValid() {
		return nil, fmt.Errorf("unknown license scheme %q", cfg.Scheme)
	}
	if cfg.Catalog == nil {
		cfg.Catalog = DefaultCatalog()
	}
	if cfg.Signer == nil {
		cfg.Signer = NewHashSigner()
	}
	if cfg.Padder == nil {
		p, err := NewPadder(AlphabetAlnum, DefaultPaddingLength)
		if err != nil {
			return nil, err
		}
		cfg.Padder = p
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Issuer{
		scheme:  cfg.Scheme,
		catalog: cfg.Catalog,
		signer:  cfg.Signer,
		padder:  cfg.Padder,
		now:     cfg.Now,
	}, nil
}

// Scheme returns the scheme this issuer produces.
func (is *Issuer) Scheme() Scheme { return is.scheme }

// Catalog returns the module catalog requests are checked against.
func (is *Issuer) Catalog() *Catalog { return is.catalog }

// Algorithm returns the signer variant in use.
func (is *Issuer) Algorithm() Algorithm { return is.signer.Algorithm() }

// DigestLen returns the hex length of the real signature inside a composed one.
func (is *Issuer) DigestLen() int { return is.signer.DigestLen() }

// PaddingLength returns the number of padding characters.
func (is *Issuer) PaddingLength() int { return is.padder.Length() }

// Issue validates req and produces a signed, encoded license. Nothing is
// returned unless every step succeeds.
func (is *Issuer) Issue(req Request) (*Issued, error) {
	now := is.now()

	rec, err := NewRecord(is.scheme, req, is.catalog, now)
	if err != nil {
		return nil, err
	}

	payload := Canonical(rec)

	digest, err := is.signer.Sign(payload)
	if err != nil {
		return nil, err
	}
	if len(digest) != is.signer.DigestLen() {
		return nil, &SignerError{
			Algorithm: is.signer.Algorithm(),
			Err:       fmt.Errorf("signature has %d hex characters, want %d", len(digest), is.signer.DigestLen()),
		}
	}

	padding, err := is.padder.Generate()
	if err != nil {
		return nil, &SignerError{Algorithm: is.signer.Algorithm(), Err: fmt.Errorf("generate padding: %w", err)}
	}

	signed := rec.withSignature(ComposeSignature(padding, digest))

	return &Issued{
		ID:        uuid.New(),
		Scheme:    is.scheme,
		Algorithm: is.signer.Algorithm(),
		Record:    signed,
		Payload:   payload,
		Digest:    digest,
		Padding:   padding,
		Blob:      Encode(signed),
		CreatedAt: now.UTC(),
	}, nil
}
