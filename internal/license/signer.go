package license

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// Algorithm tags the signer variant that produced a signature.
type Algorithm string

const (
	// AlgorithmSHA256 is the keyless hash scheme. It detects corruption but
	// offers no forgery resistance.
	AlgorithmSHA256 Algorithm = "sha256"
	// AlgorithmRSASHA256 is RSA PKCS#1 v1.5 over SHA-256.
	AlgorithmRSASHA256 Algorithm = "rsa-sha256"
)

// HashDigestLen is the hex length of a SHA-256 digest.
const HashDigestLen = sha256.Size * 2

// Signer turns canonical bytes into a lowercase hex signature.
//
// The two implementations are HashSigner and RSASigner. DigestLen is the exact
// hex length Sign returns, which lets a reader strip the random padding.
type Signer interface {
	Algorithm() Algorithm
	DigestLen() int
	Sign(canonical []byte) (string, error)
}

// HashSigner signs with a plain SHA-256 digest. It is used when no private key
// is configured.
type HashSigner struct{}

// NewHashSigner returns the keyless signer.
func NewHashSigner() HashSigner {
	return HashSigner{}
}

// Algorithm returns AlgorithmSHA256.
func (HashSigner) Algorithm() Algorithm { return AlgorithmSHA256 }

// DigestLen returns 64.
func (HashSigner) DigestLen() int { return HashDigestLen }

// Sign returns the hex SHA-256 of canonical.
func (HashSigner) Sign(canonical []byte) (string, error) {
	if len(canonical) == 0 {
		return "", &SignerError{Algorithm: AlgorithmSHA256, Err: errors.New("empty payload")}
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// RSASigner signs with an RSA private key. The key is never modified after
// construction, so one RSASigner may serve concurrent issuances.
type RSASigner struct {
	key *rsa.PrivateKey
}

// NewRSASigner wraps an already parsed private key.
func NewRSASigner(key *rsa.PrivateKey) (*RSASigner, error) {
	if key == nil {
		return nil, &KeyLoadError{Err: errors.New("nil private key")}
	}
	if err := key.Validate(); err != nil {
		return nil, &KeyLoadError{Err: fmt.Errorf("validate private key: %w", err)}
	}
	return &RSASigner{key: key}, nil
}

// Algorithm returns AlgorithmRSASHA256.
func (s *RSASigner) Algorithm() Algorithm { return AlgorithmRSASHA256 }

// DigestLen returns the hex length of a signature, modulus bits / 4.
func (s *RSASigner) DigestLen() int { return s.key.Size() * 2 }

// KeyBits returns the modulus size in bits.
func (s *RSASigner) KeyBits() int { return s.key.N.BitLen() }

// PublicKey returns the public half of the signing key.
func (s *RSASigner) PublicKey() *rsa.PublicKey { return &s.key.PublicKey }

// Sign returns the hex PKCS#1 v1.5 signature over SHA-256(canonical).
// PKCS#1 v1.5 is deterministic: equal keys and payloads give equal signatures.
func (s *RSASigner) Sign(canonical []byte) (string, error) {
	if len(canonical) == 0 {
		return "", &SignerError{Algorithm: AlgorithmRSASHA256, Err: errors.New("empty payload")}
	}
	digest := sha256.Sum256(canonical)
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.key, crypto.SHA256, digest[:])
	if err != nil {
		return "", &SignerError{Algorithm: AlgorithmRSASHA256, Err: err}
	}
	return hex.EncodeToString(sig), nil
}

// NewSigner selects the signer variant from configuration: an empty key path
// gives a HashSigner, anything else loads an RSASigner.
func NewSigner(keyPath string) (Signer, error) {
	if keyPath == "" {
		return NewHashSigner(), nil
	}
	return LoadRSASigner(keyPath)
}
